// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/kataras/iris/v12"

	"saraih-server/utils"
)

type Claims struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"` // guest or staff
	jwt.RegisteredClaims
}

// RequireAuth verifies the bearer token and places userID and role into
// the request values for the handlers.
func RequireAuth(secret string) iris.Handler {
	return func(ctx iris.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.CreateError(ctx, http.StatusUnauthorized, "Missing or malformed token")
			return
		}
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
			func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
		if err != nil || !token.Valid {
			utils.CreateError(ctx, http.StatusUnauthorized, "Invalid token")
			return
		}
		ctx.Values().Set("userID", claims.UserID)
		ctx.Values().Set("role", claims.Role)
		ctx.Next()
	}
}

// RequireStaff allows only staff tokens through.
func RequireStaff(ctx iris.Context) {
	if role, _ := ctx.Values().Get("role").(string); role != "staff" {
		utils.CreateError(ctx, http.StatusForbidden, "Staff access required")
		return
	}
	ctx.Next()
}
