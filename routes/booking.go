// routes/booking.go
package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"

	"saraih-server/booking"
	"saraih-server/models"
	"saraih-server/storage"
	"saraih-server/utils"
)

type BookingHandlers struct {
	svc      *booking.Service
	bookings *storage.BookingStore
	validate *validator.Validate
}

func NewBookingHandlers(svc *booking.Service, bookings *storage.BookingStore) *BookingHandlers {
	return &BookingHandlers{svc: svc, bookings: bookings, validate: validator.New()}
}

type createBookingInput struct {
	RoomID          uint   `json:"roomId" validate:"required"`
	CheckIn         string `json:"checkIn" validate:"required"`
	CheckOut        string `json:"checkOut" validate:"required"`
	Adults          int    `json:"adults" validate:"required,min=1"`
	Children        int    `json:"children" validate:"min=0"`
	Rooms           int    `json:"rooms" validate:"min=0"`
	SpecialRequests string `json:"specialRequests"`
	PromoCode       string `json:"promoCode"`
}

func (h *BookingHandlers) CreateBooking(ctx iris.Context) {
	var input createBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.CreateError(ctx, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		utils.CreateValidationError(ctx, err)
		return
	}
	checkIn, err := parseDate(input.CheckIn)
	if err != nil {
		utils.CreateError(ctx, http.StatusBadRequest, "checkIn must be a YYYY-MM-DD date")
		return
	}
	checkOut, err := parseDate(input.CheckOut)
	if err != nil {
		utils.CreateError(ctx, http.StatusBadRequest, "checkOut must be a YYYY-MM-DD date")
		return
	}

	guestID := ctx.Values().Get("userID").(uint)
	b, err := h.svc.Create(ctx.Request().Context(), booking.CreateInput{
		RoomID:          input.RoomID,
		GuestID:         guestID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          input.Adults,
		Children:        input.Children,
		Rooms:           input.Rooms,
		SpecialRequests: input.SpecialRequests,
		PromoCode:       input.PromoCode,
	})
	if err != nil {
		writeBookingError(ctx, err)
		return
	}

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(b)
}

func (h *BookingHandlers) GetBooking(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		utils.CreateError(ctx, http.StatusBadRequest, "Invalid booking ID")
		return
	}
	b, err := h.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		writeBookingError(ctx, err)
		return
	}
	if !canAccess(ctx, b) {
		utils.CreateError(ctx, http.StatusForbidden, "You don't have permission to view this booking")
		return
	}
	ctx.JSON(b)
}

func (h *BookingHandlers) GetMyBookings(ctx iris.Context) {
	guestID := ctx.Values().Get("userID").(uint)
	out, err := h.bookings.ByGuest(ctx.Request().Context(), guestID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(out)
}

type transitionInput struct {
	TargetStatus string `json:"targetStatus" validate:"required"`
}

func (h *BookingHandlers) TransitionBooking(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		utils.CreateError(ctx, http.StatusBadRequest, "Invalid booking ID")
		return
	}
	var input transitionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.CreateError(ctx, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		utils.CreateValidationError(ctx, err)
		return
	}

	b, err := h.svc.Transition(ctx.Request().Context(), id, models.BookingStatus(input.TargetStatus), actor(ctx))
	if err != nil {
		writeBookingError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"status": b.Status, "updatedAt": b.UpdatedAt})
}

type cancelInput struct {
	Reason string `json:"reason"`
}

func (h *BookingHandlers) CancelBooking(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		utils.CreateError(ctx, http.StatusBadRequest, "Invalid booking ID")
		return
	}
	var input cancelInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.CreateError(ctx, http.StatusBadRequest, "Invalid request payload")
		return
	}

	b, err := h.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		writeBookingError(ctx, err)
		return
	}
	if !canAccess(ctx, b) {
		utils.CreateError(ctx, http.StatusForbidden, "You don't have permission to cancel this booking")
		return
	}

	reason := input.Reason
	if reason == "" {
		reason = "cancelled by " + actor(ctx)
	}
	b, err = h.svc.Cancel(ctx.Request().Context(), id, reason, actor(ctx))
	if err != nil {
		writeBookingError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"status": b.Status, "refundAmount": b.RefundAmount})
}

func canAccess(ctx iris.Context, b *models.Booking) bool {
	if role, _ := ctx.Values().Get("role").(string); role == "staff" {
		return true
	}
	guestID, _ := ctx.Values().Get("userID").(uint)
	return b.GuestID == guestID
}

func actor(ctx iris.Context) string {
	if role, _ := ctx.Values().Get("role").(string); role == "staff" {
		return "staff"
	}
	return "guest"
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

func writeBookingError(ctx iris.Context, err error) {
	var unavailable *booking.UnavailableError
	switch {
	case errors.As(err, &unavailable):
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{
			"error":            "The room is not available for the selected dates",
			"conflictCheckIn":  unavailable.CheckIn.Format("2006-01-02"),
			"conflictCheckOut": unavailable.CheckOut.Format("2006-01-02"),
		})
	case errors.Is(err, booking.ErrInvalidDateRange):
		utils.CreateError(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrInvalidTransition):
		utils.CreateError(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		utils.CreateNotFound(ctx)
	case errors.Is(err, booking.ErrConcurrencyConflict):
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{"error": "The booking was modified concurrently, retry the request", "retryable": true})
	default:
		utils.CreateInternalServerError(ctx)
	}
}
