// routes/rooms.go
package routes

import (
	"errors"
	"net/http"

	"github.com/kataras/iris/v12"

	"saraih-server/booking"
	"saraih-server/utils"
)

type RoomHandlers struct {
	availability *booking.Availability
}

func NewRoomHandlers(availability *booking.Availability) *RoomHandlers {
	return &RoomHandlers{availability: availability}
}

func (h *RoomHandlers) GetAvailability(ctx iris.Context) {
	roomID := ctx.Params().GetUintDefault("id", 0)
	if roomID == 0 {
		utils.CreateError(ctx, http.StatusBadRequest, "Invalid room ID")
		return
	}
	checkIn, err := parseDate(ctx.URLParam("checkIn"))
	if err != nil {
		utils.CreateError(ctx, http.StatusBadRequest, "checkIn must be a YYYY-MM-DD date")
		return
	}
	checkOut, err := parseDate(ctx.URLParam("checkOut"))
	if err != nil {
		utils.CreateError(ctx, http.StatusBadRequest, "checkOut must be a YYYY-MM-DD date")
		return
	}

	available, err := h.availability.IsAvailable(ctx.Request().Context(), roomID, checkIn, checkOut)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidDateRange) {
			utils.CreateError(ctx, http.StatusBadRequest, err.Error())
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"available": available})
}

func (h *RoomHandlers) GetUnavailableDates(ctx iris.Context) {
	roomID := ctx.Params().GetUintDefault("id", 0)
	if roomID == 0 {
		utils.CreateError(ctx, http.StatusBadRequest, "Invalid room ID")
		return
	}
	start, err := parseDate(ctx.URLParam("start"))
	if err != nil {
		utils.CreateError(ctx, http.StatusBadRequest, "start must be a YYYY-MM-DD date")
		return
	}
	end, err := parseDate(ctx.URLParam("end"))
	if err != nil {
		utils.CreateError(ctx, http.StatusBadRequest, "end must be a YYYY-MM-DD date")
		return
	}

	dates, err := h.availability.UnavailableDates(ctx.Request().Context(), roomID, start, end)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidDateRange) {
			utils.CreateError(ctx, http.StatusBadRequest, err.Error())
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	ctx.JSON(iris.Map{"unavailableDates": out})
}
