package components

import (
	"hotel-reservation-engine/internal/handler"
	"hotel-reservation-engine/internal/handler/api"
	"hotel-reservation-engine/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		api.NewAdminReservationHandler,
		api.NewRoomTypeHandler,
		NewHandlers,
		middleware.NewAuthMiddleware,
		NewEngine,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	reservation *api.ReservationHandler,
	admin *api.AdminReservationHandler,
	roomType *api.RoomTypeHandler,
) handler.Handlers {
	return handler.Handlers{
		Reservation: reservation,
		Admin:       admin,
		RoomType:    roomType,
	}
}

func NewEngine() *gin.Engine {
	gin.EnableJsonDecoderDisallowUnknownFields()
	return gin.New()
}
