package booking

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/booking-api/internal/middleware"
	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/service/booking"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/httputil"
)

type Handler struct {
	service *booking.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *booking.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

// BookAppointment submits a slot booking. Authenticated patients book against
// their identity; anonymous bookings carry the identity fields in the body.
func (h *Handler) BookAppointment(c *gin.Context) {
	var req model.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid booking request", err))
		return
	}

	if patientID := c.GetString(middleware.ContextPatientID); patientID != "" {
		req.PatientID = patientID
	}

	result, err := h.service.Book(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, result)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/appointments", h.auth.PatientOptional(), h.BookAppointment)
}
