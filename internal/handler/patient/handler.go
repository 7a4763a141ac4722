package patient

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/booking-api/internal/middleware"
	"github.com/jwalitptl/booking-api/internal/model"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/httputil"
)

// AppointmentLister reads appointments from the admin API.
type AppointmentLister interface {
	ListAppointments(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error)
}

type Handler struct {
	appointments AppointmentLister
	auth         *middleware.AuthMiddleware
}

func NewHandler(appointments AppointmentLister, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{appointments: appointments, auth: auth}
}

// ListMyAppointments returns the authenticated patient's appointment history.
func (h *Handler) ListMyAppointments(c *gin.Context) {
	patientID := c.GetString(middleware.ContextPatientID)
	if patientID == "" {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	appointments, err := h.appointments.ListAppointments(c.Request.Context(), model.AppointmentFilter{
		PatientID: patientID,
	})
	if err != nil {
		httputil.RespondWithError(c, apperrors.Unavailable("unable to load appointments", err))
		return
	}

	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	me := r.Group("/me", h.auth.PatientRequired())
	{
		me.GET("/appointments", h.ListMyAppointments)
	}
}
