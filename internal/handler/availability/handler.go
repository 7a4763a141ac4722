package availability

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/booking-api/internal/middleware"
	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/service/availability"
	"github.com/jwalitptl/booking-api/pkg/httputil"
)

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

// GetAvailability resolves per-day slot summaries for a service, and the
// full slot list when a single date is requested.
func (h *Handler) GetAvailability(c *gin.Context) {
	query := model.AvailabilityQuery{
		ServiceID: c.Query("serviceId"),
		DoctorID:  c.Query("doctorId"),
		Date:      c.Query("date"),
		From:      c.Query("from"),
		To:        c.Query("to"),
	}

	resp, err := h.service.GetAvailability(c.Request.Context(), query)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Availability must always be revalidated; responses are never cacheable.
	r.GET("/availability", middleware.Cache(middleware.NoStoreCacheConfig()), h.GetAvailability)
}
