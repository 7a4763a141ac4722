package catalog

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/booking-api/internal/middleware"
	"github.com/jwalitptl/booking-api/internal/service/catalog"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/httputil"
)

type Handler struct {
	service *catalog.Service
}

func NewHandler(service *catalog.Service) *Handler {
	return &Handler{service: service}
}

// ListServices returns the bookable service catalog, newest first.
func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.service.ActiveServices(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, apperrors.Unavailable("unable to load services", err))
		return
	}
	httputil.RespondWithSuccess(c, services)
}

// ListDoctors returns the clinic's active doctors.
func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListDoctors(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, apperrors.Unavailable("unable to load doctors", err))
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	cacheHeaders := middleware.Cache(middleware.CatalogCacheConfig())
	r.GET("/services", cacheHeaders, h.ListServices)
	r.GET("/doctors", cacheHeaders, h.ListDoctors)
}
