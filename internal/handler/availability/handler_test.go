package availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/internal/model"
	availabilityService "github.com/jwalitptl/booking-api/internal/service/availability"
)

type fakeLister struct {
	appointments []*model.Appointment
	err          error
}

func (f *fakeLister) ListAppointments(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	return f.appointments, f.err
}

type fakeCatalog struct {
	services map[string]*model.Service
}

func (f *fakeCatalog) GetService(ctx context.Context, id string) (*model.Service, error) {
	return f.services[id], nil
}

func (f *fakeCatalog) DurationIndex(ctx context.Context) (map[string]int, error) {
	index := make(map[string]int)
	for id, svc := range f.services {
		index[id] = svc.DurationMin
	}
	return index, nil
}

func newTestRouter(appointments []*model.Appointment) *gin.Engine {
	return newTestRouterWithLister(&fakeLister{appointments: appointments})
}

func newTestRouterWithLister(lister *fakeLister) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cat := &fakeCatalog{services: map[string]*model.Service{
		"svc-30": {ID: "svc-30", Name: "Consultation", DurationMin: 30, Active: true},
	}}
	svc := availabilityService.NewService(lister, cat, config.DefaultCalendarConfig(), nil, nil, time.UTC).
		WithClock(func() time.Time { return time.Date(2026, 9, 13, 12, 0, 0, 0, time.UTC) })

	engine := gin.New()
	NewHandler(svc).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

type availabilityEnvelope struct {
	Success bool                       `json:"success"`
	Data    model.AvailabilityResponse `json:"data"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, engine *gin.Engine, target string) (*httptest.ResponseRecorder, availabilityEnvelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	engine.ServeHTTP(w, req)

	var body availabilityEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestGetAvailability_SingleDate(t *testing.T) {
	engine := newTestRouter([]*model.Appointment{
		{ID: "apt-1", Date: time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC), Status: model.AppointmentStatusBooked, ServiceID: "svc-30"},
	})

	w, body := doRequest(t, engine, "/api/v1/availability?serviceId=svc-30&date=2026-09-14")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, 35, body.Data.Availability["2026-09-14"].TotalSlots)
	assert.Equal(t, 32, body.Data.Availability["2026-09-14"].AvailableSlots)
	assert.NotContains(t, body.Data.Slots, "2026-09-14T10:00:00Z")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestGetAvailability_MissingParams(t *testing.T) {
	engine := newTestRouter(nil)

	w, body := doRequest(t, engine, "/api/v1/availability?serviceId=svc-30")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Message, "date")
}

func TestGetAvailability_UnknownService(t *testing.T) {
	engine := newTestRouter(nil)

	w, body := doRequest(t, engine, "/api/v1/availability?serviceId=nope&date=2026-09-14")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, body.Success)
}

func TestGetAvailability_UpstreamFailureReturns500(t *testing.T) {
	engine := newTestRouterWithLister(&fakeLister{err: errors.New("connection refused")})

	w, body := doRequest(t, engine, "/api/v1/availability?serviceId=svc-30&date=2026-09-14")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.NotContains(t, body.Error.Message, "connection refused")
}

func TestGetAvailability_RangeQuery(t *testing.T) {
	engine := newTestRouter(nil)

	w, body := doRequest(t, engine, "/api/v1/availability?serviceId=svc-30&from=2026-09-14&to=2026-09-15")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body.Data.Availability, 2)
	assert.Empty(t, body.Data.Slots)
}
