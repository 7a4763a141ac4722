package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/middleware"
	"github.com/jwalitptl/booking-api/internal/model"
)

const testSecret = "test-secret"

type fakeLister struct {
	appointments []*model.Appointment
	lastFilter   model.AppointmentFilter
}

func (f *fakeLister) ListAppointments(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	f.lastFilter = filter
	return f.appointments, nil
}

func newTestRouter(lister *fakeLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := middleware.NewAuthMiddleware(testSecret)

	engine := gin.New()
	NewHandler(lister, auth).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func patientToken(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestListMyAppointments_RequiresToken(t *testing.T) {
	engine := newTestRouter(&fakeLister{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/appointments", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListMyAppointments_FiltersByPatient(t *testing.T) {
	lister := &fakeLister{appointments: []*model.Appointment{
		{ID: "apt-1", Date: time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC), Status: model.AppointmentStatusBooked, ServiceID: "svc-1", PatientID: "patient-77"},
	}}
	engine := newTestRouter(lister)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+patientToken(t, "patient-77"))
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "patient-77", lister.lastFilter.PatientID)

	var body struct {
		Success bool                 `json:"success"`
		Data    []*model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "apt-1", body.Data[0].ID)
}

func TestListMyAppointments_RejectsBadToken(t *testing.T) {
	engine := newTestRouter(&fakeLister{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/appointments", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
