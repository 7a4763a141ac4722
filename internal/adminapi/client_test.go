package adminapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/internal/model"
)

func testClient(baseURL string) *Client {
	return NewClient(config.AdminAPIConfig{
		BaseURL:                baseURL,
		APIKey:                 "test-key",
		AppointmentsPath:       "/api/appointments",
		PublicAppointmentsPath: "/api/public/appointments",
		ServicesPath:           "/api/services",
		DoctorsPath:            "/api/doctors",
		RequestTimeout:         5 * time.Second,
	}, nil)
}

func TestListAppointments_SendsFilterAndAuth(t *testing.T) {
	var gotAuth, gotFrom, gotStatus string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFrom = r.URL.Query().Get("from")
		gotStatus = r.URL.Query().Get("status")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"apt-1","date":"2026-09-14T10:00:00Z","status":"BOOKED","serviceId":"svc-1"}]`))
	}))
	defer srv.Close()

	from := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	appts, err := testClient(srv.URL).ListAppointments(context.Background(), model.AppointmentFilter{
		From:   from,
		Status: model.AppointmentStatusBooked,
	})

	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, "apt-1", appts[0].ID)
	assert.Equal(t, model.AppointmentStatusBooked, appts[0].Status)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, from.Format(time.RFC3339), gotFrom)
	assert.Equal(t, "BOOKED", gotStatus)
}

func TestCreateAppointment_ConflictSurfacesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"slot already booked"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreateAppointment(context.Background(), CreateAppointmentPayload{
		ServiceID: "svc-1",
		DoctorID:  "doc-1",
		Date:      "2026-09-14T10:00:00Z",
	})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
	assert.Equal(t, "slot already booked", statusErr.Message)
}

func TestCreateAppointment_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/public/appointments", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"apt-9","date":"2026-09-14T10:00:00Z","status":"BOOKED","serviceId":"svc-1"}`))
	}))
	defer srv.Close()

	created, err := testClient(srv.URL).CreateAppointment(context.Background(), CreateAppointmentPayload{
		ServiceID: "svc-1",
		DoctorID:  "doc-1",
		Date:      "2026-09-14T10:00:00Z",
	})

	require.NoError(t, err)
	assert.Equal(t, "apt-9", created.ID)
}

func TestGetService_NotFoundReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	service, err := testClient(srv.URL).GetService(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, service)
}

func TestListServices_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListServices(context.Background())
	require.Error(t, err)
}

func TestListDoctors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/doctors", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"doc-1","name":"Dr. Osei","active":true}]`))
	}))
	defer srv.Close()

	doctors, err := testClient(srv.URL).ListDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr. Osei", doctors[0].Name)
}
