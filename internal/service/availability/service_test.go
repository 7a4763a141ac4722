package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/internal/model"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

type fakeLister struct {
	appointments []*model.Appointment
	err          error
	calls        int
	lastFilter   model.AppointmentFilter
}

func (f *fakeLister) ListAppointments(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	f.calls++
	f.lastFilter = filter
	return f.appointments, f.err
}

type fakeCatalog struct {
	services map[string]*model.Service
	err      error
}

func (f *fakeCatalog) GetService(ctx context.Context, id string) (*model.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.services[id], nil
}

func (f *fakeCatalog) DurationIndex(ctx context.Context) (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	index := make(map[string]int)
	for id, svc := range f.services {
		index[id] = svc.DurationMin
	}
	return index, nil
}

func fixedClock(value time.Time) func() time.Time {
	return func() time.Time { return value }
}

func newTestService(lister *fakeLister, cat *fakeCatalog, now time.Time) *Service {
	svc := NewService(lister, cat, config.DefaultCalendarConfig(), nil, nil, time.UTC)
	return svc.WithClock(fixedClock(now))
}

var testCatalog = &fakeCatalog{services: map[string]*model.Service{
	"svc-30": {ID: "svc-30", Name: "Consultation", DurationMin: 30, Active: true},
	"svc-60": {ID: "svc-60", Name: "Deep Clean", DurationMin: 60, Active: true},
	"svc-off": {ID: "svc-off", Name: "Retired", DurationMin: 30, Active: false},
}}

func utc(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestGetAvailability_SingleDate(t *testing.T) {
	lister := &fakeLister{appointments: []*model.Appointment{
		{ID: "apt-1", Date: utc("2026-09-14T10:00:00Z"), Status: model.AppointmentStatusBooked, ServiceID: "svc-30"},
	}}
	svc := newTestService(lister, testCatalog, utc("2026-09-13T12:00:00Z"))

	resp, err := svc.GetAvailability(context.Background(), model.AvailabilityQuery{
		ServiceID: "svc-30",
		Date:      "2026-09-14",
	})

	require.NoError(t, err)
	summary := resp.Availability["2026-09-14"]
	assert.Equal(t, 35, summary.TotalSlots)
	assert.Equal(t, 32, summary.AvailableSlots)
	assert.Len(t, resp.Slots, 32)
	assert.NotContains(t, resp.Slots, "2026-09-14T10:00:00Z")
	assert.Contains(t, resp.Slots, "2026-09-14T10:30:00Z")
	assert.Equal(t, "svc-30", resp.Service.ID)
	assert.Equal(t, 30, resp.Service.DurationMin)
}

func TestGetAvailability_RangeSummariesOnly(t *testing.T) {
	lister := &fakeLister{}
	svc := newTestService(lister, testCatalog, utc("2026-09-01T08:00:00Z"))

	resp, err := svc.GetAvailability(context.Background(), model.AvailabilityQuery{
		ServiceID: "svc-30",
		From:      "2026-09-14",
		To:        "2026-09-16",
	})

	require.NoError(t, err)
	assert.Len(t, resp.Availability, 3)
	assert.Empty(t, resp.Slots)
	for _, key := range []string{"2026-09-14", "2026-09-15", "2026-09-16"} {
		assert.Equal(t, 35, resp.Availability[key].TotalSlots)
		assert.Equal(t, 35, resp.Availability[key].AvailableSlots)
	}

	// Appointment fetch window covers the whole range.
	assert.Equal(t, "2026-09-14", lister.lastFilter.From.Format(model.DateKeyFormat))
	assert.Equal(t, "2026-09-16", lister.lastFilter.To.Format(model.DateKeyFormat))
}

func TestGetAvailability_IdempotentRead(t *testing.T) {
	lister := &fakeLister{appointments: []*model.Appointment{
		{ID: "apt-1", Date: utc("2026-09-14T11:00:00Z"), Status: model.AppointmentStatusBooked, ServiceID: "svc-60"},
	}}
	svc := newTestService(lister, testCatalog, utc("2026-09-13T12:00:00Z"))
	query := model.AvailabilityQuery{ServiceID: "svc-30", Date: "2026-09-14"}

	first, err := svc.GetAvailability(context.Background(), query)
	require.NoError(t, err)
	second, err := svc.GetAvailability(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGetAvailability_ValidationFailures(t *testing.T) {
	svc := newTestService(&fakeLister{}, testCatalog, utc("2026-09-01T08:00:00Z"))

	tests := []struct {
		name  string
		query model.AvailabilityQuery
	}{
		{"missing service", model.AvailabilityQuery{Date: "2026-09-14"}},
		{"no date or range", model.AvailabilityQuery{ServiceID: "svc-30"}},
		{"malformed date", model.AvailabilityQuery{ServiceID: "svc-30", Date: "14/09/2026"}},
		{"from after to", model.AvailabilityQuery{ServiceID: "svc-30", From: "2026-09-20", To: "2026-09-14"}},
		{"range too wide", model.AvailabilityQuery{ServiceID: "svc-30", From: "2026-09-01", To: "2026-12-01"}},
		{"impossible date", model.AvailabilityQuery{ServiceID: "svc-30", Date: "2026-02-30"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetAvailability(context.Background(), tt.query)
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
		})
	}
}

func TestGetAvailability_UnknownOrInactiveService(t *testing.T) {
	svc := newTestService(&fakeLister{}, testCatalog, utc("2026-09-01T08:00:00Z"))

	for _, id := range []string{"missing", "svc-off"} {
		_, err := svc.GetAvailability(context.Background(), model.AvailabilityQuery{
			ServiceID: id,
			Date:      "2026-09-14",
		})
		assert.True(t, apperrors.IsNotFound(err), "service %s must be not found", id)
	}
}

func TestGetAvailability_UpstreamFailure(t *testing.T) {
	lister := &fakeLister{err: errors.New("connection refused")}
	svc := newTestService(lister, testCatalog, utc("2026-09-01T08:00:00Z"))

	_, err := svc.GetAvailability(context.Background(), model.AvailabilityQuery{
		ServiceID: "svc-30",
		Date:      "2026-09-14",
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnavailable, appErr.Code)
}

func TestGetAvailability_DateOutsideRangeRecomputed(t *testing.T) {
	lister := &fakeLister{}
	svc := newTestService(lister, testCatalog, utc("2026-09-01T08:00:00Z"))

	resp, err := svc.GetAvailability(context.Background(), model.AvailabilityQuery{
		ServiceID: "svc-30",
		Date:      "2026-09-20",
		From:      "2026-09-14",
		To:        "2026-09-16",
	})

	require.NoError(t, err)
	assert.Len(t, resp.Availability, 3)
	assert.NotContains(t, resp.Availability, "2026-09-20")
	assert.Len(t, resp.Slots, 35, "out-of-range date still resolves its slot list")
}

func TestGetAvailability_DoctorScopedConflicts(t *testing.T) {
	// Same instant booked for another doctor does not block a doctor-scoped
	// query, but does block the clinic-wide one.
	lister := &fakeLister{appointments: []*model.Appointment{
		{ID: "apt-1", Date: utc("2026-09-14T10:00:00Z"), Status: model.AppointmentStatusBooked, ServiceID: "svc-30", DoctorID: "doc-2"},
	}}
	svc := newTestService(lister, testCatalog, utc("2026-09-13T12:00:00Z"))

	scoped, err := svc.GetAvailability(context.Background(), model.AvailabilityQuery{
		ServiceID: "svc-30",
		DoctorID:  "doc-1",
		Date:      "2026-09-14",
	})
	require.NoError(t, err)
	assert.Contains(t, scoped.Slots, "2026-09-14T10:00:00Z")

	clinicWide, err := svc.GetAvailability(context.Background(), model.AvailabilityQuery{
		ServiceID: "svc-30",
		Date:      "2026-09-14",
	})
	require.NoError(t, err)
	assert.NotContains(t, clinicWide.Slots, "2026-09-14T10:00:00Z")
}

func TestGetAvailability_SameDayLeadTime(t *testing.T) {
	lister := &fakeLister{}
	svc := newTestService(lister, testCatalog, utc("2026-09-14T09:00:00Z"))

	resp, err := svc.GetAvailability(context.Background(), model.AvailabilityQuery{
		ServiceID: "svc-30",
		Date:      "2026-09-14",
	})

	require.NoError(t, err)
	summary := resp.Availability["2026-09-14"]
	assert.Equal(t, 35, summary.TotalSlots)
	assert.Equal(t, 31, summary.AvailableSlots)
	assert.Contains(t, resp.Slots, "2026-09-14T10:00:00Z")
	assert.NotContains(t, resp.Slots, "2026-09-14T09:45:00Z")
}
