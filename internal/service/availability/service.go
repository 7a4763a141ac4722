package availability

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/jwalitptl/booking-api/internal/availability"
	"github.com/jwalitptl/booking-api/internal/cache"
	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/internal/model"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// AppointmentLister is the appointment read side of the admin API.
type AppointmentLister interface {
	ListAppointments(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error)
}

// Catalog resolves services and their durations.
type Catalog interface {
	GetService(ctx context.Context, id string) (*model.Service, error)
	DurationIndex(ctx context.Context) (map[string]int, error)
}

// Service orchestrates the slot calculator across a date range. It reads the
// catalog and the appointment list concurrently, joins, then computes per-day
// summaries.
type Service struct {
	appointments AppointmentLister
	catalog      Catalog
	calc         *availability.Calculator
	policy       config.CalendarConfig
	summaryCache *cache.SummaryCache
	metrics      *metrics.Metrics
	loc          *time.Location
	now          func() time.Time
}

func NewService(appointments AppointmentLister, cat Catalog, policy config.CalendarConfig, summaryCache *cache.SummaryCache, m *metrics.Metrics, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		appointments: appointments,
		catalog:      cat,
		calc:         availability.NewCalculator(policy),
		policy:       policy,
		summaryCache: summaryCache,
		metrics:      m,
		loc:          loc,
		now:          time.Now,
	}
}

// WithClock overrides the service's notion of "now". Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type dateRange struct {
	start time.Time
	end   time.Time
}

func (s *Service) resolveRange(query model.AvailabilityQuery) (dateRange, error) {
	fromRaw := query.From
	toRaw := query.To
	if fromRaw == "" {
		fromRaw = query.Date
	}
	if toRaw == "" {
		toRaw = query.Date
	}
	if fromRaw == "" || toRaw == "" {
		return dateRange{}, apperrors.BadRequest("provide a single date or a date range using from/to", nil)
	}

	for _, raw := range []string{fromRaw, toRaw} {
		if !dateKeyPattern.MatchString(raw) {
			return dateRange{}, apperrors.BadRequest(fmt.Sprintf("date %q must be formatted as YYYY-MM-DD", raw), nil)
		}
	}

	start, err := availability.ParseDateOnly(fromRaw, s.loc)
	if err != nil {
		return dateRange{}, apperrors.BadRequest("invalid date range", err)
	}
	end, err := availability.ParseDateOnly(toRaw, s.loc)
	if err != nil {
		return dateRange{}, apperrors.BadRequest("invalid date range", err)
	}
	if start.After(end) {
		return dateRange{}, apperrors.BadRequest("invalid date range", nil)
	}
	if availability.DaysBetween(start, end) > s.policy.MaxRangeDays {
		return dateRange{}, apperrors.BadRequest(fmt.Sprintf("requested range exceeds %d days", s.policy.MaxRangeDays), nil)
	}

	return dateRange{start: start, end: end}, nil
}

// GetAvailability validates the query, resolves the service, and computes the
// per-day summaries for the inclusive range. A single-date request also
// returns that day's bookable slot instants.
func (s *Service) GetAvailability(ctx context.Context, query model.AvailabilityQuery) (*model.AvailabilityResponse, error) {
	started := time.Now()
	resp, err := s.getAvailability(ctx, query)
	if s.metrics != nil {
		s.metrics.AvailabilityLatency.Observe(time.Since(started).Seconds())
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.AvailabilityQueries.WithLabelValues(outcome).Inc()
	}
	return resp, err
}

func (s *Service) getAvailability(ctx context.Context, query model.AvailabilityQuery) (*model.AvailabilityResponse, error) {
	if query.ServiceID == "" {
		return nil, apperrors.BadRequest("serviceId is required", nil)
	}

	r, err := s.resolveRange(query)
	if err != nil {
		return nil, err
	}

	// The catalog and the appointment list have no ordering dependency, so
	// the two reads run concurrently and join here.
	var (
		wg           sync.WaitGroup
		service      *model.Service
		durations    map[string]int
		appointments []*model.Appointment
		catalogErr   error
		apptErr      error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		service, catalogErr = s.catalog.GetService(ctx, query.ServiceID)
		if catalogErr == nil {
			durations, catalogErr = s.catalog.DurationIndex(ctx)
		}
	}()
	go func() {
		defer wg.Done()
		appointments, apptErr = s.appointments.ListAppointments(ctx, model.AppointmentFilter{
			From: availability.StartOfDay(r.start),
			To:   availability.EndOfDay(r.end),
		})
	}()
	wg.Wait()

	if catalogErr != nil {
		return nil, apperrors.Unavailable("unable to determine availability", catalogErr)
	}
	if service == nil || !service.Active {
		return nil, apperrors.NotFound("service", nil)
	}
	if apptErr != nil {
		return nil, apperrors.Unavailable("unable to determine availability", apptErr)
	}

	if query.DoctorID != "" {
		appointments = filterByDoctor(appointments, query.DoctorID)
	}

	rangeOnly := query.Date == ""
	fromKey := availability.DateKey(r.start)
	toKey := availability.DateKey(r.end)

	if rangeOnly {
		if cached := s.summaryCache.Get(ctx, service.ID, query.DoctorID, fromKey, toKey); cached != nil {
			if s.metrics != nil {
				s.metrics.SummaryCacheHits.Inc()
			}
			return &model.AvailabilityResponse{
				Availability: cached,
				Slots:        []string{},
				Service:      service.Summary(),
			}, nil
		}
		if s.metrics != nil {
			s.metrics.SummaryCacheMisses.Inc()
		}
	}

	now := s.now().In(s.loc)
	grouped := availability.GroupByDay(appointments, s.loc)
	summaries := make(map[string]model.DaySummary)
	var slots []string

	for day := r.start; !day.After(r.end); day = day.AddDate(0, 0, 1) {
		key := availability.DateKey(day)
		result := s.calc.ComputeDay(day, service.DurationMin, grouped[key], durations, now)
		if s.metrics != nil {
			s.metrics.DaysComputed.Inc()
		}

		summaries[key] = model.DaySummary{
			TotalSlots:     result.TotalSlots,
			AvailableSlots: len(result.Available),
		}

		if query.Date != "" && key == query.Date {
			slots = formatSlots(result.Available)
		}
	}

	// A requested date outside an explicit range still gets its slot list
	// rather than an error.
	if query.Date != "" && slots == nil {
		targetDay, err := availability.ParseDateOnly(query.Date, s.loc)
		if err == nil {
			result := s.calc.ComputeDay(targetDay, service.DurationMin, grouped[query.Date], durations, now)
			slots = formatSlots(result.Available)
		} else {
			slots = []string{}
		}
	}
	if slots == nil {
		slots = []string{}
	}

	if rangeOnly {
		s.summaryCache.Set(ctx, service.ID, query.DoctorID, fromKey, toKey, summaries)
	}

	return &model.AvailabilityResponse{
		Availability: summaries,
		Slots:        slots,
		Service:      service.Summary(),
	}, nil
}

func filterByDoctor(appointments []*model.Appointment, doctorID string) []*model.Appointment {
	filtered := make([]*model.Appointment, 0, len(appointments))
	for _, appt := range appointments {
		if appt.DoctorID == doctorID {
			filtered = append(filtered, appt)
		}
	}
	return filtered
}

func formatSlots(instants []time.Time) []string {
	formatted := make([]string, len(instants))
	for i, instant := range instants {
		formatted[i] = instant.UTC().Format(time.RFC3339)
	}
	return formatted
}
