package booking

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jwalitptl/booking-api/internal/adminapi"
	"github.com/jwalitptl/booking-api/internal/model"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

// ConflictMessage is the user-facing text for a lost booking race.
const ConflictMessage = "That time slot was just booked. Please pick another time."

const (
	minHealthNumberLen = 4
	minPhoneLen        = 7
	maxNotesLen        = 500
)

// AppointmentCreator is the write side of the admin API.
type AppointmentCreator interface {
	CreateAppointment(ctx context.Context, payload adminapi.CreateAppointmentPayload) (*model.Appointment, error)
}

// Service validates booking requests and submits them to the provider. The
// provider is the admission authority: its conflict response, not any local
// check, is what guarantees at most one booking per slot.
type Service struct {
	provider AppointmentCreator
	metrics  *metrics.Metrics
}

func NewService(provider AppointmentCreator, m *metrics.Metrics) *Service {
	return &Service{provider: provider, metrics: m}
}

// Book validates the request locally, submits it, and translates the
// provider's verdict. A provider 409 maps to a conflict error telling the
// user to pick another time; the caller is expected to re-query availability.
func (s *Service) Book(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error) {
	if s.metrics != nil {
		s.metrics.BookingAttempts.Inc()
	}

	start, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	payload := adminapi.CreateAppointmentPayload{
		ServiceID: req.ServiceID,
		DoctorID:  req.DoctorID,
		Date:      start.UTC().Format(time.RFC3339),
		Notes:     strings.TrimSpace(req.Notes),
	}
	if req.Anonymous() {
		payload.PatientName = strings.TrimSpace(req.FullName)
		payload.HealthNumber = strings.TrimSpace(req.HealthNumber)
		payload.Phone = strings.TrimSpace(req.Phone)
		payload.BirthDate = req.BirthDate
	} else {
		payload.PatientID = req.PatientID
	}

	created, err := s.provider.CreateAppointment(ctx, payload)
	if err != nil {
		return nil, s.translate(err)
	}

	return &model.BookingResult{
		AppointmentID: created.ID,
		Date:          created.Date,
	}, nil
}

func (s *Service) validate(req *model.BookingRequest) (time.Time, error) {
	if req.ServiceID == "" {
		return time.Time{}, apperrors.BadRequest("service is required", nil)
	}
	if req.DoctorID == "" {
		return time.Time{}, apperrors.BadRequest("doctor is required", nil)
	}
	if req.Datetime == "" {
		return time.Time{}, apperrors.BadRequest("appointment time is required", nil)
	}

	start, err := time.Parse(time.RFC3339, req.Datetime)
	if err != nil {
		return time.Time{}, apperrors.BadRequest("invalid appointment date", err)
	}

	if len(req.Notes) > maxNotesLen {
		return time.Time{}, apperrors.BadRequest("notes are too long", nil)
	}

	if req.Anonymous() {
		if strings.TrimSpace(req.FullName) == "" {
			return time.Time{}, apperrors.BadRequest("full name is required", nil)
		}
		if len(strings.TrimSpace(req.HealthNumber)) < minHealthNumberLen {
			return time.Time{}, apperrors.BadRequest("health number is required", nil)
		}
		if len(strings.TrimSpace(req.Phone)) < minPhoneLen {
			return time.Time{}, apperrors.BadRequest("phone number is required", nil)
		}
		if _, err := time.Parse(model.DateKeyFormat, req.BirthDate); err != nil {
			return time.Time{}, apperrors.BadRequest("birth date must be formatted as YYYY-MM-DD", err)
		}
	}

	return start, nil
}

// translate maps provider responses onto the error taxonomy. Only the
// conflict case carries a specific user-facing message; everything else is a
// generic failure with the raw body kept server-side. Other provider
// responses echo the provider's status code; transport failures fall back
// to 500.
func (s *Service) translate(err error) error {
	var statusErr *adminapi.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusConflict:
			if s.metrics != nil {
				s.metrics.BookingConflicts.Inc()
			}
			return apperrors.Conflict(ConflictMessage, err)
		case http.StatusBadRequest:
			if s.metrics != nil {
				s.metrics.BookingFailures.Inc()
			}
			return apperrors.BadRequest("unable to book appointment right now", err)
		}
		if s.metrics != nil {
			s.metrics.BookingFailures.Inc()
		}
		return apperrors.Unavailable("unable to book appointment right now", err).
			WithStatus(statusErr.StatusCode)
	}
	if s.metrics != nil {
		s.metrics.BookingFailures.Inc()
	}
	return apperrors.Unavailable("unable to book appointment right now", err)
}
