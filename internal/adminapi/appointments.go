package adminapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jwalitptl/booking-api/internal/model"
)

// CreateAppointmentPayload is the provider's public booking contract. It
// carries either an authenticated patientId or the anonymous identity fields.
type CreateAppointmentPayload struct {
	PatientID    string `json:"patientId,omitempty"`
	PatientName  string `json:"patientName,omitempty"`
	ServiceID    string `json:"serviceId"`
	DoctorID     string `json:"doctorId"`
	Date         string `json:"date"`
	Notes        string `json:"notes,omitempty"`
	HealthNumber string `json:"healthNumber,omitempty"`
	Phone        string `json:"phone,omitempty"`
	BirthDate    string `json:"birthDate,omitempty"`
}

// ListAppointments fetches appointments whose start falls within the filter
// window. The provider is queried fresh on every call.
func (c *Client) ListAppointments(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	query := url.Values{}
	if !filter.From.IsZero() {
		query.Set("from", filter.From.Format(time.RFC3339))
	}
	if !filter.To.IsZero() {
		query.Set("to", filter.To.Format(time.RFC3339))
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.PatientID != "" {
		query.Set("patientId", filter.PatientID)
	}

	rawURL, err := c.buildURL(c.cfg.AppointmentsPath, query)
	if err != nil {
		return nil, err
	}

	var appointments []*model.Appointment
	if err := c.do(ctx, "list_appointments", http.MethodGet, rawURL, nil, &appointments); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// CreateAppointment submits a booking to the provider's public endpoint. The
// provider is the admission authority: a 409 means another booking won the
// race and comes back as a *StatusError for the caller to translate.
func (c *Client) CreateAppointment(ctx context.Context, payload CreateAppointmentPayload) (*model.Appointment, error) {
	rawURL, err := c.buildURL(c.cfg.PublicAppointmentsPath, nil)
	if err != nil {
		return nil, err
	}

	var created model.Appointment
	if err := c.do(ctx, "create_appointment", http.MethodPost, rawURL, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
