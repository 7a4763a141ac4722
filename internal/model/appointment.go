package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "BOOKED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow    AppointmentStatus = "NO_SHOW"
)

// Appointment mirrors the admin API's appointment record. A BOOKED
// appointment occupies the half-open interval [Date, Date+serviceDuration);
// cancelled and no-show appointments occupy nothing.
type Appointment struct {
	ID                string            `json:"id"`
	Date              time.Time         `json:"date"`
	Status            AppointmentStatus `json:"status"`
	ServiceID         string            `json:"serviceId"`
	DoctorID          string            `json:"staffId,omitempty"`
	PatientID         string            `json:"patientId,omitempty"`
	CustomPatientName string            `json:"customPatientName,omitempty"`
	Notes             string            `json:"notes,omitempty"`
}

// Occupies reports whether the appointment blocks clinic time.
func (a *Appointment) Occupies() bool {
	return a.Status != AppointmentStatusCancelled && a.Status != AppointmentStatusNoShow
}

// AppointmentFilter narrows an appointment list read against the admin API.
type AppointmentFilter struct {
	From      time.Time
	To        time.Time
	Status    AppointmentStatus
	PatientID string
}
