package model

import "time"

// BookingRequest is a slot submission from the booking form. PatientID comes
// from the identity provider's token when present; anonymous bookings carry
// the identity fields instead.
type BookingRequest struct {
	DoctorID  string `json:"doctorId" binding:"required"`
	ServiceID string `json:"serviceId" binding:"required"`
	Datetime  string `json:"datetime" binding:"required"`
	PatientID string `json:"-"`

	FullName     string `json:"fullName"`
	HealthNumber string `json:"healthNumber"`
	Phone        string `json:"phone"`
	BirthDate    string `json:"birthDate" binding:"omitempty,dateonly"`
	Notes        string `json:"notes" binding:"max=500"`
}

// Anonymous reports whether the request carries no authenticated patient.
func (r *BookingRequest) Anonymous() bool {
	return r.PatientID == ""
}

// BookingResult is the admitted appointment as stored by the provider.
type BookingResult struct {
	AppointmentID string    `json:"appointmentId"`
	Date          time.Time `json:"date"`
}
