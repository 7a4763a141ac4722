package model

import "time"

// Service is a bookable offering owned by the admin API catalog. This side
// only reads it.
type Service struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DurationMin int       `json:"durationMin"`
	PriceCents  int       `json:"priceCents"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// ServiceSummary is the echo of the resolved service returned with every
// availability response.
type ServiceSummary struct {
	ID          string `json:"id"`
	DurationMin int    `json:"durationMin"`
	Name        string `json:"name"`
}

func (s *Service) Summary() ServiceSummary {
	return ServiceSummary{
		ID:          s.ID,
		DurationMin: s.DurationMin,
		Name:        s.Name,
	}
}
