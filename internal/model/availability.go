package model

// DateKeyFormat is the wire format for local calendar dates.
const DateKeyFormat = "2006-01-02"

// DaySummary is the aggregate slot count for one calendar day, computed fresh
// on every query and never persisted.
type DaySummary struct {
	TotalSlots     int `json:"totalSlots"`
	AvailableSlots int `json:"availableSlots"`
}

// AvailabilityQuery is a parsed availability request. Exactly one of Date or
// From/To must be set; the handler enforces the formats before parsing.
type AvailabilityQuery struct {
	ServiceID string
	DoctorID  string
	Date      string
	From      string
	To        string
}

// AvailabilityResponse maps date keys to day summaries. Slots carries the
// bookable start instants only when a single date was requested.
type AvailabilityResponse struct {
	Availability map[string]DaySummary `json:"availability"`
	Slots        []string              `json:"slots"`
	Service      ServiceSummary        `json:"service"`
}
