package domain

import "time"

// TripRequest carries the caller-supplied inputs for itinerary generation.
// It has no identity and is consumed once by the prompt builder.
type TripRequest struct {
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	// Interests and ExtraNotes are optional free text. The prompt builder
	// substitutes documented placeholders when they are empty.
	Interests  string
	ExtraNotes string
}

// ItineraryDocument is the validated structured travel plan extracted from
// the generator's raw output. A document is either fully absent (generation
// or parse failure) or structurally complete — every DayPlan carries day,
// date, title and a non-nil activities slice.
//
// The JSON field names are part of the generation contract: the prompt
// instructs the generator to emit exactly this shape.
type ItineraryDocument struct {
	TripSummary string    `json:"tripSummary,omitempty"`
	Days        []DayPlan `json:"days"`
}

// DayPlan is one day of an itinerary. Day is the ordinal day number (1-based,
// not necessarily contiguous). Date is the ISO calendar date as emitted by
// the generator. Activities may be empty but is never nil after parsing.
type DayPlan struct {
	Day        int      `json:"day"`
	Date       string   `json:"date"`
	Title      string   `json:"title"`
	Activities []string `json:"activities"`
}
