package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jtully/wayfarer/backend/internal/domain"
)

// rawDay mirrors domain.DayPlan with pointer fields so that an absent key is
// distinguishable from a zero value. day, date and title are required;
// activities defaults to an empty slice when absent.
type rawDay struct {
	Day        *int      `json:"day"`
	Date       *string   `json:"date"`
	Title      *string   `json:"title"`
	Activities *[]string `json:"activities"`
}

type rawItinerary struct {
	TripSummary string          `json:"tripSummary"`
	Days        json.RawMessage `json:"days"`
}

// ParseItinerary extracts a validated itinerary document from raw generator
// output. The text may be wrapped in a fenced code block, which is stripped
// only when anchored at the very start and end of the (trimmed) text.
//
// Validation is all-or-nothing: any structural violation returns
// domain.ErrMalformedItinerary and no partial document. This keeps half-parsed
// itineraries out of storage and rendering — the upstream text is free-form
// generator output with no guaranteed schema, so this boundary is strict.
func ParseItinerary(raw string) (domain.ItineraryDocument, error) {
	text := stripFence(raw)

	var ri rawItinerary
	if err := json.Unmarshal([]byte(text), &ri); err != nil {
		return domain.ItineraryDocument{}, fmt.Errorf("planner.ParseItinerary: %w: %v", domain.ErrMalformedItinerary, err)
	}

	if len(ri.Days) == 0 || string(ri.Days) == "null" {
		return domain.ItineraryDocument{}, fmt.Errorf("planner.ParseItinerary: %w: missing days", domain.ErrMalformedItinerary)
	}

	var rawDays []rawDay
	if err := json.Unmarshal(ri.Days, &rawDays); err != nil {
		return domain.ItineraryDocument{}, fmt.Errorf("planner.ParseItinerary: %w: days is not a sequence: %v", domain.ErrMalformedItinerary, err)
	}
	if len(rawDays) == 0 {
		return domain.ItineraryDocument{}, fmt.Errorf("planner.ParseItinerary: %w: days is empty", domain.ErrMalformedItinerary)
	}

	days := make([]domain.DayPlan, 0, len(rawDays))
	for i, rd := range rawDays {
		if rd.Day == nil || rd.Date == nil || rd.Title == nil {
			return domain.ItineraryDocument{}, fmt.Errorf("planner.ParseItinerary: %w: day entry %d is missing a required field", domain.ErrMalformedItinerary, i)
		}
		if *rd.Day <= 0 {
			return domain.ItineraryDocument{}, fmt.Errorf("planner.ParseItinerary: %w: day entry %d has non-positive day number", domain.ErrMalformedItinerary, i)
		}
		activities := []string{}
		if rd.Activities != nil && *rd.Activities != nil {
			activities = *rd.Activities
		}
		days = append(days, domain.DayPlan{
			Day:        *rd.Day,
			Date:       *rd.Date,
			Title:      *rd.Title,
			Activities: activities,
		})
	}

	return domain.ItineraryDocument{
		TripSummary: ri.TripSummary,
		Days:        days,
	}, nil
}

// stripFence removes a leading ```json (or bare ```) marker and a trailing
// ``` marker from the text. Only anchored prefix/suffix matches are removed;
// fence-like substrings elsewhere in the body are left untouched.
func stripFence(s string) string {
	t := strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(t, "```json"); ok {
		t = rest
	} else if rest, ok := strings.CutPrefix(t, "```"); ok {
		t = rest
	}
	if rest, ok := strings.CutSuffix(strings.TrimSpace(t), "```"); ok {
		t = rest
	}
	return strings.TrimSpace(t)
}
