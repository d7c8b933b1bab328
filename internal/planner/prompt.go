// Package planner implements the itinerary generation pipeline: building the
// prompt sent to the text-generation service, calling the service, and
// parsing its free-form reply into a validated domain.ItineraryDocument.
package planner

import (
	"fmt"
	"strings"

	"github.com/jtully/wayfarer/backend/internal/domain"
)

// Placeholders substituted for absent optional fields so the prompt never
// contains an empty interpolation.
const (
	placeholderInterests = "none specified"
	placeholderNotes     = "none"
)

// promptTemplate declares the output contract the parser depends on. The
// field names and nesting inside the JSON example must stay in sync with
// domain.ItineraryDocument's JSON tags.
const promptTemplate = `
You are a professional travel planner.

Create a **day-by-day travel itinerary** for a trip to %s
from %s to %s.
Interests: %s.
Extra notes: %s.

Format the output strictly as valid JSON with this structure:

{
  "tripSummary": "string",
  "days": [
    {
      "day": 1,
      "date": "YYYY-MM-DD",
      "title": "string",
      "activities": ["activity 1", "activity 2", "activity 3"]
    }
  ]
}
`

// BuildPrompt turns a trip request into the prompt text for the generation
// service. Pure function: same request, same prompt. The caller is expected
// to have validated that destination and the date range are present.
func BuildPrompt(req domain.TripRequest) string {
	interests := strings.TrimSpace(req.Interests)
	if interests == "" {
		interests = placeholderInterests
	}
	notes := strings.TrimSpace(req.ExtraNotes)
	if notes == "" {
		notes = placeholderNotes
	}

	return fmt.Sprintf(promptTemplate,
		req.Destination,
		req.StartDate.Format("2006-01-02"),
		req.EndDate.Format("2006-01-02"),
		interests,
		notes,
	)
}
