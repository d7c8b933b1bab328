package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/samber/lo"

	"github.com/jtully/wayfarer/backend/internal/domain"
	"github.com/jtully/wayfarer/backend/internal/middleware"
)

// generateItineraryRequest is the body of POST /api/itinerary.
type generateItineraryRequest struct {
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Interests   string             `json:"interests,omitempty"`
	Notes       string             `json:"notes,omitempty"`
}

// saveTripRequest is the body of POST /api/trips. Itinerary is accepted as
// raw JSON so clients can send either the generator's raw text (a JSON
// string) or an already-parsed itinerary object; either way it is persisted
// verbatim.
type saveTripRequest struct {
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Itinerary   json.RawMessage    `json:"itinerary"`
}

// tripResponse is the wire form of a trip without its itinerary payload.
type tripResponse struct {
	ID          uuid.UUID          `json:"id"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Status      domain.TripStatus  `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// tripDetailResponse adds the itinerary to a single-trip response. When the
// stored payload parses, Itinerary carries the structured document; otherwise
// ItineraryRaw carries the payload verbatim and Degraded is set.
type tripDetailResponse struct {
	tripResponse
	Itinerary    *domain.ItineraryDocument `json:"itinerary,omitempty"`
	ItineraryRaw string                    `json:"itinerary_raw,omitempty"`
	Degraded     bool                      `json:"degraded,omitempty"`
}

// GenerateItinerary handles POST /api/itinerary.
// It returns the generator's raw reply without validating it — the client
// previews the text and decides whether to save it.
func (s *Server) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	_, ok := middleware.OwnerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var body generateItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	raw, err := s.trips.GenerateItinerary(r.Context(), domain.TripRequest{
		Destination: body.Destination,
		StartDate:   body.StartDate.Time,
		EndDate:     body.EndDate.Time,
		Interests:   body.Interests,
		ExtraNotes:  body.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			validationFailed(w, err)
		case errors.Is(err, domain.ErrGenerationUnavailable), errors.Is(err, domain.ErrGenerationEmpty):
			writeError(w, http.StatusBadGateway, "generation_failed", "itinerary generation failed")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"itinerary": raw})
}

// SaveTrip handles POST /api/trips.
func (s *Server) SaveTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var body saveTripRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := s.trips.SaveTrip(r.Context(), ownerID, domain.Trip{
		Destination: body.Destination,
		StartDate:   body.StartDate.Time,
		EndDate:     body.EndDate.Time,
		Itinerary:   itineraryPayload(body.Itinerary),
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			validationFailed(w, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toTripResponse(created))
}

// ListTrips handles GET /api/trips?status=saved|completed (default saved).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	status := domain.TripStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.TripStatusSaved
	}

	trips, err := s.trips.ListTrips(r.Context(), ownerID, status)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			validationFailed(w, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	data := lo.Map(trips, func(t domain.Trip, _ int) tripResponse {
		return toTripResponse(t)
	})
	writeJSON(w, http.StatusOK, map[string][]tripResponse{"trips": data})
}

// GetTrip handles GET /api/trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, "trip not found")
		return
	}

	trip, doc, err := s.trips.GetTrip(r.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	resp := tripDetailResponse{tripResponse: toTripResponse(trip)}
	if doc != nil {
		resp.Itinerary = doc
	} else {
		resp.ItineraryRaw = trip.Itinerary
		resp.Degraded = true
	}
	writeJSON(w, http.StatusOK, resp)
}

// CompleteTrip handles POST /api/trips/{id}/complete.
func (s *Server) CompleteTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, "trip not found")
		return
	}

	if err := s.trips.CompleteTrip(r.Context(), ownerID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTrip handles DELETE /api/trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, "trip not found")
		return
	}

	if err := s.trips.DeleteTrip(r.Context(), ownerID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// itineraryPayload normalizes the itinerary field of a save request into the
// string stored by the repo. A JSON string is unwrapped (the common case:
// clients forward the generator's raw text); anything else is kept as its
// serialized form.
func itineraryPayload(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// toTripResponse converts a domain.Trip into its wire form.
func toTripResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:          t.ID,
		Destination: t.Destination,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
