// Package service contains the business logic for the Wayfarer API.
// Services validate inputs, enforce business rules, and orchestrate repo and
// planner calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jtully/wayfarer/backend/internal/domain"
	"github.com/jtully/wayfarer/backend/internal/planner"
	"github.com/jtully/wayfarer/backend/internal/repo"
)

// Generation responses are cached briefly so a double-submitted form does not
// pay for two identical generation calls.
const (
	genCacheTTL     = 15 * time.Minute
	genCacheCleanup = 30 * time.Minute
)

// TripService implements itinerary generation and trip lifecycle operations.
// Every owner-facing method takes an explicit ownerID — there is no ambient
// "current user" state anywhere below the HTTP layer.
type TripService struct {
	trips    repo.TripRepo
	gen      planner.Generator
	genCache *gocache.Cache
}

// NewTripService constructs a TripService backed by the provided repo and
// generator.
func NewTripService(trips repo.TripRepo, gen planner.Generator) *TripService {
	return &TripService{
		trips:    trips,
		gen:      gen,
		genCache: gocache.New(genCacheTTL, genCacheCleanup),
	}
}

// GenerateItinerary builds the prompt for the request and returns the
// generator's raw reply. The reply is deliberately not validated here —
// validation happens when a stored itinerary is read back for display, so a
// user can still save whatever the generator produced.
func (s *TripService) GenerateItinerary(ctx context.Context, req domain.TripRequest) (string, error) {
	if strings.TrimSpace(req.Destination) == "" {
		return "", fmt.Errorf("service.TripService.GenerateItinerary: %w: destination is required", domain.ErrValidation)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return "", fmt.Errorf("service.TripService.GenerateItinerary: %w: start and end dates are required", domain.ErrValidation)
	}

	prompt := planner.BuildPrompt(req)

	if cached, ok := s.genCache.Get(prompt); ok {
		return cached.(string), nil
	}

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("service.TripService.GenerateItinerary: %w", err)
	}

	s.genCache.Set(prompt, raw, gocache.DefaultExpiration)
	return raw, nil
}

// SaveTrip persists a trip for the owner. The itinerary payload is stored
// verbatim — it is not re-parsed here, only checked for presence. Status is
// always 'saved' on creation.
func (s *TripService) SaveTrip(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	if strings.TrimSpace(trip.Destination) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.SaveTrip: %w: destination is required", domain.ErrValidation)
	}
	if trip.StartDate.IsZero() || trip.EndDate.IsZero() {
		return domain.Trip{}, fmt.Errorf("service.TripService.SaveTrip: %w: start and end dates are required", domain.ErrValidation)
	}
	if strings.TrimSpace(trip.Itinerary) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.SaveTrip: %w: itinerary is required", domain.ErrValidation)
	}

	trip.OwnerID = ownerID
	trip.Status = domain.TripStatusSaved

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SaveTrip: %w", err)
	}
	return created, nil
}

// GetTrip fetches the owner's trip and attempts to parse its stored payload
// into a structured itinerary. A parse failure degrades the response — the
// document comes back nil and callers fall back to the raw payload — because
// the record's existence must not be held hostage to a stricter parser than
// the one in effect when the record was written.
func (s *TripService) GetTrip(ctx context.Context, ownerID, id uuid.UUID) (domain.Trip, *domain.ItineraryDocument, error) {
	trip, err := s.trips.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("service.TripService.GetTrip: %w", err)
	}

	doc, err := planner.ParseItinerary(trip.Itinerary)
	if err != nil {
		slog.WarnContext(ctx, "stored itinerary did not parse; returning raw payload",
			"trip_id", trip.ID,
			"error", err,
		)
		return trip, nil, nil
	}

	return trip, &doc, nil
}

// ListTrips returns the owner's trips with the given status.
func (s *TripService) ListTrips(ctx context.Context, ownerID uuid.UUID, status domain.TripStatus) ([]domain.Trip, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("service.TripService.ListTrips: %w: unknown status %q", domain.ErrValidation, status)
	}

	trips, err := s.trips.ListByStatus(ctx, ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListTrips: %w", err)
	}
	return trips, nil
}

// CompleteTrip transitions the owner's trip from saved to completed. This is
// the only exposed status transition; there is no way to un-complete a trip.
func (s *TripService) CompleteTrip(ctx context.Context, ownerID, id uuid.UUID) error {
	affected, err := s.trips.SetStatus(ctx, ownerID, id, domain.TripStatusCompleted)
	if err != nil {
		return fmt.Errorf("service.TripService.CompleteTrip: %w", err)
	}
	if !affected {
		return fmt.Errorf("service.TripService.CompleteTrip: %w", domain.ErrNotFound)
	}
	return nil
}

// DeleteTrip removes the owner's trip.
func (s *TripService) DeleteTrip(ctx context.Context, ownerID, id uuid.UUID) error {
	affected, err := s.trips.Delete(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("service.TripService.DeleteTrip: %w", err)
	}
	if !affected {
		return fmt.Errorf("service.TripService.DeleteTrip: %w", domain.ErrNotFound)
	}
	return nil
}
