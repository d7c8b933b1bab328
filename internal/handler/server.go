// Package handler implements the HTTP handlers for the Wayfarer API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, auth.go) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jtully/wayfarer/backend/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	GenerateItinerary(ctx context.Context, req domain.TripRequest) (string, error)
	SaveTrip(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	GetTrip(ctx context.Context, ownerID, id uuid.UUID) (domain.Trip, *domain.ItineraryDocument, error)
	ListTrips(ctx context.Context, ownerID uuid.UUID, status domain.TripStatus) ([]domain.Trip, error)
	CompleteTrip(ctx context.Context, ownerID, id uuid.UUID) error
	DeleteTrip(ctx context.Context, ownerID, id uuid.UUID) error
}

// AuthServicer defines the account operations the auth handlers depend on.
type AuthServicer interface {
	Signup(ctx context.Context, username, password string) (domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// Server holds the dependencies for all API endpoints.
type Server struct {
	trips TripServicer
	auth  AuthServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, auth AuthServicer) *Server {
	return &Server{trips: trips, auth: auth}
}

// Routes builds the API router. authn is the middleware that resolves the
// bearer token into an owner ID; every trip route sits behind it, while
// signup, login, and the health check stay public.
func (s *Server) Routes(authn func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Post("/api/signup", s.Signup)
	r.Post("/api/login", s.Login)

	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Post("/api/itinerary", s.GenerateItinerary)
		r.Route("/api/trips", func(r chi.Router) {
			r.Post("/", s.SaveTrip)
			r.Get("/", s.ListTrips)
			r.Get("/{id}", s.GetTrip)
			r.Post("/{id}/complete", s.CompleteTrip)
			r.Delete("/{id}", s.DeleteTrip)
		})
	})

	return r
}
