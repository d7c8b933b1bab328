// Package domain contains the core data types for the Wayfarer API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a saved trip.
// The only transition is saved → completed; there is no way back.
type TripStatus string

const (
	// TripStatusSaved is the initial status of every persisted trip.
	TripStatusSaved TripStatus = "saved"
	// TripStatusCompleted marks a trip the owner has finished travelling.
	TripStatusCompleted TripStatus = "completed"
)

// Valid reports whether s is one of the known trip statuses.
func (s TripStatus) Valid() bool {
	return s == TripStatusSaved || s == TripStatusCompleted
}

// Trip is the persisted record wrapping a generation request's inputs and
// its itinerary payload plus lifecycle status. Every read and write of a
// Trip is scoped to OwnerID — a trip is invisible outside its owner.
type Trip struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"-"`
	Destination string     `json:"destination"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	Itinerary   string     `json:"-"` // opaque payload; see ItineraryDocument
	Status      TripStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
