// Package repo contains all database access logic for the Wayfarer API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jtully/wayfarer/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for trips. Every operation is
// scoped to an owner in the query itself: a trip belonging to a different
// owner behaves exactly like a trip that does not exist.
type TripRepo interface {
	// Create inserts a new trip with status 'saved' and returns the persisted
	// record (with DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// ListByStatus returns the owner's trips with the given status. Rows are
	// ordered by created_at descending for stable display, but callers must
	// not depend on ordering — it is not part of the contract.
	ListByStatus(ctx context.Context, ownerID uuid.UUID, status domain.TripStatus) ([]domain.Trip, error)

	// GetByID retrieves a single trip by id and owner in one query.
	// Returns domain.ErrNotFound when no row matches both.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Trip, error)

	// SetStatus updates the trip's status. Returns false (not an error) when
	// no row matched id+owner.
	SetStatus(ctx context.Context, ownerID, id uuid.UUID, status domain.TripStatus) (bool, error)

	// Delete removes the trip. Returns false (not an error) when no row
	// matched id+owner.
	Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, user_id, destination, start_date, end_date, itinerary, status, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
// Status is forced to 'saved' regardless of what the caller set.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (user_id, destination, start_date, end_date, itinerary, status)
		VALUES (@user_id, @destination, @start_date, @end_date, @itinerary, 'saved')
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"user_id":     trip.OwnerID,
		"destination": trip.Destination,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate,
		"itinerary":   trip.Itinerary,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// ListByStatus returns all of the owner's trips with the given status.
func (r *pgTripRepo) ListByStatus(ctx context.Context, ownerID uuid.UUID, status domain.TripStatus) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = @user_id AND status = @status
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": ownerID, "status": string(status)})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByStatus: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByStatus: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByStatus: rows: %w", err)
	}

	return trips, nil
}

// GetByID retrieves a trip filtered by both id and owner in the same query,
// so a foreign trip is indistinguishable from a nonexistent one.
func (r *pgTripRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE id = @id AND user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": ownerID})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// SetStatus updates the status of the owner's trip. The update is a single
// bounded statement scoped by id and owner, so no application-level locking
// is needed for concurrent callers.
func (r *pgTripRepo) SetStatus(ctx context.Context, ownerID, id uuid.UUID, status domain.TripStatus) (bool, error) {
	const q = `
		UPDATE trips
		SET status = @status, updated_at = now()
		WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": ownerID, "status": string(status)})
	if err != nil {
		return false, fmt.Errorf("repo.TripRepo.SetStatus: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes the owner's trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM trips WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": ownerID})
	if err != nil {
		return false, fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and date conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t       domain.Trip
		id      pgtype.UUID
		ownerID pgtype.UUID
		start   pgtype.Date
		end     pgtype.Date
		status  string
	)

	err := s.Scan(&id, &ownerID, &t.Destination, &start, &end, &t.Itinerary, &status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(ownerID.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time
	t.Status = domain.TripStatus(status)

	return t, nil
}
