package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtully/wayfarer/backend/internal/domain"
	"github.com/jtully/wayfarer/backend/internal/handler"
	"github.com/jtully/wayfarer/backend/internal/middleware"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	generateItinerary func(ctx context.Context, req domain.TripRequest) (string, error)
	saveTrip          func(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	getTrip           func(ctx context.Context, ownerID, id uuid.UUID) (domain.Trip, *domain.ItineraryDocument, error)
	listTrips         func(ctx context.Context, ownerID uuid.UUID, status domain.TripStatus) ([]domain.Trip, error)
	completeTrip      func(ctx context.Context, ownerID, id uuid.UUID) error
	deleteTrip        func(ctx context.Context, ownerID, id uuid.UUID) error
}

func (m *mockTripServicer) GenerateItinerary(ctx context.Context, req domain.TripRequest) (string, error) {
	return m.generateItinerary(ctx, req)
}
func (m *mockTripServicer) SaveTrip(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.saveTrip(ctx, ownerID, trip)
}
func (m *mockTripServicer) GetTrip(ctx context.Context, ownerID, id uuid.UUID) (domain.Trip, *domain.ItineraryDocument, error) {
	return m.getTrip(ctx, ownerID, id)
}
func (m *mockTripServicer) ListTrips(ctx context.Context, ownerID uuid.UUID, status domain.TripStatus) ([]domain.Trip, error) {
	return m.listTrips(ctx, ownerID, status)
}
func (m *mockTripServicer) CompleteTrip(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.completeTrip(ctx, ownerID, id)
}
func (m *mockTripServicer) DeleteTrip(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.deleteTrip(ctx, ownerID, id)
}

// compile-time check: mockTripServicer must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTripServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// asOwner is a stand-in for the real authenticator: it injects the given
// owner ID into every request's context, the same way the JWT middleware does
// after validating a token.
func asOwner(id uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithOwnerID(r.Context(), id)))
		})
	}
}

// newHTTPHandler wires a Server with the given mock into the real router,
// authenticated as owner. This mirrors exactly how main.go wires it in
// production, with only the token check swapped out.
func newHTTPHandler(svc handler.TripServicer, owner uuid.UUID) http.Handler {
	srv := handler.NewServer(svc, nil)
	return srv.Routes(asOwner(owner))
}

func tripFixture(ownerID uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Destination: "Paris",
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		Itinerary:   `{"days":[{"day":1,"date":"2025-06-01","title":"Arrival","activities":[]}]}`,
		Status:      domain.TripStatusSaved,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// ---- POST /api/itinerary ---------------------------------------------------

func TestGenerateItinerary_200(t *testing.T) {
	svc := &mockTripServicer{
		generateItinerary: func(_ context.Context, req domain.TripRequest) (string, error) {
			assert.Equal(t, "Paris", req.Destination)
			assert.Equal(t, "2025-06-01", req.StartDate.Format("2006-01-02"))
			return "raw itinerary text", nil
		},
	}

	body := jsonBody(t, map[string]any{
		"destination": "Paris",
		"start_date":  "2025-06-01",
		"end_date":    "2025-06-03",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/itinerary", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "raw itinerary text", resp["itinerary"])
}

func TestGenerateItinerary_422_MissingDestination(t *testing.T) {
	svc := &mockTripServicer{
		generateItinerary: func(_ context.Context, _ domain.TripRequest) (string, error) {
			return "", fmt.Errorf("bad: %w: destination is required", domain.ErrValidation)
		},
	}

	body := jsonBody(t, map[string]any{"start_date": "2025-06-01", "end_date": "2025-06-03"})
	req := httptest.NewRequest(http.MethodPost, "/api/itinerary", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGenerateItinerary_502_GenerationDown(t *testing.T) {
	svc := &mockTripServicer{
		generateItinerary: func(_ context.Context, _ domain.TripRequest) (string, error) {
			return "", fmt.Errorf("gen: %w", domain.ErrGenerationUnavailable)
		},
	}

	body := jsonBody(t, map[string]any{
		"destination": "Paris",
		"start_date":  "2025-06-01",
		"end_date":    "2025-06-03",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/itinerary", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

// ---- POST /api/trips -------------------------------------------------------

func TestSaveTrip_201(t *testing.T) {
	owner := uuid.New()
	fixture := tripFixture(owner)

	svc := &mockTripServicer{
		saveTrip: func(_ context.Context, gotOwner uuid.UUID, trip domain.Trip) (domain.Trip, error) {
			assert.Equal(t, owner, gotOwner, "owner must come from the authenticated context")
			assert.Equal(t, "Paris", trip.Destination)
			assert.Equal(t, "raw text payload", trip.Itinerary)
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"destination": "Paris",
		"start_date":  "2025-06-01",
		"end_date":    "2025-06-03",
		"itinerary":   "raw text payload",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/trips", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, owner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID.String(), resp["id"])
	assert.Equal(t, "saved", resp["status"])
}

func TestSaveTrip_ObjectPayloadStoredSerialized(t *testing.T) {
	owner := uuid.New()

	var storedPayload string
	svc := &mockTripServicer{
		saveTrip: func(_ context.Context, _ uuid.UUID, trip domain.Trip) (domain.Trip, error) {
			storedPayload = trip.Itinerary
			return tripFixture(owner), nil
		},
	}

	body := jsonBody(t, map[string]any{
		"destination": "Paris",
		"start_date":  "2025-06-01",
		"end_date":    "2025-06-03",
		"itinerary":   map[string]any{"days": []any{}},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/trips", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, owner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"days":[]}`, storedPayload, "object payloads are persisted in serialized form")
}

func TestSaveTrip_422_ValidationError(t *testing.T) {
	svc := &mockTripServicer{
		saveTrip: func(_ context.Context, _ uuid.UUID, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("save: %w: destination is required", domain.ErrValidation)
		},
	}

	body := jsonBody(t, map[string]any{"itinerary": "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/trips", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "validation_error", resp["error"]["code"])
	assert.Equal(t, "destination is required", resp["error"]["message"])
}

// ---- GET /api/trips --------------------------------------------------------

func TestListTrips_200_DefaultsToSaved(t *testing.T) {
	owner := uuid.New()
	trips := []domain.Trip{tripFixture(owner), tripFixture(owner)}

	svc := &mockTripServicer{
		listTrips: func(_ context.Context, gotOwner uuid.UUID, status domain.TripStatus) ([]domain.Trip, error) {
			assert.Equal(t, owner, gotOwner)
			assert.Equal(t, domain.TripStatusSaved, status, "missing ?status defaults to saved")
			return trips, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, owner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp["trips"], 2)
}

func TestListTrips_StatusFilterPassedThrough(t *testing.T) {
	owner := uuid.New()

	svc := &mockTripServicer{
		listTrips: func(_ context.Context, _ uuid.UUID, status domain.TripStatus) ([]domain.Trip, error) {
			assert.Equal(t, domain.TripStatusCompleted, status)
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/trips?status=completed", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, owner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListTrips_422_UnknownStatus(t *testing.T) {
	svc := &mockTripServicer{
		listTrips: func(_ context.Context, _ uuid.UUID, _ domain.TripStatus) ([]domain.Trip, error) {
			return nil, fmt.Errorf("list: %w: unknown status", domain.ErrValidation)
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/trips?status=archived", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- GET /api/trips/{id} ---------------------------------------------------

func TestGetTrip_200_StructuredItinerary(t *testing.T) {
	owner := uuid.New()
	fixture := tripFixture(owner)
	doc := &domain.ItineraryDocument{
		TripSummary: "Three days in Paris",
		Days: []domain.DayPlan{
			{Day: 1, Date: "2025-06-01", Title: "Arrival", Activities: []string{"Seine walk"}},
		},
	}

	svc := &mockTripServicer{
		getTrip: func(_ context.Context, gotOwner, gotID uuid.UUID) (domain.Trip, *domain.ItineraryDocument, error) {
			assert.Equal(t, owner, gotOwner)
			assert.Equal(t, fixture.ID, gotID)
			return fixture, doc, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/trips/"+fixture.ID.String(), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, owner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ID        uuid.UUID                 `json:"id"`
		Itinerary *domain.ItineraryDocument `json:"itinerary"`
		Raw       string                    `json:"itinerary_raw"`
		Degraded  bool                      `json:"degraded"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
	require.NotNil(t, resp.Itinerary)
	assert.Len(t, resp.Itinerary.Days, 1)
	assert.False(t, resp.Degraded)
	assert.Empty(t, resp.Raw)
}

func TestGetTrip_200_DegradedRawItinerary(t *testing.T) {
	owner := uuid.New()
	fixture := tripFixture(owner)
	fixture.Itinerary = "Sorry, I cannot help"

	svc := &mockTripServicer{
		getTrip: func(_ context.Context, _, _ uuid.UUID) (domain.Trip, *domain.ItineraryDocument, error) {
			return fixture, nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/trips/"+fixture.ID.String(), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, owner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "an unparseable stored payload degrades, it does not fail")

	var resp struct {
		Itinerary *domain.ItineraryDocument `json:"itinerary"`
		Raw       string                    `json:"itinerary_raw"`
		Degraded  bool                      `json:"degraded"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Nil(t, resp.Itinerary)
	assert.Equal(t, "Sorry, I cannot help", resp.Raw)
	assert.True(t, resp.Degraded)
}

func TestGetTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		getTrip: func(_ context.Context, _, _ uuid.UUID) (domain.Trip, *domain.ItineraryDocument, error) {
			return domain.Trip{}, nil, domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/trips/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTrip_404_MalformedID(t *testing.T) {
	svc := &mockTripServicer{}

	req := httptest.NewRequest(http.MethodGet, "/api/trips/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- POST /api/trips/{id}/complete -----------------------------------------

func TestCompleteTrip_204(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()

	svc := &mockTripServicer{
		completeTrip: func(_ context.Context, gotOwner, gotID uuid.UUID) error {
			assert.Equal(t, owner, gotOwner)
			assert.Equal(t, id, gotID)
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/trips/"+id.String()+"/complete", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, owner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCompleteTrip_404_NotOwned(t *testing.T) {
	svc := &mockTripServicer{
		completeTrip: func(_ context.Context, _, _ uuid.UUID) error {
			return domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/trips/"+uuid.NewString()+"/complete", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- DELETE /api/trips/{id} ------------------------------------------------

func TestDeleteTrip_204(t *testing.T) {
	svc := &mockTripServicer{
		deleteTrip: func(_ context.Context, _, _ uuid.UUID) error { return nil },
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/trips/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteTrip_404_NotOwned(t *testing.T) {
	svc := &mockTripServicer{
		deleteTrip: func(_ context.Context, _, _ uuid.UUID) error {
			return domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/trips/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
