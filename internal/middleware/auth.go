package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// TokenParser validates a bearer token and returns the owner ID it was
// issued for. Satisfied by service.AuthService.
type TokenParser interface {
	ParseToken(token string) (uuid.UUID, error)
}

// contextKey is a private type so no other package can collide with our
// context keys.
type contextKey string

const ownerIDKey contextKey = "owner_id"

// NewAuthenticator returns a middleware that requires a valid
// "Authorization: Bearer <token>" header and places the resolved owner ID in
// the request context. Handlers read it back with OwnerID.
//
// The owner ID is the only thing that crosses this boundary — there is no
// ambient session object anywhere downstream.
func NewAuthenticator(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			ownerID, err := parser.ParseToken(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerID extracts the authenticated owner ID placed in the context by
// NewAuthenticator. The second return is false when the request did not pass
// through the authenticator.
func OwnerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ownerIDKey).(uuid.UUID)
	return id, ok
}

// WithOwnerID returns a context carrying the given owner ID, exactly as
// NewAuthenticator would set it. Handler tests use this to act as an
// authenticated caller without minting real tokens.
func WithOwnerID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerIDKey, id)
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// unauthorized writes a 401 with the same error envelope the handlers use.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": "unauthorized", "message": message},
	})
}
