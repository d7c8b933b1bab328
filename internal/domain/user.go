package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns trips. Only the auth flow touches users;
// everything else sees users as an opaque owner ID.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
