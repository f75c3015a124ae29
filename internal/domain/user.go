package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the sole persistent entity: an account identified by a unique
// username. PasswordHash holds the bcrypt digest; plaintext passwords are
// never stored and the hash is never compared by equality, only through the
// hasher's verify operation.
type User struct {
	ID           uuid.UUID `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// UserRepository abstracts user persistence.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	Insert(ctx context.Context, username, passwordHash string) (*User, error)
}
