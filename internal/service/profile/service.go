package profile

import (
	"context"
	"errors"
	"time"
)

// Store errors
var (
	ErrNotFound       = errors.New("profile not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Profile represents stored profile data. Email is the natural key: one
// profile exists per normalized address.
type Profile struct {
	ID        string
	Name      string
	Email     string
	Age       int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveParams carries the mutable fields of a create-or-update call.
type SaveParams struct {
	Name  string
	Email string
	Age   int
}

// Store defines profile persistence operations.
//
// Implementations must normalize the email (lowercase, trimmed) before using
// it as a lookup key, and must assign CreatedAt/UpdatedAt themselves.
// CreateOrUpdate reports whether a new record was created (true) or an
// existing one updated (false). A concurrent insert race for the same new
// email surfaces as ErrDuplicateEmail on the losing request.
type Store interface {
	CreateOrUpdate(ctx context.Context, params SaveParams) (*Profile, bool, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	ListAll(ctx context.Context) ([]*Profile, error)
	DeleteByEmail(ctx context.Context, email string) error
}
