// Package userdirectory is the UserDirectoryAdapter of spec §2: a read-mostly
// username -> Y lookup owned outside the cryptographic core. The core treats
// it as an external collaborator and never assumes transactional composition
// with the challenge store (spec §5).
package userdirectory

import (
	"context"
	"math/big"
	"time"
)

// UserRecord mirrors spec §3's UserRecord. Salt is opaque: accepted, stored,
// and returned verbatim, never fed into the protocol (spec §9 open question).
type UserRecord struct {
	ID          string
	Username    string
	PublicKeyY  *big.Int
	Salt        string
	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// Directory is the UserDirectoryAdapter contract.
type Directory interface {
	// Create persists a new UserRecord. Returns common.ErrConflict if the
	// username already exists.
	Create(ctx context.Context, username string, y *big.Int, salt string) (*UserRecord, error)

	// GetByUsername returns common.ErrorNotFound if no such user exists.
	GetByUsername(ctx context.Context, username string) (*UserRecord, error)

	// TouchLastLogin best-effort updates lastLoginAt. Callers treat its
	// failure as loggable, not fatal (spec §4.5).
	TouchLastLogin(ctx context.Context, username string, at time.Time) error
}
