package userdirectory

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkarasev/zkid/internal/common"
)

// MemoryDirectory is an in-process Directory for tests and single-process
// development, mirroring PostgresDirectory's contract with one difference:
// TouchLastLogin returns common.ErrorNotFound for an unknown username,
// where PostgresDirectory's update matches no row and returns nil.
type MemoryDirectory struct {
	mu    sync.Mutex
	users map[string]*UserRecord
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{users: make(map[string]*UserRecord)}
}

func (d *MemoryDirectory) Create(_ context.Context, username string, y *big.Int, salt string) (*UserRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.users[username]; exists {
		return nil, common.ErrConflict
	}

	rec := &UserRecord{
		ID:         uuid.NewString(),
		Username:   username,
		PublicKeyY: new(big.Int).Set(y),
		Salt:       salt,
		CreatedAt:  time.Now(),
	}
	d.users[username] = rec

	cp := *rec
	return &cp, nil
}

func (d *MemoryDirectory) GetByUsername(_ context.Context, username string) (*UserRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *rec
	return &cp, nil
}

func (d *MemoryDirectory) TouchLastLogin(_ context.Context, username string, at time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.users[username]
	if !ok {
		return common.ErrorNotFound
	}
	rec.LastLoginAt = &at
	return nil
}

var _ Directory = (*MemoryDirectory)(nil)
