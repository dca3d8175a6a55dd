package userdirectory

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/dkarasev/zkid/internal/common"
)

func TestMemoryDirectory_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDirectory()

	y := big.NewInt(42)
	rec, err := d.Create(ctx, "alice", y, "deadbeef")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected non-empty ID")
	}

	got, err := d.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.PublicKeyY.Cmp(y) != 0 || got.Salt != "deadbeef" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.LastLoginAt != nil {
		t.Fatal("expected nil LastLoginAt before first login")
	}
}

func TestMemoryDirectory_DuplicateConflict(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDirectory()

	if _, err := d.Create(ctx, "alice", big.NewInt(1), ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := d.Create(ctx, "alice", big.NewInt(2), "")
	if err != common.ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestMemoryDirectory_GetMissing(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDirectory()

	_, err := d.GetByUsername(ctx, "ghost")
	if err != common.ErrorNotFound {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestMemoryDirectory_TouchLastLogin(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDirectory()
	if _, err := d.Create(ctx, "alice", big.NewInt(1), ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	now := time.Now()
	if err := d.TouchLastLogin(ctx, "alice", now); err != nil {
		t.Fatalf("TouchLastLogin: %v", err)
	}

	got, err := d.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.LastLoginAt == nil || !got.LastLoginAt.Equal(now) {
		t.Fatalf("expected LastLoginAt=%v, got %v", now, got.LastLoginAt)
	}
}
