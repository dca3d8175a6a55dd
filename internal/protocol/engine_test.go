package protocol

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/dkarasev/zkid/internal/challengestore"
	"github.com/dkarasev/zkid/internal/common"
	"github.com/dkarasev/zkid/internal/group"
	"github.com/dkarasev/zkid/internal/logging"
)

func newTestEngine(t *testing.T) (*Engine, *group.Params) {
	t.Helper()
	g := group.Default()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	store := challengestore.NewMemoryStore(ctx, time.Hour)
	pool := NewWorkerPool(2, 16)
	log := logging.NewSlogLogger(nopSlog())
	return NewEngine(g, store, pool, log), g
}

// honest proof builds a valid (Y, R, s) triple for username using secret x
// and nonce r, following spec.md §8 property 1.
func honestProof(t *testing.T, e *Engine, g *group.Params, username string, x, r *big.Int) (y, R, s *big.Int) {
	t.Helper()
	y = g.ExpG(x)
	R = g.ExpG(r)
	c := e.hash.Compute(R, y, username)
	s = new(big.Int).Mod(new(big.Int).Add(r, new(big.Int).Mul(c, x)), g.Q())
	return y, R, s
}

func TestEngine_HappyPath_S1(t *testing.T) {
	e, g := newTestEngine(t)
	ctx := context.Background()

	x := big.NewInt(7)
	r := big.NewInt(11)
	y, R, s := honestProof(t, e, g, "alice", x, r)

	ch, err := e.IssueChallenge(ctx, "alice", R, y, time.Minute)
	if err != nil {
		t.Fatalf("IssueChallenge: %v", err)
	}

	if err := e.VerifyProof(ctx, ch.ChallengeID, s, R, "alice", y); err != nil {
		t.Fatalf("expected Accept, got %v", err)
	}

	// Re-verify with the same payload must fail: one-shot (property 4).
	err = e.VerifyProof(ctx, ch.ChallengeID, s, R, "alice", y)
	if err != common.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound on replay, got %v", err)
	}
}

func TestEngine_WrongProof_S2(t *testing.T) {
	e, g := newTestEngine(t)
	ctx := context.Background()

	x := big.NewInt(7)
	r := big.NewInt(11)
	y, R, s := honestProof(t, e, g, "alice", x, r)

	ch, err := e.IssueChallenge(ctx, "alice", R, y, time.Minute)
	if err != nil {
		t.Fatalf("IssueChallenge: %v", err)
	}

	sBad := new(big.Int).Add(s, big.NewInt(1))
	if err := e.VerifyProof(ctx, ch.ChallengeID, sBad, R, "alice", y); err != common.ErrProofInvalid {
		t.Fatalf("expected ErrProofInvalid, got %v", err)
	}

	// Session is consumed even though the first attempt failed.
	if err := e.VerifyProof(ctx, ch.ChallengeID, s, R, "alice", y); err != common.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound on second attempt, got %v", err)
	}
}

func TestEngine_TamperedR_S3(t *testing.T) {
	e, g := newTestEngine(t)
	ctx := context.Background()

	x := big.NewInt(7)
	r := big.NewInt(11)
	y, R, s := honestProof(t, e, g, "alice", x, r)

	ch, err := e.IssueChallenge(ctx, "alice", R, y, time.Minute)
	if err != nil {
		t.Fatalf("IssueChallenge: %v", err)
	}

	rTampered := new(big.Int).Mod(new(big.Int).Add(R, big.NewInt(1)), g.P())
	if err := e.VerifyProof(ctx, ch.ChallengeID, s, rTampered, "alice", y); err != common.ErrBindingMismatch {
		t.Fatalf("expected ErrBindingMismatch, got %v", err)
	}
}

func TestEngine_Expired_S5(t *testing.T) {
	e, g := newTestEngine(t)
	ctx := context.Background()

	x := big.NewInt(7)
	r := big.NewInt(11)
	y, R, s := honestProof(t, e, g, "alice", x, r)

	ch, err := e.IssueChallenge(ctx, "alice", R, y, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("IssueChallenge: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := e.VerifyProof(ctx, ch.ChallengeID, s, R, "alice", y); err != common.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after TTL, got %v", err)
	}
}

func TestEngine_ConcurrentReplay_S6(t *testing.T) {
	e, g := newTestEngine(t)
	ctx := context.Background()

	x := big.NewInt(7)
	r := big.NewInt(11)
	y, R, s := honestProof(t, e, g, "alice", x, r)

	ch, err := e.IssueChallenge(ctx, "alice", R, y, time.Minute)
	if err != nil {
		t.Fatalf("IssueChallenge: %v", err)
	}

	const racers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepts := 0
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func() {
			defer wg.Done()
			if err := e.VerifyProof(ctx, ch.ChallengeID, s, R, "alice", y); err == nil {
				mu.Lock()
				accepts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepts != 1 {
		t.Fatalf("expected exactly 1 accept, got %d", accepts)
	}
}

func TestEngine_RejectsInvalidR(t *testing.T) {
	e, g := newTestEngine(t)
	ctx := context.Background()

	_, err := e.IssueChallenge(ctx, "alice", big.NewInt(1), g.ExpG(big.NewInt(5)), time.Minute)
	if !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for R=1, got %v", err)
	}
}

func TestEngine_SoundnessRandomS(t *testing.T) {
	e, g := newTestEngine(t)
	ctx := context.Background()

	x := big.NewInt(7)
	r := big.NewInt(11)
	y, R, _ := honestProof(t, e, g, "alice", x, r)

	ch, err := e.IssueChallenge(ctx, "alice", R, y, time.Minute)
	if err != nil {
		t.Fatalf("IssueChallenge: %v", err)
	}

	sRandom := big.NewInt(999999937)
	if err := e.VerifyProof(ctx, ch.ChallengeID, sRandom, R, "alice", y); err != common.ErrProofInvalid {
		t.Fatalf("expected ErrProofInvalid for random s, got %v", err)
	}
}
