// Package protocol implements the ProtocolEngine of spec.md §4.4: issuing
// Schnorr challenges and verifying proofs against the ChallengeStore, with
// the two large modPow operations per verify (and the random draw of each
// decoy Y, which needs no modPow) dispatched to a bounded CPU worker pool
// (spec.md §5).
package protocol

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/dkarasev/zkid/internal/challengehash"
	"github.com/dkarasev/zkid/internal/challengestore"
	"github.com/dkarasev/zkid/internal/common"
	"github.com/dkarasev/zkid/internal/group"
	"github.com/dkarasev/zkid/internal/logging"
	"github.com/dkarasev/zkid/internal/randx"
)

// Challenge is the result of issueChallenge, ready to serialize onto the
// wire (spec.md §6).
type Challenge struct {
	ChallengeID string
	R           *big.Int
	C           *big.Int
	P           *big.Int
	Q           *big.Int
	G           *big.Int
}

// Engine is the ProtocolEngine of spec.md §4.4. It holds no per-session
// mutable state of its own; the only shared mutable state is the store.
type Engine struct {
	g     *group.Params
	hash  *challengehash.Hasher
	rnd   *randx.Source
	store challengestore.Store
	pool  *WorkerPool
	log   logging.Logger
}

func NewEngine(g *group.Params, store challengestore.Store, pool *WorkerPool, log logging.Logger) *Engine {
	return &Engine{
		g:     g,
		hash:  challengehash.New(g),
		rnd:   randx.New(g),
		store: store,
		pool:  pool,
		log:   log,
	}
}

// IssueChallenge implements spec.md §4.4 issueChallenge.
func (e *Engine) IssueChallenge(ctx context.Context, username string, clientR, yForUser *big.Int, ttl time.Duration) (*Challenge, error) {
	if !e.g.IsValidElement(clientR) {
		return nil, fmt.Errorf("%w: clientR out of range", common.ErrInvalidArgument)
	}

	challengeID := randx.ChallengeID()
	c := e.hash.Compute(clientR, yForUser, username)

	if err := e.store.Put(ctx, challengeID, challengestore.Record{
		Username: username,
		R:        clientR,
		C:        c,
	}, ttl); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDependencyUnavailable, err)
	}

	e.log.Info(ctx, "challenge issued",
		"challengeId", logging.StringPrefix(challengeID),
		"R", logging.HexPrefix(clientR),
		"c", logging.HexPrefix(c),
	)

	return &Challenge{
		ChallengeID: challengeID,
		R:           clientR,
		C:           c,
		P:           e.g.P(),
		Q:           e.g.Q(),
		G:           e.g.G(),
	}, nil
}

// VerifyProof implements spec.md §4.4 verifyProof, including the atomic
// consume-on-delete rule: the session is removed exactly once regardless of
// whether the equation held, and only the caller whose delete reports
// wasPresent=true is authoritative (scenario S6).
func (e *Engine) VerifyProof(ctx context.Context, challengeID string, s *big.Int, clientREchoed *big.Int, claimedUsername string, y *big.Int) error {
	if s == nil || s.Sign() < 0 {
		return fmt.Errorf("%w: s must be a non-negative integer", common.ErrInvalidArgument)
	}

	rec, ok, err := e.store.Get(ctx, challengeID)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDependencyUnavailable, err)
	}
	if !ok {
		return common.ErrSessionNotFound
	}

	var verifyErr error
	switch {
	case rec.Username != claimedUsername:
		verifyErr = common.ErrBindingMismatch
	case rec.R.Cmp(clientREchoed) != 0:
		verifyErr = common.ErrBindingMismatch
	default:
		accepted, err := e.checkEquation(ctx, s, rec.R, y, rec.C)
		if err != nil {
			verifyErr = err
		} else if !accepted {
			verifyErr = common.ErrProofInvalid
		}
	}

	// The safe rule (spec.md §5): do not abort after get succeeds until
	// delete has been attempted, regardless of the equation's outcome.
	wasPresent, delErr := e.store.Delete(ctx, challengeID)
	if delErr != nil {
		e.log.Error(ctx, "challenge delete failed", "challengeId", logging.StringPrefix(challengeID), "err", delErr)
		if verifyErr == nil {
			verifyErr = fmt.Errorf("%w: %v", common.ErrDependencyUnavailable, delErr)
		}
	}
	if !wasPresent {
		// Lost the race to another verify call; treat as not-found even if
		// the equation held (spec.md §4.4 step 7).
		return common.ErrSessionNotFound
	}

	return verifyErr
}

// checkEquation computes lhs = g^s mod p and rhs = R * Y^c mod p on the
// bounded worker pool, since both exponentiations are CPU-bound (spec.md
// §5).
func (e *Engine) checkEquation(ctx context.Context, s, r, y, c *big.Int) (bool, error) {
	type result struct {
		lhs, rhs *big.Int
	}

	raw, err := e.pool.Submit(ctx, func() (any, error) {
		sMod := e.g.ScalarReduce(s)
		lhs := e.g.ExpG(sMod)
		rhs := e.g.ModMul(r, e.g.ModPow(y, c))
		return result{lhs: lhs, rhs: rhs}, nil
	})
	if err != nil {
		return false, err
	}

	res := raw.(result)
	return res.lhs.Cmp(res.rhs) == 0, nil
}

// DecoyY produces a fresh, unpersisted, unlogged decoy group element for
// the user-enumeration-resistance path (spec.md §4.5/§9), dispatched to the
// same worker pool since drawing it does not itself require modPow but the
// caller wants the same CPU-isolation guarantee the spec asks for decoy
// generation.
func (e *Engine) DecoyY(ctx context.Context) (*big.Int, error) {
	raw, err := e.pool.Submit(ctx, func() (any, error) {
		return e.rnd.DecoyElement()
	})
	if err != nil {
		return nil, err
	}
	return raw.(*big.Int), nil
}
