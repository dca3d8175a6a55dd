// Package randx is the RandomSource of spec §2/§4.1: it produces uniformly
// random scalars in [1, q-1] and the 128-bit opaque challengeId values used
// to key ChallengeRecords. It is the one place in the core allowed to touch
// a CSPRNG directly.
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/dkarasev/zkid/internal/group"
)

// Source draws randomness for a fixed group. The zero value is not usable;
// construct one with New.
type Source struct {
	g *group.Params
}

// New returns a Source bound to g.
func New(g *group.Params) *Source {
	return &Source{g: g}
}

// Scalar returns a uniformly random scalar in [1, q-1]. Used for private
// keys and nonces by callers that hold their own secret material (tests,
// the demo client); the server itself never generates x or r.
func (s *Source) Scalar() (*big.Int, error) {
	qMinus1 := new(big.Int).Sub(s.g.Q(), big.NewInt(1))
	n, err := rand.Int(rand.Reader, qMinus1)
	if err != nil {
		return nil, fmt.Errorf("randx: failed to draw scalar: %w", err)
	}
	return n.Add(n, big.NewInt(1)), nil
}

// DecoyElement returns a uniformly random integer in (1, p-1), drawn fresh
// on every call from the same distribution (spec §4.5/§9: no per-username
// caching, which would leak a timing side channel). It is never persisted
// or logged.
func (s *Source) DecoyElement() (*big.Int, error) {
	pMinus3 := new(big.Int).Sub(s.g.P(), big.NewInt(3))
	n, err := rand.Int(rand.Reader, pMinus3)
	if err != nil {
		return nil, fmt.Errorf("randx: failed to draw decoy element: %w", err)
	}
	return n.Add(n, big.NewInt(2)), nil
}

// ChallengeID returns a fresh, collision-resistant 128-bit opaque
// identifier for a ChallengeRecord (spec §3).
func ChallengeID() string {
	return uuid.NewString()
}
