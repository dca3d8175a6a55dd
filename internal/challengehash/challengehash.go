// Package challengehash implements the Fiat-Shamir binding hash H(R, Y,
// username) -> Scalar of spec §4.2. The encoding is wire-visible and exact:
// lowercase hex text of R and Y, not raw big-endian bytes, concatenated
// with the UTF-8 username and reduced modulo q. Optimising this to raw byte
// concatenation silently breaks interoperability with any client (spec §9).
package challengehash

import (
	"crypto/sha256"
	"math/big"

	"github.com/dkarasev/zkid/internal/group"
)

// Hasher binds challenges for a fixed group.
type Hasher struct {
	g *group.Params
}

// New returns a Hasher bound to g.
func New(g *group.Params) *Hasher {
	return &Hasher{g: g}
}

// Compute returns c = H(R, Y, username) mod q.
func (h *Hasher) Compute(r, y *big.Int, username string) *big.Int {
	d := sha256.New()
	d.Write([]byte(group.EncodeHex(r)))
	d.Write([]byte(group.EncodeHex(y)))
	d.Write([]byte(username))
	digest := d.Sum(nil)

	c := new(big.Int).SetBytes(digest)
	return h.g.ScalarReduce(c)
}
