// Package group implements the fixed Schnorr group the protocol runs in:
// a safe-prime modulus p, its order-q subgroup, and the generator g=2,
// plus the numeric validity predicates and modular arithmetic spec §3/§4.1
// require. Parameters are the RFC 3526 1536-bit MODP Group, wire-visible
// and byte-identical across deployments.
package group

import "math/big"

// Params holds the immutable (p, q, g) triple. The zero value is not usable;
// construct one with Default.
type Params struct {
	p *big.Int
	q *big.Int
	g *big.Int
}

// rfc3526_1536 is the RFC 3526 1536-bit MODP Group prime.
const rfc3526_1536 = "" +
	"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088" +
	"A67CC74020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302" +
	"B0A6DF25F14374FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED" +
	"6B0BFF5CB6F406B7EDEE386BFB5A899FA5AE9F24117C4B1FE649286651E" +
	"CE45B3DC2007CB8A163BF0598DA48361C55D39A69163FA8FD24CF5F8365" +
	"5D23DCA3AD961C62F356208552BB9ED529077096966D670C354E4ABC980" +
	"4F1746C08CA237327FFFFFFFFFFFFFFFF"

var defaultParams = mustBuild()

func mustBuild() *Params {
	p, ok := new(big.Int).SetString(rfc3526_1536, 16)
	if !ok {
		panic("group: failed to parse RFC 3526 1536-bit MODP prime")
	}
	q := new(big.Int).Rsh(new(big.Int).Sub(p, big.NewInt(1)), 1)
	g := big.NewInt(2)
	return &Params{p: p, q: q, g: g}
}

// Default returns the process-wide Schnorr group: the RFC 3526 1536-bit
// MODP Group with generator 2. It is immutable and safe for concurrent use
// without synchronization.
func Default() *Params {
	return defaultParams
}

// P returns a copy of the modulus p.
func (g *Params) P() *big.Int { return new(big.Int).Set(g.p) }

// Q returns a copy of the subgroup order q = (p-1)/2.
func (g *Params) Q() *big.Int { return new(big.Int).Set(g.q) }

// G returns a copy of the generator (the integer 2).
func (g *Params) G() *big.Int { return new(big.Int).Set(g.g) }

// IsValidElement reports whether x is a GroupElement usable in the
// protocol: strictly greater than 1 and strictly less than p (spec §3).
func (g *Params) IsValidElement(x *big.Int) bool {
	if x == nil {
		return false
	}
	return x.Cmp(big.NewInt(1)) > 0 && x.Cmp(g.p) < 0
}

// IsValidScalar reports whether k is a Scalar in [0, q) (spec §3).
func (g *Params) IsValidScalar(k *big.Int) bool {
	if k == nil {
		return false
	}
	return k.Sign() >= 0 && k.Cmp(g.q) < 0
}

// ModPow computes base^exp mod p.
func (g *Params) ModPow(base, exp *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, g.p)
}

// ModMul computes a*b mod p.
func (g *Params) ModMul(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(a, b), g.p)
}

// ScalarReduce returns n mod q, always non-negative.
func (g *Params) ScalarReduce(n *big.Int) *big.Int {
	return new(big.Int).Mod(n, g.q)
}

// ExpG computes g^exp mod p, i.e. the public element for private scalar exp.
func (g *Params) ExpG(exp *big.Int) *big.Int {
	return g.ModPow(g.g, exp)
}
