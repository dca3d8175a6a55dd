package group

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// bigIntComparer lets cmp.Diff compare *big.Int by value: the type carries
// unexported fields, so cmp needs an explicit Comparer instead of its
// default reflection-based diff.
var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	return a.Cmp(b) == 0
})

func TestDefault_InvariantsHold(t *testing.T) {
	g := Default()

	if !g.p.ProbablyPrime(20) {
		t.Fatal("p is not prime")
	}
	if !g.q.ProbablyPrime(20) {
		t.Fatal("q is not prime")
	}

	// p = 2q + 1 (safe prime)
	twoQPlus1 := new(big.Int).Add(new(big.Int).Lsh(g.q, 1), big.NewInt(1))
	if g.p.Cmp(twoQPlus1) != 0 {
		t.Fatal("p != 2q+1")
	}

	// g^q == 1 mod p
	if g.ModPow(g.g, g.q).Cmp(big.NewInt(1)) != 0 {
		t.Fatal("g^q != 1 mod p")
	}

	if g.g.Cmp(big.NewInt(1)) == 0 {
		t.Fatal("g == 1")
	}
}

func TestIsValidElement(t *testing.T) {
	g := Default()

	cases := []struct {
		name string
		x    *big.Int
		want bool
	}{
		{"zero", big.NewInt(0), false},
		{"one", big.NewInt(1), false},
		{"two", big.NewInt(2), true},
		{"p-1", new(big.Int).Sub(g.p, big.NewInt(1)), true},
		{"p", new(big.Int).Set(g.p), false},
		{"p+1", new(big.Int).Add(g.p, big.NewInt(1)), false},
		{"nil", nil, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := g.IsValidElement(c.x); got != c.want {
				t.Errorf("IsValidElement(%v) = %v, want %v", c.x, got, c.want)
			}
		})
	}
}

func TestIsValidScalar(t *testing.T) {
	g := Default()

	cases := []struct {
		name string
		k    *big.Int
		want bool
	}{
		{"zero", big.NewInt(0), true},
		{"q-1", new(big.Int).Sub(g.q, big.NewInt(1)), true},
		{"q", new(big.Int).Set(g.q), false},
		{"negative", big.NewInt(-1), false},
		{"nil", nil, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := g.IsValidScalar(c.k); got != c.want {
				t.Errorf("IsValidScalar(%v) = %v, want %v", c.k, got, c.want)
			}
		})
	}
}

func TestScalarReduce_AlwaysNonNegative(t *testing.T) {
	g := Default()

	r := g.ScalarReduce(big.NewInt(-5))
	if r.Sign() < 0 {
		t.Fatalf("ScalarReduce(-5) = %v, want non-negative", r)
	}
	if r.Cmp(g.q) >= 0 {
		t.Fatalf("ScalarReduce result %v >= q", r)
	}
}

func TestModPowModMul_Consistency(t *testing.T) {
	g := Default()

	a := g.ExpG(big.NewInt(3))
	b := g.ExpG(big.NewInt(5))
	ab := g.ModMul(a, b)
	direct := g.ExpG(big.NewInt(8))

	if diff := cmp.Diff(direct, ab, bigIntComparer); diff != "" {
		t.Fatalf("g^3 * g^5 != g^8 (-want +got):\n%s", diff)
	}
}

func TestEncodeDecodeHex_RoundTrip(t *testing.T) {
	values := []int64{0, 1, 2, 255, 256, 1 << 20}
	for _, v := range values {
		n := big.NewInt(v)
		enc := EncodeHex(n)
		dec, err := DecodeHex(enc)
		if err != nil {
			t.Fatalf("DecodeHex(%q) error: %v", enc, err)
		}
		if diff := cmp.Diff(n, dec, bigIntComparer); diff != "" {
			t.Fatalf("round trip mismatch via %q (-want +got):\n%s", enc, diff)
		}
	}
}

func TestEncodeHex_NoLeadingZeros(t *testing.T) {
	if got := EncodeHex(big.NewInt(0)); got != "0" {
		t.Fatalf("EncodeHex(0) = %q, want %q", got, "0")
	}
	if got := EncodeHex(big.NewInt(10)); got != "a" {
		t.Fatalf("EncodeHex(10) = %q, want %q", got, "a")
	}
}

func TestDecodeHex_AcceptsUppercase(t *testing.T) {
	n, err := DecodeHex("FF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Cmp(big.NewInt(255)) != 0 {
		t.Fatalf("DecodeHex(FF) = %v, want 255", n)
	}
}

func TestDecodeHex_RejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "0x1", "-1", "zz", "1 2"} {
		if _, err := DecodeHex(s); err == nil {
			t.Errorf("DecodeHex(%q) expected error, got nil", s)
		}
	}
}
