package httpapi

import (
	"math/big"

	"github.com/dkarasev/zkid/internal/group"
)

func hexString(n *big.Int) string {
	return group.EncodeHex(n)
}
