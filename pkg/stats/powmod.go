package stats

import (
	"math/bits"

	"github.com/inferloop/tsstats/pkg/errors"
)

// PowMod computes base^exp mod m by binary exponentiation. Intermediate
// products go through 128-bit arithmetic, so any non-zero uint64 modulus is
// safe from overflow.
func PowMod(base, exp, mod uint64) (uint64, error) {
	if mod == 0 {
		return 0, errors.ErrZeroModulus
	}
	if mod == 1 {
		return 0, nil
	}

	result := uint64(1)
	base %= mod
	for exp > 0 {
		if exp&1 == 1 {
			result = mulMod(result, base, mod)
		}
		base = mulMod(base, base, mod)
		exp >>= 1
	}
	return result, nil
}

// mulMod multiplies two residues modulo m. Both operands must already be
// reduced, which keeps the 128-bit quotient within range for Div64.
func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, m)
	return rem
}
