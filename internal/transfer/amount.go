package transfer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/CodexEmmzy/solpay/internal/config"
)

// ErrInvalidAmount marks a display amount that cannot be converted to
// lamports.
var ErrInvalidAmount = errors.New("invalid amount")

const maxFractionDigits = 9 // lamports are 1e-9 SOL; finer amounts do not exist

// ParseSOL converts a display-denomination decimal string ("1.5") into
// lamports, exactly. Decimal string arithmetic instead of float math, so
// every representable amount converts without rounding drift.
func ParseSOL(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("%w: signed amount %q", ErrInvalidAmount, s)
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if hasFrac && fracPart == "" {
		return 0, fmt.Errorf("%w: trailing decimal point in %q", ErrInvalidAmount, s)
	}
	if len(fracPart) > maxFractionDigits {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, maxFractionDigits)
	}

	whole, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	// Right-pad the fraction to exactly 9 digits: ".5" -> 500000000.
	frac := uint64(0)
	if hasFrac {
		padded := fracPart + strings.Repeat("0", maxFractionDigits-len(fracPart))
		frac, err = strconv.ParseUint(padded, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}

	if whole > (^uint64(0)-frac)/config.LamportsPerSOL {
		return 0, fmt.Errorf("%w: %q overflows lamports", ErrInvalidAmount, s)
	}
	return whole*config.LamportsPerSOL + frac, nil
}
