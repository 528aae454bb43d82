package kernel

import (
	"fmt"
	"strings"
)

// Decimal is a fixed-point decimal value scaled by 1000, standing in for
// the original's hand-rolled floatToStr/intToStr/strToFloat routines
// (original_source/proc.c) per spec.md's Design Notes: fractional
// priorities are only ever compared, ordered, and decremented by a
// constant, so a ×1000 integer removes floating point from the kernel
// surface entirely and round-trips exactly for the ≤3-fractional-digit
// values this subsystem ever produces or parses.
type Decimal int64

// DecimalScale is the fixed-point scale factor: one whole unit is
// DecimalScale milli-units.
const DecimalScale = 1000

// NewDecimal builds a Decimal from a whole and milli (thousandths) part.
func NewDecimal(whole, milli int64) Decimal {
	if whole < 0 {
		return Decimal(whole*DecimalScale - milli)
	}
	return Decimal(whole*DecimalScale + milli)
}

// Float64 returns the value as a float64, for display or arithmetic that
// must interoperate with non-kernel code.
func (d Decimal) Float64() float64 {
	return float64(d) / DecimalScale
}

// Sub returns d - other.
func (d Decimal) Sub(other Decimal) Decimal {
	return d - other
}

// ClampNonNegative returns d, or zero if d is negative. Used by the SRPF
// decay step, which must never drive remainedPriority below zero.
func (d Decimal) ClampNonNegative() Decimal {
	if d < 0 {
		return 0
	}
	return d
}

// Cmp returns -1, 0, or 1 as d is less than, equal to, or greater than
// other.
func (d Decimal) Cmp(other Decimal) int {
	switch {
	case d < other:
		return -1
	case d > other:
		return 1
	default:
		return 0
	}
}

// String renders d with exactly 3 fractional digits, matching printInfo's
// HRRN column. Use StringPlaces for a different width (e.g. the 1-digit
// remainedPriority column).
func (d Decimal) String() string {
	return d.StringPlaces(3)
}

// StringPlaces renders d with the given number of fractional digits
// (0..3). places beyond 3 are silently clamped to 3, since the underlying
// scale carries no more precision than that.
func (d Decimal) StringPlaces(places int) string {
	if places > 3 {
		places = 3
	}
	if places < 0 {
		places = 0
	}
	neg := d < 0
	v := int64(d)
	if neg {
		v = -v
	}
	whole := v / DecimalScale
	frac := v % DecimalScale
	sign := ""
	if neg {
		sign = "-"
	}
	if places == 0 {
		return fmt.Sprintf("%s%d", sign, whole)
	}
	fracStr := fmt.Sprintf("%03d", frac)[:places]
	return fmt.Sprintf("%s%d.%s", sign, whole, fracStr)
}

// ParseDecimal parses s into a Decimal, matching spec.md §6's permissive
// grammar for setSRPFPriority: an optional leading '-', decimal digits, an
// optional '.' followed by decimal digits; any other character ends
// parsing silently rather than erroring, mirroring the original's
// strToFloat, which never rejected malformed input.
func ParseDecimal(s string) Decimal {
	i := 0
	neg := false
	if i < len(s) && s[i] == '-' {
		neg = true
		i++
	}
	var whole int64
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		whole = whole*10 + int64(s[i]-'0')
		i++
	}
	var milli int64
	if i < len(s) && s[i] == '.' {
		i++
		place := int64(100)
		for i < len(s) && s[i] >= '0' && s[i] <= '9' && place > 0 {
			milli += int64(s[i]-'0') * place
			place /= 10
			i++
		}
	}
	v := whole*DecimalScale + milli
	if neg {
		v = -v
	}
	return Decimal(v)
}

// looksNumeric reports whether s has at least one leading digit once an
// optional sign is stripped; used by callers that want to distinguish
// "parsed zero" from "parsed nothing" before accepting user input.
func looksNumeric(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}
