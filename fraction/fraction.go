// Package fraction converts between decimal inch measurements and the
// fraction-string notation used on shop drawings.
//
// A fraction string is a whole number ("24"), a simple fraction
// ("3/4"), or a mixed number ("2-1/2"). Formatting searches for the
// best rational approximation with a bounded denominator, so a value
// round-trips through its string form within 1/(2*maxDenominator).
package fraction

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// DefaultMaxDenominator bounds the denominator search during
// formatting. Sixteenths are the finest graduation on a stone shop
// tape measure.
const DefaultMaxDenominator = 16

// errors below this are treated as exact matches
const epsilon = 1e-9

// Format renders v as a fraction string with DefaultMaxDenominator.
func Format(v float64) string {
	return FormatMax(v, DefaultMaxDenominator)
}

// FormatMax renders v as a fraction string, approximating the
// fractional part by the closest n/d with d <= maxDen. Ties prefer the
// smaller denominator. Non-finite input yields "".
func FormatMax(v float64, maxDen int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if maxDen < 1 {
		maxDen = 1
	}
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int(math.Floor(v))
	rem := v - float64(whole)

	if rem < epsilon {
		return signed(neg, strconv.Itoa(whole))
	}

	// Scan denominators in ascending order, keeping the strictly
	// smallest error, so exact ties resolve to the smaller denominator.
	bestNum, bestDen := 1, 1
	bestErr := math.Inf(1)
	for d := 1; d <= maxDen; d++ {
		n := int(math.Round(rem * float64(d)))
		err := math.Abs(rem - float64(n)/float64(d))
		if err < bestErr {
			bestNum, bestDen, bestErr = n, d, err
			if err < epsilon {
				break
			}
		}
	}

	if g := gcd(bestNum, bestDen); g > 1 {
		bestNum /= g
		bestDen /= g
	}

	switch {
	case bestNum == 0: // remainder rounded away
		return signed(neg, strconv.Itoa(whole))
	case bestNum == bestDen: // remainder rounded up to the next whole
		return signed(neg, strconv.Itoa(whole+1))
	}

	frac := strconv.Itoa(bestNum) + "/" + strconv.Itoa(bestDen)
	if whole == 0 {
		return signed(neg, frac)
	}
	return signed(neg, strconv.Itoa(whole)+"-"+frac)
}

// Parse evaluates a fraction string. It accepts exactly three shapes
// after discarding whitespace: "W", "N/D" and "W-N/D", all with decimal
// digits and D nonzero. Anything else reports ok == false.
func Parse(text string) (value float64, ok bool) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	switch {
	case strings.IndexByte(s, '-') >= 0: // mixed: W-N/D
		i := strings.IndexByte(s, '-')
		whole, err := parseDigits(s[:i])
		if err != nil {
			return 0, false
		}
		num, den, ok := splitFraction(s[i+1:])
		if !ok {
			return 0, false
		}
		return float64(whole) + float64(num)/float64(den), true

	case strings.IndexByte(s, '/') >= 0: // simple: N/D
		num, den, ok := splitFraction(s)
		if !ok {
			return 0, false
		}
		return float64(num) / float64(den), true

	default: // whole: W
		whole, err := parseDigits(s)
		if err != nil {
			return 0, false
		}
		return float64(whole), true
	}
}

// splitFraction parses "N/D" with D nonzero.
func splitFraction(s string) (num, den int, ok bool) {
	i := strings.IndexByte(s, '/')
	if i < 0 {
		return 0, 0, false
	}
	num, err := parseDigits(s[:i])
	if err != nil {
		return 0, 0, false
	}
	den, err = parseDigits(s[i+1:])
	if err != nil || den == 0 {
		return 0, 0, false
	}
	return num, den, true
}

// Valid reports whether Parse would accept text. The two functions
// share one implementation so their acceptance sets cannot diverge.
func Valid(text string) bool {
	_, ok := Parse(text)
	return ok
}

// Normalize rewrites text in canonical fraction-string form by round-
// tripping it through Parse and Format. Unparseable input is returned
// unchanged.
func Normalize(text string) string {
	v, ok := Parse(text)
	if !ok {
		return text
	}
	return Format(v)
}

// parseDigits is strconv.Atoi restricted to plain decimal digits, so
// forms like "+3" or "1_000" are rejected.
func parseDigits(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func signed(neg bool, s string) string {
	if neg {
		return "-" + s
	}
	return s
}
