// Package money converts human-readable Indian currency strings into
// integer rupee amounts.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	lakh  = decimal.NewFromInt(100_000)
	crore = decimal.NewFromInt(10_000_000)

	decimalNumberRE = regexp.MustCompile(`\d+\.?\d*`)
	digitRunRE      = regexp.MustCompile(`\d+`)
	// Strict form: a decimal number with the unit letter attached, e.g.
	// "15l", "2cr", "1.5cr". The whole mantissa must be captured so "1.5l"
	// reads as 1.5 lakh, not 5 lakh.
	attachedUnitRE = regexp.MustCompile(`(\d+(?:\.\d+)?)(cr|c|l)`)
)

// Parse converts a value that may already be numeric or a string like
// "₹2 Crore", "₹20L", "2,50,000/month" into integer rupees. Unparseable
// input is not an error: it yields 0 by contract.
func Parse(value any) int64 {
	switch v := value.(type) {
	case nil:
		return 0
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		return ParseString(v)
	default:
		return 0
	}
}

// ParseString is the string-only form of Parse. Unit words are matched
// most-specific first (crore before lakh before bare digits) so that an
// amount like "2 crore" is never misread as lakhs via its trailing letters.
func ParseString(s string) int64 {
	s = normalize(s)
	if s == "" {
		return 0
	}

	if strings.Contains(s, "crore") || hasUnitToken(s, "cr") {
		return scaled(s, crore)
	}
	if strings.Contains(s, "lakh") || strings.Contains(s, "lac") || hasUnitToken(s, "l") {
		return scaled(s, lakh)
	}

	if m := digitRunRE.FindString(s); m != "" {
		d, err := decimal.NewFromString(m)
		if err != nil {
			return 0
		}
		return d.IntPart()
	}
	return 0
}

// ExtractAmount is the strict variant used for recommendation coverage and
// premium fields. It recognizes only a unit letter attached directly to the
// digits ("₹15L", "₹2Cr") and yields 0 when no unit letter is present, which
// is deliberately less permissive than ParseString.
func ExtractAmount(s string) int64 {
	s = normalize(s)
	if s == "" {
		return 0
	}
	m := attachedUnitRE.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	d, err := decimal.NewFromString(m[1])
	if err != nil {
		return 0
	}
	switch m[2] {
	case "l":
		return d.Mul(lakh).IntPart()
	default: // "c" or "cr"
		return d.Mul(crore).IntPart()
	}
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.TrimPrefix(strings.TrimSpace(s), "~")
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "/year")
	s = strings.TrimSuffix(s, "/month")
	return strings.TrimSpace(s)
}

// scaled extracts the first decimal number in s and multiplies it by unit.
func scaled(s string, unit decimal.Decimal) int64 {
	m := decimalNumberRE.FindString(s)
	if m == "" {
		return 0
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return 0
	}
	return d.Mul(unit).IntPart()
}

// hasUnitToken reports whether s contains unit either as a standalone token
// ("2 cr") or attached to a number ("2cr"). A trailing letter on an ordinary
// word ("total") does not count.
func hasUnitToken(s, unit string) bool {
	for _, tok := range strings.Fields(s) {
		if tok == unit {
			return true
		}
		rest, ok := strings.CutSuffix(tok, unit)
		if !ok || rest == "" {
			continue
		}
		rest = strings.TrimSuffix(rest, "/")
		if decimalNumberRE.MatchString(rest) && digitsOnly(rest) {
			return true
		}
	}
	return false
}

func digitsOnly(s string) bool {
	dots := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return s != ""
}
