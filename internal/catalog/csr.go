package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	percentRE = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
	approxRE  = regexp.MustCompile(`~?(\d+(?:\.\d+)?)`)
)

// ParseCSR extracts a numeric claim-settlement-ratio percentage from the
// heterogeneous forms insurers report it in: a plain number, text with an
// explicit "%"-suffixed figure ("98.59% (2023-24)"), or an approximate
// figure ("High persistency, ~88.1% renewals"). Anything else is 0.
func ParseCSR(value any) float64 {
	if value == nil {
		return 0
	}

	s := strings.TrimSpace(fmt.Sprintf("%v", value))
	if s == "" {
		return 0
	}

	if m := percentRE.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return v
		}
	}

	if m := approxRE.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return v
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
