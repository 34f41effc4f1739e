package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFeeRange parses a fee range written as "min-max", "min-" or "-max".
// Amounts may use a comma as decimal separator. Bounds are inclusive.
//
// Examples:
//   - "10-25" - between 10 and 25
//   - "10-" - at least 10
//   - "-25" - at most 25
func ParseFeeRange(input string) (min, max *float64, err error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("fee range cannot be empty")
	}

	lo, hi, ok := strings.Cut(input, "-")
	if !ok {
		return nil, nil, fmt.Errorf("invalid fee range format. Use '10-25', '10-', or '-25'")
	}

	min, err = parseAmount(lo)
	if err != nil {
		return nil, nil, err
	}
	max, err = parseAmount(hi)
	if err != nil {
		return nil, nil, err
	}

	if min == nil && max == nil {
		return nil, nil, fmt.Errorf("fee range needs at least one bound")
	}
	if min != nil && max != nil && *min > *max {
		return nil, nil, fmt.Errorf("minimum fee must not exceed maximum fee")
	}

	return min, max, nil
}

func parseAmount(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("invalid fee: %s", s)
	}
	return &v, nil
}

// FormatFeeRange renders bounds the way ParseFeeRange reads them.
func FormatFeeRange(min, max *float64) string {
	var lo, hi string
	if min != nil {
		lo = strconv.FormatFloat(*min, 'f', 2, 64)
	}
	if max != nil {
		hi = strconv.FormatFloat(*max, 'f', 2, 64)
	}
	return lo + "-" + hi
}
