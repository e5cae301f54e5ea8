package param

import (
	"fmt"
	"strings"
)

// OversamplingNames provides display names for the oversampling factor
// parameter, in Oversampling order.
var OversamplingNames = []string{"Off", "2x", "4x"}

// OversamplingFormatter formats an oversampling parameter value for host
// display.
func OversamplingFormatter(value float64) string {
	index := int(value)
	if index >= 0 && index < len(OversamplingNames) {
		return OversamplingNames[index]
	}
	return "Unknown"
}

// OversamplingParser parses a host-supplied oversampling string back to
// its numeric value.
func OversamplingParser(str string) (float64, error) {
	normalized := strings.ToLower(strings.TrimSpace(str))

	aliases := map[string]int{
		"off":  int(OversamplingOff),
		"1x":   int(OversamplingOff),
		"2x":   int(OversamplingX2),
		"4x":   int(OversamplingX4),
	}
	if index, ok := aliases[normalized]; ok {
		return float64(index), nil
	}
	for i, name := range OversamplingNames {
		if strings.EqualFold(str, name) {
			return float64(i), nil
		}
	}
	return 0, fmt.Errorf("unknown oversampling factor: %s", str)
}
