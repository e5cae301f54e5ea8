package param

import (
	"fmt"
	"strings"
)

// ChoiceOption represents a single choice in a list parameter.
type ChoiceOption struct {
	Value   float64
	Name    string
	Aliases []string
}

// Choice creates a parameter builder for a multiple-choice parameter.
func Choice(id uint32, name string, options []ChoiceOption) *Builder {
	names := make([]string, len(options))
	for i, opt := range options {
		names[i] = opt.Name
	}

	formatter := func(value float64) string {
		for _, opt := range options {
			if opt.Value == value {
				return opt.Name
			}
		}
		index := int(value)
		if index >= 0 && index < len(names) {
			return names[index]
		}
		return "Unknown"
	}

	parser := func(str string) (float64, error) {
		normalizedStr := strings.ToLower(strings.TrimSpace(str))
		for _, opt := range options {
			if strings.EqualFold(str, opt.Name) {
				return opt.Value, nil
			}
			for _, alias := range opt.Aliases {
				if strings.EqualFold(normalizedStr, strings.ToLower(alias)) {
					return opt.Value, nil
				}
			}
		}
		return 0, fmt.Errorf("unknown option: %s", str)
	}

	minVal := 0.0
	maxVal := float64(len(options) - 1)
	if len(options) > 0 {
		minVal = options[0].Value
		maxVal = options[len(options)-1].Value
	}

	return New(id, name).
		Range(minVal, maxVal).
		Steps(int32(len(options))).
		Default(options[0].Value).
		Formatter(formatter, parser)
}

// Common parameter helpers, covering the shapes the reverb's external
// parameter vector actually needs.

// MixParameter creates a standard mix/blend parameter (0-100%).
func MixParameter(id uint32, name string) *Builder {
	return New(id, name).
		Range(0, 100).
		Default(100).
		Unit("%").
		Formatter(PercentFormatter, PercentParser)
}

// TimeParameter creates a time parameter, displayed in ms or s depending
// on magnitude.
func TimeParameter(id uint32, name string, minMs, maxMs, defaultMs float64) *Builder {
	return New(id, name).
		Range(minMs, maxMs).
		Default(defaultMs).
		Unit("ms").
		Formatter(func(v float64) string {
			if v >= 1000 {
				return fmt.Sprintf("%.2f s", v/1000.0)
			}
			return fmt.Sprintf("%.1f ms", v)
		}, func(s string) (float64, error) {
			s = strings.TrimSpace(strings.ToLower(s))

			if strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ms") {
				s = strings.TrimSuffix(s, "s")
				s = strings.TrimSpace(s)
				val, err := parseFloat(s)
				if err != nil {
					return 0, err
				}
				return val * 1000.0, nil
			}

			s = strings.TrimSuffix(s, "ms")
			s = strings.TrimSpace(s)
			return parseFloat(s)
		})
}

// FeedbackParameter creates a standard feedback/diffusion parameter
// (0-100%).
func FeedbackParameter(id uint32, name string) *Builder {
	return New(id, name).
		Range(0, 100).
		Default(0).
		Unit("%").
		Formatter(PercentFormatter, PercentParser)
}

// DriveParameter creates a drive/saturation parameter (0-100%).
func DriveParameter(id uint32, name string) *Builder {
	return New(id, name).
		Range(0, 100).
		Default(0).
		Unit("%").
		Formatter(PercentFormatter, PercentParser)
}

// RateParameter creates a rate parameter (Hz), for LFOs and the like.
func RateParameter(id uint32, name string, minHz, maxHz, defaultHz float64) *Builder {
	return New(id, name).
		Range(minHz, maxHz).
		Default(defaultHz).
		Unit("Hz").
		Formatter(func(v float64) string {
			if v < 1.0 {
				return fmt.Sprintf("%.3f Hz", v)
			}
			return fmt.Sprintf("%.2f Hz", v)
		}, FrequencyParser)
}

// DepthParameter creates a depth/amount parameter (0-100%).
func DepthParameter(id uint32, name string) *Builder {
	return New(id, name).
		Range(0, 100).
		Default(50).
		Unit("%").
		Formatter(PercentFormatter, PercentParser)
}

// BypassParameter creates a bypass on/off switch.
func BypassParameter(id uint32, name string) *Builder {
	return Choice(id, name, []ChoiceOption{
		{Value: 0, Name: "Active"},
		{Value: 1, Name: "Bypassed"},
	})
}

// parseFloat parses a plain number, with a parameter-friendly error
// message on failure.
func parseFloat(s string) (float64, error) {
	var value float64
	_, err := fmt.Sscanf(s, "%f", &value)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", s)
	}
	return value, nil
}
