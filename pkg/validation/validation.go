package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")

	MaxApplianceNameLength = 100
	MaxHoursPerDay         = 24.0
)

// SanitizeString removes potentially dangerous characters and trims whitespace
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	var builder strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) {
			builder.WriteRune(r)
		}
	}

	return strings.TrimSpace(builder.String())
}

// NormalizeAppliances sanitizes names, drops blanks and keeps the first
// occurrence of each name.
func NormalizeAppliances(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = SanitizeString(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func ValidateApplianceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: appliance name cannot be empty", ErrInvalidInput)
	}
	if len(name) > MaxApplianceNameLength {
		return fmt.Errorf("%w: appliance name must not exceed %d characters", ErrInvalidInput, MaxApplianceNameLength)
	}
	return nil
}

// ValidateUnits checks a monthly consumption figure in kWh.
func ValidateUnits(units, max float64) error {
	if math.IsNaN(units) || math.IsInf(units, 0) {
		return fmt.Errorf("%w: monthly units must be a number", ErrInvalidInput)
	}
	if units < 0 {
		return fmt.Errorf("%w: monthly units cannot be negative", ErrInvalidInput)
	}
	if max > 0 && units > max {
		return fmt.Errorf("%w: monthly units must not exceed %.0f", ErrInvalidInput, max)
	}
	return nil
}

// ValidateHours checks a daily usage figure for one appliance.
func ValidateHours(appliance string, hours float64) error {
	if math.IsNaN(hours) || hours < 0 || hours > MaxHoursPerDay {
		return fmt.Errorf("%w: %s usage must be between 0 and %.0f hours per day", ErrInvalidInput, appliance, MaxHoursPerDay)
	}
	return nil
}
