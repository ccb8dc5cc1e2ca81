package utils

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SpaceDelimitedStringToFloatSlice splits up a space-delimited string such as "0 0 1" and converts
// every field to a float. An empty string yields an empty slice.
func SpaceDelimitedStringToFloatSlice(s string) ([]float64, error) {
	fields := strings.Fields(s)
	converted := make([]float64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse %q as a number list", s)
		}
		converted = append(converted, value)
	}
	return converted, nil
}

// ParseTriple parses a space-delimited string of exactly three floats. An empty string yields
// the fallback.
func ParseTriple(s string, fallback [3]float64) ([3]float64, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	values, err := SpaceDelimitedStringToFloatSlice(s)
	if err != nil {
		return fallback, err
	}
	if len(values) != 3 {
		return fallback, errors.Errorf("expected 3 values in %q, got %d", s, len(values))
	}
	return [3]float64{values[0], values[1], values[2]}, nil
}
