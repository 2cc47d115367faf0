package converter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// formatInt renders an integer cell
func formatInt(v int) string {
	return strconv.Itoa(v)
}

// parseCount parses a non-negative integer cell
func parseCount(s string) (int, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, errors.New("empty value")
	}

	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as integer: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %d", v)
	}
	return v, nil
}
