package util

import (
	"fmt"
	"strconv"
	"strings"
)

var sizeSuffixes = []struct {
	suffix     string
	multiplier int64
}{
	{"GB", 1024 * 1024 * 1024},
	{"MB", 1024 * 1024},
	{"KB", 1024},
	{"G", 1024 * 1024 * 1024},
	{"M", 1024 * 1024},
	{"K", 1024},
	{"B", 1},
}

// ParseSize parses a human-readable size string (e.g. "1024", "64KB", "1M")
// into bytes. Suffixes are binary multiples and case-insensitive.
func ParseSize(s string) (int64, error) {
	raw := s
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	var multiplier int64 = 1
	for _, sfx := range sizeSuffixes {
		if strings.HasSuffix(s, sfx.suffix) {
			multiplier = sfx.multiplier
			s = strings.TrimSpace(s[:len(s)-len(sfx.suffix)])
			break
		}
	}

	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", raw, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", raw)
	}
	return val * multiplier, nil
}

// ParseSizeOr parses s like ParseSize and returns defaultBytes if it cannot be parsed.
func ParseSizeOr(s string, defaultBytes int64) int64 {
	n, err := ParseSize(s)
	if err != nil {
		return defaultBytes
	}
	return n
}

// Coalesce returns the first non-zero value, or the zero value if all are zero.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
