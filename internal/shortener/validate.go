package shortener

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidURL         = errors.New("url must start with http:// or https://")
	ErrInvalidShortcode   = errors.New("shortcode must be 4-20 characters of letters, digits, '_' or '-'")
	ErrDuplicateShortcode = errors.New("shortcode already in use")
	ErrCodeSpaceExhausted = errors.New("could not generate an unused shortcode")
)

var (
	urlPattern       = regexp.MustCompile(`^https?://.+`)
	shortcodePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{4,20}$`)
)

// DefaultValidityMinutes applies when no positive validity is given.
const DefaultValidityMinutes = 30

// maxValidityMinutes keeps ExpiresAt within time.Duration range.
const maxValidityMinutes = math.MaxInt64 / int64(time.Minute)

// ValidURL reports whether raw is an http or https URL.
func ValidURL(raw string) bool {
	return urlPattern.MatchString(raw)
}

// ValidShortcode reports whether code is acceptable as a custom shortcode.
func ValidShortcode(code string) bool {
	return shortcodePattern.MatchString(code)
}

// ParseValidity reads the leading integer of a form value the way a browser's parseInt does:
// "15" and " 15min" both give 15. Anything without a leading integer gives 0, which the
// service later replaces with the default.
func ParseValidity(raw string) int64 {
	s := strings.TrimLeft(raw, " \t\n\r")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == digits {
		return 0
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		if s[0] == '-' {
			return 0
		}

		return maxValidityMinutes
	}

	return n
}

func normalizeValidity(minutes, fallback int64) int64 {
	if minutes <= 0 {
		return fallback
	}

	if minutes > maxValidityMinutes {
		return maxValidityMinutes
	}

	return minutes
}
