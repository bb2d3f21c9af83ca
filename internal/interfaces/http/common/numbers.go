package common

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// ParsePositiveInt parses positive integers with fallback.
func ParsePositiveInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback, false
	}
	return parsed, true
}

// QueryFloat reads an optional float parameter. A present but malformed or
// non-finite value is a validation error.
func QueryFloat(query url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.Validationf("%s must be a number", key)
	}
	return &v, nil
}

// QueryBool reads an optional boolean parameter.
func QueryBool(query url.Values, key string) (*bool, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.Validationf("%s must be true or false", key)
	}
	return &v, nil
}

// QueryString returns a pointer to the trimmed parameter, or nil when absent.
func QueryString(query url.Values, key string) *string {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil
	}
	return &raw
}

// ParsePaging reads page and limit with defaults and an upper bound on limit.
func ParsePaging(query url.Values) (page, limit int) {
	page, _ = ParsePositiveInt(query.Get("page"), 1)
	limit, _ = ParsePositiveInt(query.Get("limit"), DefaultPageLimit)
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
