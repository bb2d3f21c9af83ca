package domain

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

// PriceRange is the four-tier price indicator shown on listings.
type PriceRange string

const (
	PriceBudget    PriceRange = "$"
	PriceModerate  PriceRange = "$$"
	PriceExpensive PriceRange = "$$$"
	PriceLuxury    PriceRange = "$$$$"
)

// NewPriceRange accepts one of the four tiers. An empty value means unknown.
func NewPriceRange(value string) (PriceRange, error) {
	switch p := PriceRange(strings.TrimSpace(value)); p {
	case "", PriceBudget, PriceModerate, PriceExpensive, PriceLuxury:
		return p, nil
	}
	return "", Validationf("invalid priceRange %q", value)
}

func (p PriceRange) String() string {
	return string(p)
}

// Parking describes the parking available near a cafe. The zero value means unknown.
type Parking string

const (
	ParkingUnknown Parking = ""
	ParkingStreet  Parking = "street"
	ParkingLot     Parking = "lot"
	ParkingFreeLot Parking = "free_lot"
	ParkingPaidLot Parking = "paid_lot"
	ParkingNone    Parking = "none"
)

func NewParking(value string) (Parking, error) {
	switch p := Parking(strings.ToLower(strings.TrimSpace(value))); p {
	case ParkingUnknown, ParkingStreet, ParkingLot, ParkingFreeLot, ParkingPaidLot, ParkingNone:
		return p, nil
	}
	return "", Validationf("invalid parking %q", value)
}

type Email string

// NewEmail returns the empty Email for blank input; use RequireEmail when the address is mandatory.
func NewEmail(value string) (Email, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > 254 {
		return "", Validationf("email must be at most 254 characters")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", Validationf("invalid email %q", trimmed)
	}
	return Email(trimmed), nil
}

func RequireEmail(field, value string) (Email, error) {
	if strings.TrimSpace(value) == "" {
		return "", Validationf("%s is required", field)
	}
	return NewEmail(value)
}

func (e Email) String() string {
	return string(e)
}

type URL string

func NewURL(value string) (URL, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return "", Validationf("invalid URL %q", trimmed)
	}
	return URL(trimmed), nil
}

func (u URL) String() string {
	return string(u)
}

type URLList []URL

func NewURLList(values []string, limit int) (URLList, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if limit > 0 && len(values) > limit {
		return nil, Validationf("at most %d URLs are allowed", limit)
	}
	result := make([]URL, 0, len(values))
	for _, raw := range values {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		u, err := NewURL(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return URLList(result), nil
}

func (l URLList) Strings() []string {
	result := make([]string, 0, len(l))
	for _, v := range l {
		result = append(result, string(v))
	}
	return result
}

// TagList is a trimmed, de-duplicated list of free-form labels. Order of first
// appearance is kept.
type TagList []string

func NewTagList(values []string) TagList {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{})
	for _, raw := range values {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, tag)
	}
	return TagList(result)
}

func (l TagList) Strings() []string {
	return append([]string(nil), l...)
}

// Score is a 1-5 star rating given by a reviewer.
type Score int

func NewScore(field string, value int) (Score, error) {
	if value < 1 || value > 5 {
		return 0, Validationf("%s must be between 1 and 5", field)
	}
	return Score(value), nil
}

// NewOptionalScore validates a sub-rating that may be absent.
func NewOptionalScore(field string, value *int) (*Score, error) {
	if value == nil {
		return nil, nil
	}
	score, err := NewScore(field, *value)
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func (s Score) Int() int {
	return int(s)
}

// RequireText trims value and checks its length in runes. min 0 makes the field optional.
func RequireText(field, value string, min, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	n := utf8.RuneCountInString(trimmed)
	if min > 0 && n == 0 {
		return "", Validationf("%s is required", field)
	}
	if n < min {
		return "", Validationf("%s must be at least %d characters", field, min)
	}
	if max > 0 && n > max {
		return "", Validationf("%s must be at most %d characters", field, max)
	}
	return trimmed, nil
}
