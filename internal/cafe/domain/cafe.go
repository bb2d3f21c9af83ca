package domain

import (
	"fmt"
	"strings"
	"time"
)

// Cafe is the directory entry aggregate. Profile fields are owned by the
// directory, Ratings by the rating aggregation and Ownership by the claim workflow.
type Cafe struct {
	ID string
	Profile
	Ratings         RatingSummary
	Ownership       Ownership
	CurrentStatus   CrowdStatus
	CurrentWaitTime *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Profile holds the descriptive and amenity fields an admin or the verified owner may edit.
type Profile struct {
	Name             string
	Description      string
	Location         Coordinates
	Address          Address
	Phone            string
	Website          URL
	Hours            map[string]string
	Tags             TagList
	Amenities        Amenities
	PriceRange       PriceRange
	Parking          Parking
	AlternativeMilks TagList
	CoffeeTypes      TagList
	DietaryOptions   TagList
	MenuItems        []MenuItem
	Socials          Socials
	Photos           URLList
}

type Address struct {
	Street  string
	City    string
	State   string
	ZipCode string
}

type Amenities struct {
	WiFi                 bool
	Seating              bool
	WorkFriendly         bool
	Bathrooms            bool
	PetFriendly          bool
	WheelchairAccessible bool
}

type MenuItem struct {
	Name     string
	Category string
	Price    float64
}

type Socials struct {
	Instagram URL
	Twitter   URL
	Facebook  URL
}

func NewSocials(instagram, twitter, facebook string) (Socials, error) {
	ig, err := NewURL(instagram)
	if err != nil {
		return Socials{}, err
	}
	tw, err := NewURL(twitter)
	if err != nil {
		return Socials{}, err
	}
	fb, err := NewURL(facebook)
	if err != nil {
		return Socials{}, err
	}
	return Socials{Instagram: ig, Twitter: tw, Facebook: fb}, nil
}

func NewMenuItem(name, category string, price float64) (MenuItem, error) {
	trimmed, err := RequireText("menu item name", name, 1, 100)
	if err != nil {
		return MenuItem{}, err
	}
	if price < 0 {
		return MenuItem{}, Validationf("menu item %q has a negative price", trimmed)
	}
	return MenuItem{Name: trimmed, Category: strings.TrimSpace(category), Price: price}, nil
}

// NewCafe returns a freshly listed cafe: no ratings, unclaimed, crowd status unknown.
func NewCafe(profile Profile, now time.Time) Cafe {
	return Cafe{
		Profile:       profile,
		Ownership:     Ownership{ClaimStatus: ClaimStatusUnclaimed},
		CurrentStatus: CrowdUnknown,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CanBeEditedBy reports whether p may replace the profile of c.
func (c Cafe) CanBeEditedBy(p Principal) bool {
	if p.Has(RoleAdmin) {
		return true
	}
	return p.Has(RoleOwner) && c.Ownership.IsClaimed && c.Ownership.OwnerID == p.ID
}

// CheckInvariants verifies the ownership and rating invariants of the aggregate.
func (c Cafe) CheckInvariants() error {
	if c.Ownership.IsClaimed {
		if c.Ownership.ClaimStatus != ClaimStatusVerified {
			return fmt.Errorf("cafe %s is claimed but claimStatus is %s", c.ID, c.Ownership.ClaimStatus)
		}
		if c.Ownership.OwnerID == "" {
			return fmt.Errorf("cafe %s is claimed without an owner", c.ID)
		}
	}
	if c.Ratings.ReviewsCount < 0 {
		return fmt.Errorf("cafe %s has a negative reviewsCount", c.ID)
	}
	for _, v := range []float64{c.Ratings.AvgRating, c.Ratings.AvgCoffeeRating, c.Ratings.AvgTasteRating} {
		if v < 0 || v > 5 {
			return fmt.Errorf("cafe %s has an average rating outside [0,5]", c.ID)
		}
	}
	return nil
}
