package common

import (
	"time"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

type LocationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type AddressResponse struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

type AmenitiesResponse struct {
	WiFi                 bool `json:"wifi"`
	Seating              bool `json:"seating"`
	WorkFriendly         bool `json:"workFriendly"`
	Bathrooms            bool `json:"bathrooms"`
	PetFriendly          bool `json:"petFriendly"`
	WheelchairAccessible bool `json:"wheelchairAccessible"`
}

type MenuItemResponse struct {
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
}

type SocialsResponse struct {
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
}

type RatingsResponse struct {
	AvgRating       float64 `json:"avgRating"`
	AvgCoffeeRating float64 `json:"avgCoffeeRating"`
	AvgTasteRating  float64 `json:"avgTasteRating"`
	ReviewsCount    int     `json:"reviewsCount"`
}

type OwnershipResponse struct {
	OwnerID     string     `json:"ownerId,omitempty"`
	IsClaimed   bool       `json:"isClaimed"`
	ClaimStatus string     `json:"claimStatus"`
	IsVerified  bool       `json:"isVerified"`
	ClaimedAt   *time.Time `json:"claimedAt,omitempty"`
}

// CafeResponse is the wire form of a cafe. The business email stays private.
type CafeResponse struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description,omitempty"`
	Location         LocationResponse   `json:"location"`
	Address          AddressResponse    `json:"address"`
	Phone            string             `json:"phone,omitempty"`
	Website          string             `json:"website,omitempty"`
	Hours            map[string]string  `json:"hours,omitempty"`
	Tags             []string           `json:"tags"`
	Amenities        AmenitiesResponse  `json:"amenities"`
	PriceRange       string             `json:"priceRange,omitempty"`
	Parking          string             `json:"parking,omitempty"`
	AlternativeMilks []string           `json:"alternativeMilks"`
	CoffeeTypes      []string           `json:"coffeeTypes"`
	DietaryOptions   []string           `json:"dietaryOptions"`
	MenuItems        []MenuItemResponse `json:"menuItems"`
	Socials          SocialsResponse    `json:"socials"`
	Photos           []string           `json:"photos"`
	Ratings          RatingsResponse    `json:"ratings"`
	Ownership        OwnershipResponse  `json:"ownership"`
	CurrentStatus    string             `json:"currentStatus,omitempty"`
	CurrentWaitTime  *int               `json:"currentWaitTime,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

func NewCafeResponse(c domain.Cafe) CafeResponse {
	return CafeResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Location:    LocationResponse{Lat: c.Location.Latitude, Lng: c.Location.Longitude},
		Address: AddressResponse{
			Street:  c.Address.Street,
			City:    c.Address.City,
			State:   c.Address.State,
			ZipCode: c.Address.ZipCode,
		},
		Phone:   c.Phone,
		Website: c.Website.String(),
		Hours:   c.Hours,
		Tags:    nonNil(c.Tags.Strings()),
		Amenities: AmenitiesResponse{
			WiFi:                 c.Amenities.WiFi,
			Seating:              c.Amenities.Seating,
			WorkFriendly:         c.Amenities.WorkFriendly,
			Bathrooms:            c.Amenities.Bathrooms,
			PetFriendly:          c.Amenities.PetFriendly,
			WheelchairAccessible: c.Amenities.WheelchairAccessible,
		},
		PriceRange:       c.PriceRange.String(),
		Parking:          string(c.Parking),
		AlternativeMilks: nonNil(c.AlternativeMilks.Strings()),
		CoffeeTypes:      nonNil(c.CoffeeTypes.Strings()),
		DietaryOptions:   nonNil(c.DietaryOptions.Strings()),
		MenuItems:        NewMenuResponse(c.MenuItems),
		Socials: SocialsResponse{
			Instagram: c.Socials.Instagram.String(),
			Twitter:   c.Socials.Twitter.String(),
			Facebook:  c.Socials.Facebook.String(),
		},
		Photos: nonNil(c.Photos.Strings()),
		Ratings: RatingsResponse{
			AvgRating:       c.Ratings.AvgRating,
			AvgCoffeeRating: c.Ratings.AvgCoffeeRating,
			AvgTasteRating:  c.Ratings.AvgTasteRating,
			ReviewsCount:    c.Ratings.ReviewsCount,
		},
		Ownership: OwnershipResponse{
			OwnerID:     c.Ownership.OwnerID,
			IsClaimed:   c.Ownership.IsClaimed,
			ClaimStatus: string(c.Ownership.StatusOrDefault()),
			IsVerified:  c.Ownership.IsVerified,
			ClaimedAt:   c.Ownership.ClaimedAt,
		},
		CurrentStatus:   string(c.CurrentStatus),
		CurrentWaitTime: c.CurrentWaitTime,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func NewCafeListResponse(cafes []domain.Cafe) []CafeResponse {
	items := make([]CafeResponse, 0, len(cafes))
	for _, c := range cafes {
		items = append(items, NewCafeResponse(c))
	}
	return items
}

func NewMenuResponse(menu []domain.MenuItem) []MenuItemResponse {
	items := make([]MenuItemResponse, 0, len(menu))
	for _, m := range menu {
		items = append(items, MenuItemResponse{Name: m.Name, Category: m.Category, Price: m.Price})
	}
	return items
}

type ReviewResponse struct {
	ID             string     `json:"id"`
	CafeID         string     `json:"cafeId"`
	UserID         string     `json:"userId"`
	Username       string     `json:"username,omitempty"`
	OverallRating  int        `json:"overallRating"`
	CoffeeRating   *int       `json:"coffeeRating,omitempty"`
	TasteRating    *int       `json:"tasteRating,omitempty"`
	AmbianceRating *int       `json:"ambianceRating,omitempty"`
	ServiceRating  *int       `json:"serviceRating,omitempty"`
	ValueRating    *int       `json:"valueRating,omitempty"`
	Text           string     `json:"text,omitempty"`
	TasteNotes     []string   `json:"tasteNotes"`
	Photos         []string   `json:"photos"`
	Status         string     `json:"status"`
	AdminID        string     `json:"adminId,omitempty"`
	AdminNotes     string     `json:"adminNotes,omitempty"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty"`
	Likes          int        `json:"likes"`
	HelpfulVotes   int        `json:"helpfulVotes"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func NewReviewResponse(r domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:             r.ID,
		CafeID:         r.CafeID,
		UserID:         r.UserID,
		Username:       r.Username,
		OverallRating:  r.Overall.Int(),
		CoffeeRating:   scorePtr(r.Coffee),
		TasteRating:    scorePtr(r.Taste),
		AmbianceRating: scorePtr(r.Ambiance),
		ServiceRating:  scorePtr(r.Service),
		ValueRating:    scorePtr(r.Value),
		Text:           r.Text,
		TasteNotes:     nonNil(r.TasteNotes.Strings()),
		Photos:         nonNil(r.Photos.Strings()),
		Status:         string(r.Status),
		AdminID:        r.Moderation.AdminID,
		AdminNotes:     r.Moderation.AdminNotes,
		ReviewedAt:     r.Moderation.ReviewedAt,
		Likes:          r.Likes,
		HelpfulVotes:   r.HelpfulVotes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func NewReviewListResponse(reviews []domain.Review) []ReviewResponse {
	items := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, NewReviewResponse(r))
	}
	return items
}

type ClaimResponse struct {
	ID            string     `json:"id"`
	CafeID        string     `json:"cafeId"`
	UserID        string     `json:"userId"`
	BusinessEmail string     `json:"businessEmail"`
	BusinessPhone string     `json:"businessPhone"`
	OwnerName     string     `json:"ownerName"`
	OwnerTitle    string     `json:"ownerTitle"`
	Reason        string     `json:"reason,omitempty"`
	Status        string     `json:"status"`
	SubmittedAt   time.Time  `json:"submittedAt"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy    string     `json:"reviewedBy,omitempty"`
	ReviewNotes   string     `json:"reviewNotes,omitempty"`
}

func NewClaimResponse(c domain.ClaimRequest) ClaimResponse {
	return ClaimResponse{
		ID:            c.ID,
		CafeID:        c.CafeID,
		UserID:        c.UserID,
		BusinessEmail: c.Business.BusinessEmail.String(),
		BusinessPhone: c.Business.BusinessPhone,
		OwnerName:     c.Business.OwnerName,
		OwnerTitle:    c.Business.OwnerTitle,
		Reason:        c.Business.Reason,
		Status:        string(c.Status),
		SubmittedAt:   c.SubmittedAt,
		ReviewedAt:    c.ReviewedAt,
		ReviewedBy:    c.ReviewedBy,
		ReviewNotes:   c.ReviewNotes,
	}
}

func NewClaimListResponse(claims []domain.ClaimRequest) []ClaimResponse {
	items := make([]ClaimResponse, 0, len(claims))
	for _, c := range claims {
		items = append(items, NewClaimResponse(c))
	}
	return items
}

func scorePtr(s *domain.Score) *int {
	if s == nil {
		return nil
	}
	v := s.Int()
	return &v
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
