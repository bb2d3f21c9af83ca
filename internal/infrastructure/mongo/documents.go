package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// CafeDocument is the cafes collection schema. The profile is stored inline
// so UpdateProfile can $set it as one group.
type CafeDocument struct {
	ID                  primitive.ObjectID `bson:"_id"`
	CafeProfileDocument `bson:",inline"`
	Ratings             RatingsDocument   `bson:"ratings"`
	Ownership           OwnershipDocument `bson:"ownership"`
	CurrentStatus       string            `bson:"currentStatus"`
	CurrentWaitTime     *int              `bson:"currentWaitTime"`
	CreatedAt           time.Time         `bson:"createdAt"`
	UpdatedAt           time.Time         `bson:"updatedAt"`
}

type CafeProfileDocument struct {
	Name             string             `bson:"name"`
	Description      string             `bson:"description"`
	Location         LocationDocument   `bson:"location"`
	Address          AddressDocument    `bson:"address"`
	Phone            string             `bson:"phone"`
	Website          string             `bson:"website"`
	Hours            map[string]string  `bson:"hours"`
	Tags             []string           `bson:"tags"`
	Amenities        AmenitiesDocument  `bson:"amenities"`
	PriceRange       string             `bson:"priceRange"`
	Parking          string             `bson:"parking"`
	AlternativeMilks []string           `bson:"alternativeMilks"`
	CoffeeTypes      []string           `bson:"coffeeTypes"`
	DietaryOptions   []string           `bson:"dietaryOptions"`
	MenuItems        []MenuItemDocument `bson:"menuItems"`
	Socials          SocialsDocument    `bson:"socials"`
	Photos           []string           `bson:"photos"`
}

type LocationDocument struct {
	Latitude  float64 `bson:"lat"`
	Longitude float64 `bson:"lng"`
}

type AddressDocument struct {
	Street  string `bson:"street"`
	City    string `bson:"city"`
	State   string `bson:"state"`
	ZipCode string `bson:"zipCode"`
}

type AmenitiesDocument struct {
	WiFi                 bool `bson:"wifi"`
	Seating              bool `bson:"seating"`
	WorkFriendly         bool `bson:"workFriendly"`
	Bathrooms            bool `bson:"bathrooms"`
	PetFriendly          bool `bson:"petFriendly"`
	WheelchairAccessible bool `bson:"wheelchairAccessible"`
}

type MenuItemDocument struct {
	Name     string  `bson:"name"`
	Category string  `bson:"category"`
	Price    float64 `bson:"price"`
}

type SocialsDocument struct {
	Instagram string `bson:"instagram"`
	Twitter   string `bson:"twitter"`
	Facebook  string `bson:"facebook"`
}

// RatingsDocument is written only by the rating recalculation.
type RatingsDocument struct {
	AvgRating       float64 `bson:"avgRating"`
	AvgCoffeeRating float64 `bson:"avgCoffeeRating"`
	AvgTasteRating  float64 `bson:"avgTasteRating"`
	ReviewsCount    int     `bson:"reviewsCount"`
}

// OwnershipDocument is written only by the claim workflow.
type OwnershipDocument struct {
	OwnerID       string     `bson:"ownerId"`
	IsClaimed     bool       `bson:"isClaimed"`
	ClaimStatus   string     `bson:"claimStatus"`
	IsVerified    bool       `bson:"isVerified"`
	ClaimedAt     *time.Time `bson:"claimedAt"`
	BusinessEmail string     `bson:"businessEmail"`
}

// ReviewDocument is the reviews collection schema.
type ReviewDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	CafeID         string             `bson:"cafeId"`
	UserID         string             `bson:"userId"`
	Username       string             `bson:"username"`
	OverallRating  int                `bson:"overallRating"`
	CoffeeRating   *int               `bson:"coffeeRating"`
	TasteRating    *int               `bson:"tasteRating"`
	AmbianceRating *int               `bson:"ambianceRating"`
	ServiceRating  *int               `bson:"serviceRating"`
	ValueRating    *int               `bson:"valueRating"`
	Text           string             `bson:"text"`
	TasteNotes     []string           `bson:"tasteNotes"`
	Photos         []string           `bson:"photos"`
	Status         string             `bson:"status"`
	AdminID        string             `bson:"adminId,omitempty"`
	AdminNotes     string             `bson:"adminNotes,omitempty"`
	ReviewedAt     *time.Time         `bson:"reviewedAt,omitempty"`
	Likes          int                `bson:"likes"`
	HelpfulVotes   int                `bson:"helpfulVotes"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

// ClaimDocument is the claims collection schema.
type ClaimDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	CafeID        string             `bson:"cafeId"`
	UserID        string             `bson:"userId"`
	BusinessEmail string             `bson:"businessEmail"`
	BusinessPhone string             `bson:"businessPhone"`
	OwnerName     string             `bson:"ownerName"`
	OwnerTitle    string             `bson:"ownerTitle"`
	Reason        string             `bson:"reason,omitempty"`
	Status        string             `bson:"status"`
	SubmittedAt   time.Time          `bson:"submittedAt"`
	ReviewedAt    *time.Time         `bson:"reviewedAt,omitempty"`
	ReviewedBy    string             `bson:"reviewedBy,omitempty"`
	ReviewNotes   string             `bson:"reviewNotes,omitempty"`
}

// BusyDocument is the busy_entries collection schema.
type BusyDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	CafeID     string             `bson:"cafeId"`
	UserID     string             `bson:"userId"`
	CrowdLevel int                `bson:"crowdLevel"`
	WaitMins   *int               `bson:"waitMins,omitempty"`
	Timestamp  time.Time          `bson:"timestamp"`
}

func newCafeProfileDocument(p domain.Profile) CafeProfileDocument {
	menu := make([]MenuItemDocument, 0, len(p.MenuItems))
	for _, item := range p.MenuItems {
		menu = append(menu, MenuItemDocument{Name: item.Name, Category: item.Category, Price: item.Price})
	}
	return CafeProfileDocument{
		Name:        p.Name,
		Description: p.Description,
		Location:    LocationDocument{Latitude: p.Location.Latitude, Longitude: p.Location.Longitude},
		Address: AddressDocument{
			Street:  p.Address.Street,
			City:    p.Address.City,
			State:   p.Address.State,
			ZipCode: p.Address.ZipCode,
		},
		Phone:   p.Phone,
		Website: p.Website.String(),
		Hours:   p.Hours,
		Tags:    p.Tags.Strings(),
		Amenities: AmenitiesDocument{
			WiFi:                 p.Amenities.WiFi,
			Seating:              p.Amenities.Seating,
			WorkFriendly:         p.Amenities.WorkFriendly,
			Bathrooms:            p.Amenities.Bathrooms,
			PetFriendly:          p.Amenities.PetFriendly,
			WheelchairAccessible: p.Amenities.WheelchairAccessible,
		},
		PriceRange:       p.PriceRange.String(),
		Parking:          string(p.Parking),
		AlternativeMilks: p.AlternativeMilks.Strings(),
		CoffeeTypes:      p.CoffeeTypes.Strings(),
		DietaryOptions:   p.DietaryOptions.Strings(),
		MenuItems:        menu,
		Socials: SocialsDocument{
			Instagram: p.Socials.Instagram.String(),
			Twitter:   p.Socials.Twitter.String(),
			Facebook:  p.Socials.Facebook.String(),
		},
		Photos: p.Photos.Strings(),
	}
}

func (d CafeProfileDocument) toDomain() domain.Profile {
	var menu []domain.MenuItem
	for _, item := range d.MenuItems {
		menu = append(menu, domain.MenuItem{Name: item.Name, Category: item.Category, Price: item.Price})
	}
	return domain.Profile{
		Name:        d.Name,
		Description: d.Description,
		Location:    domain.Coordinates{Latitude: d.Location.Latitude, Longitude: d.Location.Longitude},
		Address: domain.Address{
			Street:  d.Address.Street,
			City:    d.Address.City,
			State:   d.Address.State,
			ZipCode: d.Address.ZipCode,
		},
		Phone:   d.Phone,
		Website: domain.URL(d.Website),
		Hours:   d.Hours,
		Tags:    domain.TagList(d.Tags),
		Amenities: domain.Amenities{
			WiFi:                 d.Amenities.WiFi,
			Seating:              d.Amenities.Seating,
			WorkFriendly:         d.Amenities.WorkFriendly,
			Bathrooms:            d.Amenities.Bathrooms,
			PetFriendly:          d.Amenities.PetFriendly,
			WheelchairAccessible: d.Amenities.WheelchairAccessible,
		},
		PriceRange:       domain.PriceRange(d.PriceRange),
		Parking:          domain.Parking(d.Parking),
		AlternativeMilks: domain.TagList(d.AlternativeMilks),
		CoffeeTypes:      domain.TagList(d.CoffeeTypes),
		DietaryOptions:   domain.TagList(d.DietaryOptions),
		MenuItems:        menu,
		Socials: domain.Socials{
			Instagram: domain.URL(d.Socials.Instagram),
			Twitter:   domain.URL(d.Socials.Twitter),
			Facebook:  domain.URL(d.Socials.Facebook),
		},
		Photos: urlList(d.Photos),
	}
}

func newRatingsDocument(r domain.RatingSummary) RatingsDocument {
	return RatingsDocument{
		AvgRating:       r.AvgRating,
		AvgCoffeeRating: r.AvgCoffeeRating,
		AvgTasteRating:  r.AvgTasteRating,
		ReviewsCount:    r.ReviewsCount,
	}
}

func newOwnershipDocument(o domain.Ownership) OwnershipDocument {
	return OwnershipDocument{
		OwnerID:       o.OwnerID,
		IsClaimed:     o.IsClaimed,
		ClaimStatus:   string(o.StatusOrDefault()),
		IsVerified:    o.IsVerified,
		ClaimedAt:     o.ClaimedAt,
		BusinessEmail: o.BusinessEmail.String(),
	}
}

func newCafeDocument(c *domain.Cafe) CafeDocument {
	return CafeDocument{
		CafeProfileDocument: newCafeProfileDocument(c.Profile),
		Ratings:             newRatingsDocument(c.Ratings),
		Ownership:           newOwnershipDocument(c.Ownership),
		CurrentStatus:       string(c.CurrentStatus),
		CurrentWaitTime:     c.CurrentWaitTime,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

func (d CafeDocument) toDomain() domain.Cafe {
	status := domain.CrowdStatus(d.CurrentStatus)
	if status == "" {
		status = domain.CrowdUnknown
	}
	return domain.Cafe{
		ID:      d.ID.Hex(),
		Profile: d.CafeProfileDocument.toDomain(),
		Ratings: domain.RatingSummary{
			AvgRating:       d.Ratings.AvgRating,
			AvgCoffeeRating: d.Ratings.AvgCoffeeRating,
			AvgTasteRating:  d.Ratings.AvgTasteRating,
			ReviewsCount:    d.Ratings.ReviewsCount,
		},
		Ownership: domain.Ownership{
			OwnerID:       d.Ownership.OwnerID,
			IsClaimed:     d.Ownership.IsClaimed,
			ClaimStatus:   domain.ClaimStatus(d.Ownership.ClaimStatus),
			IsVerified:    d.Ownership.IsVerified,
			ClaimedAt:     d.Ownership.ClaimedAt,
			BusinessEmail: domain.Email(d.Ownership.BusinessEmail),
		},
		CurrentStatus:   status,
		CurrentWaitTime: d.CurrentWaitTime,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func newReviewDocument(r *domain.Review) ReviewDocument {
	photos := r.Photos.Strings()
	return ReviewDocument{
		CafeID:         r.CafeID,
		UserID:         r.UserID,
		Username:       r.Username,
		OverallRating:  r.Overall.Int(),
		CoffeeRating:   scoreToInt(r.Coffee),
		TasteRating:    scoreToInt(r.Taste),
		AmbianceRating: scoreToInt(r.Ambiance),
		ServiceRating:  scoreToInt(r.Service),
		ValueRating:    scoreToInt(r.Value),
		Text:           r.Text,
		TasteNotes:     r.TasteNotes.Strings(),
		Photos:         photos,
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

func (d ReviewDocument) toDomain() domain.Review {
	return domain.Review{
		ID:       d.ID.Hex(),
		CafeID:   d.CafeID,
		UserID:   d.UserID,
		Username: d.Username,
		ReviewContent: domain.ReviewContent{
			Overall:    domain.Score(d.OverallRating),
			Coffee:     intToScore(d.CoffeeRating),
			Taste:      intToScore(d.TasteRating),
			Ambiance:   intToScore(d.AmbianceRating),
			Service:    intToScore(d.ServiceRating),
			Value:      intToScore(d.ValueRating),
			Text:       d.Text,
			TasteNotes: domain.TagList(d.TasteNotes),
			Photos:     urlList(d.Photos),
		},
		Status: domain.ReviewStatus(d.Status),
		Moderation: domain.Moderation{
			AdminID:    d.AdminID,
			AdminNotes: d.AdminNotes,
			ReviewedAt: d.ReviewedAt,
		},
		Likes:        d.Likes,
		HelpfulVotes: d.HelpfulVotes,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func newClaimDocument(c *domain.ClaimRequest) ClaimDocument {
	return ClaimDocument{
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

func (d ClaimDocument) toDomain() domain.ClaimRequest {
	return domain.ClaimRequest{
		ID:     d.ID.Hex(),
		CafeID: d.CafeID,
		UserID: d.UserID,
		Business: domain.BusinessInfo{
			BusinessEmail: domain.Email(d.BusinessEmail),
			BusinessPhone: d.BusinessPhone,
			OwnerName:     d.OwnerName,
			OwnerTitle:    d.OwnerTitle,
			Reason:        d.Reason,
		},
		Status:      domain.ClaimRequestStatus(d.Status),
		SubmittedAt: d.SubmittedAt,
		ReviewedAt:  d.ReviewedAt,
		ReviewedBy:  d.ReviewedBy,
		ReviewNotes: d.ReviewNotes,
	}
}

func (d BusyDocument) toDomain() domain.BusyEntry {
	return domain.BusyEntry{
		ID:         d.ID.Hex(),
		CafeID:     d.CafeID,
		UserID:     d.UserID,
		CrowdLevel: d.CrowdLevel,
		WaitMins:   d.WaitMins,
		Timestamp:  d.Timestamp,
	}
}

func scoreToInt(s *domain.Score) *int {
	if s == nil {
		return nil
	}
	v := s.Int()
	return &v
}

func intToScore(v *int) *domain.Score {
	if v == nil {
		return nil
	}
	s := domain.Score(*v)
	return &s
}

func urlList(raw []string) domain.URLList {
	if len(raw) == 0 {
		return nil
	}
	list := make(domain.URLList, 0, len(raw))
	for _, v := range raw {
		list = append(list, domain.URL(v))
	}
	return list
}
