package public

import (
	"time"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

type locationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type addressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type amenitiesRequest struct {
	WiFi                 bool `json:"wifi"`
	Seating              bool `json:"seating"`
	WorkFriendly         bool `json:"workFriendly"`
	Bathrooms            bool `json:"bathrooms"`
	PetFriendly          bool `json:"petFriendly"`
	WheelchairAccessible bool `json:"wheelchairAccessible"`
}

type menuItemRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

type socialsRequest struct {
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
}

type cafeRequest struct {
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Location         *locationRequest  `json:"location"`
	Address          addressRequest    `json:"address"`
	Phone            string            `json:"phone"`
	Website          string            `json:"website"`
	Hours            map[string]string `json:"hours"`
	Tags             []string          `json:"tags"`
	Amenities        amenitiesRequest  `json:"amenities"`
	PriceRange       string            `json:"priceRange"`
	Parking          string            `json:"parking"`
	AlternativeMilks []string          `json:"alternativeMilks"`
	CoffeeTypes      []string          `json:"coffeeTypes"`
	DietaryOptions   []string          `json:"dietaryOptions"`
	MenuItems        []menuItemRequest `json:"menuItems"`
	Socials          socialsRequest    `json:"socials"`
	Photos           []string          `json:"photos"`
}

func (req cafeRequest) toCommand() (application.UpsertCafeCommand, error) {
	if req.Location == nil {
		return application.UpsertCafeCommand{}, domain.Validationf("location is required")
	}
	menu := make([]application.MenuItemCommand, 0, len(req.MenuItems))
	for _, item := range req.MenuItems {
		menu = append(menu, application.MenuItemCommand{Name: item.Name, Category: item.Category, Price: item.Price})
	}
	return application.UpsertCafeCommand{
		Name:        req.Name,
		Description: req.Description,
		Latitude:    req.Location.Lat,
		Longitude:   req.Location.Lng,
		Street:      req.Address.Street,
		City:        req.Address.City,
		State:       req.Address.State,
		ZipCode:     req.Address.ZipCode,
		Phone:       req.Phone,
		Website:     req.Website,
		Hours:       req.Hours,
		Tags:        req.Tags,
		Amenities: domain.Amenities{
			WiFi:                 req.Amenities.WiFi,
			Seating:              req.Amenities.Seating,
			WorkFriendly:         req.Amenities.WorkFriendly,
			Bathrooms:            req.Amenities.Bathrooms,
			PetFriendly:          req.Amenities.PetFriendly,
			WheelchairAccessible: req.Amenities.WheelchairAccessible,
		},
		PriceRange:       req.PriceRange,
		Parking:          req.Parking,
		AlternativeMilks: req.AlternativeMilks,
		CoffeeTypes:      req.CoffeeTypes,
		DietaryOptions:   req.DietaryOptions,
		MenuItems:        menu,
		Instagram:        req.Socials.Instagram,
		Twitter:          req.Socials.Twitter,
		Facebook:         req.Socials.Facebook,
		Photos:           req.Photos,
	}, nil
}

type reviewRequest struct {
	OverallRating  int      `json:"overallRating"`
	CoffeeRating   *int     `json:"coffeeRating"`
	TasteRating    *int     `json:"tasteRating"`
	AmbianceRating *int     `json:"ambianceRating"`
	ServiceRating  *int     `json:"serviceRating"`
	ValueRating    *int     `json:"valueRating"`
	Text           string   `json:"text"`
	TasteNotes     []string `json:"tasteNotes"`
	Photos         []string `json:"photos"`
}

func (req reviewRequest) toCommand() application.ReviewCommand {
	return application.ReviewCommand{
		OverallRating:  req.OverallRating,
		CoffeeRating:   req.CoffeeRating,
		TasteRating:    req.TasteRating,
		AmbianceRating: req.AmbianceRating,
		ServiceRating:  req.ServiceRating,
		ValueRating:    req.ValueRating,
		Text:           req.Text,
		TasteNotes:     req.TasteNotes,
		Photos:         req.Photos,
	}
}

type claimRequest struct {
	BusinessEmail string `json:"businessEmail"`
	BusinessPhone string `json:"businessPhone"`
	OwnerName     string `json:"ownerName"`
	OwnerTitle    string `json:"ownerTitle"`
	Reason        string `json:"reason"`
}

func (req claimRequest) toCommand() application.ClaimCommand {
	return application.ClaimCommand{
		BusinessEmail: req.BusinessEmail,
		BusinessPhone: req.BusinessPhone,
		OwnerName:     req.OwnerName,
		OwnerTitle:    req.OwnerTitle,
		Reason:        req.Reason,
	}
}

type busyRequest struct {
	CrowdLevel *int `json:"crowdLevel"`
	WaitMins   *int `json:"waitMins"`
}

type canClaimResponse struct {
	CanClaim    bool   `json:"canClaim"`
	IsClaimed   bool   `json:"isClaimed"`
	ClaimStatus string `json:"claimStatus"`
}

type busyEntryResponse struct {
	ID         string    `json:"id"`
	CafeID     string    `json:"cafeId"`
	CrowdLevel int       `json:"crowdLevel"`
	WaitMins   *int      `json:"waitMins,omitempty"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

func newBusyEntryResponse(e domain.BusyEntry) busyEntryResponse {
	return busyEntryResponse{
		ID:         e.ID,
		CafeID:     e.CafeID,
		CrowdLevel: e.CrowdLevel,
		WaitMins:   e.WaitMins,
		Status:     string(domain.CrowdStatusFor(e.CrowdLevel)),
		Timestamp:  e.Timestamp,
	}
}

type currentCrowdResponse struct {
	Status     string     `json:"status"`
	CrowdLevel *int       `json:"crowdLevel,omitempty"`
	WaitMins   *int       `json:"waitMins,omitempty"`
	ReportedAt *time.Time `json:"reportedAt,omitempty"`
}

type hourlyTrendResponse struct {
	Hour          int     `json:"hour"`
	AvgCrowdLevel float64 `json:"avgCrowdLevel"`
	Samples       int     `json:"samples"`
}
