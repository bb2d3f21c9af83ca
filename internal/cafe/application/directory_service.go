package application

import (
	"context"
	"strings"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"go.uber.org/zap"
)

const (
	maxCafePhotos       = 10
	maxDescriptionRunes = 2000
	maxMenuItems        = 200
)

type directoryService struct {
	cafes  CafeRepository
	cache  PopularCache
	logger *zap.Logger
}

// NewDirectoryService wires the cafe directory. cache may be nil.
func NewDirectoryService(cafes CafeRepository, cache PopularCache, logger *zap.Logger) DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &directoryService{cafes: cafes, cache: cache, logger: logger}
}

func (s *directoryService) Create(ctx context.Context, actor domain.Principal, cmd UpsertCafeCommand) (*domain.Cafe, error) {
	if err := actor.Require(domain.RoleUser, domain.RoleOwner, domain.RoleAdmin); err != nil {
		return nil, err
	}
	profile, err := buildProfileFromCommand(cmd)
	if err != nil {
		return nil, err
	}
	cafe := domain.NewCafe(profile, now())
	if err := s.cafes.Create(ctx, &cafe); err != nil {
		return nil, err
	}
	return &cafe, nil
}

func (s *directoryService) Update(ctx context.Context, actor domain.Principal, id string, cmd UpsertCafeCommand) (*domain.Cafe, error) {
	if err := actor.Require(domain.RoleOwner, domain.RoleAdmin); err != nil {
		return nil, err
	}
	existing, err := s.cafes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.CanBeEditedBy(actor) {
		return nil, domain.Forbiddenf("only an admin or the verified owner may edit this cafe")
	}
	// build fully before writing so a rejected update leaves the cafe untouched
	profile, err := buildProfileFromCommand(cmd)
	if err != nil {
		return nil, err
	}
	if err := s.cafes.UpdateProfile(ctx, id, profile); err != nil {
		return nil, err
	}
	s.invalidatePopular(ctx)

	existing.Profile = profile
	existing.UpdatedAt = now()
	return existing, nil
}

func (s *directoryService) Detail(ctx context.Context, id string) (*domain.Cafe, error) {
	return s.cafes.FindByID(ctx, id)
}

func (s *directoryService) Menu(ctx context.Context, id string) ([]domain.MenuItem, error) {
	cafe, err := s.cafes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return cafe.MenuItems, nil
}

func (s *directoryService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	if err := actor.Require(domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.cafes.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidatePopular(ctx)
	return nil
}

func (s *directoryService) invalidatePopular(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("popular cache invalidation failed", zap.Error(err))
	}
}

func buildProfileFromCommand(cmd UpsertCafeCommand) (domain.Profile, error) {
	name, err := domain.RequireText("name", cmd.Name, 1, 200)
	if err != nil {
		return domain.Profile{}, err
	}
	description, err := domain.RequireText("description", cmd.Description, 0, maxDescriptionRunes)
	if err != nil {
		return domain.Profile{}, err
	}
	location, err := domain.NewCoordinates(cmd.Latitude, cmd.Longitude)
	if err != nil {
		return domain.Profile{}, err
	}
	priceRange, err := domain.NewPriceRange(cmd.PriceRange)
	if err != nil {
		return domain.Profile{}, err
	}
	parking, err := domain.NewParking(cmd.Parking)
	if err != nil {
		return domain.Profile{}, err
	}
	website, err := domain.NewURL(cmd.Website)
	if err != nil {
		return domain.Profile{}, err
	}
	socials, err := domain.NewSocials(cmd.Instagram, cmd.Twitter, cmd.Facebook)
	if err != nil {
		return domain.Profile{}, err
	}
	photos, err := domain.NewURLList(cmd.Photos, maxCafePhotos)
	if err != nil {
		return domain.Profile{}, err
	}
	menu, err := mapMenuItemCommands(cmd.MenuItems)
	if err != nil {
		return domain.Profile{}, err
	}

	return domain.Profile{
		Name:        name,
		Description: description,
		Location:    location,
		Address: domain.Address{
			Street:  strings.TrimSpace(cmd.Street),
			City:    strings.TrimSpace(cmd.City),
			State:   strings.TrimSpace(cmd.State),
			ZipCode: strings.TrimSpace(cmd.ZipCode),
		},
		Phone:            strings.TrimSpace(cmd.Phone),
		Website:          website,
		Hours:            normalizeHours(cmd.Hours),
		Tags:             domain.NewTagList(cmd.Tags),
		Amenities:        cmd.Amenities,
		PriceRange:       priceRange,
		Parking:          parking,
		AlternativeMilks: domain.NewTagList(cmd.AlternativeMilks),
		CoffeeTypes:      domain.NewTagList(cmd.CoffeeTypes),
		DietaryOptions:   domain.NewTagList(cmd.DietaryOptions),
		MenuItems:        menu,
		Socials:          socials,
		Photos:           photos,
	}, nil
}

func mapMenuItemCommands(inputs []MenuItemCommand) ([]domain.MenuItem, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if len(inputs) > maxMenuItems {
		return nil, domain.Validationf("at most %d menu items are allowed", maxMenuItems)
	}
	items := make([]domain.MenuItem, 0, len(inputs))
	for _, input := range inputs {
		item, err := domain.NewMenuItem(input.Name, input.Category, input.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func normalizeHours(hours map[string]string) map[string]string {
	if len(hours) == 0 {
		return nil
	}
	result := make(map[string]string, len(hours))
	for day, value := range hours {
		day = strings.ToLower(strings.TrimSpace(day))
		value = strings.TrimSpace(value)
		if day == "" || value == "" {
			continue
		}
		result[day] = value
	}
	return result
}
