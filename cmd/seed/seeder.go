package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

var seedAdmin = domain.Principal{ID: "seed-admin", Username: "seed-admin", Roles: []domain.Role{domain.RoleAdmin}}

type city struct {
	name  string
	state string
	lat   float64
	lng   float64
}

var cities = []city{
	{"San Francisco", "CA", 37.7749, -122.4194},
	{"Atlanta", "GA", 33.7490, -84.3880},
	{"Seattle", "WA", 47.6062, -122.3321},
	{"Austin", "TX", 30.2672, -97.7431},
}

var (
	namePrefixes = []string{"Blue", "Copper", "Little", "Golden", "Night", "Maple", "Harbor", "Velvet"}
	nameSuffixes = []string{"Bean", "Roasters", "Cup", "Kettle", "Brew Bar", "Espresso", "Coffee Co.", "Grind"}
	tagOptions   = []string{"espresso", "pour over", "cold brew", "pastries", "quiet", "patio", "laptop friendly", "single origin"}
	milkOptions  = []string{"oat", "almond", "soy", "coconut"}
	coffeeTypes  = []string{"espresso", "drip", "pour over", "cold brew", "nitro"}
	dietOptions  = []string{"vegan", "gluten free", "dairy free"}
	priceRanges  = []string{"$", "$$", "$$$"}
	parkingTypes = []string{"street", "lot", "free_lot", "none"}
	reviewTexts  = []string{
		"Great espresso and friendly baristas.",
		"Cozy spot, a bit loud at lunch.",
		"Pour over was bright and clean.",
		"Plenty of outlets, good for working.",
		"Pastries sell out early, come before ten.",
		"Solid cortado, slow service on weekends.",
	}
	tasteNotes = []string{"chocolate", "citrus", "berry", "caramel", "nutty", "floral"}
)

type seeder struct {
	rng       *rand.Rand
	directory application.DirectoryService
	reviews   application.ReviewService
	busy      application.BusyService
}

// plan is everything random about one cafe, drawn up front so concurrent
// workers never touch the shared rng.
type plan struct {
	cafe    application.UpsertCafeCommand
	reviews []reviewPlan
	crowd   []int
}

type reviewPlan struct {
	author  domain.Principal
	cmd     application.ReviewCommand
	approve bool
}

func (s seeder) run(ctx context.Context, opts seedOptions) (seedSummary, error) {
	plans := make([]plan, 0, opts.cafeCount)
	for i := 0; i < opts.cafeCount; i++ {
		plans = append(plans, s.plan(i, opts))
	}

	var (
		mu    sync.Mutex
		total seedSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers)
	for _, p := range plans {
		p := p
		g.Go(func() error {
			summary, err := s.seedCafe(gctx, p)
			if err != nil {
				return fmt.Errorf("seed %q: %w", p.cafe.Name, err)
			}
			mu.Lock()
			total = total.add(summary)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return seedSummary{}, err
	}
	return total, nil
}

func (s seeder) plan(i int, opts seedOptions) plan {
	p := plan{cafe: s.cafeCommand(i)}
	n := 0
	if opts.reviewsPerCafe > 0 {
		n = 1 + s.rng.Intn(opts.reviewsPerCafe)
	}
	for j := 0; j < n; j++ {
		p.reviews = append(p.reviews, reviewPlan{
			author:  seedUser(j),
			cmd:     s.reviewCommand(),
			approve: s.rng.Intn(100) < opts.approvedPercent,
		})
	}
	for k := 0; k < s.rng.Intn(4); k++ {
		p.crowd = append(p.crowd, s.rng.Intn(101))
	}
	return p
}

func (s seeder) seedCafe(ctx context.Context, p plan) (seedSummary, error) {
	cafe, err := s.directory.Create(ctx, seedAdmin, p.cafe)
	if err != nil {
		return seedSummary{}, err
	}
	summary := seedSummary{cafes: 1}
	for _, rp := range p.reviews {
		review, err := s.reviews.Submit(ctx, rp.author, cafe.ID, rp.cmd)
		if err != nil {
			return summary, err
		}
		summary.reviews++
		if !rp.approve {
			continue
		}
		if _, err := s.reviews.Decide(ctx, seedAdmin, review.ID, application.DecideCommand{Decision: string(domain.DecisionApproved)}); err != nil {
			return summary, err
		}
		summary.approved++
	}
	for i, level := range p.crowd {
		if _, err := s.busy.Report(ctx, seedUser(i), cafe.ID, application.BusyReportCommand{CrowdLevel: level}); err != nil {
			return summary, err
		}
		summary.busyReports++
	}
	return summary, nil
}

func seedUser(i int) domain.Principal {
	id := fmt.Sprintf("seed-user-%02d", i+1)
	return domain.Principal{ID: id, Username: id, Roles: []domain.Role{domain.RoleUser}}
}

func (s seeder) cafeCommand(i int) application.UpsertCafeCommand {
	c := cities[i%len(cities)]
	name := fmt.Sprintf("%s %s", pick(s.rng, namePrefixes), pick(s.rng, nameSuffixes))
	if i >= len(namePrefixes) {
		name = fmt.Sprintf("%s #%d", name, i+1)
	}
	// scatter within a few km of the city centre
	lat := c.lat + (s.rng.Float64()-0.5)*0.07
	lng := c.lng + (s.rng.Float64()-0.5)*0.07/math.Cos(c.lat*math.Pi/180)

	menu := []application.MenuItemCommand{
		{Name: "Espresso", Category: "coffee", Price: round(2.5 + s.rng.Float64())},
		{Name: "Latte", Category: "coffee", Price: round(4 + s.rng.Float64()*1.5)},
		{Name: "Croissant", Category: "pastry", Price: round(3 + s.rng.Float64())},
	}
	slug := slugify(name)
	return application.UpsertCafeCommand{
		Name:        name,
		Description: fmt.Sprintf("Neighbourhood coffee bar in %s.", c.name),
		Latitude:    lat,
		Longitude:   lng,
		Street:      fmt.Sprintf("%d %s St", 100+s.rng.Intn(900), pick(s.rng, namePrefixes)),
		City:        c.name,
		State:       c.state,
		ZipCode:     fmt.Sprintf("%05d", 10000+s.rng.Intn(89999)),
		Phone:       fmt.Sprintf("+1 555 %04d", s.rng.Intn(10000)),
		Website:     fmt.Sprintf("https://%s.example.com", slug),
		Hours: map[string]string{
			"mon-fri": "07:00-18:00",
			"sat-sun": "08:00-16:00",
		},
		Tags: pickUnique(s.rng, tagOptions, 1+s.rng.Intn(3)),
		Amenities: domain.Amenities{
			WiFi:                 s.rng.Intn(4) != 0,
			Seating:              s.rng.Intn(5) != 0,
			WorkFriendly:         s.rng.Intn(2) == 0,
			Bathrooms:            s.rng.Intn(3) != 0,
			PetFriendly:          s.rng.Intn(3) == 0,
			WheelchairAccessible: s.rng.Intn(2) == 0,
		},
		PriceRange:       pick(s.rng, priceRanges),
		Parking:          pick(s.rng, parkingTypes),
		AlternativeMilks: pickUnique(s.rng, milkOptions, s.rng.Intn(len(milkOptions)+1)),
		CoffeeTypes:      pickUnique(s.rng, coffeeTypes, 1+s.rng.Intn(3)),
		DietaryOptions:   pickUnique(s.rng, dietOptions, s.rng.Intn(2)),
		MenuItems:        menu,
		Instagram:        fmt.Sprintf("https://instagram.com/%s", slug),
	}
}

func (s seeder) reviewCommand() application.ReviewCommand {
	cmd := application.ReviewCommand{
		OverallRating: 2 + s.rng.Intn(4),
		Text:          pick(s.rng, reviewTexts),
		TasteNotes:    pickUnique(s.rng, tasteNotes, s.rng.Intn(3)),
	}
	if s.rng.Intn(3) != 0 {
		v := 2 + s.rng.Intn(4)
		cmd.CoffeeRating = &v
	}
	if s.rng.Intn(2) == 0 {
		v := 2 + s.rng.Intn(4)
		cmd.TasteRating = &v
	}
	return cmd
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func pickUnique(rng *rand.Rand, source []string, count int) []string {
	if count <= 0 {
		return nil
	}
	if count >= len(source) {
		return append([]string(nil), source...)
	}
	result := make([]string, 0, count)
	for _, idx := range rng.Perm(len(source))[:count] {
		result = append(result, source[idx])
	}
	return result
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
