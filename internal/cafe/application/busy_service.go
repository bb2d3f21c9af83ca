package application

import (
	"context"
	"time"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

const (
	maxBusyHistoryHours = 24 * 7
	maxBusyTrendDays    = 30
)

type busyService struct {
	entries BusyRepository
	cafes   CafeRepository
}

func NewBusyService(entries BusyRepository, cafes CafeRepository) BusyService {
	return &busyService{entries: entries, cafes: cafes}
}

func (s *busyService) Report(ctx context.Context, actor domain.Principal, cafeID string, cmd BusyReportCommand) (*domain.BusyEntry, error) {
	if err := actor.Require(domain.RoleUser); err != nil {
		return nil, err
	}
	entry, err := domain.NewBusyEntry(cafeID, actor.ID, cmd.CrowdLevel, cmd.WaitMins, now())
	if err != nil {
		return nil, err
	}
	if _, err := s.cafes.FindByID(ctx, cafeID); err != nil {
		return nil, err
	}
	if err := s.entries.Create(ctx, &entry); err != nil {
		return nil, err
	}
	if err := s.cafes.UpdateCrowd(ctx, cafeID, domain.CrowdStatusFor(entry.CrowdLevel), entry.WaitMins); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *busyService) History(ctx context.Context, cafeID string, hours int) ([]domain.BusyEntry, error) {
	if hours <= 0 {
		hours = domain.DefaultBusyHistoryHours
	}
	if hours > maxBusyHistoryHours {
		hours = maxBusyHistoryHours
	}
	return s.entries.Since(ctx, cafeID, now().Add(-time.Duration(hours)*time.Hour))
}

func (s *busyService) Current(ctx context.Context, cafeID string) (domain.CurrentCrowd, error) {
	latest, err := s.entries.Latest(ctx, cafeID)
	if err != nil {
		return domain.CurrentCrowd{}, err
	}
	return domain.CurrentCrowdFrom(latest, now()), nil
}

func (s *busyService) Trends(ctx context.Context, cafeID string, days int) ([]domain.HourlyTrend, error) {
	if days <= 0 {
		days = domain.DefaultBusyTrendDays
	}
	if days > maxBusyTrendDays {
		days = maxBusyTrendDays
	}
	entries, err := s.entries.Since(ctx, cafeID, now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	return domain.HourlyTrends(entries), nil
}
