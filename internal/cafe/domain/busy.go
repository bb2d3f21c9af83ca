package domain

import (
	"sort"
	"time"
)

// CrowdStatus is the coarse crowd level derived from the latest report.
type CrowdStatus string

const (
	CrowdUnknown  CrowdStatus = "unknown"
	CrowdQuiet    CrowdStatus = "quiet"
	CrowdModerate CrowdStatus = "moderate"
	CrowdBusy     CrowdStatus = "busy"
	CrowdVeryBusy CrowdStatus = "very_busy"
)

const (
	DefaultBusyHistoryHours = 24
	DefaultBusyTrendDays    = 7
	// CurrentCrowdWindow bounds how old a report may be to describe the present.
	CurrentCrowdWindow = 2 * time.Hour
)

func CrowdStatusFor(level int) CrowdStatus {
	switch {
	case level <= 30:
		return CrowdQuiet
	case level <= 60:
		return CrowdModerate
	case level <= 85:
		return CrowdBusy
	default:
		return CrowdVeryBusy
	}
}

// BusyEntry is a crowd report submitted by a visitor.
type BusyEntry struct {
	ID         string
	CafeID     string
	UserID     string
	CrowdLevel int
	WaitMins   *int
	Timestamp  time.Time
}

func NewBusyEntry(cafeID, userID string, crowdLevel int, waitMins *int, at time.Time) (BusyEntry, error) {
	if crowdLevel < 0 || crowdLevel > 100 {
		return BusyEntry{}, Validationf("crowdLevel must be between 0 and 100")
	}
	if waitMins != nil && (*waitMins < 0 || *waitMins > 240) {
		return BusyEntry{}, Validationf("waitMins must be between 0 and 240")
	}
	return BusyEntry{
		CafeID:     cafeID,
		UserID:     userID,
		CrowdLevel: crowdLevel,
		WaitMins:   waitMins,
		Timestamp:  at.UTC(),
	}, nil
}

// CurrentCrowd describes the present crowd given the most recent report, if any.
type CurrentCrowd struct {
	Status     CrowdStatus
	CrowdLevel *int
	WaitMins   *int
	ReportedAt *time.Time
}

func CurrentCrowdFrom(latest *BusyEntry, now time.Time) CurrentCrowd {
	if latest == nil || now.Sub(latest.Timestamp) > CurrentCrowdWindow {
		return CurrentCrowd{Status: CrowdUnknown}
	}
	level := latest.CrowdLevel
	at := latest.Timestamp
	return CurrentCrowd{
		Status:     CrowdStatusFor(level),
		CrowdLevel: &level,
		WaitMins:   latest.WaitMins,
		ReportedAt: &at,
	}
}

// HourlyTrend is the average crowd level reported during one UTC hour of day.
type HourlyTrend struct {
	Hour          int
	AvgCrowdLevel float64
	Samples       int
}

// HourlyTrends buckets entries by UTC hour of day. Hours without reports are omitted.
func HourlyTrends(entries []BusyEntry) []HourlyTrend {
	sums := make(map[int]int)
	counts := make(map[int]int)
	for _, e := range entries {
		h := e.Timestamp.UTC().Hour()
		sums[h] += e.CrowdLevel
		counts[h]++
	}
	trends := make([]HourlyTrend, 0, len(counts))
	for h, n := range counts {
		trends = append(trends, HourlyTrend{
			Hour:          h,
			AvgCrowdLevel: float64(sums[h]) / float64(n),
			Samples:       n,
		})
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Hour < trends[j].Hour })
	return trends
}
