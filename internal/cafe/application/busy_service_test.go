package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

func TestBusyService(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	cafe := h.createCafe(ctx, "Octane")

	current, err := h.busySvc.Current(ctx, cafe.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CrowdUnknown, current.Status)

	_, err = h.busySvc.Report(ctx, alice, cafe.ID, application.BusyReportCommand{CrowdLevel: 40})
	require.NoError(t, err)
	entry, err := h.busySvc.Report(ctx, bob, cafe.ID, application.BusyReportCommand{CrowdLevel: 90, WaitMins: intPtr(15)})
	require.NoError(t, err)
	assert.Equal(t, cafe.ID, entry.CafeID)

	current, err = h.busySvc.Current(ctx, cafe.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CrowdVeryBusy, current.Status)
	require.NotNil(t, current.WaitMins)
	assert.Equal(t, 15, *current.WaitMins)

	stored, err := h.cafes.FindByID(ctx, cafe.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CrowdVeryBusy, stored.CurrentStatus)

	history, err := h.busySvc.History(ctx, cafe.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	trends, err := h.busySvc.Trends(ctx, cafe.ID, 0)
	require.NoError(t, err)
	samples := 0
	for _, trend := range trends {
		samples += trend.Samples
	}
	assert.Equal(t, 2, samples)

	_, err = h.busySvc.Report(ctx, alice, cafe.ID, application.BusyReportCommand{CrowdLevel: 101})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = h.busySvc.Report(ctx, alice, "missing", application.BusyReportCommand{CrowdLevel: 10})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = h.busySvc.Report(ctx, nobody, cafe.ID, application.BusyReportCommand{CrowdLevel: 10})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
