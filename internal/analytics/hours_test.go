package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trama/internal/domain"
)

func catalogFixture() []domain.ServiceItem {
	return []domain.ServiceItem{
		{ID: "svc-dev", Name: "Desenvolvimento", BaseHours: 16},
		{ID: "svc-qa", Name: "Homologação", BaseHours: 8},
	}
}

func TestPlannedHoursResolution(t *testing.T) {
	r := newHoursResolver(catalogFixture())

	t.Run("explicit hours win over catalog", func(t *testing.T) {
		n := &domain.Node{ServiceCatalogID: "svc-dev", ServiceHours: floatPtr(3)}
		assert.Equal(t, 3.0, r.plannedHours(n))
	})

	t.Run("catalog base scaled by multiplier", func(t *testing.T) {
		n := &domain.Node{ServiceCatalogID: "svc-dev", ServiceMultiplier: floatPtr(2.5)}
		assert.Equal(t, 40.0, r.plannedHours(n))
	})

	t.Run("missing multiplier means one", func(t *testing.T) {
		n := &domain.Node{ServiceCatalogID: "svc-qa"}
		assert.Equal(t, 8.0, r.plannedHours(n))
	})

	t.Run("unknown catalog item yields zero", func(t *testing.T) {
		n := &domain.Node{ServiceCatalogID: "svc-nope"}
		assert.Equal(t, 0.0, r.plannedHours(n))
	})

	t.Run("negative clamped to zero", func(t *testing.T) {
		n := &domain.Node{ServiceHours: floatPtr(-4)}
		assert.Equal(t, 0.0, r.plannedHours(n))
	})

	t.Run("non-finite explicit hours fall through", func(t *testing.T) {
		n := &domain.Node{ServiceCatalogID: "svc-qa", ServiceHours: floatPtr(math.NaN())}
		assert.Equal(t, 8.0, r.plannedHours(n))
	})
}

func TestHoursForPeriodProration(t *testing.T) {
	r := newHoursResolver(nil)

	// 10 hours spread over 10 days, June 10 through June 19.
	n := &domain.Node{
		ServiceHours: floatPtr(10),
		StartDate:    datePtr(day(2025, 6, 10)),
		EndDate:      datePtr(day(2025, 6, 19)),
	}
	tasks := []*domain.Node{n}

	t.Run("full overlap", func(t *testing.T) {
		got := hoursForPeriod(tasks, r, day(2025, 6, 1), day(2025, 7, 1))
		assert.InDelta(t, 10.0, got, 1e-9)
	})

	t.Run("half overlap", func(t *testing.T) {
		// Period covers June 15-19, five of ten days.
		got := hoursForPeriod(tasks, r, day(2025, 6, 15), day(2025, 6, 20))
		assert.InDelta(t, 5.0, got, 1e-9)
	})

	t.Run("no overlap", func(t *testing.T) {
		got := hoursForPeriod(tasks, r, day(2025, 7, 1), day(2025, 7, 8))
		assert.Zero(t, got)
	})
}

func TestHoursForPeriodSingleDate(t *testing.T) {
	r := newHoursResolver(nil)
	n := &domain.Node{
		ServiceHours: floatPtr(6),
		EndDate:      datePtr(day(2025, 6, 18)),
	}

	got := hoursForPeriod([]*domain.Node{n}, r, day(2025, 6, 16), day(2025, 6, 23))
	assert.InDelta(t, 6.0, got, 1e-9, "one known date acts as a one-day task")

	got = hoursForPeriod([]*domain.Node{n}, r, day(2025, 6, 9), day(2025, 6, 16))
	assert.Zero(t, got)
}

func TestHoursForPeriodReversedDates(t *testing.T) {
	r := newHoursResolver(nil)
	n := &domain.Node{
		ServiceHours: floatPtr(4),
		StartDate:    datePtr(day(2025, 6, 19)),
		EndDate:      datePtr(day(2025, 6, 16)),
	}

	got := hoursForPeriod([]*domain.Node{n}, r, day(2025, 6, 16), day(2025, 6, 18))
	assert.InDelta(t, 2.0, got, 1e-9, "reversed dates are swapped, two of four days overlap")
}

func TestScheduledRange(t *testing.T) {
	_, _, ok := scheduledRange(&domain.Node{})
	assert.False(t, ok)

	start, end, ok := scheduledRange(&domain.Node{
		StartDate: datePtr(time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)),
	})
	assert.True(t, ok)
	assert.Equal(t, day(2025, 6, 10), start)
	assert.Equal(t, day(2025, 6, 10), end)
}
