package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func approved(overall int, coffee, taste *int) Review {
	r := Review{Status: ReviewApproved}
	r.Overall = Score(overall)
	if coffee != nil {
		c := Score(*coffee)
		r.Coffee = &c
	}
	if taste != nil {
		t := Score(*taste)
		r.Taste = &t
	}
	return r
}

func TestAggregate(t *testing.T) {
	t.Run("empty set is all zero", func(t *testing.T) {
		assert.Equal(t, RatingSummary{}, Aggregate(nil))
	})

	t.Run("means over approved reviews only", func(t *testing.T) {
		pending := approved(1, nil, nil)
		pending.Status = ReviewPending
		rejected := approved(1, nil, nil)
		rejected.Status = ReviewRejected

		got := Aggregate([]Review{approved(5, nil, nil), approved(4, nil, nil), pending, rejected})
		assert.Equal(t, 2, got.ReviewsCount)
		assert.InDelta(t, 4.5, got.AvgRating, 1e-9)
	})

	t.Run("sub-rating means skip reviews without them", func(t *testing.T) {
		got := Aggregate([]Review{
			approved(5, ptr(4), nil),
			approved(3, nil, ptr(2)),
			approved(4, ptr(2), ptr(5)),
		})
		assert.Equal(t, 3, got.ReviewsCount)
		assert.InDelta(t, 4.0, got.AvgRating, 1e-9)
		assert.InDelta(t, 3.0, got.AvgCoffeeRating, 1e-9)
		assert.InDelta(t, 3.5, got.AvgTasteRating, 1e-9)
	})

	t.Run("no coffee scores gives zero coffee mean", func(t *testing.T) {
		got := Aggregate([]Review{approved(2, nil, nil)})
		assert.Equal(t, 0.0, got.AvgCoffeeRating)
		assert.Equal(t, 0.0, got.AvgTasteRating)
	})

	t.Run("idempotent", func(t *testing.T) {
		set := []Review{approved(5, ptr(5), nil), approved(2, nil, ptr(1))}
		assert.Equal(t, Aggregate(set), Aggregate(set))
	})
}
