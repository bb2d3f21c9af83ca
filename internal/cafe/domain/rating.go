package domain

// RatingSummary is the derived rating state of a cafe.
type RatingSummary struct {
	AvgRating       float64
	AvgCoffeeRating float64
	AvgTasteRating  float64
	ReviewsCount    int
}

// Aggregate computes the rating summary from a cafe's reviews. Only APPROVED
// reviews count; coffee and taste means cover only reviews carrying that score.
// The result depends solely on the input set, so calling it again is harmless.
func Aggregate(reviews []Review) RatingSummary {
	var (
		count                 int
		overallSum            int
		coffeeSum, coffeeSeen int
		tasteSum, tasteSeen   int
	)
	for _, review := range reviews {
		if !review.IsApproved() {
			continue
		}
		count++
		overallSum += review.Overall.Int()
		if review.Coffee != nil {
			coffeeSum += review.Coffee.Int()
			coffeeSeen++
		}
		if review.Taste != nil {
			tasteSum += review.Taste.Int()
			tasteSeen++
		}
	}
	return RatingSummary{
		AvgRating:       mean(overallSum, count),
		AvgCoffeeRating: mean(coffeeSum, coffeeSeen),
		AvgTasteRating:  mean(tasteSum, tasteSeen),
		ReviewsCount:    count,
	}
}

func mean(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
