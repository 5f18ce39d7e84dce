package domain

import "math"

// RatingAggregate is an incrementally maintained average. The stored average
// is rounded to one decimal place after every update, and that rounded value
// is the base for the next update; small drift against a full recompute is
// accepted in exchange for O(1) writes.
type RatingAggregate struct {
	Rating float64
	Count  int
}

// Add folds a new value into the aggregate.
func (a *RatingAggregate) Add(v float64) {
	total := a.Rating*float64(a.Count) + v
	a.Count++
	a.Rating = round1(total / float64(a.Count))
}

// Remove backs a value out of the aggregate. Removing the last value resets
// the aggregate to zero rather than dividing by zero.
func (a *RatingAggregate) Remove(v float64) {
	if a.Count <= 1 {
		a.Rating = 0
		a.Count = 0
		return
	}
	total := a.Rating*float64(a.Count) - v
	a.Count--
	a.Rating = round1(total / float64(a.Count))
}

// round1 rounds to one decimal place, halves away from zero.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
