package main

import (
	"time"

	"github.com/montanaflynn/stats"
)

// daysUntilWeighIn counts local calendar days from asOf to the weigh-in date.
// Date-only comparison: a weigh-in at 7am tomorrow is 1 day out all of today,
// regardless of the hour. Negative means post-competition. asOf is always
// passed in (real or simulated "now") — nothing in the engines reads a clock.
func daysUntilWeighIn(weighInDate, asOf time.Time) int {
	w := time.Date(weighInDate.Year(), weighInDate.Month(), weighInDate.Day(), 0, 0, 0, 0, time.UTC)
	a := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return int(w.Sub(a).Hours() / 24)
}

// morningWeightPoint is one (day offset, weight) observation for projection.
type morningWeightPoint struct {
	DayOffset float64 // days before asOf (0 = today, 1 = yesterday, ...)
	WeightLbs float64
}

// projectWeighInWeight extrapolates a weigh-in weight from recent morning /
// official readings via least-squares trend. Needs at least two points on
// distinct days; returns nil otherwise so the score engine falls back to the
// current-weight gap. A flat or rising trend projects honestly — the guardrail
// in the score engine is what keeps a bad projection from being masked.
func projectWeighInWeight(points []morningWeightPoint, daysRemaining int) *float64 {
	if len(points) < 2 || daysRemaining < 0 {
		return nil
	}

	coords := make([]stats.Coordinate, 0, len(points))
	distinct := map[float64]bool{}
	for _, p := range points {
		// X axis: days relative to asOf, so the weigh-in sits at +daysRemaining.
		coords = append(coords, stats.Coordinate{X: -p.DayOffset, Y: p.WeightLbs})
		distinct[p.DayOffset] = true
	}
	if len(distinct) < 2 {
		return nil
	}

	reg, err := stats.LinearRegression(coords)
	if err != nil || len(reg) < 2 {
		return nil
	}

	// Recover slope/intercept from two fitted points; stats returns the
	// fitted series rather than the coefficients.
	x0, y0 := reg[0].X, reg[0].Y
	x1, y1 := reg[len(reg)-1].X, reg[len(reg)-1].Y
	if x1 == x0 {
		return nil
	}
	slope := (y1 - y0) / (x1 - x0)
	intercept := y0 - slope*x0

	projected := intercept + slope*float64(daysRemaining)
	return &projected
}
