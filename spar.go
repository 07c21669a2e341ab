package main

import "math"

// activityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels — also used for
// input validation in patchProfile.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// goalCalorieAdjustments maps the weekly goal to a flat calorie adjustment on
// top of TDEE. Also the validity set for the weekly_goal profile field.
var goalCalorieAdjustments = map[string]int{
	"cut":      -500,
	"maintain": 0,
	"build":    300,
}

// Fixed energy split across the three base slice categories and the calorie
// value of one slice in each. A "slice" is a portion-sized unit: a palm of
// protein, a fist of carb or vegetable.
const (
	proteinEnergyShare = 0.35
	carbEnergyShare    = 0.40
	vegEnergyShare     = 0.25

	caloriesPerProteinSlice = 110
	caloriesPerCarbSlice    = 120
	caloriesPerVegSlice     = 50
)

// sparBiometrics are the inputs to the slice calculation. Age is passed in
// (derived upstream from date of birth and the as-of date) so the engine
// itself never touches a clock — identical inputs always give identical
// slices.
type sparBiometrics struct {
	Sex           string  // "male" or "female"
	Age           int
	HeightCM      float64
	WeightLBS     float64
	ActivityLevel string
	WeeklyGoal    string // "cut", "maintain", "build"
}

// SparSliceTargets is the daily portion prescription for the spar protocol,
// plus the intermediate energy numbers for display.
type SparSliceTargets struct {
	ProteinSlices int `json:"protein_slices"`
	CarbSlices    int `json:"carb_slices"`
	VegSlices     int `json:"veg_slices"`
	TotalCalories int `json:"total_calories"`
	BMR           int `json:"bmr"`
	TDEE          int `json:"tdee"`
}

// getSparSliceTargets computes daily slice targets from biometrics:
// Mifflin-St Jeor BMR → activity-multiplier TDEE → weekly-goal adjustment →
// fixed energy split → slices, rounded with a floor of 1 per category.
// Returns ok=false when the activity level or weekly goal is unrecognised —
// the same guard style as profile validation, so a bad row can't silently
// produce a zero prescription.
func getSparSliceTargets(b sparBiometrics) (SparSliceTargets, bool) {
	mult, found := activityMultipliers[b.ActivityLevel]
	if !found {
		return SparSliceTargets{}, false
	}
	adjust, found := goalCalorieAdjustments[b.WeeklyGoal]
	if !found {
		return SparSliceTargets{}, false
	}

	// BMR via Mifflin-St Jeor: different constant for male vs female.
	weightKG := b.WeightLBS / 2.20462
	bmr := 10*weightKG + 6.25*b.HeightCM - 5*float64(b.Age)
	if b.Sex == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	tdee := bmr * mult
	total := tdee + float64(adjust)
	if total < 0 {
		total = 0
	}

	return SparSliceTargets{
		ProteinSlices: slicesFor(total*proteinEnergyShare, caloriesPerProteinSlice),
		CarbSlices:    slicesFor(total*carbEnergyShare, caloriesPerCarbSlice),
		VegSlices:     slicesFor(total*vegEnergyShare, caloriesPerVegSlice),
		TotalCalories: int(math.Round(total)),
		BMR:           int(math.Round(bmr)),
		TDEE:          int(math.Round(tdee)),
	}, true
}

// slicesFor converts a calorie share into whole slices, floored at 1 — a
// category that's part of the split never disappears entirely.
func slicesFor(calories, perSlice float64) int {
	n := int(math.Round(calories / perSlice))
	if n < 1 {
		n = 1
	}
	return n
}

/* ─── Gram → slice equivalence ───────────────────────────────────────── */

// Gram weight of one slice, used to translate the competitive protocols'
// gram targets into the same slice units the spar UI shows.
const (
	gramsPerProteinSlice = 25
	gramsPerCarbSlice    = 30
	vegToCarbSliceRatio  = 0.4
)

// SliceEquivalents is the slice-unit rendering of a gram-based macro target.
type SliceEquivalents struct {
	ProteinSlices int `json:"protein_slices"`
	CarbSlices    int `json:"carb_slices"`
	VegSlices     int `json:"veg_slices"`
}

// slicesFromGrams converts gram targets into slice counts. Zero grams maps to
// exactly zero slices (a zero-protein day must show zero protein slices);
// any positive gram target maps to at least 1 slice so a small prescription
// never rounds away. Vegetables ride along at ~40% of the carb slices, but
// only while protein is being eaten — deep in a cut there's no veg at all.
func slicesFromGrams(carbsG, proteinG int) SliceEquivalents {
	var eq SliceEquivalents
	if proteinG > 0 {
		eq.ProteinSlices = atLeastOne(float64(proteinG) / gramsPerProteinSlice)
	}
	if carbsG > 0 {
		eq.CarbSlices = atLeastOne(float64(carbsG) / gramsPerCarbSlice)
	}
	if eq.ProteinSlices > 0 {
		eq.VegSlices = int(math.Round(float64(eq.CarbSlices) * vegToCarbSliceRatio))
	}
	return eq
}

func atLeastOne(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		n = 1
	}
	return n
}
