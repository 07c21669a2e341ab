package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// noWeighInDays stands in for "days until weigh-in" when the profile has no
// weigh-in scheduled — far enough out to land in the maintenance bucket.
const noWeighInDays = 30

// asOfFor resolves "now" for a profile: the simulated date when one is set,
// otherwise the wall clock. This is the only place the HTTP layer touches a
// clock — every engine call below gets the resolved time passed in.
func asOfFor(p cutProfile) time.Time {
	if p.SimulatedDate != nil {
		return p.SimulatedDate.Time
	}
	return time.Now()
}

// ageAt derives age in whole years at the as-of date. Same birthday handling
// as the usual AddDate check: the year difference is one too high until the
// birthday has passed.
func ageAt(dob, asOf time.Time) int {
	age := asOf.Year() - dob.Year()
	if asOf.Before(dob.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// buildDayTargets runs the full rule engine for one profile and day.
func buildDayTargets(p cutProfile, asOf time.Time) dayTargets {
	daysUntil := noWeighInDays
	if p.WeighInDate != nil {
		daysUntil = daysUntilWeighIn(p.WeighInDate.Time, asOf)
	}

	macros := getWeightAdjustedMacros(p.CurrentWeight, p.Protocol, daysUntil, p.CurrentWeight, p.WeightClass)

	t := dayTargets{
		Date:             asOf.Format("2006-01-02"),
		DaysUntilWeighIn: daysUntil,
		Protocol:         p.Protocol,
		WeightTarget:     getWeightTarget(p.Protocol, daysUntil, p.WeightClass),
		Macros:           macros,
		WaterOz:          getWaterTarget(daysUntil, p.CurrentWeight),
		Sodium:           getSodiumTarget(daysUntil),
		FoodPhase:        getFoodPhase(p.Protocol, daysUntil),
		Slices:           slicesFromGrams(macros.Carbs.Max, macros.Protein.Max),
	}

	if p.Protocol == ProtocolSpar {
		if spar, ok := sparTargetsFor(p, asOf); ok {
			t.Spar = &spar
		}
	}
	return t
}

// sparTargetsFor assembles the biometric inputs from a profile. Returns
// ok=false when any required field is missing — a half-filled profile gets
// no slice prescription rather than a wrong one.
func sparTargetsFor(p cutProfile, asOf time.Time) (SparSliceTargets, bool) {
	if p.Sex == nil || p.DateOfBirth == nil || p.HeightCM == nil ||
		p.ActivityLevel == nil || p.WeeklyGoal == nil || p.CurrentWeight <= 0 {
		return SparSliceTargets{}, false
	}
	age := ageAt(p.DateOfBirth.Time, asOf)
	if age < 0 || age > 130 {
		return SparSliceTargets{}, false
	}
	return getSparSliceTargets(sparBiometrics{
		Sex:           *p.Sex,
		Age:           age,
		HeightCM:      *p.HeightCM,
		WeightLBS:     p.CurrentWeight,
		ActivityLevel: *p.ActivityLevel,
		WeeklyGoal:    *p.WeeklyGoal,
	})
}

// getDayTargets returns the day's full prescription for the stored profile.
// GET /api/targets?date=YYYY-MM-DD (defaults to the profile's "now").
func (h *Handler) getDayTargets(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[cutProfile](h, c,
		"SELECT * FROM cut_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	asOf := asOfFor(p)
	if s := c.Query("date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		asOf = t
	}

	c.JSON(http.StatusOK, buildDayTargets(p, asOf))
}

// previewDayTargets computes targets from a profile snapshot in the request
// body, touching no stored state. Used by onboarding ("show me the plan
// before I commit") and by tests.
// POST /api/targets/preview.
func (h *Handler) previewDayTargets(c *gin.Context) {
	var body targetsPreviewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validProtocols[Protocol(body.Protocol)] {
		apiError(c, http.StatusBadRequest, "protocol must be one of: aggressive, weekly, optimal, build, spar")
		return
	}
	if body.CurrentWeight <= 0 || body.WeightClass <= 0 {
		apiError(c, http.StatusBadRequest, "current_weight_lbs and weight_class_lbs are required")
		return
	}

	protocol := Protocol(body.Protocol)
	daysUntil := body.DaysUntilWeighIn
	macros := getWeightAdjustedMacros(body.CurrentWeight, protocol, daysUntil, body.CurrentWeight, body.WeightClass)

	t := dayTargets{
		DaysUntilWeighIn: daysUntil,
		Protocol:         protocol,
		WeightTarget:     getWeightTarget(protocol, daysUntil, body.WeightClass),
		Macros:           macros,
		WaterOz:          getWaterTarget(daysUntil, body.CurrentWeight),
		Sodium:           getSodiumTarget(daysUntil),
		FoodPhase:        getFoodPhase(protocol, daysUntil),
		Slices:           slicesFromGrams(macros.Carbs.Max, macros.Protein.Max),
	}

	if protocol == ProtocolSpar && body.Sex != nil && body.Age != nil &&
		body.HeightCM != nil && body.ActivityLevel != nil && body.WeeklyGoal != nil {
		if spar, ok := getSparSliceTargets(sparBiometrics{
			Sex:           *body.Sex,
			Age:           *body.Age,
			HeightCM:      *body.HeightCM,
			WeightLBS:     body.CurrentWeight,
			ActivityLevel: *body.ActivityLevel,
			WeeklyGoal:    *body.WeeklyGoal,
		}); ok {
			t.Spar = &spar
		}
	}

	c.JSON(http.StatusOK, t)
}

// getRehydration returns the post-weigh-in fluid/sodium replacement plan.
// GET /api/rehydration?lost_lbs=3.5. Zero or negative loss returns all zeros.
func (h *Handler) getRehydration(c *gin.Context) {
	lostStr := c.Query("lost_lbs")
	if lostStr == "" {
		apiError(c, http.StatusBadRequest, "lost_lbs query param is required")
		return
	}
	lost, err := strconv.ParseFloat(lostStr, 64)
	if err != nil {
		apiError(c, http.StatusBadRequest, "lost_lbs must be a number")
		return
	}

	c.JSON(http.StatusOK, getRehydrationPlan(lost))
}
