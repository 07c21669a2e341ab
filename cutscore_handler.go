package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// trendWindowDays is how far back the weigh-in projection looks for morning /
// official readings. A week of mornings is enough signal; older readings are
// from a different phase of the cut.
const trendWindowDays = 7

// getCutScore assembles the score input from stored state and runs the engine.
// GET /api/cut-score.
func (h *Handler) getCutScore(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[cutProfile](h, c,
		"SELECT * FROM cut_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	input, err := h.assembleCutScoreInput(c, userID, p)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to assemble score input")
		return
	}

	c.JSON(http.StatusOK, computeCutScore(input))
}

// previewCutScore runs the engine on a caller-supplied input, touching no
// stored state. This is the full surface: a client with wearable data posts
// the premium-tier fields here directly.
// POST /api/cut-score/preview.
func (h *Handler) previewCutScore(c *gin.Context) {
	var input CutScoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	c.JSON(http.StatusOK, computeCutScore(input))
}

// assembleCutScoreInput gathers everything the engine needs for one athlete:
// current/projected weight from the weight log, recovery data from the last
// week of check-ins, protocol compliance from today's food log vs targets.
func (h *Handler) assembleCutScoreInput(c *gin.Context, userID int, p cutProfile) (CutScoreInput, error) {
	asOf := asOfFor(p)
	daysUntil := noWeighInDays
	if p.WeighInDate != nil {
		daysUntil = daysUntilWeighIn(p.WeighInDate.Time, asOf)
	}

	input := CutScoreInput{
		Weight: WeightPillarInput{
			TargetWeight:      float64(p.WeightClass),
			DailyLossCapacity: p.DailyLossCapacity,
			DaysUntilWeighIn:  daysUntil,
		},
		AsOfHour: time.Now().Hour(),
	}

	windowStart := asOf.AddDate(0, 0, -trendWindowDays).Format("2006-01-02")
	today := asOf.Format("2006-01-02")

	// Weight pillar: the newest reading is "current"; morning/official
	// readings feed the trend projection.
	entries, err := queryMany[weightEntry](h, c,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @today
		 ORDER BY date ASC, recorded_at ASC`,
		pgx.NamedArgs{"userID": userID, "start": windowStart, "today": today})
	if err != nil {
		return input, err
	}
	if len(entries) > 0 {
		latest := entries[len(entries)-1].WeightLBS
		input.Weight.CurrentWeight = &latest
	} else if p.CurrentWeight > 0 {
		w := p.CurrentWeight
		input.Weight.CurrentWeight = &w
	}

	var points []morningWeightPoint
	for _, e := range entries {
		if !trendEntryTypes[e.EntryType] {
			continue
		}
		offset := float64(daysUntilWeighIn(asOf, e.Date.Time)) // days before asOf
		points = append(points, morningWeightPoint{DayOffset: offset, WeightLbs: e.WeightLBS})
	}
	input.Weight.ProjectedWeight = projectWeighInWeight(points, daysUntil)

	// Recovery pillar: sleep hours across the window, today's check-in for
	// the enhanced/premium fields, overnight drift from yesterday's last
	// reading vs today's morning reading.
	checkins, err := queryMany[checkin](h, c,
		`SELECT * FROM checkins
		 WHERE user_id = @userID AND date >= @start AND date <= @today
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": windowStart, "today": today})
	if err != nil {
		return input, err
	}

	basic := &RecoveryBasicInput{}
	for _, ci := range checkins {
		if ci.SleepHours != nil {
			basic.SleepHours = append(basic.SleepHours, *ci.SleepHours)
		}
	}
	if drift := overnightDrift(entries, today); drift != nil {
		basic.OvernightDriftLbs = drift
	}
	if len(basic.SleepHours) > 0 || basic.OvernightDriftLbs != nil {
		input.Recovery.Basic = basic
	}
	if len(checkins) > 0 {
		ci := checkins[len(checkins)-1]
		if ci.Date.Time.Format("2006-01-02") == today {
			if ci.BedTime != nil || ci.WakeTime != nil || ci.FeelRating != nil {
				input.Recovery.Enhanced = &RecoveryEnhancedInput{
					BedTime: ci.BedTime, WakeTime: ci.WakeTime, FeelRating: ci.FeelRating,
				}
			}
			if ci.RecoveryScore != nil || ci.HRV != nil || ci.RestingHR != nil ||
				ci.SleepScore != nil || ci.Strain != nil {
				input.Recovery.Premium = &RecoveryPremiumInput{
					RecoveryScore: ci.RecoveryScore, HRV: ci.HRV, RestingHR: ci.RestingHR,
					SleepScore: ci.SleepScore, Strain: ci.Strain,
				}
			}
		}
	}

	// Protocol pillar: today's consumption vs targets, plus food-type
	// correctness during a restrictive phase.
	food, err := queryMany[foodLogEntry](h, c,
		`SELECT * FROM food_log_entries WHERE user_id = @userID AND date = @today`,
		pgx.NamedArgs{"userID": userID, "today": today})
	if err != nil {
		return input, err
	}
	if len(food) > 0 {
		targets := buildDayTargets(p, asOf)
		var carbs, protein, water float64
		for _, e := range food {
			if e.CarbsG != nil {
				carbs += *e.CarbsG
			}
			if e.ProteinG != nil {
				protein += *e.ProteinG
			}
			if e.WaterOz != nil {
				water += *e.WaterOz
			}
		}
		protoBasic := &ProtocolBasicInput{}
		if denom := float64(targets.Macros.Carbs.Max + targets.Macros.Protein.Max); denom > 0 {
			ratio := (carbs + protein) / denom
			protoBasic.FoodCompliance = &ratio
		}
		if targets.WaterOz > 0 {
			ratio := water / float64(targets.WaterOz)
			protoBasic.WaterCompliance = &ratio
		}
		if protoBasic.FoodCompliance != nil || protoBasic.WaterCompliance != nil {
			input.Protocol.Basic = protoBasic
		}
		if correct := foodTypeCorrectness(food, targets.FoodPhase); correct != nil {
			input.Protocol.Enhanced = &ProtocolEnhancedInput{FoodTypeCorrect: correct}
		}
	}

	return input, nil
}

// overnightDrift computes pounds lost between yesterday's last reading and
// today's morning reading. Nil when either side is missing.
func overnightDrift(entries []weightEntry, today string) *float64 {
	var lastNight, morning *float64
	for _, e := range entries {
		d := e.Date.Time.Format("2006-01-02")
		if d < today {
			w := e.WeightLBS
			lastNight = &w // entries are date-ordered; keeps the latest pre-today reading
		}
		if d == today && e.EntryType == "morning" && morning == nil {
			w := e.WeightLBS
			morning = &w
		}
	}
	if lastNight == nil || morning == nil {
		return nil
	}
	drift := *lastNight - *morning
	return &drift
}

// foodTypeCorrectness checks logged categories against the day's restrictive
// phase: during the fructose or glucose windows only carbs, fruit, and water
// belong in the log. Nil outside a restrictive phase — there's nothing to be
// correct against.
func foodTypeCorrectness(food []foodLogEntry, phase FoodPhase) *bool {
	if !phase.FructoseOnly && !phase.GlucoseOnly {
		return nil
	}
	allowed := map[string]bool{"carb": true, "fruit": true, "water": true}
	if phase.GlucoseOnly {
		// Zero-fiber window: fruit is out too.
		allowed = map[string]bool{"carb": true, "water": true}
	}
	correct := true
	for _, e := range food {
		if !allowed[e.Category] {
			correct = false
			break
		}
	}
	return &correct
}
