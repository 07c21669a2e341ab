package main

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

/* ─── Input / result types ───────────────────────────────────────────── */

// DataTier is how rich a pillar's inputs are. Tier is detected from the
// richest signal present, and a pillar at tierNone is excluded from the
// composite entirely.
type DataTier string

const (
	tierNone     DataTier = "none"
	tierBasic    DataTier = "basic"
	tierEnhanced DataTier = "enhanced"
	tierPremium  DataTier = "premium"
)

// ScoreZone is the traffic-light band the composite score falls in.
type ScoreZone string

const (
	zoneGreen  ScoreZone = "green"
	zoneYellow ScoreZone = "yellow"
	zoneRed    ScoreZone = "red"
)

// WeightPillarInput holds everything the weight pillar can score from.
// Pointer fields are absent-able: a missing projection falls back to the
// current-weight gap, a missing current weight to neutral.
type WeightPillarInput struct {
	CurrentWeight     *float64 `json:"current_weight"`
	ProjectedWeight   *float64 `json:"projected_weight"`
	TargetWeight      float64  `json:"target_weight"` // the weight class
	DailyLossCapacity *float64 `json:"daily_loss_capacity"`
	DaysUntilWeighIn  int      `json:"days_until_weigh_in"`
}

// Recovery pillar inputs, one struct per tier. Each tier carries only the
// fields that tier actually scores — a field with no scoring effect can't
// exist here.
type RecoveryBasicInput struct {
	SleepHours        []float64 `json:"sleep_hours"` // most recent nights, any order
	OvernightDriftLbs *float64  `json:"overnight_drift_lbs"`
}

type RecoveryEnhancedInput struct {
	BedTime    *string `json:"bed_time"`
	WakeTime   *string `json:"wake_time"`
	FeelRating *int    `json:"feel_rating"` // 1–5 subjective
}

type RecoveryPremiumInput struct {
	RecoveryScore *float64 `json:"recovery_score"` // wearable composite, 0–100
	HRV           *float64 `json:"hrv"`
	RestingHR     *float64 `json:"resting_hr"`
	SleepScore    *float64 `json:"sleep_score"` // 0–100
	Strain        *float64 `json:"strain"`
}

type RecoveryPillarInput struct {
	Basic    *RecoveryBasicInput    `json:"basic"`
	Enhanced *RecoveryEnhancedInput `json:"enhanced"`
	Premium  *RecoveryPremiumInput  `json:"premium"`
}

// Protocol pillar inputs. Compliance ratios are consumed/target, so 1.0 is
// perfect and both under- and over-shooting cost points.
type ProtocolBasicInput struct {
	FoodCompliance  *float64 `json:"food_compliance"`
	WaterCompliance *float64 `json:"water_compliance"`
}

type ProtocolEnhancedInput struct {
	FoodTypeCorrect *bool    `json:"food_type_correct"`
	MealTimingScore *float64 `json:"meal_timing_score"` // 0–100
}

type ProtocolPremiumInput struct {
	MacroAccuracy *float64 `json:"macro_accuracy"` // 0–100
}

type ProtocolPillarInput struct {
	Basic    *ProtocolBasicInput    `json:"basic"`
	Enhanced *ProtocolEnhancedInput `json:"enhanced"`
	Premium  *ProtocolPremiumInput  `json:"premium"`
}

// CutScoreInput is the full request to the score engine. AsOfHour is the
// local hour of day (0–23), threaded in by the caller like every other
// time-dependent value — the engine never reads a clock.
type CutScoreInput struct {
	Weight   WeightPillarInput   `json:"weight"`
	Recovery RecoveryPillarInput `json:"recovery"`
	Protocol ProtocolPillarInput `json:"protocol"`
	AsOfHour int                 `json:"as_of_hour"`
}

// PillarDetail is the per-pillar diagnostic attached to the result.
type PillarDetail struct {
	Score   int      `json:"score"`
	Weight  float64  `json:"weight"`
	Tier    DataTier `json:"tier"`
	HasData bool     `json:"has_data"`
}

// CutScoreResult is the composite score with label, zone, and rationale.
type CutScoreResult struct {
	Score     int          `json:"score"`
	Label     string       `json:"label"`
	Zone      ScoreZone    `json:"zone"`
	Rationale string       `json:"rationale"`
	Weight    PillarDetail `json:"weight"`
	Recovery  PillarDetail `json:"recovery"`
	Protocol  PillarDetail `json:"protocol"`
}

/* ─── Tier detection ─────────────────────────────────────────────────── */

// recoveryTier picks the richest tier with any signal present.
func recoveryTier(in RecoveryPillarInput) DataTier {
	if p := in.Premium; p != nil &&
		(p.RecoveryScore != nil || p.HRV != nil || p.RestingHR != nil || p.SleepScore != nil || p.Strain != nil) {
		return tierPremium
	}
	if e := in.Enhanced; e != nil && (e.BedTime != nil || e.WakeTime != nil || e.FeelRating != nil) {
		return tierEnhanced
	}
	if b := in.Basic; b != nil && (len(b.SleepHours) > 0 || b.OvernightDriftLbs != nil) {
		return tierBasic
	}
	return tierNone
}

func protocolTier(in ProtocolPillarInput) DataTier {
	if p := in.Premium; p != nil && p.MacroAccuracy != nil {
		return tierPremium
	}
	if e := in.Enhanced; e != nil && (e.FoodTypeCorrect != nil || e.MealTimingScore != nil) {
		return tierEnhanced
	}
	if b := in.Basic; b != nil && (b.FoodCompliance != nil || b.WaterCompliance != nil) {
		return tierBasic
	}
	return tierNone
}

/* ─── Dynamic weighting ──────────────────────────────────────────────── */

// pillarWeights is one of the four fixed weight vectors. There is no
// interpolation: presence/absence of the recovery and protocol pillars
// selects exactly one row.
type pillarWeights struct {
	Weight, Recovery, Protocol float64
}

type pillarPresence struct {
	HasRecovery, HasProtocol bool
}

var weightVectors = map[pillarPresence]pillarWeights{
	{true, true}:   {0.60, 0.25, 0.15},
	{false, true}:  {0.80, 0, 0.20},
	{true, false}:  {0.75, 0.25, 0},
	{false, false}: {1.00, 0, 0},
}

/* ─── Step ladders ───────────────────────────────────────────────────── */

// scoreStep is one rung of a threshold ladder: first rung whose bound the
// value is strictly below wins; the ladder's final value catches the rest.
type scoreStep struct {
	Below float64
	Score int
}

func ladder(value float64, steps []scoreStep, fallback int) int {
	for _, s := range steps {
		if value < s.Below {
			return s.Score
		}
	}
	return fallback
}

// trainingPhaseDays: beyond this many days out, the weight pillar scores
// against walk-around weight instead of the competition target, and the
// projection guardrail is off (the projection is noise that far out).
const trainingPhaseDays = 5

// walkAroundMultiplier estimates an athlete's normal uncut weight from the
// class.
const walkAroundMultiplier = 1.07

/* ─── Weight pillar ──────────────────────────────────────────────────── */

var (
	// Competition week, projection available: gap = projected − target.
	projectionLadder = []scoreStep{
		{0.0001, 100}, // at or under target
		{0.5, 90}, {1.0, 75}, {1.5, 60}, {2.0, 50},
		{3.0, 40}, {4.0, 25}, {5.0, 15},
	}

	// Competition week, no projection but loss capacity known:
	// value = gap / (dailyLossCapacity × daysRemaining).
	capacityLadder = []scoreStep{
		{0.5, 90}, {0.8, 75}, {1.0, 60}, {1.3, 40},
	}

	// Competition week, raw current-weight gap only.
	rawGapLadder = []scoreStep{
		{0.0001, 90}, {3.0, 60},
	}

	// Training phase: gap = current − walk-around estimate. Being well over
	// the class is expected this far out; only distance above walk-around
	// weight costs points.
	trainingLadder = []scoreStep{
		{0.0001, 85}, {2.0, 75}, {4.0, 60}, {6.0, 45},
	}
)

// scoreWeightPillar returns the pillar score and whether any weight data was
// present. With no reading at all the pillar sits at neutral 50.
func scoreWeightPillar(in WeightPillarInput) (int, bool) {
	hasData := in.CurrentWeight != nil || in.ProjectedWeight != nil
	if !hasData {
		return 50, false
	}

	if in.DaysUntilWeighIn > trainingPhaseDays {
		if in.CurrentWeight == nil {
			return 50, true
		}
		gap := *in.CurrentWeight - in.TargetWeight*walkAroundMultiplier
		return ladder(gap, trainingLadder, 30), true
	}

	if in.ProjectedWeight != nil {
		gap := *in.ProjectedWeight - in.TargetWeight
		return ladder(gap, projectionLadder, 10), true
	}

	gap := *in.CurrentWeight - in.TargetWeight
	if in.DailyLossCapacity != nil && *in.DailyLossCapacity > 0 && in.DaysUntilWeighIn > 0 {
		if gap <= 0 {
			return 95, true
		}
		ratio := gap / (*in.DailyLossCapacity * float64(in.DaysUntilWeighIn))
		return ladder(ratio, capacityLadder, 20), true
	}
	return ladder(gap, rawGapLadder, 30), true
}

/* ─── Recovery pillar ────────────────────────────────────────────────── */

// scoreRecoveryPillar starts at neutral 50 and adjusts additively. Every tier
// at or below the detected one contributes: premium data refines basic data,
// it doesn't replace it.
func scoreRecoveryPillar(in RecoveryPillarInput, tier DataTier) int {
	score := 50.0

	if b := in.Basic; b != nil {
		if len(b.SleepHours) > 0 {
			avg, _ := stats.Mean(b.SleepHours)
			switch {
			case avg >= 8:
				score += 20
			case avg >= 7:
				score += 10
			case avg >= 6:
				// adequate, no adjustment
			case avg >= 5:
				score -= 10
			default:
				score -= 20
			}
			// Consistency only means anything across a few nights.
			if len(b.SleepHours) >= 3 {
				sd, err := stats.StandardDeviation(b.SleepHours)
				if err == nil {
					if sd <= 0.5 {
						score += 5
					} else if sd >= 1.5 {
						score -= 5
					}
				}
			}
		}
		if b.OvernightDriftLbs != nil {
			// Drift is pounds lost overnight. A 1–2.5 lb flush is the normal
			// healthy range; more than that points at heavy dehydration.
			drift := *b.OvernightDriftLbs
			switch {
			case drift > 2.5:
				score -= 10
			case drift >= 1.0:
				score += 10
			}
		}
	}

	if tier == tierEnhanced || tier == tierPremium {
		if e := in.Enhanced; e != nil && e.FeelRating != nil {
			switch *e.FeelRating {
			case 5:
				score += 10
			case 4:
				score += 5
			case 2:
				score -= 8
			case 1:
				score -= 15
			}
		}
	}

	if tier == tierPremium {
		if p := in.Premium; p != nil {
			if p.RecoveryScore != nil {
				// A wearable composite dominates: blend 70/30 toward it.
				score = score*0.3 + *p.RecoveryScore*0.7
			} else {
				if p.HRV != nil {
					if *p.HRV >= 70 {
						score += 8
					} else if *p.HRV < 40 {
						score -= 8
					}
				}
				if p.RestingHR != nil {
					if *p.RestingHR <= 55 {
						score += 5
					} else if *p.RestingHR >= 70 {
						score -= 5
					}
				}
				if p.SleepScore != nil {
					if *p.SleepScore >= 85 {
						score += 7
					} else if *p.SleepScore < 60 {
						score -= 7
					}
				}
				if p.Strain != nil {
					if *p.Strain >= 18 {
						score -= 6
					} else if *p.Strain <= 10 {
						score += 4
					}
				}
			}
		}
	}

	return clampScore(score)
}

/* ─── Protocol pillar ────────────────────────────────────────────────── */

// complianceAdjustment converts a consumed/target ratio into a score bump.
// Symmetric tolerance bands around 100%: within ±10% is full credit, far
// under or far over both lose points.
func complianceAdjustment(ratio float64) float64 {
	switch {
	case ratio >= 0.9 && ratio <= 1.1:
		return 20
	case ratio >= 0.75 && ratio <= 1.25:
		return 10
	case ratio < 0.5:
		return -15
	case ratio > 1.5:
		return -10
	default:
		return 0
	}
}

func scoreProtocolPillar(in ProtocolPillarInput, tier DataTier) int {
	score := 50.0

	if b := in.Basic; b != nil {
		if b.FoodCompliance != nil {
			score += complianceAdjustment(*b.FoodCompliance)
		}
		if b.WaterCompliance != nil {
			score += complianceAdjustment(*b.WaterCompliance)
		}
	}

	if tier == tierEnhanced || tier == tierPremium {
		if e := in.Enhanced; e != nil {
			if e.FoodTypeCorrect != nil {
				if *e.FoodTypeCorrect {
					score += 10
				} else {
					score -= 10
				}
			}
			if e.MealTimingScore != nil {
				score += (*e.MealTimingScore - 50) / 50 * 10
			}
		}
	}

	if tier == tierPremium {
		if p := in.Premium; p != nil && p.MacroAccuracy != nil {
			score += (*p.MacroAccuracy - 50) / 50 * 10
		}
	}

	return clampScore(score)
}

/* ─── Composite ──────────────────────────────────────────────────────── */

// guardrailCap limits the composite when a competition-week projection says
// the weight won't be made. Good sleep and perfect logging must never paint
// an unmakeable cut green. Returns 100 (no cap) outside competition week.
func guardrailCap(in WeightPillarInput) int {
	if in.DaysUntilWeighIn > trainingPhaseDays || in.DaysUntilWeighIn < 0 {
		return 100
	}
	if in.ProjectedWeight == nil || *in.ProjectedWeight <= in.TargetWeight {
		return 100
	}
	gap := *in.ProjectedWeight - in.TargetWeight
	switch {
	case gap > 3:
		return 40
	case gap > 1:
		return 55
	default:
		return 75
	}
}

// scoreBand maps a composite score to its label and zone.
type scoreBand struct {
	Min   int
	Label string
	Zone  ScoreZone
}

var scoreBands = []scoreBand{
	{90, "Dialed In", zoneGreen},
	{75, "On Track", zoneGreen},
	{60, "Manageable", zoneYellow},
	{50, "Tight", zoneYellow},
	{35, "Needs Work", zoneRed},
	{20, "Behind", zoneRed},
	{0, "Critical", zoneRed},
}

func bandFor(score int) scoreBand {
	for _, b := range scoreBands {
		if score >= b.Min {
			return b
		}
	}
	return scoreBands[len(scoreBands)-1]
}

// computeCutScore produces the 0–100 composite from whatever pillar data is
// available. Pure: no clock, no I/O, safe for concurrent callers.
func computeCutScore(in CutScoreInput) CutScoreResult {
	recTier := recoveryTier(in.Recovery)
	protTier := protocolTier(in.Protocol)

	weightScore, weightHasData := scoreWeightPillar(in.Weight)
	recScore := scoreRecoveryPillar(in.Recovery, recTier)
	protScore := scoreProtocolPillar(in.Protocol, protTier)

	weights := weightVectors[pillarPresence{
		HasRecovery: recTier != tierNone,
		HasProtocol: protTier != tierNone,
	}]

	composite := float64(weightScore) * weights.Weight
	if recTier != tierNone {
		composite += float64(recScore) * weights.Recovery
	}
	if protTier != tierNone {
		composite += float64(protScore) * weights.Protocol
	}

	if limit := guardrailCap(in.Weight); composite > float64(limit) {
		composite = float64(limit)
	}

	score := clampScore(composite)
	band := bandFor(score)

	result := CutScoreResult{
		Score:     score,
		Label:     band.Label,
		Zone:      band.Zone,
		Weight:    PillarDetail{Score: weightScore, Weight: weights.Weight, Tier: tierForWeight(weightHasData), HasData: weightHasData},
		Recovery:  PillarDetail{Score: recScore, Weight: weights.Recovery, Tier: recTier, HasData: recTier != tierNone},
		Protocol:  PillarDetail{Score: protScore, Weight: weights.Protocol, Tier: protTier, HasData: protTier != tierNone},
	}
	result.Rationale = buildRationale(in, result)
	return result
}

// tierForWeight: the weight pillar has no tier system — it's basic whenever
// any reading exists.
func tierForWeight(hasData bool) DataTier {
	if hasData {
		return tierBasic
	}
	return tierNone
}

func clampScore(v float64) int {
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

/* ─── Rationale ──────────────────────────────────────────────────────── */

// buildRationale names the weakest pillar that actually has data and returns
// one context-specific sentence about it. Protocol under-consumption is not
// flagged before noon — a low food ratio at 9am just means the day is young.
func buildRationale(in CutScoreInput, r CutScoreResult) string {
	type candidate struct {
		name  string
		score int
	}
	var cands []candidate
	if r.Weight.HasData {
		cands = append(cands, candidate{"weight", r.Weight.Score})
	}
	if r.Recovery.HasData {
		cands = append(cands, candidate{"recovery", r.Recovery.Score})
	}
	if r.Protocol.HasData {
		cands = append(cands, candidate{"protocol", r.Protocol.Score})
	}
	if len(cands) == 0 {
		return "Log your weight to get started."
	}

	// Stable lowest-first pick; ties go to the earlier (higher-weighted) pillar.
	lowest := cands[0]
	for _, c := range cands[1:] {
		if c.score < lowest.score {
			lowest = c
		}
	}

	if lowest.name == "protocol" && in.AsOfHour < 12 && protocolUnderConsuming(in.Protocol) {
		// Too early to call the day's intake short. Fall back to the next
		// weakest pillar; with nothing else, just encourage logging.
		var next *candidate
		for i := range cands {
			if cands[i].name == "protocol" {
				continue
			}
			if next == nil || cands[i].score < next.score {
				next = &cands[i]
			}
		}
		if next == nil {
			return "Still early — keep logging food and water through the day."
		}
		lowest = *next
	}

	switch lowest.name {
	case "weight":
		return weightRationale(in.Weight)
	case "recovery":
		return recoveryRationale(in.Recovery)
	default:
		return protocolRationale(in.Protocol)
	}
}

// protocolUnderConsuming reports whether the basic compliance ratios point at
// under-eating/under-drinking rather than over-shooting.
func protocolUnderConsuming(in ProtocolPillarInput) bool {
	b := in.Basic
	if b == nil {
		return false
	}
	under := false
	if b.FoodCompliance != nil {
		if *b.FoodCompliance > 1.1 {
			return false
		}
		under = under || *b.FoodCompliance < 0.9
	}
	if b.WaterCompliance != nil {
		if *b.WaterCompliance > 1.1 {
			return false
		}
		under = under || *b.WaterCompliance < 0.9
	}
	return under
}

func weightRationale(in WeightPillarInput) string {
	if in.DaysUntilWeighIn > trainingPhaseDays {
		if in.CurrentWeight != nil {
			gap := *in.CurrentWeight - in.TargetWeight*walkAroundMultiplier
			if gap > 0 {
				return fmt.Sprintf("Sitting %.1f lb above walk-around weight — bring the baseline down before competition week.", gap)
			}
		}
		return "Weight is at a solid baseline this far out — keep training."
	}
	if in.ProjectedWeight != nil {
		gap := *in.ProjectedWeight - in.TargetWeight
		if gap > 0 {
			return fmt.Sprintf("Projected %.1f lb over the class with %d day(s) left — weight is the priority.", gap, in.DaysUntilWeighIn)
		}
		return "Projection says you make weight — hold your routine through weigh-in."
	}
	if in.CurrentWeight != nil {
		gap := *in.CurrentWeight - in.TargetWeight
		if gap > 0 {
			return fmt.Sprintf("%.1f lb over the class with %d day(s) left — stay on the descent plan.", gap, in.DaysUntilWeighIn)
		}
	}
	return "Weight is tracking to the class — hold the line."
}

func recoveryRationale(in RecoveryPillarInput) string {
	if b := in.Basic; b != nil && len(b.SleepHours) > 0 {
		avg, _ := stats.Mean(b.SleepHours)
		if avg < 7 {
			return fmt.Sprintf("Averaging %.1f hours of sleep — recovery is dragging your score.", avg)
		}
	}
	return "Recovery is the weak spot today — prioritize sleep tonight."
}

func protocolRationale(in ProtocolPillarInput) string {
	if b := in.Basic; b != nil {
		if b.WaterCompliance != nil && *b.WaterCompliance < 0.9 {
			return "Water intake is behind target — close the gap before evening."
		}
		if b.FoodCompliance != nil && *b.FoodCompliance > 1.1 {
			return "Intake is running over today's plan — tighten the rest of the day."
		}
	}
	return "Protocol compliance is off plan — match today's targets."
}
