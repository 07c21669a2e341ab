package main

import (
	"fmt"
	"math"
)

/* ─── Protocols ──────────────────────────────────────────────────────── */

// Protocol identifies a named weight/nutrition regimen. Stored as-is in the
// cut_profiles table, so values here must match the protocol_type enum.
type Protocol string

const (
	ProtocolAggressive Protocol = "aggressive" // rapid fat-oxidation cut, zero-protein window
	ProtocolWeekly     Protocol = "weekly"     // standard week-of cut
	ProtocolOptimal    Protocol = "optimal"    // gentle cut / hold at class
	ProtocolBuild      Protocol = "build"      // off-season build, no cutting
	ProtocolSpar       Protocol = "spar"       // portion-slice maintenance, no weigh-in logic
)

// validProtocols is the single source of truth for protocol values — also
// used for input validation in patchProfile.
var validProtocols = map[Protocol]bool{
	ProtocolAggressive: true,
	ProtocolWeekly:     true,
	ProtocolOptimal:    true,
	ProtocolBuild:      true,
	ProtocolSpar:       true,
}

// isCutting reports whether the protocol actually cuts toward a weigh-in.
// Build and spar athletes never water-load and never see restrictive food
// phases, no matter what day it is.
func (p Protocol) isCutting() bool {
	return p == ProtocolAggressive || p == ProtocolWeekly || p == ProtocolOptimal
}

// validWeightClasses is the fixed set of competition weight classes (lbs).
var validWeightClasses = map[int]bool{
	125: true, 133: true, 141: true, 149: true, 157: true,
	165: true, 174: true, 184: true, 197: true, 285: true,
}

/* ─── Day buckets ────────────────────────────────────────────────────── */

// dayBucket is the clamped index into every decision table. Days further out
// than 5 fall into bucketMaintenance; anything negative is bucketRecovery.
type dayBucket int

const (
	bucketRecovery    dayBucket = iota // daysUntil < 0: post-competition
	bucketCompetition                  // daysUntil == 0: weigh-in day
	bucketDay1
	bucketDay2
	bucketDay3
	bucketDay4to5
	bucketMaintenance // daysUntil >= 6
)

// bucketForDay clamps a signed days-until-weigh-in value onto a bucket.
// Total over all ints: deeply negative and far-future values both resolve.
func bucketForDay(daysUntil int) dayBucket {
	switch {
	case daysUntil < 0:
		return bucketRecovery
	case daysUntil == 0:
		return bucketCompetition
	case daysUntil == 1:
		return bucketDay1
	case daysUntil == 2:
		return bucketDay2
	case daysUntil == 3:
		return bucketDay3
	case daysUntil <= 5:
		return bucketDay4to5
	default:
		return bucketMaintenance
	}
}

// clampDay collapses daysUntil onto the range the per-day tables cover:
// negative stays negative (recovery), anything above 5 becomes 5.
func clampDay(daysUntil int) int {
	if daysUntil > 5 {
		return 5
	}
	return daysUntil
}

/* ─── Weight target ──────────────────────────────────────────────────── */

// weightMultipliers maps clamped daysUntil to the descent multiplier over the
// weight class. Day 5 and recovery both sit at walk-around weight (1.07).
var weightMultipliers = map[int]float64{
	5: 1.07,
	4: 1.06,
	3: 1.05,
	2: 1.04,
	1: 1.03,
	0: 1.00,
}

// recoveryWeightMultiplier is the post-competition target: back to walk-around.
const recoveryWeightMultiplier = 1.07

// Water-load allowance on loading days (days 3–5, cutting protocols only).
const (
	waterLoadMinLbs = 2
	waterLoadMaxLbs = 4
)

// WeightTarget is the day's body-weight prescription. On loading days the
// allowance range and the combined base+allowance value are populated so the
// UI can show both the strict target and the loading-inclusive one.
type WeightTarget struct {
	Base          int  `json:"base"`
	HasWaterLoad  bool `json:"has_water_load"`
	LoadRangeMin  int  `json:"load_range_min,omitempty"`
	LoadRangeMax  int  `json:"load_range_max,omitempty"`
	WithWaterLoad int  `json:"with_water_load,omitempty"`
}

// getWeightTarget returns the target body weight for the day. Build and spar
// protocols hold the class weight on every day (no descent, no loading).
func getWeightTarget(protocol Protocol, daysUntil, weightClass int) WeightTarget {
	if !protocol.isCutting() {
		return WeightTarget{Base: weightClass}
	}

	day := clampDay(daysUntil)
	mult := recoveryWeightMultiplier
	if day >= 0 {
		mult = weightMultipliers[day]
	}
	base := int(math.Round(float64(weightClass) * mult))

	t := WeightTarget{Base: base}
	if day >= 3 && day <= 5 {
		t.HasWaterLoad = true
		t.LoadRangeMin = base + waterLoadMinLbs
		t.LoadRangeMax = base + waterLoadMaxLbs
		t.WithWaterLoad = base + waterLoadMaxLbs
	}
	return t
}

/* ─── Macro tables ───────────────────────────────────────────────────── */

// GramRange is an inclusive min/max in grams.
type GramRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// macroRule is one protocol × bucket cell. Protein is either a fixed gram
// range or scaled per pound of current body weight (PerLb fields non-zero);
// the scaled form is used where the source regimen prescribes g/lb.
type macroRule struct {
	Carbs           GramRange
	Protein         GramRange
	ProteinPerLbMin float64
	ProteinPerLbMax float64
	Ratio           string
}

// proteinRange resolves the rule's protein prescription for a body weight.
func (r macroRule) proteinRange(weightLbs float64) GramRange {
	if r.ProteinPerLbMin == 0 && r.ProteinPerLbMax == 0 {
		return r.Protein
	}
	return GramRange{
		Min: int(math.Round(weightLbs * r.ProteinPerLbMin)),
		Max: int(math.Round(weightLbs * r.ProteinPerLbMax)),
	}
}

// MacroTargets is the day's carb/protein prescription.
type MacroTargets struct {
	Carbs   GramRange `json:"carbs"`
	Protein GramRange `json:"protein"`
	Ratio   string    `json:"ratio"`
}

// macroTables holds the full day-bucketed decision table per protocol,
// expressed as data rather than branching code. validateMacroTables checks
// the cross-protocol invariants at init, so a bad edit fails fast instead of
// silently prescribing the wrong regimen.
//
// Relative aggressiveness must hold on every training bucket: aggressive
// protein ≤ weekly ≤ optimal ≤ build, and build carries the most carbs.
// Competition day is the one sanctioned exception — the aggressive protocol
// ends its zero-protein window with a hard 1.0 g/lb refeed.
var macroTables = map[Protocol]map[dayBucket]macroRule{
	ProtocolAggressive: {
		bucketMaintenance: {Carbs: GramRange{150, 250}, ProteinPerLbMin: 0.7, ProteinPerLbMax: 0.8, Ratio: "low-carb deficit"},
		bucketDay4to5:     {Carbs: GramRange{250, 350}, Protein: GramRange{0, 0}, Ratio: "fructose only"},
		bucketDay3:        {Carbs: GramRange{200, 300}, Protein: GramRange{0, 0}, Ratio: "fructose only"},
		bucketDay2:        {Carbs: GramRange{100, 150}, Protein: GramRange{0, 0}, Ratio: "glucose only, zero fiber"},
		bucketDay1:        {Carbs: GramRange{50, 100}, ProteinPerLbMin: 0.2, ProteinPerLbMax: 0.2, Ratio: "glucose only, zero fiber"},
		bucketCompetition: {Carbs: GramRange{100, 200}, ProteinPerLbMin: 1.0, ProteinPerLbMax: 1.0, Ratio: "rapid refuel"},
		bucketRecovery:    {Carbs: GramRange{250, 400}, ProteinPerLbMin: 1.4, ProteinPerLbMax: 1.4, Ratio: "full rebuild"},
	},
	ProtocolWeekly: {
		bucketMaintenance: {Carbs: GramRange{200, 300}, ProteinPerLbMin: 0.8, ProteinPerLbMax: 0.9, Ratio: "balanced deficit"},
		bucketDay4to5:     {Carbs: GramRange{325, 450}, Protein: GramRange{0, 0}, Ratio: "fructose only"},
		bucketDay3:        {Carbs: GramRange{250, 350}, Protein: GramRange{25, 25}, Ratio: "fructose only"},
		bucketDay2:        {Carbs: GramRange{125, 200}, Protein: GramRange{60, 60}, Ratio: "glucose only, zero fiber"},
		bucketDay1:        {Carbs: GramRange{75, 125}, Protein: GramRange{60, 60}, Ratio: "glucose only, zero fiber"},
		bucketCompetition: {Carbs: GramRange{150, 250}, ProteinPerLbMin: 0.5, ProteinPerLbMax: 0.5, Ratio: "steady refuel"},
		bucketRecovery:    {Carbs: GramRange{250, 400}, ProteinPerLbMin: 1.4, ProteinPerLbMax: 1.4, Ratio: "full rebuild"},
	},
	ProtocolOptimal: {
		bucketMaintenance: {Carbs: GramRange{225, 325}, ProteinPerLbMin: 0.9, ProteinPerLbMax: 1.0, Ratio: "balanced deficit"},
		bucketDay4to5:     {Carbs: GramRange{300, 400}, Protein: GramRange{25, 50}, Ratio: "gentle load"},
		bucketDay3:        {Carbs: GramRange{250, 350}, Protein: GramRange{40, 60}, Ratio: "gentle load"},
		bucketDay2:        {Carbs: GramRange{150, 250}, Protein: GramRange{50, 75}, Ratio: "gentle taper"},
		bucketDay1:        {Carbs: GramRange{100, 150}, Protein: GramRange{50, 75}, Ratio: "gentle taper"},
		bucketCompetition: {Carbs: GramRange{150, 250}, ProteinPerLbMin: 0.8, ProteinPerLbMax: 0.8, Ratio: "steady refuel"},
		bucketRecovery:    {Carbs: GramRange{275, 425}, ProteinPerLbMin: 1.5, ProteinPerLbMax: 1.5, Ratio: "full rebuild"},
	},
	ProtocolBuild: {
		bucketMaintenance: {Carbs: GramRange{275, 450}, ProteinPerLbMin: 1.1, ProteinPerLbMax: 1.2, Ratio: "surplus"},
		bucketDay4to5:     {Carbs: GramRange{350, 500}, Protein: GramRange{140, 180}, Ratio: "surplus"},
		bucketDay3:        {Carbs: GramRange{300, 450}, Protein: GramRange{140, 180}, Ratio: "surplus"},
		bucketDay2:        {Carbs: GramRange{250, 400}, Protein: GramRange{140, 180}, Ratio: "surplus"},
		bucketDay1:        {Carbs: GramRange{200, 350}, Protein: GramRange{140, 180}, Ratio: "surplus"},
		bucketCompetition: {Carbs: GramRange{250, 400}, ProteinPerLbMin: 1.0, ProteinPerLbMax: 1.0, Ratio: "surplus"},
		bucketRecovery:    {Carbs: GramRange{300, 500}, ProteinPerLbMin: 1.6, ProteinPerLbMax: 1.6, Ratio: "surplus"},
	},
}

// allBuckets in table order, used by validation and exhaustive tests.
var allBuckets = []dayBucket{
	bucketRecovery, bucketCompetition, bucketDay1, bucketDay2,
	bucketDay3, bucketDay4to5, bucketMaintenance,
}

// validateMacroTables enforces the cross-protocol policy invariants on the
// data tables. Called from init so a table edit that breaks regimen ordering
// can't ship. Per-lb protein entries are compared at a reference weight of
// 285 lbs (the heaviest class) — per-lb vs fixed-gram comparisons are tightest
// at the heaviest athlete.
func validateMacroTables() error {
	const refWeight = 285.0

	ordered := []Protocol{ProtocolAggressive, ProtocolWeekly, ProtocolOptimal, ProtocolBuild}
	for _, p := range ordered {
		if len(macroTables[p]) != len(allBuckets) {
			return fmt.Errorf("macro table for %s: want %d buckets, have %d", p, len(allBuckets), len(macroTables[p]))
		}
	}

	for _, b := range allBuckets {
		// Aggressive zero-protein window: days 2–5 inclusive.
		if b == bucketDay2 || b == bucketDay3 || b == bucketDay4to5 {
			if r := macroTables[ProtocolAggressive][b].proteinRange(refWeight); r.Min != 0 || r.Max != 0 {
				return fmt.Errorf("aggressive protein must be zero on bucket %d", b)
			}
		}
		// Optimal never forces protein to zero on a training day.
		if b != bucketCompetition && b != bucketRecovery {
			if macroTables[ProtocolOptimal][b].proteinRange(refWeight).Min < 25 {
				return fmt.Errorf("optimal protein min below 25g on bucket %d", b)
			}
		}
		// Build always carries at least 200g of carbs.
		if macroTables[ProtocolBuild][b].Carbs.Min < 200 {
			return fmt.Errorf("build carbs min below 200g on bucket %d", b)
		}

		for i := 0; i+1 < len(ordered); i++ {
			lo := macroTables[ordered[i]][b]
			hi := macroTables[ordered[i+1]][b]
			// Competition day is exempt from protein ordering (aggressive refeed).
			if b != bucketCompetition {
				if lo.proteinRange(refWeight).Max > hi.proteinRange(refWeight).Max {
					return fmt.Errorf("protein ordering broken on bucket %d: %s > %s", b, ordered[i], ordered[i+1])
				}
			}
			// Build must carry the most carbs on every bucket.
			if lo.Carbs.Max > macroTables[ProtocolBuild][b].Carbs.Max {
				return fmt.Errorf("carb ceiling broken on bucket %d: %s > build", b, ordered[i])
			}
		}
	}
	return nil
}

func init() {
	if err := validateMacroTables(); err != nil {
		panic(err)
	}
}

// getMacroTargets returns the base (non-weight-adjusted) macro prescription
// for the day. Spar athletes get no gram targets — their prescription comes
// from getSparSliceTargets — so the weekly maintenance row is used as a
// benign fallback if a spar profile ever asks for grams.
func getMacroTargets(weightLbs float64, protocol Protocol, daysUntil int) MacroTargets {
	table, ok := macroTables[protocol]
	if !ok {
		table = macroTables[ProtocolWeekly]
	}
	rule := table[bucketForDay(daysUntil)]
	return MacroTargets{
		Carbs:   rule.Carbs,
		Protein: rule.proteinRange(weightLbs),
		Ratio:   rule.Ratio,
	}
}

/* ─── Weight-adjusted macro override ─────────────────────────────────── */

// severityBand is one rung of the behind-schedule restriction ladder,
// evaluated first-match on the effective percent over target. The scale
// factors multiply the base bucket values — the override composes with the
// table, it never replaces it.
type severityBand struct {
	ThresholdPct float64
	MinScale     float64
	MaxScale     float64
	Warning      string
}

var severityBands = []severityBand{
	{ThresholdPct: 10, MinScale: 0, MaxScale: 0, Warning: "DO NOT EAT — see your coach before taking in anything but water sips"},
	{ThresholdPct: 7, MinScale: 0.15, MaxScale: 0.20, Warning: "survival only"},
	{ThresholdPct: 5, MinScale: 0.30, MaxScale: 0.50, Warning: "heavy restriction"},
	{ThresholdPct: 3, MinScale: 0.60, MaxScale: 0.80, Warning: "moderate reduction"},
}

// dayProximityMultipliers scale percent-over by how little time is left.
// The override only fires on days 1–3; loading days are left alone on purpose
// (the athlete is *supposed* to be heavy while water-loading).
var dayProximityMultipliers = map[int]float64{
	1: 1.5,
	2: 1.2,
	3: 1.0,
}

// AdjustedMacroTargets is MacroTargets plus the optional severity warning.
type AdjustedMacroTargets struct {
	MacroTargets
	Warning string `json:"warning,omitempty"`
}

// getWeightAdjustedMacros applies the behind-schedule override to the day's
// base macros. Percent-over is measured against the day's target weight (not
// the class itself): being at 103% of class one day out is on schedule, not
// behind. Zero/garbage target class degrades to the unadjusted base values.
func getWeightAdjustedMacros(weightLbs float64, protocol Protocol, daysUntil int, currentWeight float64, targetClass int) AdjustedMacroTargets {
	base := getMacroTargets(weightLbs, protocol, daysUntil)
	out := AdjustedMacroTargets{MacroTargets: base}

	mult, inWindow := dayProximityMultipliers[daysUntil]
	if !inWindow || !protocol.isCutting() || targetClass <= 0 {
		return out
	}

	dayTarget := getWeightTarget(protocol, daysUntil, targetClass).Base
	if dayTarget <= 0 || currentWeight <= float64(dayTarget) {
		return out
	}

	percentOver := (currentWeight - float64(dayTarget)) / float64(dayTarget) * 100
	effective := percentOver * mult

	for _, band := range severityBands {
		if effective >= band.ThresholdPct {
			out.Carbs = GramRange{
				Min: int(math.Round(float64(base.Carbs.Min) * band.MinScale)),
				Max: int(math.Round(float64(base.Carbs.Max) * band.MaxScale)),
			}
			out.Protein = GramRange{
				Min: int(math.Round(float64(base.Protein.Min) * band.MinScale)),
				Max: int(math.Round(float64(base.Protein.Max) * band.MaxScale)),
			}
			out.Warning = band.Warning
			break
		}
	}
	return out
}

/* ─── Water ──────────────────────────────────────────────────────────── */

// waterOzPerLb maps clamped daysUntil to ounces of water per pound of body
// weight. Days beyond 5 clamp to the day-5 multiplier — this was a safety
// fix: extrapolating the loading formula out past day 5 produced multi-gallon
// targets for heavy athletes. Clamp, never extrapolate.
var waterOzPerLb = map[int]float64{
	5: 1.2,
	4: 1.5,
	3: 1.5,
	2: 0.3,
	1: 0.08, // sips only
	0: 0,    // nothing until after the weigh-in
}

const recoveryWaterOzPerLb = 0.75

// waterCapOz is a hard safety ceiling (~2.5 gallons). Never bypassed, even
// for the 285 class on a loading day.
const waterCapOz = 320

// getWaterTarget returns the day's hydration target in ounces, capped at
// waterCapOz. Competition day is always exactly 0 — rehydration has its own
// formula and starts only after the weigh-in.
func getWaterTarget(daysUntil int, currentWeight float64) int {
	day := clampDay(daysUntil)
	ozPerLb := recoveryWaterOzPerLb
	if day >= 0 {
		ozPerLb = waterOzPerLb[day]
	}
	oz := int(math.Round(ozPerLb * currentWeight))
	if oz < 0 {
		oz = 0
	}
	if oz > waterCapOz {
		oz = waterCapOz
	}
	return oz
}

/* ─── Sodium ─────────────────────────────────────────────────────────── */

// SodiumTarget is display guidance, not a hard numeric contract.
type SodiumTarget struct {
	TargetGrams float64 `json:"target_grams"`
	Label       string  `json:"label"`
	Color       string  `json:"color"`
}

// getSodiumTarget returns the day's salt guidance: load on days 3–5, taper
// day 2, restrict day 1, nothing until after the weigh-in, replenish after.
func getSodiumTarget(daysUntil int) SodiumTarget {
	switch bucketForDay(daysUntil) {
	case bucketRecovery:
		return SodiumTarget{TargetGrams: 3.0, Label: "replenish", Color: "green"}
	case bucketCompetition:
		return SodiumTarget{TargetGrams: 0, Label: "none until after weigh-in", Color: "red"}
	case bucketDay1:
		return SodiumTarget{TargetGrams: 0.5, Label: "restrict", Color: "red"}
	case bucketDay2:
		return SodiumTarget{TargetGrams: 2.5, Label: "taper", Color: "yellow"}
	case bucketDay3, bucketDay4to5:
		return SodiumTarget{TargetGrams: 5.0, Label: "salt loading", Color: "blue"}
	default:
		return SodiumTarget{TargetGrams: 2.3, Label: "normal intake", Color: "gray"}
	}
}

/* ─── Rehydration ────────────────────────────────────────────────────── */

// RehydrationPlan is the post-weigh-in fluid and sodium replacement range,
// scaled by pounds lost to make weight.
type RehydrationPlan struct {
	FluidMinOz  int `json:"fluid_min_oz"`
	FluidMaxOz  int `json:"fluid_max_oz"`
	SodiumMinMg int `json:"sodium_min_mg"`
	SodiumMaxMg int `json:"sodium_max_mg"`
}

// getRehydrationPlan returns 16–24 oz of fluid and 500–700 mg of sodium per
// pound lost. Non-positive loss returns all zeros (made weight without a cut).
func getRehydrationPlan(lostLbs float64) RehydrationPlan {
	if lostLbs <= 0 {
		return RehydrationPlan{}
	}
	return RehydrationPlan{
		FluidMinOz:  int(math.Round(16 * lostLbs)),
		FluidMaxOz:  int(math.Round(24 * lostLbs)),
		SodiumMinMg: int(math.Round(500 * lostLbs)),
		SodiumMaxMg: int(math.Round(700 * lostLbs)),
	}
}

/* ─── Food phases ────────────────────────────────────────────────────── */

// FoodPhase flags drive which food guidance the client shows. The restrictive
// phases (fructose-only, glucose/zero-fiber) only ever apply to cutting
// protocols — a build or spar athlete must never see them.
type FoodPhase struct {
	FructoseOnly bool `json:"fructose_only"`
	GlucoseOnly  bool `json:"glucose_only"` // zero-fiber window
	Competition  bool `json:"competition"`
	Recovery     bool `json:"recovery"`
}

// getFoodPhase derives the phase flags from protocol and day.
func getFoodPhase(protocol Protocol, daysUntil int) FoodPhase {
	phase := FoodPhase{
		Competition: daysUntil == 0,
		Recovery:    daysUntil < 0,
	}
	if !protocol.isCutting() {
		return phase
	}
	switch bucketForDay(daysUntil) {
	case bucketDay3, bucketDay4to5:
		phase.FructoseOnly = true
	case bucketDay1, bucketDay2:
		phase.GlucoseOnly = true
	}
	return phase
}
