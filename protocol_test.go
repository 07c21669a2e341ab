package main

import (
	"strings"
	"testing"
)

// allClasses mirrors validWeightClasses as an ordered slice for exhaustive
// table tests.
var allClasses = []int{125, 133, 141, 149, 157, 165, 174, 184, 197, 285}

var cuttingProtocols = []Protocol{ProtocolAggressive, ProtocolWeekly, ProtocolOptimal}

/* ─── Table validation ───────────────────────────────────────────────── */

// TestValidateMacroTables verifies the shipped tables pass their own
// invariant checks (init would have panicked already, but a direct call
// gives a real failure message).
func TestValidateMacroTables(t *testing.T) {
	if err := validateMacroTables(); err != nil {
		t.Fatalf("validateMacroTables() = %v, want nil", err)
	}
}

/* ─── Weight target ──────────────────────────────────────────────────── */

// TestGetWeightTarget_CompetitionDayHitsClass verifies that every cutting
// protocol lands exactly on the class on weigh-in day, for every class.
func TestGetWeightTarget_CompetitionDayHitsClass(t *testing.T) {
	for _, p := range cuttingProtocols {
		for _, wc := range allClasses {
			if got := getWeightTarget(p, 0, wc).Base; got != wc {
				t.Errorf("getWeightTarget(%s, 0, %d).Base = %d, want %d", p, wc, got, wc)
			}
		}
	}
}

// TestGetWeightTarget_BuildHoldsClassEveryDay verifies non-cutting protocols
// target the class on every day, with no water-load allowance ever.
func TestGetWeightTarget_BuildHoldsClassEveryDay(t *testing.T) {
	for _, p := range []Protocol{ProtocolBuild, ProtocolSpar} {
		for day := -3; day <= 10; day++ {
			got := getWeightTarget(p, day, 165)
			if got.Base != 165 {
				t.Errorf("getWeightTarget(%s, %d, 165).Base = %d, want 165", p, day, got.Base)
			}
			if got.HasWaterLoad {
				t.Errorf("getWeightTarget(%s, %d, 165) has water load, want none", p, day)
			}
		}
	}
}

// TestGetWeightTarget_NonIncreasingDescent verifies the target never rises as
// the weigh-in approaches (day 5 down to day 0), for every cutting protocol
// and class.
func TestGetWeightTarget_NonIncreasingDescent(t *testing.T) {
	for _, p := range cuttingProtocols {
		for _, wc := range allClasses {
			prev := getWeightTarget(p, 5, wc).Base
			for day := 4; day >= 0; day-- {
				cur := getWeightTarget(p, day, wc).Base
				if cur > prev {
					t.Errorf("%s class %d: target rose from %d (day %d) to %d (day %d)", p, wc, prev, day+1, cur, day)
				}
				prev = cur
			}
		}
	}
}

// TestGetWeightTarget_FarOutClampsToDay5 verifies days beyond 5 use the
// 5-day multiplier instead of extrapolating.
func TestGetWeightTarget_FarOutClampsToDay5(t *testing.T) {
	day5 := getWeightTarget(ProtocolWeekly, 5, 149)
	for _, day := range []int{6, 14, 30, 365} {
		if got := getWeightTarget(ProtocolWeekly, day, 149).Base; got != day5.Base {
			t.Errorf("getWeightTarget(weekly, %d, 149).Base = %d, want day-5 value %d", day, got, day5.Base)
		}
	}
}

// TestGetWeightTarget_WaterLoadWindow verifies the +2..+4 lb allowance shows
// up only on days 3–5 for cutting protocols.
func TestGetWeightTarget_WaterLoadWindow(t *testing.T) {
	for day := -1; day <= 7; day++ {
		got := getWeightTarget(ProtocolWeekly, day, 133)
		wantLoad := clampDay(day) >= 3 && clampDay(day) <= 5
		if got.HasWaterLoad != wantLoad {
			t.Errorf("day %d: HasWaterLoad = %v, want %v", day, got.HasWaterLoad, wantLoad)
		}
		if wantLoad {
			if got.LoadRangeMin != got.Base+2 || got.LoadRangeMax != got.Base+4 {
				t.Errorf("day %d: load range [%d,%d], want [%d,%d]", day, got.LoadRangeMin, got.LoadRangeMax, got.Base+2, got.Base+4)
			}
			if got.WithWaterLoad != got.Base+4 {
				t.Errorf("day %d: WithWaterLoad = %d, want %d", day, got.WithWaterLoad, got.Base+4)
			}
		}
	}
}

// TestGetWeightTarget_ZeroClassIsFinite verifies a degenerate zero class
// produces zeros, not a panic or garbage.
func TestGetWeightTarget_ZeroClassIsFinite(t *testing.T) {
	got := getWeightTarget(ProtocolWeekly, 3, 0)
	if got.Base != 0 {
		t.Errorf("zero class: Base = %d, want 0", got.Base)
	}
}

/* ─── Macro tables ───────────────────────────────────────────────────── */

// TestGetMacroTargets_AggressiveZeroProteinWindow verifies protein is forced
// to exactly zero on days 2–5 of the aggressive protocol, for every class.
func TestGetMacroTargets_AggressiveZeroProteinWindow(t *testing.T) {
	for _, wc := range allClasses {
		for day := 2; day <= 5; day++ {
			got := getMacroTargets(float64(wc), ProtocolAggressive, day)
			if got.Protein.Min != 0 || got.Protein.Max != 0 {
				t.Errorf("aggressive day %d class %d: protein = %+v, want {0 0}", day, wc, got.Protein)
			}
		}
	}
}

// TestGetMacroTargets_AggressiveWeightScaledDays verifies the weight-scaled
// protein anchors: day 1 = 0.2 g/lb, competition = 1.0 g/lb, recovery = 1.4 g/lb.
func TestGetMacroTargets_AggressiveWeightScaledDays(t *testing.T) {
	cases := []struct {
		day  int
		want int // for a 150 lb athlete
	}{
		{1, 30},    // round(150 × 0.2)
		{0, 150},   // round(150 × 1.0)
		{-1, 210},  // round(150 × 1.4)
	}
	for _, tc := range cases {
		got := getMacroTargets(150, ProtocolAggressive, tc.day)
		if got.Protein.Max != tc.want {
			t.Errorf("aggressive day %d: protein.Max = %d, want %d", tc.day, got.Protein.Max, tc.want)
		}
	}
}

// TestGetMacroTargets_WeeklyProteinAnchors verifies the fixed protein grams
// of the standard weekly protocol: 0 on days 4–5, 25 on day 3, 60 on days 1–2.
func TestGetMacroTargets_WeeklyProteinAnchors(t *testing.T) {
	cases := []struct {
		day  int
		want GramRange
	}{
		{5, GramRange{0, 0}},
		{4, GramRange{0, 0}},
		{3, GramRange{25, 25}},
		{2, GramRange{60, 60}},
		{1, GramRange{60, 60}},
	}
	for _, tc := range cases {
		got := getMacroTargets(157, ProtocolWeekly, tc.day)
		if got.Protein != tc.want {
			t.Errorf("weekly day %d: protein = %+v, want %+v", tc.day, got.Protein, tc.want)
		}
	}
}

// TestGetMacroTargets_OptimalNeverZeroProtein verifies the gentle cut keeps
// at least 25g of protein on every training day.
func TestGetMacroTargets_OptimalNeverZeroProtein(t *testing.T) {
	for _, wc := range allClasses {
		for day := 1; day <= 10; day++ {
			got := getMacroTargets(float64(wc), ProtocolOptimal, day)
			if got.Protein.Min < 25 {
				t.Errorf("optimal day %d class %d: protein.Min = %d, want >= 25", day, wc, got.Protein.Min)
			}
		}
	}
}

// TestGetMacroTargets_CrossProtocolOrdering exhaustively verifies the regimen
// ordering for every class and every bucket except competition day (where the
// aggressive protocol's post-fast refeed intentionally exceeds the weekly
// protocol's).
func TestGetMacroTargets_CrossProtocolOrdering(t *testing.T) {
	ordered := []Protocol{ProtocolAggressive, ProtocolWeekly, ProtocolOptimal, ProtocolBuild}
	days := []int{-1, 1, 2, 3, 4, 5, 10} // one representative per non-competition bucket

	for _, wc := range allClasses {
		for _, day := range days {
			for i := 0; i+1 < len(ordered); i++ {
				lo := getMacroTargets(float64(wc), ordered[i], day)
				hi := getMacroTargets(float64(wc), ordered[i+1], day)
				if lo.Protein.Max > hi.Protein.Max {
					t.Errorf("day %d class %d: %s protein.Max %d > %s %d",
						day, wc, ordered[i], lo.Protein.Max, ordered[i+1], hi.Protein.Max)
				}
				build := getMacroTargets(float64(wc), ProtocolBuild, day)
				if lo.Carbs.Max > build.Carbs.Max {
					t.Errorf("day %d class %d: %s carbs.Max %d > build %d",
						day, wc, ordered[i], lo.Carbs.Max, build.Carbs.Max)
				}
			}
		}
	}
}

// TestGetMacroTargets_BuildCarbFloor verifies the build protocol never drops
// below 200g of carbs on any day.
func TestGetMacroTargets_BuildCarbFloor(t *testing.T) {
	for day := -2; day <= 10; day++ {
		got := getMacroTargets(184, ProtocolBuild, day)
		if got.Carbs.Min < 200 {
			t.Errorf("build day %d: carbs.Min = %d, want >= 200", day, got.Carbs.Min)
		}
	}
}

/* ─── Weight-adjusted override ───────────────────────────────────────── */

// TestGetWeightAdjustedMacros_NoOverrideOutsideWindow verifies the override
// only fires on days 1–3: a heavy athlete on a loading day keeps full macros.
func TestGetWeightAdjustedMacros_NoOverrideOutsideWindow(t *testing.T) {
	for _, day := range []int{-1, 0, 4, 5, 6} {
		base := getMacroTargets(150, ProtocolWeekly, day)
		got := getWeightAdjustedMacros(150, ProtocolWeekly, day, 150, 133)
		if got.Warning != "" {
			t.Errorf("day %d: warning %q, want none", day, got.Warning)
		}
		if got.Carbs != base.Carbs || got.Protein != base.Protein {
			t.Errorf("day %d: macros changed outside the override window", day)
		}
	}
}

// TestGetWeightAdjustedMacros_NoOverrideWhenOnSchedule verifies an athlete at
// or under the day's target keeps full macros.
func TestGetWeightAdjustedMacros_NoOverrideWhenOnSchedule(t *testing.T) {
	// Day 2 target for 133 is round(133 × 1.04) = 138.
	got := getWeightAdjustedMacros(138, ProtocolWeekly, 2, 138, 133)
	if got.Warning != "" {
		t.Errorf("on-schedule athlete got warning %q", got.Warning)
	}
}

// TestGetWeightAdjustedMacros_DoNotEatBand verifies the >= 10% effective band
// zeros both macros. Day 1 target for 133 is 137; 160 lb is 16.8% over,
// × 1.5 = 25.2% effective.
func TestGetWeightAdjustedMacros_DoNotEatBand(t *testing.T) {
	got := getWeightAdjustedMacros(160, ProtocolWeekly, 1, 160, 133)
	if !strings.HasPrefix(got.Warning, "DO NOT EAT") {
		t.Fatalf("warning = %q, want DO NOT EAT prefix", got.Warning)
	}
	if got.Carbs != (GramRange{0, 0}) || got.Protein != (GramRange{0, 0}) {
		t.Errorf("macros = %+v / %+v, want zeros", got.Carbs, got.Protein)
	}
}

// TestGetWeightAdjustedMacros_SurvivalBand verifies the 7–10% band scales to
// 15–20% of baseline. Day 3 target for 133 is round(133 × 1.05) = 140;
// 151.2 lb is 8.0% over, × 1.0 = 8.0% effective.
func TestGetWeightAdjustedMacros_SurvivalBand(t *testing.T) {
	got := getWeightAdjustedMacros(151.2, ProtocolWeekly, 3, 151.2, 133)
	if got.Warning != "survival only" {
		t.Fatalf("warning = %q, want %q", got.Warning, "survival only")
	}
	// Weekly day 3 base: carbs {250,350}, protein {25,25}.
	want := AdjustedMacroTargets{
		MacroTargets: MacroTargets{
			Carbs:   GramRange{38, 70}, // round(250×0.15), round(350×0.20)
			Protein: GramRange{4, 5},   // round(25×0.15), round(25×0.20)
			Ratio:   got.Ratio,
		},
		Warning: "survival only",
	}
	if got.Carbs != want.Carbs || got.Protein != want.Protein {
		t.Errorf("macros = %+v / %+v, want %+v / %+v", got.Carbs, got.Protein, want.Carbs, want.Protein)
	}
}

// TestGetWeightAdjustedMacros_HeavyRestrictionBand verifies the 5–7% band.
// Day 2 target for 133 is 138; 144.9 lb is 5.0% over, × 1.2 = 6.0% effective.
func TestGetWeightAdjustedMacros_HeavyRestrictionBand(t *testing.T) {
	got := getWeightAdjustedMacros(144.9, ProtocolWeekly, 2, 144.9, 133)
	if got.Warning != "heavy restriction" {
		t.Fatalf("warning = %q, want %q", got.Warning, "heavy restriction")
	}
	// Weekly day 2 base: carbs {125,200}, protein {60,60}; scales 0.30/0.50.
	if got.Carbs != (GramRange{38, 100}) {
		t.Errorf("carbs = %+v, want {38 100}", got.Carbs)
	}
	if got.Protein != (GramRange{18, 30}) {
		t.Errorf("protein = %+v, want {18 30}", got.Protein)
	}
}

// TestGetWeightAdjustedMacros_ModerateBandEndToEnd is the day-before scenario:
// 140 lb, class 133, one day out. Day target is round(133 × 1.03) = 137, so
// the athlete is 3 lb (2.19%) over; × 1.5 proximity = 3.28% effective —
// moderate reduction, nowhere near the DO NOT EAT band.
func TestGetWeightAdjustedMacros_ModerateBandEndToEnd(t *testing.T) {
	got := getWeightAdjustedMacros(140, ProtocolWeekly, 1, 140, 133)
	if got.Warning != "moderate reduction" {
		t.Fatalf("warning = %q, want %q", got.Warning, "moderate reduction")
	}
	// Weekly day 1 base: carbs {75,125}, protein {60,60}; scales 0.60/0.80.
	if got.Carbs != (GramRange{45, 100}) {
		t.Errorf("carbs = %+v, want {45 100}", got.Carbs)
	}
	if got.Protein != (GramRange{36, 48}) {
		t.Errorf("protein = %+v, want {36 48}", got.Protein)
	}
}

// TestGetWeightAdjustedMacros_ZeroClassDegrades verifies a zero target class
// returns the unadjusted base instead of dividing by zero.
func TestGetWeightAdjustedMacros_ZeroClassDegrades(t *testing.T) {
	got := getWeightAdjustedMacros(150, ProtocolWeekly, 1, 150, 0)
	if got.Warning != "" {
		t.Errorf("zero class: warning = %q, want none", got.Warning)
	}
}

/* ─── Water ──────────────────────────────────────────────────────────── */

// TestGetWaterTarget_Anchors verifies the oz/lb multipliers at a 140 lb
// body weight.
func TestGetWaterTarget_Anchors(t *testing.T) {
	cases := []struct {
		day  int
		want int
	}{
		{5, 168},  // 1.2 oz/lb
		{4, 210},  // 1.5 oz/lb
		{3, 210},  // 1.5 oz/lb
		{2, 42},   // 0.3 oz/lb
		{1, 11},   // 0.08 oz/lb — sips
		{0, 0},    // nothing until after weigh-in
		{-1, 105}, // 0.75 oz/lb recovery
	}
	for _, tc := range cases {
		if got := getWaterTarget(tc.day, 140); got != tc.want {
			t.Errorf("getWaterTarget(%d, 140) = %d, want %d", tc.day, got, tc.want)
		}
	}
}

// TestGetWaterTarget_CompetitionDayAlwaysZero verifies weigh-in day is zero
// for any body weight.
func TestGetWaterTarget_CompetitionDayAlwaysZero(t *testing.T) {
	for _, w := range []float64{0, 125, 197, 285, 400} {
		if got := getWaterTarget(0, w); got != 0 {
			t.Errorf("getWaterTarget(0, %.0f) = %d, want 0", w, got)
		}
	}
}

// TestGetWaterTarget_FarOutClampsToDay5 verifies days beyond 5 reuse the
// day-5 multiplier rather than extrapolating — the documented safety fix.
func TestGetWaterTarget_FarOutClampsToDay5(t *testing.T) {
	for _, day := range []int{6, 10, 30, 100} {
		if got, want := getWaterTarget(day, 197), getWaterTarget(5, 197); got != want {
			t.Errorf("getWaterTarget(%d, 197) = %d, want day-5 value %d", day, got, want)
		}
	}
}

// TestGetWaterTarget_HardCap verifies the 320 oz ceiling holds on loading
// days for heavy athletes, and that all outputs stay within [0, 320].
func TestGetWaterTarget_HardCap(t *testing.T) {
	// 285 lb on a 1.5 oz/lb day would be 428 oz uncapped.
	if got := getWaterTarget(4, 285); got != 320 {
		t.Errorf("getWaterTarget(4, 285) = %d, want capped 320", got)
	}
	for day := -3; day <= 12; day++ {
		for _, w := range []float64{0, 125, 285, 500} {
			got := getWaterTarget(day, w)
			if got < 0 || got > 320 {
				t.Errorf("getWaterTarget(%d, %.0f) = %d, outside [0, 320]", day, w, got)
			}
		}
	}
}

/* ─── Sodium ─────────────────────────────────────────────────────────── */

// TestGetSodiumTarget verifies the salt-loading arc: load days 3–5, taper
// day 2, restrict day 1, nothing on weigh-in day, replenish after.
func TestGetSodiumTarget(t *testing.T) {
	cases := []struct {
		day   int
		grams float64
		label string
	}{
		{5, 5.0, "salt loading"},
		{4, 5.0, "salt loading"},
		{3, 5.0, "salt loading"},
		{2, 2.5, "taper"},
		{1, 0.5, "restrict"},
		{0, 0, "none until after weigh-in"},
		{-1, 3.0, "replenish"},
		{10, 2.3, "normal intake"},
	}
	for _, tc := range cases {
		got := getSodiumTarget(tc.day)
		if got.TargetGrams != tc.grams || got.Label != tc.label {
			t.Errorf("getSodiumTarget(%d) = %+v, want %.1fg %q", tc.day, got, tc.grams, tc.label)
		}
	}
}

/* ─── Rehydration ────────────────────────────────────────────────────── */

// TestGetRehydrationPlan_ZeroLoss verifies no lost weight means all-zero
// ranges, not NaN or a divide-by-zero.
func TestGetRehydrationPlan_ZeroLoss(t *testing.T) {
	for _, lost := range []float64{0, -1.5} {
		if got := getRehydrationPlan(lost); got != (RehydrationPlan{}) {
			t.Errorf("getRehydrationPlan(%.1f) = %+v, want zeros", lost, got)
		}
	}
}

// TestGetRehydrationPlan_Formula verifies the per-pound ranges:
// 16–24 oz fluid and 500–700 mg sodium per pound lost.
func TestGetRehydrationPlan_Formula(t *testing.T) {
	got := getRehydrationPlan(3.5)
	want := RehydrationPlan{FluidMinOz: 56, FluidMaxOz: 84, SodiumMinMg: 1750, SodiumMaxMg: 2450}
	if got != want {
		t.Errorf("getRehydrationPlan(3.5) = %+v, want %+v", got, want)
	}
}

/* ─── Food phases ────────────────────────────────────────────────────── */

// TestGetFoodPhase_CuttingWindows verifies the fructose window on days 3–5
// and the glucose/zero-fiber window on days 1–2 for cutting protocols.
func TestGetFoodPhase_CuttingWindows(t *testing.T) {
	for _, p := range cuttingProtocols {
		for day := -2; day <= 8; day++ {
			got := getFoodPhase(p, day)
			wantFructose := day >= 3 && day <= 5
			wantGlucose := day == 1 || day == 2
			if got.FructoseOnly != wantFructose || got.GlucoseOnly != wantGlucose {
				t.Errorf("%s day %d: phase = %+v, want fructose=%v glucose=%v", p, day, got, wantFructose, wantGlucose)
			}
		}
	}
}

// TestGetFoodPhase_NonCuttingNeverRestricted verifies build/spar athletes
// never see a restrictive food phase, on any day.
func TestGetFoodPhase_NonCuttingNeverRestricted(t *testing.T) {
	for _, p := range []Protocol{ProtocolBuild, ProtocolSpar} {
		for day := -10; day <= 30; day++ {
			got := getFoodPhase(p, day)
			if got.FructoseOnly || got.GlucoseOnly {
				t.Errorf("%s day %d: restrictive phase raised: %+v", p, day, got)
			}
		}
	}
}

// TestGetFoodPhase_CompetitionAndRecoveryFlags verifies the phase markers
// apply to every protocol.
func TestGetFoodPhase_CompetitionAndRecoveryFlags(t *testing.T) {
	for p := range validProtocols {
		if got := getFoodPhase(p, 0); !got.Competition || got.Recovery {
			t.Errorf("%s day 0: phase = %+v, want competition only", p, got)
		}
		if got := getFoodPhase(p, -1); got.Competition || !got.Recovery {
			t.Errorf("%s day -1: phase = %+v, want recovery only", p, got)
		}
	}
}

/* ─── End-to-end scenario ────────────────────────────────────────────── */

// TestFourDaysOut_133Weekly is the full four-days-out picture for a 140 lb
// athlete cutting to 133 on the standard weekly protocol: loading-phase
// macros with zero protein, 210 oz of water, and a 141 lb target with a
// 143–145 loading range.
func TestFourDaysOut_133Weekly(t *testing.T) {
	macros := getMacroTargets(140, ProtocolWeekly, 4)
	if macros.Carbs != (GramRange{325, 450}) {
		t.Errorf("carbs = %+v, want {325 450}", macros.Carbs)
	}
	if macros.Protein != (GramRange{0, 0}) {
		t.Errorf("protein = %+v, want {0 0}", macros.Protein)
	}

	if water := getWaterTarget(4, 140); water != 210 {
		t.Errorf("water = %d, want 210", water)
	}

	target := getWeightTarget(ProtocolWeekly, 4, 133)
	if target.Base != 141 {
		t.Errorf("target.Base = %d, want 141", target.Base)
	}
	if !target.HasWaterLoad || target.LoadRangeMin != 143 || target.LoadRangeMax != 145 {
		t.Errorf("load range = [%d,%d] (has=%v), want [143,145]", target.LoadRangeMin, target.LoadRangeMax, target.HasWaterLoad)
	}
}
