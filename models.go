package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// cutProfile maps to cut_profiles. One row per athlete: where they are, what
// class they're cutting to, which regimen, and when they step on the scale.
// SimulatedDate, when set, replaces "now" in every day-count computation —
// used for walking through a cut week without waiting a week.
type cutProfile struct {
	UserID        int       `json:"user_id"            db:"user_id"`
	CurrentWeight float64   `json:"current_weight_lbs" db:"current_weight_lbs"`
	WeightClass   int       `json:"weight_class_lbs"   db:"weight_class_lbs"`
	Protocol      Protocol  `json:"protocol"           db:"protocol"`
	WeighInDate   *DateOnly `json:"weigh_in_date"      db:"weigh_in_date"`
	WeighInTime   *string   `json:"weigh_in_time"      db:"weigh_in_time"` // "HH:MM", display only
	SimulatedDate *DateOnly `json:"simulated_date"     db:"simulated_date"`

	// SPAR biometrics — all nullable; a competitive-protocol row may never
	// fill them in.
	Sex               *string   `json:"sex"                     db:"sex"`
	DateOfBirth       *DateOnly `json:"date_of_birth"           db:"date_of_birth"`
	HeightCM          *float64  `json:"height_cm"               db:"height_cm"`
	ActivityLevel     *string   `json:"activity_level"          db:"activity_level"`
	WeeklyGoal        *string   `json:"weekly_goal"             db:"weekly_goal"`
	DailyLossCapacity *float64  `json:"daily_loss_capacity_lbs" db:"daily_loss_capacity_lbs"`

	SetupComplete bool `json:"setup_complete" db:"setup_complete"`
}

// weightEntry maps to weight_log: one timestamped reading tagged with how it
// was taken. Morning and official weigh-in readings drive trend/projection;
// the rest are context.
type weightEntry struct {
	ID         int        `json:"id" db:"id"`
	UserID     int        `json:"user_id" db:"user_id"`
	Date       DateOnly   `json:"date" db:"date"`
	EntryType  string     `json:"entry_type" db:"entry_type"`
	WeightLBS  float64    `json:"weight_lbs" db:"weight_lbs"`
	RecordedAt *time.Time `json:"recorded_at" db:"recorded_at"`
}

// validEntryTypes is the set of allowed weight reading types. Reject unknown
// values with 400 rather than letting the DB return a cryptic 500.
var validEntryTypes = map[string]bool{
	"morning":              true,
	"post_practice":        true,
	"weigh_in":             true,
	"check_in":             true,
	"extra_workout_before": true,
	"extra_workout_after":  true,
	"recovery":             true,
}

// trendEntryTypes are the reading types usable for the weigh-in projection —
// morning and official readings only, taken under comparable conditions.
var trendEntryTypes = map[string]bool{
	"morning":  true,
	"weigh_in": true,
}

// foodLogEntry maps to food_log_entries. Water is logged as an entry of
// category "water" with ounces; everything else carries grams and slices.
// Daily aggregates are always computed as the sum over these rows — the rows
// are the ground truth.
type foodLogEntry struct {
	ID       int        `json:"id" db:"id"`
	UserID   int        `json:"user_id" db:"user_id"`
	Date     DateOnly   `json:"date" db:"date"`
	Name     string     `json:"name" db:"name"`
	Category string     `json:"category" db:"category"`
	CarbsG   *float64   `json:"carbs_g" db:"carbs_g"`
	ProteinG *float64   `json:"protein_g" db:"protein_g"`
	WaterOz  *float64   `json:"water_oz" db:"water_oz"`
	Slices   *float64   `json:"slices" db:"slices"`
	LoggedAt *time.Time `json:"logged_at" db:"logged_at"`
}

// validFoodCategories covers the five slice categories plus water.
var validFoodCategories = map[string]bool{
	"protein": true,
	"carb":    true,
	"veg":     true,
	"fruit":   true,
	"fat":     true,
	"water":   true,
}

// checkin maps to checkins: one optional morning check-in per day carrying
// the recovery-pillar inputs across all three data tiers. Everything is
// nullable; whatever is present decides the tier.
type checkin struct {
	UserID     int      `json:"user_id" db:"user_id"`
	Date       DateOnly `json:"date" db:"date"`
	SleepHours *float64 `json:"sleep_hours" db:"sleep_hours"`
	BedTime    *string  `json:"bed_time" db:"bed_time"`
	WakeTime   *string  `json:"wake_time" db:"wake_time"`
	FeelRating *int     `json:"feel_rating" db:"feel_rating"`

	// Wearable metrics (premium tier).
	RecoveryScore *float64 `json:"recovery_score" db:"recovery_score"`
	HRV           *float64 `json:"hrv" db:"hrv"`
	RestingHR     *float64 `json:"resting_hr" db:"resting_hr"`
	SleepScore    *float64 `json:"sleep_score" db:"sleep_score"`
	Strain        *float64 `json:"strain" db:"strain"`
}

// shareLink maps to share_links: a revocable read-only token for sharing a
// cut's status with a coach.
type shareLink struct {
	Token     string     `json:"token" db:"token"`
	UserID    int        `json:"user_id" db:"user_id"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty" db:"revoked_at"`
}

/* ─── Request / response shapes ──────────────────────────────────────── */

// patchProfileRequest is the body for PATCH /api/profile. All fields are
// pointers — only non-nil fields get written to the database.
type patchProfileRequest struct {
	CurrentWeight     *float64 `json:"current_weight_lbs"`
	WeightClass       *int     `json:"weight_class_lbs"`
	Protocol          *string  `json:"protocol"`
	WeighInDate       *string  `json:"weigh_in_date"` // YYYY-MM-DD
	WeighInTime       *string  `json:"weigh_in_time"` // HH:MM
	SimulatedDate     *string  `json:"simulated_date"`
	ClearSimulated    *bool    `json:"clear_simulated_date"`
	Sex               *string  `json:"sex"`
	DateOfBirth       *string  `json:"date_of_birth"`
	HeightCM          *float64 `json:"height_cm"`
	ActivityLevel     *string  `json:"activity_level"`
	WeeklyGoal        *string  `json:"weekly_goal"`
	DailyLossCapacity *float64 `json:"daily_loss_capacity_lbs"`
	SetupComplete     *bool    `json:"setup_complete"`
}

// dayTargets is the full prescription for one day: everything the client
// needs to render the plan, straight out of the rule engine.
type dayTargets struct {
	Date             string               `json:"date"`
	DaysUntilWeighIn int                  `json:"days_until_weigh_in"`
	Protocol         Protocol             `json:"protocol"`
	WeightTarget     WeightTarget         `json:"weight_target"`
	Macros           AdjustedMacroTargets `json:"macros"`
	WaterOz          int                  `json:"water_oz"`
	Sodium           SodiumTarget         `json:"sodium"`
	FoodPhase        FoodPhase            `json:"food_phase"`
	Slices           SliceEquivalents     `json:"slices"`
	Spar             *SparSliceTargets    `json:"spar,omitempty"`
}

// dayTracking is the response for GET /api/tracking/daily: the day's food
// log with computed aggregates, the day's targets, and compliance ratios.
// Compliance ratios are nil when the corresponding target is zero (nothing
// to comply with on a zero-water competition morning).
type dayTracking struct {
	Date             string             `json:"date"`
	CarbsConsumedG   float64            `json:"carbs_consumed_g"`
	ProteinConsumedG float64            `json:"protein_consumed_g"`
	WaterConsumedOz  float64            `json:"water_consumed_oz"`
	SliceCounts      map[string]float64 `json:"slice_counts"`
	FoodLog          []foodLogEntry     `json:"food_log"`
	Targets          dayTargets         `json:"targets"`
	FoodCompliance   *float64           `json:"food_compliance"`
	WaterCompliance  *float64           `json:"water_compliance"`
}

// targetsPreviewRequest is the DB-free body for POST /api/targets/preview:
// a profile snapshot plus the day index, so a client (or a test) can ask
// "what would the plan be" without touching stored state.
type targetsPreviewRequest struct {
	CurrentWeight    float64  `json:"current_weight_lbs"`
	WeightClass      int      `json:"weight_class_lbs"`
	Protocol         string   `json:"protocol"`
	DaysUntilWeighIn int      `json:"days_until_weigh_in"`
	Sex              *string  `json:"sex"`
	Age              *int     `json:"age"`
	HeightCM         *float64 `json:"height_cm"`
	ActivityLevel    *string  `json:"activity_level"`
	WeeklyGoal       *string  `json:"weekly_goal"`
}

// shareSnapshot is the read-only view behind a share link.
type shareSnapshot struct {
	Username         string          `json:"username"`
	WeightClass      int             `json:"weight_class_lbs"`
	Protocol         Protocol        `json:"protocol"`
	DaysUntilWeighIn *int            `json:"days_until_weigh_in"`
	LatestWeight     *weightEntry    `json:"latest_weight"`
	CutScore         *CutScoreResult `json:"cut_score"`
}
