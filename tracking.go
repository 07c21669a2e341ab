package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getDayTracking returns the day's food log, the aggregates computed over it,
// the day's targets, and the compliance ratios the score engine consumes.
// GET /api/tracking/daily?date=YYYY-MM-DD (defaults to the profile's "now").
// Aggregates are always recomputed from the entries — the log is the ground
// truth, so an edit or delete can never leave a stale total behind.
func (h *Handler) getDayTracking(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[cutProfile](h, c,
		"SELECT * FROM cut_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	asOf := asOfFor(p)
	date := c.DefaultQuery("date", asOf.Format("2006-01-02"))
	// Validate date format before querying — an invalid value silently returns no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entries, err := queryMany[foodLogEntry](h, c,
		`SELECT * FROM food_log_entries
		 WHERE user_id = @userID AND date = @date
		 ORDER BY logged_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch food log")
		return
	}
	// Ensure entries is an empty array (not null) in JSON
	if entries == nil {
		entries = []foodLogEntry{}
	}

	tracking := dayTracking{
		Date:        date,
		SliceCounts: map[string]float64{},
		FoodLog:     entries,
		Targets:     buildDayTargets(p, asOf),
	}
	for _, e := range entries {
		if e.CarbsG != nil {
			tracking.CarbsConsumedG += *e.CarbsG
		}
		if e.ProteinG != nil {
			tracking.ProteinConsumedG += *e.ProteinG
		}
		if e.WaterOz != nil {
			tracking.WaterConsumedOz += *e.WaterOz
		}
		if e.Slices != nil && e.Category != "water" {
			tracking.SliceCounts[e.Category] += *e.Slices
		}
	}

	// Compliance ratios against the day's targets (max end of the macro
	// range). Nil when the target is zero — no ratio against "eat nothing".
	macroTarget := float64(tracking.Targets.Macros.Carbs.Max + tracking.Targets.Macros.Protein.Max)
	if macroTarget > 0 {
		ratio := (tracking.CarbsConsumedG + tracking.ProteinConsumedG) / macroTarget
		tracking.FoodCompliance = &ratio
	}
	if tracking.Targets.WaterOz > 0 {
		ratio := tracking.WaterConsumedOz / float64(tracking.Targets.WaterOz)
		tracking.WaterCompliance = &ratio
	}

	c.JSON(http.StatusOK, tracking)
}

// createFoodLogEntry inserts a new food log entry.
// POST /api/tracking/food. Defaults date to the profile's "now" if omitted.
func (h *Handler) createFoodLogEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Date     string   `json:"date"`
		Name     string   `json:"name"`
		Category string   `json:"category"`
		CarbsG   *float64 `json:"carbs_g"`
		ProteinG *float64 `json:"protein_g"`
		WaterOz  *float64 `json:"water_oz"`
		Slices   *float64 `json:"slices"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	// Validate category against the enum; prevents a cryptic 500 from the DB constraint.
	if !validFoodCategories[body.Category] {
		apiError(c, http.StatusBadRequest, "category must be one of: protein, carb, veg, fruit, fat, water")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entry, err := queryOne[foodLogEntry](h, c,
		`INSERT INTO food_log_entries (user_id, date, name, category, carbs_g, protein_g, water_oz, slices)
		 VALUES (@userID, @date, @name, @category, @carbsG, @proteinG, @waterOz, @slices)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": body.Date, "name": body.Name,
			"category": body.Category, "carbsG": body.CarbsG,
			"proteinG": body.ProteinG, "waterOz": body.WaterOz, "slices": body.Slices,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create food log entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// updateFoodLogEntry updates an existing food log entry.
// PUT /api/tracking/food/:id. Uses COALESCE so omitted fields keep their current value.
func (h *Handler) updateFoodLogEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		Date     *string  `json:"date"`
		Name     *string  `json:"name"`
		Category *string  `json:"category"`
		CarbsG   *float64 `json:"carbs_g"`
		ProteinG *float64 `json:"protein_g"`
		WaterOz  *float64 `json:"water_oz"`
		Slices   *float64 `json:"slices"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Category != nil && !validFoodCategories[*body.Category] {
		apiError(c, http.StatusBadRequest, "unknown category")
		return
	}

	entry, err := queryOne[foodLogEntry](h, c,
		`UPDATE food_log_entries SET
			date      = COALESCE(@date, date),
			name      = COALESCE(@name, name),
			category  = COALESCE(@category, category),
			carbs_g   = COALESCE(@carbsG, carbs_g),
			protein_g = COALESCE(@proteinG, protein_g),
			water_oz  = COALESCE(@waterOz, water_oz),
			slices    = COALESCE(@slices, slices)
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID,
			"date": body.Date, "name": body.Name, "category": body.Category,
			"carbsG": body.CarbsG, "proteinG": body.ProteinG,
			"waterOz": body.WaterOz, "slices": body.Slices,
		})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "food log entry not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update food log entry")
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// deleteFoodLogEntry removes a food log entry. Returns 204 on success.
// DELETE /api/tracking/food/:id.
func (h *Handler) deleteFoodLogEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM food_log_entries WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete food log entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "food log entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// upsertCheckin creates or updates the morning check-in for a date.
// POST /api/tracking/checkin. The UNIQUE(user_id, date) constraint means
// posting the same date updates in place — re-syncing a wearable later in
// the morning just overwrites.
func (h *Handler) upsertCheckin(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Date          string   `json:"date"`
		SleepHours    *float64 `json:"sleep_hours"`
		BedTime       *string  `json:"bed_time"`
		WakeTime      *string  `json:"wake_time"`
		FeelRating    *int     `json:"feel_rating"`
		RecoveryScore *float64 `json:"recovery_score"`
		HRV           *float64 `json:"hrv"`
		RestingHR     *float64 `json:"resting_hr"`
		SleepScore    *float64 `json:"sleep_score"`
		Strain        *float64 `json:"strain"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if body.FeelRating != nil && (*body.FeelRating < 1 || *body.FeelRating > 5) {
		apiError(c, http.StatusBadRequest, "feel_rating must be between 1 and 5")
		return
	}

	row, err := queryOne[checkin](h, c,
		`INSERT INTO checkins (user_id, date, sleep_hours, bed_time, wake_time, feel_rating,
		                       recovery_score, hrv, resting_hr, sleep_score, strain)
		 VALUES (@userID, @date, @sleepHours, @bedTime, @wakeTime, @feelRating,
		         @recoveryScore, @hrv, @restingHR, @sleepScore, @strain)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			sleep_hours    = EXCLUDED.sleep_hours,
			bed_time       = EXCLUDED.bed_time,
			wake_time      = EXCLUDED.wake_time,
			feel_rating    = EXCLUDED.feel_rating,
			recovery_score = EXCLUDED.recovery_score,
			hrv            = EXCLUDED.hrv,
			resting_hr     = EXCLUDED.resting_hr,
			sleep_score    = EXCLUDED.sleep_score,
			strain         = EXCLUDED.strain
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": body.Date,
			"sleepHours": body.SleepHours, "bedTime": body.BedTime,
			"wakeTime": body.WakeTime, "feelRating": body.FeelRating,
			"recoveryScore": body.RecoveryScore, "hrv": body.HRV,
			"restingHR": body.RestingHR, "sleepScore": body.SleepScore,
			"strain": body.Strain,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save check-in")
		return
	}

	c.JSON(http.StatusOK, row)
}
