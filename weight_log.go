package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getWeightLog returns weight entries for the authenticated user within [start, end].
// GET /api/weight-log?start=YYYY-MM-DD&end=YYYY-MM-DD&type=morning. Start/end
// required; type optional. Returns an empty array (not null) if no entries
// exist in the range.
func (h *Handler) getWeightLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")
	entryType := c.Query("type")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}
	if entryType != "" && !validEntryTypes[entryType] {
		apiError(c, http.StatusBadRequest, "unknown entry type")
		return
	}

	sql := `SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end`
	args := pgx.NamedArgs{"userID": userID, "start": start, "end": end}
	if entryType != "" {
		sql += " AND entry_type = @entryType"
		args["entryType"] = entryType
	}
	sql += " ORDER BY date ASC, recorded_at ASC"

	entries, err := queryMany[weightEntry](h, c, sql, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}
	// Ensure empty array (not null) in JSON
	if entries == nil {
		entries = []weightEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// createWeightEntry records a new weight reading and keeps the profile's
// current weight in step with it.
// POST /api/weight-log. Body: { "date", "entry_type", "weight_lbs" }.
// Readings are append-only: multiple same-day readings of the same type are
// all kept, and consumers resolve by recency.
func (h *Handler) createWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Date      string  `json:"date"`
		EntryType string  `json:"entry_type"`
		WeightLBS float64 `json:"weight_lbs"`
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
	if !validEntryTypes[body.EntryType] {
		apiError(c, http.StatusBadRequest, "entry_type must be one of: morning, post_practice, weigh_in, check_in, extra_workout_before, extra_workout_after, recovery")
		return
	}
	if body.WeightLBS <= 0 || body.WeightLBS > 9999.9 {
		apiError(c, http.StatusBadRequest, "weight_lbs must be between 0 and 9999.9")
		return
	}

	entry, err := queryOne[weightEntry](h, c,
		`INSERT INTO weight_log (user_id, date, entry_type, weight_lbs)
		 VALUES (@userID, @date, @entryType, @weightLBS)
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "date": body.Date, "entryType": body.EntryType, "weightLBS": body.WeightLBS})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create weight entry")
		return
	}

	// Best-effort: the profile's current weight tracks the newest reading.
	// Target computations read it as "where the athlete is right now".
	if _, err := h.db.Exec(c,
		"UPDATE cut_profiles SET current_weight_lbs = @w WHERE user_id = @userID",
		pgx.NamedArgs{"w": body.WeightLBS, "userID": userID}); err != nil {
		h.log.Warnw("failed to sync profile current weight", "err", err)
	}

	c.JSON(http.StatusCreated, entry)
}

// updateWeightEntry partially updates an existing weight entry.
// PUT /api/weight-log/:id. Body: { "date"?, "entry_type"?, "weight_lbs"? }.
// Uses COALESCE so omitted fields keep their current values.
func (h *Handler) updateWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		Date      *string  `json:"date"`
		EntryType *string  `json:"entry_type"`
		WeightLBS *float64 `json:"weight_lbs"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date != nil {
		if _, err := time.Parse("2006-01-02", *body.Date); err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}
	if body.EntryType != nil && !validEntryTypes[*body.EntryType] {
		apiError(c, http.StatusBadRequest, "unknown entry type")
		return
	}
	if body.WeightLBS != nil && (*body.WeightLBS <= 0 || *body.WeightLBS > 9999.9) {
		apiError(c, http.StatusBadRequest, "weight_lbs must be between 0 and 9999.9")
		return
	}

	entry, err := queryOne[weightEntry](h, c,
		`UPDATE weight_log SET
			date       = COALESCE(@date, date),
			entry_type = COALESCE(@entryType, entry_type),
			weight_lbs = COALESCE(@weightLBS, weight_lbs)
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{"id": id, "userID": userID, "date": body.Date, "entryType": body.EntryType, "weightLBS": body.WeightLBS})
	if err != nil {
		// Distinguish a missing row from a real DB failure so callers get an
		// actionable status code rather than a misleading 404.
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "weight entry not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update weight entry")
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// deleteWeightEntry removes a weight log entry by ID.
// DELETE /api/weight-log/:id. Returns 204 on success, 404 if not found.
// Ownership is enforced by requiring both id and user_id to match.
func (h *Handler) deleteWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM weight_log WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete weight entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "weight entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
