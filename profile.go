package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getProfile returns the athlete's cut profile.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[cutProfile](h, c,
		"SELECT * FROM cut_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	c.JSON(http.StatusOK, p)
}

// patchProfile updates only the provided profile fields.
// PATCH /api/profile. Uses pointer fields in the request body to distinguish
// "not provided" from zero — only non-nil fields get updated. Enum-like
// fields are validated against their validity maps before saving; a bad
// protocol or activity level silently breaks every downstream target
// computation with no visible error.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.Protocol != nil && !validProtocols[Protocol(*body.Protocol)] {
		apiError(c, http.StatusBadRequest, "protocol must be one of: aggressive, weekly, optimal, build, spar")
		return
	}
	if body.WeightClass != nil && !validWeightClasses[*body.WeightClass] {
		apiError(c, http.StatusBadRequest, "weight_class_lbs must be a recognized competition class")
		return
	}
	if body.ActivityLevel != nil {
		if _, ok := activityMultipliers[*body.ActivityLevel]; !ok {
			apiError(c, http.StatusBadRequest, "activity_level must be one of: sedentary, light, moderate, active, very_active")
			return
		}
	}
	if body.WeeklyGoal != nil {
		if _, ok := goalCalorieAdjustments[*body.WeeklyGoal]; !ok {
			apiError(c, http.StatusBadRequest, "weekly_goal must be one of: cut, maintain, build")
			return
		}
	}
	if body.CurrentWeight != nil && (*body.CurrentWeight <= 0 || *body.CurrentWeight > 9999.9) {
		apiError(c, http.StatusBadRequest, "current_weight_lbs must be between 0 and 9999.9")
		return
	}
	for _, d := range []*string{body.WeighInDate, body.SimulatedDate, body.DateOfBirth} {
		if d != nil {
			if _, err := time.Parse("2006-01-02", *d); err != nil {
				apiError(c, http.StatusBadRequest, "dates must be YYYY-MM-DD")
				return
			}
		}
	}
	if body.WeighInTime != nil {
		if _, err := time.Parse("15:04", *body.WeighInTime); err != nil {
			apiError(c, http.StatusBadRequest, "weigh_in_time must be HH:MM")
			return
		}
	}

	// Build SET clause dynamically — only update fields the client actually sent.
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	if body.CurrentWeight != nil {
		setClauses = append(setClauses, "current_weight_lbs = @currentWeight")
		args["currentWeight"] = *body.CurrentWeight
	}
	if body.WeightClass != nil {
		setClauses = append(setClauses, "weight_class_lbs = @weightClass")
		args["weightClass"] = *body.WeightClass
	}
	if body.Protocol != nil {
		setClauses = append(setClauses, "protocol = @protocol")
		args["protocol"] = *body.Protocol
	}
	if body.WeighInDate != nil {
		setClauses = append(setClauses, "weigh_in_date = @weighInDate")
		args["weighInDate"] = *body.WeighInDate
	}
	if body.WeighInTime != nil {
		setClauses = append(setClauses, "weigh_in_time = @weighInTime")
		args["weighInTime"] = *body.WeighInTime
	}
	if body.SimulatedDate != nil {
		setClauses = append(setClauses, "simulated_date = @simulatedDate")
		args["simulatedDate"] = *body.SimulatedDate
	}
	if body.ClearSimulated != nil && *body.ClearSimulated {
		setClauses = append(setClauses, "simulated_date = NULL")
	}
	if body.Sex != nil {
		setClauses = append(setClauses, "sex = @sex")
		args["sex"] = *body.Sex
	}
	if body.DateOfBirth != nil {
		setClauses = append(setClauses, "date_of_birth = @dateOfBirth")
		args["dateOfBirth"] = *body.DateOfBirth
	}
	if body.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = @heightCM")
		args["heightCM"] = *body.HeightCM
	}
	if body.ActivityLevel != nil {
		setClauses = append(setClauses, "activity_level = @activityLevel")
		args["activityLevel"] = *body.ActivityLevel
	}
	if body.WeeklyGoal != nil {
		setClauses = append(setClauses, "weekly_goal = @weeklyGoal")
		args["weeklyGoal"] = *body.WeeklyGoal
	}
	if body.DailyLossCapacity != nil {
		setClauses = append(setClauses, "daily_loss_capacity_lbs = @dailyLossCapacity")
		args["dailyLossCapacity"] = *body.DailyLossCapacity
	}
	if body.SetupComplete != nil {
		setClauses = append(setClauses, "setup_complete = @setupComplete")
		args["setupComplete"] = *body.SetupComplete
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	sql := "UPDATE cut_profiles SET " + strings.Join(setClauses, ", ") +
		" WHERE user_id = @userID RETURNING *"
	p, err := queryOne[cutProfile](h, c, sql, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, p)
}
