package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// createShareLink mints a read-only token for sharing the cut with a coach.
// POST /api/share. Re-posting just creates another token; each is revocable
// on its own.
func (h *Handler) createShareLink(c *gin.Context) {
	userID := c.GetInt("user_id")

	link, err := queryOne[shareLink](h, c,
		`INSERT INTO share_links (token, user_id) VALUES (@token, @userID)
		 RETURNING *`,
		pgx.NamedArgs{"token": uuid.NewString(), "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create share link")
		return
	}

	c.JSON(http.StatusCreated, link)
}

// revokeShareLink marks a share token revoked. Revoked tokens 404 on read —
// indistinguishable from never having existed.
// DELETE /api/share/:token.
func (h *Handler) revokeShareLink(c *gin.Context) {
	userID := c.GetInt("user_id")
	token := c.Param("token")

	result, err := h.db.Exec(c,
		`UPDATE share_links SET revoked_at = now()
		 WHERE token = @token AND user_id = @userID AND revoked_at IS NULL`,
		pgx.NamedArgs{"token": token, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to revoke share link")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "share link not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// getShareSnapshot returns the read-only view behind a share token: who,
// what class, how many days out, the latest reading, and the current score.
// GET /api/share/:token (public — no auth).
func (h *Handler) getShareSnapshot(c *gin.Context) {
	token := c.Param("token")

	var userID int
	var username string
	err := h.db.QueryRow(c,
		`SELECT u.id, u.username FROM share_links s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.token = $1 AND s.revoked_at IS NULL`, token).Scan(&userID, &username)
	if err != nil {
		apiError(c, http.StatusNotFound, "share link not found")
		return
	}

	p, err := queryOne[cutProfile](h, c,
		"SELECT * FROM cut_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	snapshot := shareSnapshot{
		Username:    username,
		WeightClass: p.WeightClass,
		Protocol:    p.Protocol,
	}

	asOf := asOfFor(p)
	if p.WeighInDate != nil {
		days := daysUntilWeighIn(p.WeighInDate.Time, asOf)
		snapshot.DaysUntilWeighIn = &days
	}

	latest, err := queryOne[weightEntry](h, c,
		`SELECT * FROM weight_log WHERE user_id = @userID
		 ORDER BY date DESC, recorded_at DESC LIMIT 1`,
		pgx.NamedArgs{"userID": userID})
	if err == nil {
		snapshot.LatestWeight = &latest
	}

	if input, err := h.assembleCutScoreInput(c, userID, p); err == nil {
		score := computeCutScore(input)
		snapshot.CutScore = &score
	}

	c.JSON(http.StatusOK, snapshot)
}
