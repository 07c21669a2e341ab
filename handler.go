package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Handler holds shared dependencies (db pool, logger) for all route handlers.
type Handler struct {
	db  *pgxpool.Pool
	log *zap.SugaredLogger
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](h *Handler, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := h.db.Query(c, sql, args)
	if err != nil {
		h.log.Errorw("queryOne query failed", "err", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && err != pgx.ErrNoRows {
		h.log.Errorw("queryOne scan failed", "err", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](h *Handler, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := h.db.Query(c, sql, args)
	if err != nil {
		h.log.Errorw("queryMany query failed", "err", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		h.log.Errorw("queryMany scan failed", "err", err)
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn)
// because Neon closes idle connections after ~5 minutes.
func getDBPool(log *zap.SugaredLogger) *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		log.Fatalw("unable to parse DB URL", "err", err)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from Neon's server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatalw("unable to connect to database", "err", err)
	}
	log.Info("DB pool ready")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)
	router.GET("/api/share/:token", h.getShareSnapshot)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)

	api.GET("/weight-log", h.getWeightLog)
	api.POST("/weight-log", h.createWeightEntry)
	api.PUT("/weight-log/:id", h.updateWeightEntry)
	api.DELETE("/weight-log/:id", h.deleteWeightEntry)

	api.GET("/tracking/daily", h.getDayTracking)
	api.POST("/tracking/food", h.createFoodLogEntry)
	api.PUT("/tracking/food/:id", h.updateFoodLogEntry)
	api.DELETE("/tracking/food/:id", h.deleteFoodLogEntry)
	api.POST("/tracking/checkin", h.upsertCheckin)

	api.GET("/targets", h.getDayTargets)
	api.POST("/targets/preview", h.previewDayTargets)
	api.GET("/rehydration", h.getRehydration)

	api.GET("/cut-score", h.getCutScore)
	api.POST("/cut-score/preview", h.previewCutScore)

	api.POST("/share", h.createShareLink)
	api.DELETE("/share/:token", h.revokeShareLink)
}
