package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Scardubu/FootballForecast-sub006/internal/services"
	"github.com/Scardubu/FootballForecast-sub006/internal/storage"
	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// HealthHandler reports process liveness and dependency readiness.
type HealthHandler struct {
	db        *storage.DB
	signals   *services.GuardedSignalStore
	refresher *services.FeatureRefresher
	logger    *logrus.Logger
	startedAt time.Time
}

func NewHealthHandler(db *storage.DB, signals *services.GuardedSignalStore, refresher *services.FeatureRefresher, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		signals:   signals,
		refresher: refresher,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// GetHealth handles GET /health. It answers as long as the process is up.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "feature-engine",
		"uptime":    time.Since(h.startedAt).String(),
		"timestamp": time.Now().UTC(),
	})
}

// GetReady handles GET /ready. Readiness requires a reachable database; the
// signal sources and refresher are reported but never fail the check, since
// the engine degrades to defaults without them.
func (h *HealthHandler) GetReady(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "connected"
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("Readiness check failed: database unreachable")
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	breakers := gin.H{}
	if h.signals != nil {
		for _, dataType := range []string{types.SignalInjuries, types.SignalOdds, types.SignalWeather} {
			breakers[dataType] = h.signals.State(dataType).String()
		}
	}

	body := gin.H{
		"status":   "ready",
		"database": dbStatus,
		"breakers": breakers,
	}
	if h.refresher != nil {
		body["refresher"] = h.refresher.Status()
	}
	if status != http.StatusOK {
		body["status"] = "not_ready"
	}
	c.JSON(status, body)
}
