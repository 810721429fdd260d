package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Scardubu/FootballForecast-sub006/internal/engine"
	"github.com/Scardubu/FootballForecast-sub006/internal/predictor"
	"github.com/Scardubu/FootballForecast-sub006/internal/services"
	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// FeatureHandler serves extracted feature bundles and the statistical
// predictions derived from them.
type FeatureHandler struct {
	extractor *engine.Extractor
	cache     *services.FeatureCache
	logger    *logrus.Logger
}

func NewFeatureHandler(extractor *engine.Extractor, cache *services.FeatureCache, logger *logrus.Logger) *FeatureHandler {
	return &FeatureHandler{extractor: extractor, cache: cache, logger: logger}
}

// GetMatchFeatures handles GET /api/v1/fixtures/:id/features.
func (h *FeatureHandler) GetMatchFeatures(c *gin.Context) {
	features, ok := h.features(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, features)
}

// GetMatchPrediction handles GET /api/v1/fixtures/:id/prediction.
func (h *FeatureHandler) GetMatchPrediction(c *gin.Context) {
	features, ok := h.features(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, predictor.Predict(features))
}

// features resolves the fixture's bundle, consulting the cache first. On
// failure it writes the error response and returns ok=false.
func (h *FeatureHandler) features(c *gin.Context) (*types.MatchFeatures, bool) {
	fixtureID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fixture id"})
		return nil, false
	}

	if h.cache != nil {
		if cached := h.cache.Get(c.Request.Context(), fixtureID); cached != nil {
			return cached, true
		}
	}

	features, err := h.extractor.Extract(c.Request.Context(), fixtureID)
	if err != nil {
		if errors.Is(err, types.ErrFixtureNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "fixture not found"})
			return nil, false
		}
		h.logger.WithError(err).WithField("fixture_id", fixtureID).Error("Feature extraction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "feature extraction failed"})
		return nil, false
	}

	if h.cache != nil {
		h.cache.Set(c.Request.Context(), features)
	}
	return features, true
}
