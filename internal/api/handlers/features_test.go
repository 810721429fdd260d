package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scardubu/FootballForecast-sub006/internal/engine"
	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

type stubProvider struct {
	fixture *types.Fixture
	teams   map[int64]types.Team
}

func (p *stubProvider) GetFixture(_ context.Context, id int64) (*types.Fixture, error) {
	if p.fixture == nil || p.fixture.ID != id {
		return nil, types.ErrFixtureNotFound
	}
	return p.fixture, nil
}

func (p *stubProvider) GetTeam(_ context.Context, id int64) (*types.Team, error) {
	team, ok := p.teams[id]
	if !ok {
		return nil, types.ErrTeamNotFound
	}
	return &team, nil
}

func (p *stubProvider) GetFixtures(_ context.Context) ([]types.Fixture, error) {
	return nil, nil
}

type stubSignals struct{}

func (stubSignals) GetScrapedData(_ context.Context, _ types.SignalQuery) ([]types.ScrapedRecord, error) {
	return nil, nil
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	provider := &stubProvider{
		fixture: &types.Fixture{
			ID:         100,
			HomeTeamID: 1,
			AwayTeamID: 2,
			KickoffAt:  time.Now().Add(24 * time.Hour),
			Status:     "scheduled",
		},
		teams: map[int64]types.Team{
			1: {ID: 1, Name: "Home United"},
			2: {ID: 2, Name: "Away City"},
		},
	}
	extractor := engine.NewExtractor(provider, stubSignals{}, log)
	handler := NewFeatureHandler(extractor, nil, log)

	router := gin.New()
	router.GET("/api/v1/fixtures/:id/features", handler.GetMatchFeatures)
	router.GET("/api/v1/fixtures/:id/prediction", handler.GetMatchPrediction)
	return router
}

func TestGetMatchFeatures(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/fixtures/100/features", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var features types.MatchFeatures
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &features))
	assert.Equal(t, int64(100), features.FixtureID)
	require.NotNil(t, features.HomeTeam)
	assert.Equal(t, "Home United", features.HomeTeam.Name)
	assert.GreaterOrEqual(t, features.DataQuality.Completeness, 60.0)
}

func TestGetMatchFeaturesInvalidID(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/fixtures/not-a-number/features", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMatchFeaturesNotFound(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/fixtures/999/features", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMatchPrediction(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/fixtures/100/prediction", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 100, body["fixture_id"])
	assert.Contains(t, body, "predicted_outcome")
	assert.Contains(t, body, "probabilities")
}
