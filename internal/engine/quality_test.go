package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

func fullForm() types.FormMetrics {
	return types.FormMetrics{FormString: "WWDLW", Last5Points: 10}
}

func TestScoreQualityFullData(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h2h := types.HeadToHeadMetrics{TotalMatches: 5}

	q := ScoreQuality(fullForm(), fullForm(), h2h, now.Add(-2*time.Hour), now, []string{SourceForm, SourceXG})

	assert.Equal(t, 100.0, q.Completeness)
	assert.Equal(t, RecencyLive, q.Recency)
	assert.Equal(t, []string{SourceFixtures, SourceForm, SourceXG}, q.Sources)
}

func TestScoreQualityNoHeadToHead(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	q := ScoreQuality(fullForm(), fullForm(), types.HeadToHeadMetrics{}, now, now, nil)

	// Missing history costs 15, sparse history another 5.
	assert.Equal(t, 80.0, q.Completeness)
}

func TestScoreQualitySparseHeadToHead(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h2h := types.HeadToHeadMetrics{TotalMatches: 2}

	q := ScoreQuality(fullForm(), fullForm(), h2h, now, now, nil)

	assert.Equal(t, 95.0, q.Completeness)
}

func TestScoreQualityShortForm(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	short := types.FormMetrics{FormString: "WD"}
	h2h := types.HeadToHeadMetrics{TotalMatches: 5}

	q := ScoreQuality(short, fullForm(), h2h, now, now, nil)

	assert.Equal(t, 90.0, q.Completeness)
}

func TestScoreQualityNeverBelowFloor(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	short := types.FormMetrics{FormString: ""}

	q := ScoreQuality(short, short, types.HeadToHeadMetrics{}, time.Time{}, now, nil)

	assert.GreaterOrEqual(t, q.Completeness, 60.0)
	assert.LessOrEqual(t, q.Completeness, 100.0)
}

func TestRecencyLabels(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h2h := types.HeadToHeadMetrics{TotalMatches: 5}

	cases := []struct {
		name   string
		newest time.Time
		want   string
	}{
		{"unknown when no evidence", time.Time{}, RecencyUnknown},
		{"live within a day", now.Add(-3 * time.Hour), RecencyLive},
		{"recent within a week", now.AddDate(0, 0, -3), RecencyRecent},
		{"stale beyond a week", now.AddDate(0, 0, -20), RecencyStale},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := ScoreQuality(fullForm(), fullForm(), h2h, tc.newest, now, nil)
			assert.Equal(t, tc.want, q.Recency)
		})
	}
}
