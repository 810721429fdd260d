package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

func TestDefaultForm(t *testing.T) {
	form := DefaultForm()

	assert.Equal(t, "WDWDL", form.FormString)
	assert.Equal(t, 7, form.Last5Points)
	assert.Equal(t, 5, form.GoalsScored)
	assert.Equal(t, 5, form.GoalsConceded)
	assert.Equal(t, 0, form.GoalDifference)
	assert.Equal(t, types.TrendStable, form.Trend)
	assert.Equal(t, 40.0, form.WinRate)
}

func TestComputeFormEmptyHistory(t *testing.T) {
	assert.Equal(t, DefaultForm(), ComputeForm(nil, 1))
}

func TestComputeFormAllWins(t *testing.T) {
	kickoff := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	var matches []types.Fixture
	for i := 0; i < 5; i++ {
		matches = append(matches, settledFixture(int64(i+1), 1, 2, 2, 0, kickoff.AddDate(0, 0, -7*i)))
	}

	form := ComputeForm(matches, 1)

	assert.Equal(t, "WWWWW", form.FormString)
	assert.Equal(t, 15, form.Last5Points)
	assert.Equal(t, 10, form.GoalsScored)
	assert.Equal(t, 0, form.GoalsConceded)
	assert.Equal(t, 10, form.GoalDifference)
	assert.Equal(t, types.TrendImproving, form.Trend)
	assert.Equal(t, 100.0, form.WinRate)
}

func TestComputeFormAllLosses(t *testing.T) {
	kickoff := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	var matches []types.Fixture
	for i := 0; i < 5; i++ {
		matches = append(matches, settledFixture(int64(i+1), 1, 2, 0, 3, kickoff.AddDate(0, 0, -7*i)))
	}

	form := ComputeForm(matches, 1)

	assert.Equal(t, "LLLLL", form.FormString)
	assert.Equal(t, 0, form.Last5Points)
	assert.Equal(t, types.TrendDeclining, form.Trend)
	assert.Equal(t, 0.0, form.WinRate)
}

func TestComputeFormCountsAwayResults(t *testing.T) {
	kickoff := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	// Team 1 away, winning 0-2.
	matches := []types.Fixture{
		settledFixture(1, 2, 1, 0, 2, kickoff),
		settledFixture(2, 2, 1, 1, 1, kickoff.AddDate(0, 0, -7)),
		settledFixture(3, 2, 1, 2, 0, kickoff.AddDate(0, 0, -14)),
	}

	form := ComputeForm(matches, 1)

	assert.Equal(t, "WDL", form.FormString)
	assert.Equal(t, 4, form.Last5Points)
	assert.Equal(t, 3, form.GoalsScored)
	assert.Equal(t, 3, form.GoalsConceded)
	assert.InDelta(t, 33.3, form.WinRate, 0.01)
}

func TestComputeFormFewerThanThreeMatchesIsStable(t *testing.T) {
	kickoff := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	matches := []types.Fixture{
		settledFixture(1, 1, 2, 3, 0, kickoff),
		settledFixture(2, 1, 2, 3, 0, kickoff.AddDate(0, 0, -7)),
	}

	form := ComputeForm(matches, 1)

	assert.Equal(t, "WW", form.FormString)
	assert.Equal(t, types.TrendStable, form.Trend)
}

func TestComputeFormTruncatesToFiveMatches(t *testing.T) {
	kickoff := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	var matches []types.Fixture
	for i := 0; i < 8; i++ {
		matches = append(matches, settledFixture(int64(i+1), 1, 2, 1, 0, kickoff.AddDate(0, 0, -7*i)))
	}

	form := ComputeForm(matches, 1)

	assert.Len(t, form.FormString, 5)
	assert.Equal(t, 15, form.Last5Points)
	assert.Equal(t, 5, form.GoalsScored)
}

func TestClassifyTrendRecencyWeighting(t *testing.T) {
	// Recent results dominate: wins up front read as improving, losses up
	// front as declining, regardless of the older tail.
	assert.Equal(t, types.TrendImproving, classifyTrend([]int{3, 3, 3, 0, 0}))
	assert.Equal(t, types.TrendDeclining, classifyTrend([]int{0, 0, 0, 3, 3}))
	assert.Equal(t, types.TrendStable, classifyTrend([]int{1, 1, 3, 1, 1}))
}
