package engine

import (
	"strings"

	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// Fixed default form returned for a team with no completed history. The
// values never vary so a defaulted bundle is diagnosable in tests.
const (
	defaultFormString  = "WDWDL"
	defaultFormPoints  = 7
	defaultFormGoals   = 5
	defaultFormWinRate = 40.0
)

// Trend classification weights, keyed to recency: the most recent match gets
// weight 5. With fewer than five matches the matching prefix is used.
var trendWeights = [5]float64{5, 4, 3, 2, 1}

const (
	trendImprovingAbove = 0.3
	trendDecliningBelow = -0.3
	trendMinMatches     = 3
)

// DefaultForm returns the fixed form metrics used when a team has no
// completed match history.
func DefaultForm() types.FormMetrics {
	return types.FormMetrics{
		Last5Points:    defaultFormPoints,
		GoalsScored:    defaultFormGoals,
		GoalsConceded:  defaultFormGoals,
		GoalDifference: 0,
		Trend:          types.TrendStable,
		FormString:     defaultFormString,
		WinRate:        defaultFormWinRate,
	}
}

// ComputeForm summarises up to the five most recent completed results for a
// team, most recent first. Empty input yields the fixed default.
func ComputeForm(matches []types.Fixture, teamID int64) types.FormMetrics {
	if len(matches) == 0 {
		return DefaultForm()
	}
	if len(matches) > formHistoryLimit {
		matches = matches[:formHistoryLimit]
	}

	var (
		form     strings.Builder
		points   int
		wins     int
		scored   int
		conceded int
		perMatch []int
	)

	for _, m := range matches {
		gf := m.GoalsFor(teamID)
		ga := m.GoalsAgainst(teamID)
		scored += gf
		conceded += ga

		switch {
		case gf > ga:
			form.WriteByte('W')
			points += 3
			wins++
			perMatch = append(perMatch, 3)
		case gf == ga:
			form.WriteByte('D')
			points++
			perMatch = append(perMatch, 1)
		default:
			form.WriteByte('L')
			perMatch = append(perMatch, 0)
		}
	}

	return types.FormMetrics{
		Last5Points:    points,
		GoalsScored:    scored,
		GoalsConceded:  conceded,
		GoalDifference: scored - conceded,
		Trend:          classifyTrend(perMatch),
		FormString:     form.String(),
		WinRate:        round1(float64(wins) / float64(len(matches)) * 100),
	}
}

// classifyTrend weights per-match points by recency, normalises the weighted
// average to -1..1 around the 1.5 points-per-match baseline, and classifies.
// Fewer than three matches is always stable: too short a history to call a
// direction.
func classifyTrend(perMatch []int) string {
	if len(perMatch) < trendMinMatches {
		return types.TrendStable
	}

	var weighted, totalWeight float64
	for i, pts := range perMatch {
		weighted += trendWeights[i] * float64(pts)
		totalWeight += trendWeights[i]
	}

	score := (weighted/totalWeight - 1.5) / 1.5
	switch {
	case score > trendImprovingAbove:
		return types.TrendImproving
	case score < trendDecliningBelow:
		return types.TrendDeclining
	default:
		return types.TrendStable
	}
}
