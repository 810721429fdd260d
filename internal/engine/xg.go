package engine

import (
	"math"

	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// LeagueAvgGoals is the average goals per team per match across the supported
// competitions. Attack and defense strengths are normalised against it.
const LeagueAvgGoals = 2.7

const (
	// Poisson strength floor: zero or negative historical averages clamp to
	// 0.5 instead of raising.
	minStrength = 0.5

	// Multiplier applied to the home side's expected goals when the fixture
	// is played at its own ground.
	homeVenueBoost = 1.15
)

// TeamRates carries a side's scoring averages per game, the only inputs the
// Poisson model needs.
type TeamRates struct {
	GoalsPerGame         float64 `json:"goals_per_game"`
	GoalsConcededPerGame float64 `json:"goals_conceded_per_game"`
}

// DefaultTeamRates is the input default for a team with no match history.
func DefaultTeamRates() TeamRates {
	return TeamRates{GoalsPerGame: 1.5, GoalsConcededPerGame: 1.5}
}

// strength converts a per-game goal average into a relative strength.
func strength(x float64) float64 {
	if x <= 0 {
		return minStrength
	}
	return x / LeagueAvgGoals
}

// EstimateExpectedGoals runs the Poisson attack/defense strength model.
// Rounding is applied only at the output boundary; all derived quantities are
// computed from the unrounded lambdas so they stay consistent.
func EstimateExpectedGoals(home, away TeamRates, isHomeGround bool) types.ExpectedGoalsMetrics {
	venueBoost := 1.0
	if isHomeGround {
		venueBoost = homeVenueBoost
	}

	homeXG := strength(home.GoalsPerGame) * strength(away.GoalsConcededPerGame) * LeagueAvgGoals * venueBoost
	awayXG := strength(away.GoalsPerGame) * strength(home.GoalsConcededPerGame) * LeagueAvgGoals

	return types.ExpectedGoalsMetrics{
		Home:               round2(homeXG),
		Away:               round2(awayXG),
		Differential:       round2(homeXG - awayXG),
		TotalGoals:         round2(homeXG + awayXG),
		HomeCleanSheetProb: round1(math.Exp(-awayXG) * 100),
		AwayCleanSheetProb: round1(math.Exp(-homeXG) * 100),
	}
}

// Over25Probability returns the percentage probability of three or more total
// goals: 100 * (1 - P(goals <= 2)) for a Poisson with lambda = totalXG.
func Over25Probability(totalXG float64) float64 {
	p0 := math.Exp(-totalXG)
	p1 := totalXG * p0
	p2 := totalXG * totalXG / 2 * p0
	return round1((1 - (p0 + p1 + p2)) * 100)
}

// BTTSProbability returns the percentage probability that both teams score,
// i.e. neither side records a clean sheet.
func BTTSProbability(homeXG, awayXG float64) float64 {
	csHome := math.Exp(-awayXG)
	csAway := math.Exp(-homeXG)
	return round1((1 - (csHome + csAway - csHome*csAway)) * 100)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
