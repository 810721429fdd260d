package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

func baselineFeatures() *types.MatchFeatures {
	return &types.MatchFeatures{
		FixtureID: 100,
		XG: types.ExpectedGoalsMetrics{
			Home:       1.5,
			Away:       1.2,
			TotalGoals: 2.7,
		},
		HomeForm:    types.FormMetrics{Last5Points: 9, FormString: "WWDLD"},
		AwayForm:    types.FormMetrics{Last5Points: 7, FormString: "WDDLW"},
		HeadToHead:  types.HeadToHeadMetrics{TotalMatches: 5, HomeWins: 3, Draws: 1, AwayWins: 1},
		Venue:       types.VenueMetrics{HomeAdvantageScore: 6.5},
		DataQuality: types.DataQuality{Completeness: 100},
	}
}

func TestPredictProbabilitiesSumToOne(t *testing.T) {
	p := Predict(baselineFeatures())

	sum := p.Probabilities.Home + p.Probabilities.Draw + p.Probabilities.Away
	assert.InDelta(t, 1.0, sum, 0.002)
	assert.Greater(t, p.Probabilities.Home, 0.0)
	assert.Greater(t, p.Probabilities.Draw, 0.0)
	assert.Greater(t, p.Probabilities.Away, 0.0)
}

func TestPredictFavorsStrongerSide(t *testing.T) {
	features := baselineFeatures()
	features.XG.Home = 2.4
	features.XG.Away = 0.7

	p := Predict(features)

	assert.Equal(t, OutcomeHomeWin, p.Outcome)
	assert.Equal(t, p.Probabilities.Home, p.Confidence)
	assert.Greater(t, p.Probabilities.Home, p.Probabilities.Away)
}

func TestPredictAwayWin(t *testing.T) {
	features := baselineFeatures()
	features.XG.Home = 0.6
	features.XG.Away = 2.3
	features.HomeForm.Last5Points = 3
	features.AwayForm.Last5Points = 13
	features.HeadToHead = types.HeadToHeadMetrics{TotalMatches: 4, AwayWins: 3, Draws: 1}

	p := Predict(features)

	assert.Equal(t, OutcomeAwayWin, p.Outcome)
	assert.Equal(t, p.Probabilities.Away, p.Confidence)
}

func TestPredictDeterministic(t *testing.T) {
	assert.Equal(t, Predict(baselineFeatures()), Predict(baselineFeatures()))
}

func TestPredictMarkets(t *testing.T) {
	p := Predict(baselineFeatures())

	assert.Equal(t, 50.6, p.Markets.Over25)
	assert.Equal(t, 49.4, p.Markets.Under25)
	assert.Equal(t, 54.3, p.Markets.BTTS)
}

func TestPredictMarketSentimentNudge(t *testing.T) {
	neutral := Predict(baselineFeatures())

	backed := baselineFeatures()
	backed.Market = &types.MarketMetrics{Sentiment: types.SentimentHome}
	nudged := Predict(backed)

	assert.Greater(t, nudged.Probabilities.Home, neutral.Probabilities.Home)
	assert.Less(t, nudged.Probabilities.Away, neutral.Probabilities.Away)
}

func TestPredictKeyFactors(t *testing.T) {
	features := baselineFeatures()
	features.XG.Differential = 0.9
	features.AwayInjury = types.InjuryImpact{KeyPlayersOut: 2, ImpactScore: 3.5}

	p := Predict(features)

	require.NotEmpty(t, p.KeyFactors)
	assert.LessOrEqual(t, len(p.KeyFactors), 5)

	names := make([]string, 0, len(p.KeyFactors))
	for _, f := range p.KeyFactors {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "xG Advantage")
	assert.Contains(t, names, "Home Advantage")
	assert.Contains(t, names, "Injury Impact")
}

func TestPredictCarriesDataQuality(t *testing.T) {
	features := baselineFeatures()
	features.DataQuality.Completeness = 80

	p := Predict(features)

	assert.Equal(t, 80.0, p.DataQuality)
	assert.Equal(t, int64(100), p.FixtureID)
	assert.Equal(t, 1.5, p.ExpectedGoals.Home)
	assert.Equal(t, 1.2, p.ExpectedGoals.Away)
}
