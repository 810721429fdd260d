// Package predictor turns a MatchFeatures bundle into win/draw/loss and
// goals-market probabilities. It is a closed-form statistical model: a
// Poisson scoreline matrix built from the bundle's expected goals, nudged by
// the softer signals (form, head-to-head, market sentiment). No training, no
// calibration, no persisted state.
package predictor

import (
	"math"

	"github.com/Scardubu/FootballForecast-sub006/internal/engine"
	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// Scoreline matrix bound. Probability mass beyond nine goals a side is
// negligible at football lambdas.
const maxGoals = 10

// Signal nudge weights applied on top of the Poisson baseline.
const (
	formPointWeight     = 0.005
	h2hAdvantageWeight  = 0.05
	marketSentimentBump = 0.02
)

// Outcome labels.
const (
	OutcomeHomeWin = "home_win"
	OutcomeDraw    = "draw"
	OutcomeAwayWin = "away_win"
)

// Probabilities holds the three-way outcome split, as fractions summing to 1.
type Probabilities struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Markets holds goals-market percentages derived from the same lambdas.
type Markets struct {
	Over25  float64 `json:"over_2_5_goals"`
	Under25 float64 `json:"under_2_5_goals"`
	BTTS    float64 `json:"both_teams_score"`
}

// KeyFactor explains one signal's contribution to the prediction.
type KeyFactor struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Impact      string  `json:"impact"`
	Description string  `json:"description"`
}

// Prediction is the downstream-facing result for one fixture.
type Prediction struct {
	FixtureID     int64         `json:"fixture_id"`
	Outcome       string        `json:"predicted_outcome"`
	Probabilities Probabilities `json:"probabilities"`
	Confidence    float64       `json:"confidence"`
	ExpectedGoals struct {
		Home float64 `json:"home"`
		Away float64 `json:"away"`
	} `json:"expected_goals"`
	Markets     Markets     `json:"additional_markets"`
	KeyFactors  []KeyFactor `json:"key_factors"`
	DataQuality float64     `json:"data_quality"`
}

// Predict derives outcome and market probabilities from a feature bundle.
// Deterministic: the same bundle always produces the same prediction.
func Predict(features *types.MatchFeatures) *Prediction {
	probs := outcomeProbabilities(features.XG.Home, features.XG.Away)
	probs = applySignalNudges(probs, features)

	p := &Prediction{
		FixtureID:     features.FixtureID,
		Probabilities: probs,
		DataQuality:   features.DataQuality.Completeness,
	}
	p.ExpectedGoals.Home = features.XG.Home
	p.ExpectedGoals.Away = features.XG.Away

	switch {
	case probs.Home >= probs.Draw && probs.Home >= probs.Away:
		p.Outcome, p.Confidence = OutcomeHomeWin, probs.Home
	case probs.Away >= probs.Draw:
		p.Outcome, p.Confidence = OutcomeAwayWin, probs.Away
	default:
		p.Outcome, p.Confidence = OutcomeDraw, probs.Draw
	}

	over := engine.Over25Probability(features.XG.TotalGoals)
	p.Markets = Markets{
		Over25:  over,
		Under25: round1(100 - over),
		BTTS:    engine.BTTSProbability(features.XG.Home, features.XG.Away),
	}

	p.KeyFactors = keyFactors(features)
	return p
}

// outcomeProbabilities builds the Poisson scoreline matrix as the outer
// product of the two goal distributions and sums the lower triangle (home
// win), diagonal (draw) and upper triangle (away win).
func outcomeProbabilities(homeXG, awayXG float64) Probabilities {
	homePMF := poissonPMF(homeXG)
	awayPMF := poissonPMF(awayXG)

	var probs Probabilities
	for h := 0; h < maxGoals; h++ {
		for a := 0; a < maxGoals; a++ {
			cell := homePMF[h] * awayPMF[a]
			switch {
			case h > a:
				probs.Home += cell
			case h == a:
				probs.Draw += cell
			default:
				probs.Away += cell
			}
		}
	}
	return normalize(probs)
}

func poissonPMF(lambda float64) [maxGoals]float64 {
	var pmf [maxGoals]float64
	p := math.Exp(-lambda)
	for k := 0; k < maxGoals; k++ {
		pmf[k] = p
		p *= lambda / float64(k+1)
	}
	return pmf
}

// applySignalNudges shifts the baseline split by the softer signals, then
// renormalises. The nudges are deliberately small: the Poisson matrix carries
// the bulk of the information.
func applySignalNudges(probs Probabilities, features *types.MatchFeatures) Probabilities {
	formDelta := float64(features.HomeForm.Last5Points-features.AwayForm.Last5Points) * formPointWeight
	probs.Home += formDelta
	probs.Away -= formDelta

	if features.HeadToHead.TotalMatches > 0 {
		h2hDelta := float64(features.HeadToHead.HomeWins-features.HeadToHead.AwayWins) /
			float64(features.HeadToHead.TotalMatches) * h2hAdvantageWeight
		probs.Home += h2hDelta
		probs.Away -= h2hDelta
	}

	if features.Market != nil {
		switch features.Market.Sentiment {
		case types.SentimentHome:
			probs.Home += marketSentimentBump
			probs.Away -= marketSentimentBump
		case types.SentimentAway:
			probs.Away += marketSentimentBump
			probs.Home -= marketSentimentBump
		}
	}

	probs.Home = clamp01(probs.Home)
	probs.Draw = clamp01(probs.Draw)
	probs.Away = clamp01(probs.Away)
	return normalize(probs)
}

func keyFactors(features *types.MatchFeatures) []KeyFactor {
	var factors []KeyFactor

	if diff := features.XG.Differential; math.Abs(diff) > 0.1 {
		factors = append(factors, KeyFactor{
			Name:        "xG Advantage",
			Value:       diff,
			Impact:      impactLabel(diff),
			Description: "Expected goals differential between the sides",
		})
	}

	if delta := features.HomeForm.Last5Points - features.AwayForm.Last5Points; delta != 0 {
		factors = append(factors, KeyFactor{
			Name:        "Recent Form",
			Value:       float64(delta),
			Impact:      impactLabel(float64(delta)),
			Description: "Points difference over the last five matches",
		})
	}

	if h2h := features.HeadToHead; h2h.TotalMatches > 0 {
		adv := float64(h2h.HomeWins-h2h.AwayWins) / float64(h2h.TotalMatches)
		if math.Abs(adv) > 0.1 {
			factors = append(factors, KeyFactor{
				Name:        "Head-to-Head",
				Value:       round2(adv),
				Impact:      impactLabel(adv),
				Description: "Historical meetings between the sides",
			})
		}
	}

	if score := features.Venue.HomeAdvantageScore; score > 5 {
		factors = append(factors, KeyFactor{
			Name:        "Home Advantage",
			Value:       score,
			Impact:      "Positive",
			Description: "Home side's record at its own ground",
		})
	}

	if injDelta := features.AwayInjury.ImpactScore - features.HomeInjury.ImpactScore; math.Abs(injDelta) >= 1 {
		factors = append(factors, KeyFactor{
			Name:        "Injury Impact",
			Value:       round2(injDelta),
			Impact:      impactLabel(injDelta),
			Description: "Relative availability of key players",
		})
	}

	if len(factors) > 5 {
		factors = factors[:5]
	}
	return factors
}

func impactLabel(v float64) string {
	if v > 0 {
		return "Positive"
	}
	return "Negative"
}

func normalize(p Probabilities) Probabilities {
	total := p.Home + p.Draw + p.Away
	if total <= 0 {
		return Probabilities{Home: 0.45, Draw: 0.25, Away: 0.30}
	}
	return Probabilities{
		Home: round3(p.Home / total),
		Draw: round3(p.Draw / total),
		Away: round3(p.Away / total),
	}
}

func clamp01(x float64) float64 {
	return math.Max(0.01, math.Min(0.99, x))
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
