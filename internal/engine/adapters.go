package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// Neutral head-to-head default for sides that have never met. The 33 is an
// intentional literal, not a recomputed 100/3.
const defaultH2HWinRate = 33.0

// DefaultHeadToHead returns the fixed neutral metrics used when there is no
// meeting history between the two sides.
func DefaultHeadToHead() types.HeadToHeadMetrics {
	return types.HeadToHeadMetrics{HomeWinRate: defaultH2HWinRate}
}

// HeadToHead summarises up to the last ten settled meetings, most recent
// first. Wins are counted for the current fixture's home team regardless of
// where the historical meeting was played.
func HeadToHead(meetings []types.Fixture, homeID int64) types.HeadToHeadMetrics {
	if len(meetings) == 0 {
		return DefaultHeadToHead()
	}
	if len(meetings) > h2hHistoryLimit {
		meetings = meetings[:h2hHistoryLimit]
	}

	m := types.HeadToHeadMetrics{TotalMatches: len(meetings)}
	for _, f := range meetings {
		gf := f.GoalsFor(homeID)
		ga := f.GoalsAgainst(homeID)
		switch {
		case gf > ga:
			m.HomeWins++
		case gf == ga:
			m.Draws++
		default:
			m.AwayWins++
		}
	}

	last := meetings[0]
	date := last.KickoffAt
	m.LastMeetingDate = &date
	m.LastMeetingScore = fmt.Sprintf("%d-%d", *last.HomeGoals, *last.AwayGoals)
	m.HomeWinRate = round1(float64(m.HomeWins) / float64(m.TotalMatches) * 100)
	return m
}

// Venue advantage blend weights: win rate carries six of the ten points,
// scoring rate the remaining four (a three-goal home average saturates it).
const (
	venueWinRateWeight = 6.0
	venueScoringWeight = 4.0
	venueScoringCapAt  = 3.0
)

// DefaultVenue returns the neutral venue metrics used when the home side has
// no settled home history.
func DefaultVenue() types.VenueMetrics {
	return types.VenueMetrics{
		HomeWinRate:        50,
		AverageHomeGoals:   1.5,
		HomeAdvantageScore: 5,
	}
}

// VenueAdvantage summarises the home side's record at its own ground over up
// to its last ten settled home matches.
func VenueAdvantage(homeMatches []types.Fixture, teamID int64) types.VenueMetrics {
	if len(homeMatches) == 0 {
		return DefaultVenue()
	}
	if len(homeMatches) > venueHistoryLimit {
		homeMatches = homeMatches[:venueHistoryLimit]
	}

	var wins, goals int
	var form strings.Builder
	for i, f := range homeMatches {
		gf := f.GoalsFor(teamID)
		ga := f.GoalsAgainst(teamID)
		goals += gf
		switch {
		case gf > ga:
			wins++
			if i < formHistoryLimit {
				form.WriteByte('W')
			}
		case gf == ga:
			if i < formHistoryLimit {
				form.WriteByte('D')
			}
		default:
			if i < formHistoryLimit {
				form.WriteByte('L')
			}
		}
	}

	n := float64(len(homeMatches))
	winRate := float64(wins) / n * 100
	avgGoals := float64(goals) / n

	score := venueWinRateWeight*(winRate/100) + venueScoringWeight*math.Min(avgGoals/venueScoringCapAt, 1)
	return types.VenueMetrics{
		HomeWinRate:        round1(winRate),
		AverageHomeGoals:   round2(avgGoals),
		RecentHomeForm:     form.String(),
		HomeAdvantageScore: round1(clamp(score, 0, 10)),
	}
}

// Positions whose absence weighs double in the injury impact score.
var keyPositions = map[string]bool{"GK": true, "ST": true, "CB": true, "CM": true}

const (
	injuryKeyWeight      = 2.0
	injuryRegularWeight  = 1.0
	injuryImpactCap      = 10.0
	maxAffectedPositions = 5
)

// DefaultInjuryImpact returns the zero-impact default used when no injury
// records are available for a side.
func DefaultInjuryImpact() types.InjuryImpact {
	return types.InjuryImpact{AffectedPositions: []string{}}
}

// InjuryFromRecords converts scraped injury records into an impact summary.
// A player counts as out while the scraped expected return date is absent or
// in the future relative to now.
func InjuryFromRecords(records []types.ScrapedRecord, now time.Time) types.InjuryImpact {
	impact := DefaultInjuryImpact()
	seen := map[string]bool{}

	for _, rec := range records {
		ret, hasReturn := payloadTime(rec.Payload, "expected_return")
		if hasReturn && !ret.After(now) {
			continue // already back
		}

		impact.KeyPlayersOut++

		position, _ := payloadString(rec.Payload, "position")
		position = strings.ToUpper(strings.TrimSpace(position))
		weight := injuryRegularWeight
		if keyPositions[position] {
			weight = injuryKeyWeight
		}
		impact.ImpactScore += weight

		if position != "" && !seen[position] && len(impact.AffectedPositions) < maxAffectedPositions {
			seen[position] = true
			impact.AffectedPositions = append(impact.AffectedPositions, position)
		}
	}

	impact.ImpactScore = round1(clamp(impact.ImpactScore, 0, injuryImpactCap))
	return impact
}

// MarketFromRecords derives odds drift from scraped odds snapshots, most
// recent first: the oldest snapshot is the opening line, the newest the
// current one. Returns nil (the adapter's default) when no usable snapshots
// exist.
func MarketFromRecords(records []types.ScrapedRecord) *types.MarketMetrics {
	snapshots := make([]types.OutcomeOdds, 0, len(records))
	for _, rec := range records {
		odds, ok := payloadOdds(rec.Payload)
		if ok {
			snapshots = append(snapshots, odds)
		}
	}
	if len(snapshots) == 0 {
		return nil
	}

	current := snapshots[0]
	opening := snapshots[len(snapshots)-1]
	drift := types.OutcomeOdds{
		Home: round2(current.Home - opening.Home),
		Draw: round2(current.Draw - opening.Draw),
		Away: round2(current.Away - opening.Away),
	}

	velocity := (math.Abs(drift.Home) + math.Abs(drift.Draw) + math.Abs(drift.Away)) / 3

	// Sentiment follows whichever side's odds shortened more.
	sentiment := types.SentimentNeutral
	switch {
	case drift.Home < 0 && drift.Home < drift.Away:
		sentiment = types.SentimentHome
	case drift.Away < 0 && drift.Away < drift.Home:
		sentiment = types.SentimentAway
	}

	return &types.MarketMetrics{
		Opening:       opening,
		Current:       current,
		Drift:         drift,
		DriftVelocity: round2(velocity),
		Sentiment:     sentiment,
	}
}

// Weather xG modifier heuristics: heavy conditions suppress scoring.
const (
	weatherModifierFloor = 0.85
	weatherWindThreshold = 25.0 // km/h
	weatherRainThreshold = 60.0 // precipitation %
)

var adverseConditions = map[string]bool{"rain": true, "snow": true, "storm": true}

// WeatherFromRecords converts the most recent scraped forecast for a fixture
// into weather metrics. Returns nil (the adapter's default) when no forecast
// exists; individual fields stay nil when the scrape omitted them.
func WeatherFromRecords(records []types.ScrapedRecord) *types.WeatherMetrics {
	if len(records) == 0 {
		return nil
	}
	rec := records[0]

	w := &types.WeatherMetrics{}
	if v, ok := payloadFloat(rec.Payload, "temperature"); ok {
		w.Temperature = &v
	}
	if v, ok := payloadFloat(rec.Payload, "wind_speed"); ok {
		w.WindSpeed = &v
	}
	if v, ok := payloadFloat(rec.Payload, "humidity"); ok {
		w.Humidity = &v
	}
	if v, ok := payloadFloat(rec.Payload, "precipitation"); ok {
		w.Precipitation = &v
	}
	if s, ok := payloadString(rec.Payload, "condition"); ok {
		w.Condition = s
	}
	if !rec.ScrapedAt.IsZero() {
		at := rec.ScrapedAt
		w.ForecastAt = &at
	}
	if t, ok := payloadTime(rec.Payload, "forecast_at"); ok {
		w.ForecastAt = &t
	}

	modifier := 1.0
	if adverseConditions[strings.ToLower(w.Condition)] {
		modifier -= 0.05
	}
	if w.WindSpeed != nil && *w.WindSpeed >= weatherWindThreshold {
		modifier -= 0.05
	}
	if w.Precipitation != nil && *w.Precipitation >= weatherRainThreshold {
		modifier -= 0.03
	}
	modifier = math.Max(modifier, weatherModifierFloor)
	w.XGModifier = &modifier

	return w
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Payload accessors tolerate the loose typing of scraped JSON.

func payloadString(p map[string]any, key string) (string, bool) {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func payloadFloat(p map[string]any, key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func payloadTime(p map[string]any, key string) (time.Time, bool) {
	s, ok := payloadString(p, key)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func payloadOdds(p map[string]any) (types.OutcomeOdds, bool) {
	home, okH := payloadFloat(p, "home")
	draw, okD := payloadFloat(p, "draw")
	away, okA := payloadFloat(p, "away")
	if !okH || !okD || !okA {
		return types.OutcomeOdds{}, false
	}
	return types.OutcomeOdds{Home: home, Draw: draw, Away: away}, true
}
