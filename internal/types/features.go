package types

import "time"

// Trend classifications produced by the form calculator.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// FormMetrics summarises a team's most recent completed results,
// most recent first.
type FormMetrics struct {
	Last5Points    int     `json:"last_5_points"`
	GoalsScored    int     `json:"goals_scored"`
	GoalsConceded  int     `json:"goals_conceded"`
	GoalDifference int     `json:"goal_difference"`
	Trend          string  `json:"trend"`
	FormString     string  `json:"form_string"`
	WinRate        float64 `json:"win_rate"`
}

// ExpectedGoalsMetrics holds the Poisson model outputs for one fixture.
// Clean-sheet probabilities are percentages: 100 * e^(-lambda_opponent).
type ExpectedGoalsMetrics struct {
	Home               float64 `json:"home"`
	Away               float64 `json:"away"`
	Differential       float64 `json:"differential"`
	TotalGoals         float64 `json:"total_goals"`
	HomeCleanSheetProb float64 `json:"home_clean_sheet_prob"`
	AwayCleanSheetProb float64 `json:"away_clean_sheet_prob"`
}

// HeadToHeadMetrics summarises up to the last ten meetings between the two
// sides. HomeWins counts wins by the fixture's home team regardless of the
// venue of the historical meeting.
type HeadToHeadMetrics struct {
	TotalMatches     int        `json:"total_matches"`
	HomeWins         int        `json:"home_wins"`
	Draws            int        `json:"draws"`
	AwayWins         int        `json:"away_wins"`
	LastMeetingDate  *time.Time `json:"last_meeting_date,omitempty"`
	LastMeetingScore string     `json:"last_meeting_score,omitempty"`
	HomeWinRate      float64    `json:"home_win_rate"`
}

// VenueMetrics summarises the home side's record at its own ground.
type VenueMetrics struct {
	HomeWinRate        float64 `json:"home_win_rate"`
	AverageHomeGoals   float64 `json:"average_home_goals"`
	RecentHomeForm     string  `json:"recent_home_form"`
	HomeAdvantageScore float64 `json:"home_advantage_score"`
}

// InjuryImpact summarises one side's current unavailable players.
type InjuryImpact struct {
	KeyPlayersOut     int      `json:"key_players_out"`
	ImpactScore       float64  `json:"impact_score"`
	AffectedPositions []string `json:"affected_positions"`
}

// Market sentiment values derived from odds drift.
const (
	SentimentHome    = "home"
	SentimentAway    = "away"
	SentimentNeutral = "neutral"
)

// OutcomeOdds carries decimal odds for the three match outcomes.
type OutcomeOdds struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// MarketMetrics tracks betting-market movement between the opening and the
// most recent odds snapshot. Nil on the bundle when no odds were scraped.
type MarketMetrics struct {
	Opening       OutcomeOdds `json:"opening"`
	Current       OutcomeOdds `json:"current"`
	Drift         OutcomeOdds `json:"drift"`
	DriftVelocity float64     `json:"drift_velocity"`
	Sentiment     string      `json:"sentiment"`
}

// WeatherMetrics carries the latest forecast for the fixture. Every field is
// optional: absence means the signal was unavailable, not zero.
type WeatherMetrics struct {
	Temperature   *float64   `json:"temperature,omitempty"`
	WindSpeed     *float64   `json:"wind_speed,omitempty"`
	Humidity      *float64   `json:"humidity,omitempty"`
	Precipitation *float64   `json:"precipitation,omitempty"`
	Condition     string     `json:"condition,omitempty"`
	XGModifier    *float64   `json:"xg_modifier,omitempty"`
	ForecastAt    *time.Time `json:"forecast_at,omitempty"`
}

// DataQuality expresses how much real (non-default) signal data contributed
// to a bundle. Completeness is bounded to 60..100.
type DataQuality struct {
	Completeness float64  `json:"completeness"`
	Recency      string   `json:"recency"`
	Sources      []string `json:"sources"`
}

// MatchFeatures is the aggregate produced by one extraction call. It is
// constructed fresh per call and never mutated after return.
type MatchFeatures struct {
	FixtureID   int64                `json:"fixture_id"`
	HomeTeam    *Team                `json:"home_team,omitempty"`
	AwayTeam    *Team                `json:"away_team,omitempty"`
	HomeForm    FormMetrics          `json:"home_form"`
	AwayForm    FormMetrics          `json:"away_form"`
	XG          ExpectedGoalsMetrics `json:"xg"`
	HeadToHead  HeadToHeadMetrics    `json:"head_to_head"`
	Venue       VenueMetrics         `json:"venue"`
	HomeInjury  InjuryImpact         `json:"home_injuries"`
	AwayInjury  InjuryImpact         `json:"away_injuries"`
	Market      *MarketMetrics       `json:"market,omitempty"`
	Weather     *WeatherMetrics      `json:"weather,omitempty"`
	DataQuality DataQuality          `json:"data_quality"`
	ExtractedAt time.Time            `json:"extracted_at"`
}
