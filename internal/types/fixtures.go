package types

import (
	"errors"
	"time"
)

// Lookup failures surfaced by FixtureProvider implementations. Everything the
// engine consumes besides these is degradable and must never abort an
// extraction.
var (
	ErrFixtureNotFound = errors.New("fixture not found")
	ErrTeamNotFound    = errors.New("team not found")
)

// Fixture statuses considered settled. Only settled fixtures with both scores
// present feed the calculators.
const StatusCompleted = "completed"

// Team is a resolved team record from the lookup collaborator.
type Team struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	League    string `json:"league,omitempty"`
	Stadium   string `json:"stadium,omitempty"`
}

// Fixture is a scheduled or settled match from the lookup collaborator.
// HomeGoals/AwayGoals are nil until the match has settled.
type Fixture struct {
	ID         int64     `json:"id"`
	League     string    `json:"league"`
	Season     string    `json:"season,omitempty"`
	HomeTeamID int64     `json:"home_team_id"`
	AwayTeamID int64     `json:"away_team_id"`
	KickoffAt  time.Time `json:"kickoff_at"`
	Status     string    `json:"status"`
	HomeGoals  *int      `json:"home_goals,omitempty"`
	AwayGoals  *int      `json:"away_goals,omitempty"`
}

// Settled reports whether the fixture is completed with both scores present,
// which is the bar for any calculator to use it.
func (f *Fixture) Settled() bool {
	return f.Status == StatusCompleted && f.HomeGoals != nil && f.AwayGoals != nil
}

// Involves reports whether the given team played in this fixture.
func (f *Fixture) Involves(teamID int64) bool {
	return f.HomeTeamID == teamID || f.AwayTeamID == teamID
}

// GoalsFor returns the goals scored by the given team in a settled fixture.
func (f *Fixture) GoalsFor(teamID int64) int {
	if f.HomeTeamID == teamID {
		return *f.HomeGoals
	}
	return *f.AwayGoals
}

// GoalsAgainst returns the goals conceded by the given team in a settled fixture.
func (f *Fixture) GoalsAgainst(teamID int64) int {
	if f.HomeTeamID == teamID {
		return *f.AwayGoals
	}
	return *f.HomeGoals
}

// Signal data types stored by the scraping collaborators.
const (
	SignalInjuries = "injuries"
	SignalOdds     = "odds"
	SignalWeather  = "weather"
)

// SignalQuery narrows a scraped-signal store read. DataType is required;
// the remaining fields are optional filters.
type SignalQuery struct {
	Source    string
	DataType  string
	FixtureID int64
	TeamID    int64
	Limit     int
}

// ScrapedRecord is one row from the scraped-signal store, payload left to the
// consuming adapter to interpret. Records arrive most-recent first.
type ScrapedRecord struct {
	ID        int64          `json:"id"`
	Source    string         `json:"source"`
	DataType  string         `json:"data_type"`
	FixtureID int64          `json:"fixture_id,omitempty"`
	TeamID    int64          `json:"team_id,omitempty"`
	ScrapedAt time.Time      `json:"scraped_at"`
	Payload   map[string]any `json:"payload"`
}
