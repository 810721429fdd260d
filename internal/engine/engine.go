// Package engine implements match feature extraction: it fuses recent form,
// Poisson expected goals, head-to-head history, venue advantage, injuries,
// betting-market drift and weather into a single MatchFeatures bundle with a
// bounded data-quality score. Every signal besides the fixture/team lookup is
// independently fallible and degrades to a fixed default instead of failing
// the extraction.
package engine

import (
	"context"

	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// FixtureProvider is the fixture/team lookup collaborator. Implementations
// must return already-settled matches with both scores present for history to
// be usable by the calculators.
type FixtureProvider interface {
	GetFixture(ctx context.Context, id int64) (*types.Fixture, error)
	GetTeam(ctx context.Context, id int64) (*types.Team, error)
	GetFixtures(ctx context.Context) ([]types.Fixture, error)
}

// SignalStore is the scraped-signal collaborator. An empty result is a valid,
// expected response, not an error. Records arrive most-recent first.
type SignalStore interface {
	GetScrapedData(ctx context.Context, q types.SignalQuery) ([]types.ScrapedRecord, error)
}

// Source names reported in DataQuality.Sources. The fixture lookup is always
// listed; the rest appear only when the signal returned non-default data.
const (
	SourceFixtures   = "fixtures"
	SourceForm       = "form"
	SourceXG         = "xg"
	SourceHeadToHead = "head_to_head"
	SourceVenue      = "venue"
	SourceInjuries   = "injuries"
	SourceOdds       = "odds"
	SourceWeather    = "weather"
)
