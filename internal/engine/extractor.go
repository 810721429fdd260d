package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// Extractor fans out the per-fixture signal computations, joins the results
// and assembles the final feature bundle. It holds no mutable state: every
// extraction works on collaborator-provided snapshots, so concurrent calls
// need no coordination.
type Extractor struct {
	provider FixtureProvider
	store    SignalStore
	log      *logrus.Logger
	league   string
	now      func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLeagueFilter restricts venue history derivation to one league,
// preferring same-league home matches when filling the window.
func WithLeagueFilter(league string) Option {
	return func(e *Extractor) { e.league = league }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor creates the feature extraction orchestrator.
func NewExtractor(provider FixtureProvider, store SignalStore, log *logrus.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		provider: provider,
		store:    store,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// extractResults collects the fan-out outputs. Each goroutine writes only its
// own fields; the WaitGroup join publishes them to the assembling goroutine.
type extractResults struct {
	homeForm, awayForm           types.FormMetrics
	formReal                     bool
	xg                           types.ExpectedGoalsMetrics
	xgReal                       bool
	h2h                          types.HeadToHeadMetrics
	h2hReal                      bool
	venue                        types.VenueMetrics
	venueReal                    bool
	homeInjury, awayInjury       types.InjuryImpact
	homeInjReal, awayInjReal     bool
	homeInjNewest, awayInjNewest time.Time
	market                       *types.MarketMetrics
	marketNewest                 time.Time
	weather                      *types.WeatherMetrics
}

// Extract resolves the fixture and both teams, dispatches the independent
// signal computations concurrently and joins them into one MatchFeatures
// bundle. It fails only when the fixture or either team cannot be resolved;
// every other sub-computation degrades to its fixed default.
func (e *Extractor) Extract(ctx context.Context, fixtureID int64) (*types.MatchFeatures, error) {
	start := e.now()
	entry := e.log.WithFields(logrus.Fields{
		"component":     "feature_extractor",
		"fixture_id":    fixtureID,
		"extraction_id": uuid.NewString(),
	})
	entry.Info("Feature extraction started")

	fixture, err := e.provider.GetFixture(ctx, fixtureID)
	if err != nil || fixture == nil {
		entry.WithError(err).Warn("Fixture could not be resolved")
		return nil, fmt.Errorf("%w: fixture %d", types.ErrFixtureNotFound, fixtureID)
	}

	homeTeam, err := e.provider.GetTeam(ctx, fixture.HomeTeamID)
	if err != nil {
		entry.WithError(err).Warn("Home team could not be resolved")
		return nil, fmt.Errorf("%w: fixture %d home team %d", types.ErrFixtureNotFound, fixtureID, fixture.HomeTeamID)
	}
	awayTeam, err := e.provider.GetTeam(ctx, fixture.AwayTeamID)
	if err != nil {
		entry.WithError(err).Warn("Away team could not be resolved")
		return nil, fmt.Errorf("%w: fixture %d away team %d", types.ErrFixtureNotFound, fixtureID, fixture.AwayTeamID)
	}

	// One snapshot feeds all history derivation. Losing it degrades every
	// history-based signal to its default but never aborts the extraction.
	snapshot, _ := withFallback(entry.WithField("signal", SourceFixtures), nil, func() ([]types.Fixture, error) {
		return e.provider.GetFixtures(ctx)
	})
	settled := settledByDate(snapshot)

	homeRecent := recentForTeam(settled, fixture.HomeTeamID, formHistoryLimit)
	awayRecent := recentForTeam(settled, fixture.AwayTeamID, formHistoryLimit)
	meetings := meetingsBetween(settled, fixture.HomeTeamID, fixture.AwayTeamID, h2hHistoryLimit)
	homeGround := homeFixturesFor(settled, fixture.HomeTeamID, e.league, venueHistoryLimit)

	homeRates, homeHasRates := ratesForTeam(homeRecent, fixture.HomeTeamID)
	awayRates, awayHasRates := ratesForTeam(awayRecent, fixture.AwayTeamID)

	var (
		wg  sync.WaitGroup
		res extractResults
	)
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() {
		forms, ok := withFallback(entry.WithField("signal", SourceForm), formPair{DefaultForm(), DefaultForm()}, func() (formPair, error) {
			return formPair{
				home: ComputeForm(homeRecent, fixture.HomeTeamID),
				away: ComputeForm(awayRecent, fixture.AwayTeamID),
			}, nil
		})
		res.homeForm, res.awayForm = forms.home, forms.away
		res.formReal = ok && (len(homeRecent) > 0 || len(awayRecent) > 0)
	})

	run(func() {
		xg, ok := withFallback(entry.WithField("signal", SourceXG), EstimateExpectedGoals(DefaultTeamRates(), DefaultTeamRates(), true), func() (types.ExpectedGoalsMetrics, error) {
			return EstimateExpectedGoals(homeRates, awayRates, true), nil
		})
		res.xg = xg
		res.xgReal = ok && (homeHasRates || awayHasRates)
	})

	run(func() {
		h2h, ok := withFallback(entry.WithField("signal", SourceHeadToHead), DefaultHeadToHead(), func() (types.HeadToHeadMetrics, error) {
			return HeadToHead(meetings, fixture.HomeTeamID), nil
		})
		res.h2h = h2h
		res.h2hReal = ok && len(meetings) > 0
	})

	run(func() {
		venue, ok := withFallback(entry.WithField("signal", SourceVenue), DefaultVenue(), func() (types.VenueMetrics, error) {
			return VenueAdvantage(homeGround, fixture.HomeTeamID), nil
		})
		res.venue = venue
		res.venueReal = ok && len(homeGround) > 0
	})

	run(func() {
		res.homeInjury, res.homeInjReal, res.homeInjNewest = e.fetchInjuries(ctx, entry, fixture.HomeTeamID)
	})

	run(func() {
		res.awayInjury, res.awayInjReal, res.awayInjNewest = e.fetchInjuries(ctx, entry, fixture.AwayTeamID)
	})

	run(func() {
		records, _ := withFallback(entry.WithField("signal", SourceOdds), nil, func() ([]types.ScrapedRecord, error) {
			return e.store.GetScrapedData(ctx, types.SignalQuery{DataType: types.SignalOdds, FixtureID: fixtureID})
		})
		res.market = MarketFromRecords(records)
		if len(records) > 0 {
			res.marketNewest = records[0].ScrapedAt
		}
	})

	run(func() {
		records, _ := withFallback(entry.WithField("signal", SourceWeather), nil, func() ([]types.ScrapedRecord, error) {
			return e.store.GetScrapedData(ctx, types.SignalQuery{DataType: types.SignalWeather, FixtureID: fixtureID})
		})
		res.weather = WeatherFromRecords(records)
	})

	wg.Wait()

	now := e.now()
	quality := ScoreQuality(res.homeForm, res.awayForm, res.h2h, e.newestEvidence(settled, &res), now, contributingSources(&res))

	features := &types.MatchFeatures{
		FixtureID:   fixtureID,
		HomeTeam:    homeTeam,
		AwayTeam:    awayTeam,
		HomeForm:    res.homeForm,
		AwayForm:    res.awayForm,
		XG:          res.xg,
		HeadToHead:  res.h2h,
		Venue:       res.venue,
		HomeInjury:  res.homeInjury,
		AwayInjury:  res.awayInjury,
		Market:      res.market,
		Weather:     res.weather,
		DataQuality: quality,
		ExtractedAt: now,
	}

	entry.WithFields(logrus.Fields{
		"duration_ms":  now.Sub(start).Milliseconds(),
		"completeness": quality.Completeness,
		"sources":      quality.Sources,
	}).Info("Feature extraction completed")

	return features, nil
}

type formPair struct {
	home, away types.FormMetrics
}

// fetchInjuries reads one side's injury records through the fallback wrapper.
// A collaborator timeout is treated identically to a collaborator error.
func (e *Extractor) fetchInjuries(ctx context.Context, entry *logrus.Entry, teamID int64) (types.InjuryImpact, bool, time.Time) {
	log := entry.WithField("signal", SourceInjuries).WithField("team_id", teamID)
	records, ok := withFallback(log, nil, func() ([]types.ScrapedRecord, error) {
		return e.store.GetScrapedData(ctx, types.SignalQuery{DataType: types.SignalInjuries, TeamID: teamID})
	})
	if !ok || len(records) == 0 {
		return DefaultInjuryImpact(), false, time.Time{}
	}
	return InjuryFromRecords(records, e.now()), true, records[0].ScrapedAt
}

// contributingSources lists the adapters that returned non-default data, in
// a fixed order so the output stays deterministic.
func contributingSources(res *extractResults) []string {
	var sources []string
	if res.formReal {
		sources = append(sources, SourceForm)
	}
	if res.xgReal {
		sources = append(sources, SourceXG)
	}
	if res.h2hReal {
		sources = append(sources, SourceHeadToHead)
	}
	if res.venueReal {
		sources = append(sources, SourceVenue)
	}
	if res.homeInjReal || res.awayInjReal {
		sources = append(sources, SourceInjuries)
	}
	if res.market != nil {
		sources = append(sources, SourceOdds)
	}
	if res.weather != nil {
		sources = append(sources, SourceWeather)
	}
	return sources
}

// newestEvidence finds the most recent timestamp among the data that actually
// contributed, which drives the recency label.
func (e *Extractor) newestEvidence(settled []types.Fixture, res *extractResults) time.Time {
	var newest time.Time
	if len(settled) > 0 {
		newest = settled[0].KickoffAt
	}
	newest = maxTime(newest, res.homeInjNewest)
	newest = maxTime(newest, res.awayInjNewest)
	newest = maxTime(newest, res.marketNewest)
	if res.weather != nil && res.weather.ForecastAt != nil {
		newest = maxTime(newest, *res.weather.ForecastAt)
	}
	return newest
}

func maxTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
