package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/Scardubu/FootballForecast-sub006/internal/engine"
	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// Scraping sources behind the signal store, one breaker each so a flapping
// odds scraper cannot trip reads of injury or weather data.
var signalSources = map[string]string{
	types.SignalInjuries: "physioroom",
	types.SignalOdds:     "oddsportal",
	types.SignalWeather:  "openweather",
}

// GuardedSignalStore decorates a SignalStore with per-source circuit
// breakers. An open breaker fails the read immediately, which the engine's
// adapters treat like any other collaborator error: they fall back to their
// defaults. Timeout and retry policy lives here, outside the engine.
type GuardedSignalStore struct {
	inner    engine.SignalStore
	breakers map[string]*gobreaker.CircuitBreaker
	timeout  time.Duration
	logger   *logrus.Logger
}

func NewGuardedSignalStore(inner engine.SignalStore, threshold int, timeout time.Duration, logger *logrus.Logger) *GuardedSignalStore {
	settings := gobreaker.Settings{
		MaxRequests: uint32(threshold),
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"source":    name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	breakers := make(map[string]*gobreaker.CircuitBreaker, len(signalSources))
	for _, source := range signalSources {
		s := settings
		s.Name = source
		breakers[source] = gobreaker.NewCircuitBreaker(s)
	}

	return &GuardedSignalStore{
		inner:    inner,
		breakers: breakers,
		timeout:  timeout,
		logger:   logger,
	}
}

// GetScrapedData routes the read through the breaker owning the query's data
// type, bounding each attempt with the external fetch timeout.
func (g *GuardedSignalStore) GetScrapedData(ctx context.Context, q types.SignalQuery) ([]types.ScrapedRecord, error) {
	source, known := signalSources[q.DataType]
	if !known {
		return g.inner.GetScrapedData(ctx, q)
	}

	result, err := g.breakers[source].Execute(func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return g.inner.GetScrapedData(fetchCtx, q)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.ScrapedRecord), nil
}

// State exposes a breaker's state for health reporting.
func (g *GuardedSignalStore) State(dataType string) gobreaker.State {
	if source, ok := signalSources[dataType]; ok {
		return g.breakers[source].State()
	}
	return gobreaker.StateClosed
}
