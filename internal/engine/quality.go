package engine

import (
	"time"

	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// Completeness penalties. The score never drops below the floor: even with no
// history at all the Poisson defaults still provide a baseline estimate.
const (
	completenessStart   = 100.0
	completenessFloor   = 60.0
	penaltyShortForm    = 10.0
	penaltyNoH2H        = 15.0
	penaltySparseH2H    = 5.0
	sparseH2HBelow      = 3
	recencyLiveWindow   = 24 * time.Hour
	recencyRecentWindow = 7 * 24 * time.Hour
)

// Recency labels attached to the data-quality record.
const (
	RecencyLive    = "live-window"
	RecencyRecent  = "recent"
	RecencyStale   = "stale"
	RecencyUnknown = "unknown"
)

// ScoreQuality aggregates completeness signals into a single bounded score
// with the list of contributing sources. The fixture lookup is always listed
// first; extraSources are appended in the caller's order.
func ScoreQuality(homeForm, awayForm types.FormMetrics, h2h types.HeadToHeadMetrics, newest time.Time, now time.Time, extraSources []string) types.DataQuality {
	completeness := completenessStart

	if len(homeForm.FormString) < formHistoryLimit || len(awayForm.FormString) < formHistoryLimit {
		completeness -= penaltyShortForm
	}
	if h2h.TotalMatches == 0 {
		completeness -= penaltyNoH2H
	}
	if h2h.TotalMatches < sparseH2HBelow {
		completeness -= penaltySparseH2H
	}
	if completeness < completenessFloor {
		completeness = completenessFloor
	}

	sources := make([]string, 0, len(extraSources)+1)
	sources = append(sources, SourceFixtures)
	sources = append(sources, extraSources...)

	return types.DataQuality{
		Completeness: completeness,
		Recency:      recencyLabel(newest, now),
		Sources:      sources,
	}
}

func recencyLabel(newest, now time.Time) string {
	if newest.IsZero() {
		return RecencyUnknown
	}
	age := now.Sub(newest)
	switch {
	case age < recencyLiveWindow:
		return RecencyLive
	case age < recencyRecentWindow:
		return RecencyRecent
	default:
		return RecencyStale
	}
}
