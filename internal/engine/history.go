package engine

import (
	"sort"

	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// History windows: five results feed the form calculator, ten meetings feed
// head-to-head, ten home matches feed the venue calculator.
const (
	formHistoryLimit  = 5
	h2hHistoryLimit   = 10
	venueHistoryLimit = 10
)

// settledByDate filters one GetFixtures snapshot down to usable history:
// completed with both scores present, sorted descending by kickoff, ties
// broken by input order.
func settledByDate(fixtures []types.Fixture) []types.Fixture {
	settled := make([]types.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.Settled() {
			settled = append(settled, f)
		}
	}
	sort.SliceStable(settled, func(i, j int) bool {
		return settled[i].KickoffAt.After(settled[j].KickoffAt)
	})
	return settled
}

// recentForTeam returns the team's most recent settled results.
func recentForTeam(settled []types.Fixture, teamID int64, limit int) []types.Fixture {
	out := make([]types.Fixture, 0, limit)
	for _, f := range settled {
		if !f.Involves(teamID) {
			continue
		}
		out = append(out, f)
		if len(out) == limit {
			break
		}
	}
	return out
}

// meetingsBetween returns the most recent settled meetings between the two
// sides, either venue.
func meetingsBetween(settled []types.Fixture, homeID, awayID int64, limit int) []types.Fixture {
	out := make([]types.Fixture, 0, limit)
	for _, f := range settled {
		if !f.Involves(homeID) || !f.Involves(awayID) {
			continue
		}
		out = append(out, f)
		if len(out) == limit {
			break
		}
	}
	return out
}

// homeFixturesFor returns the team's most recent settled home matches.
// When a league filter is supplied, same-league matches are preferred and the
// window is topped up from other competitions only if the filter leaves it
// short.
func homeFixturesFor(settled []types.Fixture, teamID int64, league string, limit int) []types.Fixture {
	out := make([]types.Fixture, 0, limit)
	if league != "" {
		for _, f := range settled {
			if f.HomeTeamID == teamID && f.League == league {
				out = append(out, f)
				if len(out) == limit {
					return out
				}
			}
		}
	}
	for _, f := range settled {
		if f.HomeTeamID != teamID {
			continue
		}
		if league != "" && f.League == league {
			continue // already taken in the preferred pass
		}
		out = append(out, f)
		if len(out) == limit {
			break
		}
	}
	return out
}

// ratesForTeam derives per-game scoring averages from the team's recent
// results. The second return value is false when there is no history, in
// which case the model's fixed input default is returned.
func ratesForTeam(recent []types.Fixture, teamID int64) (TeamRates, bool) {
	if len(recent) == 0 {
		return DefaultTeamRates(), false
	}
	var scored, conceded int
	for _, f := range recent {
		scored += f.GoalsFor(teamID)
		conceded += f.GoalsAgainst(teamID)
	}
	n := float64(len(recent))
	return TeamRates{
		GoalsPerGame:         float64(scored) / n,
		GoalsConcededPerGame: float64(conceded) / n,
	}, true
}
