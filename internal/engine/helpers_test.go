package engine

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

func intPtr(n int) *int { return &n }

func settledFixture(id, homeID, awayID int64, homeGoals, awayGoals int, kickoff time.Time) types.Fixture {
	return types.Fixture{
		ID:         id,
		League:     "premier-league",
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		KickoffAt:  kickoff,
		Status:     types.StatusCompleted,
		HomeGoals:  intPtr(homeGoals),
		AwayGoals:  intPtr(awayGoals),
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
