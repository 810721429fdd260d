// Package storage persists teams, fixtures and scraped signal records and
// serves them through the engine's two collaborator contracts.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// teamRow mirrors the teams table.
type teamRow struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"not null;index"`
	ShortName string
	League    string `gorm:"index"`
	Stadium   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (teamRow) TableName() string { return "teams" }

// fixtureRow mirrors the fixtures table. Scores stay null until settled.
type fixtureRow struct {
	ID         int64  `gorm:"primaryKey"`
	League     string `gorm:"index"`
	Season     string
	HomeTeamID int64     `gorm:"index;not null"`
	AwayTeamID int64     `gorm:"index;not null"`
	KickoffAt  time.Time `gorm:"index;not null"`
	Status     string    `gorm:"index;not null"`
	HomeGoals  *int
	AwayGoals  *int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (fixtureRow) TableName() string { return "fixtures" }

// scrapedRow mirrors the scraped_data table populated by the scraping
// executors. Payload is source-specific JSON.
type scrapedRow struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Source    string `gorm:"index;not null"`
	DataType  string `gorm:"index;not null"`
	FixtureID *int64 `gorm:"index"`
	TeamID    *int64 `gorm:"index"`
	ScrapedAt time.Time      `gorm:"index;not null"`
	Payload   datatypes.JSON `gorm:"not null"`
}

func (scrapedRow) TableName() string { return "scraped_data" }

// Store is the gorm-backed implementation of the engine's FixtureProvider
// and SignalStore contracts.
type Store struct {
	db  *DB
	log *logrus.Logger
}

func NewStore(db *DB, log *logrus.Logger) *Store {
	return &Store{db: db, log: log}
}

// AutoMigrate creates or updates the schema.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&teamRow{}, &fixtureRow{}, &scrapedRow{})
}

// GetFixture resolves one fixture by id.
func (s *Store) GetFixture(ctx context.Context, id int64) (*types.Fixture, error) {
	var row fixtureRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrFixtureNotFound
		}
		return nil, fmt.Errorf("get fixture %d: %w", id, err)
	}
	f := rowToFixture(row)
	return &f, nil
}

// GetTeam resolves one team by id.
func (s *Store) GetTeam(ctx context.Context, id int64) (*types.Team, error) {
	var row teamRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team %d: %w", id, err)
	}
	return &types.Team{
		ID:        row.ID,
		Name:      row.Name,
		ShortName: row.ShortName,
		League:    row.League,
		Stadium:   row.Stadium,
	}, nil
}

// GetFixtures returns the full fixture snapshot, newest kickoff first. The
// engine filters it down to settled history itself.
func (s *Store) GetFixtures(ctx context.Context) ([]types.Fixture, error) {
	var rows []fixtureRow
	if err := s.db.WithContext(ctx).Order("kickoff_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	fixtures := make([]types.Fixture, len(rows))
	for i, row := range rows {
		fixtures[i] = rowToFixture(row)
	}
	return fixtures, nil
}

// UpcomingFixtures returns unsettled fixtures kicking off within the window,
// soonest first. Used by the scheduled feature refresher.
func (s *Store) UpcomingFixtures(ctx context.Context, within time.Duration) ([]types.Fixture, error) {
	now := time.Now().UTC()
	var rows []fixtureRow
	err := s.db.WithContext(ctx).
		Where("status <> ? AND kickoff_at BETWEEN ? AND ?", types.StatusCompleted, now, now.Add(within)).
		Order("kickoff_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list upcoming fixtures: %w", err)
	}
	fixtures := make([]types.Fixture, len(rows))
	for i, row := range rows {
		fixtures[i] = rowToFixture(row)
	}
	return fixtures, nil
}

// GetScrapedData reads scraped signal records, most recent first. An empty
// result is a valid response, not an error.
func (s *Store) GetScrapedData(ctx context.Context, q types.SignalQuery) ([]types.ScrapedRecord, error) {
	if q.DataType == "" {
		return nil, fmt.Errorf("scraped data query requires a data type")
	}

	query := s.db.WithContext(ctx).Model(&scrapedRow{}).Where("data_type = ?", q.DataType)
	if q.Source != "" {
		query = query.Where("source = ?", q.Source)
	}
	if q.FixtureID != 0 {
		query = query.Where("fixture_id = ?", q.FixtureID)
	}
	if q.TeamID != 0 {
		query = query.Where("team_id = ?", q.TeamID)
	}
	query = query.Order("scraped_at DESC")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var rows []scrapedRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get scraped data %q: %w", q.DataType, err)
	}

	records := make([]types.ScrapedRecord, 0, len(rows))
	for _, row := range rows {
		rec := types.ScrapedRecord{
			ID:        row.ID,
			Source:    row.Source,
			DataType:  row.DataType,
			ScrapedAt: row.ScrapedAt,
		}
		if row.FixtureID != nil {
			rec.FixtureID = *row.FixtureID
		}
		if row.TeamID != nil {
			rec.TeamID = *row.TeamID
		}
		if len(row.Payload) > 0 {
			if err := json.Unmarshal(row.Payload, &rec.Payload); err != nil {
				s.log.WithError(err).WithFields(logrus.Fields{
					"component": "storage",
					"record_id": row.ID,
					"data_type": row.DataType,
				}).Warn("Skipping scraped record with malformed payload")
				continue
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveScrapedRecord persists one record from a scraping executor.
func (s *Store) SaveScrapedRecord(ctx context.Context, rec types.ScrapedRecord) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("marshal scraped payload: %w", err)
	}
	row := scrapedRow{
		Source:    rec.Source,
		DataType:  rec.DataType,
		ScrapedAt: rec.ScrapedAt,
		Payload:   payload,
	}
	if rec.FixtureID != 0 {
		row.FixtureID = &rec.FixtureID
	}
	if rec.TeamID != 0 {
		row.TeamID = &rec.TeamID
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save scraped record: %w", err)
	}
	return nil
}

func rowToFixture(row fixtureRow) types.Fixture {
	return types.Fixture{
		ID:         row.ID,
		League:     row.League,
		Season:     row.Season,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		KickoffAt:  row.KickoffAt,
		Status:     row.Status,
		HomeGoals:  row.HomeGoals,
		AwayGoals:  row.AwayGoals,
	}
}
