package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"BaseballMVP/internal/domain/models"
	applogger "BaseballMVP/pkg/logger"
)

// ReferenceSchema creates the reference tables read by CHSnapshotLoader.
func ReferenceSchema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.role_aggregates (
            player_id String,
            role LowCardinality(String),
            period LowCardinality(String),
            pa UInt32,
            hits UInt32,
            strikeouts UInt32,
            walks UInt32
        ) ENGINE = ReplacingMergeTree ORDER BY (player_id, role, period)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.player_profiles (
            player_id String,
            name String,
            team String,
            throws LowCardinality(String),
            primary_pitch LowCardinality(String),
            tendency String,
            pitch_mix Map(String, Float64)
        ) ENGINE = ReplacingMergeTree ORDER BY player_id`, database),
	}
}

// CHSnapshotLoader reads reference aggregates from ClickHouse once at startup.
type CHSnapshotLoader struct {
	db       *sql.DB
	database string
	l        *applogger.Logger
}

func NewCHSnapshotLoader(db *sql.DB, database string) *CHSnapshotLoader {
	return &CHSnapshotLoader{db: db, database: database}
}

// SetLogger injects a structured logger.
func (s *CHSnapshotLoader) SetLogger(l *applogger.Logger) { s.l = l }

// Load reads both tables and builds a Snapshot. Query failures surface as
// models.ErrDataUnavailable since the service cannot start without them.
func (s *CHSnapshotLoader) Load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	aggs, err := s.aggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}
	profiles, err := s.profiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}

	snap, err := NewSnapshot(aggs, profiles)
	if err != nil {
		return nil, err
	}
	if s.l != nil {
		s.l.Info("clickhouse reference snapshot loaded",
			applogger.String("database", s.database),
			applogger.Int("aggregates", len(aggs)),
			applogger.Int("profiles", len(profiles)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return snap, nil
}

func (s *CHSnapshotLoader) aggregates(ctx context.Context) ([]models.RoleAggregate, error) {
	q := fmt.Sprintf(`
        SELECT player_id, role, period, pa, hits, strikeouts, walks
        FROM %s.role_aggregates FINAL
        ORDER BY player_id, role, period
    `, s.database)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		s.logError("clickhouse role_aggregates query error", err)
		return nil, fmt.Errorf("query role_aggregates: %w", err)
	}
	defer rows.Close()

	out := make([]models.RoleAggregate, 0, 1024)
	for rows.Next() {
		var (
			a                        models.RoleAggregate
			role, window             string
			pa, hits, strikeouts, bb uint32
		)
		if err := rows.Scan(&a.PlayerID, &role, &window, &pa, &hits, &strikeouts, &bb); err != nil {
			s.logError("clickhouse role_aggregates scan error", err)
			return nil, fmt.Errorf("scan role_aggregates: %w", err)
		}
		a.Role, a.Window = models.Role(role), models.Window(window)
		a.PA, a.Hits, a.Strikeouts, a.Walks = int(pa), int(hits), int(strikeouts), int(bb)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		s.logError("clickhouse role_aggregates rows error", err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHSnapshotLoader) profiles(ctx context.Context) ([]models.PlayerProfile, error) {
	q := fmt.Sprintf(`
        SELECT player_id, name, team, throws, primary_pitch, tendency, pitch_mix
        FROM %s.player_profiles FINAL
        ORDER BY player_id
    `, s.database)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		s.logError("clickhouse player_profiles query error", err)
		return nil, fmt.Errorf("query player_profiles: %w", err)
	}
	defer rows.Close()

	var out []models.PlayerProfile
	for rows.Next() {
		var p models.PlayerProfile
		if err := rows.Scan(&p.PlayerID, &p.Name, &p.Team, &p.Throws, &p.PrimaryPitch, &p.Tendency, &p.PitchMix); err != nil {
			s.logError("clickhouse player_profiles scan error", err)
			return nil, fmt.Errorf("scan player_profiles: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		s.logError("clickhouse player_profiles rows error", err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHSnapshotLoader) logError(msg string, err error) {
	if s.l != nil {
		s.l.Error(msg, applogger.String("database", s.database), applogger.Error(err))
	}
}
