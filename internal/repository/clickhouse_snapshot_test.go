package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"testing"

	"BaseballMVP/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cannedTable answers queries whose text mentions table.
type cannedTable struct {
	table    string
	columns  []string
	rows     [][]driver.Value
	queryErr error
	rowsErr  error
}

// cannedDB is a database/sql driver serving fixed result sets, enough to
// exercise the loader's query, scan and mapping paths without a server.
type cannedDB struct {
	tables  []cannedTable
	queries []string
}

func (c *cannedDB) Connect(context.Context) (driver.Conn, error) { return &cannedConn{db: c}, nil }
func (c *cannedDB) Driver() driver.Driver                        { return cannedDriver{} }

type cannedDriver struct{}

func (cannedDriver) Open(string) (driver.Conn, error) { return nil, errors.New("use sql.OpenDB") }

type cannedConn struct{ db *cannedDB }

func (c *cannedConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c *cannedConn) Close() error                        { return nil }
func (c *cannedConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

func (c *cannedConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	c.db.queries = append(c.db.queries, query)
	for _, t := range c.db.tables {
		if !strings.Contains(query, t.table) {
			continue
		}
		if t.queryErr != nil {
			return nil, t.queryErr
		}
		return &cannedRows{t: t}, nil
	}
	return nil, errors.New("unknown table")
}

type cannedRows struct {
	t   cannedTable
	pos int
}

func (r *cannedRows) Columns() []string { return r.t.columns }
func (r *cannedRows) Close() error      { return nil }

func (r *cannedRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.t.rows) {
		if r.t.rowsErr != nil {
			return r.t.rowsErr
		}
		return io.EOF
	}
	copy(dest, r.t.rows[r.pos])
	r.pos++
	return nil
}

var (
	aggColumns     = []string{"player_id", "role", "period", "pa", "hits", "strikeouts", "walks"}
	profileColumns = []string{"player_id", "name", "team", "throws", "primary_pitch", "tendency", "pitch_mix"}
)

func referenceTables() []cannedTable {
	return []cannedTable{
		{
			table:   "role_aggregates",
			columns: aggColumns,
			rows: [][]driver.Value{
				{"0444482", "batter", "7d", uint32(20), uint32(7), uint32(3), uint32(2)},
				{"444482", "batter", "season", uint32(400), uint32(112), uint32(80), uint32(40)},
				{"445926", "pitcher", "30d", int64(110), int64(25), int64(33), int64(9)},
			},
		},
		{
			table:   "player_profiles",
			columns: profileColumns,
			rows: [][]driver.Value{
				{"445926", "Sample Arm", "SEA", "R", "FF", "Attacks the zone early", map[string]float64{"FF": 0.6, "SL": 0.4}},
			},
		},
	}
}

func openCanned(t *testing.T, tables []cannedTable) (*sql.DB, *cannedDB) {
	t.Helper()
	c := &cannedDB{tables: tables}
	db := sql.OpenDB(c)
	t.Cleanup(func() { _ = db.Close() })
	return db, c
}

func TestReferenceSchema(t *testing.T) {
	stmts := ReferenceSchema("baseball")
	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS baseball", stmts[0])
	assert.Contains(t, stmts[1], "baseball.role_aggregates")
	assert.Contains(t, stmts[1], "period LowCardinality(String)")
	assert.Contains(t, stmts[1], "ORDER BY (player_id, role, period)")
	assert.Contains(t, stmts[2], "baseball.player_profiles")
	assert.Contains(t, stmts[2], "pitch_mix Map(String, Float64)")
}

func TestCHSnapshotLoaderMapsRows(t *testing.T) {
	db, canned := openCanned(t, referenceTables())

	snap, err := NewCHSnapshotLoader(db, "baseball").Load(context.Background())
	require.NoError(t, err)

	a, ok := snap.Aggregate("444482", models.RoleBatter, models.Window7d)
	require.True(t, ok)
	assert.Equal(t, models.RoleAggregate{PlayerID: "444482", Role: models.RoleBatter, Window: models.Window7d, PA: 20, Hits: 7, Strikeouts: 3, Walks: 2}, a)

	a, ok = snap.Aggregate("445926", models.RolePitcher, models.Window30d)
	require.True(t, ok)
	assert.Equal(t, 110, a.PA)
	assert.Equal(t, 33, a.Strikeouts)

	p, ok := snap.Profile("445926")
	require.True(t, ok)
	assert.Equal(t, "SEA", p.Team)
	assert.Equal(t, map[string]float64{"FF": 0.6, "SL": 0.4}, p.PitchMix)

	require.Len(t, canned.queries, 2)
	assert.Contains(t, canned.queries[0], "FROM baseball.role_aggregates FINAL")
	assert.Contains(t, canned.queries[1], "FROM baseball.player_profiles FINAL")
}

func TestCHSnapshotLoaderMatchesFileSnapshot(t *testing.T) {
	db, _ := openCanned(t, []cannedTable{
		{table: "role_aggregates", columns: aggColumns, rows: [][]driver.Value{
			{"444482", "batter", "season", uint32(400), uint32(112), uint32(80), uint32(40)},
			{"0444482", "batter", "7d", uint32(20), uint32(7), uint32(3), uint32(2)},
			{"100", "batter", "season", uint32(100), uint32(20), uint32(30), uint32(10)},
			{"445926", "pitcher", "season", uint32(600), uint32(130), uint32(170), uint32(45)},
		}},
		{table: "player_profiles", columns: profileColumns, rows: [][]driver.Value{
			{"445926", "Sample Arm", "", "R", "FF", "Attacks the zone early", map[string]float64{"FF": 0.55, "SL": 0.3, "CH": 0.15}},
		}},
	})
	fromCH, err := NewCHSnapshotLoader(db, "baseball").Load(context.Background())
	require.NoError(t, err)

	fromFile, err := ParseSnapshot([]byte(sampleDataset))
	require.NoError(t, err)
	assert.Equal(t, fromFile.Fingerprint(), fromCH.Fingerprint())
}

func TestCHSnapshotLoaderFailures(t *testing.T) {
	broken := errors.New("connection reset")
	tests := []struct {
		name   string
		mutate func(tables []cannedTable)
		want   string
	}{
		{
			name:   "aggregate query",
			mutate: func(tables []cannedTable) { tables[0].queryErr = broken },
			want:   "query role_aggregates",
		},
		{
			name:   "profile query",
			mutate: func(tables []cannedTable) { tables[1].queryErr = broken },
			want:   "query player_profiles",
		},
		{
			name:   "aggregate scan",
			mutate: func(tables []cannedTable) { tables[0].rows[1][3] = "many" },
			want:   "scan role_aggregates",
		},
		{
			name:   "profile scan",
			mutate: func(tables []cannedTable) { tables[1].rows[0][6] = "FF" },
			want:   "scan player_profiles",
		},
		{
			name:   "rows iteration",
			mutate: func(tables []cannedTable) { tables[0].rowsErr = broken },
			want:   "rows",
		},
		{
			name:   "invalid window",
			mutate: func(tables []cannedTable) { tables[0].rows[0][2] = "14d" },
			want:   "14d",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := referenceTables()
			tt.mutate(tables)
			db, _ := openCanned(t, tables)

			snap, err := NewCHSnapshotLoader(db, "baseball").Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, snap)
			assert.ErrorIs(t, err, models.ErrDataUnavailable)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
