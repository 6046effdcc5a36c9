package repository

import (
	"os"
	"path/filepath"
	"testing"

	"BaseballMVP/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDataset = `{
  "aggregates": [
    {"player": 444482, "role": "batter", "window": "season", "pa": 400, "hits": 112, "strikeouts": 80, "walks": 40},
    {"player": "0444482", "role": "batter", "window": "7d", "pa": 20, "hits": 7, "strikeouts": 3, "walks": 2},
    {"player": "100", "role": "batter", "window": "season", "pa": 100, "hits": 20, "strikeouts": 30, "walks": 10},
    {"player": "445926", "role": "pitcher", "window": "season", "pa": 600, "hits": 130, "strikeouts": 170, "walks": 45}
  ],
  "profiles": [
    {"player": 445926, "name": "Sample Arm", "throws": "R", "primary_pitch": "FF", "tendency": "Attacks the zone early", "pitch_mix": {"FF": 0.55, "SL": 0.3, "CH": 0.15}}
  ]
}`

func TestParseSnapshotCanonicalizesIDs(t *testing.T) {
	s, err := ParseSnapshot([]byte(sampleDataset))
	require.NoError(t, err)

	a, ok := s.Aggregate("444482", models.RoleBatter, models.Window7d)
	require.True(t, ok)
	assert.Equal(t, 20, a.PA)

	_, ok = s.Aggregate("444482", models.RolePitcher, models.WindowSeason)
	assert.False(t, ok)

	p, ok := s.Profile("445926")
	require.True(t, ok)
	assert.Equal(t, "FF", p.PrimaryPitch)

	assert.Equal(t, 2, s.Players(models.RoleBatter))
	assert.Equal(t, 1, s.Players(models.RolePitcher))
	assert.Equal(t, []string{"100", "444482"}, s.PlayerIDs(models.RoleBatter))
}

func TestLeagueTotals(t *testing.T) {
	s, err := ParseSnapshot([]byte(sampleDataset))
	require.NoError(t, err)

	tot := s.League(models.RoleBatter, models.WindowSeason)
	assert.Equal(t, 500, tot.PA)
	assert.Equal(t, 132, tot.Hits)
	assert.InDelta(t, 132.0/500.0, tot.Rate(models.OutcomeHit), 1e-12)

	empty := s.League(models.RolePitcher, models.Window7d)
	assert.Equal(t, 0, empty.PA)
	assert.Equal(t, 0.0, empty.Rate(models.OutcomeHit))
}

func TestNewSnapshotRejectsBadRows(t *testing.T) {
	base := models.RoleAggregate{PlayerID: "1", Role: models.RoleBatter, Window: models.WindowSeason, PA: 10, Hits: 3}
	tests := []struct {
		name string
		rows []models.RoleAggregate
	}{
		{"negative", []models.RoleAggregate{{PlayerID: "1", Role: models.RoleBatter, Window: models.WindowSeason, PA: -1}}},
		{"hits over pa", []models.RoleAggregate{{PlayerID: "1", Role: models.RoleBatter, Window: models.WindowSeason, PA: 2, Hits: 3}}},
		{"duplicate", []models.RoleAggregate{base, base}},
		{"bad role", []models.RoleAggregate{{PlayerID: "1", Role: "catcher", Window: models.WindowSeason}}},
		{"bad window", []models.RoleAggregate{{PlayerID: "1", Role: models.RoleBatter, Window: "14d"}}},
		{"empty id", []models.RoleAggregate{{PlayerID: " ", Role: models.RoleBatter, Window: models.WindowSeason}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSnapshot(tt.rows, nil)
			assert.ErrorIs(t, err, models.ErrDataUnavailable)
		})
	}
}

func TestLoadFileSnapshotErrors(t *testing.T) {
	_, err := LoadFileSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, models.ErrDataUnavailable)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"aggregates": [`), 0o644))
	_, err = LoadFileSnapshot(path)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)

	_, err = ParseSnapshot([]byte(`{"aggregates": []}`))
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestLoadFileSnapshotSampleData(t *testing.T) {
	s, err := LoadFileSnapshot(filepath.Join("..", "..", "data", "aggregates.json"))
	require.NoError(t, err)
	_, ok := s.Aggregate("444482", models.RoleBatter, models.WindowSeason)
	assert.True(t, ok)
	_, ok = s.Aggregate("445926", models.RolePitcher, models.WindowSeason)
	assert.True(t, ok)
}

func TestFingerprintIgnoresRowOrder(t *testing.T) {
	rows := []models.RoleAggregate{
		{PlayerID: "1", Role: models.RoleBatter, Window: models.WindowSeason, PA: 10, Hits: 3},
		{PlayerID: "2", Role: models.RolePitcher, Window: models.Window7d, PA: 12, Strikeouts: 4},
	}
	a, err := NewSnapshot(rows, nil)
	require.NoError(t, err)
	b, err := NewSnapshot([]models.RoleAggregate{rows[1], rows[0]}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, a.Fingerprint())
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	rows[0].Hits = 4
	c, err := NewSnapshot(rows, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	d, err := NewSnapshot(rows, []models.PlayerProfile{{PlayerID: "2", PrimaryPitch: "SL"}})
	require.NoError(t, err)
	assert.NotEqual(t, c.Fingerprint(), d.Fingerprint())
}
