package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8000, c.Server.Port)
	assert.Equal(t, 10*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, "file", c.Reference.Source)
	assert.Equal(t, "models/matchup_gbt.json", c.Model.Path)
	assert.True(t, c.Model.Enabled)
	assert.True(t, c.Smoothing.DerivePriorFromData)
	assert.Equal(t, 200.0, c.Smoothing.Hit.StrengthSeason)
	assert.Equal(t, 10.0, c.Smoothing.Hit.Strength7d)
	assert.InDelta(t, 0.084, c.Smoothing.Walk.Rate, 1e-9)
}

func TestLoadKeepsExplicitFalse(t *testing.T) {
	path := writeConfig(t, "environment: test\nmodel:\n  enabled: false\nsmoothing:\n  derive_prior_from_data: false\n  hit:\n    strength_season: 50\n")

	c, err := Load(path)
	require.NoError(t, err)

	assert.False(t, c.Model.Enabled)
	assert.False(t, c.Smoothing.DerivePriorFromData)
	assert.Equal(t, 50.0, c.Smoothing.Hit.StrengthSeason)
	assert.Equal(t, 40.0, c.Smoothing.Hit.Strength30d)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "unknown source", mutate: func(c *Config) { c.Reference.Source = "parquet" }, wantErr: true},
		{name: "empty path", mutate: func(c *Config) { c.Reference.Path = "" }, wantErr: true},
		{name: "kafka without brokers", mutate: func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }, wantErr: true},
		{name: "prior rate above one", mutate: func(c *Config) { c.Smoothing.Hit.Rate = 1.5 }, wantErr: true},
		{name: "negative strength", mutate: func(c *Config) { c.Smoothing.Walk.Strength7d = -1 }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	t.Setenv("MODEL_PATH", "/tmp/model.json")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PORT", "9100")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/model.json", c.Model.Path)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, 9100, c.Server.Port)
}
