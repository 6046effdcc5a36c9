package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"BaseballMVP/internal/domain/models"
	xutil "BaseballMVP/pkg/util"
)

type fileAggregate struct {
	Player     interface{}   `json:"player"`
	Role       models.Role   `json:"role"`
	Window     models.Window `json:"window"`
	PA         int           `json:"pa"`
	Hits       int           `json:"hits"`
	Strikeouts int           `json:"strikeouts"`
	Walks      int           `json:"walks"`
}

type fileProfile struct {
	Player       interface{}        `json:"player"`
	Name         string             `json:"name"`
	Team         string             `json:"team"`
	Throws       string             `json:"throws"`
	PrimaryPitch string             `json:"primary_pitch"`
	Tendency     string             `json:"tendency"`
	PitchMix     map[string]float64 `json:"pitch_mix"`
}

type fileDataset struct {
	Aggregates []fileAggregate `json:"aggregates"`
	Profiles   []fileProfile   `json:"profiles"`
}

// LoadFileSnapshot reads the reference dataset from a JSON file.
func LoadFileSnapshot(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", models.ErrDataUnavailable, path, err)
	}
	return ParseSnapshot(b)
}

// ParseSnapshot decodes a JSON dataset. Player ids may be strings or integers.
func ParseSnapshot(b []byte) (*Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	dec.DisallowUnknownFields()

	var ds fileDataset
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("%w: decode dataset: %v", models.ErrDataUnavailable, err)
	}
	if len(ds.Aggregates) == 0 {
		return nil, fmt.Errorf("%w: dataset has no aggregates", models.ErrDataUnavailable)
	}

	aggs := make([]models.RoleAggregate, 0, len(ds.Aggregates))
	for i, a := range ds.Aggregates {
		id, ok := xutil.CanonicalID(a.Player)
		if !ok {
			return nil, fmt.Errorf("%w: aggregate %d: bad player id %v", models.ErrDataUnavailable, i, a.Player)
		}
		aggs = append(aggs, models.RoleAggregate{
			PlayerID:   id,
			Role:       a.Role,
			Window:     a.Window,
			PA:         a.PA,
			Hits:       a.Hits,
			Strikeouts: a.Strikeouts,
			Walks:      a.Walks,
		})
	}

	profiles := make([]models.PlayerProfile, 0, len(ds.Profiles))
	for i, p := range ds.Profiles {
		id, ok := xutil.CanonicalID(p.Player)
		if !ok {
			return nil, fmt.Errorf("%w: profile %d: bad player id %v", models.ErrDataUnavailable, i, p.Player)
		}
		profiles = append(profiles, models.PlayerProfile{
			PlayerID:     id,
			Name:         p.Name,
			Team:         p.Team,
			Throws:       p.Throws,
			PrimaryPitch: p.PrimaryPitch,
			Tendency:     p.Tendency,
			PitchMix:     p.PitchMix,
		})
	}

	return NewSnapshot(aggs, profiles)
}
