package training

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"BaseballMVP/internal/domain/models"
	"BaseballMVP/internal/services/features"
	"BaseballMVP/internal/services/predictor"
	xutil "BaseballMVP/pkg/util"
)

// Matchup is one batter-vs-pitcher outcome row.
type Matchup struct {
	Batter     interface{} `json:"batter"`
	Pitcher    interface{} `json:"pitcher"`
	PA         int         `json:"pa"`
	Hits       int         `json:"hits"`
	Strikeouts int         `json:"strikeouts"`
	Walks      int         `json:"walks"`
}

// LoadMatchups reads a JSON array of matchup rows.
func LoadMatchups(path string) ([]Matchup, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read matchups: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var rows []Matchup
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode matchups: %w", err)
	}
	return rows, nil
}

// NeutralState is the situation used for every training row; the outcome
// table carries no game context.
var NeutralState = models.GameState{Inning: 1}

// Report summarizes a training run.
type Report struct {
	Rows    int
	Skipped int
	LogLoss map[models.Outcome]float64
	Trees   map[models.Outcome]int
}

// BuildSamples resolves every valid row into one sample set per outcome.
func BuildSamples(r *features.Resolver, rows []Matchup) (map[models.Outcome][]Sample, int, error) {
	out := make(map[models.Outcome][]Sample, len(models.Outcomes))
	skipped := 0
	for _, m := range rows {
		b, okB := xutil.CanonicalID(m.Batter)
		p, okP := xutil.CanonicalID(m.Pitcher)
		if !okB || !okP || m.PA <= 0 || m.Hits < 0 || m.Strikeouts < 0 || m.Walks < 0 ||
			m.Hits+m.Strikeouts+m.Walks > m.PA {
			skipped++
			continue
		}
		vec, _, err := r.Resolve(b, p, NeutralState)
		if err != nil {
			return nil, 0, fmt.Errorf("resolve %s vs %s: %w", b, p, err)
		}
		counts := map[models.Outcome]int{
			models.OutcomeHit:       m.Hits,
			models.OutcomeStrikeout: m.Strikeouts,
			models.OutcomeWalk:      m.Walks,
		}
		for _, o := range models.Outcomes {
			out[o] = append(out[o], Sample{X: vec, Pos: float64(counts[o]), Neg: float64(m.PA - counts[o])})
		}
	}
	return out, skipped, nil
}

// Train fits one head per outcome and returns the artifact.
func Train(r *features.Resolver, rows []Matchup, p Params) (*predictor.Artifact, Report, error) {
	samples, skipped, err := BuildSamples(r, rows)
	if err != nil {
		return nil, Report{}, err
	}
	rep := Report{
		Rows:    len(rows) - skipped,
		Skipped: skipped,
		LogLoss: make(map[models.Outcome]float64),
		Trees:   make(map[models.Outcome]int),
	}
	art := &predictor.Artifact{
		Version:        predictor.ArtifactVersion,
		FeatureColumns: features.Columns(),
		Heads:          make(map[models.Outcome]predictor.Head),
		Meta: map[string]string{
			"trained_at": time.Now().UTC().Format(time.RFC3339),
			"rows":       fmt.Sprint(rep.Rows),
		},
	}
	for _, o := range models.Outcomes {
		h, err := FitHead(samples[o], p)
		if err != nil {
			return nil, Report{}, fmt.Errorf("fit %s head: %w", o, err)
		}
		art.Heads[o] = h
		rep.LogLoss[o] = LogLoss(h, samples[o])
		rep.Trees[o] = len(h.Trees)
	}
	return art, rep, nil
}
