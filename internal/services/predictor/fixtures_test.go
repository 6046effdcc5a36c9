package predictor

import (
	"path/filepath"
	"testing"

	"BaseballMVP/internal/domain/models"
	"BaseballMVP/internal/services/features"

	"github.com/stretchr/testify/require"
)

// stumpArtifact splits every head on the batter season hit rate.
func stumpArtifact() *Artifact {
	split := features.RateIndex(models.RoleBatter, models.OutcomeHit, models.WindowSeason)
	stump := func(lo, hi float64) Tree {
		return Tree{Nodes: []Node{
			{Feature: split, Threshold: 0.25, Left: 1, Right: 2},
			{IsLeaf: true, Leaf: lo},
			{IsLeaf: true, Leaf: hi},
		}}
	}
	return &Artifact{
		Version:        ArtifactVersion,
		FeatureColumns: features.Columns(),
		Heads: map[models.Outcome]Head{
			models.OutcomeHit:       {BaseScore: Logit(0.23), Trees: []Tree{stump(-0.2, 0.3)}},
			models.OutcomeStrikeout: {BaseScore: Logit(0.22), Trees: []Tree{stump(0.1, -0.1)}},
			models.OutcomeWalk:      {BaseScore: Logit(0.08), Trees: []Tree{stump(0, 0)}},
		},
	}
}

func writeArtifact(t *testing.T, a *Artifact) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, a.Save(path))
	return path
}
