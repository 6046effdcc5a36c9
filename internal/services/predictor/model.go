package predictor

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"BaseballMVP/internal/domain/models"
	domsvc "BaseballMVP/internal/domain/service"
)

// ModelPredictor scores vectors with a loaded tree ensemble.
type ModelPredictor struct {
	artifact    *Artifact
	fingerprint string
}

func NewModelPredictor(a *Artifact) *ModelPredictor {
	b, _ := json.Marshal(a)
	sum := sha256.Sum256(b)
	return &ModelPredictor{artifact: a, fingerprint: hex.EncodeToString(sum[:8])}
}

// Fingerprint identifies the loaded ensemble, metadata included.
func (p *ModelPredictor) Fingerprint() string { return p.fingerprint }

func (p *ModelPredictor) Predict(vec models.FeatureVector, _ models.Facts) models.Probabilities {
	return models.Probabilities{
		Hit:       Clamp01(p.artifact.Heads[models.OutcomeHit].Probability(vec)),
		Strikeout: Clamp01(p.artifact.Heads[models.OutcomeStrikeout].Probability(vec)),
		Walk:      Clamp01(p.artifact.Heads[models.OutcomeWalk].Probability(vec)),
	}
}

func (p *ModelPredictor) Variant() models.Variant { return models.VariantModel }

var _ domsvc.Predictor = (*ModelPredictor)(nil)
