package predictor

import (
	"BaseballMVP/internal/domain/models"
	domsvc "BaseballMVP/internal/domain/service"
	"BaseballMVP/internal/services/features"
)

// Heuristic weights: the batter's own hit rate dominates, nudged toward what
// the pitcher allows. Strikeout and walk rates are the plain average.
const (
	batterHitWeight  = 0.6
	pitcherHitWeight = 0.4
)

// HeuristicPredictor is the always-available fallback. It reads raw season
// rates from the facts and falls back to the smoothed season features when a
// player has no season line.
type HeuristicPredictor struct{}

func NewHeuristicPredictor() *HeuristicPredictor { return &HeuristicPredictor{} }

func (HeuristicPredictor) Predict(vec models.FeatureVector, facts models.Facts) models.Probabilities {
	b := seasonRates(facts.Batter, vec, models.RoleBatter)
	p := seasonRates(facts.Pitcher, vec, models.RolePitcher)
	return models.Probabilities{
		Hit:       Clamp01(batterHitWeight*b.Hit + pitcherHitWeight*p.Hit),
		Strikeout: Clamp01((b.Strikeout + p.Strikeout) / 2),
		Walk:      Clamp01((b.Walk + p.Walk) / 2),
	}
}

func (HeuristicPredictor) Variant() models.Variant { return models.VariantMock }

func seasonRates(line models.SeasonLine, vec models.FeatureVector, role models.Role) models.SeasonLine {
	if line.PA > 0 {
		return line
	}
	return models.SeasonLine{
		Hit:       vec.At(features.RateIndex(role, models.OutcomeHit, models.WindowSeason)),
		Strikeout: vec.At(features.RateIndex(role, models.OutcomeStrikeout, models.WindowSeason)),
		Walk:      vec.At(features.RateIndex(role, models.OutcomeWalk, models.WindowSeason)),
	}
}

var _ domsvc.Predictor = HeuristicPredictor{}
