package features

import (
	"BaseballMVP/internal/domain/models"
	"BaseballMVP/pkg/config"
)

// Smooth blends an observed rate over n plate appearances with a prior rate
// worth strength pseudo plate appearances:
//
//	(n*observed + strength*prior) / (n + strength)
//
// With no sample it returns the prior; as n grows it converges to observed.
func Smooth(n int, observed, prior, strength float64) float64 {
	if n <= 0 {
		return prior
	}
	if strength < 0 {
		strength = 0
	}
	fn := float64(n)
	return (fn*observed + strength*prior) / (fn + strength)
}

// SmoothAggregate smooths outcome o of a against prior.
func SmoothAggregate(a models.RoleAggregate, o models.Outcome, prior, strength float64) float64 {
	return Smooth(a.PA, a.Rate(o), prior, strength)
}

// RatePriorFor returns the configured prior block for o.
func RatePriorFor(s config.Smoothing, o models.Outcome) config.RatePrior {
	switch o {
	case models.OutcomeStrikeout:
		return s.Strikeout
	case models.OutcomeWalk:
		return s.Walk
	default:
		return s.Hit
	}
}

// Strength returns the pseudo-count of p for window w.
func Strength(p config.RatePrior, w models.Window) float64 {
	switch w {
	case models.Window7d:
		return p.Strength7d
	case models.Window30d:
		return p.Strength30d
	default:
		return p.StrengthSeason
	}
}
