package features

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"BaseballMVP/internal/domain/models"
	domrepo "BaseballMVP/internal/domain/repository"
	"BaseballMVP/pkg/config"
	applogger "BaseballMVP/pkg/logger"
)

// Resolver maps a batter/pitcher pair and game state to a feature vector.
// It only reads the store, so one instance serves all requests.
type Resolver struct {
	store     domrepo.AggregateStore
	smoothing config.Smoothing
	l         *applogger.Logger
}

func NewResolver(store domrepo.AggregateStore, smoothing config.Smoothing) *Resolver {
	return &Resolver{store: store, smoothing: smoothing}
}

// SetLogger injects a structured logger.
func (r *Resolver) SetLogger(l *applogger.Logger) { r.l = l }

// Fingerprint identifies the reference rows and smoothing settings behind
// every vector this resolver builds.
func (r *Resolver) Fingerprint() string {
	data := "none"
	if fp, ok := r.store.(interface{ Fingerprint() string }); ok {
		data = fp.Fingerprint()
	}
	b, _ := json.Marshal(r.smoothing)
	sum := sha256.Sum256(append([]byte(data+"|"), b...))
	return hex.EncodeToString(sum[:8])
}

// Prior returns the prior rate for outcome o of role in window w: the league
// rate when derivation from data is on and the league has plate appearances,
// otherwise the configured rate.
func (r *Resolver) Prior(role models.Role, w models.Window, o models.Outcome) float64 {
	if r.smoothing.DerivePriorFromData && r.store != nil {
		if league := r.store.League(role, w); league.PA > 0 {
			return league.Rate(o)
		}
	}
	return RatePriorFor(r.smoothing, o).Rate
}

func (r *Resolver) smoothed(id string, role models.Role, w models.Window, o models.Outcome) (float64, models.RoleAggregate, bool) {
	agg, ok := r.store.Aggregate(id, role, w)
	prior := r.Prior(role, w, o)
	if !ok {
		return prior, agg, false
	}
	return SmoothAggregate(agg, o, prior, Strength(RatePriorFor(r.smoothing, o), w)), agg, true
}

// Resolve builds the feature vector and display facts. A player without
// history contributes prior-only rates. It fails only when no dataset is attached.
func (r *Resolver) Resolve(batterID, pitcherID string, state models.GameState) (models.FeatureVector, models.Facts, error) {
	if r.store == nil {
		return nil, models.Facts{}, models.ErrDataUnavailable
	}

	vec := make(models.FeatureVector, 0, Width())
	ids := map[models.Role]string{models.RoleBatter: batterID, models.RolePitcher: pitcherID}
	for _, role := range models.Roles {
		for _, w := range models.Windows {
			for _, o := range models.Outcomes {
				v, _, _ := r.smoothed(ids[role], role, w, o)
				vec = append(vec, v)
			}
		}
	}
	vec = append(vec,
		float64(state.Inning),
		float64(state.Outs),
		float64(state.RunnersOn()),
		float64(state.Bases[0]),
		float64(state.Bases[1]),
		float64(state.Bases[2]),
	)

	facts := r.facts(batterID, pitcherID)
	return vec, facts, nil
}

func (r *Resolver) facts(batterID, pitcherID string) models.Facts {
	var f models.Facts

	if p, ok := r.store.Profile(batterID); ok {
		f.BatterProfile = &p
	}
	if p, ok := r.store.Profile(pitcherID); ok {
		f.PitcherProfile = &p
	}

	if season, ok := r.store.Aggregate(batterID, models.RoleBatter, models.WindowSeason); ok && season.PA > 0 {
		f.Batter = seasonLine(season)
		f.Lines = append(f.Lines,
			fmt.Sprintf("Batter season avg: %s (%d PA)", FormatAverage(f.Batter.Hit), season.PA),
			fmt.Sprintf("Batter season K rate: %s, BB rate: %s", FormatPercent(f.Batter.Strikeout), FormatPercent(f.Batter.Walk)),
		)
	} else {
		f.Lines = append(f.Lines, fmt.Sprintf("No season history for batter %s; using league prior", batterID))
		r.debugUnknown(batterID, models.RoleBatter)
	}
	if recent, ok := r.store.Aggregate(batterID, models.RoleBatter, models.Window7d); ok && recent.PA > 0 {
		f.Lines = append(f.Lines, fmt.Sprintf("Batter last 7 days: %s over %d PA",
			FormatAverage(recent.Rate(models.OutcomeHit)), recent.PA))
	}

	if season, ok := r.store.Aggregate(pitcherID, models.RolePitcher, models.WindowSeason); ok && season.PA > 0 {
		f.Pitcher = seasonLine(season)
		f.Lines = append(f.Lines,
			fmt.Sprintf("Pitcher season avg allowed: %s (%d PA)", FormatAverage(f.Pitcher.Hit), season.PA),
			fmt.Sprintf("Pitcher season K rate: %s, BB rate: %s", FormatPercent(f.Pitcher.Strikeout), FormatPercent(f.Pitcher.Walk)),
		)
	} else {
		f.Lines = append(f.Lines, fmt.Sprintf("No season history for pitcher %s; using league prior", pitcherID))
		r.debugUnknown(pitcherID, models.RolePitcher)
	}
	return f
}

func (r *Resolver) debugUnknown(id string, role models.Role) {
	if r.l != nil {
		r.l.Debug("no season history, prior only", applogger.String("player", id), applogger.String("role", string(role)))
	}
}

func seasonLine(a models.RoleAggregate) models.SeasonLine {
	return models.SeasonLine{
		PA:        a.PA,
		Hit:       a.Rate(models.OutcomeHit),
		Strikeout: a.Rate(models.OutcomeStrikeout),
		Walk:      a.Rate(models.OutcomeWalk),
	}
}

// PlayerRates reports raw and smoothed rates for one player and role.
func (r *Resolver) PlayerRates(id string, role models.Role) (models.PlayerRatesResponse, error) {
	if r.store == nil {
		return models.PlayerRatesResponse{}, models.ErrDataUnavailable
	}
	out := models.PlayerRatesResponse{PlayerID: id, Role: role}
	for _, w := range models.Windows {
		hit, agg, ok := r.smoothed(id, role, w, models.OutcomeHit)
		k, _, _ := r.smoothed(id, role, w, models.OutcomeStrikeout)
		bb, _, _ := r.smoothed(id, role, w, models.OutcomeWalk)
		out.Known = out.Known || ok
		out.Windows = append(out.Windows, models.WindowRates{
			Window:     w,
			PA:         agg.PA,
			Hit:        agg.Rate(models.OutcomeHit),
			Strikeout:  agg.Rate(models.OutcomeStrikeout),
			Walk:       agg.Rate(models.OutcomeWalk),
			HitSmooth:  hit,
			KSmooth:    k,
			WalkSmooth: bb,
		})
	}
	if p, ok := r.store.Profile(id); ok {
		out.Profile = &p
	}
	return out, nil
}

// FormatAverage renders a rate the way batting averages are printed: .289.
func FormatAverage(rate float64) string {
	s := fmt.Sprintf("%.3f", rate)
	return strings.TrimPrefix(s, "0")
}

// FormatPercent renders a rate as a one-decimal percentage.
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}
