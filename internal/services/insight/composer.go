package insight

import (
	"fmt"
	"sort"
	"strings"

	"BaseballMVP/internal/domain/models"
)

const unknown = "unknown"

var headline = map[models.Outcome]string{
	models.OutcomeHit:       "Batter has the edge: a hit is the most likely scored outcome",
	models.OutcomeStrikeout: "Pitcher has the edge: a strikeout is the most likely scored outcome",
	models.OutcomeWalk:      "Plate discipline matters: walk chance is the standout",
}

var advice = map[models.Outcome]string{
	models.OutcomeHit:       "Be aggressive early in the count and attack pitches in the zone.",
	models.OutcomeStrikeout: "Shorten the swing with two strikes and protect the plate.",
	models.OutcomeWalk:      "Be selective and make the pitcher throw strikes.",
}

// Composer renders predictions into the response body. It only selects and
// formats values computed upstream.
type Composer struct{}

func NewComposer() *Composer { return &Composer{} }

// Compose builds the response for one prediction.
func (c *Composer) Compose(req models.MatchupRequest, facts models.Facts, probs models.Probabilities, variant models.Variant) models.PredictionResponse {
	top := Leading(probs)

	explanation := make([]string, 0, len(facts.Lines)+4)
	explanation = append(explanation, variant.Marker(), headline[top], "Situation: "+Situation(req.State))
	explanation = append(explanation, facts.Lines...)
	if p, ok := req.LastPitch(); ok {
		explanation = append(explanation, "Last pitch: "+describePitch(p))
	}

	return models.PredictionResponse{
		HitProb:        probs.Hit,
		KProb:          probs.Strikeout,
		WalkProb:       probs.Walk,
		Explanation:    explanation,
		BatterStrategy: c.strategy(top, req.State, facts.PitcherProfile),
		PitcherHabits:  Habits(facts.PitcherProfile),
	}
}

// Leading returns the outcome with the highest probability; ties keep the
// first in hit, strikeout, walk order.
func Leading(p models.Probabilities) models.Outcome {
	best := models.Outcomes[0]
	for _, o := range models.Outcomes[1:] {
		if p.Of(o) > p.Of(best) {
			best = o
		}
	}
	return best
}

func (c *Composer) strategy(top models.Outcome, s models.GameState, pitcher *models.PlayerProfile) map[string]string {
	focus := "Track the ball out of the hand and react."
	if pitcher != nil && pitcher.PrimaryPitch != "" {
		focus = fmt.Sprintf("Sit on the %s; it is this pitcher's primary offering.", pitcher.PrimaryPitch)
	}
	return map[string]string{
		"advice":    advice[top],
		"focus":     focus,
		"situation": situationAdvice(s),
	}
}

func situationAdvice(s models.GameState) string {
	scoring := s.Bases[1] == 1 || s.Bases[2] == 1
	switch {
	case scoring && s.Outs == 2:
		return "Two outs with a runner in scoring position: any hit likely scores a run."
	case scoring:
		return "Runner in scoring position: productive contact matters more than power."
	case s.Bases[0] == 1 && s.Outs < 2:
		return "Double play in order: drive the ball in the air."
	case s.RunnersOn() == 0:
		return "Bases empty: the priority is reaching base."
	default:
		return "Keep the inning alive."
	}
}

// Situation renders the game state as a short phrase.
func Situation(s models.GameState) string {
	outs := "outs"
	if s.Outs == 1 {
		outs = "out"
	}
	return fmt.Sprintf("inning %d, %d %s, %s", s.Inning, s.Outs, outs, runners(s.Bases))
}

func runners(b [3]int) string {
	names := [3]string{"1st", "2nd", "3rd"}
	var on []string
	for i, v := range b {
		if v == 1 {
			on = append(on, names[i])
		}
	}
	switch len(on) {
	case 0:
		return "bases empty"
	case 1:
		return "runner on " + on[0]
	case 3:
		return "bases loaded"
	default:
		return "runners on " + strings.Join(on, " and ")
	}
}

func describePitch(p models.PitchEvent) string {
	parts := []string{p.Type}
	if p.Velo != nil {
		parts = append(parts, fmt.Sprintf("%.1f mph", *p.Velo))
	}
	if p.Spin != nil {
		parts = append(parts, fmt.Sprintf("%.0f rpm", *p.Spin))
	}
	s := strings.Join(parts, " ")
	if p.Result != "" {
		s += " (" + p.Result + ")"
	}
	return s
}

// Habits is the static scouting summary for a pitcher.
func Habits(p *models.PlayerProfile) map[string]string {
	h := map[string]string{
		"primary_pitch": unknown,
		"tendency":      "No scouting report available",
	}
	if p == nil {
		return h
	}
	if p.PrimaryPitch != "" {
		h["primary_pitch"] = p.PrimaryPitch
	}
	if p.Tendency != "" {
		h["tendency"] = p.Tendency
	}
	if p.Throws != "" {
		h["throws"] = p.Throws
	}
	if p.Name != "" {
		h["name"] = p.Name
	}
	if mix := PitchMix(p.PitchMix); mix != "" {
		h["pitch_mix"] = mix
	}
	return h
}

// PitchMix renders usage shares largest first, e.g. "FB 60% / SL 28% / CH 12%".
func PitchMix(mix map[string]float64) string {
	if len(mix) == 0 {
		return ""
	}
	pitches := make([]string, 0, len(mix))
	for k := range mix {
		pitches = append(pitches, k)
	}
	sort.Slice(pitches, func(i, j int) bool {
		if mix[pitches[i]] != mix[pitches[j]] {
			return mix[pitches[i]] > mix[pitches[j]]
		}
		return pitches[i] < pitches[j]
	})
	parts := make([]string, 0, len(pitches))
	for _, k := range pitches {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", k, mix[k]*100))
	}
	return strings.Join(parts, " / ")
}
