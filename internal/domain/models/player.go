package models

// Role is the perspective a player's aggregates are counted from.
type Role string

const (
	RoleBatter  Role = "batter"
	RolePitcher Role = "pitcher"
)

// Roles lists roles in feature-vector order.
var Roles = []Role{RoleBatter, RolePitcher}

func (r Role) Valid() bool { return r == RoleBatter || r == RolePitcher }

// Window is a rolling aggregation period.
type Window string

const (
	Window7d     Window = "7d"
	Window30d    Window = "30d"
	WindowSeason Window = "season"
)

// Windows lists windows in feature-vector order.
var Windows = []Window{Window7d, Window30d, WindowSeason}

func (w Window) Valid() bool {
	return w == Window7d || w == Window30d || w == WindowSeason
}

// Outcome is a plate appearance result the model scores.
type Outcome string

const (
	OutcomeHit       Outcome = "hit"
	OutcomeStrikeout Outcome = "strikeout"
	OutcomeWalk      Outcome = "walk"
)

// Outcomes lists outcomes in feature-vector order.
var Outcomes = []Outcome{OutcomeHit, OutcomeStrikeout, OutcomeWalk}

// RoleAggregate holds counts for one player, role and window.
type RoleAggregate struct {
	PlayerID   string `json:"player"`
	Role       Role   `json:"role"`
	Window     Window `json:"window"`
	PA         int    `json:"pa"`
	Hits       int    `json:"hits"`
	Strikeouts int    `json:"strikeouts"`
	Walks      int    `json:"walks"`
}

// Count returns the number of plate appearances ending in o.
func (a RoleAggregate) Count(o Outcome) int {
	switch o {
	case OutcomeHit:
		return a.Hits
	case OutcomeStrikeout:
		return a.Strikeouts
	case OutcomeWalk:
		return a.Walks
	default:
		return 0
	}
}

// Rate returns the observed rate of o, or 0 with no plate appearances.
func (a RoleAggregate) Rate(o Outcome) float64 {
	if a.PA <= 0 {
		return 0
	}
	return float64(a.Count(o)) / float64(a.PA)
}

// Add accumulates b's counts into a.
func (a *RoleAggregate) Add(b RoleAggregate) {
	a.PA += b.PA
	a.Hits += b.Hits
	a.Strikeouts += b.Strikeouts
	a.Walks += b.Walks
}

// PlayerProfile is static scouting data shown alongside predictions.
type PlayerProfile struct {
	PlayerID     string             `json:"player"`
	Name         string             `json:"name,omitempty"`
	Team         string             `json:"team,omitempty"`
	Throws       string             `json:"throws,omitempty"`
	PrimaryPitch string             `json:"primary_pitch,omitempty"`
	Tendency     string             `json:"tendency,omitempty"`
	PitchMix     map[string]float64 `json:"pitch_mix,omitempty"`
}
