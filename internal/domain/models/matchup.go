package models

import "errors"

// ErrDataUnavailable means the reference dataset is missing or corrupt.
var ErrDataUnavailable = errors.New("reference data unavailable")

// MatchupPayload is the raw request body. Fields stay untyped so the
// validator can accept ids as strings or numbers and truthy base flags.
type MatchupPayload struct {
	GameID        interface{} `json:"game_id"`
	Inning        interface{} `json:"inning"`
	Outs          interface{} `json:"outs"`
	Bases         interface{} `json:"bases"`
	BatterID      interface{} `json:"batter_id"`
	PitcherID     interface{} `json:"pitcher_id"`
	RecentPitches interface{} `json:"recent_pitches,omitempty"`
}

// GameState is the normalized game situation.
type GameState struct {
	GameID string `json:"game_id"`
	Inning int    `json:"inning"`
	Outs   int    `json:"outs"`
	Bases  [3]int `json:"bases"`
}

// RunnersOn counts occupied bases.
func (g GameState) RunnersOn() int {
	return g.Bases[0] + g.Bases[1] + g.Bases[2]
}

// PitchEvent is one recently thrown pitch.
type PitchEvent struct {
	Type   string   `json:"type"`
	Velo   *float64 `json:"velo,omitempty"`
	Spin   *float64 `json:"spin,omitempty"`
	Result string   `json:"result,omitempty"`
}

// MatchupRequest is a validated, normalized prediction request.
type MatchupRequest struct {
	State         GameState    `json:"state"`
	BatterID      string       `json:"batter_id"`
	PitcherID     string       `json:"pitcher_id"`
	RecentPitches []PitchEvent `json:"recent_pitches,omitempty"`
}

// LastPitch returns the most recent pitch, if any.
func (r MatchupRequest) LastPitch() (PitchEvent, bool) {
	if len(r.RecentPitches) == 0 {
		return PitchEvent{}, false
	}
	return r.RecentPitches[len(r.RecentPitches)-1], true
}
