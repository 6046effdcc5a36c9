package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"BaseballMVP/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) models.MatchupPayload {
	t.Helper()
	var p models.MatchupPayload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func violationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	ve, ok := AsError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	out := make(map[string]string, len(ve.Violations))
	for _, v := range ve.Violations {
		out[v.Field] = v.Code
	}
	return out
}

func decodeNumbers(t *testing.T, body string) models.MatchupPayload {
	t.Helper()
	var p models.MatchupPayload
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&p))
	return p
}

func TestValidateLongIDsMatchAcrossForms(t *testing.T) {
	v := New()
	asNumber, err := v.Validate(decodeNumbers(t,
		`{"inning":1,"outs":0,"bases":[0,0,0],"batter_id":99999999999999999999,"pitcher_id":445926.0}`))
	require.NoError(t, err)
	asText, err := v.Validate(decodeNumbers(t,
		`{"inning":1,"outs":0,"bases":[0,0,0],"batter_id":"99999999999999999999","pitcher_id":"0445926"}`))
	require.NoError(t, err)

	assert.Equal(t, "99999999999999999999", asNumber.BatterID)
	assert.Equal(t, asText.BatterID, asNumber.BatterID)
	assert.Equal(t, asText.PitcherID, asNumber.PitcherID)
}

func TestValidateNormalizesRequest(t *testing.T) {
	v := New()
	req, err := v.Validate(decode(t, `{
		"game_id": "G1", "inning": 5, "outs": 1, "bases": [1, 0, 0],
		"batter_id": "444482", "pitcher_id": 445926
	}`))
	require.NoError(t, err)
	assert.Equal(t, models.GameState{GameID: "G1", Inning: 5, Outs: 1, Bases: [3]int{1, 0, 0}}, req.State)
	assert.Equal(t, "444482", req.BatterID)
	assert.Equal(t, "445926", req.PitcherID)
	assert.Empty(t, req.RecentPitches)
}

func TestValidateTruthyBases(t *testing.T) {
	v := New()
	req, err := v.Validate(decode(t, `{"inning": 1, "outs": 0, "bases": [true, 0, "1"], "batter_id": 1, "pitcher_id": 2}`))
	require.NoError(t, err)
	assert.Equal(t, [3]int{1, 0, 1}, req.State.Bases)

	req, err = v.Validate(decode(t, `{"inning": 1, "outs": 0, "bases": ["yes", false, null], "batter_id": 1, "pitcher_id": 2}`))
	require.NoError(t, err)
	assert.Equal(t, [3]int{1, 0, 0}, req.State.Bases)
}

func TestValidateEnumeratesEveryViolation(t *testing.T) {
	v := New()
	_, err := v.Validate(decode(t, `{
		"game_id": 17, "inning": 0, "outs": 3, "bases": [1, 2],
		"batter_id": "", "pitcher_id": true
	}`))
	require.Error(t, err)

	ve, _ := AsError(err)
	fields := make([]string, 0, len(ve.Violations))
	for _, v := range ve.Violations {
		fields = append(fields, v.Field)
	}
	assert.Equal(t, []string{"inning", "outs", "bases", "batter_id", "pitcher_id"}, fields)

	codes := violationFields(t, err)
	assert.Equal(t, "ERR_GTE", codes["inning"])
	assert.Equal(t, "ERR_LTE", codes["outs"])
	assert.Equal(t, "ERR_LEN", codes["bases"])
	assert.Equal(t, "ERR_REQUIRED", codes["batter_id"])
	assert.Equal(t, "ERR_TYPE", codes["pitcher_id"])
	assert.Contains(t, err.Error(), "bases must have exactly 3 entries")
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
		code  string
	}{
		{"missing inning", `{"outs":0,"bases":[0,0,0],"batter_id":1,"pitcher_id":2}`, "inning", "ERR_REQUIRED"},
		{"fractional inning", `{"inning":1.5,"outs":0,"bases":[0,0,0],"batter_id":1,"pitcher_id":2}`, "inning", "ERR_TYPE"},
		{"negative outs", `{"inning":1,"outs":-1,"bases":[0,0,0],"batter_id":1,"pitcher_id":2}`, "outs", "ERR_GTE"},
		{"string outs", `{"inning":1,"outs":"two","bases":[0,0,0],"batter_id":1,"pitcher_id":2}`, "outs", "ERR_TYPE"},
		{"bases too long", `{"inning":1,"outs":0,"bases":[0,0,0,1],"batter_id":1,"pitcher_id":2}`, "bases", "ERR_LEN"},
		{"bases not a list", `{"inning":1,"outs":0,"bases":"100","batter_id":1,"pitcher_id":2}`, "bases", "ERR_TYPE"},
		{"missing bases", `{"inning":1,"outs":0,"batter_id":1,"pitcher_id":2}`, "bases", "ERR_REQUIRED"},
		{"bad flag", `{"inning":1,"outs":0,"bases":[0,"maybe",0],"batter_id":1,"pitcher_id":2}`, "bases[1]", "ERR_TYPE"},
		{"flag out of range", `{"inning":1,"outs":0,"bases":[0,0,3],"batter_id":1,"pitcher_id":2}`, "bases[2]", "ERR_ONEOF"},
		{"missing pitcher", `{"inning":1,"outs":0,"bases":[0,0,0],"batter_id":1}`, "pitcher_id", "ERR_REQUIRED"},
		{"negative id", `{"inning":1,"outs":0,"bases":[0,0,0],"batter_id":-5,"pitcher_id":2}`, "batter_id", "ERR_TYPE"},
		{"negative id string", `{"inning":1,"outs":0,"bases":[0,0,0],"batter_id":"-5","pitcher_id":2}`, "batter_id", "ERR_TYPE"},
		{"inning beyond int range", `{"inning":1e19,"outs":0,"bases":[0,0,0],"batter_id":1,"pitcher_id":2}`, "inning", "ERR_TYPE"},
		{"pitches not a list", `{"inning":1,"outs":0,"bases":[0,0,0],"batter_id":1,"pitcher_id":2,"recent_pitches":{}}`, "recent_pitches", "ERR_TYPE"},
		{"pitch without type", `{"inning":1,"outs":0,"bases":[0,0,0],"batter_id":1,"pitcher_id":2,"recent_pitches":[{"velo":90}]}`, "recent_pitches[0].type", "ERR_REQUIRED"},
		{"pitch bad velo", `{"inning":1,"outs":0,"bases":[0,0,0],"batter_id":1,"pitcher_id":2,"recent_pitches":[{"type":"FF","velo":"fast"}]}`, "recent_pitches[0].velo", "ERR_TYPE"},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(decode(t, tt.body))
			codes := violationFields(t, err)
			assert.Equal(t, tt.code, codes[tt.field], "violations: %v", codes)
		})
	}
}

func TestValidateRecentPitches(t *testing.T) {
	v := New()
	req, err := v.Validate(decode(t, `{
		"inning": 9, "outs": 2, "bases": [0, 1, 1], "batter_id": 1, "pitcher_id": 2,
		"recent_pitches": [{"type": "ff", "velo": 95.1, "spin": 2300, "result": "strike"}, {"type": "SL", "velo": 86.9}]
	}`))
	require.NoError(t, err)
	require.Len(t, req.RecentPitches, 2)
	assert.Equal(t, "FF", req.RecentPitches[0].Type)
	require.NotNil(t, req.RecentPitches[0].Spin)
	assert.InDelta(t, 2300, *req.RecentPitches[0].Spin, 1e-9)

	last, ok := req.LastPitch()
	require.True(t, ok)
	assert.Equal(t, "SL", last.Type)
	assert.Nil(t, last.Spin)
}

func TestGameIDIsNeverValidated(t *testing.T) {
	v := New()
	for _, gid := range []string{`null`, `""`, `12345`, `"  weird id !! "`} {
		req, err := v.Validate(decode(t, `{"game_id":`+gid+`,"inning":1,"outs":0,"bases":[0,0,0],"batter_id":1,"pitcher_id":2}`))
		require.NoError(t, err, gid)
		assert.NotContains(t, req.State.GameID, "  ")
	}
}
