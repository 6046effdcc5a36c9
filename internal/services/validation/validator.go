package validation

import (
	"errors"
	"fmt"
	"strings"

	"BaseballMVP/internal/domain/models"
	xhttp "BaseballMVP/pkg/http"
	xutil "BaseballMVP/pkg/util"

	"github.com/go-playground/validator/v10"
)

// Error lists every violated rule of one request.
type Error struct {
	Violations []xhttp.ValidationError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return "invalid matchup request: " + strings.Join(msgs, "; ")
}

// AsError unwraps a validation failure.
func AsError(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

const (
	codeRequired = "ERR_REQUIRED"
	codeType     = "ERR_TYPE"
)

const (
	ruleInning    = "gte=1"
	ruleOuts      = "gte=0,lte=2"
	ruleBases     = "len=3"
	ruleBaseFlag  = "oneof=0 1"
	rulePitchType = "required"
	ruleSpeed     = "gte=0"
)

// Validator normalizes raw matchup payloads.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: xhttp.NewValidator()}
}

// collector accumulates violations in field order.
type collector struct {
	v    *validator.Validate
	errs []xhttp.ValidationError
}

func (c *collector) add(code, field, msg string) {
	c.errs = append(c.errs, xhttp.ValidationError{Code: code, Field: field, Message: msg})
}

func (c *collector) required(field string) {
	c.add(codeRequired, field, fmt.Sprintf("%s is required", field))
}

func (c *collector) badType(field, want string) {
	c.add(codeType, field, fmt.Sprintf("%s must be %s", field, want))
}

// check runs one validator rule against an already-coerced value.
func (c *collector) check(field string, value interface{}, rule string) bool {
	err := c.v.Var(value, rule)
	if err == nil {
		return true
	}
	var fes validator.ValidationErrors
	if errors.As(err, &fes) {
		for _, fe := range fes {
			c.errs = append(c.errs, xhttp.FieldValidationError(fe, field))
		}
		return false
	}
	c.add("ERR_UNKNOWN", field, err.Error())
	return false
}

// Validate coerces and checks a payload. On failure the error is an *Error
// carrying all violations, not just the first.
func (v *Validator) Validate(p models.MatchupPayload) (models.MatchupRequest, error) {
	c := &collector{v: v.v}
	var req models.MatchupRequest

	req.State.GameID = strings.TrimSpace(xutil.AsString(p.GameID))
	req.State.Inning = c.integer("inning", p.Inning, ruleInning)
	req.State.Outs = c.integer("outs", p.Outs, ruleOuts)
	req.State.Bases = c.bases(p.Bases)
	req.BatterID = c.playerID("batter_id", p.BatterID)
	req.PitcherID = c.playerID("pitcher_id", p.PitcherID)
	req.RecentPitches = c.pitches(p.RecentPitches)

	if len(c.errs) > 0 {
		return models.MatchupRequest{}, &Error{Violations: c.errs}
	}
	return req, nil
}

func (c *collector) integer(field string, raw interface{}, rule string) int {
	if raw == nil {
		c.required(field)
		return 0
	}
	n, ok := xutil.AsInt(raw)
	if !ok {
		c.badType(field, "an integer")
		return 0
	}
	c.check(field, n, rule)
	return n
}

func (c *collector) bases(raw interface{}) [3]int {
	var out [3]int
	if raw == nil {
		c.required("bases")
		return out
	}
	list, ok := raw.([]interface{})
	if !ok {
		c.badType("bases", "a list of 3 flags")
		return out
	}
	if !c.check("bases", list, ruleBases) {
		return out
	}
	for i, entry := range list {
		field := fmt.Sprintf("bases[%d]", i)
		flag, ok := xutil.AsInt(entry)
		if !ok {
			if flag, ok = xutil.AsFlag(entry); !ok {
				c.badType(field, "0 or 1")
				continue
			}
		}
		if c.check(field, flag, ruleBaseFlag) {
			out[i] = flag
		}
	}
	return out
}

func (c *collector) playerID(field string, raw interface{}) string {
	if s, isStr := raw.(string); raw == nil || (isStr && strings.TrimSpace(s) == "") {
		c.required(field)
		return ""
	}
	id, ok := xutil.CanonicalID(raw)
	if !ok {
		c.badType(field, "a non-negative integer or non-empty string")
		return ""
	}
	return id
}

func (c *collector) pitches(raw interface{}) []models.PitchEvent {
	if raw == nil {
		return nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		c.badType("recent_pitches", "a list")
		return nil
	}
	out := make([]models.PitchEvent, 0, len(list))
	for i, entry := range list {
		prefix := fmt.Sprintf("recent_pitches[%d]", i)
		obj, ok := entry.(map[string]interface{})
		if !ok {
			c.badType(prefix, "an object")
			continue
		}
		ev := models.PitchEvent{
			Type:   strings.ToUpper(strings.TrimSpace(xutil.AsString(obj["type"]))),
			Result: strings.TrimSpace(xutil.AsString(obj["result"])),
		}
		valid := c.check(prefix+".type", ev.Type, rulePitchType)
		ev.Velo, ok = c.speed(prefix+".velo", obj["velo"])
		valid = valid && ok
		ev.Spin, ok = c.speed(prefix+".spin", obj["spin"])
		valid = valid && ok
		if valid {
			out = append(out, ev)
		}
	}
	return out
}

func (c *collector) speed(field string, raw interface{}) (*float64, bool) {
	if raw == nil {
		return nil, true
	}
	f, ok := xutil.AsFloat(raw)
	if !ok {
		c.badType(field, "a number")
		return nil, false
	}
	if !c.check(field, f, ruleSpeed) {
		return nil, false
	}
	return &f, true
}
