package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsInt(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int
		ok   bool
	}{
		{json.Number("5"), 5, true},
		{json.Number("5.0"), 5, true},
		{json.Number("5.5"), 0, false},
		{float64(2), 2, true},
		{float64(1e19), 0, false},
		{json.Number("1e19"), 0, false},
		{"-1e19", 0, false},
		{" 3 ", 3, true},
		{"three", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := AsInt(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestAsFlag(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int
		ok   bool
	}{
		{true, 1, true},
		{false, 0, true},
		{json.Number("1"), 1, true},
		{json.Number("0"), 0, true},
		{json.Number("2"), 0, false},
		{"1", 1, true},
		{"yes", 1, true},
		{"False", 0, true},
		{"maybe", 0, false},
		{nil, 0, true},
	}
	for _, tt := range tests {
		got, ok := AsFlag(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestCanonicalID(t *testing.T) {
	a, ok := CanonicalID(json.Number("444482"))
	assert.True(t, ok)
	b, _ := CanonicalID("444482")
	c, _ := CanonicalID(" 0444482 ")
	assert.Equal(t, "444482", a)
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)

	s, ok := CanonicalID("B123")
	assert.True(t, ok)
	assert.Equal(t, "B123", s)

	for _, bad := range []interface{}{"", "   ", "-", nil, true, json.Number("-4"), json.Number("1.5")} {
		_, ok := CanonicalID(bad)
		assert.False(t, ok, "%v", bad)
	}
}

func TestCanonicalIDNumberAndStringAgree(t *testing.T) {
	tests := []struct {
		number interface{}
		text   string
		want   string
		ok     bool
	}{
		{json.Number("444482"), "444482", "444482", true},
		{json.Number("444482.0"), "0444482", "444482", true},
		{float64(444482), " 444482 ", "444482", true},
		{json.Number("99999999999999999999"), "99999999999999999999", "99999999999999999999", true},
		{json.Number("0"), "000", "0", true},
		{json.Number("-5"), "-5", "", false},
		{-5, " -5", "", false},
	}
	for _, tt := range tests {
		fromNumber, okNumber := CanonicalID(tt.number)
		fromText, okText := CanonicalID(tt.text)
		assert.Equal(t, tt.ok, okNumber, "%v", tt.number)
		assert.Equal(t, tt.ok, okText, "%q", tt.text)
		assert.Equal(t, tt.want, fromNumber, "%v", tt.number)
		assert.Equal(t, tt.want, fromText, "%q", tt.text)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("x", 7))
	assert.Equal(t, 12, ParseIntDefault("12", 7))
}

func TestAsFloat(t *testing.T) {
	for _, tt := range []struct {
		in   interface{}
		want float64
		ok   bool
	}{
		{json.Number("86.9"), 86.9, true},
		{95.0, 95, true},
		{" 2310 ", 2310, true},
		{7, 7, true},
		{"fast", 0, false},
		{true, 0, false},
		{nil, 0, false},
	} {
		got, ok := AsFloat(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "%v", tt.in)
	}
}
