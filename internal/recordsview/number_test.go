package recordsview

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type label string

func TestToNumber(t *testing.T) {
	seven := 7
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"int", 42, 42},
		{"int64", int64(-3), -3},
		{"uint8", uint8(9), 9},
		{"float", 3.5, 3.5},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"neg inf", float32(math.Inf(-1)), 0},
		{"comma string", "1,234", 1234},
		{"padded string", "  56 ", 56},
		{"decimal string", "1,234.5", 1234.5},
		{"exponent", "1e3", 1000},
		{"hex", "0x1A", 26},
		{"empty", "", 0},
		{"blank", "   ", 0},
		{"garbage", "abc", 0},
		{"infinity string", "Infinity", 0},
		{"json number", json.Number("12"), 12},
		{"named string", label("8"), 8},
		{"bool", true, 1},
		{"pointer", &seven, 7},
		{"struct", struct{}{}, 0},
		{"slice", []int{1}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToNumber(tc.in))
		})
	}
}

func TestFmtInt(t *testing.T) {
	assert.Equal(t, "281,992", FmtInt(281992))
	assert.Equal(t, "281,992", FmtInt("281992"))
	assert.Equal(t, "0", FmtInt(nil))
	assert.Equal(t, "0", FmtInt("not a number"))
	assert.Equal(t, "999", FmtInt(999))
	assert.Equal(t, "1,000,000", FmtInt(1e6))
	assert.Equal(t, "-1,234", FmtInt(-1234))
	assert.Equal(t, "3", FmtInt(2.5))
	assert.Equal(t, "0", FmtInt(-0.2))
}
