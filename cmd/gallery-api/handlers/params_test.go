package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 20},
		{"  ", 20},
		{"7", 7},
		{" 7 ", 7},
		{"2.9", 2},
		{"-3", -3},
		{"abc", 20},
		{"NaN", 20},
		{"Infinity", 20},
		{"-Inf", 20},
		{"1e3", 1000},
		{"1e300", 1000000000},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseIntParam(tt.raw, 20))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, clamp(0, 1, 100))
	assert.Equal(t, 100, clamp(5000, 1, 100))
	assert.Equal(t, 42, clamp(42, 1, 100))
}
