package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"1.234,56", 1234.56, true},
		{"1234.56", 1234.56, true},
		{"1.234.567,89", 1234567.89, true},
		{"R$ 1.234,56", 1234.56, true},
		{"-12,5", -12.5, true},
		{"1.234", 1234, true},
		{"0,75%", 0.75, true},
		{"42", 42, true},
		{"", 0, false},
		{"-", 0, false},
		{"null", 0, false},
		{"abc", 0, false},
		{"1,234.56", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	assert.Equal(t, 1234.56, CoerceNumber("1.234,56"))
	assert.Equal(t, "", CoerceNumber(""))
	assert.Equal(t, "n/d", CoerceNumber("n/d"))
}
