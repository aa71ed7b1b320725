package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		num, den string
		want     float64
	}{
		{name: "divisão exata", num: "300", den: "100", want: 3},
		{name: "dízima arredondada", num: "1000", den: "300", want: 3.33},
		{name: "arredonda para cima", num: "2", den: "3", want: 0.67},
		{name: "denominador zero", num: "10", den: "0", want: 0},
		{name: "denominador negativo", num: "10", den: "-2", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(decimal.RequireFromString(tt.num), decimal.RequireFromString(tt.den))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 12.5, Percent(1, 8))
	assert.Equal(t, 33.33, Percent(1, 3))
	assert.Equal(t, float64(0), Percent(5, 0))
}
