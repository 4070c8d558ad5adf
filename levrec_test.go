package levrec

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestSameAmount(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"equal", "163.00", "163.00", true},
		{"within tolerance", "163.00", "163.004", true},
		{"at tolerance", "163.00", "163.005", true},
		{"beyond tolerance", "163.00", "163.006", false},
		{"sign matters", "163.00", "-163.00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := decimal.RequireFromString(tt.a)
			b := decimal.RequireFromString(tt.b)
			assert.Equal(t, cfg.SameAmount(a, b), tt.want)
		})
	}
}

func TestNegligible(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Negligible(decimal.Zero))
	assert.True(t, cfg.Negligible(decimal.RequireFromString("0.005")))
	assert.True(t, cfg.Negligible(decimal.RequireFromString("-0.005")))
	assert.False(t, cfg.Negligible(decimal.RequireFromString("0.01")))
}
