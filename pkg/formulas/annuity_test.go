package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredPayment(t *testing.T) {
	tests := []struct {
		name      string
		target    float64
		present   float64
		rate      float64
		periods   float64
		expected  float64
		tolerance float64
	}{
		{
			name:      "zero rate is linear",
			target:    120000,
			present:   0,
			rate:      0,
			periods:   120,
			expected:  1000,
			tolerance: 0,
		},
		{
			name:      "seven percent over ten years",
			target:    120000,
			present:   0,
			rate:      0.07 / 12,
			periods:   120,
			expected:  693.3,
			tolerance: 3,
		},
		{
			name:      "present savings reduce the payment",
			target:    10000,
			present:   4000,
			rate:      0,
			periods:   60,
			expected:  100,
			tolerance: 1e-9,
		},
		{
			name:      "overfunded goal gives negative payment",
			target:    1000,
			present:   2000,
			rate:      0.05 / 12,
			periods:   12,
			expected:  -89.77,
			tolerance: 0.05,
		},
		{
			name:      "non-positive periods",
			target:    1000,
			present:   0,
			rate:      0.01,
			periods:   0,
			expected:  0,
			tolerance: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiredPayment(tt.target, tt.present, tt.rate, tt.periods)
			assert.InDelta(t, tt.expected, got, tt.tolerance)
		})
	}
}

func TestRequiredPayment_RoundTripsThroughProjectBalance(t *testing.T) {
	rate := 0.06 / 12
	payment := RequiredPayment(50000, 5000, rate, 84)
	assert.InDelta(t, 50000, ProjectBalance(5000, payment, rate, 84), 1e-6)
}

func TestAnnuityFactor_NearZeroRate(t *testing.T) {
	assert.Equal(t, 36.0, AnnuityFactor(1e-12, 36))
	assert.InDelta(t, 36.0, AnnuityFactor(1e-7, 36), 1e-3)
}

func TestCompoundGrowth(t *testing.T) {
	assert.InDelta(t, 1.967, CompoundGrowth(0.07, 10), 0.001)
	assert.Equal(t, 1.0, CompoundGrowth(0.07, 0))
	assert.InDelta(t, math.Pow(0.97, 5), CompoundGrowth(-0.03, 5), 1e-12)
}
