package setpoint

import (
	"testing"

	"github.com/nergy-se/climate-controller/pkg/api/v1/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thresholds() config.Thresholds {
	th := config.DefaultThresholds()
	th.MinAbsPrice = 1
	th.MaxAbsPrice = 100
	return th
}

func TestDecide(t *testing.T) {
	var tests = []struct {
		name     string
		inside   float64
		price    float64
		mean     float64
		modify   func(*config.Thresholds)
		expected float64
	}{
		{name: "below min temp", inside: 17.9, price: 50, mean: 10, expected: 18},
		{name: "exactly min temp is not below", inside: 18, price: 10, mean: 10, expected: 23},
		{name: "above max temp", inside: 24.5, price: 2, mean: 10, expected: 24},
		{name: "above max absolute price", inside: 21, price: 101, mean: 100, expected: 18},
		{name: "below min absolute price", inside: 21, price: 0.5, mean: 0.6, expected: 24},
		{name: "above mean band", inside: 21, price: 15.1, mean: 10, expected: 18},
		{name: "below mean band", inside: 21, price: 4.9, mean: 10, modify: func(th *config.Thresholds) { th.MinAbsPrice = 0 }, expected: 24},
		{name: "top of band", inside: 21, price: 15, mean: 10, expected: 18},
		{name: "at mean", inside: 21, price: 10, mean: 10, expected: 23},
		{name: "half way up", inside: 21, price: 12.5, mean: 10, expected: 20.5},
		{name: "half way down", inside: 21, price: 7.5, mean: 10, expected: 23.5},
		{name: "bottom of band", inside: 21, price: 5, mean: 10, expected: 24},
		{name: "negative price counts as zero", inside: 21, price: -3, mean: 10, modify: func(th *config.Thresholds) { th.MinAbsPrice = 0 }, expected: 24},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			th := thresholds()
			if tt.modify != nil {
				tt.modify(&th)
			}
			actual, err := Decide(tt.inside, tt.price, tt.mean, th)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, actual, 1e-9)
		})
	}
}

func TestDecideMonotonic(t *testing.T) {
	th := thresholds()
	th.MinAbsPrice = 0
	for _, inside := range []float64{18, 20, 22.5, 24} {
		last, err := Decide(inside, 0, 10, th)
		require.NoError(t, err)
		for p := 0.0; p <= 40; p += 0.1 {
			actual, err := Decide(inside, p, 10, th)
			require.NoError(t, err)
			assert.LessOrEqual(t, actual, last+1e-9, "inside %v price %v", inside, p)
			last = actual
		}
	}
}

func TestDecideDegenerateBand(t *testing.T) {
	th := thresholds()
	th.MaxPriceMult = 1
	_, err := Decide(21, 10, 10, th)
	assert.ErrorIs(t, err, ErrDegenerateBand)

	th = thresholds()
	th.MinPriceMult = 1
	_, err = Decide(21, 9.9, 10, th)
	// 9.9 < mean*1 so the band check triggers first
	assert.NoError(t, err)

	th.MinAbsPrice = 0
	_, err = Decide(21, 0, 0, th)
	assert.ErrorIs(t, err, ErrDegenerateBand)
}

func TestNormalize(t *testing.T) {
	n, err := Normalize(15, 15, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, n)

	n, err = Normalize(20, 15, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, n)

	n, err = Normalize(5, 15, 10)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, n)

	n, err = Normalize(11, 15, 10)
	assert.NoError(t, err)
	assert.InDelta(t, 0.2, n, 1e-9)

	_, err = Normalize(1, 2, 2)
	assert.ErrorIs(t, err, ErrDegenerateBand)
}

func TestRoundHalf(t *testing.T) {
	assert.Equal(t, 21.0, RoundHalf(21.2))
	assert.Equal(t, 21.5, RoundHalf(21.3))
	assert.Equal(t, 21.5, RoundHalf(21.7))
	assert.Equal(t, 22.0, RoundHalf(21.8))
	assert.Equal(t, 22.0, RoundHalf(22.25))
	assert.Equal(t, 23.0, RoundHalf(22.75))
}
