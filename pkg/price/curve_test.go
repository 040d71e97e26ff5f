package price

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tariff = Tariff{NightRate: 1.31, DayRate: 3.87, Surcharge: 0.41}

func flat(v float64) []float64 {
	s := make([]float64, HoursPerDay)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestEffective(t *testing.T) {
	var tests = []struct {
		name     string
		hour     int
		raw      float64
		expected float64
	}{
		{name: "night hour 3", hour: 3, raw: 10, expected: 11.7},
		{name: "day hour 10", hour: 10, raw: 10, expected: 14.3},
		{name: "first day hour", hour: 7, raw: 10, expected: 14.3},
		{name: "last day hour", hour: 21, raw: 10, expected: 14.3},
		{name: "first night hour", hour: 22, raw: 10, expected: 11.7},
		{name: "tomorrow night", hour: 27, raw: 10, expected: 11.7},
		{name: "tomorrow day", hour: 34, raw: 10, expected: 14.3},
		{name: "negative clamps to zero", hour: 12, raw: -20, expected: 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tariff.Effective(tt.hour, tt.raw), 1e-9)
		})
	}
}

func TestComputeTwoDays(t *testing.T) {
	c, err := Compute(flat(10), nil, false, tariff)
	require.NoError(t, err)

	assert.Len(t, c.Prices, 48)
	assert.True(t, c.Estimated)
	assert.InDelta(t, 11.7, c.Prices[3], 1e-9)
	assert.InDelta(t, 14.3, c.Prices[10], 1e-9)
	assert.InDelta(t, 11.7, c.Prices[27], 1e-9)

	// 9 night hours and 15 day hours per day: 13.325 before rounding
	assert.InDelta(t, 13.3, c.Mean, 0.051)
}

func TestComputeUsesTomorrow(t *testing.T) {
	c, err := Compute(flat(10), flat(20), true, Tariff{})
	require.NoError(t, err)
	assert.False(t, c.Estimated)
	assert.Len(t, c.Prices, 48)
	assert.Equal(t, 10.0, c.Prices[23])
	assert.Equal(t, 20.0, c.Prices[24])
	assert.Equal(t, 15.0, c.Mean)
}

func TestComputeInvalidTomorrowIgnored(t *testing.T) {
	c, err := Compute(flat(10), flat(20), false, Tariff{})
	require.NoError(t, err)
	assert.True(t, c.Estimated)
	assert.Equal(t, 10.0, c.Prices[30])

	c, err = Compute(flat(10), []float64{1, 2, 3}, true, Tariff{})
	require.NoError(t, err)
	assert.True(t, c.Estimated)
	assert.Len(t, c.Prices, 48)
}

func TestComputeShortSeries(t *testing.T) {
	_, err := Compute([]float64{1, 2, 3}, nil, false, tariff)
	assert.ErrorIs(t, err, ErrShortSeries)
}

func TestComputeNeverNegative(t *testing.T) {
	today := make([]float64, HoursPerDay)
	for i := range today {
		today[i] = float64(i*3) - 40
	}
	c, err := Compute(today, nil, false, tariff)
	require.NoError(t, err)
	assert.Len(t, c.Prices, 2*len(today))
	for i, p := range c.Prices {
		assert.GreaterOrEqual(t, p, 0.0, "hour %d", i)
	}
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, 1.3, Mean([]float64{1, 1.5, 1.5}))
}

func TestCurveAt(t *testing.T) {
	c, err := Compute(flat(10), nil, false, Tariff{})
	require.NoError(t, err)

	p, err := c.At(47)
	assert.NoError(t, err)
	assert.Equal(t, 10.0, p)

	_, err = c.At(48)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = c.At(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	c.Prices[14] = 99
	p, err = c.Now(time.Date(2024, 11, 2, 14, 30, 0, 0, time.Local))
	assert.NoError(t, err)
	assert.Equal(t, 99.0, p)
}
