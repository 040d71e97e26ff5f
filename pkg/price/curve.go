package price

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	HoursPerDay = 24

	// night tariff applies from 22:00 until 07:00.
	nightStart = 22
	nightEnd   = 7
)

var (
	ErrShortSeries = errors.New("price series shorter than one day")
	ErrOutOfRange  = errors.New("hour offset outside price curve")
)

// Tariff is what the grid operator and retailer add on top of the spot price.
// All values are in the same unit as the spot price (c/kWh).
type Tariff struct {
	NightRate float64 `json:"nightRate"`
	DayRate   float64 `json:"dayRate"`
	Surcharge float64 `json:"surcharge"`
}

func IsNight(hour int) bool {
	h := hour % HoursPerDay
	return h >= nightStart || h < nightEnd
}

// Effective returns the price paid for raw spot price at the given hour offset.
func (t Tariff) Effective(hour int, raw float64) float64 {
	p := raw + t.Surcharge
	if IsNight(hour) {
		p += t.NightRate
	} else {
		p += t.DayRate
	}
	if p < 0 {
		p = 0
	}
	return round1(p)
}

type Curve struct {
	Prices []float64 `json:"prices"`
	Mean   float64   `json:"mean"`
	// Estimated is true when tomorrow was approximated with today's prices.
	Estimated bool `json:"estimated"`
}

// Compute builds the effective price curve for today followed by tomorrow.
// When tomorrow is not published yet today is used in its place. Estimates
// are good for the morning but drift later in the day, the real prices
// usually arrive before that matters.
func Compute(today, tomorrow []float64, tomorrowValid bool, t Tariff) (*Curve, error) {
	if len(today) < HoursPerDay {
		return nil, fmt.Errorf("%w: got %d hours", ErrShortSeries, len(today))
	}

	estimated := !tomorrowValid || len(tomorrow) < HoursPerDay
	if estimated {
		tomorrow = today
	}

	raw := make([]float64, 0, len(today)+len(tomorrow))
	raw = append(raw, today...)
	raw = append(raw, tomorrow...)

	prices := make([]float64, len(raw))
	for i, p := range raw {
		prices[i] = t.Effective(i, p)
	}

	return &Curve{
		Prices:    prices,
		Mean:      Mean(prices),
		Estimated: estimated,
	}, nil
}

// Mean is the arithmetic mean rounded to one decimal. Empty input gives 0.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return round1(sum / float64(len(values)))
}

// At returns the price at offset hours from the start of today.
func (c *Curve) At(offset int) (float64, error) {
	if offset < 0 || offset >= len(c.Prices) {
		return 0, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, offset, len(c.Prices))
	}
	return c.Prices[offset], nil
}

func (c *Curve) Now(now time.Time) (float64, error) {
	return c.At(now.Hour())
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
