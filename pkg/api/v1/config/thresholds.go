package config

import (
	"fmt"
	"time"
)

// Thresholds controls how price maps to a room setpoint and how often the
// climate unit may change state. Expected ordering is
// MinTemp <= TargetTemp <= MaxTemp and MinPriceMult < 1 < MaxPriceMult.
type Thresholds struct {
	MinTemp    float64 `json:"minTemp"`
	TargetTemp float64 `json:"targetTemp"`
	MaxTemp    float64 `json:"maxTemp"`

	// multipliers of the mean price where the setpoint saturates at max/min temp.
	MinPriceMult float64 `json:"minPriceMult"`
	MaxPriceMult float64 `json:"maxPriceMult"`

	// absolute prices (c/kWh) where the setpoint saturates regardless of mean.
	MinAbsPrice float64 `json:"minAbsPrice"`
	MaxAbsPrice float64 `json:"maxAbsPrice"`

	MinDwell            time.Duration `json:"minDwell"`
	IgnoreDwellTempDiff float64       `json:"ignoreDwellTempDiff"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinTemp:             18,
		TargetTemp:          23,
		MaxTemp:             24,
		MinPriceMult:        0.5,
		MaxPriceMult:        1.5,
		MinAbsPrice:         5.0,
		MaxAbsPrice:         30.0,
		MinDwell:            1800 * time.Second,
		IgnoreDwellTempDiff: 2,
	}
}

// Warnings lists assumptions the thresholds break. Nothing is corrected,
// a degenerate price band still fails when the setpoint is computed.
func (t Thresholds) Warnings() []string {
	var w []string
	if t.MinTemp > t.TargetTemp || t.TargetTemp > t.MaxTemp {
		w = append(w, fmt.Sprintf("temperatures not ordered: min %.1f target %.1f max %.1f", t.MinTemp, t.TargetTemp, t.MaxTemp))
	}
	if t.MinPriceMult >= 1 {
		w = append(w, fmt.Sprintf("min price multiplier %.2f should be below 1", t.MinPriceMult))
	}
	if t.MaxPriceMult <= 1 {
		w = append(w, fmt.Sprintf("max price multiplier %.2f should be above 1", t.MaxPriceMult))
	}
	if t.MinAbsPrice > t.MaxAbsPrice {
		w = append(w, fmt.Sprintf("min absolute price %.1f above max absolute price %.1f", t.MinAbsPrice, t.MaxAbsPrice))
	}
	if t.MinDwell < 0 {
		w = append(w, "negative min dwell")
	}
	return w
}
