package setpoint

import (
	"errors"
	"fmt"
	"math"

	"github.com/nergy-se/climate-controller/pkg/api/v1/config"
)

var ErrDegenerateBand = errors.New("normalize: high and low are equal")

// Decide returns the room setpoint for the current price. The first matching
// rule wins:
//
//	inside below min temp           -> min temp
//	inside above max temp           -> max temp
//	price above max absolute price  -> min temp
//	price below min absolute price  -> max temp
//	price above mean*MaxPriceMult   -> min temp
//	price below mean*MinPriceMult   -> max temp
//	price at or above mean          -> target, falling linearly towards min temp
//	price below mean                -> target, rising linearly towards max temp
func Decide(inside, priceNow, mean float64, cfg config.Thresholds) (float64, error) {
	if priceNow < 0 {
		priceNow = 0
	}
	high := mean * cfg.MaxPriceMult
	low := mean * cfg.MinPriceMult

	switch {
	case inside < cfg.MinTemp:
		return cfg.MinTemp, nil
	case inside > cfg.MaxTemp:
		return cfg.MaxTemp, nil
	case priceNow > cfg.MaxAbsPrice:
		return cfg.MinTemp, nil
	case priceNow < cfg.MinAbsPrice:
		return cfg.MaxTemp, nil
	case priceNow > high:
		return cfg.MinTemp, nil
	case priceNow < low:
		return cfg.MaxTemp, nil
	case priceNow >= mean:
		// higher price means we accept a colder room before heating
		f, err := Normalize(priceNow, high, mean)
		if err != nil {
			return 0, fmt.Errorf("price above mean: %w", err)
		}
		return cfg.TargetTemp - f*(cfg.TargetTemp-cfg.MinTemp), nil
	case priceNow < mean:
		f, err := Normalize(priceNow, mean, low)
		if err != nil {
			return 0, fmt.Errorf("price below mean: %w", err)
		}
		// f is 1 at the mean and 0 at the low end of the band
		return cfg.TargetTemp + (1-f)*(cfg.MaxTemp-cfg.TargetTemp), nil
	}

	// unreachable while the two cases above cover every price, NaN ends up here.
	return cfg.TargetTemp, nil
}

// Normalize maps v from [low, high] onto [0, 1], clamping outside values.
func Normalize(v, high, low float64) (float64, error) {
	if high == low {
		return 0, fmt.Errorf("%w: %v", ErrDegenerateBand, high)
	}
	n := (v - low) / (high - low)
	return math.Max(0, math.Min(1, n)), nil
}

// RoundHalf rounds to the nearest half degree, ties to even.
func RoundHalf(t float64) float64 {
	return math.RoundToEven(t*2) / 2
}
