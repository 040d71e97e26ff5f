package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nergy-se/climate-controller/pkg/actuator"
	"github.com/nergy-se/climate-controller/pkg/api/v1/config"
	"github.com/nergy-se/climate-controller/pkg/api/v1/types"
	"github.com/nergy-se/climate-controller/pkg/platform"
	"github.com/nergy-se/climate-controller/pkg/price"
	"github.com/nergy-se/climate-controller/pkg/setpoint"
	"github.com/nergy-se/climate-controller/pkg/state"
	"github.com/sirupsen/logrus"
)

// stageError tells which tick stage failed, used as metrics label.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string {
	return fmt.Sprintf("%s: %s", e.stage, e.err)
}

func (e *stageError) Unwrap() error {
	return e.err
}

func fail(stage string, err error) error {
	return &stageError{stage: stage, err: err}
}

// Tick runs one control cycle: read thresholds, unit and price, decide a
// setpoint and drive the unit towards it. A failed read aborts the tick
// before anything is sent, the next tick is the retry.
func (a *App) Tick(ctx context.Context) (*state.Observation, error) {
	obs, cmds, err := a.tick(ctx)
	if err != nil {
		stage := "unknown"
		var se *stageError
		if errors.As(err, &se) {
			stage = se.stage
		}
		a.metrics.Error(stage)
		if a.faults.Add(err.Error()) {
			logrus.Errorf("tick failed: %s", err)
		} else {
			logrus.Debugf("tick failed: %s", err)
		}
		return nil, err
	}

	if a.faults.Clear() {
		logrus.Info("tick: faults cleared")
	}

	logrus.WithFields(obs.Map()).Info("tick: done")
	a.publish(ctx, obs)
	a.metrics.Observe(obs, cmds)

	a.mutex.Lock()
	a.last = obs
	a.mutex.Unlock()
	return obs, nil
}

func (a *App) tick(ctx context.Context) (*state.Observation, []actuator.Command, error) {
	thresholds, err := a.loadThresholds(ctx)
	if err != nil {
		return nil, nil, fail("thresholds", err)
	}

	snap, err := a.controller.Snapshot(ctx)
	if err != nil {
		return nil, nil, fail("snapshot", err)
	}

	obs := &state.Observation{
		Time:   a.clock.Now(),
		Indoor: state.Float(snap.MeasuredTemp),
	}

	priceNow, mean, err := a.currentPrice(ctx, obs)
	if err != nil {
		return nil, nil, fail("price", err)
	}
	obs.PriceNow = state.Float(priceNow)
	obs.PriceMean = state.Float(mean)

	target, err := setpoint.Decide(snap.MeasuredTemp, priceNow, mean, thresholds)
	if err != nil {
		return nil, nil, fail("setpoint", err)
	}
	target = setpoint.RoundHalf(target)
	obs.Target = state.Float(target)

	overridden, err := a.overridden(ctx)
	if err != nil {
		return nil, nil, fail("override", err)
	}
	obs.Overridden = state.Bool(overridden)

	logger := logrus.WithFields(logrus.Fields{
		"room":     snap.MeasuredTemp,
		"priceNow": priceNow,
		"mean":     mean,
		"target":   target,
	})

	var cmds []actuator.Command
	if overridden {
		logger.Info("tick: manual override active, skipping actuation")
	} else {
		logger.Debug("tick: applying target")
		cmds = a.machine.Apply(ctx, target, *snap, thresholds)
	}

	after := applied(*snap, cmds)
	obs.Power = state.Bool(after.Power)
	obs.Heating = state.Bool(after.Heating(actuator.DefaultModes()))
	obs.Mode = after.Mode
	obs.FanMode = after.FanMode
	obs.SwingMode = after.SwingMode
	for _, cmd := range cmds {
		obs.Commands = append(obs.Commands, cmd.String())
	}
	return obs, cmds, nil
}

// loadThresholds returns the static thresholds or reads them from entities.
// A change since the previous tick releases the dwell timer.
func (a *App) loadThresholds(ctx context.Context) (config.Thresholds, error) {
	if !a.config.ThresholdsFromEntities {
		return a.config.Thresholds, nil
	}

	e := a.config.Entities
	read := func(id string, dst *float64) error {
		v, err := platform.ReadFloat(ctx, a.platform, id)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}

	t := config.Thresholds{}
	var dwell float64
	for _, r := range []struct {
		id  string
		dst *float64
	}{
		{e.MinTemp, &t.MinTemp},
		{e.TargetTemp, &t.TargetTemp},
		{e.MaxTemp, &t.MaxTemp},
		{e.MinPriceMult, &t.MinPriceMult},
		{e.MaxPriceMult, &t.MaxPriceMult},
		{e.MinAbsPrice, &t.MinAbsPrice},
		{e.MaxAbsPrice, &t.MaxAbsPrice},
		{e.MinDwell, &dwell},
		{e.IgnoreDwellTempDiff, &t.IgnoreDwellTempDiff},
	} {
		if err := read(r.id, r.dst); err != nil {
			return t, err
		}
	}
	t.MinDwell = time.Duration(dwell * float64(time.Second))

	changed := a.thresholds != nil && *a.thresholds != t
	if a.thresholds == nil || changed {
		for _, w := range t.Warnings() {
			logrus.Warnf("thresholds: %s", w)
		}
	}
	if changed {
		logrus.Info("tick: thresholds changed, allowing immediate change")
		a.machine.Release()
	}
	a.mutex.Lock()
	a.thresholds = &t
	a.mutex.Unlock()
	return t, nil
}

func (a *App) currentPrice(ctx context.Context, obs *state.Observation) (float64, float64, error) {
	if types.PriceSource(a.config.PriceSource) == types.PriceSourceSensor {
		priceNow, err := platform.ReadFloat(ctx, a.platform, a.config.Entities.Price)
		if err != nil {
			return 0, 0, err
		}
		mean, err := platform.ReadFloat(ctx, a.platform, a.config.Entities.PriceMean)
		if err != nil {
			return 0, 0, err
		}
		return priceNow, mean, nil
	}

	curve, err := a.curve(ctx)
	if err != nil {
		return 0, 0, err
	}
	if curve.Estimated {
		logrus.Debug("price: tomorrow not available, using today")
	}
	obs.Estimated = state.Bool(curve.Estimated)

	priceNow, err := curve.Now(a.clock.Now())
	if err != nil {
		return 0, 0, err
	}
	return priceNow, curve.Mean, nil
}

func (a *App) curve(ctx context.Context) (*price.Curve, error) {
	tariff, err := a.tariff(ctx)
	if err != nil {
		return nil, err
	}

	e, err := a.platform.State(ctx, a.config.Entities.Nordpool)
	if err != nil {
		return nil, err
	}
	today, err := e.FloatsAttr("today")
	if err != nil {
		return nil, err
	}
	tomorrow, err := e.FloatsAttr("tomorrow")
	if err != nil {
		return nil, err
	}
	return price.Compute(today, tomorrow, e.BoolAttr("tomorrow_valid"), tariff)
}

func (a *App) tariff(ctx context.Context) (price.Tariff, error) {
	t := a.config.Tariff
	if !a.config.TariffFromEntities {
		return t, nil
	}
	var err error
	t.DayRate, err = platform.ReadFloat(ctx, a.platform, a.config.Entities.DayRate)
	if err != nil {
		return t, err
	}
	t.NightRate, err = platform.ReadFloat(ctx, a.platform, a.config.Entities.NightRate)
	if err != nil {
		return t, err
	}
	return t, nil
}

// overridden reports if the manual override switch is on. A missing switch is off.
func (a *App) overridden(ctx context.Context) (bool, error) {
	if !a.config.ManualOverride {
		return false, nil
	}
	e, err := a.platform.State(ctx, a.config.Entities.ManualOverride)
	if errors.Is(err, platform.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return e.On(), nil
}

// applied is snap with cmds applied, the unit as expected after this tick.
func applied(snap actuator.Snapshot, cmds []actuator.Command) actuator.Snapshot {
	for _, cmd := range cmds {
		switch cmd.Kind {
		case actuator.TurnOn:
			snap.Power = true
		case actuator.SetTemperature:
			snap.TargetTemp = cmd.Temperature
		case actuator.SetHVACMode:
			snap.Mode = cmd.HVACMode
		case actuator.SetFanMode:
			snap.FanMode = cmd.FanMode
		case actuator.SetSwingMode:
			snap.SwingMode = cmd.SwingMode
		}
	}
	return snap
}
