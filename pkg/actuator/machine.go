package actuator

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/nergy-se/climate-controller/pkg/api/v1/config"
	"github.com/sirupsen/logrus"
)

// Machine drives a climate unit towards a target temperature. It owns the
// dwell timer, so one Machine per unit.
type Machine struct {
	commander Commander
	clock     Clock
	timer     *Timer
	settle    time.Duration
	modes     Modes

	// mutex serializes Apply, timerMutex only guards timer so readers are
	// not held up by settle delays.
	mutex      sync.Mutex
	timerMutex sync.Mutex
}

func New(commander Commander, clock Clock, settle time.Duration, modes Modes) *Machine {
	if clock == nil {
		clock = RealClock()
	}
	return &Machine{
		commander: commander,
		clock:     clock,
		timer:     &Timer{},
		settle:    settle,
		modes:     modes,
	}
}

// Release allows the next Apply to act immediately, used when thresholds change.
func (m *Machine) Release() {
	m.timerMutex.Lock()
	m.timer.Release()
	m.timerMutex.Unlock()
}

func (m *Machine) LastChange() time.Time {
	m.timerMutex.Lock()
	defer m.timerMutex.Unlock()
	return m.timer.LastChange
}

// Apply issues the commands needed to move snap towards target and returns them.
// Commands are sent one at a time with a settle delay in between since units
// drop or race overlapping requests.
func (m *Machine) Apply(ctx context.Context, target float64, snap Snapshot, cfg config.Thresholds) []Command {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.clock.Now()
	m.timerMutex.Lock()
	since := m.timer.Since(now)
	m.timerMutex.Unlock()
	deviation := math.Abs(snap.TargetTemp - target)

	logger := logrus.WithFields(logrus.Fields{
		"room":      snap.MeasuredTemp,
		"target":    target,
		"unit":      snap.TargetTemp,
		"sinceLast": since.Truncate(time.Second).String(),
	})

	if since < cfg.MinDwell && deviation < cfg.IgnoreDwellTempDiff {
		logger.Debug("actuator: within dwell time, no change")
		return nil
	}
	if since < cfg.MinDwell {
		logger.Infof("actuator: deviation %.1f overrides dwell time", deviation)
	}

	if snap.MeasuredTemp >= target {
		return m.idle(ctx, snap)
	}
	return m.heat(ctx, target, snap)
}

func (m *Machine) idle(ctx context.Context, snap Snapshot) []Command {
	var sent []Command
	if snap.Mode != m.modes.Idle {
		sent = append(sent, m.send(ctx, Command{Kind: SetHVACMode, HVACMode: m.modes.Idle}))
	}
	if snap.FanMode != m.modes.IdleFan {
		sent = append(sent, m.send(ctx, Command{Kind: SetFanMode, FanMode: m.modes.IdleFan}))
	}
	return sent
}

// heat order matters, some units ignore the temperature until powered on.
func (m *Machine) heat(ctx context.Context, target float64, snap Snapshot) []Command {
	var sent []Command
	if !snap.Power {
		sent = append(sent, m.send(ctx, Command{Kind: TurnOn}))
	}
	if snap.TargetTemp != target {
		sent = append(sent, m.send(ctx, Command{Kind: SetTemperature, Temperature: target}))
	}
	if snap.Mode != m.modes.Heat {
		sent = append(sent, m.send(ctx, Command{Kind: SetHVACMode, HVACMode: m.modes.Heat}))
	}
	if snap.FanMode != m.modes.HeatFan {
		sent = append(sent, m.send(ctx, Command{Kind: SetFanMode, FanMode: m.modes.HeatFan}))
	}
	if snap.SwingMode != m.modes.HeatSwing {
		sent = append(sent, m.send(ctx, Command{Kind: SetSwingMode, SwingMode: m.modes.HeatSwing}))
	}
	return sent
}

// send touches the timer before delivery is confirmed so a slow round trip
// cannot let the next tick issue a second correction.
func (m *Machine) send(ctx context.Context, cmd Command) Command {
	m.timerMutex.Lock()
	m.timer.Touch(m.clock.Now())
	m.timerMutex.Unlock()
	logrus.Infof("actuator: %s", cmd)
	if err := m.commander.Send(ctx, cmd); err != nil {
		logrus.WithError(err).Warnf("actuator: %s failed", cmd)
	}
	m.clock.Sleep(m.settle)
	return cmd
}
