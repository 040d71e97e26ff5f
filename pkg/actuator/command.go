package actuator

import (
	"context"
	"fmt"
)

type Kind string

const (
	TurnOn         Kind = "turn_on"
	SetTemperature Kind = "set_temperature"
	SetHVACMode    Kind = "set_hvac_mode"
	SetFanMode     Kind = "set_fan_mode"
	SetSwingMode   Kind = "set_swing_mode"
)

type Command struct {
	Kind        Kind    `json:"kind"`
	HVACMode    string  `json:"hvacMode,omitempty"`
	FanMode     string  `json:"fanMode,omitempty"`
	SwingMode   string  `json:"swingMode,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

func (c Command) String() string {
	switch c.Kind {
	case SetTemperature:
		return fmt.Sprintf("%s %.1f", c.Kind, c.Temperature)
	case SetHVACMode:
		return fmt.Sprintf("%s %s", c.Kind, c.HVACMode)
	case SetFanMode:
		return fmt.Sprintf("%s %s", c.Kind, c.FanMode)
	case SetSwingMode:
		return fmt.Sprintf("%s %s", c.Kind, c.SwingMode)
	}
	return string(c.Kind)
}

// Commander delivers a command to the climate unit. Delivery may complete
// after Send returns.
type Commander interface {
	Send(ctx context.Context, cmd Command) error
}

// Snapshot is the climate unit as read at the start of a tick.
type Snapshot struct {
	Power        bool    `json:"power"`
	Mode         string  `json:"mode"`
	FanMode      string  `json:"fanMode"`
	SwingMode    string  `json:"swingMode"`
	TargetTemp   float64 `json:"targetTemp"`
	MeasuredTemp float64 `json:"measuredTemp"`
}

// Modes are the device specific names used when driving the unit.
type Modes struct {
	Heat      string
	Idle      string
	HeatFan   string
	IdleFan   string
	HeatSwing string
}

func DefaultModes() Modes {
	return Modes{
		Heat:      "heat",
		Idle:      "fan_only",
		HeatFan:   "Medium",
		IdleFan:   "Silent",
		HeatSwing: "Horizontal",
	}
}

// Heating reports if the snapshot is in the heating state.
func (s Snapshot) Heating(m Modes) bool {
	return s.Mode == m.Heat
}
