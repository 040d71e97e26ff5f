package homeassistant

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/nergy-se/climate-controller/pkg/actuator"
	"github.com/nergy-se/climate-controller/pkg/platform"
)

// Climate drives a Home Assistant climate entity. Room temperature comes from
// a separate sensor since the unit's own reading is taken at the unit.
type Climate struct {
	store   platform.StateStore
	caller  platform.ServiceCaller
	climate string
	room    string
}

func New(store platform.StateStore, caller platform.ServiceCaller, climateEntity, roomEntity string) *Climate {
	return &Climate{
		store:   store,
		caller:  caller,
		climate: climateEntity,
		room:    roomEntity,
	}
}

func (c *Climate) Snapshot(ctx context.Context) (*actuator.Snapshot, error) {
	room, err := platform.ReadFloat(ctx, c.store, c.room)
	if err != nil {
		return nil, err
	}

	e, err := c.store.State(ctx, c.climate)
	if err != nil {
		return nil, err
	}
	if e.State == "unavailable" {
		return nil, fmt.Errorf("%s: %w", c.climate, platform.ErrUnavailable)
	}

	// some integrations drop the setpoint while off, NaN makes heat set it.
	target, err := e.FloatAttr("temperature")
	if errors.Is(err, platform.ErrUnavailable) && e.State == "off" {
		target = math.NaN()
	} else if err != nil {
		return nil, err
	}

	// not every integration exposes power, off is then the only powered down mode.
	power := e.State != "off"
	if _, ok := e.Attributes["power"]; ok {
		power = e.BoolAttr("power")
	}

	return &actuator.Snapshot{
		Power:        power,
		Mode:         e.State,
		FanMode:      e.StringAttr("fan_mode"),
		SwingMode:    e.StringAttr("swing_mode"),
		TargetTemp:   target,
		MeasuredTemp: room,
	}, nil
}

func (c *Climate) Send(ctx context.Context, cmd actuator.Command) error {
	data := map[string]any{
		"entity_id": c.climate,
	}
	switch cmd.Kind {
	case actuator.TurnOn:
	case actuator.SetTemperature:
		data["temperature"] = cmd.Temperature
	case actuator.SetHVACMode:
		data["hvac_mode"] = cmd.HVACMode
	case actuator.SetFanMode:
		data["fan_mode"] = cmd.FanMode
	case actuator.SetSwingMode:
		data["swing_mode"] = cmd.SwingMode
	default:
		return fmt.Errorf("unsupported command %s", cmd.Kind)
	}
	return c.caller.CallService(ctx, "climate", string(cmd.Kind), data)
}
