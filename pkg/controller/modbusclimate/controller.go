package modbusclimate

import (
	"context"
	"fmt"

	"github.com/nergy-se/climate-controller/pkg/actuator"
	"github.com/nergy-se/climate-controller/pkg/controller"
	"github.com/nergy-se/climate-controller/pkg/modbusclient"
	"github.com/sirupsen/logrus"
)

// Register map of the climate gateway.
const (
	CoilPower = 0

	HoldingMode      = 0
	HoldingFanMode   = 1
	HoldingSwingMode = 2
	HoldingSetpoint  = 3 // scale 10

	InputRoomTemperature = 0 // scale 10
)

var (
	HVACModes  = []string{"off", "heat", "cool", "dry", "fan_only", "auto"}
	FanModes   = []string{"Auto", "Silent", "Low", "Medium", "High", "Full"}
	SwingModes = []string{"Off", "Vertical", "Horizontal", "Both"}
)

type ModbusClimate struct {
	client   modbusclient.Client
	readonly bool
}

func New(client modbusclient.Client, readonly bool) *ModbusClimate {
	return &ModbusClimate{
		client:   client,
		readonly: readonly,
	}
}

func (mc *ModbusClimate) Snapshot(ctx context.Context) (*actuator.Snapshot, error) {
	s := &actuator.Snapshot{}
	var err error

	s.Power, err = mc.client.ReadCoil(CoilPower)
	if err != nil {
		return nil, err
	}

	s.Mode, err = mc.readEnum(HoldingMode, HVACModes)
	if err != nil {
		return nil, err
	}
	s.FanMode, err = mc.readEnum(HoldingFanMode, FanModes)
	if err != nil {
		return nil, err
	}
	s.SwingMode, err = mc.readEnum(HoldingSwingMode, SwingModes)
	if err != nil {
		return nil, err
	}

	s.TargetTemp, err = controller.Scale10itof(mc.client.ReadHoldingRegister16(HoldingSetpoint))
	if err != nil {
		return nil, err
	}
	s.MeasuredTemp, err = controller.Scale10itof(mc.client.ReadInputRegister(InputRoomTemperature))
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (mc *ModbusClimate) readEnum(address uint16, names []string) (string, error) {
	v, err := mc.client.ReadHoldingRegister16(address)
	if err != nil {
		return "", err
	}
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("unknown(%d)", v), nil
	}
	return names[v], nil
}

func (mc *ModbusClimate) Send(ctx context.Context, cmd actuator.Command) error {
	if mc.readonly {
		logrus.Infof("modbusclimate: readonly, skipping %s", cmd)
		return nil
	}

	switch cmd.Kind {
	case actuator.TurnOn:
		_, err := mc.client.WriteSingleCoil(CoilPower, modbusclient.CoilValue(true))
		return err
	case actuator.SetTemperature:
		_, err := mc.client.WriteSingleRegister(HoldingSetpoint, controller.Ftoi10(cmd.Temperature))
		return err
	case actuator.SetHVACMode:
		return mc.writeEnum(HoldingMode, HVACModes, cmd.HVACMode)
	case actuator.SetFanMode:
		return mc.writeEnum(HoldingFanMode, FanModes, cmd.FanMode)
	case actuator.SetSwingMode:
		return mc.writeEnum(HoldingSwingMode, SwingModes, cmd.SwingMode)
	}
	return fmt.Errorf("unsupported command %s", cmd.Kind)
}

func (mc *ModbusClimate) writeEnum(address uint16, names []string, name string) error {
	for i, n := range names {
		if n == name {
			_, err := mc.client.WriteSingleRegister(address, uint16(i))
			return err
		}
	}
	return fmt.Errorf("register %d has no value named %q", address, name)
}
