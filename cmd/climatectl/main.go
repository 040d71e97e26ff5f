package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/nergy-se/climate-controller/pkg/actuator"
	"github.com/nergy-se/climate-controller/pkg/controller/modbusclimate"
	"github.com/nergy-se/climate-controller/pkg/modbusclient"
)

func main() {
	address := flag.String("addr", "", "tcp modbus address of the climate gateway")
	slaveID := flag.Int("slave", 1, "modbus slave id")

	inputreg := flag.Int("inputreg", 0, "read raw input register")
	holdingreg := flag.Int("holdingreg", 0, "read raw holding register")
	coil := flag.Int("coil", 0, "read raw coil")

	cmd := flag.String("cmd", "", "command to send: turn_on, set_temperature, set_hvac_mode, set_fan_mode, set_swing_mode")
	value := flag.String("value", "", "command argument, ex 22.5 or heat")
	flag.Parse()

	if *address == "" {
		flag.Usage()
		os.Exit(2)
	}

	client := modbusclient.Dial(*address, byte(*slaveID))
	defer client.Close()

	var f interface{}
	var err error
	switch {
	case isFlagPassed("inputreg"):
		f, err = client.ReadInputRegister(uint16(*inputreg))
	case isFlagPassed("holdingreg"):
		f, err = client.ReadHoldingRegister16(uint16(*holdingreg))
	case isFlagPassed("coil"):
		f, err = client.ReadCoil(uint16(*coil))
	case *cmd != "":
		err = send(client, *cmd, *value)
		if err == nil {
			f, err = modbusclimate.New(client, false).Snapshot(context.Background())
		}
	default:
		f, err = modbusclimate.New(client, false).Snapshot(context.Background())
	}

	if err != nil {
		log.Println("error was: ", err)
		os.Exit(1)
	}

	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
	fmt.Println(string(b))
}

func send(client modbusclient.Client, kind, value string) error {
	c := actuator.Command{Kind: actuator.Kind(kind)}
	switch c.Kind {
	case actuator.TurnOn:
	case actuator.SetTemperature:
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q: %w", value, err)
		}
		c.Temperature = t
	case actuator.SetHVACMode:
		c.HVACMode = value
	case actuator.SetFanMode:
		c.FanMode = value
	case actuator.SetSwingMode:
		c.SwingMode = value
	default:
		return fmt.Errorf("unknown command %q", kind)
	}
	log.Println("sending", c)
	return modbusclimate.New(client, false).Send(context.Background(), c)
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
