package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/nergy-se/climate-controller/pkg/api/v1/types"
	"github.com/nergy-se/climate-controller/pkg/price"
)

type CliConfig struct {
	HomeAssistant string `default:"http://localhost:8123"`
	APIToken      string
	TokenFile     string `default:"/etc/climatecontroller/token"`

	ControllerType string `default:"homeassistant"`
	Address        string // modbus tcp address of the climate unit
	SlaveID        int    `default:"1"`

	PriceSource string `default:"nordpool"`

	Interval    time.Duration `default:"1m"`
	Offset      time.Duration `default:"2s"`
	SettleDelay time.Duration `default:"2s"`

	Entities   Entities
	Tariff     price.Tariff
	Thresholds Thresholds

	// read thresholds and tariff rates from input_number entities every tick.
	ThresholdsFromEntities bool
	TariffFromEntities     bool
	ManualOverride         bool
	PublishState           bool `default:"true"`

	ListenAddr string `default:":7001"`

	MQTTListen string // embedded broker, ex :1883
	MQTTBroker string // external broker, ex tcp://localhost:1883
	MQTTTopic  string `default:"climatecontroller"`

	LogLevel string `default:"info"`

	mutex sync.RWMutex
}

// Defaults returns a config with the same values multiconfig would load from the default tags.
func Defaults() *CliConfig {
	return &CliConfig{
		HomeAssistant:  "http://localhost:8123",
		ControllerType: string(types.ControllerTypeHomeAssistant),
		SlaveID:        1,
		PriceSource:    string(types.PriceSourceNordpool),
		Interval:       time.Minute,
		Offset:         2 * time.Second,
		SettleDelay:    2 * time.Second,
		Entities:       DefaultEntities(),
		Tariff:         DefaultTariff(),
		Thresholds:     DefaultThresholds(),
		PublishState:   true,
		ListenAddr:     ":7001",
		MQTTTopic:      "climatecontroller",
		LogLevel:       "info",
	}
}

func DefaultTariff() price.Tariff {
	return price.Tariff{
		NightRate: 1.31,
		DayRate:   3.87,
		Surcharge: 0.41,
	}
}

func (c *CliConfig) Validate() error {
	switch types.ControllerType(c.ControllerType) {
	case types.ControllerTypeHomeAssistant, types.ControllerTypeDummy:
	case types.ControllerTypeModbus:
		if c.Address == "" {
			return fmt.Errorf("controller type modbus requires Address")
		}
	default:
		return fmt.Errorf("unknown controller type %q", c.ControllerType)
	}

	switch types.PriceSource(c.PriceSource) {
	case types.PriceSourceNordpool, types.PriceSourceSensor:
	default:
		return fmt.Errorf("unknown price source %q", c.PriceSource)
	}

	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	return nil
}

func (c *CliConfig) Token() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.APIToken
}

func (c *CliConfig) SetToken(t string) {
	c.mutex.Lock()
	c.APIToken = strings.TrimSpace(t)
	c.mutex.Unlock()
}

// LoadToken reads the Home Assistant long lived token from TokenFile unless one is already set.
func (c *CliConfig) LoadToken() error {
	if c.TokenFile == "" || c.Token() != "" {
		return nil
	}
	if _, err := os.Stat(c.TokenFile); err != nil {
		return nil
	}
	b, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return fmt.Errorf("error reading tokenfile: %w", err)
	}
	if len(b) == 0 {
		return nil // dont load empty token
	}

	c.SetToken(string(b))
	return nil
}
