package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/nergy-se/climate-controller/pkg/actuator"
	"github.com/nergy-se/climate-controller/pkg/alarm"
	"github.com/nergy-se/climate-controller/pkg/api/v1/config"
	"github.com/nergy-se/climate-controller/pkg/api/v1/types"
	"github.com/nergy-se/climate-controller/pkg/controller"
	"github.com/nergy-se/climate-controller/pkg/controller/dummy"
	hactrl "github.com/nergy-se/climate-controller/pkg/controller/homeassistant"
	"github.com/nergy-se/climate-controller/pkg/controller/modbusclimate"
	"github.com/nergy-se/climate-controller/pkg/homeassistant"
	"github.com/nergy-se/climate-controller/pkg/metrics"
	"github.com/nergy-se/climate-controller/pkg/modbusclient"
	"github.com/nergy-se/climate-controller/pkg/mqtt"
	"github.com/nergy-se/climate-controller/pkg/platform"
	"github.com/nergy-se/climate-controller/pkg/state"
	"github.com/sirupsen/logrus"
)

type App struct {
	wg         *sync.WaitGroup
	config     *config.CliConfig
	clock      actuator.Clock
	platform   platform.Platform
	controller controller.Controller
	machine    *actuator.Machine
	metrics    *metrics.Metrics
	faults     *alarm.Faults
	publishers []mqtt.Publisher
	dummy      *dummy.Dummy

	thresholds *config.Thresholds
	last       *state.Observation
	mutex      sync.RWMutex
}

func New(config *config.CliConfig) *App {
	return newApp(config, nil, nil, actuator.RealClock())
}

// newApp wires an App against an explicit platform and controller. A nil
// platform is the Home Assistant REST API and a nil controller is built from
// ControllerType when the app starts.
func newApp(config *config.CliConfig, p platform.Platform, c controller.Controller, clock actuator.Clock) *App {
	if p == nil {
		p = homeassistant.New(config.HomeAssistant, config.Token)
	}
	a := &App{
		wg:         &sync.WaitGroup{},
		config:     config,
		clock:      clock,
		platform:   p,
		controller: c,
		metrics:    metrics.New(),
		faults:     &alarm.Faults{},
	}
	if c != nil {
		a.machine = actuator.New(c, clock, config.SettleDelay, actuator.DefaultModes())
	}
	return a
}

func (a *App) Start(ctx context.Context) error {
	if a.controller == nil {
		c, err := a.newController(ctx)
		if err != nil {
			return err
		}
		a.controller = c
		a.machine = actuator.New(c, a.clock, a.config.SettleDelay, actuator.DefaultModes())
	}

	if a.config.MQTTListen != "" {
		broker, err := mqtt.Start(ctx, a.wg, a.config.MQTTListen, a.config.MQTTTopic)
		if err != nil {
			return fmt.Errorf("error starting mqtt broker: %w", err)
		}
		logrus.Infof("mqtt: broker listening on %s", broker.Addr())
		a.publishers = append(a.publishers, broker)
	}
	if a.config.MQTTBroker != "" {
		client, err := mqtt.Connect(a.config.MQTTBroker, "climatecontroller", a.config.MQTTTopic)
		if err != nil {
			return err
		}
		a.publishers = append(a.publishers, client)
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			<-ctx.Done()
			client.Close()
		}()
	}

	if a.config.ListenAddr != "" {
		err := a.startServer(ctx)
		if err != nil {
			return err
		}
	}

	a.wg.Add(1)
	go a.controllerLoop(ctx)
	return nil
}

func (a *App) Wait() {
	a.wg.Wait()
}

func (a *App) newController(ctx context.Context) (controller.Controller, error) {
	switch types.ControllerType(a.config.ControllerType) {
	case types.ControllerTypeHomeAssistant:
		return hactrl.New(a.platform, a.platform, a.config.Entities.Climate, a.config.Entities.RoomTemperature), nil
	case types.ControllerTypeModbus:
		client := modbusclient.Dial(a.config.Address, byte(a.config.SlaveID))
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			<-ctx.Done()
			client.Close()
		}()
		return modbusclimate.New(client, false), nil
	case types.ControllerTypeDummy:
		a.dummy = dummy.New(20)
		return a.dummy, nil
	}
	return nil, fmt.Errorf("controller type %s not supported yet", a.config.ControllerType)
}

func (a *App) startServer(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.config.ListenAddr,
		Handler:           a.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		logrus.Infof("http: listening on %s", a.config.ListenAddr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("http: %s", err)
		}
	}()
	go func() {
		defer a.wg.Done()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.Error(err)
		}
	}()
	return nil
}

func (a *App) controllerLoop(ctx context.Context) {
	defer a.wg.Done()
	delay := nextDelay(a.clock.Now(), a.config.Interval, a.config.Offset)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	logrus.Debug("scheduling first run in ", delay)
	for {
		select {
		case <-timer.C:
			_, _ = a.Tick(ctx)
			timer.Reset(nextDelay(a.clock.Now(), a.config.Interval, a.config.Offset))
		case <-ctx.Done():
			return
		}
	}
}

// Last returns the observation of the last successful tick.
func (a *App) Last() *state.Observation {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.last
}
