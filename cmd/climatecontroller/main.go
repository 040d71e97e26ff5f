package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/koding/multiconfig"
	"github.com/nergy-se/climate-controller/pkg/api/v1/config"
	"github.com/nergy-se/climate-controller/pkg/app"
	"github.com/nergy-se/climate-controller/pkg/version"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGQUIT, syscall.SIGTERM)
	defer stop()
	err := Run(ctx)
	if err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	config := config.Defaults()
	loader := multiconfig.New()
	if path := os.Getenv("CLIMATECONTROLLER_CONFIG"); path != "" {
		loader = multiconfig.NewWithPath(path)
	}
	err := loader.Load(config)
	if err != nil {
		return err
	}
	lvl, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return fmt.Errorf("error setting logrus loglevel: %w", err)
	}
	logrus.SetLevel(lvl)

	err = config.Validate()
	if err != nil {
		return err
	}
	err = config.LoadToken()
	if err != nil {
		return err
	}
	if !config.ThresholdsFromEntities {
		for _, w := range config.Thresholds.Warnings() {
			logrus.Warnf("thresholds: %s", w)
		}
	}

	logrus.Infof("climatecontroller %s starting with controller %s", version.Current, config.ControllerType)
	app := app.New(config)

	err = app.Start(ctx)
	if err != nil {
		return err
	}

	app.Wait()
	return nil
}
