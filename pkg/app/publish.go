package app

import (
	"context"
	"strconv"

	"github.com/nergy-se/climate-controller/pkg/api/v1/types"
	"github.com/nergy-se/climate-controller/pkg/state"
	"github.com/sirupsen/logrus"
)

type sensor struct {
	entityID string
	value    float64
	unit     string
	name     string
}

// publish writes the tick outcome back as sensors and to mqtt. Failures are
// logged only, the unit has already been driven at this point.
func (a *App) publish(ctx context.Context, obs *state.Observation) {
	if a.config.PublishState {
		for _, s := range a.sensors(obs) {
			err := a.platform.SetState(ctx, s.entityID, formatFloat(s.value), map[string]any{
				"unit_of_measurement": s.unit,
				"friendly_name":       s.name,
			})
			if err != nil {
				logrus.Errorf("publish: error writing %s: %s", s.entityID, err)
			}
		}
	}

	for _, p := range a.publishers {
		if err := p.Publish(ctx, obs); err != nil {
			logrus.Errorf("publish: mqtt: %s", err)
		}
	}
}

func (a *App) sensors(obs *state.Observation) []sensor {
	e := a.config.Entities
	var list []sensor

	// with a sensor price source these are inputs and stay untouched.
	if types.PriceSource(a.config.PriceSource) == types.PriceSourceNordpool {
		list = append(list,
			sensor{e.Price, *obs.PriceNow, "c/kWh", "Electricity price history"},
			sensor{e.PriceEuro, *obs.PriceNow / 100, "E/kWh", "Electricity price history Euro/kWh"},
			sensor{e.PriceMean, *obs.PriceMean, "c/kWh", "Electricity price mean history Cent/kWh"},
		)
	}

	onOff := 0.0
	if obs.Heating != nil && *obs.Heating {
		onOff = 1
	}
	list = append(list,
		sensor{e.TargetHistory, *obs.Target, "°C", "AC target temperature history"},
		sensor{e.OnOffHistory, onOff, "", "AC activity history"},
	)
	return list
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
