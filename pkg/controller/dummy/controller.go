package dummy

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/nergy-se/climate-controller/pkg/actuator"
	"github.com/sirupsen/logrus"
)

// Dummy is a simulated climate unit. Commands apply instantly and the room
// drifts towards the setpoint while heating and cools slowly otherwise.
type Dummy struct {
	unit actuator.Snapshot
	sync.Mutex
}

func New(room float64) *Dummy {
	return &Dummy{
		unit: actuator.Snapshot{
			Mode:         "off",
			FanMode:      "Auto",
			SwingMode:    "Off",
			TargetTemp:   20,
			MeasuredTemp: room,
		},
	}
}

func (d *Dummy) Snapshot(ctx context.Context) (*actuator.Snapshot, error) {
	d.Lock()
	defer d.Unlock()
	d.drift()
	s := d.unit
	return &s, nil
}

func (d *Dummy) drift() {
	u := &d.unit
	if u.Power && u.Mode == "heat" && u.MeasuredTemp < u.TargetTemp {
		u.MeasuredTemp += 0.1
		return
	}
	u.MeasuredTemp -= 0.05
}

func (d *Dummy) Send(ctx context.Context, cmd actuator.Command) error {
	logrus.Info("dummy: ", cmd)
	d.Lock()
	defer d.Unlock()
	switch cmd.Kind {
	case actuator.TurnOn:
		d.unit.Power = true
	case actuator.SetTemperature:
		d.unit.TargetTemp = cmd.Temperature
	case actuator.SetHVACMode:
		d.unit.Mode = cmd.HVACMode
	case actuator.SetFanMode:
		d.unit.FanMode = cmd.FanMode
	case actuator.SetSwingMode:
		d.unit.SwingMode = cmd.SwingMode
	}
	return nil
}

// ServeHTTP shows the unit. ?room=<temp> overrides the room temperature.
func (d *Dummy) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if room := req.URL.Query().Get("room"); room != "" {
		f, err := strconv.ParseFloat(room, 64)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logrus.Infof("dummy: setting room temperature to %.1f", f)
		d.Lock()
		d.unit.MeasuredTemp = f
		d.Unlock()
	}

	d.Lock()
	s := d.unit
	d.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s); err != nil {
		logrus.Error(err)
	}
}
