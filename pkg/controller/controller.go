package controller

import (
	"context"
	"math"

	"github.com/nergy-se/climate-controller/pkg/actuator"
)

// Controller is a climate unit the actuator can read and drive.
type Controller interface {
	// Snapshot is read fresh every tick and never cached.
	Snapshot(ctx context.Context) (*actuator.Snapshot, error)
	actuator.Commander
}

func Scale10itof(i int, err error) (float64, error) {
	return float64(i) / 10.0, err
}

// Ftoi10 encodes a temperature as a signed register value with scale 10.
func Ftoi10(f float64) uint16 {
	return uint16(int16(math.Round(f * 10)))
}
