package memory

import (
	"context"
	"testing"
	"time"

	"github.com/nergy-se/climate-controller/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundtrip(t *testing.T) {
	s := New()
	_, err := s.State(context.TODO(), "sensor.missing")
	assert.ErrorIs(t, err, platform.ErrNotFound)

	err = s.SetState(context.TODO(), "climate.ac", "heat", map[string]any{"fan_mode": "Medium"})
	require.NoError(t, err)
	err = s.SetState(context.TODO(), "climate.ac", "fan_only", map[string]any{"temperature": 21.0})
	require.NoError(t, err)

	e, err := s.State(context.TODO(), "climate.ac")
	require.NoError(t, err)
	assert.Equal(t, "fan_only", e.State)
	assert.Equal(t, "Medium", e.StringAttr("fan_mode"))

	// returned entity is a copy
	e.Attributes["fan_mode"] = "High"
	e2, _ := s.State(context.TODO(), "climate.ac")
	assert.Equal(t, "Medium", e2.StringAttr("fan_mode"))
}

func TestHistory(t *testing.T) {
	s := New()
	base := time.Date(2024, 11, 2, 10, 0, 0, 0, time.UTC)
	i := 0
	s.now = func() time.Time {
		i++
		return base.Add(time.Duration(i) * time.Minute)
	}
	s.SetFloat("sensor.energy", 1)
	s.SetFloat("sensor.energy", 2)
	s.SetFloat("sensor.energy", 3)

	points, err := s.History(context.TODO(), "sensor.energy", base.Add(2*time.Minute), base.Add(3*time.Minute))
	assert.NoError(t, err)
	assert.Equal(t, []platform.Point{
		{Time: base.Add(2 * time.Minute), State: "2"},
		{Time: base.Add(3 * time.Minute), State: "3"},
	}, points)
}

func TestCallService(t *testing.T) {
	s := New()
	err := s.CallService(context.TODO(), "climate", "turn_on", map[string]any{"entity_id": "climate.ac"})
	assert.NoError(t, err)
	assert.Equal(t, []ServiceCall{{Domain: "climate", Service: "turn_on", Data: map[string]any{"entity_id": "climate.ac"}}}, s.Calls())
}
