package platform

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	e := &Entity{EntityID: "sensor.temp", State: "21.4"}
	f, err := e.Float()
	assert.NoError(t, err)
	assert.Equal(t, 21.4, f)

	for _, s := range []string{"unavailable", "unknown", ""} {
		e.State = s
		_, err = e.Float()
		assert.ErrorIs(t, err, ErrUnavailable)
	}

	e.State = "warm"
	_, err = e.Float()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestAttributesFromJSON(t *testing.T) {
	d := `
{
  "entity_id": "sensor.nordpool",
  "state": "4.1",
  "attributes": {
    "today": [1.5, 2, "3.25"],
    "tomorrow": null,
    "tomorrow_valid": false,
    "power": "on",
    "temperature": 22.5,
    "fan_mode": "Medium",
    "broken": [1, "x"]
  }
}`
	e := &Entity{}
	require.NoError(t, json.Unmarshal([]byte(d), e))

	today, err := e.FloatsAttr("today")
	assert.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2, 3.25}, today)

	tomorrow, err := e.FloatsAttr("tomorrow")
	assert.NoError(t, err)
	assert.Empty(t, tomorrow)

	_, err = e.FloatsAttr("broken")
	assert.Error(t, err)

	_, err = e.FloatsAttr("fan_mode")
	assert.Error(t, err)

	assert.False(t, e.BoolAttr("tomorrow_valid"))
	assert.True(t, e.BoolAttr("power"))
	assert.False(t, e.BoolAttr("missing"))

	temp, err := e.FloatAttr("temperature")
	assert.NoError(t, err)
	assert.Equal(t, 22.5, temp)

	_, err = e.FloatAttr("current_temperature")
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.Equal(t, "Medium", e.StringAttr("fan_mode"))
	assert.Equal(t, "", e.StringAttr("temperature"))
}

type oneEntity struct{ e *Entity }

func (o oneEntity) State(ctx context.Context, id string) (*Entity, error) { return o.e, nil }
func (o oneEntity) SetState(ctx context.Context, id, state string, attrs map[string]any) error {
	return nil
}

func TestReadFloat(t *testing.T) {
	f, err := ReadFloat(context.TODO(), oneEntity{&Entity{State: "3"}}, "sensor.x")
	assert.NoError(t, err)
	assert.Equal(t, 3.0, f)
}
