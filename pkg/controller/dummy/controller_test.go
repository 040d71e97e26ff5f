package dummy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nergy-se/climate-controller/pkg/actuator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDummyHeats(t *testing.T) {
	d := New(20)
	for _, cmd := range []actuator.Command{
		{Kind: actuator.TurnOn},
		{Kind: actuator.SetTemperature, Temperature: 21},
		{Kind: actuator.SetHVACMode, HVACMode: "heat"},
	} {
		require.NoError(t, d.Send(context.TODO(), cmd))
	}

	s, err := d.Snapshot(context.TODO())
	require.NoError(t, err)
	assert.True(t, s.Power)
	assert.Equal(t, "heat", s.Mode)
	assert.InDelta(t, 20.1, s.MeasuredTemp, 1e-9)

	require.NoError(t, d.Send(context.TODO(), actuator.Command{Kind: actuator.SetHVACMode, HVACMode: "fan_only"}))
	s, err = d.Snapshot(context.TODO())
	require.NoError(t, err)
	assert.InDelta(t, 20.05, s.MeasuredTemp, 1e-9)
}

func TestServeHTTP(t *testing.T) {
	d := New(20)
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/climate?room=17.5", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	s := actuator.Snapshot{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 17.5, s.MeasuredTemp)

	rec = httptest.NewRecorder()
	d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/climate?room=cold", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
