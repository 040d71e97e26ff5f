package state

import "time"

// Observation is the outcome of one controller tick.
type Observation struct {
	Time time.Time `json:"time"`

	Indoor     *float64 `json:"indoor,omitempty"`
	PriceNow   *float64 `json:"priceNow,omitempty"`
	PriceMean  *float64 `json:"priceMean,omitempty"`
	Target     *float64 `json:"target,omitempty"`
	Estimated  *bool    `json:"estimated,omitempty"`
	Power      *bool    `json:"power,omitempty"`
	Heating    *bool    `json:"heating,omitempty"`
	Overridden *bool    `json:"overridden,omitempty"`

	Mode      string   `json:"mode,omitempty"`
	FanMode   string   `json:"fanMode,omitempty"`
	SwingMode string   `json:"swingMode,omitempty"`
	Commands  []string `json:"commands,omitempty"`
}

// Map flattens the observation for log fields. Bools become 0 or 1.
func (o Observation) Map() map[string]interface{} {
	m := make(map[string]interface{})
	if o.Indoor != nil {
		m["indoor"] = *o.Indoor
	}
	if o.PriceNow != nil {
		m["priceNow"] = *o.PriceNow
	}
	if o.PriceMean != nil {
		m["priceMean"] = *o.PriceMean
	}
	if o.Target != nil {
		m["target"] = *o.Target
	}
	if o.Estimated != nil {
		m["estimated"] = boolToInt(*o.Estimated)
	}
	if o.Power != nil {
		m["power"] = boolToInt(*o.Power)
	}
	if o.Heating != nil {
		m["heating"] = boolToInt(*o.Heating)
	}
	if o.Overridden != nil {
		m["overridden"] = boolToInt(*o.Overridden)
	}
	if o.Mode != "" {
		m["mode"] = o.Mode
	}
	if o.FanMode != "" {
		m["fanMode"] = o.FanMode
	}
	if o.SwingMode != "" {
		m["swingMode"] = o.SwingMode
	}
	if len(o.Commands) > 0 {
		m["commands"] = len(o.Commands)
	}
	return m
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func Float(f float64) *float64 {
	return &f
}

func Bool(b bool) *bool {
	return &b
}
