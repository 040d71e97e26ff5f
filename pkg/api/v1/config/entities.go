package config

// Entities names the Home Assistant entities the controller reads and writes.
type Entities struct {
	Climate         string `default:"climate.153931628243065_climate"`
	RoomTemperature string `default:"sensor.climate_living_room_temperature"`

	// PriceSourceNordpool
	Nordpool string `default:"sensor.nordpool_kwh_fi_eur_3_10_024"`

	// PriceSourceSensor, also written when PublishState is set
	Price     string `default:"sensor.electricity_price"`
	PriceMean string `default:"sensor.electricity_price_mean_c_kWh"`
	PriceEuro string `default:"sensor.electricity_price_E_kWh"`

	TargetHistory string `default:"sensor.ac_target_temperature_history"`
	OnOffHistory  string `default:"sensor.ac_on_off_history"`

	ManualOverride string `default:"input_boolean.manual_override_set"`

	MinTemp             string `default:"input_number.target_room_min_temperature"`
	TargetTemp          string `default:"input_number.target_room_temperature"`
	MaxTemp             string `default:"input_number.target_room_max_temperature"`
	MinPriceMult        string `default:"input_number.min_mean_price_multiplier"`
	MaxPriceMult        string `default:"input_number.max_mean_price_multiplier"`
	MinAbsPrice         string `default:"input_number.min_absolute_price"`
	MaxAbsPrice         string `default:"input_number.max_absolute_price"`
	MinDwell            string `default:"input_number.min_state_change_time"`
	IgnoreDwellTempDiff string `default:"input_number.ignore_change_time_temp_diff"`

	DayRate   string `default:"input_number.day_transfer_charge"`
	NightRate string `default:"input_number.night_transfer_charge"`
}

func DefaultEntities() Entities {
	return Entities{
		Climate:             "climate.153931628243065_climate",
		RoomTemperature:     "sensor.climate_living_room_temperature",
		Nordpool:            "sensor.nordpool_kwh_fi_eur_3_10_024",
		Price:               "sensor.electricity_price",
		PriceMean:           "sensor.electricity_price_mean_c_kWh",
		PriceEuro:           "sensor.electricity_price_E_kWh",
		TargetHistory:       "sensor.ac_target_temperature_history",
		OnOffHistory:        "sensor.ac_on_off_history",
		ManualOverride:      "input_boolean.manual_override_set",
		MinTemp:             "input_number.target_room_min_temperature",
		TargetTemp:          "input_number.target_room_temperature",
		MaxTemp:             "input_number.target_room_max_temperature",
		MinPriceMult:        "input_number.min_mean_price_multiplier",
		MaxPriceMult:        "input_number.max_mean_price_multiplier",
		MinAbsPrice:         "input_number.min_absolute_price",
		MaxAbsPrice:         "input_number.max_absolute_price",
		MinDwell:            "input_number.min_state_change_time",
		IgnoreDwellTempDiff: "input_number.ignore_change_time_temp_diff",
		DayRate:             "input_number.day_transfer_charge",
		NightRate:           "input_number.night_transfer_charge",
	}
}
