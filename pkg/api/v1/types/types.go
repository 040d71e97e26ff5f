package types

type ControllerType string

var ControllerTypeHomeAssistant = ControllerType("homeassistant")
var ControllerTypeModbus = ControllerType("modbus")
var ControllerTypeDummy = ControllerType("dummy")

// PriceSource selects where the current and mean price comes from.
type PriceSource string

// nordpool sensor with today/tomorrow attributes, curve computed here.
var PriceSourceNordpool = PriceSource("nordpool")

// two plain sensors already holding the effective price and the mean.
var PriceSourceSensor = PriceSource("sensor")
