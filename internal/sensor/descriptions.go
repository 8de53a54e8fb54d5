// Package sensor flattens device readings into sensor states following the
// per-device-type sensor catalog of the integration.
package sensor

import "github.com/voltlabs/cebridge/internal/ceapi"

// Kind selects how a series is reduced to a single state value.
type Kind int

const (
	// KindGeneric takes the last sample, rounded to 2 decimals.
	KindGeneric Kind = iota
	// KindEnergy sums the window's samples (Wh), resetting at range start.
	KindEnergy
	// KindPower derives kW from the last energy sample and its width.
	KindPower
	// KindPowerFactor takes the last sample as a fraction, reported as %.
	KindPowerFactor
	// KindWaterVolume takes the last sample rounded to whole litres.
	KindWaterVolume
)

// Description declares one sensor derived from a device readings series.
type Description struct {
	Key            string
	Name           string
	Unit           string
	Kind           Kind
	EnabledDefault bool

	// Series selects the raw series from a DeviceReadings.
	Series func(*ceapi.DeviceReadings) []*float64
}

// Units used in the catalog.
const (
	UnitWattHour = "Wh"
	UnitKilowatt = "kW"
	UnitPercent  = "%"
	UnitVolt     = "V"
	UnitCelsius  = "°C"
	UnitLitre    = "L"
)

var energyConsumerDescriptions = []Description{
	{Key: "energy_consumed", Name: "Energy consumption", Unit: UnitWattHour, Kind: KindEnergy, EnabledDefault: true,
		Series: func(d *ceapi.DeviceReadings) []*float64 { return d.EnergyConsumed }},
	{Key: "energy_consumed_solar", Name: "Energy consumption from solar", Unit: UnitWattHour, Kind: KindEnergy,
		Series: func(d *ceapi.DeviceReadings) []*float64 { return d.EnergyConsumedSolar }},
	{Key: "energy_consumed_battery", Name: "Energy consumption from battery", Unit: UnitWattHour, Kind: KindEnergy,
		Series: func(d *ceapi.DeviceReadings) []*float64 { return d.EnergyConsumedBattery }},
	{Key: "energy_consumed_grid", Name: "Energy consumption from grid", Unit: UnitWattHour, Kind: KindEnergy,
		Series: func(d *ceapi.DeviceReadings) []*float64 { return d.EnergyConsumedGrid }},
	{Key: "power_consumption", Name: "Power consumption", Unit: UnitKilowatt, Kind: KindPower, EnabledDefault: true,
		Series: func(d *ceapi.DeviceReadings) []*float64 { return d.EnergyConsumed }},
}

var descriptions = map[string][]Description{
	ceapi.DeviceTypeSolarPV: {
		{Key: "energy_supplied", Name: "Solar generation", Unit: UnitWattHour, Kind: KindEnergy, EnabledDefault: true,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.EnergySupplied }},
		{Key: "power_supply", Name: "Solar generation power", Unit: UnitKilowatt, Kind: KindPower, EnabledDefault: true,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.EnergySupplied }},
	},
	ceapi.DeviceTypeGridMeter: {
		{Key: "energy_supplied", Name: "Energy export to grid", Unit: UnitWattHour, Kind: KindEnergy, EnabledDefault: true,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.EnergySupplied }},
		{Key: "energy_consumed", Name: "Energy import from grid", Unit: UnitWattHour, Kind: KindEnergy, EnabledDefault: true,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.EnergyConsumed }},
		{Key: "power_factor_a", Name: "Power factor A", Unit: UnitPercent, Kind: KindPowerFactor, EnabledDefault: true,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.PowerFactorA }},
		{Key: "power_factor_b", Name: "Power factor B", Unit: UnitPercent, Kind: KindPowerFactor,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.PowerFactorB }},
		{Key: "power_factor_c", Name: "Power factor C", Unit: UnitPercent, Kind: KindPowerFactor,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.PowerFactorC }},
		{Key: "voltage_a", Name: "Voltage A", Unit: UnitVolt, Kind: KindGeneric, EnabledDefault: true,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.VoltageA }},
		{Key: "voltage_b", Name: "Voltage B", Unit: UnitVolt, Kind: KindGeneric,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.VoltageB }},
		{Key: "voltage_c", Name: "Voltage C", Unit: UnitVolt, Kind: KindGeneric,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.VoltageC }},
	},
	ceapi.DeviceTypeGenericConsumer: energyConsumerDescriptions,
	ceapi.DeviceTypeEnergyBalance:   energyConsumerDescriptions,
	ceapi.DeviceTypeCombiner: append(append([]Description{}, energyConsumerDescriptions...),
		Description{Key: "energy_supplied", Name: "Energy supplied", Unit: UnitWattHour, Kind: KindEnergy, EnabledDefault: true,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.EnergySupplied }},
		Description{Key: "energy_supplied_solar", Name: "Energy supplied from solar", Unit: UnitWattHour, Kind: KindEnergy,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.EnergySuppliedSolar }},
		Description{Key: "energy_supplied_battery", Name: "Energy supplied from battery", Unit: UnitWattHour, Kind: KindEnergy,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.EnergySuppliedBattery }},
		Description{Key: "energy_supplied_grid", Name: "Energy supplied from grid", Unit: UnitWattHour, Kind: KindEnergy,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.EnergySuppliedGrid }},
	),
	ceapi.DeviceTypeWaterHeater: append(append([]Description{}, energyConsumerDescriptions...),
		Description{Key: "available_energy", Name: "Hot water available", Unit: UnitLitre, Kind: KindWaterVolume, EnabledDefault: true,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.AvailableEnergy }},
		Description{Key: "max_energy", Name: "Hot water capacity", Unit: UnitLitre, Kind: KindWaterVolume,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.MaxEnergy }},
		Description{Key: "available_percentage", Name: "Hot water available percentage", Unit: UnitPercent, Kind: KindGeneric, EnabledDefault: true,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.AvailablePercentage() }},
		Description{Key: "temp_sensor1", Name: "Water temperature 1", Unit: UnitCelsius, Kind: KindGeneric,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.TempSensor1 }},
		Description{Key: "temp_sensor2", Name: "Water temperature 2", Unit: UnitCelsius, Kind: KindGeneric,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.TempSensor2 }},
		Description{Key: "temp_sensor3", Name: "Water temperature 3", Unit: UnitCelsius, Kind: KindGeneric,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.TempSensor3 }},
		Description{Key: "temp_sensor4", Name: "Water temperature 4", Unit: UnitCelsius, Kind: KindGeneric,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.TempSensor4 }},
		Description{Key: "temp_sensor5", Name: "Water temperature 5", Unit: UnitCelsius, Kind: KindGeneric,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.TempSensor5 }},
		Description{Key: "temp_sensor6", Name: "Water temperature 6", Unit: UnitCelsius, Kind: KindGeneric,
			Series: func(d *ceapi.DeviceReadings) []*float64 { return d.TempSensor6 }},
	),
}

// DescriptionsFor returns the sensor catalog for a device type, or nil for
// device types without sensors.
func DescriptionsFor(deviceType string) []Description {
	return descriptions[deviceType]
}
