package ceapi

// ReadingsSampleFallbackSeconds is assumed when a sample slot carries no
// explicit width.
const ReadingsSampleFallbackSeconds = 5

// Device types reported in readings.
const (
	DeviceTypeCombiner        = "COMBINER"
	DeviceTypeSolarPV         = "SOLAR_PV"
	DeviceTypeGridMeter       = "GRID_METER"
	DeviceTypeGenericConsumer = "GENERIC_CONSUMER"
	DeviceTypeWaterHeater     = "WATER_HEATER"
	DeviceTypeEnergyBalance   = "ENERGY_BALANCE"
)

// DeviceReadings is one device's series within a readings window. The service
// discriminates payloads on deviceType; fields not reported for a type stay
// nil. Sample slots the monitor has no data for carry nil entries.
type DeviceReadings struct {
	DeviceID   *int64     `json:"deviceId"`
	DeviceType string     `json:"deviceType"`
	RangeStart *Timestamp `json:"rangeStart,omitempty"`
	RangeEnd   *Timestamp `json:"rangeEnd,omitempty"`

	Timestamp     []Timestamp `json:"timestamp"`
	SampleSeconds []int       `json:"sampleSecs,omitempty"`

	OperationStatus  []*string `json:"operationStatus,omitempty"`
	OperationMessage []*string `json:"operationMessage,omitempty"`

	EnergySupplied        []*float64 `json:"energySupplied,omitempty"`
	EnergySuppliedSolar   []*float64 `json:"energySuppliedSolar,omitempty"`
	EnergySuppliedBattery []*float64 `json:"energySuppliedBattery,omitempty"`
	EnergySuppliedGrid    []*float64 `json:"energySuppliedGrid,omitempty"`

	EnergyConsumed        []*float64 `json:"energyConsumed,omitempty"`
	EnergyConsumedSolar   []*float64 `json:"energyConsumedSolar,omitempty"`
	EnergyConsumedBattery []*float64 `json:"energyConsumedBattery,omitempty"`
	EnergyConsumedGrid    []*float64 `json:"energyConsumedGrid,omitempty"`
	EnergyCorrection      []*float64 `json:"energyCorrection,omitempty"`

	Temperature []*float64 `json:"temperature,omitempty"`

	PowerFactorA []*float64 `json:"powerFactorA,omitempty"`
	PowerFactorB []*float64 `json:"powerFactorB,omitempty"`
	PowerFactorC []*float64 `json:"powerFactorC,omitempty"`
	VoltageA     []*float64 `json:"voltageA,omitempty"`
	VoltageB     []*float64 `json:"voltageB,omitempty"`
	VoltageC     []*float64 `json:"voltageC,omitempty"`

	AvailableEnergy []*float64 `json:"availableEnergy,omitempty"`
	MaxEnergy       []*float64 `json:"maxEnergy,omitempty"`
	TempSensor1     []*float64 `json:"s1,omitempty"`
	TempSensor2     []*float64 `json:"s2,omitempty"`
	TempSensor3     []*float64 `json:"s3,omitempty"`
	TempSensor4     []*float64 `json:"s4,omitempty"`
	TempSensor5     []*float64 `json:"s5,omitempty"`
	TempSensor6     []*float64 `json:"s6,omitempty"`
}

// AvailablePercentage computes the water heater's available hot water as a
// percentage of maximum, per sample. Slots missing either input are nil.
func (d *DeviceReadings) AvailablePercentage() []*float64 {
	if d.AvailableEnergy == nil || d.MaxEnergy == nil {
		return nil
	}
	n := len(d.AvailableEnergy)
	if len(d.MaxEnergy) > n {
		n = len(d.MaxEnergy)
	}
	out := make([]*float64, n)
	for i := 0; i < n; i++ {
		var a, m *float64
		if i < len(d.AvailableEnergy) {
			a = d.AvailableEnergy[i]
		}
		if i < len(d.MaxEnergy) {
			m = d.MaxEnergy[i]
		}
		if a == nil || m == nil {
			continue
		}
		v := 0.0
		if *m > 0 {
			v = *a / *m * 100
		}
		out[i] = &v
	}
	return out
}

// Readings is a window of history data across all devices.
type Readings struct {
	RangeStart     Timestamp `json:"rangeStart"`
	RangeEnd       Timestamp `json:"rangeEnd"`
	RangeCount     int       `json:"rangeCount"`
	Seconds        int       `json:"seconds"`
	InstallationID int64     `json:"installationId"`
	ServerTime     Timestamp `json:"serverTime"`

	Devices []DeviceReadings `json:"devices"`
}

// ByDevice indexes the per-device series by device id, skipping entries the
// service reports without one.
func (r *Readings) ByDevice() map[int64]DeviceReadings {
	out := make(map[int64]DeviceReadings, len(r.Devices))
	for _, d := range r.Devices {
		if d.DeviceID != nil {
			out[*d.DeviceID] = d
		}
	}
	return out
}
