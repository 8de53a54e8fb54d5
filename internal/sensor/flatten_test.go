package sensor

import (
	"testing"

	"github.com/voltlabs/cebridge/internal/ceapi"
)

func f(v float64) *float64 { return &v }

func stateByKey(t *testing.T, states []State, key string) State {
	t.Helper()
	for _, s := range states {
		if s.Key == key {
			return s
		}
	}
	t.Fatalf("no state with key %q in %+v", key, states)
	return State{}
}

func TestStatesSolar(t *testing.T) {
	d := &ceapi.DeviceReadings{
		DeviceType:     ceapi.DeviceTypeSolarPV,
		SampleSeconds:  []int{5, 5, 5},
		EnergySupplied: []*float64{f(1.111), f(2.222), nil},
	}
	states := States(d)

	energy := stateByKey(t, states, "energy_supplied")
	if energy.Value != 3.33 {
		t.Fatalf("energy must sum the window, got %v", energy.Value)
	}
	if energy.Unit != UnitWattHour {
		t.Fatalf("unexpected unit: %s", energy.Unit)
	}

	// Power derives from the last non-nil sample: 2.222 Wh over 5s = 1.6 kW.
	power := stateByKey(t, states, "power_supply")
	if power.Value != 1.6 {
		t.Fatalf("unexpected derived power: %v", power.Value)
	}
	if power.Unit != UnitKilowatt {
		t.Fatalf("unexpected unit: %s", power.Unit)
	}
}

func TestStatesGridMeter(t *testing.T) {
	d := &ceapi.DeviceReadings{
		DeviceType:   ceapi.DeviceTypeGridMeter,
		PowerFactorA: []*float64{f(0.951), f(0.962)},
		VoltageA:     []*float64{f(229.876), f(230.124)},
	}
	states := States(d)

	pf := stateByKey(t, states, "power_factor_a")
	if pf.Value != 96.2 {
		t.Fatalf("power factor must be last sample as %%, got %v", pf.Value)
	}
	v := stateByKey(t, states, "voltage_a")
	if v.Value != 230.12 {
		t.Fatalf("voltage must be last sample rounded, got %v", v.Value)
	}
	// Series the device did not report are omitted.
	for _, s := range states {
		if s.Key == "voltage_b" || s.Key == "energy_supplied" {
			t.Fatalf("unreported series must be omitted, got %+v", s)
		}
	}
}

func TestStatesWaterHeater(t *testing.T) {
	d := &ceapi.DeviceReadings{
		DeviceType:      ceapi.DeviceTypeWaterHeater,
		AvailableEnergy: []*float64{f(147.6)},
		MaxEnergy:       []*float64{f(200)},
	}
	states := States(d)

	avail := stateByKey(t, states, "available_energy")
	if avail.Value != 148 {
		t.Fatalf("water volume must round to whole litres, got %v", avail.Value)
	}
	pct := stateByKey(t, states, "available_percentage")
	if pct.Value != 73.8 {
		t.Fatalf("unexpected available percentage: %v", pct.Value)
	}
}

func TestStatesAllNilSeries(t *testing.T) {
	d := &ceapi.DeviceReadings{
		DeviceType: ceapi.DeviceTypeGridMeter,
		VoltageA:   []*float64{nil, nil},
	}
	for _, s := range States(d) {
		if s.Key == "voltage_a" {
			t.Fatalf("series with no samples must not produce a state, got %+v", s)
		}
	}
}

func TestStatesUnknownDeviceType(t *testing.T) {
	d := &ceapi.DeviceReadings{DeviceType: "UNKNOWN"}
	if states := States(d); states != nil {
		t.Fatalf("expected no states for unknown device type, got %+v", states)
	}
}
