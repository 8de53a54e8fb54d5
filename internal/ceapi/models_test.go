package ceapi

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshal(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`1744748875`), &ts); err != nil {
		t.Fatalf("unmarshal epoch: %v", err)
	}
	if ts.Unix() != 1744748875 {
		t.Fatalf("unexpected epoch time: %v", ts.Time)
	}

	if err := json.Unmarshal([]byte(`"2025-04-15T20:27:55Z"`), &ts); err != nil {
		t.Fatalf("unmarshal rfc3339: %v", err)
	}
	if ts.Unix() != 1744748875 {
		t.Fatalf("unexpected rfc3339 time: %v", ts.Time)
	}

	if err := json.Unmarshal([]byte(`null`), &ts); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}

	if err := json.Unmarshal([]byte(`"not a time"`), &ts); err == nil {
		t.Fatal("expected error for garbage timestamp")
	}
}

func TestLoginExpiry(t *testing.T) {
	created := time.Date(2025, 4, 13, 6, 51, 50, 0, time.UTC)
	login := &Login{Status: "ok", ExpireMins: 180, JWT: "xxxx", Created: created}

	if login.Expired(created.Add(179 * time.Minute)) {
		t.Fatal("login must be valid within the expiry window")
	}
	if !login.Expired(created.Add(181 * time.Minute)) {
		t.Fatal("login must be expired past the window")
	}
	if !login.Expires().Equal(created.Add(3 * time.Hour)) {
		t.Fatalf("unexpected expiry: %v", login.Expires())
	}
}

func TestAvailablePercentage(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	d := &DeviceReadings{
		DeviceType:      DeviceTypeWaterHeater,
		AvailableEnergy: []*float64{f(5), nil, f(0)},
		MaxEnergy:       []*float64{f(10), f(10), f(0)},
	}
	got := d.AvailablePercentage()
	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got))
	}
	if got[0] == nil || *got[0] != 50 {
		t.Fatalf("expected 50%%, got %v", got[0])
	}
	if got[1] != nil {
		t.Fatalf("missing input must produce nil, got %v", *got[1])
	}
	if got[2] == nil || *got[2] != 0 {
		t.Fatalf("zero max must produce 0, got %v", got[2])
	}

	empty := &DeviceReadings{DeviceType: DeviceTypeWaterHeater}
	if empty.AvailablePercentage() != nil {
		t.Fatal("expected nil when no series present")
	}
}

func TestReadingsByDevice(t *testing.T) {
	id := int64(42)
	r := &Readings{Devices: []DeviceReadings{
		{DeviceID: &id, DeviceType: DeviceTypeSolarPV},
		{DeviceType: DeviceTypeEnergyBalance},
	}}
	byID := r.ByDevice()
	if len(byID) != 1 {
		t.Fatalf("expected 1 indexed device, got %d", len(byID))
	}
	if _, ok := byID[42]; !ok {
		t.Fatal("expected device 42 indexed")
	}
}

func TestTariffGroupCostAt(t *testing.T) {
	g := &TariffGroup{
		Days:    []int{1, 2, 3, 4, 5},
		Months:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		Periods: []int{0, 7, 21},
		Costs:   []float64{0.20, 0.35, 0.20},
	}

	// Tuesday 2025-04-15.
	morning := time.Date(2025, 4, 15, 6, 0, 0, 0, time.UTC)
	if cost := g.CostAt(morning); cost == nil || *cost != 0.20 {
		t.Fatalf("expected off-peak 0.20, got %v", cost)
	}
	peak := time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)
	if cost := g.CostAt(peak); cost == nil || *cost != 0.35 {
		t.Fatalf("expected peak 0.35, got %v", cost)
	}
	late := time.Date(2025, 4, 15, 23, 0, 0, 0, time.UTC)
	if cost := g.CostAt(late); cost == nil || *cost != 0.20 {
		t.Fatalf("expected final period 0.20, got %v", cost)
	}
	// Saturday is not covered by this group.
	weekend := time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	if cost := g.CostAt(weekend); cost != nil {
		t.Fatalf("expected nil on uncovered weekday, got %v", *cost)
	}
}

func TestTariffCostAt(t *testing.T) {
	tariff := &Tariff{Groups: []TariffGroup{
		{Days: []int{6, 7}, Months: monthsAll(), Periods: []int{0}, Costs: []float64{0.25}},
		{Days: []int{1, 2, 3, 4, 5}, Months: monthsAll(), Periods: []int{0}, Costs: []float64{0.30}},
	}}
	weekday := time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)
	if cost := tariff.CostAt(weekday); cost == nil || *cost != 0.30 {
		t.Fatalf("expected weekday 0.30, got %v", cost)
	}
	sunday := time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)
	if cost := tariff.CostAt(sunday); cost == nil || *cost != 0.25 {
		t.Fatalf("expected weekend 0.25, got %v", cost)
	}
}

func monthsAll() []int {
	return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
}
