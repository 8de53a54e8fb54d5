package ceapi

import "time"

// TariffGroup is one block of a tariff plan: for matching months and weekdays,
// periods lists hour boundaries and costs the price within each period.
type TariffGroup struct {
	Days    []int     `json:"days"`
	Months  []int     `json:"months"`
	Periods []int     `json:"periods"`
	Costs   []float64 `json:"costs"`
}

// CostAt returns the cost applying at t, or nil when this group does not
// cover t's month/weekday. Weekdays are 1=Monday..7=Sunday.
func (g *TariffGroup) CostAt(t time.Time) *float64 {
	if !containsInt(g.Months, int(t.Month())) {
		return nil
	}
	if !containsInt(g.Days, isoWeekday(t)) {
		return nil
	}
	for i := 0; i+1 < len(g.Periods); i++ {
		if g.Periods[i] <= t.Hour() && t.Hour() < g.Periods[i+1] {
			return &g.Costs[i]
		}
	}
	if len(g.Costs) == 0 {
		return nil
	}
	// Hours past the last boundary fall into the final period.
	return &g.Costs[len(g.Costs)-1]
}

func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// Tariff is a retail energy plan.
type Tariff struct {
	DNSPCode     string     `json:"dnspCode"`
	State        string     `json:"state"`
	RetailerCode string     `json:"retailerCode"`
	RetailerName string     `json:"retailerName"`
	PlanID       int64      `json:"planId"`
	PlanName     string     `json:"planName"`
	TariffType   string     `json:"tariffType"`
	Source       string     `json:"source"`
	DailyFee     float64    `json:"dailyFee"`
	FeedInCost   float64    `json:"feedInCost"`
	AsAt         *Timestamp `json:"asAt,omitempty"`
	Updated      Timestamp  `json:"updated"`

	Groups []TariffGroup `json:"groups"`
}

// CostAt returns the first group cost applying at t, or nil when no group covers it.
func (t *Tariff) CostAt(at time.Time) *float64 {
	for i := range t.Groups {
		if cost := t.Groups[i].CostAt(at); cost != nil {
			return cost
		}
	}
	return nil
}

// TariffDetails is the response from the tariff-details endpoint.
type TariffDetails struct {
	Status string `json:"status"`
	PlanID int64  `json:"planId"`
	Tariff Tariff `json:"tariff"`
}
