package sensor

import (
	"math"

	"github.com/voltlabs/cebridge/internal/ceapi"
)

// State is one sensor reading derived from a device's series.
type State struct {
	Key   string
	Name  string
	Unit  string
	Value float64
}

// States reduces a device's readings into sensor states using the catalog for
// its device type. Series the device did not report are omitted.
func States(d *ceapi.DeviceReadings) []State {
	var out []State
	for _, desc := range DescriptionsFor(d.DeviceType) {
		series := desc.Series(d)
		if series == nil {
			continue
		}
		value, ok := reduce(desc.Kind, series, d.SampleSeconds)
		if !ok {
			continue
		}
		out = append(out, State{Key: desc.Key, Name: desc.Name, Unit: desc.Unit, Value: value})
	}
	return out
}

func reduce(kind Kind, series []*float64, sampleSecs []int) (float64, bool) {
	switch kind {
	case KindEnergy:
		return round(sum(series), 2), true
	case KindPower:
		v, i, ok := lastValue(series)
		if !ok {
			return 0, false
		}
		secs := ceapi.ReadingsSampleFallbackSeconds
		if i < len(sampleSecs) && sampleSecs[i] > 0 {
			secs = sampleSecs[i]
		}
		// Wh over the sample window to kW.
		return round(v*3600/float64(secs)/1000, 2), true
	case KindPowerFactor:
		v, _, ok := lastValue(series)
		if !ok {
			return 0, false
		}
		return round(v*100, 1), true
	case KindWaterVolume:
		v, _, ok := lastValue(series)
		if !ok {
			return 0, false
		}
		return math.Round(v), true
	default:
		v, _, ok := lastValue(series)
		if !ok {
			return 0, false
		}
		return round(v, 2), true
	}
}

// lastValue returns the last non-nil sample and its index.
func lastValue(series []*float64) (float64, int, bool) {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i] != nil {
			return *series[i], i, true
		}
	}
	return 0, 0, false
}

func sum(series []*float64) float64 {
	total := 0.0
	for _, v := range series {
		if v != nil {
			total += *v
		}
	}
	return total
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
