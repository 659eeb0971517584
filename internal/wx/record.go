package wx

import (
	"fmt"
	"strings"
	"time"
)

// System identifies which unit system a record's values are expressed in.
type System int

const (
	// US customary units: °F, mph, inch, inHg, foot.
	US System = iota
	// Metric units: °C, km/h, cm, mbar, meter.
	Metric
	// MetricWX is metric with the units preferred for weather reporting:
	// °C, m/s, mm, mbar, meter.
	MetricWX
)

// String returns the canonical configuration name for the system.
func (s System) String() string {
	switch s {
	case US:
		return "US"
	case Metric:
		return "METRIC"
	case MetricWX:
		return "METRICWX"
	}
	return fmt.Sprintf("System(%d)", int(s))
}

// ParseSystem resolves a configuration name to a System. Matching is
// case-insensitive. An unknown name is a configuration error.
func ParseSystem(name string) (System, error) {
	switch strings.ToUpper(name) {
	case "US":
		return US, nil
	case "METRIC":
		return Metric, nil
	case "METRICWX":
		return MetricWX, nil
	}
	return US, fmt.Errorf("wx: unknown unit system %q (want US, METRIC or METRICWX)", name)
}

// Record is one set of readings captured at a single sampling instant.
// A field absent from Values means the station produced no reading for it.
// Records are treated as immutable once handed to the posting pipeline.
type Record struct {
	// Time is the capture time of the readings.
	Time time.Time

	// Units is the unit system the values are expressed in.
	Units System

	// Values maps field name (e.g. "outTemp") to its numeric reading.
	Values map[string]float64
}
