package wx

// group is the unit group a field belongs to. Fields in the same group
// share one unit per system and convert together.
type group int

const (
	groupNone group = iota
	groupTemperature
	groupSpeed
	groupRain
	groupRainRate
	groupPressure
	groupAltitude
)

// fieldGroups assigns known record fields to their unit group. Fields not
// listed here (humidity, wind direction, UV, radiation, anything unknown)
// carry the same value in every system.
var fieldGroups = map[string]group{
	"outTemp":   groupTemperature,
	"inTemp":    groupTemperature,
	"appTemp":   groupTemperature,
	"heatindex": groupTemperature,
	"humidex":   groupTemperature,
	"windchill": groupTemperature,
	"dewpoint":  groupTemperature,
	"THSW":      groupTemperature,

	"windSpeed": groupSpeed,
	"windGust":  groupSpeed,

	"rain":     groupRain,
	"hourRain": groupRain,
	"dayRain":  groupRain,
	"rain24":   groupRain,

	"rainRate": groupRainRate,

	"barometer": groupPressure,
	"pressure":  groupPressure,
	"altimeter": groupPressure,

	"cloudbase": groupAltitude,
	"altitude":  groupAltitude,
}

// Conversion factors between a group's US unit and its metric canonical unit.
const (
	mphToMps   = 0.44704 // mph -> m/s
	inchToMM   = 25.4    // inch -> mm
	inHgToMbar = 33.86   // inHg -> mbar
	footToM    = 0.3048  // foot -> meter
)

// toCanonical converts v to the group's canonical metric unit
// (°C, m/s, mm, mm/h, mbar, meter).
func toCanonical(v float64, g group, from System) float64 {
	switch g {
	case groupTemperature:
		if from == US {
			return (v - 32) * 5 / 9
		}
	case groupSpeed:
		switch from {
		case US:
			return v * mphToMps
		case Metric:
			return v / 3.6 // km/h -> m/s
		}
	case groupRain, groupRainRate:
		switch from {
		case US:
			return v * inchToMM
		case Metric:
			return v * 10 // cm -> mm
		}
	case groupPressure:
		if from == US {
			return v * inHgToMbar
		}
	case groupAltitude:
		if from == US {
			return v * footToM
		}
	}
	return v
}

// fromCanonical converts v from the group's canonical metric unit to the
// unit the target system uses for that group.
func fromCanonical(v float64, g group, to System) float64 {
	switch g {
	case groupTemperature:
		if to == US {
			return v*9/5 + 32
		}
	case groupSpeed:
		switch to {
		case US:
			return v / mphToMps
		case Metric:
			return v * 3.6 // m/s -> km/h
		}
	case groupRain, groupRainRate:
		switch to {
		case US:
			return v / inchToMM
		case Metric:
			return v / 10 // mm -> cm
		}
	case groupPressure:
		if to == US {
			return v / inHgToMbar
		}
	case groupAltitude:
		if to == US {
			return v / footToM
		}
	}
	return v
}

// Convert re-expresses the value of the named field from one system in
// another. Fields with no unit group are returned unchanged.
func Convert(field string, v float64, from, to System) float64 {
	if from == to {
		return v
	}
	g := fieldGroups[field]
	if g == groupNone {
		return v
	}
	return fromCanonical(toCanonical(v, g, from), g, to)
}

// ConvertRecord returns rec with all convertible fields expressed in the
// target system. When the record is already in the target system the input
// is returned as-is. The input record is never modified.
func ConvertRecord(rec Record, target System) Record {
	if rec.Units == target {
		return rec
	}
	values := make(map[string]float64, len(rec.Values))
	for field, v := range rec.Values {
		values[field] = Convert(field, v, rec.Units, target)
	}
	return Record{Time: rec.Time, Units: target, Values: values}
}
