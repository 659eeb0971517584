package poster

import (
	"strconv"

	"github.com/wxrelay/wxrelay/internal/wx"
)

// FieldSpec maps one record field to its wire key and formatting rule.
type FieldSpec struct {
	// Source is the record field name.
	Source string
	// Dest is the key the value is posted under.
	Dest string
	// Prec is the fixed number of decimal places in the formatted value.
	Prec int
}

// StdFields is the field table posted to the device, in wire order. Only
// fields listed here ever appear in a payload; a record field absent from
// the record is omitted, never defaulted.
var StdFields = []FieldSpec{
	{"outTemp", "temperature", 1},
	{"outHumidity", "humidity", 0},

	{"windSpeed", "windSpeed", 1},
	{"windDir", "windDirection", 0},
	{"windGust", "windGustSpeed", 1},
	{"windGustDir", "windGustDirection", 0},

	{"appTemp", "apptemp", 1},
	{"heatindex", "heatindex", 1},
	{"humidex", "humidex", 1},
	{"windchill", "windchill", 1},

	{"rain", "rain", 2},
	{"rainRate", "rainRate", 2},
	{"hourRain", "hourRain", 2},
	{"dayRain", "dayRain", 2},
	{"rain24", "rain24", 2},

	{"barometer", "barometer", 3},
	{"dewpoint", "dewpoint", 1},
	{"cloudbase", "cloudbase", 0},

	{"UV", "uv", 1},
	{"radiation", "radiation", 1},
	{"THSW", "THSW", 1},
}

// Field is one formatted key/value pair of the wire payload.
type Field struct {
	Key   string
	Value string
}

// MapFields selects and formats the record fields named by specs, in table
// order. Iterating the table rather than the record keeps the output order
// deterministic regardless of how the record was built. Fields missing from
// the record are omitted.
func MapFields(rec wx.Record, specs []FieldSpec) []Field {
	out := make([]Field, 0, len(specs))
	for _, fs := range specs {
		v, ok := rec.Values[fs.Source]
		if !ok {
			continue
		}
		out = append(out, Field{
			Key:   fs.Dest,
			Value: strconv.FormatFloat(v, 'f', fs.Prec, 64),
		})
	}
	return out
}
