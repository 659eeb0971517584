// Package wx holds the weather record data model and unit conversion.
//
// A Record is one timestamped set of named numeric readings tagged with the
// unit System the values were captured in (US, METRIC, or METRICWX). A
// reading that the station did not produce is simply absent from the map.
//
// ConvertRecord re-expresses a record in a different unit system. Each known
// field belongs to a unit group (temperature, speed, rain, pressure, ...)
// and each group has a fixed unit per system. Fields with no defined group
// — humidity, directions, UV index, radiation — are system-independent and
// pass through unchanged, as do fields this package has never heard of.
package wx
