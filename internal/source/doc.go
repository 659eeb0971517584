// Package source provides the built-in record producer: a poller that
// samples a Prometheus exposition endpoint and feeds the posting pipeline.
//
// Many station gateways and node exporters publish their sensor readings as
// gauges. The poller fetches the endpoint once per sample interval, picks
// the configured metrics out of the exposition, renames them to record
// fields and stamps the record with the capture time and the configured
// unit system. A failed or partial sample is logged and skipped; the next
// tick tries again.
//
// The poller is optional — any producer can call Dispatcher.OnRecord
// directly.
package source
