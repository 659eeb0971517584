// Package poster delivers weather records to a remote HTTP device.
//
// The pipeline decouples a high-frequency producer from a slow, unreliable
// network sink:
//
//	producer -> Dispatcher.OnRecord -> Queue -> Worker -> HTTP POST
//
// Dispatcher.OnRecord never blocks and never fails: it stamps the record
// and appends it to an unbounded FIFO Queue. A single background Worker
// drains the queue, applies the backlog cap (newest records win), the
// staleness threshold and the post-interval rate limit (latest value wins,
// no batching), then normalizes units, maps and formats the configured
// field set into an ordered JSON body and POSTs it with bounded retries.
//
// Transport errors and 5xx responses are retried up to max_tries with a
// fixed retry_wait between attempts; a 4xx response is a permanent client
// error and consumes no further attempts. A record that exhausts its
// attempts is dropped and the worker moves on — delivery is best effort,
// nothing is persisted and no error ever reaches the producer.
//
// Construction fails fast on fatal configuration (missing server_url,
// unknown target_unit); the caller then runs without a pipeline and a nil
// *Dispatcher turns producer enqueues into no-ops.
package poster
