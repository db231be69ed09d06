// Package metrics provides build observability for the prerender pipeline.
//
// Components receive a Recorder. NoopRecorder is the default; PrometheusRecorder
// registers collectors on a caller-supplied registry, which the preview server
// exposes over HTTP and one-shot builds dump to a node_exporter textfile.
package metrics
