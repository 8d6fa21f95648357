// Package metric provides Prometheus metrics for one ast-keyaudit run.
//
//   - prometheus.go: per-run registry, HTTP transport instrumentation and
//     textfile export
//
// The tool is a one-shot process, so nothing is served over HTTP. When
// --metrics-file is set the registry is written in the text exposition
// format, ready for node_exporter's textfile collector.
package metric
