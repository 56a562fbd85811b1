// Package metrics records build metrics for tinypub.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default; PrometheusRecorder is activated when metrics are configured:
//
//	reg := prom.NewRegistry()
//	runner := build.NewRunner(store, build.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// One-shot builds export the registry through WriteTextfile for the node
// exporter textfile collector; the watch daemon can also serve it over HTTP.
package metrics
