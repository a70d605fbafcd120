// Package metrics provides observability hooks for docpublish runs.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default; PrometheusRecorder collects step durations, step results and
// run outcomes into a Prometheus registry, which the CLI writes to a node
// exporter textfile when metrics.textfile is configured:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	wf := workflow.New(gen, pub, workflow.WithRecorder(rec))
//	...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
