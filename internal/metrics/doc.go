// Package metrics records build metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics cost nothing unless the preview server enables
// the Prometheus recorder:
//
//	reg := prometheus.NewRegistry()
//	builder := site.NewBuilder(cfg, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
