// Package metrics exposes Prometheus instrumentation for the KV service,
// the pub/sub broadcaster, and the auth interceptor. Handler serves the
// standard /metrics scrape endpoint.
package metrics
