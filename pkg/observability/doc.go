/*
Package observability provides tools for monitoring delta evaluations.

It builds domain.LifecycleHooks for structured logging (LoggingHooks), for
Prometheus metrics (Metrics) and for OpenTelemetry spans (TracingHooks), and
Chain combines several hook sets into one.
*/
package observability
