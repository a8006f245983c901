/*
Package observability turns playback lifecycle events into Prometheus metrics
and structured log lines.

Both are exposed as domain.LifecycleHooks, so hosts attach them to drivers
with driver.WithLifecycleHooks and merge them freely.
*/
package observability
