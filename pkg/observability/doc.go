/*
Package observability turns engine lifecycle hooks into Prometheus metrics.

Metrics.Hooks wraps a domain.LifecycleHooks value, so hosts can keep their own
audit callbacks while the counters are updated.
*/
package observability
