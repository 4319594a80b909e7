/*
Package observability turns render lifecycle events into metrics and logs.

Both Metrics.Hooks and LogHooks return domain.LifecycleHooks; merge them and
pass the result to immense.WithLifecycleHooks.
*/
package observability
