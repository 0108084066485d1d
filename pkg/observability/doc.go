/*
Package observability provides tools for monitoring node and model activity.

It includes a Recorder that plugs into the host's lifecycle hooks and
aggregates invocation counts and model call timings for inspection.
*/
package observability
