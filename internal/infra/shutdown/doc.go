// Package shutdown ties a run to process termination signals.
//
// Usage:
//
//	ctx, stop := shutdown.WithSignals(context.Background())
//	defer stop()
//
// The context is cancelled on SIGINT or SIGTERM, which aborts in-flight
// identity provider requests. A second signal gets the default behaviour.
package shutdown
