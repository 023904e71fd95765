package lifecycle

import "context"

// Component is implemented by everything the manager supervises: the
// tracing provider, the tables watcher, and the API server. Start must be
// safe to call once per process; Stop must respect the context deadline.
type Component interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// Name identifies the component in logs.
	Name() string
}
