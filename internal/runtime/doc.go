// Package runtime wires config, the backing store, and the mount registry
// into a single-node instance. It is the composition root a daemon or CLI
// command opens once at startup and closes on shutdown.
//
// Example:
//
//	rt, err := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
//	m, _ := rt.EnsureMount("work", "/checkouts/work")
package runtime
