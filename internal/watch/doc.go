// Package watch implements CEL-filtered subscriptions over a Journal: a
// compiled expression decides which delta entries a watcher should see, and
// a Session turns Journal subscriber notifications into a bounded stream of
// matching entries for a caller such as internal/rpcapi to drain.
//
// Example:
//
//	f, _ := watch.NewFilter(`kind == "changed" && path.startsWith("src/")`)
//	sess := watch.NewSession(j, f, 64)
//	defer sess.Close()
//	for batch := range sess.Events() {
//	    // forward batch to an SSE client
//	}
package watch
