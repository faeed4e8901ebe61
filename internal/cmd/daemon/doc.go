// Package daemon bootstraps a single-node eden process: it opens the
// backing store, starts the RPC server, and blocks until an interrupt or
// termination signal arrives.
package daemon
