// Package journal implements the in-memory, bounded, append-only log of
// filesystem-change and hash-transition events at the center of the
// daemon. It records two interleaved kinds of entries — file-tree
// mutations and working-copy hash transitions — lets callers query the
// tip, summarize every change since a sequence number, enumerate raw
// entries for debugging, and subscribe to change notifications, and
// enforces a configurable memory budget by discarding the oldest entries.
//
// The package has no knowledge of the filesystem, the backing store, or
// the network surface built on top of it; those live in sibling packages
// that call into the Journal's exported methods or receive its
// notifications.
package journal
