// Package mount stands in for the FUSE bridge and checkout engine. It owns
// one journal.Journal per checked-out working copy ("mount"), translates
// filesystem observations into Record* calls, and tracks mount identity and
// generation across daemon restarts.
//
// Example:
//
//	reg := mount.NewRegistry(store, logger)
//	m, _ := reg.EnsureMount("work", "/checkouts/work")
//	m.Create("README.md")
//	m.CheckoutTo(newHash)
package mount
