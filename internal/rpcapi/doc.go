// Package rpcapi exposes a Runtime's mounts and their Journals over
// net/http: per-mount latest/stats/range/debug reads, and a Server-Sent
// Events endpoint driven by internal/watch for tailing new entries.
//
// Example:
//
//	srv := rpcapi.New(rt, logger)
//	go srv.ListenAndServe(ctx, rt.Config().HTTPAddr)
//	defer srv.Close()
package rpcapi
