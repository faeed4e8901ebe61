package runtime

import (
	"context"
	"testing"

	"github.com/s4nju/eden/internal/config"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Fsync = config.FsyncNever
	rt, err := Open(Options{Config: cfg})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func TestOpenAndCheckHealth(t *testing.T) {
	rt := newTestRuntime(t)
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("check health: %v", err)
	}
}

func TestEnsureMountUsesConfiguredMemoryLimit(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Fsync = config.FsyncNever
	cfg.MemoryLimitBytes = 4096
	rt, err := Open(Options{Config: cfg})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	m, err := rt.EnsureMount("work", "/checkouts/work")
	if err != nil {
		t.Fatalf("ensure mount: %v", err)
	}
	if got := m.Journal.GetMemoryLimit(); got != 4096 {
		t.Fatalf("expected memory limit 4096, got %d", got)
	}
}

func TestMountLookupAfterEnsure(t *testing.T) {
	rt := newTestRuntime(t)
	created, err := rt.EnsureMount("work", "/checkouts/work")
	if err != nil {
		t.Fatalf("ensure mount: %v", err)
	}
	found, ok := rt.Mount("work")
	if !ok || found != created {
		t.Fatalf("expected Mount to find the mount just created")
	}
	if _, ok := rt.Mount("missing"); ok {
		t.Fatalf("expected no mount for an unknown name")
	}
}
