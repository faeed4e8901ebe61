// Package config provides loading and environment overlay for the daemon's
// runtime configuration. It exposes a Default() baseline and helpers to
// load a JSON or YAML file and overlay EDEN_* environment variables.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/eden.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
package config
