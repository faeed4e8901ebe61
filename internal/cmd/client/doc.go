// Package client contains Cobra CLI commands that drive a running eden
// daemon's HTTP API: creating mounts and reading/tailing their journals.
package client
