package client

import (
	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// NewRoot constructs a root Cobra command for the eden client. It registers
// the mount and journal command groups.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "eden",
		Short: "eden client commands",
	}
	root.AddCommand(NewMountCommand(baseURL))
	root.AddCommand(NewJournalCommand(baseURL))
	return root
}
