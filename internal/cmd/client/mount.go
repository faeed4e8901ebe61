package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

// NewMountCommand constructs the `mount` command group.
func NewMountCommand(baseURL BaseURLFunc) *cobra.Command {
	mountCmd := &cobra.Command{Use: "mount", Short: "Mount operations"}
	mountCmd.AddCommand(newMountCreateCommand(baseURL))
	return mountCmd
}

func newMountCreateCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name> <root>",
		Short: "Create a mount",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(map[string]string{"name": args[0], "root": args[1]})
			if err != nil {
				return err
			}
			resp, err := http.Post(baseURL()+"/v1/mounts/create", "application/json", bytes.NewReader(body))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			_, _ = io.Copy(cmd.OutOrStdout(), resp.Body)
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	return cmd
}
