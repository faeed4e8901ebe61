package client

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewJournalCommand constructs the `journal` command group and subcommands.
func NewJournalCommand(baseURL BaseURLFunc) *cobra.Command {
	journalCmd := &cobra.Command{Use: "journal", Short: "Journal operations"}
	journalCmd.AddCommand(
		newJournalLatestCommand(baseURL),
		newJournalStatsCommand(baseURL),
		newJournalDebugCommand(baseURL),
		newJournalTailCommand(baseURL),
	)
	return journalCmd
}

func fetchAndPrint(cmd *cobra.Command, url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(cmd.OutOrStdout(), resp.Body); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func newJournalLatestCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "latest <mount>",
		Short: "Show the newest journal entry for a mount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchAndPrint(cmd, baseURL()+"/v1/mounts/"+url.PathEscape(args[0])+"/journal/latest")
		},
	}
}

func newJournalStatsCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <mount>",
		Short: "Show journal store-wide statistics for a mount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchAndPrint(cmd, baseURL()+"/v1/mounts/"+url.PathEscape(args[0])+"/journal/stats")
		},
	}
}

func newJournalDebugCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug <mount>",
		Short: "Enumerate raw retained journal entries for a mount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetInt64("from")
			limit, _ := cmd.Flags().GetInt("limit")
			q := url.Values{}
			if from > 0 {
				q.Set("from", strconv.FormatInt(from, 10))
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			u := baseURL() + "/v1/mounts/" + url.PathEscape(args[0]) + "/journal/debug"
			if enc := q.Encode(); enc != "" {
				u += "?" + enc
			}
			return fetchAndPrint(cmd, u)
		},
	}
	cmd.Flags().Int64("from", 0, "Lowest sequence number to include")
	cmd.Flags().Int("limit", 0, "Maximum number of entries to return (0 = unbounded)")
	return cmd
}

func newJournalTailCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tail <mount>",
		Short: "Tail new journal entries for a mount, driving the SSE watch endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			q := url.Values{}
			if filter != "" {
				q.Set("filter", filter)
			}
			u := baseURL() + "/v1/mounts/" + url.PathEscape(args[0]) + "/journal/watch"
			if enc := q.Encode(); enc != "" {
				u += "?" + enc
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, u, nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			scanner := bufio.NewScanner(resp.Body)
			for scanner.Scan() {
				line := scanner.Text()
				if payload, ok := strings.CutPrefix(line, "data: "); ok {
					fmt.Fprintln(cmd.OutOrStdout(), payload)
				}
			}
			return scanner.Err()
		},
	}
	cmd.Flags().String("filter", "", "CEL filter (server-side)")
	return cmd
}
