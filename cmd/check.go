package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"site-content/pkg/config"
	"site-content/pkg/content"
	"site-content/pkg/services"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every content entry against its collection schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer log.Sync()

		entries, err := services.LoadEntries(cmd.Context(), content.Default(), config.ContentRoot(), config.CacheConcurrency, log)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range entries {
			for _, issue := range e.Issues {
				fmt.Fprintf(out, "%s: %s\n", e.Path, issue.Message)
			}
		}
		summary := services.Summarize(entries)
		fmt.Fprintf(out, "%d entries checked, %d invalid\n", summary.Total, summary.Invalid)
		if summary.Invalid > 0 {
			return fmt.Errorf("%d invalid content entries", summary.Invalid)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
