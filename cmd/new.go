package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"site-content/pkg/config"
	"site-content/pkg/content"
	"site-content/pkg/logger"
	"site-content/pkg/services"
)

var (
	newTitle     string
	newPublished bool
)

var newCmd = &cobra.Command{
	Use:   "new <collection> <slug>",
	Short: "Scaffold a new entry with every required field filled in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := map[string]interface{}{}
		if newTitle != "" {
			overrides["title"] = newTitle
		}
		if cmd.Flags().Changed("published") {
			overrides["published"] = newPublished
		}

		rel, err := services.CreateEntry(content.Default(), config.ContentRoot(), args[0], args[1], overrides)
		if err != nil {
			return err
		}
		log.Info("Created entry", logger.String("path", rel))
		fmt.Fprintln(cmd.OutOrStdout(), rel)
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newTitle, "title", "", "entry title")
	newCmd.Flags().BoolVar(&newPublished, "published", false, "mark the entry as published")
	rootCmd.AddCommand(newCmd)
}
