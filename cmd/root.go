package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"site-content/pkg/config"
	"site-content/pkg/logger"
)

var (
	contentDir string
	logLevel   string

	log logger.Logger = logger.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "site-content",
	Short: "Validate and serve the site's content collections",
	Long: `site-content checks every entry under the content directory against the
projects and posts collection schemas, and can serve a small admin API for
browsing, validating and scaffolding entries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initialize()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&contentDir, "content-dir", "", "content directory (default $CONTENT_DIR or src/content)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func initialize() error {
	config.Init()
	if contentDir != "" {
		config.ContentDir = contentDir
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}

	l, err := logger.New(logger.Config{Level: config.LogLevel, Development: config.LogDevelopment})
	if err != nil {
		return err
	}
	log = l
	return nil
}
