package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"site-content/pkg/config"
	"site-content/pkg/content"
	"site-content/pkg/handlers"
	"site-content/pkg/logger"
	"site-content/pkg/services"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the content admin API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer log.Sync()

		if serveAddr != "" {
			config.ServerAddr = serveAddr
		}
		if config.AuthEnabled() && config.SessionSecret == "" {
			return errors.New("SESSION_SECRET is required when GitHub login is enabled")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		root := config.ContentRoot()
		cache := services.NewEntryCache(content.Default(), root, config.CacheConcurrency, log)
		if _, err := cache.Entries(ctx); err != nil {
			return err
		}

		if serveWatch {
			go func() {
				err := services.WatchContent(ctx, root, 300*time.Millisecond, func() {
					log.Info("Content changed, invalidating cache")
					cache.Invalidate()
				}, log)
				if err != nil {
					log.Error("Content watcher stopped", logger.Error(err))
				}
			}()
		}

		if !config.LogDevelopment {
			gin.SetMode(gin.ReleaseMode)
		}
		router := handlers.NewRouter(handlers.NewHandler(cache, log), handlers.RouterOptions{
			AuthEnabled:   config.AuthEnabled(),
			SessionSecret: config.SessionSecret,
		})

		srv := &http.Server{
			Addr:              config.ServerAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("Serving content API",
				logger.String("addr", config.ServerAddr),
				logger.String("content_root", root),
				logger.Bool("auth", config.AuthEnabled()),
				logger.Bool("watch", serveWatch),
			)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default $SERVER_ADDR or :8080)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload entries when content files change")
	rootCmd.AddCommand(serveCmd)
}
