package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/mdmanual/internal/progress"
	"github.com/ziadkadry99/mdmanual/internal/server"
	"github.com/ziadkadry99/mdmanual/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the manual and serve it locally with live reload",
	Long: `Builds the manual, serves it over HTTP and, unless --watch=false, rebuilds
and reloads open pages whenever a source file changes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (default from config)")
	serveCmd.Flags().Bool("open", false, "open browser automatically")
	serveCmd.Flags().Bool("watch", true, "rebuild when sources change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Serve.Port = port
	}
	if cmd.Flags().Changed("open") {
		cfg.Serve.Open, _ = cmd.Flags().GetBool("open")
	}
	if cmd.Flags().Changed("watch") {
		cfg.Serve.Watch, _ = cmd.Flags().GetBool("watch")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("serve configuration",
		zap.String("input_dir", cfg.InputDir),
		zap.String("output_dir", cfg.OutputDir),
		zap.Int("port", cfg.Serve.Port),
		zap.Bool("watch", cfg.Serve.Watch))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Port:       cfg.Serve.Port,
		Dir:        cfg.OutputDir,
		AllowAll:   cfg.Serve.AllowAllOrigins,
		LiveReload: cfg.Serve.Watch,
	}, logger)

	rebuild := func(ctx context.Context) {
		stats, pages, err := buildManual(ctx, cfg, &progress.LogReporter{Log: logger})
		if err != nil {
			logger.Error("build failed", zap.Error(err))
		}
		srv.SetPages(site.BuildSearchIndex(pages))
		logger.Info("manual built", zap.Int("pages", stats.Pages), zap.Duration("duration", stats.Duration))
	}

	rebuild(ctx)
	if ctx.Err() != nil {
		return nil
	}

	if cfg.Serve.Watch {
		w := &server.Watcher{
			Dir: cfg.InputDir,
			Rebuild: func(ctx context.Context) {
				rebuild(ctx)
				srv.Reload()
			},
			Log: logger,
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	url := fmt.Sprintf("http://localhost:%d", cfg.Serve.Port)
	fmt.Fprintf(os.Stderr, "Serving %s at %s\n", cfg.Title, url)
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop.")
	if cfg.Serve.Open {
		go openBrowser(url)
	}

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
