package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	portfolio "github.com/goliatone/go-portfolio"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

type serveOptions struct {
	addr  string
	watch bool
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the project JSON API",
		Long: `serve exposes GET {base}/projects, GET {base}/projects/{slug} and
GET {base}/tags. With --watch the listing is cached and refreshed when files in
the content directory change. SIGINT or SIGTERM triggers a graceful shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := root.module(func(cfg *portfolio.Config) {
				if addr := strings.TrimSpace(opts.addr); addr != "" {
					cfg.HTTP.Addr = addr
				}
				if cmd.Flags().Changed("watch") {
					cfg.Watch.Enabled = opts.watch
				}
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", module.Config().HTTP.Addr)
			if err != nil {
				return fmt.Errorf("serve: listen %s: %w", module.Config().HTTP.Addr, err)
			}
			return runServer(ctx, module, ln)
		},
	}
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "listen address, overrides http.addr")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "cache listings and refresh them when content changes")
	return cmd
}

// runServer serves the module API on ln until ctx is done, then shuts down
// within the configured shutdown timeout.
func runServer(ctx context.Context, module *portfolio.Module, ln net.Listener) error {
	cfg := module.Config()
	logger := serverLogger(module)

	if err := module.Start(ctx); err != nil {
		ln.Close()
		return fmt.Errorf("serve: start watcher: %w", err)
	}
	defer func() {
		if err := module.Close(); err != nil {
			logger.Warn("serve.watcher.stop_failed", "error", err)
		}
	}()

	mux := http.NewServeMux()
	if err := module.Register(mux); err != nil {
		ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           mux,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serve.listening", "addr", ln.Addr().String(), "base_path", cfg.HTTP.BasePath, "watch", cfg.Watch.Enabled)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("serve.shutdown", "timeout", timeout.String())
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func serverLogger(module *portfolio.Module) interfaces.Logger {
	return logging.ModuleLogger(module.Container().LoggerProvider(), "serve")
}
