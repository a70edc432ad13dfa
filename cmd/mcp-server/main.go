// Command mcp-server exposes the nthderiv tools over HTTP for agent
// frameworks.
//
// Usage:
//
//	mcp-server --port 8080
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/njchilds90/nthderiv"
	"github.com/njchilds90/nthderiv/internal/config"
	"github.com/njchilds90/nthderiv/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var configFile string

	cmd := &cobra.Command{
		Use:           "mcp-server",
		Short:         "Serve nthderiv tool calls over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			log, err := logging.New(logging.Options{
				Level:  cfg.LogLevel,
				Format: logging.Format(cfg.LogFormat),
				Colors: cfg.Color,
			})
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			tools := nthderiv.NewToolHandler(nthderiv.NewDifferentiator(
				nthderiv.WithLogger(log),
				nthderiv.WithMaxOrder(cfg.MaxOrder),
			))
			if err := serve(ctx, cfg.Server.Port, newMux(tools, log), log); err != nil {
				log.WithError(err).Error("server stopped")
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "Configuration file path")
	cmd.Flags().Int("port", 8080, "Port to listen on")
	cmd.Flags().String("log-level", "info", "Logging level (debug, info, warn, error)")
	cmd.Flags().Int("max-order", 1000, "Highest derivative order accepted")
	_ = v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("max_order", cmd.Flags().Lookup("max-order"))
	_ = v.BindPFlag("log_level", cmd.Flags().Lookup("log-level"))
	return cmd
}

func serve(ctx context.Context, port int, handler http.Handler, log *logrus.Logger) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.WithField("addr", addr).Info("nthderiv tool server listening")
	log.Info("  POST /tool   execute a tool call")
	log.Info("  GET  /schema tool schema for agent registration")
	log.Info("  GET  /health health check")

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
