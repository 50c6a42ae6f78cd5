/*
serve.go - `horasett serve`: the HTTP API

STARTUP SEQUENCE:
  1. Settings, logger and store (root PersistentPreRunE)
  2. API handler and router
  3. Listen, and watch for SIGINT/SIGTERM in the same errgroup

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM (or when the command context is cancelled):
  1. Stop accepting new connections
  2. End open event streams
  3. Wait for active requests (shutdown_timeout)
  4. Close the store (CLI.Run)
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/horasett/payroll-engine/api"
)

type ServeCmd struct {
	cli *CLI
}

func newServeCmd(cli *CLI) *cobra.Command {
	sc := &ServeCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}
	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	return cmd
}

func (sc *ServeCmd) run(cmd *cobra.Command, _ []string) error {
	s := sc.cli.settings
	logger := sc.cli.logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := api.NewHandler(sc.cli.svc, s.HistoryMonths)
	router := api.NewRouter(handler, api.RouterOptions{
		Logger:         logger,
		AllowedOrigins: s.AllowedOrigins,
	})

	server := &http.Server{
		Addr:    s.Addr,
		Handler: router,
		BaseContext: func(net.Listener) context.Context {
			return logger.WithContext(context.Background())
		},
	}
	server.RegisterOnShutdown(handler.CloseStreams)

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", ln.Addr().String()).Str("store", s.Store).Msg("starting server")
		if sc.cli.opts.OnListen != nil {
			sc.cli.opts.OnListen(ln.Addr().String())
		}
		if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info().Msg("server stopped")
		return nil
	})

	return g.Wait()
}
