package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fiware/odataserver/pkg/cli/config"
	controller "github.com/fiware/odataserver/pkg/controller/http"
	"github.com/fiware/odataserver/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		odataCfg  config.OData
		modelCfg  config.Model
		mongoCfg  config.Mongo
		sentryCfg config.Sentry
	)

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, odataCfg.Flags()...)
	flags = append(flags, modelCfg.Flags()...)
	flags = append(flags, mongoCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting odataserver",
				slog.String("addr", serverCfg.Addr),
				slog.String("prefix", odataCfg.Prefix),
				slog.String("model", modelCfg.Path),
				slog.Any("mongo", mongoCfg),
				slog.Any("sentry", sentryCfg),
			)

			if err := odataCfg.Validate(); err != nil {
				return err
			}

			edmx, err := modelCfg.Load()
			if err != nil {
				return err
			}

			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			store, err := mongoCfg.Connect(ctx)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := store.Close(closeCtx); err != nil {
					logger.Warn("failed to close MongoDB client", slog.Any("error", err))
				}
			}()

			// Create use cases
			odataUC := usecase.NewOData(edmx, store)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				odataUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithBaseURL(serverCfg.BaseURL),
				controller.WithPrefix(odataCfg.Prefix),
				controller.WithPageSize(odataCfg.DefaultPageSize, odataCfg.MaxPageSize),
				controller.WithSentry(sentryCfg.Enabled()),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
