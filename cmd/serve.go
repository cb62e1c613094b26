package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"hotel-reservation-engine/cmd/bootstrap"
	"hotel-reservation-engine/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// @title           Hotel Reservation Engine API
// @version         1.0
// @description     Availability, booking and reservation lifecycle for a hotel chain.

// @BasePath  /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []fx.Option{
				bootstrap.APIModule,
				fx.Invoke(startServer),
			}
			if migrateUp {
				opts = append([]fx.Option{fx.Invoke(runMigrations)}, opts...)
			}
			return runApp(cmd.Context(), fx.New(opts...))
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func startServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting server", "address", srv.Addr, "mode", gin.Mode())
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped unexpectedly", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return srv.Shutdown(ctx)
		},
	})
}

// runApp blocks until the app receives a shutdown signal.
func runApp(ctx context.Context, app *fx.App) error {
	if err := app.Start(ctx); err != nil {
		slog.Error("failed to start application", "error", err)
		return err
	}

	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		// keep the exit code clean; shutdown errors are only logged
		slog.Error("failed to stop application cleanly", "error", err)
	}

	slog.Info("application stopped")
	return nil
}
