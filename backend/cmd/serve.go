package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillpractice/backend/catalog"
	"skillpractice/backend/routes"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	rt, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	cat, err := catalog.Load(rt.cfg.CatalogPath)
	if err != nil {
		return err
	}
	rt.log.Info("Catalog loaded", "source", cat.Source(), "courses", cat.Len())

	app := routes.NewApp(rt.cfg, rt.log)
	routes.SetupRoutes(app, rt.db, rt.cfg, cat, rt.log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("Server starting", "port", rt.cfg.ServerPort, "db_driver", rt.cfg.DBDriver)
		errCh <- app.Listen(":" + rt.cfg.ServerPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	rt.log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
