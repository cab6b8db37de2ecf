// cli/serve.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gewnthar/airtraffic/handlers"
	"github.com/gewnthar/airtraffic/services"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API and the scheduled refresh",
	Long: `Serve exposes the extraction pipeline over HTTP:

  GET  /api/health
  GET  /api/codes
  POST /api/traffic                      {"airline":"DL","airport":"ATL","international":true,"metrics":["Flights"]}
  GET  /api/traffic/{airline}/{airport}  last stored dataset (database required)
  GET  /api/admin/runs                   extraction run log (database required)
  POST /api/admin/refresh                re-extract refresh.pairs now

When refresh.schedule is set, refresh.pairs are re-extracted on that cron schedule
and written to the output directory and the database.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Starting airtraffic API...")
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()
	log.Printf("Configuration loaded. Server port: %s, database enabled: %t", a.cfg.Server.Port, a.store != nil)

	var scheduler *services.RefreshScheduler
	if a.cfg.Refresh.Schedule != "" {
		pairs, err := services.ParsePairs(a.cfg.Refresh.Pairs)
		if err != nil {
			return fmt.Errorf("invalid refresh pairs: %w", err)
		}
		scheduler, err = services.NewRefreshScheduler(a.service, a.cfg.Refresh.Schedule, pairs, services.BatchOptions{
			International: a.cfg.Refresh.International,
			Metrics:       a.cfg.Refresh.Metrics,
			Concurrency:   a.cfg.Refresh.Concurrency,
		}, a.writeFile)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Typed nils must not reach the handler interfaces.
	var store handlers.DatasetReader
	if a.store != nil {
		store = a.store
	}
	var refresher handlers.Refresher
	if scheduler != nil {
		refresher = scheduler
	}

	mux := http.NewServeMux()
	handlers.NewAPI(a.service, a.cfg.Codes, store, refresher, a.cfg.Cache.TTL).Routes(mux)

	server := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on http://localhost%s\n", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
