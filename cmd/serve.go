package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadscore/internal/api"
	"github.com/sells-group/leadscore/internal/lead"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lead pipeline as a JSON API",
	Long: `Load the lead table once and serve it over HTTP. Every request runs the
pipeline with the criteria in its query string; flags and config set the
defaults.

Routes:
  GET /health
  GET /api/options
  GET /api/leads?industry=&city=&min_revenue=&max_revenue=&dedupe=&min_score=
  GET /api/leads/export.csv
  GET /api/leads/export.xlsx
  GET /api/leads/{company}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		defaults, err := buildCriteria(cmd, cfg.Filter)
		if err != nil {
			return err
		}
		sc, err := scoringConfig(cfg)
		if err != nil {
			return err
		}
		tbl, err := loadTable(ctx, cfg.Source)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           api.New(tbl, defaults, sc).Router(cfg.Server),
			ReadHeaderTimeout: 10 * time.Second,
		}

		return serve(ctx, srv, tbl.Len(), defaults)
	},
}

func init() {
	addFilterFlags(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, rows int, defaults lead.Criteria) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.L().Info("starting server",
			zap.String("addr", srv.Addr),
			zap.Int("leads", rows),
			zap.Float64("default_min_score", defaults.MinScore),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "server shutdown")
		}
		return nil
	})

	return g.Wait()
}
