package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/erauner12/catalogview/internal/auth"
	"github.com/erauner12/catalogview/internal/httpapi"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		addr         string
		fromSnapshot bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog viewer as a local JSON API",
		Long: `Loads the catalog and serves the shared viewer, stateless queries,
mutations and CSV export over HTTP. A failed initial load is logged and the
server starts anyway; POST /v1/reload retries it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.load(ctx, fromSnapshot); err != nil {
				log.Warn().Err(err).Bool("from_snapshot", fromSnapshot).Msg("initial catalog load failed")
			}

			srv := &httpapi.Server{
				Svc:     a.svc,
				Metrics: a.metrics,
				JWT:     auth.JWTCfg{HS256Secret: cfg.Auth.HS256Secret},
				RateLimitConfig: httpapi.RateLimitInfo{
					WindowSeconds: cfg.RateLimit.WindowSeconds,
					MaxRequests:   cfg.RateLimit.MaxRequests,
					Burst:         cfg.RateLimit.Burst,
				},
				UpstreamURL: a.client.BaseURL(),
				Version:     Version,
			}

			return runHTTPServer(ctx, cfg.HTTPAddr, srv.Routes())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config httpAddr)")
	cmd.Flags().BoolVar(&fromSnapshot, "from-snapshot", false, "Start from the stored snapshot instead of the product API")

	return cmd
}

// runHTTPServer serves until ctx is cancelled, then shuts down gracefully.
func runHTTPServer(ctx context.Context, addr string, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server failed")
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
