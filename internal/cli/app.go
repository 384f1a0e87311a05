package cli

import (
	"context"
	"fmt"

	"github.com/erauner12/catalogview/internal/config"
	"github.com/erauner12/catalogview/internal/db"
	"github.com/erauner12/catalogview/internal/metrics"
	"github.com/erauner12/catalogview/internal/productapi"
	"github.com/erauner12/catalogview/internal/service/catalogservice"
	"github.com/erauner12/catalogview/internal/snapshot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// app bundles the wired dependencies shared by every command.
type app struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	client  *productapi.Client
	svc     *catalogservice.Service
	pool    *pgxpool.Pool
}

// newApp builds the product client, the optional snapshot store and the service.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	m := metrics.New()

	httpClient := productapi.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout(), cfg.RateLimitRetries)
	client := productapi.NewClient(httpClient, m)

	a := &app{cfg: cfg, metrics: m, client: client}

	opts := catalogservice.Options{
		PageSize:    cfg.PageSize,
		MaxPageSize: cfg.MaxPageSize,
		Recorder:    m,
	}

	if cfg.Snapshot.Enabled() {
		pool, err := db.Open(ctx, cfg.Snapshot.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open snapshot database: %w", err)
		}
		store := snapshot.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("snapshot schema: %w", err)
		}
		a.pool = pool
		opts.Store = store
	}

	a.svc = catalogservice.New(client, opts)

	log.Debug().
		Str("upstream", client.BaseURL()).
		Int("page_size", cfg.PageSize).
		Bool("snapshots", cfg.Snapshot.Enabled()).
		Msg("catalog service ready")

	return a, nil
}

// load fills the dataset from the snapshot store or the product API.
func (a *app) load(ctx context.Context, fromSnapshot bool) error {
	if fromSnapshot {
		_, err := a.svc.LoadFromSnapshot(ctx)
		return err
	}
	_, err := a.svc.Load(ctx)
	return err
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
