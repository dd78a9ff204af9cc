package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aresdata/esports-etl/external/liquipedia"
	"github.com/aresdata/esports-etl/internal/config"
	"github.com/aresdata/esports-etl/internal/infrastructure/repository/postgres"
	"github.com/aresdata/esports-etl/internal/platform/cache"
	"github.com/aresdata/esports-etl/internal/platform/logging"
	"github.com/aresdata/esports-etl/internal/usecase"

	_ "github.com/lib/pq"
)

const dbPingTimeout = 10 * time.Second

// Pipeline wires the provider client, the database, and the sync service for
// one run.
type Pipeline struct {
	db      *sqlx.DB
	service *usecase.SyncService
	logger  *logging.Logger
}

func NewPipeline(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	client := liquipedia.NewClient(liquipedia.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.LiquipediaTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:      cfg.LiquipediaBaseURL,
		APIKey:       cfg.LiquipediaAPIKey,
		UserAgent:    cfg.LiquipediaUserAgent,
		RequestDelay: cfg.LiquipediaRequestDelay,
		PageLimit:    cfg.LiquipediaPageLimit,
		Logger:       logger,
	})

	games := make([]usecase.GameConfig, 0, len(cfg.Games))
	for _, g := range cfg.Games {
		games = append(games, usecase.GameConfig{
			ID:         g.ID,
			Wiki:       g.Wiki,
			Name:       g.Name,
			FetchSince: g.FetchSince,
		})
	}

	service := usecase.NewSyncService(
		client,
		postgres.NewUnitOfWork(db),
		cache.NewStore(cfg.TeamCacheTTL),
		games,
		logger,
	)

	return &Pipeline{db: db, service: service, logger: logger}, nil
}

// Run executes the requested sync stages; an empty list means all stages in
// dependency order.
func (p *Pipeline) Run(ctx context.Context, stages []string) error {
	return p.service.Run(ctx, stages)
}

func (p *Pipeline) Close() error {
	return p.db.Close()
}
