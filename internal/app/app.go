package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"

	"github.com/riskibarqy/matchday-feed/external/sofascore"
	"github.com/riskibarqy/matchday-feed/internal/config"
	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/domain/listing"
	"github.com/riskibarqy/matchday-feed/internal/infrastructure/sourcedir"
	"github.com/riskibarqy/matchday-feed/internal/infrastructure/store/filestore"
	"github.com/riskibarqy/matchday-feed/internal/infrastructure/store/sqlstore"
	"github.com/riskibarqy/matchday-feed/internal/interfaces/httpapi"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
	"github.com/riskibarqy/matchday-feed/internal/platform/resilience"
	"github.com/riskibarqy/matchday-feed/internal/usecase"
)

// Runtime holds the wired services shared by the pipeline command and the read API.
type Runtime struct {
	Pipeline *usecase.PipelineService
	Listing  *usecase.ListingService
	Provider *sofascore.Client

	db *sqlx.DB
}

// Close releases the database handle when the store is SQL-backed.
func (r *Runtime) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func NewRuntime(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, db, err := newEnrichmentStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	provider := sofascore.NewClient(sofascore.ClientConfig{
		HTTPClient: &fasthttp.Client{
			Name:                     cfg.ServiceName,
			ReadTimeout:              cfg.ProviderTimeout,
			WriteTimeout:             cfg.ProviderTimeout,
			MaxConnsPerHost:          64,
			NoDefaultUserAgentHeader: true,
		},
		BaseURL:         cfg.ProviderBaseURL,
		ScheduleBaseURL: cfg.ProviderScheduleBaseURL,
		Sport:           cfg.ProviderSport,
		UserAgent:       cfg.ProviderUserAgent,
		Timeout:         cfg.ProviderTimeout,
		Logger:          logger.Named("sofascore"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ProviderCircuitEnabled,
			FailureThreshold: cfg.ProviderCircuitFailureCount,
			OpenTimeout:      cfg.ProviderCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpenMaxReq,
		},
	})

	source := sourcedir.New(cfg.SourceDir)
	listingOpts := listingOptions(cfg)

	collector := usecase.NewCollectorService(source, logger.Named("collector"))
	enricher := usecase.NewEnrichmentService(provider, store, usecase.EnrichmentConfig{
		Kinds:         cfg.EnrichKinds,
		BatchSize:     cfg.EnrichBatchSize,
		BatchInterval: cfg.EnrichBatchInterval,
	}, logger.Named("enrichment"))
	schedule := usecase.NewScheduleService(provider, source, usecase.ScheduleConfig{
		DayOffsets: cfg.ScheduleDayOffsets,
		Workers:    cfg.ScheduleWorkers,
		ChannelRPS: cfg.ScheduleChannelRPS,
	}, logger.Named("schedule"))

	pipeline := usecase.NewPipelineService(schedule, collector, enricher, provider, usecase.PipelineConfig{
		ScheduleEnabled:  cfg.ScheduleEnabled,
		EnrichEnabled:    cfg.EnrichEnabled,
		EnrichDayOffsets: cfg.EnrichDayOffsets,
		EnrichIDSource:   cfg.EnrichIDSource,
		Listing:          listingOpts,
	}, logger.Named("pipeline"))
	listingSvc := usecase.NewListingService(collector, store, listingOpts, cfg.CacheTTL, logger.Named("listing"))

	logger.Info("runtime ready",
		"source_dir", cfg.SourceDir,
		"store_driver", cfg.StoreDriver,
		"enrich_kinds", len(cfg.EnrichKinds),
		"schedule_enabled", cfg.ScheduleEnabled,
	)

	return &Runtime{
		Pipeline: pipeline,
		Listing:  listingSvc,
		Provider: provider,
		db:       db,
	}, nil
}

func NewHTTPServer(cfg config.Config, runtime *Runtime, logger *logging.Logger) (*http.Server, error) {
	if runtime == nil {
		return nil, fmt.Errorf("runtime is required")
	}

	handler := httpapi.NewHandler(runtime.Listing, runtime.Pipeline, logger.Named("httpapi"))
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func listingOptions(cfg config.Config) listing.Options {
	return listing.Options{
		Location:  listing.FixedZone(cfg.ListingUTCOffset),
		Window:    cfg.ListingWindow,
		Days:      cfg.ListingWindowDays,
		Priority:  listing.NewPrioritySet(cfg.ListingPriorityLeagueIDs...),
		Secondary: cfg.ListingSecondaryKey,
	}
}

func newEnrichmentStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (enrichment.Store, *sqlx.DB, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		db, err := openDB("sqlite", cfg.SQLitePath, "sqlite", strings.TrimSuffix(filepath.Base(cfg.SQLitePath), filepath.Ext(cfg.SQLitePath)))
		if err != nil {
			return nil, nil, err
		}
		// sqlite takes one writer at a time.
		db.SetMaxOpenConns(1)

		store := sqlstore.New(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("enrichment store ready", "driver", cfg.StoreDriver, "path", cfg.SQLitePath)
		return store, db, nil
	case config.StoreDriverPostgres:
		dsn := normalizeDBURL(cfg.DBURL, cfg.ServiceName)
		db, err := openDB("postgres", dsn, "postgresql", dbNameFromURL(dsn))
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		logger.Info("enrichment store ready", "driver", cfg.StoreDriver, "db_name", dbNameFromURL(dsn))
		return sqlstore.New(db), db, nil
	default:
		logger.Info("enrichment store ready", "driver", config.StoreDriverFile, "dir", cfg.StoreDir)
		return filestore.New(cfg.StoreDir, logger.Named("filestore")), nil, nil
	}
}

func openDB(driverName, dsn, dbSystem, dbName string) (*sqlx.DB, error) {
	db, err := otelsqlx.Open(driverName, dsn,
		otelsql.WithAttributes(attribute.String("db.system", dbSystem)),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	return db, nil
}
