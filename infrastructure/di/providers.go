// Package di provides dependency injection using Google Wire.
package di

import (
	"context"
	"net/http"
	"time"

	"threatsync/application/ports"
	"threatsync/application/services"
	"threatsync/infrastructure/config"
	"threatsync/infrastructure/persistence/neo4j"
	"threatsync/infrastructure/taxii"
	"threatsync/interfaces/http/rest"
	"threatsync/pkg/observability"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Tracer  *observability.TracerProvider
	Writer  ports.GraphWriter
	Feed    ports.FeedSource
	Sync    *services.SyncService
	Handler http.Handler
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideMetrics,
	ProvideTracer,
	ProvideGraphWriter,
	ProvideFeedSource,
	ProvideSyncService,
	ProvideHandler,
	wire.Struct(new(Container), "*"),
)

// ProvideConfig loads configuration from the environment
func ProvideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger creates the application logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideMetrics creates the metrics registry
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics("threatsync")
}

// ProvideTracer initializes tracing when enabled; a nil provider means
// spans are no-ops.
func ProvideTracer(cfg *config.Config) (*observability.TracerProvider, func(), error) {
	if !cfg.EnableTracing {
		return nil, func() {}, nil
	}
	tp, err := observability.InitTracing("threatsync", cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}
	return tp, cleanup, nil
}

// ProvideGraphWriter connects to the graph store. Connection failure here
// is fatal to the process; there is no startup retry.
func ProvideGraphWriter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.GraphWriter, func(), error) {
	writer, err := neo4j.NewWriter(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.WriteTimeout, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = writer.Close(closeCtx)
	}
	return writer, cleanup, nil
}

// ProvideFeedSource creates the paginated feed client
func ProvideFeedSource(cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) ports.FeedSource {
	return taxii.NewClient(taxii.Options{
		BaseURL:   cfg.TaxiiBaseURL,
		Username:  cfg.TaxiiUsername,
		Password:  cfg.TaxiiPassword,
		Timeout:   cfg.FetchTimeout,
		RateLimit: cfg.FeedRateLimit,
	}, metrics, logger)
}

// ProvideSyncService creates the sync loop
func ProvideSyncService(
	feed ports.FeedSource,
	writer ports.GraphWriter,
	cfg *config.Config,
	metrics *observability.Metrics,
	tracer *observability.TracerProvider,
	logger *zap.Logger,
) *services.SyncService {
	return services.NewSyncService(feed, writer, cfg.PollInterval, metrics, tracer, logger)
}

// ProvideHandler builds the admin HTTP handler
func ProvideHandler(
	sync *services.SyncService,
	writer ports.GraphWriter,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	return rest.NewRouter(sync, writer, metrics, logger).Setup()
}
