package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dealpulse/internal/api"
	"github.com/dealpulse/internal/benchmark"
	"github.com/dealpulse/internal/billing"
	"github.com/dealpulse/internal/cache"
	"github.com/dealpulse/internal/config"
	"github.com/dealpulse/internal/events"
	"github.com/dealpulse/internal/health"
	"github.com/dealpulse/internal/history"
	"github.com/dealpulse/internal/vault"
	"github.com/dealpulse/pkg/models"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Configuration file path")
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
	)
	flag.Parse()

	if *showHelp {
		printHelp()
		return
	}

	if *showVersion {
		printVersion()
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting dealpulse",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("built", date))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := resolveSecrets(ctx, cfg, logger); err != nil {
		logger.Fatal("failed to resolve secrets", zap.Error(err))
	}

	deps := api.Dependencies{}

	var historyStore history.Store
	if cfg.History.Enabled {
		store, err := history.NewNeo4jStore(cfg.History.Config, logger)
		if err != nil {
			logger.Fatal("failed to initialize history store", zap.Error(err))
		}
		defer store.Close(ctx)
		historyStore = store
		deps.History = store
	}

	if cfg.Events.Enabled {
		eventBus, err := events.NewKafkaEventBus(cfg.Events.KafkaConfig, logger)
		if err != nil {
			logger.Fatal("failed to initialize event bus", zap.Error(err))
		}
		defer eventBus.Close()
		deps.EventBus = eventBus
	}

	if cfg.Cache.Enabled {
		redisCache := cache.NewRedisCache(cfg.Cache.Config, logger)
		defer redisCache.Close()
		deps.Cache = redisCache
	} else if cfg.Cache.Local.Enabled {
		localCache := health.NewAnalysisCache(cfg.Cache.Local.Size, cfg.Cache.Local.TTL)
		deps.Cache = localCacheAdapter{localCache}
	}

	deps.Benchmarks = benchmark.NewProvider(cfg.Benchmarks)
	deps.Meter = billing.NewUsageMeter(cfg.Billing, logger)

	engine := health.NewEngine(cfg.Scoring, engineHistory(historyStore))

	gatewayConfig := api.GatewayConfig{
		Host:            cfg.API.Host,
		Port:            cfg.API.Port,
		ReadTimeout:     cfg.API.ReadTimeout,
		WriteTimeout:    cfg.API.WriteTimeout,
		IdleTimeout:     cfg.API.IdleTimeout,
		EnableCORS:      cfg.API.EnableCORS,
		AllowedOrigins:  cfg.API.AllowedOrigins,
		AllowedMethods:  cfg.API.AllowedMethods,
		AllowedHeaders:  cfg.API.AllowedHeaders,
		RequestTimeout:  cfg.API.RequestTimeout,
		MaxRequestSize:  cfg.API.MaxRequestSize,
		EnableWebsocket: cfg.API.EnableWebsocket,
	}
	gateway := api.NewGateway(gatewayConfig, engine, deps, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := gateway.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	waitForShutdown(cancel, gateway, logger, errCh)
}

func printHelp() {
	fmt.Printf(`DealPulse - Deal Health Scoring & Predictive Risk Engine

Usage:
  dealpulse [flags]

Flags:
  -config string
        Configuration file path (default "$CONFIG_PATH" or built-in defaults)
  -version
        Show version information
  -help
        Show this help message

Examples:
  dealpulse                                    # Start with default config
  dealpulse -config config/production.yaml     # Start with production config
  dealpulse -version                           # Show version
`)
}

func printVersion() {
	fmt.Printf("DealPulse version %s\n", version)
	fmt.Printf("Commit: %s\n", commit)
	fmt.Printf("Built: %s\n", date)
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapConfig.Level = level
	}

	if cfg.Output != "" && cfg.Output != "stdout" {
		zapConfig.OutputPaths = []string{cfg.Output}
	}

	return zapConfig.Build()
}

// resolveSecrets replaces vault path references in the configuration
// with the secrets they point to
func resolveSecrets(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if !cfg.Vault.Enabled {
		return nil
	}

	client, err := vault.NewClient(cfg.Vault, logger)
	if err != nil {
		return err
	}

	if path := cfg.History.PasswordVaultPath; path != "" {
		password, err := client.GetString(ctx, path, "password")
		if err != nil {
			return fmt.Errorf("failed to resolve history password: %w", err)
		}
		cfg.History.Password = password
	}

	if path := cfg.Cache.PasswordVaultPath; path != "" {
		password, err := client.GetString(ctx, path, "password")
		if err != nil {
			return fmt.Errorf("failed to resolve cache password: %w", err)
		}
		cfg.Cache.Password = password
	}

	return nil
}

// engineHistory adapts the optional history store to the engine's
// narrower interface; a nil store disables previous-score lookups
func engineHistory(store history.Store) health.HistorySource {
	if store == nil {
		return nil
	}
	return store
}

// localCacheAdapter exposes the in-process analysis cache through the
// gateway's cache interface
type localCacheAdapter struct {
	cache *health.AnalysisCache
}

func (a localCacheAdapter) GetAnalysis(ctx context.Context, dealID, fingerprint string) (*models.DealHealthAnalysis, bool) {
	return a.cache.Get(dealID, fingerprint)
}

func (a localCacheAdapter) SetAnalysis(ctx context.Context, dealID, fingerprint string, analysis *models.DealHealthAnalysis) {
	a.cache.Set(dealID, fingerprint, analysis)
}

func (a localCacheAdapter) InvalidateDeal(ctx context.Context, dealID string) {
	a.cache.InvalidateDeal(dealID)
}

func waitForShutdown(cancel context.CancelFunc, gateway *api.Gateway, logger *zap.Logger, errCh chan error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("gateway failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := gateway.Stop(shutdownCtx); err != nil {
		logger.Error("error during gateway shutdown", zap.Error(err))
	}

	cancel()
	logger.Info("dealpulse stopped")
}
