package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nullhorizon/recon-dns/internal/dns/common/log"
	"github.com/nullhorizon/recon-dns/internal/dns/config"
	"github.com/nullhorizon/recon-dns/internal/dns/gateways/transport"
	"github.com/nullhorizon/recon-dns/internal/dns/repos/answercache"
	"github.com/nullhorizon/recon-dns/internal/dns/repos/negcache"
	"github.com/nullhorizon/recon-dns/internal/dns/services/resolver"
)

const (
	version = "0.1.0-dev"
	appName = "rr-dnsd"

	defaultShutdownTimeout = 10 * time.Second

	// negCacheExpectedItems and negCacheFalsePositiveRate size the
	// negative-result bloom filter.
	negCacheExpectedItems     = 100_000
	negCacheFalsePositiveRate = 0.01
)

// Application holds all the components of the DNS server.
type Application struct {
	config   *config.AppConfig
	server   *transport.Server
	resolver *resolver.Resolver
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.Log.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":     version,
		"env":         cfg.Env,
		"log_level":   cfg.Log.Level,
		"udp_address": fmt.Sprintf("%s:%d", cfg.UDP.BindAddress, cfg.UDP.Port),
		"cache_url":   cfg.Cache.URL,
	}, "starting "+appName)

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "failed to build application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "server failed")
	}

	log.Info(nil, appName+" stopped gracefully")
}

// buildApplication constructs every component and wires them together:
// the answer cache backend named by config, the negative-result filter,
// the C4 transport client, the C6 resolution engine, and the C7 UDP
// server front-end.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	store, err := answercache.NewStoreFromDSN(cfg.Cache.URL, cfg.Cache.LRUSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open answer cache store: %w", err)
	}
	cache := answercache.NewCache(store, logger)

	negFilter := negcache.NewFilter(negCacheExpectedItems, negCacheFalsePositiveRate)

	client := transport.NewClient(logger)

	resolverService := resolver.NewResolver(resolver.Options{
		Client:    client,
		Cache:     cache,
		NegFilter: negFilter,
		Logger:    logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.UDP.BindAddress, cfg.UDP.Port)
	server := transport.NewServer(addr, logger)

	return &Application{
		config:   cfg,
		server:   server,
		resolver: resolverService,
	}, nil
}

// Run starts the UDP server and blocks until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if err := app.server.Start(ctx, app.resolver); err != nil {
		return fmt.Errorf("failed to start udp server: %w", err)
	}

	log.Info(map[string]any{"address": app.server.Address()}, "dns server started")

	<-ctx.Done()
	log.Info(nil, "shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- app.server.Stop() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Warn(map[string]any{"error": err.Error()}, "error during server shutdown")
		}
		return nil
	case <-shutdownCtx.Done():
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
