package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/arvel0/canopy"
	"github.com/arvel0/canopy/internal/config"
	"github.com/arvel0/canopy/pkg/adapters/memory"
	"github.com/arvel0/canopy/pkg/adapters/redis"
	"github.com/arvel0/canopy/pkg/claude"
	"github.com/arvel0/canopy/pkg/domain"
	"github.com/arvel0/canopy/pkg/persistence/middleware"
	"github.com/arvel0/canopy/pkg/ports"
)

// HostOptions carries the command-line knobs shared by the commands.
type HostOptions struct {
	Config config.Config
	Debug  bool

	// ExtraHooks are merged after the debug hooks (metrics, custom sinks).
	ExtraHooks *domain.LifecycleHooks
}

// CreateHost initializes a Canopy host with standard CLI conventions.
// With a configured Redis address results go to Redis; otherwise they stay
// in memory and vanish with the process.
func CreateHost(opts HostOptions, logger *slog.Logger) (*canopy.Host, error) {
	cfg := opts.Config

	clientOpts := []claude.Option{}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, claude.WithBaseURL(cfg.BaseURL))
	}
	if timeout := cfg.Timeout.Std(); timeout > 0 {
		clientOpts = append(clientOpts, claude.WithHTTPClient(&http.Client{Timeout: timeout}))
	}

	hostOpts := []canopy.Option{
		canopy.WithCaller(claude.New(clientOpts...)),
		canopy.WithLogger(logger),
	}

	if key := cfg.APIKey(); key != "" {
		hostOpts = append(hostOpts, canopy.WithAPIKey(key))
	}

	store, err := createStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	if store != nil {
		hostOpts = append(hostOpts, canopy.WithResultStore(store))
	}

	if hooks := mergeHooks(opts, logger); hooks != nil {
		hostOpts = append(hostOpts, canopy.WithLifecycleHooks(*hooks))
	}

	host, err := canopy.New(hostOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing host: %w", err)
	}
	return host, nil
}

// createStore builds the configured result store, wrapped with redaction and
// encryption middleware when requested. Returns nil when the host's default
// in-memory store suffices.
func createStore(cfg config.Config, logger *slog.Logger) (ports.ResultStore, error) {
	var middlewares []middleware.Middleware
	if len(cfg.Store.RedactKeys) > 0 {
		middlewares = append(middlewares, middleware.NewRedactMiddleware(cfg.Store.RedactKeys))
	}
	if key, err := cfg.Store.EncryptionKey(); err != nil {
		return nil, err
	} else if key != nil {
		middlewares = append(middlewares, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: key,
		}))
	}

	var store ports.ResultStore
	if cfg.Redis.Addr != "" {
		storeOpts := []redis.Option{}
		if ttl := cfg.Redis.TTL.Std(); ttl > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(ttl))
		}
		store = redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, storeOpts...)
		logger.Info("using redis result store", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL.Std())
	} else if len(middlewares) > 0 {
		store = memory.NewStore()
	}

	if store == nil {
		return nil, nil
	}
	return middleware.Chain(store, middlewares...), nil
}

func mergeHooks(opts HostOptions, logger *slog.Logger) *domain.LifecycleHooks {
	if !opts.Debug {
		return opts.ExtraHooks
	}
	debug := CreateDebugHooks(logger)
	if opts.ExtraHooks == nil {
		return &debug
	}
	merged := chainHooks(debug, *opts.ExtraHooks)
	return &merged
}

func chainHooks(a, b domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeInvoke:  chainNode(a.OnNodeInvoke, b.OnNodeInvoke),
		OnNodeReturn:  chainNode(a.OnNodeReturn, b.OnNodeReturn),
		OnModelCall:   chainModel(a.OnModelCall, b.OnModelCall),
		OnModelReturn: chainModel(a.OnModelReturn, b.OnModelReturn),
	}
}

func chainNode(a, b func(context.Context, *domain.NodeEvent)) func(context.Context, *domain.NodeEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.NodeEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainModel(a, b func(context.Context, *domain.ModelEvent)) func(context.Context, *domain.ModelEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.ModelEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
