package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ongsearch/internal/auditlog"
	"github.com/kailas-cloud/ongsearch/internal/config"
	dbRedis "github.com/kailas-cloud/ongsearch/internal/db/redis"
	"github.com/kailas-cloud/ongsearch/internal/domain"
	"github.com/kailas-cloud/ongsearch/internal/domain/product"
	logpkg "github.com/kailas-cloud/ongsearch/internal/logger"
	"github.com/kailas-cloud/ongsearch/internal/metrics"
	"github.com/kailas-cloud/ongsearch/internal/repository/memcatalog"
	productrepo "github.com/kailas-cloud/ongsearch/internal/repository/product"
	"github.com/kailas-cloud/ongsearch/internal/repository/productsql"
	"github.com/kailas-cloud/ongsearch/internal/repository/snapcache"
	"github.com/kailas-cloud/ongsearch/internal/transport/remote"
	cataloguc "github.com/kailas-cloud/ongsearch/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/ongsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/ongsearch/internal/usecase/search"
)

// catalogSource is what every configured source provides.
type catalogSource interface {
	cataloguc.Store
	HealthCheck(ctx context.Context) error
}

// app is the composition root shared by the subcommands.
type app struct {
	source  catalogSource // raw store, below audit and cache
	catalog *cataloguc.Service
	search  *searchuc.Service
	health  *healthuc.Service
	closers []func() error
}

// Close releases stores and log files in reverse order of creation.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func (a *app) onClose(fn func() error) { a.closers = append(a.closers, fn) }

// buildApp wires source -> audit -> snapshot cache -> services.
func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	var requests *auditlog.RequestLogger
	var decisions searchuc.DecisionLogger
	if cfg.Audit.Enabled {
		auditLog, closer := logpkg.NewAuditLogger(logpkg.AuditOptions{
			FilePath:   cfg.Audit.FilePath,
			MaxSizeMB:  cfg.Audit.MaxSizeMB,
			MaxBackups: cfg.Audit.MaxBackups,
			MaxAgeDays: cfg.Audit.MaxAgeDays,
			Compress:   cfg.Audit.Compress,
		})
		a.onClose(closer.Close)
		a.onClose(func() error { _ = auditLog.Sync(); return nil })

		sink := auditlog.NewZapSink(auditLog, logger)
		requests = auditlog.NewRequestLogger(sink)
		decisions = auditlog.NewDecisionLogger(sink)
	}

	src, pinger, err := openSource(ctx, cfg, logger, requests, a)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.source = src

	var store catalogSource = src
	if requests != nil {
		store = auditlog.NewInstrumentedStore(store, requests)
	}

	catalogSvc := cataloguc.New(store)
	if cfg.Catalog.CacheTTLSec > 0 {
		cache := snapcache.New(store, time.Duration(cfg.Catalog.CacheTTLSec)*time.Second,
			metrics.CatalogSnapshotCacheTotal, logger).
			WithSizeGauge(metrics.CatalogProducts)
		store = cache
		catalogSvc = cataloguc.New(store).WithInvalidators(cache)
	}
	a.catalog = catalogSvc.
		WithPagination(cfg.Search.PageSize, 0).
		WithFoldDiacritics(cfg.Search.FoldDiacritics)

	searchSvc := searchuc.New(store, decisions).
		WithInterpreter(searchuc.NewInterpreter(vocabulary(cfg.Search.Vocabulary))).
		WithFilterEngine(searchuc.NewFilterEngine(cfg.Search.PageSize, cfg.Search.FoldDiacritics)).
		WithOutcomeCounter(metrics.SearchTotal)
	if cfg.Search.ForceFallbackMarker != nil {
		searchSvc = searchSvc.WithForceFallbackMarker(*cfg.Search.ForceFallbackMarker)
	}
	a.search = searchSvc

	a.health = healthuc.New(store, pinger)
	return a, nil
}

// openSource creates the configured catalog source. pinger is nil unless the source is a database.
func openSource(
	ctx context.Context,
	cfg config.Config,
	logger *zap.Logger,
	requests *auditlog.RequestLogger,
	a *app,
) (catalogSource, healthuc.DBPinger, error) {
	switch cfg.Catalog.Source {
	case config.SourceMemory:
		cat, err := memcatalog.NewSeeded()
		if err != nil {
			return nil, nil, fmt.Errorf("seed memory catalog: %w", err)
		}
		return cat.WithDelay(time.Duration(cfg.Catalog.MockDelayMs) * time.Millisecond), nil, nil

	case config.SourceRedis, config.SourceValkey:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create %s store: %w", cfg.Catalog.Source, err)
		}
		a.onClose(func() error { store.Close(); return nil })

		timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			return nil, nil, fmt.Errorf("database not ready: %w", err)
		}
		logger.Info("Connected to database", zap.Strings("db_addrs", cfg.Database.Addrs))
		return productrepo.New(store, cfg.Database.KeyPrefix), store, nil

	case config.SourceSQLite:
		repo, err := productsql.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite catalog: %w", err)
		}
		a.onClose(repo.Close)
		return repo, nil, nil

	case config.SourceRemote:
		var transport http.RoundTripper
		if requests != nil {
			transport = auditlog.NewRoundTripper(nil, requests)
		}
		provider, err := remote.New(&remote.Config{
			BaseURL:   cfg.Remote.BaseURL,
			Token:     cfg.Remote.Token,
			PageSize:  cfg.Remote.PageSize,
			MaxPages:  cfg.Remote.MaxPages,
			Timeout:   time.Duration(cfg.Remote.TimeoutSec) * time.Second,
			Transport: transport,
			Logger:    logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create remote catalog: %w", err)
		}
		return provider, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

func vocabulary(entries []config.VocabularyEntry) []searchuc.CategoryRule {
	rules := make([]searchuc.CategoryRule, 0, len(entries))
	for _, e := range entries {
		rules = append(rules, searchuc.CategoryRule{Label: e.Label, Keywords: e.Keywords})
	}
	return rules
}

// seedInto copies products into dst, skipping ids that already exist unless overwrite is set.
func seedInto(ctx context.Context, dst cataloguc.Store, products []product.Product, overwrite bool) (created, existing int, err error) {
	for _, p := range products {
		if !overwrite {
			_, err := dst.Get(ctx, p.ID())
			if err == nil {
				existing++
				continue
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return created, existing, fmt.Errorf("check product %s: %w", p.ID(), err)
			}
		}
		isNew, err := dst.Upsert(ctx, p)
		if err != nil {
			return created, existing, fmt.Errorf("seed product %s: %w", p.ID(), err)
		}
		if isNew {
			created++
		} else {
			existing++
		}
	}
	return created, existing, nil
}
