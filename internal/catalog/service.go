// Package catalog is the fallback orchestrator: the only entry point
// the handler layer uses to read products and settings. It walks the
// configured row sources in priority order, caches live results, and
// degrades to the bundled static dataset. It never returns an error;
// the catalog always renders something.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/housevarsha/catalog-service/internal/cache"
	"github.com/housevarsha/catalog-service/internal/domain"
	"github.com/housevarsha/catalog-service/internal/event"
	"github.com/housevarsha/catalog-service/internal/normalize"
	"github.com/housevarsha/catalog-service/internal/sheet"
	"github.com/housevarsha/catalog-service/internal/source"
	"github.com/housevarsha/catalog-service/internal/static"
	apperrors "github.com/housevarsha/catalog-service/pkg/errors"
)

// SourceStatic labels results served from the bundled dataset. Live
// sources carry their own names (sheets-api, sheets-csv).
const SourceStatic = "static"

// ProductsResult is a catalog snapshot plus its provenance.
type ProductsResult struct {
	Products []domain.Product `json:"products"`
	Source   string           `json:"source"`
	Cached   bool             `json:"cached"`
}

// SettingsResult is a settings snapshot plus its provenance.
type SettingsResult struct {
	Settings domain.SiteSettings `json:"settings"`
	Source   string              `json:"source"`
	Cached   bool                `json:"cached"`
}

// productsSnapshot is the cached document for the products slot. The
// source label travels with the data so cached reads keep accurate
// provenance.
type productsSnapshot struct {
	Source   string           `json:"source"`
	Products []domain.Product `json:"products"`
}

type settingsSnapshot struct {
	Source   string              `json:"source"`
	Settings domain.SiteSettings `json:"settings"`
}

// Config bounds the orchestrator's caching and fetching behavior.
type Config struct {
	TTL          time.Duration
	FetchTimeout time.Duration
}

// Service orchestrates the fallback chain. Source slices are in
// priority order; unconfigured sources are simply absent. Concurrent
// cold-cache readers may each trigger a fetch; the slot is replaced
// wholesale, so every reader still observes a consistent snapshot.
type Service struct {
	productSources []source.RowSource
	settingSources []source.RowSource
	normalizer     *normalize.Normalizer
	store          cache.Store
	events         *event.Producer
	cfg            Config
	logger         *slog.Logger
}

func NewService(
	productSources, settingSources []source.RowSource,
	normalizer *normalize.Normalizer,
	store cache.Store,
	events *event.Producer,
	cfg Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		productSources: productSources,
		settingSources: settingSources,
		normalizer:     normalizer,
		store:          store,
		events:         events,
		cfg:            cfg,
		logger:         logger,
	}
}

// Products returns the current product catalog. Resolution order:
// fresh cached snapshot, then each configured source, then the bundled
// dataset. Never returns an empty result.
func (s *Service) Products(ctx context.Context) ProductsResult {
	var snap productsSnapshot
	if s.readSnapshot(ctx, cache.KeyProducts, resourceProducts, &snap) {
		return ProductsResult{Products: snap.Products, Source: snap.Source, Cached: true}
	}

	for _, src := range s.productSources {
		rows, err := s.fetch(ctx, src)
		if err != nil {
			s.logSourceFailure(ctx, src.Name(), err)
			continue
		}

		products := s.normalizer.Products(rows)
		if len(products) == 0 {
			sourceFetches.WithLabelValues(src.Name(), resultEmpty).Inc()
			s.logger.InfoContext(ctx, "source returned no usable products", slog.String("source", src.Name()))
			continue
		}

		sourceFetches.WithLabelValues(src.Name(), resultOK).Inc()
		s.writeSnapshot(ctx, cache.KeyProducts, productsSnapshot{Source: src.Name(), Products: products})
		s.events.PublishCatalogRefreshed(ctx, resourceProducts, src.Name(), len(products))

		return ProductsResult{Products: products, Source: src.Name()}
	}

	fallbackServed.WithLabelValues(resourceProducts).Inc()
	s.logger.WarnContext(ctx, "serving bundled static products")

	return ProductsResult{Products: static.Products(), Source: SourceStatic}
}

// Product returns one product by id from the current snapshot.
func (s *Service) Product(ctx context.Context, id string) (domain.Product, bool) {
	result := s.Products(ctx)
	for _, p := range result.Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Settings returns the current site settings, falling back to the
// built-in defaults.
func (s *Service) Settings(ctx context.Context) SettingsResult {
	var snap settingsSnapshot
	if s.readSnapshot(ctx, cache.KeySettings, resourceSettings, &snap) {
		return SettingsResult{Settings: snap.Settings, Source: snap.Source, Cached: true}
	}

	for _, src := range s.settingSources {
		rows, err := s.fetch(ctx, src)
		if err != nil {
			s.logSourceFailure(ctx, src.Name(), err)
			continue
		}
		if len(rows) == 0 {
			sourceFetches.WithLabelValues(src.Name(), resultEmpty).Inc()
			continue
		}

		settings := s.normalizer.Settings(rows)

		sourceFetches.WithLabelValues(src.Name(), resultOK).Inc()
		s.writeSnapshot(ctx, cache.KeySettings, settingsSnapshot{Source: src.Name(), Settings: settings})
		s.events.PublishCatalogRefreshed(ctx, resourceSettings, src.Name(), 0)

		return SettingsResult{Settings: settings, Source: src.Name()}
	}

	fallbackServed.WithLabelValues(resourceSettings).Inc()

	return SettingsResult{Settings: static.Settings(), Source: SourceStatic}
}

// Invalidate clears both snapshot slots so the next read refetches.
func (s *Service) Invalidate(ctx context.Context) error {
	err := errors.Join(
		s.store.Delete(ctx, cache.KeyProducts),
		s.store.Delete(ctx, cache.KeySettings),
	)
	if err != nil {
		return err
	}

	s.events.PublishCacheInvalidated(ctx, "all")
	s.logger.InfoContext(ctx, "catalog cache invalidated")
	return nil
}

// fetch runs one source under the configured timeout so a hung
// upstream degrades into fallback like any other failure.
func (s *Service) fetch(ctx context.Context, src source.RowSource) ([]sheet.Row, error) {
	fetchCtx := ctx
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}
	return src.Fetch(fetchCtx)
}

func (s *Service) readSnapshot(ctx context.Context, key, resource string, target any) bool {
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		cacheReads.WithLabelValues(resource, resultError).Inc()
		return false
	}
	if !ok {
		cacheReads.WithLabelValues(resource, cacheMiss).Inc()
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		s.logger.WarnContext(ctx, "cache snapshot corrupt",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		cacheReads.WithLabelValues(resource, resultError).Inc()
		return false
	}

	cacheReads.WithLabelValues(resource, cacheHit).Inc()
	return true
}

func (s *Service) writeSnapshot(ctx context.Context, key string, snapshot any) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, "marshal snapshot", slog.String("error", err.Error()))
		return
	}
	if err := s.store.Set(ctx, key, data, s.cfg.TTL); err != nil {
		s.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// logSourceFailure keeps the taxonomy visible in logs: a missing
// configuration is routine, an auth rejection or network failure is
// worth a warning.
func (s *Service) logSourceFailure(ctx context.Context, name string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrSourceNotConfigured):
		sourceFetches.WithLabelValues(name, resultSkipped).Inc()
		s.logger.DebugContext(ctx, "source not configured", slog.String("source", name))
	case apperrors.Unavailable(err):
		sourceFetches.WithLabelValues(name, resultError).Inc()
		s.logger.WarnContext(ctx, "source fetch failed",
			slog.String("source", name),
			slog.String("error", err.Error()),
		)
	default:
		sourceFetches.WithLabelValues(name, resultError).Inc()
		s.logger.ErrorContext(ctx, "source fetch failed unexpectedly",
			slog.String("source", name),
			slog.String("error", err.Error()),
		)
	}
}
