// Package event publishes catalog lifecycle events. Publishing is
// best-effort: the catalog must keep serving even when the broker is
// down or not configured, so failures are logged and swallowed.
package event

import (
	"context"
	"log/slog"

	pkgkafka "github.com/housevarsha/catalog-service/pkg/kafka"
)

// Kafka topic constants for catalog events.
const (
	TopicCatalogRefreshed        = "varsha.catalog.refreshed"
	TopicCatalogCacheInvalidated = "varsha.catalog.cache_invalidated"
)

const AggregateTypeCatalog = "catalog"

const SourceCatalogService = "catalog-service"

// CatalogRefreshedData is the payload for a catalog.refreshed event.
type CatalogRefreshedData struct {
	Resource     string `json:"resource"`
	Source       string `json:"source"`
	ProductCount int    `json:"product_count,omitempty"`
}

// CacheInvalidatedData is the payload for a cache_invalidated event.
type CacheInvalidatedData struct {
	Requested string `json:"requested"`
}

// Producer publishes catalog events to Kafka. A nil Producer is valid
// and publishes nothing, which is how a missing broker configuration
// is represented.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishCatalogRefreshed records that a live source produced a fresh
// snapshot for the given resource.
func (p *Producer) PublishCatalogRefreshed(ctx context.Context, resource, source string, productCount int) {
	if p == nil || p.kafka == nil {
		return
	}

	data := CatalogRefreshedData{
		Resource:     resource,
		Source:       source,
		ProductCount: productCount,
	}

	event, err := pkgkafka.NewEvent(TopicCatalogRefreshed, resource, AggregateTypeCatalog, SourceCatalogService, data)
	if err != nil {
		p.logger.WarnContext(ctx, "create catalog.refreshed event", slog.String("error", err.Error()))
		return
	}

	if err := p.kafka.Publish(ctx, TopicCatalogRefreshed, event); err != nil {
		p.logger.WarnContext(ctx, "publish catalog.refreshed event",
			slog.String("resource", resource),
			slog.String("error", err.Error()),
		)
		return
	}

	p.logger.DebugContext(ctx, "published catalog.refreshed event",
		slog.String("resource", resource),
		slog.String("source", source),
	)
}

// PublishCacheInvalidated records an explicit cache clear.
func (p *Producer) PublishCacheInvalidated(ctx context.Context, requested string) {
	if p == nil || p.kafka == nil {
		return
	}

	data := CacheInvalidatedData{Requested: requested}

	event, err := pkgkafka.NewEvent(TopicCatalogCacheInvalidated, requested, AggregateTypeCatalog, SourceCatalogService, data)
	if err != nil {
		p.logger.WarnContext(ctx, "create cache_invalidated event", slog.String("error", err.Error()))
		return
	}

	if err := p.kafka.Publish(ctx, TopicCatalogCacheInvalidated, event); err != nil {
		p.logger.WarnContext(ctx, "publish cache_invalidated event", slog.String("error", err.Error()))
		return
	}

	p.logger.DebugContext(ctx, "published cache_invalidated event", slog.String("requested", requested))
}
