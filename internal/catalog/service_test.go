package catalog

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/housevarsha/catalog-service/internal/cache"
	"github.com/housevarsha/catalog-service/internal/imageurl"
	"github.com/housevarsha/catalog-service/internal/normalize"
	"github.com/housevarsha/catalog-service/internal/sheet"
	"github.com/housevarsha/catalog-service/internal/source"
	apperrors "github.com/housevarsha/catalog-service/pkg/errors"
	"github.com/housevarsha/catalog-service/pkg/logger"
)

// stubSource is a scripted RowSource that counts fetches.
type stubSource struct {
	name    string
	rows    []sheet.Row
	err     error
	fetches int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context) ([]sheet.Row, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testLogger() *slog.Logger {
	return logger.New("catalog-service-test", "error")
}

func newService(clk *clock, products, settings []source.RowSource) *Service {
	store := cache.NewMemory().WithClock(clk.Now)
	return NewService(
		products, settings,
		normalize.New(imageurl.NewResolver("demo")),
		store,
		nil,
		Config{TTL: 5 * time.Minute, FetchTimeout: 2 * time.Second},
		testLogger(),
	)
}

func productRows(id, name, price string) []sheet.Row {
	return []sheet.Row{{"id": id, "name": name, "price": price}}
}

func TestProducts_FirstSourceWins(t *testing.T) {
	clk := &clock{now: time.Now()}
	primary := &stubSource{name: "sheets-api", rows: productRows("a", "Kurti", "995")}
	secondary := &stubSource{name: "sheets-csv", rows: productRows("b", "Saree", "2450")}

	svc := newService(clk, []source.RowSource{primary, secondary}, nil)

	result := svc.Products(context.Background())
	assert.Equal(t, "sheets-api", result.Source)
	assert.False(t, result.Cached)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "a", result.Products[0].ID)
	assert.Zero(t, secondary.fetches)
}

func TestProducts_FallsThroughToSecondSource(t *testing.T) {
	clk := &clock{now: time.Now()}
	primary := &stubSource{name: "sheets-api", err: apperrors.ErrSourceUnavailable}
	secondary := &stubSource{name: "sheets-csv", rows: productRows("b", "Saree", "2450")}

	svc := newService(clk, []source.RowSource{primary, secondary}, nil)

	result := svc.Products(context.Background())
	assert.Equal(t, "sheets-csv", result.Source)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "b", result.Products[0].ID)
}

func TestProducts_UnconfiguredAndFailingSourcesTreatedAlike(t *testing.T) {
	clk := &clock{now: time.Now()}
	unconfigured := &stubSource{name: "sheets-api", err: apperrors.ErrSourceNotConfigured}
	failing := &stubSource{name: "sheets-csv", err: apperrors.ErrSourceUnavailable}

	svc := newService(clk, []source.RowSource{unconfigured, failing}, nil)

	result := svc.Products(context.Background())
	assert.Equal(t, SourceStatic, result.Source)
	assert.NotEmpty(t, result.Products)
}

func TestProducts_EmptyNormalizedOutputFallsThrough(t *testing.T) {
	clk := &clock{now: time.Now()}
	// rows lacking price normalize to nothing
	empty := &stubSource{name: "sheets-api", rows: []sheet.Row{{"id": "x", "name": "No Price"}}}
	good := &stubSource{name: "sheets-csv", rows: productRows("b", "Saree", "2450")}

	svc := newService(clk, []source.RowSource{empty, good}, nil)

	result := svc.Products(context.Background())
	assert.Equal(t, "sheets-csv", result.Source)
}

func TestProducts_CachedWithinTTL(t *testing.T) {
	clk := &clock{now: time.Now()}
	src := &stubSource{name: "sheets-api", rows: productRows("a", "Kurti", "995")}

	svc := newService(clk, []source.RowSource{src}, nil)

	first := svc.Products(context.Background())
	assert.False(t, first.Cached)

	clk.Advance(4 * time.Minute)
	second := svc.Products(context.Background())
	assert.True(t, second.Cached)
	assert.Equal(t, "sheets-api", second.Source)
	assert.Equal(t, first.Products, second.Products)
	assert.Equal(t, 1, src.fetches)
}

func TestProducts_RefreshAfterExpiry(t *testing.T) {
	clk := &clock{now: time.Now()}
	src := &stubSource{name: "sheets-api", rows: productRows("a", "Kurti", "995")}

	svc := newService(clk, []source.RowSource{src}, nil)

	svc.Products(context.Background())
	clk.Advance(6 * time.Minute)

	result := svc.Products(context.Background())
	assert.False(t, result.Cached)
	assert.Equal(t, 2, src.fetches)
}

func TestProducts_StaticFallbackNotCached(t *testing.T) {
	clk := &clock{now: time.Now()}
	src := &stubSource{name: "sheets-api", err: apperrors.ErrSourceUnavailable}

	svc := newService(clk, []source.RowSource{src}, nil)

	first := svc.Products(context.Background())
	assert.Equal(t, SourceStatic, first.Source)

	// recovery is retried on every read while only static data exists
	src.err = nil
	src.rows = productRows("a", "Kurti", "995")

	second := svc.Products(context.Background())
	assert.Equal(t, "sheets-api", second.Source)
	assert.Equal(t, 2, src.fetches)
}

func TestProducts_NoSourcesConfigured(t *testing.T) {
	clk := &clock{now: time.Now()}
	svc := newService(clk, nil, nil)

	result := svc.Products(context.Background())
	assert.Equal(t, SourceStatic, result.Source)
	assert.NotEmpty(t, result.Products)
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	clk := &clock{now: time.Now()}
	src := &stubSource{name: "sheets-api", rows: productRows("a", "Kurti", "995")}

	svc := newService(clk, []source.RowSource{src}, nil)

	svc.Products(context.Background())
	require.NoError(t, svc.Invalidate(context.Background()))

	result := svc.Products(context.Background())
	assert.False(t, result.Cached)
	assert.Equal(t, 2, src.fetches)
}

func TestProduct_ByID(t *testing.T) {
	clk := &clock{now: time.Now()}
	src := &stubSource{name: "sheets-api", rows: []sheet.Row{
		{"id": "a", "name": "Kurti", "price": "995"},
		{"id": "b", "name": "Saree", "price": "2450"},
	}}

	svc := newService(clk, []source.RowSource{src}, nil)

	p, ok := svc.Product(context.Background(), "b")
	require.True(t, ok)
	assert.Equal(t, "Saree", p.Name)

	_, ok = svc.Product(context.Background(), "missing")
	assert.False(t, ok)
}

func TestSettings_LiveThenCached(t *testing.T) {
	clk := &clock{now: time.Now()}
	src := &stubSource{name: "sheets-api", rows: []sheet.Row{
		{"setting": "storeName", "value": "Varsha Test"},
	}}

	svc := newService(clk, nil, []source.RowSource{src})

	first := svc.Settings(context.Background())
	assert.Equal(t, "sheets-api", first.Source)
	assert.Equal(t, "Varsha Test", first.Settings.StoreName)
	assert.False(t, first.Cached)

	second := svc.Settings(context.Background())
	assert.True(t, second.Cached)
	assert.Equal(t, 1, src.fetches)
}

func TestSettings_StaticFallback(t *testing.T) {
	clk := &clock{now: time.Now()}
	src := &stubSource{name: "sheets-csv", err: apperrors.ErrSourceUnavailable}

	svc := newService(clk, nil, []source.RowSource{src})

	result := svc.Settings(context.Background())
	assert.Equal(t, SourceStatic, result.Source)
	assert.Equal(t, "House of Varsha", result.Settings.StoreName)
}
