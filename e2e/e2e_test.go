package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/stroymet/catalog-ingest/internal/attributes"
	"github.com/stroymet/catalog-ingest/internal/categories"
	"github.com/stroymet/catalog-ingest/internal/fetcher"
	"github.com/stroymet/catalog-ingest/internal/platform/models"
	"github.com/stroymet/catalog-ingest/internal/platform/storage"
	pgmodels "github.com/stroymet/catalog-ingest/internal/platform/storage/gen/postgres/public/model"
	"github.com/stroymet/catalog-ingest/internal/platform/storage/storagetesting"
	"github.com/stroymet/catalog-ingest/internal/products"
	"github.com/stroymet/catalog-ingest/internal/uniquifier"
)

const userAgent = "catalog-ingest-e2e/0.0.1"

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	os.Exit(m.Run())
}

func TestE2E(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

type E2ETestSuite struct {
	suite.Suite
	db      *sql.DB
	storage storage.Postgres
	site    *httptest.Server
	fetcher *fetcher.Fetcher
	logger  zerolog.Logger
}

func (s *E2ETestSuite) SetupSuite() {
	s.db = storagetesting.Open(s.T())
	s.storage = storage.NewPostgres(s.db)
	storagetesting.CleanupData(s.T(), s.db)

	pages := sitePages()
	s.site = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.RequestURI()]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(page))
	}))

	s.fetcher = fetcher.NewFetcher(&http.Client{Timeout: 10 * time.Second}, userAgent, "ru-RU,ru;q=0.9")
	s.logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func (s *E2ETestSuite) TearDownSuite() {
	s.site.Close()
	storagetesting.CleanupData(s.T(), s.db)
	if err := s.db.Close(); err != nil {
		s.FailNow("close DB", err)
	}
}

func (s *E2ETestSuite) TestE2EIngestion() {
	ctx := context.Background()

	// Category discovery.
	crawler := categories.NewCrawler(s.fetcher, s.storage, s.site.URL, 0, &s.logger)
	tree, err := crawler.Run(ctx)
	s.Require().NoError(err)
	s.Require().Len(tree, 2)

	bySlug := lo.KeyBy(tree, func(c models.Category) string { return c.Slug })
	s.Require().Contains(bySlug, "krepezh")
	s.Require().Contains(bySlug, "krepezh/bolty")
	s.Require().NotNil(bySlug["krepezh/bolty"].ParentID)
	s.Assert().Equal(bySlug["krepezh"].ID, *bySlug["krepezh/bolty"].ParentID)

	// Attribute ingestion.
	attributePipeline := attributes.NewPipeline(s.fetcher, s.storage, s.site.URL, 0, &s.logger)
	s.Require().NoError(attributePipeline.Run(ctx))

	pendingAttributes, err := s.storage.PendingAttributeCheckpoints(ctx)
	s.Require().NoError(err)
	s.Assert().Empty(pendingAttributes, "every category should be marked parsed")

	links := storagetesting.GetCategoryAttributes(s.T(), s.db, bySlug["krepezh/bolty"].ID)
	s.Require().Len(links, 2, "both filter widgets should be linked")

	// Product ingestion over two full listing pages with a duplicate card.
	productPipeline := products.NewPipeline(s.fetcher, s.storage, s.site.URL, 0, 4, &s.logger)
	s.Require().NoError(productPipeline.Run(ctx))

	stored := storagetesting.GetProducts(s.T(), s.db)
	s.Require().Len(stored, 47, "48 cards over two pages, the duplicate stored once")

	storedBySlug := lo.KeyBy(stored, func(p pgmodels.Product) string { return p.Slug })
	s.Require().Contains(storedBySlug, "bolt-din933-m10")
	s.Assert().Equal("Болт DIN 933 М10", storedBySlug["bolt-din933-m10"].Name)
	s.Require().NotNil(storedBySlug["bolt-din933-m10"].Sku)
	s.Assert().Equal("B-10", *storedBySlug["bolt-din933-m10"].Sku)

	values := storagetesting.GetProductValues(s.T(), s.db, int(storedBySlug["bolt-din933-m10"].ID))
	s.Require().Len(values, 2)
	numeric := lo.Filter(values, func(v pgmodels.ProductAttribute, _ int) bool { return v.ValueNumber != nil })
	s.Require().Len(numeric, 1, "numeric spec should land in the number column")
	s.Assert().InDelta(10.0, *numeric[0].ValueNumber, 0.001)

	checkpoint := storagetesting.GetCheckpoint(s.T(), s.db, bySlug["krepezh/bolty"].ID)
	s.Require().NotNil(checkpoint)
	s.Assert().True(checkpoint.ProductsParsed)
	s.Assert().EqualValues(2, checkpoint.LastPage)
	s.Assert().EqualValues(47, checkpoint.ProductsCount)

	// Re-running ingests nothing new.
	rerunPipeline := products.NewPipeline(s.fetcher, s.storage, s.site.URL, 0, 4, &s.logger)
	s.Require().NoError(rerunPipeline.Run(ctx))
	s.Assert().Len(storagetesting.GetProducts(s.T(), s.db), 47)

	// SEO generation.
	uniq := uniquifier.NewUniquifier(s.storage, 2, 2, false, &s.logger)
	s.Require().NoError(uniq.Run(ctx))

	stored = storagetesting.GetProducts(s.T(), s.db)
	for _, product := range stored {
		s.Assert().NotEmpty(product.MetaTitle)
		s.Assert().NotEmpty(product.MetaDescription)
		s.Assert().LessOrEqual(len([]rune(product.MetaDescription)), uniquifier.MaxMetaDescription)
		s.Assert().Contains(product.Description, "<p>")
	}
}

func categoryCard(slug, name string) string {
	return fmt.Sprintf(
		`<a href="/catalog/%s/"><img src="/images/%s.jpg" alt="%s"/>%s</a>`,
		slug, slug, name, name,
	)
}

func productCard(slug, name string) string {
	return fmt.Sprintf(
		`<div class="product-item"><a href="/catalog/krepezh/bolty/%s/"><span class="product-item-title">%s</span></a><img src="/images/%s.jpg"/></div>`,
		slug, name, slug,
	)
}

func detailPage(name, sku string, rows string) string {
	return fmt.Sprintf(`<html><head><title>%s — СтройМет</title></head><body>
		<h1>%s</h1>
		<div class="product-article">Артикул: %s</div>
		<div class="product-detail"><img src="/upload/318/%s.jpg"/></div>
		<div class="product-description">Оцинкованная сталь.</div>
		<table class="product-props">%s</table>
		</body></html>`, name, name, sku, sku, rows)
}

func specRows(diameter string, thread string) string {
	return fmt.Sprintf(
		"<tr><td>Диаметр, мм</td><td>%s</td></tr><tr><td>Резьба</td><td>%s</td></tr>",
		diameter, thread,
	)
}

const filterPanel = `
	<div class="catalog-filter">
		<div class="filter-block">
			<div class="filter-block-title">Диаметр, мм</div>
			<label><input type="checkbox" value="diametr|10"/>10</label>
			<label><input type="checkbox" value="diametr|12"/>12</label>
		</div>
		<div class="filter-block">
			<div class="filter-block-title">Резьба</div>
			<label><input type="checkbox" value="rezba|М10"/>М10</label>
		</div>
	</div>`

func boltSlug(diameter int) string { return fmt.Sprintf("bolt-din933-m%d", diameter) }

func boltName(diameter int) string { return fmt.Sprintf("Болт DIN 933 М%d", diameter) }

func boltCard(diameter int) string { return productCard(boltSlug(diameter), boltName(diameter)) }

// sitePages builds a fake storefront: one category chain and two full listing
// pages of 24 bolt cards, the second ending with a duplicate of М10.
func sitePages() map[string]string {
	pages := map[string]string{
		"/catalog/":         `<div class="catalog-section">` + categoryCard("krepezh", "Крепёж") + `</div>`,
		"/catalog/krepezh/": `<div class="catalog-section">` + categoryCard("krepezh/bolty", "Болты") + `</div>`,
	}

	pageOne := filterPanel + `<div class="catalog-found">Найдено: 48 товаров</div>`
	for diameter := 1; diameter <= 24; diameter++ {
		pageOne += boltCard(diameter)
	}
	pages["/catalog/krepezh/bolty/"] = pageOne

	pageTwo := `<div class="catalog-found">Найдено: 48 товаров</div>`
	for diameter := 25; diameter <= 47; diameter++ {
		pageTwo += boltCard(diameter)
	}
	pageTwo += boltCard(10)
	pages["/catalog/krepezh/bolty/?PAGEN_1=2"] = pageTwo

	for diameter := 1; diameter <= 47; diameter++ {
		pages["/catalog/krepezh/bolty/"+boltSlug(diameter)+"/"] = detailPage(
			boltName(diameter),
			fmt.Sprintf("B-%d", diameter),
			specRows(strconv.Itoa(diameter), fmt.Sprintf("М%d", diameter)),
		)
	}

	return pages
}
