// Package products ingests products category by category, resuming each
// category from its checkpoint.
package products

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/stroymet/catalog-ingest/internal/extractor"
	"github.com/stroymet/catalog-ingest/internal/platform/models"
	"github.com/stroymet/catalog-ingest/internal/slugify"
	"golang.org/x/sync/errgroup"
)

// Fetcher fetches catalog pages.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

// Storage persists products, their attribute values and per-category
// progress.
type Storage interface {
	PendingProductCheckpoints(ctx context.Context) ([]models.Checkpoint, error)
	ExistingProductSlugs(ctx context.Context, slugs []string) (map[string]bool, error)
	InsertProducts(ctx context.Context, products []models.Product) ([]models.Product, error)
	InsertProductValues(ctx context.Context, values []models.ProductValue) error
	GetOrCreateAttribute(ctx context.Context, attribute models.Attribute) (*models.Attribute, error)
	EnsureCategoryAttribute(ctx context.Context, link models.CategoryAttribute) error
	SaveProgress(ctx context.Context, categoryID int, lastPage int, productsCount int) error
	MarkProductsParsed(ctx context.Context, categoryID int) error
	RecordError(ctx context.Context, categoryID int, message string) error
}

// Pipeline walks every pending category's listing pages, fetches detail
// pages concurrently and persists whatever is new. Progress is checkpointed
// after every listing page, so an interrupted run resumes where it stopped
// instead of starting over.
type Pipeline struct {
	fetcher     Fetcher
	storage     Storage
	baseURL     string
	delay       time.Duration
	concurrency int
	logger      *zerolog.Logger

	attributes map[string]*models.Attribute
	links      map[models.CategoryAttribute]bool
}

// NewPipeline returns new Pipeline. concurrency bounds parallel detail-page
// fetches, delay throttles every request.
func NewPipeline(fetcher Fetcher, storage Storage, baseURL string, delay time.Duration, concurrency int, logger *zerolog.Logger) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}

	return &Pipeline{
		fetcher:     fetcher,
		storage:     storage,
		baseURL:     baseURL,
		delay:       delay,
		concurrency: concurrency,
		logger:      logger,
		attributes:  make(map[string]*models.Attribute),
		links:       make(map[models.CategoryAttribute]bool),
	}
}

// Run processes every pending category. A failing category is recorded on
// its checkpoint and does not stop the others.
func (p *Pipeline) Run(ctx context.Context) error {
	checkpoints, err := p.storage.PendingProductCheckpoints(ctx)
	if err != nil {
		return fmt.Errorf("can't list pending checkpoints: %w", err)
	}

	p.logger.Info().
		Int("categories", len(checkpoints)).
		Msg("product ingestion started")

	var failed int
	for _, checkpoint := range checkpoints {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := p.processCategory(ctx, checkpoint); err != nil {
			failed++
			p.logger.Error().
				Err(err).
				Str("category", checkpoint.CategorySlug).
				Msg("category products failed")

			if recErr := p.storage.RecordError(ctx, checkpoint.CategoryID, err.Error()); recErr != nil {
				p.logger.Error().Err(recErr).Msg("can't record checkpoint error")
			}
		}
	}

	p.logger.Info().
		Int("failed", failed).
		Msg("product ingestion finished")

	return nil
}

// processCategory resumes a category at the page after its checkpoint. The
// resume page also provides the total page count, so a category that grew
// since the last run is still walked to its new end.
func (p *Pipeline) processCategory(ctx context.Context, checkpoint models.Checkpoint) error {
	page := checkpoint.LastPage + 1

	p.throttle(ctx)
	html, err := p.fetcher.FetchPage(ctx, p.listingURL(checkpoint.CategorySlug, page))
	if err != nil {
		return fmt.Errorf("can't fetch listing page %d: %w", page, err)
	}

	pageCount := extractor.PageCount(html)
	total := checkpoint.ProductsCount

	for first := true; page <= pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !first {
			p.throttle(ctx)
			html, err = p.fetcher.FetchPage(ctx, p.listingURL(checkpoint.CategorySlug, page))
			if err != nil {
				// One lost page shouldn't strand the category; the
				// checkpoint stays behind so a re-run covers it.
				p.logger.Warn().
					Err(err).
					Str("category", checkpoint.CategorySlug).
					Int("page", page).
					Msg("can't fetch listing page, skipped")
				continue
			}
		}
		first = false

		inserted, err := p.processPage(ctx, checkpoint.CategoryID, html)
		if err != nil {
			return fmt.Errorf("can't process page %d: %w", page, err)
		}
		total += inserted

		if err := p.storage.SaveProgress(ctx, checkpoint.CategoryID, page, total); err != nil {
			return fmt.Errorf("can't save progress: %w", err)
		}

		p.logger.Debug().
			Str("category", checkpoint.CategorySlug).
			Int("page", page).
			Int("inserted", inserted).
			Msg("listing page done")
	}

	if err := p.storage.MarkProductsParsed(ctx, checkpoint.CategoryID); err != nil {
		return fmt.Errorf("can't mark checkpoint: %w", err)
	}

	p.logger.Info().
		Str("category", checkpoint.CategorySlug).
		Int("products", total).
		Msg("category products parsed")

	return nil
}

// processPage fetches details for every card on a listing page and persists
// the products not stored yet. Returns the number of inserted products.
func (p *Pipeline) processPage(ctx context.Context, categoryID int, html []byte) (int, error) {
	cards := extractor.ProductCards(html, p.baseURL)
	if len(cards) == 0 {
		return 0, nil
	}

	products := p.fetchDetails(ctx, categoryID, cards)
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	products, err := p.dedupe(ctx, products)
	if err != nil {
		return 0, err
	}
	if len(products) == 0 {
		return 0, nil
	}

	return len(products), p.persist(ctx, categoryID, products)
}

// fetchDetails fetches and parses detail pages with a bounded worker pool.
// Workers pull card indexes from a shared counter, so the pool drains evenly
// no matter how slow individual pages are. Unfetchable or unparseable
// details are dropped.
func (p *Pipeline) fetchDetails(ctx context.Context, categoryID int, cards []extractor.ProductCard) []models.Product {
	results := make([]*models.Product, len(cards))

	var next atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)

	workers := p.concurrency
	if workers > len(cards) {
		workers = len(cards)
	}

	for worker := 0; worker < workers; worker++ {
		group.Go(func() error {
			for {
				ix := int(next.Add(1)) - 1
				if ix >= len(cards) {
					return nil
				}

				if err := p.sleep(groupCtx); err != nil {
					return err
				}

				html, err := p.fetcher.FetchPage(groupCtx, cards[ix].URL)
				if err != nil {
					p.logger.Warn().
						Err(err).
						Str("url", cards[ix].URL).
						Msg("can't fetch product detail, skipped")
					continue
				}

				detail := extractor.ProductDetail(html, cards[ix].URL, p.baseURL)
				if detail == nil {
					p.logger.Debug().
						Str("url", cards[ix].URL).
						Msg("product detail rejected")
					continue
				}

				product := p.toProduct(detail, cards[ix], categoryID)
				results[ix] = &product
			}
		})
	}

	// Workers only error on cancellation; partial results are still used.
	_ = group.Wait()

	products := make([]models.Product, 0, len(results))
	for _, product := range results {
		if product != nil {
			products = append(products, *product)
		}
	}

	return products
}

func (p *Pipeline) toProduct(detail *extractor.Product, card extractor.ProductCard, categoryID int) models.Product {
	imageURL := detail.ImageURL
	if imageURL == "" {
		imageURL = card.ThumbnailURL
	}

	var images []models.ProductImage
	if imageURL != "" {
		images = models.NormalizeImages([]models.ProductImage{{
			URL:       imageURL,
			SourceURL: imageURL,
			IsPrimary: true,
		}})
	}

	values := make([]models.ProductValue, 0, len(detail.Attributes))
	for _, attribute := range detail.Attributes {
		value := models.ProductValue{
			Name: attribute.Name,
			Unit: attribute.Unit,
		}
		// Each value is routed by its own shape, not by the attribute's
		// declared type: "М10" stays text even under a numeric attribute.
		if number, ok := slugify.ParseNumeric(attribute.Value); ok {
			value.ValueNumber = &number
		} else {
			text := attribute.Value
			value.ValueText = &text
		}
		values = append(values, value)
	}

	return models.Product{
		CategoryID:      categoryID,
		Slug:            detail.Slug,
		Name:            detail.Name,
		SKU:             detail.SKU,
		Description:     detail.Description,
		MetaDescription: detail.MetaDescription,
		IsActive:        true,
		InStock:         true,
		Images:          images,
		Attributes:      values,
	}
}

// dedupe drops duplicates within the batch, then whatever the database
// already has. Within the batch the first occurrence wins.
func (p *Pipeline) dedupe(ctx context.Context, products []models.Product) ([]models.Product, error) {
	seen := make(map[string]bool, len(products))
	unique := make([]models.Product, 0, len(products))
	slugs := make([]string, 0, len(products))

	for _, product := range products {
		if seen[product.Slug] {
			continue
		}
		seen[product.Slug] = true
		unique = append(unique, product)
		slugs = append(slugs, product.Slug)
	}

	if len(slugs) == 0 {
		return nil, nil
	}

	existing, err := p.storage.ExistingProductSlugs(ctx, slugs)
	if err != nil {
		return nil, fmt.Errorf("can't check existing slugs: %w", err)
	}

	fresh := make([]models.Product, 0, len(unique))
	for _, product := range unique {
		if !existing[product.Slug] {
			fresh = append(fresh, product)
		}
	}

	return fresh, nil
}

// persist inserts the products with their images, then resolves every
// attribute value against the attribute definitions and inserts the values.
func (p *Pipeline) persist(ctx context.Context, categoryID int, products []models.Product) error {
	valuesBySlug := make(map[string][]models.ProductValue, len(products))
	for _, product := range products {
		valuesBySlug[product.Slug] = product.Attributes
	}

	inserted, err := p.storage.InsertProducts(ctx, products)
	if err != nil {
		return fmt.Errorf("can't insert products: %w", err)
	}

	values := make([]models.ProductValue, 0)
	for _, product := range inserted {
		for _, value := range valuesBySlug[product.Slug] {
			attribute, err := p.resolveAttribute(ctx, categoryID, value)
			if err != nil {
				return err
			}

			value.ProductID = product.ID
			value.AttributeID = attribute.ID
			values = append(values, value)
		}
	}

	if len(values) == 0 {
		return nil
	}

	if err := p.storage.InsertProductValues(ctx, values); err != nil {
		return fmt.Errorf("can't insert product values: %w", err)
	}

	return nil
}

// resolveAttribute returns the definition for a detail-page specification
// row, creating it on first sight and making sure it is linked to the
// category. Definitions and links are cached for the run.
func (p *Pipeline) resolveAttribute(ctx context.Context, categoryID int, value models.ProductValue) (*models.Attribute, error) {
	slug := slugify.Transliterate(value.Name)

	attribute, ok := p.attributes[slug]
	if !ok {
		attributeType := models.AttributeTypeText
		if value.ValueNumber != nil {
			attributeType = models.AttributeTypeNumber
		}

		created, err := p.storage.GetOrCreateAttribute(ctx, models.Attribute{
			Slug: slug,
			Name: value.Name,
			Unit: value.Unit,
			Type: attributeType,
		})
		if err != nil {
			return nil, fmt.Errorf("can't resolve attribute %q: %w", slug, err)
		}

		attribute = created
		p.attributes[slug] = attribute
	}

	link := models.CategoryAttribute{CategoryID: categoryID, AttributeID: attribute.ID}
	if !p.links[link] {
		if err := p.storage.EnsureCategoryAttribute(ctx, link); err != nil {
			return nil, fmt.Errorf("can't link attribute %q: %w", slug, err)
		}
		p.links[link] = true
	}

	return attribute, nil
}

func (p *Pipeline) listingURL(categorySlug string, page int) string {
	url := p.baseURL + extractor.CatalogPrefix + categorySlug + "/"
	if page > 1 {
		url = fmt.Sprintf("%s?PAGEN_1=%d", url, page)
	}

	return url
}

func (p *Pipeline) throttle(ctx context.Context) {
	_ = p.sleep(ctx)
}

func (p *Pipeline) sleep(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.delay):
		return nil
	}
}
