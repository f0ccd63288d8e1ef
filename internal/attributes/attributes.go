// Package attributes ingests filter attribute definitions from category
// listing pages and links them to their categories.
package attributes

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stroymet/catalog-ingest/internal/extractor"
	"github.com/stroymet/catalog-ingest/internal/platform/models"
	"github.com/stroymet/catalog-ingest/internal/slugify"
)

// Fetcher fetches catalog pages.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

// Storage persists attribute definitions and per-category progress.
type Storage interface {
	PendingAttributeCheckpoints(ctx context.Context) ([]models.Checkpoint, error)
	GetOrCreateAttribute(ctx context.Context, attribute models.Attribute) (*models.Attribute, error)
	EnsureCategoryAttribute(ctx context.Context, link models.CategoryAttribute) error
	MarkAttributesParsed(ctx context.Context, categoryID int) error
	RecordError(ctx context.Context, categoryID int, message string) error
}

// Pipeline scans the filter panel of every category that hasn't been scanned
// yet. Attribute definitions are shared across categories, so a run keeps a
// cache of definitions it already resolved and only hits the database once
// per distinct attribute.
type Pipeline struct {
	fetcher Fetcher
	storage Storage
	baseURL string
	delay   time.Duration
	logger  *zerolog.Logger

	cache map[string]*models.Attribute
}

// NewPipeline returns new Pipeline.
func NewPipeline(fetcher Fetcher, storage Storage, baseURL string, delay time.Duration, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		storage: storage,
		baseURL: baseURL,
		delay:   delay,
		logger:  logger,
		cache:   make(map[string]*models.Attribute),
	}
}

// Run processes every pending category. A failing category is recorded on
// its checkpoint and does not stop the others.
func (p *Pipeline) Run(ctx context.Context) error {
	checkpoints, err := p.storage.PendingAttributeCheckpoints(ctx)
	if err != nil {
		return fmt.Errorf("can't list pending checkpoints: %w", err)
	}

	p.logger.Info().
		Int("categories", len(checkpoints)).
		Msg("attribute ingestion started")

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
				Msg("category attributes failed")

			if recErr := p.storage.RecordError(ctx, checkpoint.CategoryID, err.Error()); recErr != nil {
				p.logger.Error().Err(recErr).Msg("can't record checkpoint error")
			}
		}
	}

	p.logger.Info().
		Int("failed", failed).
		Int("attributes", len(p.cache)).
		Msg("attribute ingestion finished")

	return nil
}

func (p *Pipeline) processCategory(ctx context.Context, checkpoint models.Checkpoint) error {
	p.throttle(ctx)

	url := p.baseURL + extractor.CatalogPrefix + checkpoint.CategorySlug + "/"
	html, err := p.fetcher.FetchPage(ctx, url)
	if err != nil {
		return fmt.Errorf("can't fetch listing page: %w", err)
	}

	filters := extractor.Filters(html)
	for ix, filter := range filters {
		attribute, err := p.resolveAttribute(ctx, filter)
		if err != nil {
			return err
		}

		err = p.storage.EnsureCategoryAttribute(ctx, models.CategoryAttribute{
			CategoryID:  checkpoint.CategoryID,
			AttributeID: attribute.ID,
			SortOrder:   ix,
		})
		if err != nil {
			return fmt.Errorf("can't link attribute %q: %w", attribute.Slug, err)
		}
	}

	if err := p.storage.MarkAttributesParsed(ctx, checkpoint.CategoryID); err != nil {
		return fmt.Errorf("can't mark checkpoint: %w", err)
	}

	p.logger.Debug().
		Str("category", checkpoint.CategorySlug).
		Int("filters", len(filters)).
		Msg("category attributes parsed")

	return nil
}

// resolveAttribute returns the stored definition for a filter, creating it
// on first sight. The filter's own slug wins when the panel provides one;
// otherwise the transliterated caption is used.
func (p *Pipeline) resolveAttribute(ctx context.Context, filter extractor.Attribute) (*models.Attribute, error) {
	slug := filter.Slug
	if slug == "" {
		slug = slugify.Transliterate(filter.Name)
	}

	if attribute, ok := p.cache[slug]; ok {
		return attribute, nil
	}

	attribute, err := p.storage.GetOrCreateAttribute(ctx, models.Attribute{
		Slug:         slug,
		Name:         filter.Name,
		Unit:         filter.Unit,
		Type:         inferType(filter.Values),
		IsFilterable: true,
	})
	if err != nil {
		return nil, fmt.Errorf("can't resolve attribute %q: %w", slug, err)
	}

	p.cache[slug] = attribute

	return attribute, nil
}

// inferType classifies an attribute by its filter values: mostly numeric
// values make a numeric attribute, anything else stays textual.
func inferType(values []string) string {
	if slugify.MostlyNumeric(values) {
		return models.AttributeTypeNumber
	}

	return models.AttributeTypeText
}

func (p *Pipeline) throttle(ctx context.Context) {
	if p.delay <= 0 {
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(p.delay):
	}
}
