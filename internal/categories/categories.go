// Package categories discovers the source site's category tree and rebuilds
// the stored one from it.
package categories

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stroymet/catalog-ingest/internal/extractor"
	"github.com/stroymet/catalog-ingest/internal/platform/models"
)

// MaxDepth caps tree traversal. The source site nests five levels at most;
// anything deeper means a link cycle or broken markup.
const MaxDepth = 6

// Fetcher fetches catalog pages.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

// Storage persists the discovered category tree.
type Storage interface {
	// ReplaceCategories atomically rebuilds the category tree and its
	// checkpoint rows from parent-first ordered nodes.
	ReplaceCategories(ctx context.Context, nodes []models.CategoryNode) ([]models.Category, error)
}

// Crawler walks the category tree from the catalog root and persists it.
// Re-running always rebuilds the whole tree; there is no incremental mode.
type Crawler struct {
	fetcher Fetcher
	storage Storage
	baseURL string
	delay   time.Duration
	logger  *zerolog.Logger
}

// NewCrawler returns new Crawler.
func NewCrawler(fetcher Fetcher, storage Storage, baseURL string, delay time.Duration, logger *zerolog.Logger) *Crawler {
	return &Crawler{
		fetcher: fetcher,
		storage: storage,
		baseURL: baseURL,
		delay:   delay,
		logger:  logger,
	}
}

// workItem is one page to scan for child category cards.
type workItem struct {
	url         string
	path        string
	depth       int
	parentIndex int
}

// Run discovers the full tree and replaces the stored one with it.
// Returns the persisted categories.
func (c *Crawler) Run(ctx context.Context) ([]models.Category, error) {
	nodes, err := c.discover(ctx)
	if err != nil {
		return nil, err
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("no categories discovered at %s", c.baseURL+extractor.CatalogPrefix)
	}

	categories, err := c.storage.ReplaceCategories(ctx, nodes)
	if err != nil {
		return nil, fmt.Errorf("can't persist category tree: %w", err)
	}

	c.logger.Info().
		Int("categories", len(categories)).
		Msg("category tree rebuilt")

	return categories, nil
}

// discover walks the tree with an explicit work stack over a flat node
// arena (parent references by index), so traversal depth is bounded by
// MaxDepth and not by the call stack.
func (c *Crawler) discover(ctx context.Context) ([]models.CategoryNode, error) {
	arena := make([]models.CategoryNode, 0)
	stack := []workItem{{
		url:         c.baseURL + extractor.CatalogPrefix,
		path:        "",
		depth:       0,
		parentIndex: -1,
	}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.depth > MaxDepth {
			c.logger.Warn().
				Str("path", item.path).
				Msg("depth cap reached, subtree skipped")
			continue
		}

		c.throttle(ctx)

		html, err := c.fetcher.FetchPage(ctx, item.url)
		if err != nil {
			// A dead page hides its subtree, it doesn't fail the run.
			c.logger.Warn().
				Err(err).
				Str("url", item.url).
				Msg("can't fetch category page, subtree skipped")
			continue
		}

		cards := extractor.Categories(html, item.path, c.baseURL)
		for ix, card := range cards {
			slug := card.Slug
			if item.path != "" {
				slug = item.path + "/" + card.Slug
			}

			arena = append(arena, models.CategoryNode{
				Category: models.Category{
					Slug:          slug,
					Name:          card.Name,
					ImageURL:      card.ImageURL,
					ProductsCount: card.ProductsCount,
					SortOrder:     ix,
					Level:         item.depth,
					IsActive:      true,
				},
				ParentIndex: item.parentIndex,
			})

			stack = append(stack, workItem{
				url:         card.URL,
				path:        slug,
				depth:       item.depth + 1,
				parentIndex: len(arena) - 1,
			})
		}
	}

	return arena, nil
}

func (c *Crawler) throttle(ctx context.Context) {
	if c.delay <= 0 {
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(c.delay):
	}
}
