// Package uniquifier generates unique SEO texts for stored products:
// meta title, meta description, short and long descriptions. Generation is
// deterministic per product, so re-runs rewrite the same texts instead of
// churning them.
package uniquifier

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/stroymet/catalog-ingest/internal/platform/models"
	"golang.org/x/sync/errgroup"
)

// DrySampleSize is how many products a dry run renders.
const DrySampleSize = 10

// Storage reads products and writes generated texts back.
type Storage interface {
	AllCategories(ctx context.Context) ([]models.Category, error)
	ProductsAfter(ctx context.Context, afterID int, limit int) ([]models.Product, error)
	ValuesForProducts(ctx context.Context, productIDs []int) (map[int][]models.ProductValue, error)
	UpdateProductSEO(ctx context.Context, product models.Product) error
}

// Uniquifier rewrites SEO texts for the whole catalog in keyset batches.
type Uniquifier struct {
	storage     Storage
	batchSize   int
	concurrency int
	dryRun      bool
	logger      *zerolog.Logger
}

// NewUniquifier returns new Uniquifier. With dryRun set, Run renders a small
// sample to the log and writes nothing.
func NewUniquifier(storage Storage, batchSize int, concurrency int, dryRun bool, logger *zerolog.Logger) *Uniquifier {
	if batchSize < 1 {
		batchSize = 100
	}
	if concurrency < 1 {
		concurrency = 1
	}

	return &Uniquifier{
		storage:     storage,
		batchSize:   batchSize,
		concurrency: concurrency,
		dryRun:      dryRun,
		logger:      logger,
	}
}

// Run processes every product once, in id order.
func (u *Uniquifier) Run(ctx context.Context) error {
	families, err := u.categoryFamilies(ctx)
	if err != nil {
		return err
	}

	limit := u.batchSize
	if u.dryRun && limit > DrySampleSize {
		limit = DrySampleSize
	}

	afterID := 0
	updated := 0

	for {
		products, err := u.storage.ProductsAfter(ctx, afterID, limit)
		if err != nil {
			return fmt.Errorf("can't load products after id %d: %w", afterID, err)
		}
		if len(products) == 0 {
			break
		}

		if err := u.processBatch(ctx, products, families); err != nil {
			return err
		}

		afterID = products[len(products)-1].ID
		updated += len(products)

		u.logger.Debug().
			Int("after_id", afterID).
			Int("updated", updated).
			Msg("batch done")

		if u.dryRun {
			return nil
		}
	}

	u.logger.Info().
		Int("products", updated).
		Msg("seo texts rewritten")

	return nil
}

func (u *Uniquifier) processBatch(ctx context.Context, products []models.Product, families map[int]string) error {
	ids := make([]int, len(products))
	for ix, product := range products {
		ids[ix] = product.ID
	}

	values, err := u.storage.ValuesForProducts(ctx, ids)
	if err != nil {
		return fmt.Errorf("can't load attribute values: %w", err)
	}

	var next atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)

	workers := u.concurrency
	if workers > len(products) {
		workers = len(products)
	}

	for worker := 0; worker < workers; worker++ {
		group.Go(func() error {
			for {
				ix := int(next.Add(1)) - 1
				if ix >= len(products) {
					return nil
				}

				product := products[ix]
				family := families[product.CategoryID]
				productValues := values[product.ID]

				product.MetaTitle = MetaTitle(product)
				product.MetaDescription = MetaDescription(product, productValues)
				product.ShortDescription = ShortDescription(product, productValues)
				product.Description = Description(product, productValues, family)

				if u.dryRun {
					u.logger.Info().
						Int("product_id", product.ID).
						Str("meta_title", product.MetaTitle).
						Str("meta_description", product.MetaDescription).
						Str("short_description", product.ShortDescription).
						Msg("dry run sample")
					continue
				}

				if err := u.storage.UpdateProductSEO(groupCtx, product); err != nil {
					return fmt.Errorf("can't update product %d: %w", product.ID, err)
				}
			}
		})
	}

	return group.Wait()
}

// categoryFamilies maps every category id to its text family, derived from
// the root segment of the category's slug.
func (u *Uniquifier) categoryFamilies(ctx context.Context) (map[int]string, error) {
	categories, err := u.storage.AllCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't load categories: %w", err)
	}

	families := make(map[int]string, len(categories))
	for _, category := range categories {
		families[category.ID] = familyOf(category.Slug)
	}

	return families, nil
}

func familyOf(slug string) string {
	root := slug
	if ix := strings.Index(slug, "/"); ix > 0 {
		root = slug[:ix]
	}

	switch root {
	case familyFasteners, familyTools:
		return root
	default:
		return familyGeneric
	}
}
