package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stroymet/catalog-ingest/internal/platform/models"
	"github.com/stroymet/catalog-ingest/internal/platform/storage/gen/postgres/public/table"

	pgmodels "github.com/stroymet/catalog-ingest/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
)

// ExistingProductSlugs returns the subset of slugs that are already stored,
// in a single batched query.
func (p Postgres) ExistingProductSlugs(ctx context.Context, slugs []string) (map[string]bool, error) {
	if len(slugs) == 0 {
		return map[string]bool{}, nil
	}

	expressions := make([]pg.Expression, 0, len(slugs))
	for _, slug := range slugs {
		expressions = append(expressions, pg.String(slug))
	}

	var dbProducts []pgmodels.Product
	err := table.Product.SELECT(table.Product.Slug).
		WHERE(table.Product.Slug.IN(expressions...)).
		QueryContext(ctx, p.db, &dbProducts)
	if err != nil {
		return nil, fmt.Errorf("can't get existing product slugs: %w", err)
	}

	existing := make(map[string]bool, len(dbProducts))
	for ix := range dbProducts {
		existing[dbProducts[ix].Slug] = true
	}

	return existing, nil
}

// InsertProducts inserts a deduplicated batch of new products together with
// their images in one transaction and returns the products with assigned ids.
// Attribute values are persisted separately via InsertProductValues once
// attribute ids are resolved.
func (p Postgres) InsertProducts(ctx context.Context, products []models.Product) ([]models.Product, error) {
	if len(products) == 0 {
		return nil, nil
	}

	inserted := make([]models.Product, 0, len(products))

	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		dbProducts := make([]pgmodels.Product, 0, len(products))
		for ix := range products {
			dbProducts = append(dbProducts, *toDBProduct(&products[ix]))
		}

		var returned []pgmodels.Product
		err := table.Product.INSERT(table.Product.MutableColumns.Except(table.Product.CreatedAt)).
			MODELS(dbProducts).
			RETURNING(table.Product.ID, table.Product.Slug).
			QueryContext(ctx, tx, &returned)
		if err != nil {
			return fmt.Errorf("can't insert products: %w", err)
		}

		idsBySlug := make(map[string]int, len(returned))
		for ix := range returned {
			idsBySlug[returned[ix].Slug] = int(returned[ix].ID)
		}

		dbImages := make([]pgmodels.ProductImage, 0, len(products))
		for ix := range products {
			product := products[ix]
			product.ID = idsBySlug[product.Slug]

			for imgIx := range product.Images {
				product.Images[imgIx].ProductID = product.ID
				dbImages = append(dbImages, toDBImage(&product.Images[imgIx]))
			}

			inserted = append(inserted, product)
		}

		if len(dbImages) == 0 {
			return nil
		}

		_, err = table.ProductImage.INSERT(table.ProductImage.MutableColumns).
			MODELS(dbImages).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't insert product images: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return inserted, nil
}

// InsertProductValues inserts resolved attribute values in one batch.
func (p Postgres) InsertProductValues(ctx context.Context, values []models.ProductValue) error {
	if len(values) == 0 {
		return nil
	}

	dbValues := make([]pgmodels.ProductAttribute, 0, len(values))
	for ix := range values {
		dbValues = append(dbValues, pgmodels.ProductAttribute{
			ProductID:   int32(values[ix].ProductID),
			AttributeID: int32(values[ix].AttributeID),
			ValueText:   values[ix].ValueText,
			ValueNumber: values[ix].ValueNumber,
		})
	}

	_, err := table.ProductAttribute.INSERT(table.ProductAttribute.MutableColumns).
		MODELS(dbValues).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't insert product attribute values: %w", err)
	}

	return nil
}

// ProductsAfter returns up to limit products with id greater than afterID,
// ordered by id. Keyset pagination keeps long batch jobs stable when the
// product set grows while they run.
func (p Postgres) ProductsAfter(ctx context.Context, afterID int, limit int) ([]models.Product, error) {
	var dbProducts []pgmodels.Product
	err := table.Product.SELECT(table.Product.AllColumns).
		WHERE(table.Product.ID.GT(pg.Int32(int32(afterID)))).
		ORDER_BY(table.Product.ID.ASC()).
		LIMIT(int64(limit)).
		QueryContext(ctx, p.db, &dbProducts)
	if err != nil {
		return nil, fmt.Errorf("can't get products after id %d: %w", afterID, err)
	}

	products := make([]models.Product, 0, len(dbProducts))
	for ix := range dbProducts {
		products = append(products, toProduct(&dbProducts[ix]))
	}

	return products, nil
}

// ValuesForProducts returns attribute values with their definition names and
// units for the given products, grouped by product id.
func (p Postgres) ValuesForProducts(ctx context.Context, productIDs []int) (map[int][]models.ProductValue, error) {
	if len(productIDs) == 0 {
		return map[int][]models.ProductValue{}, nil
	}

	ids := make([]pg.Expression, 0, len(productIDs))
	for _, id := range productIDs {
		ids = append(ids, pg.Int32(int32(id)))
	}

	var rows []struct {
		pgmodels.ProductAttribute
		Attribute pgmodels.Attribute
	}
	err := pg.SELECT(
		table.ProductAttribute.AllColumns,
		table.Attribute.AllColumns,
	).
		FROM(table.ProductAttribute.
			INNER_JOIN(table.Attribute, table.Attribute.ID.EQ(table.ProductAttribute.AttributeID))).
		WHERE(table.ProductAttribute.ProductID.IN(ids...)).
		ORDER_BY(table.ProductAttribute.ProductID.ASC(), table.ProductAttribute.ID.ASC()).
		QueryContext(ctx, p.db, &rows)
	if err != nil {
		return nil, fmt.Errorf("can't get product attribute values: %w", err)
	}

	values := make(map[int][]models.ProductValue, len(productIDs))
	for ix := range rows {
		productID := int(rows[ix].ProductAttribute.ProductID)
		values[productID] = append(values[productID], models.ProductValue{
			ProductID:   productID,
			AttributeID: int(rows[ix].ProductAttribute.AttributeID),
			Name:        rows[ix].Attribute.Name,
			Unit:        rows[ix].Attribute.Unit,
			ValueText:   rows[ix].ProductAttribute.ValueText,
			ValueNumber: rows[ix].ProductAttribute.ValueNumber,
		})
	}

	return values, nil
}

// UpdateProductSEO stores generated meta and description texts for a product.
func (p Postgres) UpdateProductSEO(ctx context.Context, product models.Product) error {
	_, err := table.Product.UPDATE(
		table.Product.MetaTitle,
		table.Product.MetaDescription,
		table.Product.Description,
		table.Product.ShortDescription,
	).
		MODEL(toDBProduct(&product)).
		WHERE(table.Product.ID.EQ(pg.Int32(int32(product.ID)))).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't update product seo fields: %w", err)
	}

	return nil
}

// ProductImages returns every product image row ordered by id.
func (p Postgres) ProductImages(ctx context.Context) ([]models.ProductImage, error) {
	var dbImages []pgmodels.ProductImage
	err := table.ProductImage.SELECT(table.ProductImage.AllColumns).
		ORDER_BY(table.ProductImage.ID.ASC()).
		QueryContext(ctx, p.db, &dbImages)
	if err != nil {
		return nil, fmt.Errorf("can't get product images: %w", err)
	}

	images := make([]models.ProductImage, 0, len(dbImages))
	for ix := range dbImages {
		images = append(images, toImage(&dbImages[ix]))
	}

	return images, nil
}

// ImagesByURLSubstring returns up to limit image rows whose current url still
// contains needle, with id greater than afterID, ordered by id.
func (p Postgres) ImagesByURLSubstring(ctx context.Context, needle string, afterID int, limit int) ([]models.ProductImage, error) {
	var dbImages []pgmodels.ProductImage
	err := table.ProductImage.SELECT(table.ProductImage.AllColumns).
		WHERE(pg.AND(
			table.ProductImage.URL.LIKE(pg.String("%"+needle+"%")),
			table.ProductImage.ID.GT(pg.Int32(int32(afterID))),
		)).
		ORDER_BY(table.ProductImage.ID.ASC()).
		LIMIT(int64(limit)).
		QueryContext(ctx, p.db, &dbImages)
	if err != nil {
		return nil, fmt.Errorf("can't get images by url: %w", err)
	}

	images := make([]models.ProductImage, 0, len(dbImages))
	for ix := range dbImages {
		images = append(images, toImage(&dbImages[ix]))
	}

	return images, nil
}

// UpdateImageURL points an image row at its storage-backed url.
func (p Postgres) UpdateImageURL(ctx context.Context, imageID int, url string) error {
	_, err := table.ProductImage.UPDATE(table.ProductImage.URL).
		SET(pg.String(url)).
		WHERE(table.ProductImage.ID.EQ(pg.Int32(int32(imageID)))).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't update image url: %w", err)
	}

	return nil
}
