package storagetesting

import (
	"database/sql"
	"errors"
	"os"
	"testing"

	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	pgmodels "github.com/stroymet/catalog-ingest/internal/platform/storage/gen/postgres/public/model"
	"github.com/stroymet/catalog-ingest/internal/platform/storage/gen/postgres/public/table"

	_ "github.com/lib/pq"
)

// Open opens connection to DB.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("please provide database URL via DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	return db
}

// InsertCategories is a helper test function to insert categories.
func InsertCategories(t *testing.T, exc qrm.Executable, categories ...pgmodels.Category) {
	t.Helper()

	if len(categories) == 0 {
		return
	}

	_, err := table.Category.INSERT(table.Category.AllColumns.Except(table.Category.CreatedAt)).
		MODELS(categories).
		Exec(exc)
	if err != nil {
		t.Fatal("can't insert categories", err)
	}
}

// InsertCheckpoints is a helper test function to insert checkpoint rows.
func InsertCheckpoints(t *testing.T, exc qrm.Executable, checkpoints ...pgmodels.CheckpointProgress) {
	t.Helper()

	if len(checkpoints) == 0 {
		return
	}

	_, err := table.CheckpointProgress.INSERT(table.CheckpointProgress.AllColumns.Except(table.CheckpointProgress.UpdatedAt)).
		MODELS(checkpoints).
		Exec(exc)
	if err != nil {
		t.Fatal("can't insert checkpoints", err)
	}
}

// GetCategories is a helper test function to get all categories.
func GetCategories(t *testing.T, queryable qrm.Queryable) []pgmodels.Category {
	t.Helper()

	categories := []pgmodels.Category{}
	err := table.Category.SELECT(table.Category.AllColumns).
		ORDER_BY(table.Category.ID.ASC()).
		Query(queryable, &categories)
	if err != nil {
		t.Fatal("can't get categories", err)
	}

	return categories
}

// GetCheckpoint is a helper test function to get one checkpoint row.
func GetCheckpoint(t *testing.T, queryable qrm.Queryable, categoryID int) *pgmodels.CheckpointProgress {
	t.Helper()

	var checkpoint pgmodels.CheckpointProgress
	err := table.CheckpointProgress.SELECT(table.CheckpointProgress.AllColumns).
		WHERE(table.CheckpointProgress.CategoryID.EQ(pg.Int32(int32(categoryID)))).
		Query(queryable, &checkpoint)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil
	}
	if err != nil {
		t.Fatal("can't get checkpoint", err)
	}

	return &checkpoint
}

// GetProducts is a helper test function to get all products.
func GetProducts(t *testing.T, queryable qrm.Queryable) []pgmodels.Product {
	t.Helper()

	products := []pgmodels.Product{}
	err := table.Product.SELECT(table.Product.AllColumns).
		ORDER_BY(table.Product.ID.ASC()).
		Query(queryable, &products)
	if err != nil {
		t.Fatal("can't get products", err)
	}

	return products
}

// GetProductImages is a helper test function to get all images of a product.
func GetProductImages(t *testing.T, queryable qrm.Queryable, productID int) []pgmodels.ProductImage {
	t.Helper()

	images := []pgmodels.ProductImage{}
	err := table.ProductImage.SELECT(table.ProductImage.AllColumns).
		WHERE(table.ProductImage.ProductID.EQ(pg.Int32(int32(productID)))).
		ORDER_BY(table.ProductImage.SortOrder.ASC()).
		Query(queryable, &images)
	if err != nil {
		t.Fatal("can't get product images", err)
	}

	return images
}

// GetProductValues is a helper test function to get all values of a product.
func GetProductValues(t *testing.T, queryable qrm.Queryable, productID int) []pgmodels.ProductAttribute {
	t.Helper()

	values := []pgmodels.ProductAttribute{}
	err := table.ProductAttribute.SELECT(table.ProductAttribute.AllColumns).
		WHERE(table.ProductAttribute.ProductID.EQ(pg.Int32(int32(productID)))).
		Query(queryable, &values)
	if err != nil {
		t.Fatal("can't get product values", err)
	}

	return values
}

// GetCategoryAttributes is a helper test function to get a category's
// attribute links.
func GetCategoryAttributes(t *testing.T, queryable qrm.Queryable, categoryID int) []pgmodels.CategoryAttribute {
	t.Helper()

	links := []pgmodels.CategoryAttribute{}
	err := table.CategoryAttribute.SELECT(table.CategoryAttribute.AllColumns).
		WHERE(table.CategoryAttribute.CategoryID.EQ(pg.Int32(int32(categoryID)))).
		ORDER_BY(table.CategoryAttribute.SortOrder.ASC()).
		Query(queryable, &links)
	if err != nil {
		t.Fatal("can't get category attributes", err)
	}

	return links
}

// CleanupData deletes all catalog data in dependency order.
func CleanupData(t *testing.T, exc qrm.Executable) {
	t.Helper()

	deletions := []struct {
		name string
		run  func() (sql.Result, error)
	}{
		{"product attributes", func() (sql.Result, error) {
			return table.ProductAttribute.DELETE().WHERE(table.ProductAttribute.ID.IS_NOT_NULL()).Exec(exc)
		}},
		{"product images", func() (sql.Result, error) {
			return table.ProductImage.DELETE().WHERE(table.ProductImage.ID.IS_NOT_NULL()).Exec(exc)
		}},
		{"products", func() (sql.Result, error) {
			return table.Product.DELETE().WHERE(table.Product.ID.IS_NOT_NULL()).Exec(exc)
		}},
		{"category attributes", func() (sql.Result, error) {
			return table.CategoryAttribute.DELETE().WHERE(table.CategoryAttribute.ID.IS_NOT_NULL()).Exec(exc)
		}},
		{"attributes", func() (sql.Result, error) {
			return table.Attribute.DELETE().WHERE(table.Attribute.ID.IS_NOT_NULL()).Exec(exc)
		}},
		{"checkpoints", func() (sql.Result, error) {
			return table.CheckpointProgress.DELETE().WHERE(table.CheckpointProgress.CategoryID.IS_NOT_NULL()).Exec(exc)
		}},
		{"categories", func() (sql.Result, error) {
			return table.Category.DELETE().WHERE(table.Category.ID.IS_NOT_NULL()).Exec(exc)
		}},
	}

	for _, deletion := range deletions {
		if _, err := deletion.run(); err != nil {
			t.Fatalf("can't delete %s: %s", deletion.name, err)
		}
	}
}
