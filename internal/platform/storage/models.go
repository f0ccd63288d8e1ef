package storage

import (
	"strconv"
	"strings"

	"github.com/stroymet/catalog-ingest/internal/platform/models"

	pgmodels "github.com/stroymet/catalog-ingest/internal/platform/storage/gen/postgres/public/model"
)

//go:generate make -C ../../../ generate-db

const pathSeparator = "/"

func toDBCategory(category *models.Category) *pgmodels.Category {
	dbCategory := pgmodels.Category{
		Slug:          category.Slug,
		Name:          category.Name,
		ImageURL:      category.ImageURL,
		ProductsCount: int32(category.ProductsCount),
		SortOrder:     int32(category.SortOrder),
		Level:         int32(category.Level),
		Path:          encodePath(category.Path),
		IsActive:      category.IsActive,
	}

	if category.ParentID != nil {
		parentID := int32(*category.ParentID)
		dbCategory.ParentID = &parentID
	}

	return &dbCategory
}

func toCategory(dbCategory *pgmodels.Category) models.Category {
	category := models.Category{
		ID:            int(dbCategory.ID),
		Slug:          dbCategory.Slug,
		Name:          dbCategory.Name,
		ImageURL:      dbCategory.ImageURL,
		ProductsCount: int(dbCategory.ProductsCount),
		SortOrder:     int(dbCategory.SortOrder),
		Level:         int(dbCategory.Level),
		Path:          decodePath(dbCategory.Path),
		IsActive:      dbCategory.IsActive,
		CreatedAt:     dbCategory.CreatedAt,
	}

	if dbCategory.ParentID != nil {
		parentID := int(*dbCategory.ParentID)
		category.ParentID = &parentID
	}

	return category
}

func toDBAttribute(attribute *models.Attribute) *pgmodels.Attribute {
	return &pgmodels.Attribute{
		Slug:         attribute.Slug,
		Name:         attribute.Name,
		Unit:         attribute.Unit,
		Type:         attribute.Type,
		IsFilterable: attribute.IsFilterable,
		IsSearchable: attribute.IsSearchable,
	}
}

func toAttribute(dbAttribute *pgmodels.Attribute) models.Attribute {
	return models.Attribute{
		ID:           int(dbAttribute.ID),
		Slug:         dbAttribute.Slug,
		Name:         dbAttribute.Name,
		Unit:         dbAttribute.Unit,
		Type:         dbAttribute.Type,
		IsFilterable: dbAttribute.IsFilterable,
		IsSearchable: dbAttribute.IsSearchable,
		CreatedAt:    dbAttribute.CreatedAt,
	}
}

func toDBProduct(product *models.Product) *pgmodels.Product {
	return &pgmodels.Product{
		CategoryID:       int32(product.CategoryID),
		Slug:             product.Slug,
		Name:             product.Name,
		Sku:              product.SKU,
		Description:      product.Description,
		ShortDescription: product.ShortDescription,
		MetaTitle:        product.MetaTitle,
		MetaDescription:  product.MetaDescription,
		IsActive:         product.IsActive,
		InStock:          product.InStock,
	}
}

func toProduct(dbProduct *pgmodels.Product) models.Product {
	return models.Product{
		ID:               int(dbProduct.ID),
		CategoryID:       int(dbProduct.CategoryID),
		Slug:             dbProduct.Slug,
		Name:             dbProduct.Name,
		SKU:              dbProduct.Sku,
		Description:      dbProduct.Description,
		ShortDescription: dbProduct.ShortDescription,
		MetaTitle:        dbProduct.MetaTitle,
		MetaDescription:  dbProduct.MetaDescription,
		IsActive:         dbProduct.IsActive,
		InStock:          dbProduct.InStock,
		CreatedAt:        dbProduct.CreatedAt,
	}
}

func toDBImage(image *models.ProductImage) pgmodels.ProductImage {
	return pgmodels.ProductImage{
		ProductID: int32(image.ProductID),
		URL:       image.URL,
		SourceURL: image.SourceURL,
		IsPrimary: image.IsPrimary,
		SortOrder: int32(image.SortOrder),
	}
}

func toImage(dbImage *pgmodels.ProductImage) models.ProductImage {
	return models.ProductImage{
		ID:        int(dbImage.ID),
		ProductID: int(dbImage.ProductID),
		URL:       dbImage.URL,
		SourceURL: dbImage.SourceURL,
		IsPrimary: dbImage.IsPrimary,
		SortOrder: int(dbImage.SortOrder),
	}
}

func toCheckpoint(dbCheckpoint *pgmodels.CheckpointProgress) models.Checkpoint {
	return models.Checkpoint{
		CategoryID:       int(dbCheckpoint.CategoryID),
		AttributesParsed: dbCheckpoint.AttributesParsed,
		ProductsParsed:   dbCheckpoint.ProductsParsed,
		LastPage:         int(dbCheckpoint.LastPage),
		ProductsCount:    int(dbCheckpoint.ProductsCount),
		ErrorMessage:     dbCheckpoint.ErrorMessage,
		UpdatedAt:        dbCheckpoint.UpdatedAt,
	}
}

// encodePath joins ancestor ids into the stored "1/4/9" form.
func encodePath(path []int) string {
	if len(path) == 0 {
		return ""
	}

	segments := make([]string, 0, len(path))
	for _, id := range path {
		segments = append(segments, strconv.Itoa(id))
	}

	return strings.Join(segments, pathSeparator)
}

func decodePath(encoded string) []int {
	if encoded == "" {
		return nil
	}

	segments := strings.Split(encoded, pathSeparator)
	path := make([]int, 0, len(segments))
	for _, segment := range segments {
		id, err := strconv.Atoi(segment)
		if err != nil {
			continue
		}
		path = append(path, id)
	}

	return path
}
