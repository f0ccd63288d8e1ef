package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/stroymet/catalog-ingest/internal/platform"
	"github.com/stroymet/catalog-ingest/internal/platform/models"
	"github.com/stroymet/catalog-ingest/internal/platform/storage/gen/postgres/public/table"

	pgmodels "github.com/stroymet/catalog-ingest/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
)

// GetOrCreateAttribute returns the attribute with the given slug, inserting
// it when absent. Two concurrent creators may race on the unique slug
// constraint; the loser recovers by re-querying. The attribute's declared
// type is fixed at first creation and left untouched for existing rows.
func (p Postgres) GetOrCreateAttribute(ctx context.Context, attribute models.Attribute) (*models.Attribute, error) {
	existing, err := p.attributeBySlug(ctx, attribute.Slug)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("can't get attribute %q: %w", attribute.Slug, err)
	}

	dbAttribute := toDBAttribute(&attribute)
	insertErr := table.Attribute.INSERT(table.Attribute.MutableColumns.Except(table.Attribute.CreatedAt)).
		MODEL(dbAttribute).
		RETURNING(table.Attribute.AllColumns).
		QueryContext(ctx, p.db, dbAttribute)
	if insertErr == nil {
		created := toAttribute(dbAttribute)
		return &created, nil
	}

	if !isUniqueViolation(insertErr) {
		return nil, fmt.Errorf("can't insert attribute %q: %w", attribute.Slug, insertErr)
	}

	existing, err = p.attributeBySlug(ctx, attribute.Slug)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", platform.ErrAttributeConflict, attribute.Slug)
	}
	if err != nil {
		return nil, fmt.Errorf("can't get conflicting attribute %q: %w", attribute.Slug, err)
	}

	return existing, nil
}

// EnsureCategoryAttribute links an attribute to a category's filter set if
// the link doesn't exist yet. Idempotent; a concurrent insert of the same
// pair is tolerated.
func (p Postgres) EnsureCategoryAttribute(ctx context.Context, link models.CategoryAttribute) error {
	var existing pgmodels.CategoryAttribute
	err := table.CategoryAttribute.SELECT(table.CategoryAttribute.ID).
		WHERE(pg.AND(
			table.CategoryAttribute.CategoryID.EQ(pg.Int32(int32(link.CategoryID))),
			table.CategoryAttribute.AttributeID.EQ(pg.Int32(int32(link.AttributeID))),
		)).
		QueryContext(ctx, p.db, &existing)
	if err == nil {
		return nil
	}
	if !errors.Is(err, qrm.ErrNoRows) {
		return fmt.Errorf("can't get category attribute link: %w", err)
	}

	_, err = table.CategoryAttribute.INSERT(table.CategoryAttribute.MutableColumns).
		MODEL(pgmodels.CategoryAttribute{
			CategoryID:  int32(link.CategoryID),
			AttributeID: int32(link.AttributeID),
			IsRequired:  link.IsRequired,
			SortOrder:   int32(link.SortOrder),
		}).
		ExecContext(ctx, p.db)
	if err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("can't insert category attribute link: %w", err)
	}

	return nil
}

func (p Postgres) attributeBySlug(ctx context.Context, slug string) (*models.Attribute, error) {
	var dbAttribute pgmodels.Attribute
	err := table.Attribute.SELECT(table.Attribute.AllColumns).
		WHERE(table.Attribute.Slug.EQ(pg.String(slug))).
		QueryContext(ctx, p.db, &dbAttribute)
	if err != nil {
		return nil, err
	}

	attribute := toAttribute(&dbAttribute)
	return &attribute, nil
}
