package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/samber/lo"
	"github.com/stroymet/catalog-ingest/internal/platform"
	"github.com/stroymet/catalog-ingest/internal/platform/models"
	"github.com/stroymet/catalog-ingest/internal/platform/storage/gen/postgres/public/table"

	pgmodels "github.com/stroymet/catalog-ingest/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
)

// Pending flag kinds for PendingCheckpoints.
const (
	PendingAttributes = "attributes"
	PendingProducts   = "products"
)

// PendingAttributeCheckpoints returns checkpoints of categories whose
// attributes haven't been parsed yet.
func (p Postgres) PendingAttributeCheckpoints(ctx context.Context) ([]models.Checkpoint, error) {
	return p.PendingCheckpoints(ctx, PendingAttributes)
}

// PendingProductCheckpoints returns checkpoints of categories whose products
// haven't been parsed yet.
func (p Postgres) PendingProductCheckpoints(ctx context.Context) ([]models.Checkpoint, error) {
	return p.PendingCheckpoints(ctx, PendingProducts)
}

// PendingCheckpoints returns checkpoints whose flag for the given kind is
// still false, ordered by category id, with the category slug attached.
func (p Postgres) PendingCheckpoints(ctx context.Context, kind string) ([]models.Checkpoint, error) {
	flag := table.CheckpointProgress.AttributesParsed
	if kind == PendingProducts {
		flag = table.CheckpointProgress.ProductsParsed
	}

	var dbCheckpoints []pgmodels.CheckpointProgress
	err := table.CheckpointProgress.SELECT(table.CheckpointProgress.AllColumns).
		WHERE(flag.IS_FALSE()).
		ORDER_BY(table.CheckpointProgress.CategoryID.ASC()).
		QueryContext(ctx, p.db, &dbCheckpoints)
	if err != nil {
		return nil, fmt.Errorf("can't get pending checkpoints: %w", err)
	}

	if len(dbCheckpoints) == 0 {
		return nil, nil
	}

	slugs, err := p.categorySlugs(ctx, dbCheckpoints)
	if err != nil {
		return nil, err
	}

	checkpoints := make([]models.Checkpoint, 0, len(dbCheckpoints))
	for ix := range dbCheckpoints {
		checkpoint := toCheckpoint(&dbCheckpoints[ix])
		checkpoint.CategorySlug = slugs[checkpoint.CategoryID]
		checkpoints = append(checkpoints, checkpoint)
	}

	return checkpoints, nil
}

// SaveProgress commits a category's page progress. LastPage never decreases:
// an update with a smaller page number than the stored one is rejected.
// A successful save clears any recorded error.
func (p Postgres) SaveProgress(ctx context.Context, categoryID int, lastPage int, productsCount int) error {
	result, err := table.CheckpointProgress.UPDATE(
		table.CheckpointProgress.LastPage,
		table.CheckpointProgress.ProductsCount,
		table.CheckpointProgress.ErrorMessage,
		table.CheckpointProgress.UpdatedAt,
	).
		MODEL(pgmodels.CheckpointProgress{
			LastPage:      int32(lastPage),
			ProductsCount: int32(productsCount),
			UpdatedAt:     time.Now().UTC(),
		}).
		WHERE(pg.AND(
			table.CheckpointProgress.CategoryID.EQ(pg.Int32(int32(categoryID))),
			table.CheckpointProgress.LastPage.LT_EQ(pg.Int32(int32(lastPage))),
		)).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't save progress: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't check update result: %w", err)
	}
	if rowsAffected == 0 {
		// Zero rows means either the row is missing or the stored page is
		// already ahead; stale progress is dropped silently.
		return p.checkpointExists(ctx, categoryID)
	}

	return nil
}

func (p Postgres) checkpointExists(ctx context.Context, categoryID int) error {
	var dbCheckpoint pgmodels.CheckpointProgress
	err := table.CheckpointProgress.SELECT(table.CheckpointProgress.CategoryID).
		WHERE(table.CheckpointProgress.CategoryID.EQ(pg.Int32(int32(categoryID)))).
		QueryContext(ctx, p.db, &dbCheckpoint)
	if errors.Is(err, qrm.ErrNoRows) {
		return platform.ErrCheckpointMissing
	}
	if err != nil {
		return fmt.Errorf("can't check checkpoint: %w", err)
	}

	return nil
}

// MarkAttributesParsed flips the attributes flag and clears any error.
func (p Postgres) MarkAttributesParsed(ctx context.Context, categoryID int) error {
	return p.markParsed(ctx, categoryID, table.CheckpointProgress.AttributesParsed)
}

// MarkProductsParsed flips the products flag and clears any error.
func (p Postgres) MarkProductsParsed(ctx context.Context, categoryID int) error {
	return p.markParsed(ctx, categoryID, table.CheckpointProgress.ProductsParsed)
}

// RecordError stores the failure message on a category's checkpoint without
// touching its flags, leaving the category eligible for the next run.
func (p Postgres) RecordError(ctx context.Context, categoryID int, message string) error {
	result, err := table.CheckpointProgress.UPDATE(
		table.CheckpointProgress.ErrorMessage,
		table.CheckpointProgress.UpdatedAt,
	).
		MODEL(pgmodels.CheckpointProgress{
			ErrorMessage: lo.ToPtr(message),
			UpdatedAt:    time.Now().UTC(),
		}).
		WHERE(table.CheckpointProgress.CategoryID.EQ(pg.Int32(int32(categoryID)))).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't record error: %w", err)
	}

	return checkUpdated(result, platform.ErrCheckpointMissing)
}

// Checkpoint returns a single category's checkpoint row.
func (p Postgres) Checkpoint(ctx context.Context, categoryID int) (*models.Checkpoint, error) {
	var dbCheckpoint pgmodels.CheckpointProgress
	err := table.CheckpointProgress.SELECT(table.CheckpointProgress.AllColumns).
		WHERE(table.CheckpointProgress.CategoryID.EQ(pg.Int32(int32(categoryID)))).
		QueryContext(ctx, p.db, &dbCheckpoint)
	if err != nil {
		return nil, fmt.Errorf("can't get checkpoint: %w", err)
	}

	checkpoint := toCheckpoint(&dbCheckpoint)
	return &checkpoint, nil
}

func (p Postgres) markParsed(ctx context.Context, categoryID int, flag pg.ColumnBool) error {
	result, err := table.CheckpointProgress.UPDATE(
		flag,
		table.CheckpointProgress.ErrorMessage,
		table.CheckpointProgress.UpdatedAt,
	).
		SET(
			pg.Bool(true),
			pg.NULL,
			pg.TimestampzT(time.Now().UTC()),
		).
		WHERE(table.CheckpointProgress.CategoryID.EQ(pg.Int32(int32(categoryID)))).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't mark category parsed: %w", err)
	}

	return checkUpdated(result, platform.ErrCheckpointMissing)
}

func (p Postgres) categorySlugs(ctx context.Context, dbCheckpoints []pgmodels.CheckpointProgress) (map[int]string, error) {
	ids := make([]pg.Expression, 0, len(dbCheckpoints))
	for ix := range dbCheckpoints {
		ids = append(ids, pg.Int32(dbCheckpoints[ix].CategoryID))
	}

	var dbCategories []pgmodels.Category
	err := table.Category.SELECT(table.Category.ID, table.Category.Slug).
		WHERE(table.Category.ID.IN(ids...)).
		QueryContext(ctx, p.db, &dbCategories)
	if err != nil {
		return nil, fmt.Errorf("can't get checkpoint categories: %w", err)
	}

	slugs := make(map[int]string, len(dbCategories))
	for ix := range dbCategories {
		slugs[int(dbCategories[ix].ID)] = dbCategories[ix].Slug
	}

	return slugs, nil
}

func checkUpdated(result interface{ RowsAffected() (int64, error) }, missing error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't check update result: %w", err)
	}

	if rowsAffected == 0 {
		return missing
	}

	return nil
}
