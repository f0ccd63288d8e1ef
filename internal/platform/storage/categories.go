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

// ReplaceCategories atomically rebuilds the whole category tree: every
// existing category (and, through cascades, its checkpoint) is removed, then
// nodes are inserted in their depth-first order so a parent id is always known
// before its children need it. A fresh checkpoint row is created per category.
//
// nodes must be depth-first ordered with parent references by slice index.
func (p Postgres) ReplaceCategories(ctx context.Context, nodes []models.CategoryNode) ([]models.Category, error) {
	inserted := make([]models.Category, 0, len(nodes))

	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		_, err := table.Category.DELETE().
			WHERE(pg.Bool(true)).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't clear categories: %w", err)
		}

		for ix := range nodes {
			node := nodes[ix]
			category := node.Category

			if node.ParentIndex >= 0 {
				parent := inserted[node.ParentIndex]
				category.ParentID = &parent.ID
				category.Path = append(append([]int{}, parent.Path...), parent.ID)
			}

			dbCategory := toDBCategory(&category)
			err := table.Category.INSERT(table.Category.MutableColumns.Except(table.Category.CreatedAt)).
				MODEL(dbCategory).
				RETURNING(table.Category.ID, table.Category.CreatedAt).
				QueryContext(ctx, tx, dbCategory)
			if err != nil {
				return fmt.Errorf("can't insert category %q: %w", category.Slug, err)
			}

			category.ID = int(dbCategory.ID)
			category.CreatedAt = dbCategory.CreatedAt
			inserted = append(inserted, category)
		}

		checkpoints := make([]pgmodels.CheckpointProgress, 0, len(inserted))
		for ix := range inserted {
			checkpoints = append(checkpoints, pgmodels.CheckpointProgress{
				CategoryID: int32(inserted[ix].ID),
			})
		}

		if len(checkpoints) == 0 {
			return nil
		}

		_, err = table.CheckpointProgress.INSERT(table.CheckpointProgress.CategoryID).
			MODELS(checkpoints).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't insert checkpoints: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't replace categories: %w", err)
	}

	return inserted, nil
}

// AllCategories returns every category ordered by id.
func (p Postgres) AllCategories(ctx context.Context) ([]models.Category, error) {
	var dbCategories []pgmodels.Category
	err := table.Category.SELECT(table.Category.AllColumns).
		ORDER_BY(table.Category.ID.ASC()).
		QueryContext(ctx, p.db, &dbCategories)
	if err != nil {
		return nil, fmt.Errorf("can't get categories: %w", err)
	}

	categories := make([]models.Category, 0, len(dbCategories))
	for ix := range dbCategories {
		categories = append(categories, toCategory(&dbCategories[ix]))
	}

	return categories, nil
}
