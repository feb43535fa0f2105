package store

import (
	"context"

	"store-admin/internal/models"
	"store-admin/internal/tenant"
)

const categoryColumns = `id, store_id, name, name_rus, image, availability,
	created_at, created_by, updated_at, updated_by, deleted_flag, deleted_at, deleted_by`

// ListCategories returns the live categories of a store, newest first
func (r *Repo) ListCategories(ctx context.Context, schema tenant.Schema, storeID int64) ([]models.Category, error) {
	q, err := tenant.SQL(schema, `SELECT `+categoryColumns+` FROM {0}
		WHERE store_id = $1 AND deleted_flag = FALSE ORDER BY id DESC`, tenant.Categories)
	if err != nil {
		return nil, err
	}
	categories := []models.Category{}
	if err := r.selectAll(ctx, &categories, q, storeID); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategory returns one category, deleted or not
func (r *Repo) GetCategory(ctx context.Context, schema tenant.Schema, id int64) (*models.Category, error) {
	q, err := tenant.SQL(schema, `SELECT `+categoryColumns+` FROM {0} WHERE id = $1`, tenant.Categories)
	if err != nil {
		return nil, err
	}
	var c models.Category
	if err := r.get(ctx, &c, q, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a category stamped with its creator
func (r *Repo) CreateCategory(ctx context.Context, schema tenant.Schema, in models.CategoryInput, userID int64) (int64, error) {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, name, name_rus, image, availability, created_by)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`, tenant.Categories)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.get(ctx, &id, q, in.StoreID, in.Name, in.NameRus, in.Image, in.Availability, userID)
	return id, err
}

// UpdateCategory overwrites the writable columns
func (r *Repo) UpdateCategory(ctx context.Context, schema tenant.Schema, id int64, in models.CategoryInput, userID int64) error {
	q, err := tenant.SQL(schema, `UPDATE {0} SET store_id = $2, name = $3, name_rus = $4, image = $5,
		availability = $6, updated_at = NOW(), updated_by = $7 WHERE id = $1`, tenant.Categories)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, id, in.StoreID, in.Name, in.NameRus, in.Image, in.Availability, userID)
}

// FlipCategoryDeleted negates deleted_flag and returns the new value
func (r *Repo) FlipCategoryDeleted(ctx context.Context, schema tenant.Schema, id, userID int64) (bool, error) {
	q, err := tenant.SQL(schema, `UPDATE {0} SET deleted_flag = NOT deleted_flag, deleted_at = NOW(), deleted_by = $2
		WHERE id = $1 RETURNING deleted_flag`, tenant.Categories)
	if err != nil {
		return false, err
	}
	var v bool
	err = r.get(ctx, &v, q, id, userID)
	return v, err
}

// FlipCategoryFlag negates one of the category's boolean columns and returns the new value
func (r *Repo) FlipCategoryFlag(ctx context.Context, schema tenant.Schema, id, userID int64, flag models.CategoryFlag) (bool, error) {
	col := flag.Column()
	q, err := tenant.SQL(schema, `UPDATE {0} SET `+col+` = NOT `+col+`, updated_at = NOW(), updated_by = $2
		WHERE id = $1 RETURNING `+col, tenant.Categories)
	if err != nil {
		return false, err
	}
	var v bool
	err = r.get(ctx, &v, q, id, userID)
	return v, err
}

// DeleteCategory removes the row. Referencing products make it fail with ErrConflict.
func (r *Repo) DeleteCategory(ctx context.Context, schema tenant.Schema, id int64) error {
	q, err := tenant.SQL(schema, `DELETE FROM {0} WHERE id = $1`, tenant.Categories)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, id)
}
