package store

import (
	"context"

	"store-admin/internal/models"
	"store-admin/internal/tenant"
)

const productColumns = `id, store_id, category_id, name, description, price, image, availability, is_popular, is_new,
	created_at, created_by, updated_at, updated_by, deleted_flag, deleted_at, deleted_by`

// ListProducts returns the live products of a store, newest first
func (r *Repo) ListProducts(ctx context.Context, schema tenant.Schema, storeID int64) ([]models.Product, error) {
	q, err := tenant.SQL(schema, `SELECT `+productColumns+` FROM {0}
		WHERE store_id = $1 AND deleted_flag = FALSE ORDER BY id DESC`, tenant.Products)
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := r.selectAll(ctx, &products, q, storeID); err != nil {
		return nil, err
	}
	return products, nil
}

// ListProductsByCategory returns the live products of one category
func (r *Repo) ListProductsByCategory(ctx context.Context, schema tenant.Schema, categoryID int64) ([]models.Product, error) {
	q, err := tenant.SQL(schema, `SELECT `+productColumns+` FROM {0}
		WHERE category_id = $1 AND deleted_flag = FALSE ORDER BY id DESC`, tenant.Products)
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := r.selectAll(ctx, &products, q, categoryID); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns one product
func (r *Repo) GetProduct(ctx context.Context, schema tenant.Schema, id int64) (*models.Product, error) {
	q, err := tenant.SQL(schema, `SELECT `+productColumns+` FROM {0} WHERE id = $1`, tenant.Products)
	if err != nil {
		return nil, err
	}
	var p models.Product
	if err := r.get(ctx, &p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts a product stamped with its creator
func (r *Repo) CreateProduct(ctx context.Context, schema tenant.Schema, in models.ProductInput, userID int64) (int64, error) {
	q, err := tenant.SQL(schema, `INSERT INTO {0}
		(store_id, category_id, name, description, price, image, availability, is_popular, is_new, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`, tenant.Products)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.get(ctx, &id, q, in.StoreID, in.CategoryID, in.Name, in.Description, in.Price, in.Image,
		in.Availability, in.IsPopular, in.IsNew, userID)
	return id, err
}

// UpdateProduct overwrites the writable columns
func (r *Repo) UpdateProduct(ctx context.Context, schema tenant.Schema, id int64, in models.ProductInput, userID int64) error {
	q, err := tenant.SQL(schema, `UPDATE {0} SET store_id = $2, category_id = $3, name = $4, description = $5,
		price = $6, image = $7, availability = $8, is_popular = $9, is_new = $10,
		updated_at = NOW(), updated_by = $11 WHERE id = $1`, tenant.Products)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, id, in.StoreID, in.CategoryID, in.Name, in.Description, in.Price, in.Image,
		in.Availability, in.IsPopular, in.IsNew, userID)
}

// FlipProductDeleted negates deleted_flag and returns the new value
func (r *Repo) FlipProductDeleted(ctx context.Context, schema tenant.Schema, id, userID int64) (bool, error) {
	q, err := tenant.SQL(schema, `UPDATE {0} SET deleted_flag = NOT deleted_flag, deleted_at = NOW(), deleted_by = $2
		WHERE id = $1 RETURNING deleted_flag`, tenant.Products)
	if err != nil {
		return false, err
	}
	var v bool
	err = r.get(ctx, &v, q, id, userID)
	return v, err
}

// FlipProductFlag negates one of the product's boolean columns and returns the new value
func (r *Repo) FlipProductFlag(ctx context.Context, schema tenant.Schema, id, userID int64, flag models.ProductFlag) (bool, error) {
	col := flag.Column()
	q, err := tenant.SQL(schema, `UPDATE {0} SET `+col+` = NOT `+col+`, updated_at = NOW(), updated_by = $2
		WHERE id = $1 RETURNING `+col, tenant.Products)
	if err != nil {
		return false, err
	}
	var v bool
	err = r.get(ctx, &v, q, id, userID)
	return v, err
}

// DeleteProduct removes the row. Referencing order lines make it fail with ErrConflict.
func (r *Repo) DeleteProduct(ctx context.Context, schema tenant.Schema, id int64) error {
	q, err := tenant.SQL(schema, `DELETE FROM {0} WHERE id = $1`, tenant.Products)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, id)
}
