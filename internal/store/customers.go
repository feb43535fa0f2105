package store

import (
	"context"

	"store-admin/internal/models"
	"store-admin/internal/tenant"
)

const customerColumns = `id, store_id, tg_user_id, resource, first_name, last_name, username, is_premium, created_at`

// ListCustomers returns the customers of a store, newest first
func (r *Repo) ListCustomers(ctx context.Context, schema tenant.Schema, storeID int64) ([]models.Customer, error) {
	q, err := tenant.SQL(schema, `SELECT `+customerColumns+` FROM {0} WHERE store_id = $1 ORDER BY id DESC`,
		tenant.Customers)
	if err != nil {
		return nil, err
	}
	customers := []models.Customer{}
	if err := r.selectAll(ctx, &customers, q, storeID); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer returns one customer
func (r *Repo) GetCustomer(ctx context.Context, schema tenant.Schema, id int64) (*models.Customer, error) {
	q, err := tenant.SQL(schema, `SELECT `+customerColumns+` FROM {0} WHERE id = $1`, tenant.Customers)
	if err != nil {
		return nil, err
	}
	var c models.Customer
	if err := r.get(ctx, &c, q, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCustomer inserts a customer. A second row for the same Telegram user fails with ErrDuplicate.
func (r *Repo) CreateCustomer(ctx context.Context, schema tenant.Schema, in models.CustomerInput) (int64, error) {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, tg_user_id, resource, first_name, last_name, username, is_premium)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`, tenant.Customers)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.get(ctx, &id, q, in.StoreID, in.TgUserID, in.Resource, in.FirstName, in.LastName, in.Username, in.IsPremium)
	return id, err
}

// UpdateCustomer overwrites the profile columns
func (r *Repo) UpdateCustomer(ctx context.Context, schema tenant.Schema, id int64, in models.CustomerInput) error {
	q, err := tenant.SQL(schema, `UPDATE {0} SET resource = $2, first_name = $3, last_name = $4, username = $5,
		is_premium = $6 WHERE id = $1`, tenant.Customers)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, id, in.Resource, in.FirstName, in.LastName, in.Username, in.IsPremium)
}
