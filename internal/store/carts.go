package store

import (
	"context"
	"errors"

	"store-admin/internal/models"
	"store-admin/internal/tenant"
)

// AddCartItem puts one unit of a product into the cart and returns the new quantity
func (r *Repo) AddCartItem(ctx context.Context, schema tenant.Schema, in models.CartItemInput) (int, error) {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, tg_user_id, product_id, quantity) VALUES ($1, $2, $3, 1)
		ON CONFLICT (store_id, tg_user_id, product_id) DO UPDATE SET quantity = {0}.quantity + 1
		RETURNING quantity`, tenant.Carts)
	if err != nil {
		return 0, err
	}
	var qty int
	err = r.get(ctx, &qty, q, in.StoreID, in.TgUserID, in.ProductID)
	return qty, err
}

// DecrementCartItem takes one unit out of the cart, dropping the line at zero. It returns
// the remaining quantity.
func (r *Repo) DecrementCartItem(ctx context.Context, schema tenant.Schema, in models.CartItemInput) (int, error) {
	upd, err := tenant.SQL(schema, `UPDATE {0} SET quantity = quantity - 1
		WHERE store_id = $1 AND tg_user_id = $2 AND product_id = $3 AND quantity > 1
		RETURNING quantity`, tenant.Carts)
	if err != nil {
		return 0, err
	}
	var qty int
	err = r.get(ctx, &qty, upd, in.StoreID, in.TgUserID, in.ProductID)
	if err == nil {
		return qty, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}
	return 0, r.RemoveCartItem(ctx, schema, in)
}

// RemoveCartItem drops a product line from the cart
func (r *Repo) RemoveCartItem(ctx context.Context, schema tenant.Schema, in models.CartItemInput) error {
	q, err := tenant.SQL(schema, `DELETE FROM {0} WHERE store_id = $1 AND tg_user_id = $2 AND product_id = $3`,
		tenant.Carts)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, in.StoreID, in.TgUserID, in.ProductID)
}

// ListCartLines returns the cart joined with current product names and prices
func (r *Repo) ListCartLines(ctx context.Context, schema tenant.Schema, storeID, tgUserID int64) ([]models.CartLine, error) {
	q, err := tenant.SQL(schema, `SELECT c.product_id, p.name, p.image, c.quantity, p.price AS unit_price
		FROM {0} c JOIN {1} p ON p.id = c.product_id
		WHERE c.store_id = $1 AND c.tg_user_id = $2 ORDER BY c.id`, tenant.Carts, tenant.Products)
	if err != nil {
		return nil, err
	}
	lines := []models.CartLine{}
	if err := r.selectAll(ctx, &lines, q, storeID, tgUserID); err != nil {
		return nil, err
	}
	return lines, nil
}

// ClearCart empties a customer's cart. Clearing an empty cart is not an error.
func (r *Repo) ClearCart(ctx context.Context, schema tenant.Schema, storeID, tgUserID int64) error {
	q, err := tenant.SQL(schema, `DELETE FROM {0} WHERE store_id = $1 AND tg_user_id = $2`, tenant.Carts)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, q, storeID, tgUserID)
	return classify(err)
}
