package store

import (
	"context"

	"store-admin/internal/models"
	"store-admin/internal/tenant"
)

const orderColumns = `id, store_id, tg_user_id, order_type_id, total_price, status, created_at`

// CreateOrder inserts the order header and fills in its id and creation time
func (r *Repo) CreateOrder(ctx context.Context, schema tenant.Schema, o *models.Order, deliveryDistrictID *int64) error {
	q, err := tenant.SQL(schema, `INSERT INTO {0}
		(store_id, tg_user_id, order_type_id, delivery_district_id, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+orderColumns, tenant.Orders)
	if err != nil {
		return err
	}
	return r.get(ctx, o, q, o.StoreID, o.TgUserID, o.OrderTypeID, deliveryDistrictID, o.TotalPrice, o.Status)
}

// CreateOrderDetail inserts one order line
func (r *Repo) CreateOrderDetail(ctx context.Context, schema tenant.Schema, d *models.OrderDetail) error {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (order_id, store_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`, tenant.OrderDetails)
	if err != nil {
		return err
	}
	return r.get(ctx, &d.ID, q, d.OrderID, d.StoreID, d.ProductID, d.Quantity, d.UnitPrice)
}

// CreateOrderCustomerInfo stores the contact data captured at checkout
func (r *Repo) CreateOrderCustomerInfo(ctx context.Context, schema tenant.Schema, info *models.OrderCustomerInfo) error {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (order_id, store_id, tg_user_name, table_number, delivery_address,
			customer_name, customer_phone, customer_comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`, tenant.OrderCustomerInfo)
	if err != nil {
		return err
	}
	return r.get(ctx, &info.ID, q, info.OrderID, info.StoreID, info.TgUserName, info.TableNumber,
		info.DeliveryAddress, info.CustomerName, info.CustomerPhone, info.CustomerComment)
}

// ListOrders returns the orders of a store, newest first
func (r *Repo) ListOrders(ctx context.Context, schema tenant.Schema, storeID int64) ([]models.Order, error) {
	q, err := tenant.SQL(schema, `SELECT `+orderColumns+` FROM {0} WHERE store_id = $1 ORDER BY id DESC`, tenant.Orders)
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := r.selectAll(ctx, &orders, q, storeID); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns one order header
func (r *Repo) GetOrder(ctx context.Context, schema tenant.Schema, id int64) (*models.Order, error) {
	q, err := tenant.SQL(schema, `SELECT `+orderColumns+` FROM {0} WHERE id = $1`, tenant.Orders)
	if err != nil {
		return nil, err
	}
	var o models.Order
	if err := r.get(ctx, &o, q, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrderDetails returns the lines of an order
func (r *Repo) ListOrderDetails(ctx context.Context, schema tenant.Schema, orderID int64) ([]models.OrderDetail, error) {
	q, err := tenant.SQL(schema, `SELECT id, order_id, store_id, product_id, quantity, unit_price
		FROM {0} WHERE order_id = $1 ORDER BY id`, tenant.OrderDetails)
	if err != nil {
		return nil, err
	}
	details := []models.OrderDetail{}
	if err := r.selectAll(ctx, &details, q, orderID); err != nil {
		return nil, err
	}
	return details, nil
}

// UpdateOrderStatus sets the status of an order
func (r *Repo) UpdateOrderStatus(ctx context.Context, schema tenant.Schema, id int64, status string) error {
	q, err := tenant.SQL(schema, `UPDATE {0} SET status = $2 WHERE id = $1`, tenant.Orders)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, id, status)
}
