package store

import (
	"context"

	"store-admin/internal/models"
	"store-admin/internal/tenant"
)

// CreateDeliveryFix inserts a flat delivery price
func (r *Repo) CreateDeliveryFix(ctx context.Context, schema tenant.Schema, storeID, price int64) (int64, error) {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, price) VALUES ($1, $2) RETURNING id`, tenant.DeliveryFix)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.get(ctx, &id, q, storeID, price)
	return id, err
}

// UpdateDeliveryFix sets the flat delivery price of a store
func (r *Repo) UpdateDeliveryFix(ctx context.Context, schema tenant.Schema, storeID, price int64) error {
	q, err := tenant.SQL(schema, `UPDATE {0} SET price = $2 WHERE store_id = $1`, tenant.DeliveryFix)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, price)
}

// CreateDeliveryDistrict inserts one priced district
func (r *Repo) CreateDeliveryDistrict(ctx context.Context, schema tenant.Schema, storeID int64, in models.DeliveryDistrictInput) (int64, error) {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, name, price) VALUES ($1, $2, $3) RETURNING id`,
		tenant.DeliveryDistricts)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.get(ctx, &id, q, storeID, in.Name, in.Price)
	return id, err
}

// UpdateDeliveryDistrict overwrites one district
func (r *Repo) UpdateDeliveryDistrict(ctx context.Context, schema tenant.Schema, storeID, districtID int64, in models.DeliveryDistrictInput) error {
	q, err := tenant.SQL(schema, `UPDATE {0} SET name = $3, price = $4 WHERE store_id = $1 AND id = $2`,
		tenant.DeliveryDistricts)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, districtID, in.Name, in.Price)
}

// DeleteDeliveryDistrict hard deletes one district. Orders delivered to it make it fail with ErrConflict.
func (r *Repo) DeleteDeliveryDistrict(ctx context.Context, schema tenant.Schema, storeID, districtID int64) error {
	q, err := tenant.SQL(schema, `DELETE FROM {0} WHERE store_id = $1 AND id = $2`, tenant.DeliveryDistricts)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, districtID)
}

// CreateDeliveryDistance inserts the distance pricing
func (r *Repo) CreateDeliveryDistance(ctx context.Context, schema tenant.Schema, storeID int64, in models.DeliveryDistanceInput) (int64, error) {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, start_price, price_per_km, min_price)
		VALUES ($1, $2, $3, $4) RETURNING id`, tenant.DeliveryDistance)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.get(ctx, &id, q, storeID, in.StartPrice, in.PricePerKm, in.MinPrice)
	return id, err
}

// UpdateDeliveryDistance overwrites the distance pricing of a store
func (r *Repo) UpdateDeliveryDistance(ctx context.Context, schema tenant.Schema, storeID int64, in models.DeliveryDistanceInput) error {
	q, err := tenant.SQL(schema, `UPDATE {0} SET start_price = $2, price_per_km = $3, min_price = $4
		WHERE store_id = $1`, tenant.DeliveryDistance)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, in.StartPrice, in.PricePerKm, in.MinPrice)
}

// ResolveDelivery reads the pricing table selected by typeDeliveryID. District pricing
// yields a collection, fix and distance at most one row. Any other discriminator yields
// nil without error.
func (r *Repo) ResolveDelivery(ctx context.Context, schema tenant.Schema, storeID, typeDeliveryID int64) (*models.DeliveryInfo, error) {
	info := &models.DeliveryInfo{TypeDeliveryID: typeDeliveryID}

	switch typeDeliveryID {
	case models.DeliveryTypeFix:
		q, err := tenant.SQL(schema, `SELECT id, store_id, price FROM {0} WHERE store_id = $1 ORDER BY id LIMIT 1`,
			tenant.DeliveryFix)
		if err != nil {
			return nil, err
		}
		rows := []models.DeliveryFix{}
		if err := r.selectAll(ctx, &rows, q, storeID); err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			info.Fix = &rows[0]
		}
	case models.DeliveryTypeDistrict:
		q, err := tenant.SQL(schema, `SELECT id, store_id, name, price FROM {0} WHERE store_id = $1 ORDER BY id`,
			tenant.DeliveryDistricts)
		if err != nil {
			return nil, err
		}
		info.Districts = []models.DeliveryDistrict{}
		if err := r.selectAll(ctx, &info.Districts, q, storeID); err != nil {
			return nil, err
		}
	case models.DeliveryTypeDistance:
		q, err := tenant.SQL(schema, `SELECT id, store_id, start_price, price_per_km, min_price FROM {0}
			WHERE store_id = $1 ORDER BY id LIMIT 1`, tenant.DeliveryDistance)
		if err != nil {
			return nil, err
		}
		rows := []models.DeliveryDistance{}
		if err := r.selectAll(ctx, &rows, q, storeID); err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			info.Distance = &rows[0]
		}
	default:
		return nil, nil
	}
	return info, nil
}
