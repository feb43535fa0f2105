package service

import (
	"context"
	"fmt"

	"store-admin/internal/models"
	"store-admin/internal/store"
	"store-admin/internal/tenant"
	"store-admin/internal/util"
)

// GetDeliveryInfo resolves the pricing strategy selected in the store card. A store
// without a delivery type, or with an unknown one, has no delivery info.
func (s *StoreService) GetDeliveryInfo(ctx context.Context, schema tenant.Schema, storeID int64) (*models.DeliveryInfo, error) {
	ctx, span := util.StartTenantSpan(ctx, "StoreService.GetDeliveryInfo", schema.String())
	defer span.End()

	r := s.store.Repo()
	info, err := r.GetStoreInfo(ctx, schema, storeID)
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("store info", err, "")
	}
	if info.TypeDeliveryID == nil {
		return nil, nil
	}
	delivery, err := r.ResolveDelivery(ctx, schema, storeID, *info.TypeDeliveryID)
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("delivery", err, "")
	}
	return delivery, nil
}

// CreateDeliveryFix sets up flat delivery pricing
func (s *StoreService) CreateDeliveryFix(ctx context.Context, schema tenant.Schema, storeID int64, in models.DeliveryFix) (*Result, error) {
	var id int64
	_, err := s.write(ctx, schema, "create_delivery_fix", in, func(r *store.Repo) error {
		var err error
		id, err = r.CreateDeliveryFix(ctx, schema, storeID, in.Price)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created(id, in), nil
}

// UpdateDeliveryFix changes the flat delivery price
func (s *StoreService) UpdateDeliveryFix(ctx context.Context, schema tenant.Schema, storeID int64, in models.DeliveryFix) (*Result, error) {
	return s.write(ctx, schema, "update_delivery_fix", in, func(r *store.Repo) error {
		return r.UpdateDeliveryFix(ctx, schema, storeID, in.Price)
	})
}

// CreateDeliveryDistrict adds a priced district
func (s *StoreService) CreateDeliveryDistrict(ctx context.Context, schema tenant.Schema, storeID int64, in models.DeliveryDistrictInput) (*Result, error) {
	var id int64
	_, err := s.write(ctx, schema, "create_delivery_district", in, func(r *store.Repo) error {
		var err error
		id, err = r.CreateDeliveryDistrict(ctx, schema, storeID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created(id, in), nil
}

// UpdateDeliveryDistrict overwrites a district
func (s *StoreService) UpdateDeliveryDistrict(ctx context.Context, schema tenant.Schema, storeID, districtID int64, in models.DeliveryDistrictInput) (*Result, error) {
	return s.write(ctx, schema, "update_delivery_district", in, func(r *store.Repo) error {
		return r.UpdateDeliveryDistrict(ctx, schema, storeID, districtID, in)
	})
}

// DeleteDeliveryDistrict hard deletes a district no order was delivered to
func (s *StoreService) DeleteDeliveryDistrict(ctx context.Context, schema tenant.Schema, storeID, districtID int64) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "StoreService.DeleteDeliveryDistrict", schema.String())
	defer span.End()

	err := runTx(ctx, s.store, "delete_delivery_district", func(r *store.Repo) error {
		return r.DeleteDeliveryDistrict(ctx, schema, storeID, districtID)
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("delivery district", err, districtInUse)
	}
	return success(nil, fmt.Sprintf("delivery district %d deleted", districtID)), nil
}

// CreateDeliveryDistance sets up distance pricing
func (s *StoreService) CreateDeliveryDistance(ctx context.Context, schema tenant.Schema, storeID int64, in models.DeliveryDistanceInput) (*Result, error) {
	var id int64
	_, err := s.write(ctx, schema, "create_delivery_distance", in, func(r *store.Repo) error {
		var err error
		id, err = r.CreateDeliveryDistance(ctx, schema, storeID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created(id, in), nil
}

// UpdateDeliveryDistance overwrites distance pricing
func (s *StoreService) UpdateDeliveryDistance(ctx context.Context, schema tenant.Schema, storeID int64, in models.DeliveryDistanceInput) (*Result, error) {
	return s.write(ctx, schema, "update_delivery_distance", in, func(r *store.Repo) error {
		return r.UpdateDeliveryDistance(ctx, schema, storeID, in)
	})
}
