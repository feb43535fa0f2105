package service

import (
	"context"
	"strings"

	"store-admin/internal/models"
	"store-admin/internal/store"
	"store-admin/internal/util"

	"go.uber.org/zap"
)

// ReferenceService serves the lookup tables shared by every tenant
type ReferenceService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewReferenceService creates a new reference service
func NewReferenceService(store *store.Store) *ReferenceService {
	return &ReferenceService{store: store, logger: util.GetLogger()}
}

// ListOrderTypes returns the shared order types
func (s *ReferenceService) ListOrderTypes(ctx context.Context) ([]models.OrderType, error) {
	return s.store.Repo().ListOrderTypes(ctx)
}

// CreateOrderType adds a shared order type
func (s *ReferenceService) CreateOrderType(ctx context.Context, in models.OrderType) (*Result, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationf("name is required")
	}

	var id int64
	err := runTx(ctx, s.store, "create_order_type", func(r *store.Repo) error {
		var err error
		id, err = r.CreateOrderType(ctx, in.Name, in.Image)
		return err
	})
	if err != nil {
		return nil, translate("order type", err, "")
	}
	in.ID = id
	return created(id, in), nil
}

// ListDaysOfWeek returns the shared day names
func (s *ReferenceService) ListDaysOfWeek(ctx context.Context) ([]models.DayOfWeek, error) {
	return s.store.Repo().ListDaysOfWeek(ctx)
}

// ListTypesDelivery returns the delivery pricing strategies
func (s *ReferenceService) ListTypesDelivery(ctx context.Context) ([]models.TypeDelivery, error) {
	return s.store.Repo().ListTypesDelivery(ctx)
}
