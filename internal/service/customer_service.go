package service

import (
	"context"

	"store-admin/internal/models"
	"store-admin/internal/store"
	"store-admin/internal/tenant"
	"store-admin/internal/util"

	"go.uber.org/zap"
)

// CustomerService manages the bot users of a tenant's stores
type CustomerService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(store *store.Store) *CustomerService {
	return &CustomerService{store: store, logger: util.GetLogger()}
}

// ListCustomers returns the customers of a store
func (s *CustomerService) ListCustomers(ctx context.Context, schema tenant.Schema, storeID int64) ([]models.Customer, error) {
	ctx, span := util.StartTenantSpan(ctx, "CustomerService.ListCustomers", schema.String())
	defer span.End()

	customers, err := s.store.Repo().ListCustomers(ctx, schema, storeID)
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("customer", err, "")
	}
	return customers, nil
}

// GetCustomer returns one customer
func (s *CustomerService) GetCustomer(ctx context.Context, schema tenant.Schema, id int64) (*models.Customer, error) {
	c, err := s.store.Repo().GetCustomer(ctx, schema, id)
	return c, translate("customer", err, "")
}

// CreateCustomer registers a Telegram user with a store
func (s *CustomerService) CreateCustomer(ctx context.Context, schema tenant.Schema, in models.CustomerInput) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "CustomerService.CreateCustomer", schema.String())
	defer span.End()

	var id int64
	err := runTx(ctx, s.store, "create_customer", func(r *store.Repo) error {
		var err error
		id, err = r.CreateCustomer(ctx, schema, in)
		return err
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("customer", err, "store does not exist")
	}
	return created(id, in), nil
}

// UpdateCustomer overwrites a customer's profile
func (s *CustomerService) UpdateCustomer(ctx context.Context, schema tenant.Schema, id int64, in models.CustomerInput) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "CustomerService.UpdateCustomer", schema.String())
	defer span.End()

	err := runTx(ctx, s.store, "update_customer", func(r *store.Repo) error {
		return r.UpdateCustomer(ctx, schema, id, in)
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("customer", err, "")
	}
	return success(in, ""), nil
}
