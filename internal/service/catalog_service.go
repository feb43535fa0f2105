package service

import (
	"context"
	"fmt"

	"store-admin/internal/broker"
	"store-admin/internal/models"
	"store-admin/internal/store"
	"store-admin/internal/tenant"
	"store-admin/internal/util"

	"go.uber.org/zap"
)

const (
	categoryInUse = "category cannot be deleted because products reference it"
	productInUse  = "product cannot be deleted because orders reference it"
)

// CatalogService manages categories and products of a tenant
type CatalogService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewCatalogService creates a new catalog service. eventPublisher may be nil.
func NewCatalogService(store *store.Store, eventPublisher *broker.EventPublisher) *CatalogService {
	return &CatalogService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// ListCategories returns the live categories of a store
func (s *CatalogService) ListCategories(ctx context.Context, schema tenant.Schema, storeID int64) ([]models.Category, error) {
	ctx, span := util.StartTenantSpan(ctx, "CatalogService.ListCategories", schema.String())
	defer span.End()

	categories, err := s.store.Repo().ListCategories(ctx, schema, storeID)
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("category", err, "")
	}
	return categories, nil
}

// GetCategory returns one category
func (s *CatalogService) GetCategory(ctx context.Context, schema tenant.Schema, id int64) (*models.Category, error) {
	ctx, span := util.StartTenantSpan(ctx, "CatalogService.GetCategory", schema.String())
	defer span.End()

	c, err := s.store.Repo().GetCategory(ctx, schema, id)
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("category", err, "")
	}
	return c, nil
}

// CreateCategory inserts a category on behalf of userID
func (s *CatalogService) CreateCategory(ctx context.Context, schema tenant.Schema, userID int64, in models.CategoryInput) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "CatalogService.CreateCategory", schema.String())
	defer span.End()

	var id int64
	err := runTx(ctx, s.store, "create_category", func(r *store.Repo) error {
		var err error
		id, err = r.CreateCategory(ctx, schema, in, userID)
		return err
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("category", err, "store does not exist")
	}

	s.logger.Info("Category created", zap.String("schema", schema.String()), zap.Int64("category_id", id))
	return created(id, in), nil
}

// UpdateCategory overwrites a category
func (s *CatalogService) UpdateCategory(ctx context.Context, schema tenant.Schema, userID, id int64, in models.CategoryInput) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "CatalogService.UpdateCategory", schema.String())
	defer span.End()

	err := runTx(ctx, s.store, "update_category", func(r *store.Repo) error {
		return r.UpdateCategory(ctx, schema, id, in, userID)
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("category", err, "store does not exist")
	}
	return success(in, ""), nil
}

// ToggleCategoryDeleted flips the soft-delete flag of a category
func (s *CatalogService) ToggleCategoryDeleted(ctx context.Context, schema tenant.Schema, userID, id int64) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "CatalogService.ToggleCategoryDeleted", schema.String())
	defer span.End()

	var v bool
	err := runTx(ctx, s.store, "toggle_category_deleted", func(r *store.Repo) error {
		var err error
		v, err = r.FlipCategoryDeleted(ctx, schema, id, userID)
		return err
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("category", err, "")
	}

	util.TogglesTotal.WithLabelValues("category", "deleted_flag").Inc()
	return toggled("deleted_flag", v), nil
}

// ToggleCategoryField flips a named boolean field. Unknown names fail before any SQL runs.
func (s *CatalogService) ToggleCategoryField(ctx context.Context, schema tenant.Schema, userID, id int64, field string) (*Result, error) {
	flag, err := models.ParseCategoryFlag(field)
	if err != nil {
		return nil, translate("category", err, "")
	}

	ctx, span := util.StartTenantSpan(ctx, "CatalogService.ToggleCategoryField", schema.String())
	defer span.End()

	var v bool
	err = runTx(ctx, s.store, "toggle_category_field", func(r *store.Repo) error {
		var err error
		v, err = r.FlipCategoryFlag(ctx, schema, id, userID, flag)
		return err
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("category", err, "")
	}

	util.TogglesTotal.WithLabelValues("category", flag.Column()).Inc()
	return toggled(flag.Column(), v), nil
}

// DeleteCategory hard deletes a category that no product references
func (s *CatalogService) DeleteCategory(ctx context.Context, schema tenant.Schema, id int64) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "CatalogService.DeleteCategory", schema.String())
	defer span.End()

	err := runTx(ctx, s.store, "delete_category", func(r *store.Repo) error {
		return r.DeleteCategory(ctx, schema, id)
	})
	if err != nil {
		util.RecordError(span, err)
		s.logger.Warn("Category delete rejected",
			zap.String("schema", schema.String()),
			zap.Int64("category_id", id),
			zap.Error(err))
		return nil, translate("category", err, categoryInUse)
	}

	if s.eventPublisher != nil {
		event := &models.CategoryDeletedEvent{
			BaseEvent:  models.NewBaseEvent(models.EventTypeCategoryDeleted, schema.String()),
			CategoryID: id,
		}
		if err := s.eventPublisher.PublishCategoryDeleted(ctx, event); err != nil {
			s.logger.Error("Failed to publish CategoryDeleted event", zap.Error(err))
		}
	}

	return success(nil, fmt.Sprintf("category %d deleted", id)), nil
}

// ListProducts returns the live products of a store
func (s *CatalogService) ListProducts(ctx context.Context, schema tenant.Schema, storeID int64) ([]models.Product, error) {
	ctx, span := util.StartTenantSpan(ctx, "CatalogService.ListProducts", schema.String())
	defer span.End()

	products, err := s.store.Repo().ListProducts(ctx, schema, storeID)
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("product", err, "")
	}
	return products, nil
}

// ListProductsByCategory returns the live products of a category
func (s *CatalogService) ListProductsByCategory(ctx context.Context, schema tenant.Schema, categoryID int64) ([]models.Product, error) {
	ctx, span := util.StartTenantSpan(ctx, "CatalogService.ListProductsByCategory", schema.String())
	defer span.End()

	products, err := s.store.Repo().ListProductsByCategory(ctx, schema, categoryID)
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("product", err, "")
	}
	return products, nil
}

// GetProduct returns one product
func (s *CatalogService) GetProduct(ctx context.Context, schema tenant.Schema, id int64) (*models.Product, error) {
	ctx, span := util.StartTenantSpan(ctx, "CatalogService.GetProduct", schema.String())
	defer span.End()

	p, err := s.store.Repo().GetProduct(ctx, schema, id)
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("product", err, "")
	}
	return p, nil
}

// CreateProduct inserts a product on behalf of userID
func (s *CatalogService) CreateProduct(ctx context.Context, schema tenant.Schema, userID int64, in models.ProductInput) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "CatalogService.CreateProduct", schema.String())
	defer span.End()

	var id int64
	err := runTx(ctx, s.store, "create_product", func(r *store.Repo) error {
		var err error
		id, err = r.CreateProduct(ctx, schema, in, userID)
		return err
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("product", err, "store or category does not exist")
	}

	s.logger.Info("Product created", zap.String("schema", schema.String()), zap.Int64("product_id", id))
	return created(id, in), nil
}

// UpdateProduct overwrites a product
func (s *CatalogService) UpdateProduct(ctx context.Context, schema tenant.Schema, userID, id int64, in models.ProductInput) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "CatalogService.UpdateProduct", schema.String())
	defer span.End()

	err := runTx(ctx, s.store, "update_product", func(r *store.Repo) error {
		return r.UpdateProduct(ctx, schema, id, in, userID)
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("product", err, "store or category does not exist")
	}
	return success(in, ""), nil
}

// ToggleProductDeleted flips the soft-delete flag of a product
func (s *CatalogService) ToggleProductDeleted(ctx context.Context, schema tenant.Schema, userID, id int64) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "CatalogService.ToggleProductDeleted", schema.String())
	defer span.End()

	var v bool
	err := runTx(ctx, s.store, "toggle_product_deleted", func(r *store.Repo) error {
		var err error
		v, err = r.FlipProductDeleted(ctx, schema, id, userID)
		return err
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("product", err, "")
	}

	util.TogglesTotal.WithLabelValues("product", "deleted_flag").Inc()
	return toggled("deleted_flag", v), nil
}

// ToggleProductField flips a named boolean field. Unknown names fail before any SQL runs.
func (s *CatalogService) ToggleProductField(ctx context.Context, schema tenant.Schema, userID, id int64, field string) (*Result, error) {
	flag, err := models.ParseProductFlag(field)
	if err != nil {
		return nil, translate("product", err, "")
	}

	ctx, span := util.StartTenantSpan(ctx, "CatalogService.ToggleProductField", schema.String())
	defer span.End()

	var v bool
	err = runTx(ctx, s.store, "toggle_product_field", func(r *store.Repo) error {
		var err error
		v, err = r.FlipProductFlag(ctx, schema, id, userID, flag)
		return err
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("product", err, "")
	}

	util.TogglesTotal.WithLabelValues("product", flag.Column()).Inc()
	return toggled(flag.Column(), v), nil
}

// DeleteProduct hard deletes a product that no order line references
func (s *CatalogService) DeleteProduct(ctx context.Context, schema tenant.Schema, id int64) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "CatalogService.DeleteProduct", schema.String())
	defer span.End()

	err := runTx(ctx, s.store, "delete_product", func(r *store.Repo) error {
		return r.DeleteProduct(ctx, schema, id)
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("product", err, productInUse)
	}
	return success(nil, fmt.Sprintf("product %d deleted", id)), nil
}
