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

// CartService handles customer carts and their checkout into orders
type CartService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewCartService creates a new cart service. eventPublisher may be nil.
func NewCartService(store *store.Store, eventPublisher *broker.EventPublisher) *CartService {
	return &CartService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// GetCart returns the cart of a customer priced at current product prices
func (s *CartService) GetCart(ctx context.Context, schema tenant.Schema, storeID, tgUserID int64) (*models.Cart, error) {
	ctx, span := util.StartTenantSpan(ctx, "CartService.GetCart", schema.String())
	defer span.End()

	lines, err := s.store.Repo().ListCartLines(ctx, schema, storeID, tgUserID)
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("cart", err, "")
	}
	return &models.Cart{Items: lines, TotalPrice: s.calculateTotal(lines)}, nil
}

// AddItem puts one unit of a product into the cart
func (s *CartService) AddItem(ctx context.Context, schema tenant.Schema, in models.CartItemInput) (*Result, error) {
	var qty int
	err := runTx(ctx, s.store, "add_cart_item", func(r *store.Repo) error {
		var err error
		qty, err = r.AddCartItem(ctx, schema, in)
		return err
	})
	if err != nil {
		return nil, translate("cart item", err, "product or store does not exist")
	}
	return success(map[string]int{"quantity": qty}, ""), nil
}

// DecrementItem takes one unit of a product out of the cart
func (s *CartService) DecrementItem(ctx context.Context, schema tenant.Schema, in models.CartItemInput) (*Result, error) {
	var qty int
	err := runTx(ctx, s.store, "decrement_cart_item", func(r *store.Repo) error {
		var err error
		qty, err = r.DecrementCartItem(ctx, schema, in)
		return err
	})
	if err != nil {
		return nil, translate("cart item", err, "")
	}
	return success(map[string]int{"quantity": qty}, ""), nil
}

// RemoveItem drops a product from the cart
func (s *CartService) RemoveItem(ctx context.Context, schema tenant.Schema, in models.CartItemInput) (*Result, error) {
	err := runTx(ctx, s.store, "remove_cart_item", func(r *store.Repo) error {
		return r.RemoveCartItem(ctx, schema, in)
	})
	if err != nil {
		return nil, translate("cart item", err, "")
	}
	return success(nil, "item removed"), nil
}

// ClearCart empties a customer's cart
func (s *CartService) ClearCart(ctx context.Context, schema tenant.Schema, storeID, tgUserID int64) (*Result, error) {
	err := runTx(ctx, s.store, "clear_cart", func(r *store.Repo) error {
		return r.ClearCart(ctx, schema, storeID, tgUserID)
	})
	if err != nil {
		return nil, translate("cart", err, "")
	}
	return success(nil, "cart cleared"), nil
}

// Checkout turns the cart into an order with its lines and contact data, then empties
// the cart, all in one transaction
func (s *CartService) Checkout(ctx context.Context, schema tenant.Schema, req models.CheckoutRequest) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "CartService.Checkout", schema.String())
	defer span.End()

	order := &models.Order{
		StoreID:     req.StoreID,
		TgUserID:    req.TgUserID,
		OrderTypeID: req.OrderTypeID,
		Status:      models.OrderStatusCreated,
	}
	var details []models.OrderDetail

	err := runTx(ctx, s.store, "checkout", func(r *store.Repo) error {
		lines, err := r.ListCartLines(ctx, schema, req.StoreID, req.TgUserID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return validationf("cart is empty")
		}
		order.TotalPrice = s.calculateTotal(lines)

		if err := r.CreateOrder(ctx, schema, order, req.DeliveryDistrictID); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		details = make([]models.OrderDetail, 0, len(lines))
		for _, line := range lines {
			d := models.OrderDetail{
				OrderID:   order.ID,
				StoreID:   order.StoreID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			}
			if err := r.CreateOrderDetail(ctx, schema, &d); err != nil {
				return fmt.Errorf("failed to create order detail: %w", err)
			}
			details = append(details, d)
		}

		info := &models.OrderCustomerInfo{
			OrderID:         order.ID,
			StoreID:         order.StoreID,
			TgUserName:      req.TgUserName,
			TableNumber:     req.TableNumber,
			DeliveryAddress: req.DeliveryAddress,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerComment: req.CustomerComment,
		}
		if err := r.CreateOrderCustomerInfo(ctx, schema, info); err != nil {
			return fmt.Errorf("failed to store customer info: %w", err)
		}

		return r.ClearCart(ctx, schema, req.StoreID, req.TgUserID)
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("order", err, "order type or delivery district does not exist")
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("schema", schema.String()),
		zap.Int64("order_id", order.ID),
		zap.Int64("total_price", order.TotalPrice))

	if s.eventPublisher != nil {
		event := &models.OrderCreatedEvent{
			BaseEvent:  models.NewBaseEvent(models.EventTypeOrderCreated, schema.String()),
			OrderID:    order.ID,
			StoreID:    order.StoreID,
			TgUserID:   order.TgUserID,
			TotalPrice: order.TotalPrice,
			Items:      details,
		}
		if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
		}
	}

	return created(order.ID, &models.OrderView{Order: *order, Details: details}), nil
}

// ListOrders returns the orders of a store
func (s *CartService) ListOrders(ctx context.Context, schema tenant.Schema, storeID int64) ([]models.Order, error) {
	orders, err := s.store.Repo().ListOrders(ctx, schema, storeID)
	return orders, translate("order", err, "")
}

// GetOrder returns an order with its lines
func (s *CartService) GetOrder(ctx context.Context, schema tenant.Schema, id int64) (*models.OrderView, error) {
	r := s.store.Repo()
	order, err := r.GetOrder(ctx, schema, id)
	if err != nil {
		return nil, translate("order", err, "")
	}
	details, err := r.ListOrderDetails(ctx, schema, id)
	if err != nil {
		return nil, translate("order", err, "")
	}
	return &models.OrderView{Order: *order, Details: details}, nil
}

// UpdateOrderStatus moves an order to one of the known statuses
func (s *CartService) UpdateOrderStatus(ctx context.Context, schema tenant.Schema, id int64, status string) (*Result, error) {
	switch status {
	case models.OrderStatusCreated, models.OrderStatusConfirmed, models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		return nil, validationf("unknown order status %q", status)
	}

	err := runTx(ctx, s.store, "update_order_status", func(r *store.Repo) error {
		return r.UpdateOrderStatus(ctx, schema, id, status)
	})
	if err != nil {
		return nil, translate("order", err, "")
	}
	return success(map[string]string{"status": status}, ""), nil
}

// calculateTotal is the plain sum of line prices
func (s *CartService) calculateTotal(lines []models.CartLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.UnitPrice * int64(line.Quantity)
	}
	return total
}
