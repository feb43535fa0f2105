package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"store-admin/internal/broker"
	"store-admin/internal/models"
	"store-admin/internal/redisclient"
	"store-admin/internal/store"
	"store-admin/internal/tenant"
	"store-admin/internal/util"

	"go.uber.org/zap"
)

const (
	storeInUse    = "store cannot be deleted because categories, products, customers or orders reference it"
	districtInUse = "delivery district cannot be deleted because orders reference it"
)

// WebhookRegistrar points a bot at this service's webhook endpoint
type WebhookRegistrar interface {
	Register(ctx context.Context, token string) (bool, error)
}

// StoreService provisions stores and manages their settings
type StoreService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	registrar      WebhookRegistrar
	idempotencyTTL time.Duration
	tokenCacheTTL  time.Duration
	logger         *zap.Logger
}

// NewStoreService creates a new store service. redis, eventPublisher and registrar may be nil.
func NewStoreService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	registrar WebhookRegistrar,
	idempotencyTTL time.Duration,
) *StoreService {
	return &StoreService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		registrar:      registrar,
		idempotencyTTL: idempotencyTTL,
		tokenCacheTTL:  time.Hour,
		logger:         util.GetLogger(),
	}
}

// CreateStore provisions a store with its singleton rows, 3 inactive order types and
// 7 non-working days in one transaction. The bot webhook is registered after commit; if
// that fails a registration request is queued for the bot worker. A repeated
// idempotencyKey returns the store created by the first call.
func (s *StoreService) CreateStore(ctx context.Context, schema tenant.Schema, userID int64, req models.StoreCreateRequest, idempotencyKey string) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "StoreService.CreateStore", schema.String())
	defer span.End()

	if strings.TrimSpace(req.TokenBot) == "" {
		return nil, validationf("token_bot is required")
	}
	if strings.TrimSpace(req.Info.Name) == "" {
		return nil, validationf("info.name is required")
	}

	if idempotencyKey != "" && s.redis != nil {
		id, ok, err := s.redis.GetIdempotencyKey(ctx, schema.String(), idempotencyKey)
		if err != nil {
			s.logger.Warn("Idempotency lookup failed", zap.Error(err))
		} else if ok {
			s.logger.Info("Duplicate store provisioning request detected",
				zap.String("idempotency_key", idempotencyKey),
				zap.Int64("store_id", id))
			return &Result{Status: StatusCreated, ID: id, Message: "store already provisioned"}, nil
		}
	}

	var storeID int64
	err := runTx(ctx, s.store, "create_store", func(r *store.Repo) error {
		var err error
		if storeID, err = r.CreateStore(ctx, schema, userID); err != nil {
			return fmt.Errorf("store: %w", err)
		}
		if _, err = r.CreateBotToken(ctx, req.TokenBot, userID, storeID); err != nil {
			return fmt.Errorf("bot token: %w", err)
		}
		if err = r.CreateStoreInfo(ctx, schema, storeID, req.Info); err != nil {
			return fmt.Errorf("store info: %w", err)
		}
		if err = r.CreateStoreSubscription(ctx, schema, storeID); err != nil {
			return fmt.Errorf("subscription: %w", err)
		}
		if err = r.CreateStorePayment(ctx, schema, storeID, req.Payment); err != nil {
			return fmt.Errorf("payment: %w", err)
		}
		if err = r.CreateServiceText(ctx, schema, storeID, req.ServiceText); err != nil {
			return fmt.Errorf("service text: %w", err)
		}
		if err = r.CreateLegalInfo(ctx, schema, storeID, req.Legal); err != nil {
			return fmt.Errorf("legal information: %w", err)
		}
		if err = r.CreateDefaultOrderTypes(ctx, schema, storeID, store.DefaultOrderTypes); err != nil {
			return fmt.Errorf("order types: %w", err)
		}
		if err = r.CreateDefaultWorkingDays(ctx, schema, storeID, store.DefaultDays); err != nil {
			return fmt.Errorf("working days: %w", err)
		}
		return nil
	})
	if err != nil {
		util.StoreProvisioningFailed.WithLabelValues("db_error").Inc()
		util.RecordError(span, err)
		s.logger.Error("Store provisioning rolled back", zap.String("schema", schema.String()), zap.Error(err))
		return nil, translate("bot token", err, "referenced reference data is missing")
	}

	util.StoresProvisionedTotal.Inc()
	s.logger.Info("Store provisioned", zap.String("schema", schema.String()), zap.Int64("store_id", storeID))

	if idempotencyKey != "" && s.redis != nil {
		if err := s.redis.SetIdempotencyKey(ctx, schema.String(), idempotencyKey, storeID, s.idempotencyTTL); err != nil {
			s.logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}

	bt := &models.BotToken{TokenBot: req.TokenBot, UserID: userID, StoreID: storeID}
	if s.redis != nil {
		if err := s.redis.CacheBotToken(ctx, bt, s.tokenCacheTTL); err != nil {
			s.logger.Warn("Failed to cache bot token", zap.Error(err))
		}
	}

	s.registerBot(ctx, schema, storeID, req.TokenBot)

	if s.eventPublisher != nil {
		event := &models.StoreProvisionedEvent{
			BaseEvent: models.NewBaseEvent(models.EventTypeStoreProvisioned, schema.String()),
			StoreID:   storeID,
			UserID:    userID,
		}
		if err := s.eventPublisher.PublishStoreProvisioned(ctx, event); err != nil {
			s.logger.Error("Failed to publish StoreProvisioned event", zap.Error(err))
		}
	}

	return created(storeID, req.Info), nil
}

// registerBot runs after the provisioning commit. Failures are handed to the bot worker.
func (s *StoreService) registerBot(ctx context.Context, schema tenant.Schema, storeID int64, token string) {
	reason := "registrar unavailable"
	if s.registrar != nil {
		_, err := s.registrar.Register(ctx, token)
		if err == nil {
			return
		}
		reason = err.Error()
		s.logger.Warn("Webhook registration failed, queueing retry",
			zap.String("schema", schema.String()),
			zap.Int64("store_id", storeID),
			zap.Error(err))
	}

	if s.eventPublisher == nil {
		s.logger.Error("Webhook not registered and no broker to retry through", zap.Int64("store_id", storeID))
		return
	}
	event := &models.BotRegistrationRequestedEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeBotRegistrationRequested, schema.String()),
		StoreID:   storeID,
		Token:     token,
		Reason:    reason,
	}
	if err := s.eventPublisher.PublishBotRegistrationRequested(ctx, event); err != nil {
		s.logger.Error("Failed to publish BotRegistrationRequested event", zap.Error(err))
	}
}

// ListStores returns every store of the tenant
func (s *StoreService) ListStores(ctx context.Context, schema tenant.Schema) ([]models.StoreSummary, error) {
	ctx, span := util.StartTenantSpan(ctx, "StoreService.ListStores", schema.String())
	defer span.End()

	stores, err := s.store.Repo().ListStores(ctx, schema)
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("store", err, "")
	}
	return stores, nil
}

// GetStore assembles the full aggregate of one store, including its resolved delivery pricing
func (s *StoreService) GetStore(ctx context.Context, schema tenant.Schema, userID, storeID int64) (*models.StoreDetails, error) {
	ctx, span := util.StartTenantSpan(ctx, "StoreService.GetStore", schema.String())
	defer span.End()

	r := s.store.Repo()
	st, err := r.GetStore(ctx, schema, storeID)
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("store", err, "")
	}
	details := &models.StoreDetails{Store: *st}

	optional := func(err error) error {
		if err != nil && !isNotFound(err) {
			return err
		}
		return nil
	}

	info, err := r.GetStoreInfo(ctx, schema, storeID)
	if err = optional(err); err != nil {
		return nil, translate("store", err, "")
	}
	details.Info = info
	if details.Subscription, err = r.GetStoreSubscription(ctx, schema, storeID); optional(err) != nil {
		return nil, translate("store", err, "")
	}
	if details.Payment, err = r.GetStorePayment(ctx, schema, storeID); optional(err) != nil {
		return nil, translate("store", err, "")
	}
	if details.ServiceText, err = r.GetServiceText(ctx, schema, storeID); optional(err) != nil {
		return nil, translate("store", err, "")
	}
	if details.Legal, err = r.GetLegalInfo(ctx, schema, storeID); optional(err) != nil {
		return nil, translate("store", err, "")
	}
	if details.WorkingDays, err = r.ListWorkingDays(ctx, schema, storeID); err != nil {
		return nil, translate("store", err, "")
	}
	if details.OrderTypes, err = r.ListStoreOrderTypes(ctx, schema, storeID); err != nil {
		return nil, translate("store", err, "")
	}
	if details.BotToken, err = r.GetStoreBotToken(ctx, userID, storeID); optional(err) != nil {
		return nil, translate("store", err, "")
	}
	if info != nil && info.TypeDeliveryID != nil {
		if details.DeliveryInfo, err = r.ResolveDelivery(ctx, schema, storeID, *info.TypeDeliveryID); err != nil {
			return nil, translate("store", err, "")
		}
	}
	return details, nil
}

// UpdateStoreInfo overwrites the store card
func (s *StoreService) UpdateStoreInfo(ctx context.Context, schema tenant.Schema, storeID int64, in models.StoreInfoInput) (*Result, error) {
	return s.write(ctx, schema, "update_store_info", in, func(r *store.Repo) error {
		return r.UpdateStoreInfo(ctx, schema, storeID, in)
	})
}

// GetLegalInfo returns the legal details of a store
func (s *StoreService) GetLegalInfo(ctx context.Context, schema tenant.Schema, storeID int64) (*models.LegalInformation, error) {
	l, err := s.store.Repo().GetLegalInfo(ctx, schema, storeID)
	return l, translate("legal information", err, "")
}

// UpdateLegalInfo overwrites the legal details of a store
func (s *StoreService) UpdateLegalInfo(ctx context.Context, schema tenant.Schema, storeID int64, in models.LegalInfoInput) (*Result, error) {
	return s.write(ctx, schema, "update_legal_info", in, func(r *store.Repo) error {
		return r.UpdateLegalInfo(ctx, schema, storeID, in)
	})
}

// GetServiceText returns bot texts and chat routing
func (s *StoreService) GetServiceText(ctx context.Context, schema tenant.Schema, storeID int64) (*models.ServiceTextAndChat, error) {
	st, err := s.store.Repo().GetServiceText(ctx, schema, storeID)
	return st, translate("service text", err, "")
}

// UpdateServiceText overwrites bot texts and chat routing
func (s *StoreService) UpdateServiceText(ctx context.Context, schema tenant.Schema, storeID int64, in models.ServiceTextInput) (*Result, error) {
	return s.write(ctx, schema, "update_service_text", in, func(r *store.Repo) error {
		return r.UpdateServiceText(ctx, schema, storeID, in)
	})
}

// GetPayment returns the payment settings of a store
func (s *StoreService) GetPayment(ctx context.Context, schema tenant.Schema, storeID int64) (*models.StorePayment, error) {
	p, err := s.store.Repo().GetStorePayment(ctx, schema, storeID)
	return p, translate("payment", err, "")
}

// UpdatePayment overwrites the payment settings of a store
func (s *StoreService) UpdatePayment(ctx context.Context, schema tenant.Schema, storeID int64, in models.StorePaymentInput) (*Result, error) {
	return s.write(ctx, schema, "update_payment", in, func(r *store.Repo) error {
		return r.UpdateStorePayment(ctx, schema, storeID, in)
	})
}

// TogglePayment flips an accepted payment method. Unknown names fail before any SQL runs.
func (s *StoreService) TogglePayment(ctx context.Context, schema tenant.Schema, storeID int64, field string) (*Result, error) {
	flag, err := models.ParsePaymentFlag(field)
	if err != nil {
		return nil, translate("payment", err, "")
	}
	return s.flip(ctx, schema, "payment", flag.Column(), func(r *store.Repo) (bool, error) {
		return r.FlipPaymentFlag(ctx, schema, storeID, flag)
	})
}

// SetStoreFormat selects the opening-hours format. Unknown names fail before any SQL runs.
func (s *StoreService) SetStoreFormat(ctx context.Context, schema tenant.Schema, storeID int64, field string) (*Result, error) {
	format, err := models.ParseStoreFormat(field)
	if err != nil {
		return nil, translate("store info", err, "")
	}
	res, err := s.write(ctx, schema, "set_store_format", nil, func(r *store.Repo) error {
		return r.SetStoreFormat(ctx, schema, storeID, format)
	})
	if err != nil {
		return nil, err
	}
	res.Message = fmt.Sprintf("%s selected", format.Column())
	return res, nil
}

// ToggleStoreActivity flips the subscription's active flag
func (s *StoreService) ToggleStoreActivity(ctx context.Context, schema tenant.Schema, storeID int64) (*Result, error) {
	return s.flip(ctx, schema, "subscription", "is_active", func(r *store.Repo) (bool, error) {
		return r.FlipStoreActivity(ctx, schema, storeID)
	})
}

// ToggleOrderType flips whether the store accepts an order type
func (s *StoreService) ToggleOrderType(ctx context.Context, schema tenant.Schema, storeID, orderTypeID int64) (*Result, error) {
	return s.flip(ctx, schema, "order_type", "is_active", func(r *store.Repo) (bool, error) {
		return r.FlipOrderType(ctx, schema, storeID, orderTypeID)
	})
}

// CreateOrderTypeAssociation links an extra order type to a store
func (s *StoreService) CreateOrderTypeAssociation(ctx context.Context, schema tenant.Schema, a models.StoreOrderType) (*Result, error) {
	res, err := s.write(ctx, schema, "create_order_type_association", a, func(r *store.Repo) error {
		return r.CreateOrderTypeAssociation(ctx, schema, a)
	})
	if err != nil {
		return nil, err
	}
	res.Status = StatusCreated
	return res, nil
}

// ToggleWorkingDay flips whether the store works on a day
func (s *StoreService) ToggleWorkingDay(ctx context.Context, schema tenant.Schema, storeID, dayOfWeekID int64) (*Result, error) {
	return s.flip(ctx, schema, "working_day", "is_working", func(r *store.Repo) (bool, error) {
		return r.FlipWorkingDay(ctx, schema, storeID, dayOfWeekID)
	})
}

// UpdateWorkingDay sets the opening hours of a day
func (s *StoreService) UpdateWorkingDay(ctx context.Context, schema tenant.Schema, storeID, dayOfWeekID int64, in models.WorkingDayInput) (*Result, error) {
	return s.write(ctx, schema, "update_working_day", in, func(r *store.Repo) error {
		return r.UpdateWorkingDay(ctx, schema, storeID, dayOfWeekID, in)
	})
}

// ToggleStoreDeleted flips the soft-delete flag of a store
func (s *StoreService) ToggleStoreDeleted(ctx context.Context, schema tenant.Schema, userID, storeID int64) (*Result, error) {
	return s.flip(ctx, schema, "store", "deleted_flag", func(r *store.Repo) (bool, error) {
		return r.FlipStoreDeleted(ctx, schema, storeID, userID)
	})
}

// DeleteStore hard deletes a store that owns no catalogue, customers or orders
func (s *StoreService) DeleteStore(ctx context.Context, schema tenant.Schema, storeID int64) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "StoreService.DeleteStore", schema.String())
	defer span.End()

	err := runTx(ctx, s.store, "delete_store", func(r *store.Repo) error {
		return r.DeleteStore(ctx, schema, storeID)
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("store", err, storeInUse)
	}
	return success(nil, fmt.Sprintf("store %d deleted", storeID)), nil
}

// write runs fn in a transaction and wraps data in a success result
func (s *StoreService) write(ctx context.Context, schema tenant.Schema, op string, data interface{}, fn func(r *store.Repo) error) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "StoreService."+op, schema.String())
	defer span.End()

	if err := runTx(ctx, s.store, op, fn); err != nil {
		util.RecordError(span, err)
		return nil, translate(strings.SplitN(op, "_", 2)[1], err, "referenced row does not exist")
	}
	return success(data, ""), nil
}

// flip runs a negation in a transaction and reports the new value
func (s *StoreService) flip(ctx context.Context, schema tenant.Schema, entity, field string, fn func(r *store.Repo) (bool, error)) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "StoreService.Toggle", schema.String())
	defer span.End()

	var v bool
	err := runTx(ctx, s.store, "toggle_"+entity, func(r *store.Repo) error {
		var err error
		v, err = fn(r)
		return err
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate(entity, err, "")
	}

	util.TogglesTotal.WithLabelValues(entity, field).Inc()
	return toggled(field, v), nil
}
