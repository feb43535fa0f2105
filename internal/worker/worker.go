package worker

import (
	"context"
	"fmt"
	"time"

	"store-admin/internal/broker"
	"store-admin/internal/models"
	"store-admin/internal/util"

	"go.uber.org/zap"
)

const (
	defaultMaxAttempts = 5
	defaultBaseDelay   = time.Second
)

// Registrar points a bot at the webhook endpoint
type Registrar interface {
	Register(ctx context.Context, token string) (bool, error)
}

// TokenWarmer preloads the token cache for a store
type TokenWarmer interface {
	WarmStoreToken(ctx context.Context, userID, storeID int64) error
}

// BotWorker consumes store events and finishes the bot side of provisioning: webhook
// registrations that failed inline are retried here, and new stores get their token cached.
type BotWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	registrar    Registrar
	warmer       TokenWarmer
	maxAttempts  int
	baseDelay    time.Duration
	logger       *zap.Logger
}

// NewBotWorker creates a new bot worker. warmer may be nil.
func NewBotWorker(consumer *broker.Consumer, registrar Registrar, warmer TokenWarmer) *BotWorker {
	w := &BotWorker{
		consumer:    consumer,
		registrar:   registrar,
		warmer:      warmer,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      util.GetLogger(),
	}

	w.eventHandler = broker.NewEventHandler()
	w.eventHandler.OnBotRegistrationRequested(w.handleRegistration)
	if warmer != nil {
		w.eventHandler.OnStoreProvisioned(w.handleProvisioned)
	}
	return w
}

// Start consumes until ctx is cancelled
func (w *BotWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting bot worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *BotWorker) Stop() error {
	w.logger.Info("Stopping bot worker...")
	return w.consumer.Close()
}

// handleRegistration retries with exponential backoff. Once maxAttempts are spent the
// event is dropped by the consumer; the bot sync run at server startup registers the
// webhook of every known token again.
func (w *BotWorker) handleRegistration(ctx context.Context, event *models.BotRegistrationRequestedEvent) error {
	log := w.logger.With(
		zap.String("event_id", event.EventID),
		zap.String("schema", event.Schema),
		zap.Int64("store_id", event.StoreID))

	var lastErr error
	for attempt := 0; attempt < w.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := w.baseDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		changed, err := w.registrar.Register(ctx, event.Token)
		if err == nil {
			log.Info("Bot webhook registered by worker",
				zap.Bool("changed", changed),
				zap.Int("attempt", attempt+1))
			return nil
		}
		lastErr = err
		log.Warn("Webhook registration attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}

	log.Error("Giving up webhook registration until the next bot sync",
		zap.Int("attempts", w.maxAttempts), zap.Error(lastErr))
	util.WebhookRegistrationsTotal.WithLabelValues("abandoned").Inc()
	return fmt.Errorf("webhook registration for store %d failed after %d attempts: %w",
		event.StoreID, w.maxAttempts, lastErr)
}

func (w *BotWorker) handleProvisioned(ctx context.Context, event *models.StoreProvisionedEvent) error {
	if err := w.warmer.WarmStoreToken(ctx, event.UserID, event.StoreID); err != nil {
		w.logger.Warn("Failed to warm bot token cache",
			zap.Int64("store_id", event.StoreID),
			zap.Error(err))
	}
	return nil
}
