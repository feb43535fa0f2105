package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"store-admin/internal/models"
	"store-admin/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrInvalidUpdate is returned by Relay for a body that is not JSON
var ErrInvalidUpdate = errors.New("update is not valid JSON")

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func storeKey(schema string, storeID int64) string {
	return fmt.Sprintf("%s-store-%d", schema, storeID)
}

// PublishStoreProvisioned publishes StoreProvisioned event
func (ep *EventPublisher) PublishStoreProvisioned(ctx context.Context, event *models.StoreProvisionedEvent) error {
	return ep.producer.PublishEvent(ctx, storeKey(event.Schema, event.StoreID), event)
}

// PublishBotRegistrationRequested publishes BotRegistrationRequested event
func (ep *EventPublisher) PublishBotRegistrationRequested(ctx context.Context, event *models.BotRegistrationRequestedEvent) error {
	return ep.producer.PublishEvent(ctx, storeKey(event.Schema, event.StoreID), event)
}

// PublishOrderCreated publishes OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, storeKey(event.Schema, event.StoreID), event)
}

// PublishCategoryDeleted publishes CategoryDeleted event
func (ep *EventPublisher) PublishCategoryDeleted(ctx context.Context, event *models.CategoryDeletedEvent) error {
	key := fmt.Sprintf("%s-category-%d", event.Schema, event.CategoryID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// UpdateRelay forwards raw Telegram updates to the bot dispatcher topic
type UpdateRelay struct {
	producer *Producer
}

// NewUpdateRelay creates a relay over a producer bound to TopicBotUpdates
func NewUpdateRelay(producer *Producer) *UpdateRelay {
	return &UpdateRelay{producer: producer}
}

// Relay publishes one update keyed by its store so updates of a bot stay ordered
func (r *UpdateRelay) Relay(ctx context.Context, bt *models.BotToken, update []byte) error {
	if !json.Valid(update) {
		return ErrInvalidUpdate
	}
	headers := map[string]string{
		"schema":   strconv.FormatInt(bt.UserID, 10),
		"store_id": strconv.FormatInt(bt.StoreID, 10),
	}
	return r.producer.Publish(ctx, storeKey(headers["schema"], bt.StoreID), update, headers)
}

// EventHandler handles incoming events
type EventHandler struct {
	onBotRegistrationRequested func(context.Context, *models.BotRegistrationRequestedEvent) error
	onStoreProvisioned         func(context.Context, *models.StoreProvisionedEvent) error
	logger *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnBotRegistrationRequested registers a handler for BotRegistrationRequested events
func (eh *EventHandler) OnBotRegistrationRequested(handler func(context.Context, *models.BotRegistrationRequestedEvent) error) {
	eh.onBotRegistrationRequested = handler
}

// OnStoreProvisioned registers a handler for StoreProvisioned events
func (eh *EventHandler) OnStoreProvisioned(handler func(context.Context, *models.StoreProvisionedEvent) error) {
	eh.onStoreProvisioned = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID),
		zap.String("schema", baseEvent.Schema))

	switch baseEvent.EventType {
	case models.EventTypeBotRegistrationRequested:
		if eh.onBotRegistrationRequested != nil {
			var event models.BotRegistrationRequestedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal BotRegistrationRequested event: %w", err)
			}
			return eh.onBotRegistrationRequested(ctx, &event)
		}

	case models.EventTypeStoreProvisioned:
		if eh.onStoreProvisioned != nil {
			var event models.StoreProvisionedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal StoreProvisioned event: %w", err)
			}
			return eh.onStoreProvisioned(ctx, &event)
		}

	default:
		eh.logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
