package models

import (
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventTypeStoreProvisioned         = "STORE_PROVISIONED"
	EventTypeBotRegistrationRequested = "BOT_REGISTRATION_REQUESTED"
	EventTypeOrderCreated             = "ORDER_CREATED"
	EventTypeCategoryDeleted          = "CATEGORY_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	Schema    string    `json:"schema"`
}

// StoreProvisionedEvent published after the provisioning transaction commits
type StoreProvisionedEvent struct {
	BaseEvent
	StoreID int64 `json:"store_id"`
	UserID  int64 `json:"user_id"`
}

// BotRegistrationRequestedEvent asks the bot worker to (re)register a webhook
type BotRegistrationRequestedEvent struct {
	BaseEvent
	StoreID int64  `json:"store_id"`
	Token   string `json:"token"`
	Reason  string `json:"reason,omitempty"`
}

// OrderCreatedEvent published when a cart is checked out
type OrderCreatedEvent struct {
	BaseEvent
	OrderID    int64         `json:"order_id"`
	StoreID    int64         `json:"store_id"`
	TgUserID   int64         `json:"tg_user_id"`
	TotalPrice int64         `json:"total_price"`
	Items      []OrderDetail `json:"items"`
}

// CategoryDeletedEvent published when a category is hard-deleted
type CategoryDeletedEvent struct {
	BaseEvent
	CategoryID int64 `json:"category_id"`
}

// NewBaseEvent stamps a fresh event id and time
func NewBaseEvent(eventType, schema string) BaseEvent {
	return BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
		Schema:    schema,
	}
}
