package models

import "time"

// Audit holds the creation, update and soft-delete stamps shared by catalogue rows.
type Audit struct {
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CreatedBy   int64      `db:"created_by" json:"created_by"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
	UpdatedBy   *int64     `db:"updated_by" json:"updated_by,omitempty"`
	DeletedFlag bool       `db:"deleted_flag" json:"deleted_flag"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	DeletedBy   *int64     `db:"deleted_by" json:"deleted_by,omitempty"`
}

// Category groups products of one store
type Category struct {
	ID           int64   `db:"id" json:"id"`
	StoreID      int64   `db:"store_id" json:"store_id"`
	Name         string  `db:"name" json:"name"`
	NameRus      *string `db:"name_rus" json:"name_rus,omitempty"`
	Image        *string `db:"image" json:"image,omitempty"`
	Availability bool    `db:"availability" json:"availability"`
	Audit
}

// Product represents a product in a store catalogue
type Product struct {
	ID           int64   `db:"id" json:"id"`
	StoreID      int64   `db:"store_id" json:"store_id"`
	CategoryID   int64   `db:"category_id" json:"category_id"`
	Name         string  `db:"name" json:"name"`
	Description  *string `db:"description" json:"description,omitempty"`
	Price        int64   `db:"price" json:"price"`
	Image        *string `db:"image" json:"image,omitempty"`
	Availability bool    `db:"availability" json:"availability"`
	IsPopular    bool    `db:"is_popular" json:"is_popular"`
	IsNew        bool    `db:"is_new" json:"is_new"`
	Audit
}

// Store is the tenant-owned root aggregate
type Store struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	CreatedBy   int64      `db:"created_by" json:"created_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
	UpdatedBy   *int64     `db:"updated_by" json:"updated_by,omitempty"`
	DeletedFlag bool       `db:"deleted_flag" json:"deleted_flag"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	DeletedBy   *int64     `db:"deleted_by" json:"deleted_by,omitempty"`
}

// StoreInfo holds the public card of a store. TypeDeliveryID selects the delivery table.
type StoreInfo struct {
	ID                int64    `db:"id" json:"id"`
	StoreID           int64    `db:"store_id" json:"store_id"`
	Name              string   `db:"name" json:"name"`
	Address           *string  `db:"address" json:"address,omitempty"`
	NumberPhone       *string  `db:"number_phone" json:"number_phone,omitempty"`
	MobilePhone       *string  `db:"mobile_phone" json:"mobile_phone,omitempty"`
	Latitude          *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude         *float64 `db:"longitude" json:"longitude,omitempty"`
	LinkBot           *string  `db:"link_bot" json:"link_bot,omitempty"`
	TimeZone          string   `db:"time_zone" json:"time_zone"`
	FormatUnified     bool     `db:"format_unified" json:"format_unified"`
	Format247         bool     `db:"format_24_7" json:"format_24_7"`
	FormatCustom      bool     `db:"format_custom" json:"format_custom"`
	OpenHoursDefault  *string  `db:"open_hours_default" json:"open_hours_default,omitempty"`
	CloseHoursDefault *string  `db:"close_hours_default" json:"close_hours_default,omitempty"`
	TypeDeliveryID    *int64   `db:"type_delivery_id" json:"type_delivery_id,omitempty"`
}

// StoreSubscription is the billing window of a store
type StoreSubscription struct {
	ID                         int64      `db:"id" json:"id"`
	StoreID                    int64      `db:"store_id" json:"store_id"`
	IsActive                   bool       `db:"is_active" json:"is_active"`
	SubscriptionStartDate      *time.Time `db:"subscription_start_date" json:"subscription_start_date,omitempty"`
	SubscriptionDurationMonths *int       `db:"subscription_duration_months" json:"subscription_duration_months,omitempty"`
	PausedAt                   *time.Time `db:"paused_at" json:"paused_at,omitempty"`
}

// StorePayment lists accepted payment methods and order minimums
type StorePayment struct {
	ID                            int64  `db:"id" json:"id"`
	StoreID                       int64  `db:"store_id" json:"store_id"`
	Cash                          bool   `db:"cash" json:"cash"`
	Card                          bool   `db:"card" json:"card"`
	MinDeliveryAmount             *int64 `db:"min_delivery_amount" json:"min_delivery_amount,omitempty"`
	MinOrderAmountForFreeDelivery *int64 `db:"min_order_amount_for_free_delivery" json:"min_order_amount_for_free_delivery,omitempty"`
}

// ServiceTextAndChat holds bot texts and the Telegram chats orders are routed to
type ServiceTextAndChat struct {
	ID                  int64   `db:"id" json:"id"`
	StoreID             int64   `db:"store_id" json:"store_id"`
	Email               *string `db:"email" json:"email,omitempty"`
	WelcomeMessageBot   *string `db:"welcome_message_bot" json:"welcome_message_bot,omitempty"`
	WelcomeImage        *string `db:"welcome_image" json:"welcome_image,omitempty"`
	TgIDGroup           *int64  `db:"tg_id_group" json:"tg_id_group,omitempty"`
	DeliveryChat        *int64  `db:"delivery_chat" json:"delivery_chat,omitempty"`
	OrderChat           *int64  `db:"order_chat" json:"order_chat,omitempty"`
	CompletedOrdersChat *int64  `db:"completed_orders_chat" json:"completed_orders_chat,omitempty"`
	CanceledOrdersChat  *int64  `db:"canceled_orders_chat" json:"canceled_orders_chat,omitempty"`
}

// LegalInformation of the organisation running a store
type LegalInformation struct {
	ID                   int64   `db:"id" json:"id"`
	StoreID              int64   `db:"store_id" json:"store_id"`
	FullOrganizationName *string `db:"full_organization_name" json:"full_organization_name,omitempty"`
	LegalAddress         *string `db:"legal_address" json:"legal_address,omitempty"`
	LegalNumberPhone     *string `db:"legal_number_phone" json:"legal_number_phone,omitempty"`
	INN                  *int64  `db:"inn" json:"inn,omitempty"`
	OGRN                 *int64  `db:"ogrn" json:"ogrn,omitempty"`
	PostalCode           *int64  `db:"postal_code" json:"postal_code,omitempty"`
}

// WorkingDay is one of the seven per-store opening-hour rows
type WorkingDay struct {
	StoreID     int64   `db:"store_id" json:"store_id"`
	DayOfWeekID int64   `db:"day_of_week_id" json:"day_of_week_id"`
	DayOfWeek   *string `db:"day_of_week" json:"day_of_week,omitempty"`
	OpeningTime *string `db:"opening_time" json:"opening_time,omitempty"`
	ClosingTime *string `db:"closing_time" json:"closing_time,omitempty"`
	IsWorking   bool    `db:"is_working" json:"is_working"`
}

// StoreOrderType enables one of the shared order types for a store
type StoreOrderType struct {
	StoreID       int64   `db:"store_id" json:"store_id"`
	OrderTypeID   int64   `db:"order_type_id" json:"order_type_id"`
	OrderTypeName *string `db:"order_type_name" json:"order_type_name,omitempty"`
	IsActive      bool    `db:"is_active" json:"is_active"`
}

// BotToken links a Telegram bot to a store. Lives in the public schema.
type BotToken struct {
	ID       int64  `db:"id" json:"id"`
	TokenBot string `db:"token_bot" json:"token_bot"`
	UserID   int64  `db:"user_id" json:"user_id"`
	StoreID  int64  `db:"store_id" json:"store_id"`
}

// OrderType is shared reference data (delivery, pickup, in-house)
type OrderType struct {
	ID    int64   `db:"id" json:"id" yaml:"id"`
	Name  string  `db:"name" json:"name" yaml:"name"`
	Image *string `db:"image" json:"image,omitempty" yaml:"image,omitempty"`
}

// DayOfWeek is shared reference data
type DayOfWeek struct {
	ID        int64  `db:"id" json:"id" yaml:"id"`
	DayOfWeek string `db:"day_of_week" json:"day_of_week" yaml:"day_of_week"`
	NumberDay int    `db:"number_day" json:"number_day" yaml:"number_day"`
}

// TypeDelivery is shared reference data for StoreInfo.TypeDeliveryID
type TypeDelivery struct {
	ID           int64  `db:"id" json:"id" yaml:"id"`
	DeliveryName string `db:"delivery_name" json:"delivery_name" yaml:"delivery_name"`
}

// DeliveryFix is a flat delivery price
type DeliveryFix struct {
	ID      int64 `db:"id" json:"id"`
	StoreID int64 `db:"store_id" json:"store_id"`
	Price   int64 `db:"price" json:"price"`
}

// DeliveryDistrict is one priced district of a store
type DeliveryDistrict struct {
	ID      int64  `db:"id" json:"id"`
	StoreID int64  `db:"store_id" json:"store_id"`
	Name    string `db:"name" json:"name"`
	Price   int64  `db:"price" json:"price"`
}

// DeliveryDistance prices delivery by distance
type DeliveryDistance struct {
	ID         int64 `db:"id" json:"id"`
	StoreID    int64 `db:"store_id" json:"store_id"`
	StartPrice int64 `db:"start_price" json:"start_price"`
	PricePerKm int64 `db:"price_per_km" json:"price_per_km"`
	MinPrice   int64 `db:"min_price" json:"min_price"`
}

// Delivery type discriminators of StoreInfo.TypeDeliveryID
const (
	DeliveryTypeFix      = 1
	DeliveryTypeDistrict = 2
	DeliveryTypeDistance = 3
)

// DeliveryInfo is the resolved pricing strategy of a store. Exactly one field is set.
type DeliveryInfo struct {
	TypeDeliveryID int64              `json:"type_delivery_id"`
	Fix            *DeliveryFix       `json:"fix,omitempty"`
	Districts      []DeliveryDistrict `json:"districts,omitempty"`
	Distance       *DeliveryDistance  `json:"distance,omitempty"`
}

// StoreSummary is a row of the store list
type StoreSummary struct {
	Store
	Name     *string `db:"name" json:"name,omitempty"`
	IsActive *bool   `db:"is_active" json:"is_active,omitempty"`
}

// StoreDetails is the full aggregate of one store
type StoreDetails struct {
	Store        Store               `json:"store"`
	Info         *StoreInfo          `json:"info,omitempty"`
	Subscription *StoreSubscription  `json:"subscription,omitempty"`
	Payment      *StorePayment       `json:"payment,omitempty"`
	ServiceText  *ServiceTextAndChat `json:"service_text_and_chats,omitempty"`
	Legal        *LegalInformation   `json:"legal_information,omitempty"`
	WorkingDays  []WorkingDay        `json:"working_days"`
	OrderTypes   []StoreOrderType    `json:"order_types"`
	BotToken     *BotToken           `json:"bot_token,omitempty"`
	DeliveryInfo *DeliveryInfo       `json:"delivery_info,omitempty"`
}

// Customer is a Telegram user who interacted with a store bot
type Customer struct {
	ID        int64     `db:"id" json:"id"`
	StoreID   int64     `db:"store_id" json:"store_id"`
	TgUserID  int64     `db:"tg_user_id" json:"tg_user_id"`
	Resource  *string   `db:"resource" json:"resource,omitempty"`
	FirstName *string   `db:"first_name" json:"first_name,omitempty"`
	LastName  *string   `db:"last_name" json:"last_name,omitempty"`
	Username  *string   `db:"username" json:"username,omitempty"`
	IsPremium *bool     `db:"is_premium" json:"is_premium,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Mail is a broadcast message prepared for a store's customers
type Mail struct {
	ID      int64   `db:"id" json:"id"`
	StoreID int64   `db:"store_id" json:"store_id"`
	Title   string  `db:"title" json:"title"`
	Text    *string `db:"text" json:"text,omitempty"`
	Image   *string `db:"image" json:"image,omitempty"`
	Audit
}

// CartLine is a cart row joined with its product
type CartLine struct {
	ProductID int64   `db:"product_id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Image     *string `db:"image" json:"image,omitempty"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice int64   `db:"unit_price" json:"unit_price"`
}

// Cart is the current basket of a customer in a store
type Cart struct {
	Items      []CartLine `json:"cart_items"`
	TotalPrice int64      `json:"total_price"`
}

// Order represents a customer order
type Order struct {
	ID          int64     `db:"id" json:"id"`
	StoreID     int64     `db:"store_id" json:"store_id"`
	TgUserID    int64     `db:"tg_user_id" json:"tg_user_id"`
	OrderTypeID int64     `db:"order_type_id" json:"order_type_id"`
	TotalPrice  int64     `db:"total_price" json:"total_price"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// OrderDetail represents items in an order
type OrderDetail struct {
	ID        int64 `db:"id" json:"id"`
	OrderID   int64 `db:"order_id" json:"order_id"`
	StoreID   int64 `db:"store_id" json:"store_id"`
	ProductID int64 `db:"product_id" json:"product_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
	UnitPrice int64 `db:"unit_price" json:"unit_price"`
}

// OrderCustomerInfo is the contact data captured at checkout
type OrderCustomerInfo struct {
	ID              int64   `db:"id" json:"id"`
	OrderID         int64   `db:"order_id" json:"order_id"`
	StoreID         int64   `db:"store_id" json:"store_id"`
	TgUserName      *string `db:"tg_user_name" json:"tg_user_name,omitempty"`
	TableNumber     *string `db:"table_number" json:"table_number,omitempty"`
	DeliveryAddress *string `db:"delivery_address" json:"delivery_address,omitempty"`
	CustomerName    *string `db:"customer_name" json:"customer_name,omitempty"`
	CustomerPhone   *string `db:"customer_phone" json:"customer_phone,omitempty"`
	CustomerComment *string `db:"customer_comment" json:"customer_comment,omitempty"`
}

// Order statuses
const (
	OrderStatusCreated   = "CREATED"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// User is an administrator; its id is the tenant key
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// OrderView is an order with its lines
type OrderView struct {
	Order
	Details []OrderDetail `json:"details"`
}
