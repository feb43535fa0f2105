package models

// CategoryInput is the writable part of a category
type CategoryInput struct {
	StoreID      int64   `json:"store_id" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	NameRus      *string `json:"name_rus"`
	Image        *string `json:"image"`
	Availability bool    `json:"availability"`
}

// ProductInput is the writable part of a product
type ProductInput struct {
	StoreID      int64   `json:"store_id" binding:"required"`
	CategoryID   int64   `json:"category_id" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	Price        int64   `json:"price"`
	Image        *string `json:"image"`
	Availability bool    `json:"availability"`
	IsPopular    bool    `json:"is_popular"`
	IsNew        bool    `json:"is_new"`
}

// StoreCreateRequest carries everything needed to provision a store
type StoreCreateRequest struct {
	TokenBot    string            `json:"token_bot" binding:"required"`
	Info        StoreInfoInput    `json:"info"`
	Payment     StorePaymentInput `json:"payment"`
	ServiceText ServiceTextInput  `json:"service_text_and_chats"`
	Legal       LegalInfoInput    `json:"legal_information"`
}

// StoreInfoInput is the writable part of StoreInfo
type StoreInfoInput struct {
	Name              string   `json:"name" binding:"required"`
	Address           *string  `json:"address"`
	NumberPhone       *string  `json:"number_phone"`
	MobilePhone       *string  `json:"mobile_phone"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	LinkBot           *string  `json:"link_bot"`
	TimeZone          string   `json:"time_zone"`
	OpenHoursDefault  *string  `json:"open_hours_default"`
	CloseHoursDefault *string  `json:"close_hours_default"`
	TypeDeliveryID    *int64   `json:"type_delivery_id"`
}

// StorePaymentInput is the writable part of StorePayment
type StorePaymentInput struct {
	Cash                          bool   `json:"cash"`
	Card                          bool   `json:"card"`
	MinDeliveryAmount             *int64 `json:"min_delivery_amount"`
	MinOrderAmountForFreeDelivery *int64 `json:"min_order_amount_for_free_delivery"`
}

// ServiceTextInput is the writable part of ServiceTextAndChat
type ServiceTextInput struct {
	Email               *string `json:"email"`
	WelcomeMessageBot   *string `json:"welcome_message_bot"`
	WelcomeImage        *string `json:"welcome_image"`
	TgIDGroup           *int64  `json:"tg_id_group"`
	DeliveryChat        *int64  `json:"delivery_chat"`
	OrderChat           *int64  `json:"order_chat"`
	CompletedOrdersChat *int64  `json:"completed_orders_chat"`
	CanceledOrdersChat  *int64  `json:"canceled_orders_chat"`
}

// LegalInfoInput is the writable part of LegalInformation
type LegalInfoInput struct {
	FullOrganizationName *string `json:"full_organization_name"`
	LegalAddress         *string `json:"legal_address"`
	LegalNumberPhone     *string `json:"legal_number_phone"`
	INN                  *int64  `json:"inn"`
	OGRN                 *int64  `json:"ogrn"`
	PostalCode           *int64  `json:"postal_code"`
}

// WorkingDayInput sets the hours of one day
type WorkingDayInput struct {
	OpeningTime *string `json:"opening_time"`
	ClosingTime *string `json:"closing_time"`
}

// DeliveryDistrictInput is the writable part of DeliveryDistrict
type DeliveryDistrictInput struct {
	Name  string `json:"name" binding:"required"`
	Price int64  `json:"price"`
}

// DeliveryDistanceInput is the writable part of DeliveryDistance
type DeliveryDistanceInput struct {
	StartPrice int64 `json:"start_price"`
	PricePerKm int64 `json:"price_per_km"`
	MinPrice   int64 `json:"min_price"`
}

// CustomerInput is the writable part of a customer
type CustomerInput struct {
	StoreID   int64   `json:"store_id" binding:"required"`
	TgUserID  int64   `json:"tg_user_id" binding:"required"`
	Resource  *string `json:"resource"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
	IsPremium *bool   `json:"is_premium"`
}

// MailInput is the writable part of a mail
type MailInput struct {
	StoreID int64   `json:"store_id" binding:"required"`
	Title   string  `json:"title" binding:"required"`
	Text    *string `json:"text"`
	Image   *string `json:"image"`
}

// CartItemInput identifies one product in a customer's cart
type CartItemInput struct {
	StoreID   int64 `json:"store_id" binding:"required"`
	TgUserID  int64 `json:"tg_user_id" binding:"required"`
	ProductID int64 `json:"product_id" binding:"required"`
}

// CheckoutRequest turns a cart into an order
type CheckoutRequest struct {
	StoreID            int64   `json:"store_id" binding:"required"`
	TgUserID           int64   `json:"tg_user_id" binding:"required"`
	OrderTypeID        int64   `json:"order_type_id" binding:"required"`
	DeliveryDistrictID *int64  `json:"delivery_district_id"`
	TgUserName         *string `json:"tg_user_name"`
	TableNumber        *string `json:"table_number"`
	DeliveryAddress    *string `json:"delivery_address"`
	CustomerName       *string `json:"customer_name"`
	CustomerPhone      *string `json:"customer_phone"`
	CustomerComment    *string `json:"customer_comment"`
}
