package store

import (
	"context"
	"fmt"

	"store-admin/internal/models"
	"store-admin/internal/tenant"
)

// Fixed cardinalities of the rows every store is provisioned with.
const (
	DefaultOrderTypes = 3
	DefaultDays       = 7
)

const storeColumns = `id, user_id, created_at, created_by, updated_at, updated_by, deleted_flag, deleted_at, deleted_by`

const storeInfoColumns = `id, store_id, name, address, number_phone, mobile_phone, latitude, longitude, link_bot,
	time_zone, format_unified, format_24_7, format_custom,
	to_char(open_hours_default, 'HH24:MI') AS open_hours_default,
	to_char(close_hours_default, 'HH24:MI') AS close_hours_default,
	type_delivery_id`

// ListStores returns every store of the tenant with its name and subscription state
func (r *Repo) ListStores(ctx context.Context, schema tenant.Schema) ([]models.StoreSummary, error) {
	q, err := tenant.SQL(schema, `SELECT s.id, s.user_id, s.created_at, s.created_by, s.updated_at, s.updated_by,
			s.deleted_flag, s.deleted_at, s.deleted_by, i.name, sub.is_active
		FROM {0} s
		LEFT JOIN {1} i ON i.store_id = s.id
		LEFT JOIN {2} sub ON sub.store_id = s.id
		ORDER BY s.id DESC`, tenant.Stores, tenant.StoresInfo, tenant.StoreSubscriptions)
	if err != nil {
		return nil, err
	}
	stores := []models.StoreSummary{}
	if err := r.selectAll(ctx, &stores, q); err != nil {
		return nil, err
	}
	return stores, nil
}

// GetStore returns the store row
func (r *Repo) GetStore(ctx context.Context, schema tenant.Schema, id int64) (*models.Store, error) {
	q, err := tenant.SQL(schema, `SELECT `+storeColumns+` FROM {0} WHERE id = $1`, tenant.Stores)
	if err != nil {
		return nil, err
	}
	var s models.Store
	if err := r.get(ctx, &s, q, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateStore inserts the store root row owned by userID
func (r *Repo) CreateStore(ctx context.Context, schema tenant.Schema, userID int64) (int64, error) {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (user_id, created_by) VALUES ($1, $1) RETURNING id`, tenant.Stores)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.get(ctx, &id, q, userID)
	return id, err
}

// FlipStoreDeleted negates deleted_flag and returns the new value
func (r *Repo) FlipStoreDeleted(ctx context.Context, schema tenant.Schema, id, userID int64) (bool, error) {
	q, err := tenant.SQL(schema, `UPDATE {0} SET deleted_flag = NOT deleted_flag, deleted_at = NOW(), deleted_by = $2
		WHERE id = $1 RETURNING deleted_flag`, tenant.Stores)
	if err != nil {
		return false, err
	}
	var v bool
	err = r.get(ctx, &v, q, id, userID)
	return v, err
}

// DeleteStore removes the store and its singleton rows. Catalogue, customer or order rows
// make it fail with ErrConflict.
func (r *Repo) DeleteStore(ctx context.Context, schema tenant.Schema, id int64) error {
	q, err := tenant.SQL(schema, `DELETE FROM {0} WHERE id = $1`, tenant.Stores)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, id)
}

// CreateStoreInfo inserts the store card
func (r *Repo) CreateStoreInfo(ctx context.Context, schema tenant.Schema, storeID int64, in models.StoreInfoInput) error {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, name, address, number_phone, mobile_phone,
			latitude, longitude, link_bot, time_zone, open_hours_default, close_hours_default, type_delivery_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE(NULLIF($9, ''), 'Europe/Moscow'), $10::time, $11::time, $12)`,
		tenant.StoresInfo)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, in.Name, in.Address, in.NumberPhone, in.MobilePhone, in.Latitude, in.Longitude,
		in.LinkBot, in.TimeZone, in.OpenHoursDefault, in.CloseHoursDefault, in.TypeDeliveryID)
}

// GetStoreInfo returns the store card
func (r *Repo) GetStoreInfo(ctx context.Context, schema tenant.Schema, storeID int64) (*models.StoreInfo, error) {
	q, err := tenant.SQL(schema, `SELECT `+storeInfoColumns+` FROM {0} WHERE store_id = $1`, tenant.StoresInfo)
	if err != nil {
		return nil, err
	}
	var info models.StoreInfo
	if err := r.get(ctx, &info, q, storeID); err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdateStoreInfo overwrites the writable card columns
func (r *Repo) UpdateStoreInfo(ctx context.Context, schema tenant.Schema, storeID int64, in models.StoreInfoInput) error {
	q, err := tenant.SQL(schema, `UPDATE {0} SET name = $2, address = $3, number_phone = $4, mobile_phone = $5,
			latitude = $6, longitude = $7, link_bot = $8, time_zone = COALESCE(NULLIF($9, ''), time_zone),
			open_hours_default = $10::time, close_hours_default = $11::time, type_delivery_id = $12
		WHERE store_id = $1`, tenant.StoresInfo)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, in.Name, in.Address, in.NumberPhone, in.MobilePhone, in.Latitude, in.Longitude,
		in.LinkBot, in.TimeZone, in.OpenHoursDefault, in.CloseHoursDefault, in.TypeDeliveryID)
}

// SetStoreFormat turns on one opening-hours format and turns the others off
func (r *Repo) SetStoreFormat(ctx context.Context, schema tenant.Schema, storeID int64, format models.StoreFormat) error {
	set := ""
	for i, f := range models.StoreFormats {
		if i > 0 {
			set += ", "
		}
		set += fmt.Sprintf("%s = %t", f.Column(), f == format)
	}
	q, err := tenant.SQL(schema, `UPDATE {0} SET `+set+` WHERE store_id = $1`, tenant.StoresInfo)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID)
}

// CreateStoreSubscription inserts an inactive subscription
func (r *Repo) CreateStoreSubscription(ctx context.Context, schema tenant.Schema, storeID int64) error {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id) VALUES ($1)`, tenant.StoreSubscriptions)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID)
}

// GetStoreSubscription returns the subscription of a store
func (r *Repo) GetStoreSubscription(ctx context.Context, schema tenant.Schema, storeID int64) (*models.StoreSubscription, error) {
	q, err := tenant.SQL(schema, `SELECT id, store_id, is_active, subscription_start_date,
		subscription_duration_months, paused_at FROM {0} WHERE store_id = $1`, tenant.StoreSubscriptions)
	if err != nil {
		return nil, err
	}
	var sub models.StoreSubscription
	if err := r.get(ctx, &sub, q, storeID); err != nil {
		return nil, err
	}
	return &sub, nil
}

// FlipStoreActivity negates the subscription's is_active and returns the new value
func (r *Repo) FlipStoreActivity(ctx context.Context, schema tenant.Schema, storeID int64) (bool, error) {
	q, err := tenant.SQL(schema, `UPDATE {0} SET is_active = NOT is_active WHERE store_id = $1 RETURNING is_active`,
		tenant.StoreSubscriptions)
	if err != nil {
		return false, err
	}
	var v bool
	err = r.get(ctx, &v, q, storeID)
	return v, err
}

// CreateStorePayment inserts the payment settings
func (r *Repo) CreateStorePayment(ctx context.Context, schema tenant.Schema, storeID int64, in models.StorePaymentInput) error {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, cash, card, min_delivery_amount, min_order_amount_for_free_delivery)
		VALUES ($1, $2, $3, $4, $5)`, tenant.StorePayments)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, in.Cash, in.Card, in.MinDeliveryAmount, in.MinOrderAmountForFreeDelivery)
}

// GetStorePayment returns the payment settings
func (r *Repo) GetStorePayment(ctx context.Context, schema tenant.Schema, storeID int64) (*models.StorePayment, error) {
	q, err := tenant.SQL(schema, `SELECT id, store_id, cash, card, min_delivery_amount, min_order_amount_for_free_delivery
		FROM {0} WHERE store_id = $1`, tenant.StorePayments)
	if err != nil {
		return nil, err
	}
	var p models.StorePayment
	if err := r.get(ctx, &p, q, storeID); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStorePayment overwrites the payment settings
func (r *Repo) UpdateStorePayment(ctx context.Context, schema tenant.Schema, storeID int64, in models.StorePaymentInput) error {
	q, err := tenant.SQL(schema, `UPDATE {0} SET cash = $2, card = $3, min_delivery_amount = $4,
		min_order_amount_for_free_delivery = $5 WHERE store_id = $1`, tenant.StorePayments)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, in.Cash, in.Card, in.MinDeliveryAmount, in.MinOrderAmountForFreeDelivery)
}

// FlipPaymentFlag negates one accepted payment method and returns the new value
func (r *Repo) FlipPaymentFlag(ctx context.Context, schema tenant.Schema, storeID int64, flag models.PaymentFlag) (bool, error) {
	col := flag.Column()
	q, err := tenant.SQL(schema, `UPDATE {0} SET `+col+` = NOT `+col+` WHERE store_id = $1 RETURNING `+col,
		tenant.StorePayments)
	if err != nil {
		return false, err
	}
	var v bool
	err = r.get(ctx, &v, q, storeID)
	return v, err
}

// CreateServiceText inserts the bot texts and chat routing
func (r *Repo) CreateServiceText(ctx context.Context, schema tenant.Schema, storeID int64, in models.ServiceTextInput) error {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, email, welcome_message_bot, welcome_image, tg_id_group,
			delivery_chat, order_chat, completed_orders_chat, canceled_orders_chat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, tenant.ServiceTextAndChats)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, in.Email, in.WelcomeMessageBot, in.WelcomeImage, in.TgIDGroup,
		in.DeliveryChat, in.OrderChat, in.CompletedOrdersChat, in.CanceledOrdersChat)
}

// GetServiceText returns the bot texts and chat routing
func (r *Repo) GetServiceText(ctx context.Context, schema tenant.Schema, storeID int64) (*models.ServiceTextAndChat, error) {
	q, err := tenant.SQL(schema, `SELECT id, store_id, email, welcome_message_bot, welcome_image, tg_id_group,
		delivery_chat, order_chat, completed_orders_chat, canceled_orders_chat
		FROM {0} WHERE store_id = $1`, tenant.ServiceTextAndChats)
	if err != nil {
		return nil, err
	}
	var st models.ServiceTextAndChat
	if err := r.get(ctx, &st, q, storeID); err != nil {
		return nil, err
	}
	return &st, nil
}

// UpdateServiceText overwrites the bot texts and chat routing
func (r *Repo) UpdateServiceText(ctx context.Context, schema tenant.Schema, storeID int64, in models.ServiceTextInput) error {
	q, err := tenant.SQL(schema, `UPDATE {0} SET email = $2, welcome_message_bot = $3, welcome_image = $4,
		tg_id_group = $5, delivery_chat = $6, order_chat = $7, completed_orders_chat = $8, canceled_orders_chat = $9
		WHERE store_id = $1`, tenant.ServiceTextAndChats)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, in.Email, in.WelcomeMessageBot, in.WelcomeImage, in.TgIDGroup,
		in.DeliveryChat, in.OrderChat, in.CompletedOrdersChat, in.CanceledOrdersChat)
}

// CreateLegalInfo inserts the legal details
func (r *Repo) CreateLegalInfo(ctx context.Context, schema tenant.Schema, storeID int64, in models.LegalInfoInput) error {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, full_organization_name, legal_address,
			legal_number_phone, inn, ogrn, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, tenant.LegalInformations)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, in.FullOrganizationName, in.LegalAddress, in.LegalNumberPhone,
		in.INN, in.OGRN, in.PostalCode)
}

// GetLegalInfo returns the legal details
func (r *Repo) GetLegalInfo(ctx context.Context, schema tenant.Schema, storeID int64) (*models.LegalInformation, error) {
	q, err := tenant.SQL(schema, `SELECT id, store_id, full_organization_name, legal_address, legal_number_phone,
		inn, ogrn, postal_code FROM {0} WHERE store_id = $1`, tenant.LegalInformations)
	if err != nil {
		return nil, err
	}
	var l models.LegalInformation
	if err := r.get(ctx, &l, q, storeID); err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateLegalInfo overwrites the legal details
func (r *Repo) UpdateLegalInfo(ctx context.Context, schema tenant.Schema, storeID int64, in models.LegalInfoInput) error {
	q, err := tenant.SQL(schema, `UPDATE {0} SET full_organization_name = $2, legal_address = $3,
		legal_number_phone = $4, inn = $5, ogrn = $6, postal_code = $7 WHERE store_id = $1`, tenant.LegalInformations)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, in.FullOrganizationName, in.LegalAddress, in.LegalNumberPhone,
		in.INN, in.OGRN, in.PostalCode)
}

// CreateDefaultOrderTypes associates order types 1..n with the store, all inactive
func (r *Repo) CreateDefaultOrderTypes(ctx context.Context, schema tenant.Schema, storeID int64, n int) error {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, order_type_id, is_active)
		SELECT $1, g, FALSE FROM generate_series(1, $2::int) AS g`, tenant.StoreOrderTypes)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, n)
}

// CreateOrderTypeAssociation links one order type to a store
func (r *Repo) CreateOrderTypeAssociation(ctx context.Context, schema tenant.Schema, a models.StoreOrderType) error {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, order_type_id, is_active) VALUES ($1, $2, $3)`,
		tenant.StoreOrderTypes)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, a.StoreID, a.OrderTypeID, a.IsActive)
}

// ListStoreOrderTypes returns the order-type associations with their names
func (r *Repo) ListStoreOrderTypes(ctx context.Context, schema tenant.Schema, storeID int64) ([]models.StoreOrderType, error) {
	q, err := tenant.SQL(schema, `SELECT a.store_id, a.order_type_id, ot.name AS order_type_name, a.is_active
		FROM {0} a LEFT JOIN {1} ot ON ot.id = a.order_type_id
		WHERE a.store_id = $1 ORDER BY a.order_type_id`, tenant.StoreOrderTypes, tenant.OrderTypes)
	if err != nil {
		return nil, err
	}
	types := []models.StoreOrderType{}
	if err := r.selectAll(ctx, &types, q, storeID); err != nil {
		return nil, err
	}
	return types, nil
}

// FlipOrderType negates whether the store accepts an order type and returns the new value
func (r *Repo) FlipOrderType(ctx context.Context, schema tenant.Schema, storeID, orderTypeID int64) (bool, error) {
	q, err := tenant.SQL(schema, `UPDATE {0} SET is_active = NOT is_active
		WHERE store_id = $1 AND order_type_id = $2 RETURNING is_active`, tenant.StoreOrderTypes)
	if err != nil {
		return false, err
	}
	var v bool
	err = r.get(ctx, &v, q, storeID, orderTypeID)
	return v, err
}

// CreateDefaultWorkingDays inserts days 1..n for the store, none of them working
func (r *Repo) CreateDefaultWorkingDays(ctx context.Context, schema tenant.Schema, storeID int64, n int) error {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, day_of_week_id, is_working)
		SELECT $1, g, FALSE FROM generate_series(1, $2::int) AS g`, tenant.WorkingDays)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, n)
}

// ListWorkingDays returns the seven day rows of a store with the day names
func (r *Repo) ListWorkingDays(ctx context.Context, schema tenant.Schema, storeID int64) ([]models.WorkingDay, error) {
	q, err := tenant.SQL(schema, `SELECT w.store_id, w.day_of_week_id, d.day_of_week,
			to_char(w.opening_time, 'HH24:MI') AS opening_time,
			to_char(w.closing_time, 'HH24:MI') AS closing_time, w.is_working
		FROM {0} w LEFT JOIN {1} d ON d.id = w.day_of_week_id
		WHERE w.store_id = $1 ORDER BY w.day_of_week_id`, tenant.WorkingDays, tenant.DaysOfWeek)
	if err != nil {
		return nil, err
	}
	days := []models.WorkingDay{}
	if err := r.selectAll(ctx, &days, q, storeID); err != nil {
		return nil, err
	}
	return days, nil
}

// FlipWorkingDay negates is_working for one day and returns the new value
func (r *Repo) FlipWorkingDay(ctx context.Context, schema tenant.Schema, storeID, dayOfWeekID int64) (bool, error) {
	q, err := tenant.SQL(schema, `UPDATE {0} SET is_working = NOT is_working
		WHERE store_id = $1 AND day_of_week_id = $2 RETURNING is_working`, tenant.WorkingDays)
	if err != nil {
		return false, err
	}
	var v bool
	err = r.get(ctx, &v, q, storeID, dayOfWeekID)
	return v, err
}

// UpdateWorkingDay sets the opening hours of one day
func (r *Repo) UpdateWorkingDay(ctx context.Context, schema tenant.Schema, storeID, dayOfWeekID int64, in models.WorkingDayInput) error {
	q, err := tenant.SQL(schema, `UPDATE {0} SET opening_time = $3::time, closing_time = $4::time
		WHERE store_id = $1 AND day_of_week_id = $2`, tenant.WorkingDays)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, storeID, dayOfWeekID, in.OpeningTime, in.ClosingTime)
}
