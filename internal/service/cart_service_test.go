package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"store-admin/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cartLineColumns = []string{"product_id", "name", "image", "quantity", "unit_price"}

func TestCalculateTotal(t *testing.T) {
	cs := &CartService{}

	lines := []models.CartLine{
		{ProductID: 1, Quantity: 2, UnitPrice: 1000},
		{ProductID: 2, Quantity: 1, UnitPrice: 500},
	}

	assert.Equal(t, int64(2*1000+1*500), cs.calculateTotal(lines))
	assert.Zero(t, cs.calculateTotal(nil))
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	st, mock := newMockStore(t)
	pub, w := newPublisher()
	svc := NewCartService(st, pub)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "42"."carts"`)).
		WithArgs(int64(1), int64(777)).
		WillReturnRows(sqlmock.NewRows(cartLineColumns).
			AddRow(10, "Latte", nil, 2, 250).
			AddRow(11, "Bagel", nil, 1, 150))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "42"."orders"`)).
		WithArgs(int64(1), int64(777), int64(2), nil, int64(650), models.OrderStatusCreated).
		WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "tg_user_id", "order_type_id", "total_price", "status", "created_at"}).
			AddRow(100, 1, 777, 2, 650, models.OrderStatusCreated, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "42"."order_details"`)).
		WithArgs(int64(100), int64(1), int64(10), 2, int64(250)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "42"."order_details"`)).
		WithArgs(int64(100), int64(1), int64(11), 1, int64(150)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "42"."order_customer_info"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "42"."carts"`)).
		WithArgs(int64(1), int64(777)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	res, err := svc.Checkout(context.Background(), "42", models.CheckoutRequest{StoreID: 1, TgUserID: 777, OrderTypeID: 2})

	require.NoError(t, err)
	assert.Equal(t, StatusCreated, res.Status)
	assert.Equal(t, int64(100), res.ID)

	view, ok := res.Data.(*models.OrderView)
	require.True(t, ok)
	assert.Equal(t, int64(650), view.TotalPrice)
	assert.Len(t, view.Details, 2)

	assert.Equal(t, []string{models.EventTypeOrderCreated}, w.eventTypes(t))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutEmptyCartIsRejected(t *testing.T) {
	st, mock := newMockStore(t)
	svc := NewCartService(st, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "42"."carts"`)).
		WillReturnRows(sqlmock.NewRows(cartLineColumns))
	mock.ExpectRollback()

	_, err := svc.Checkout(context.Background(), "42", models.CheckoutRequest{StoreID: 1, TgUserID: 777, OrderTypeID: 2})

	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutUnknownOrderTypeRollsBack(t *testing.T) {
	st, mock := newMockStore(t)
	svc := NewCartService(st, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "42"."carts"`)).
		WillReturnRows(sqlmock.NewRows(cartLineColumns).AddRow(10, "Latte", nil, 1, 250))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "42"."orders"`)).
		WillReturnError(fkViolation())
	mock.ExpectRollback()

	_, err := svc.Checkout(context.Background(), "42", models.CheckoutRequest{StoreID: 1, TgUserID: 777, OrderTypeID: 9})

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCartTotals(t *testing.T) {
	st, mock := newMockStore(t)
	svc := NewCartService(st, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "42"."carts"`)).
		WillReturnRows(sqlmock.NewRows(cartLineColumns).
			AddRow(10, "Latte", nil, 3, 250))

	cart, err := svc.GetCart(context.Background(), "42", 1, 777)

	require.NoError(t, err)
	assert.Equal(t, int64(750), cart.TotalPrice)
	assert.Len(t, cart.Items, 1)
}

func TestUpdateOrderStatusValidatesStatus(t *testing.T) {
	st, mock := newMockStore(t)
	svc := NewCartService(st, nil)

	_, err := svc.UpdateOrderStatus(context.Background(), "42", 1, "SHIPPED")

	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}
