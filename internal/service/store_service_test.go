package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"store-admin/internal/models"
	"store-admin/internal/redisclient"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeRequest() models.StoreCreateRequest {
	return models.StoreCreateRequest{
		TokenBot: "123:abc",
		Info:     models.StoreInfoInput{Name: "Corner Cafe"},
		Payment:  models.StorePaymentInput{Cash: true},
	}
}

func expectProvisioning(mock sqlmock.Sqlmock, storeID int64) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "42"."stores"`)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(storeID))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "public"."bot_tokens"`)).
		WithArgs("123:abc", int64(42), storeID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "42"."stores_info"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "42"."store_subscriptions"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "42"."store_payments"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "42"."service_text_and_chats"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "42"."legal_informations"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "42"."store_order_types_association"`)).
		WithArgs(storeID, 3).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "42"."working_days"`)).
		WithArgs(storeID, 7).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectCommit()
}

func TestCreateStoreProvisionsAllRowsInOneTransaction(t *testing.T) {
	st, mock := newMockStore(t)
	pub, w := newPublisher()
	reg := &fakeRegistrar{}
	svc := NewStoreService(st, nil, pub, reg, time.Hour)

	expectProvisioning(mock, 5)

	res, err := svc.CreateStore(context.Background(), "42", 42, storeRequest(), "")

	require.NoError(t, err)
	assert.Equal(t, StatusCreated, res.Status)
	assert.Equal(t, int64(5), res.ID)
	assert.Equal(t, []string{"123:abc"}, reg.calls)
	assert.Equal(t, []string{models.EventTypeStoreProvisioned}, w.eventTypes(t))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStoreQueuesRegistrationWhenWebhookFails(t *testing.T) {
	st, mock := newMockStore(t)
	pub, w := newPublisher()
	svc := NewStoreService(st, nil, pub, &fakeRegistrar{err: errTelegramDown}, time.Hour)

	expectProvisioning(mock, 5)

	res, err := svc.CreateStore(context.Background(), "42", 42, storeRequest(), "")

	require.NoError(t, err)
	assert.Equal(t, int64(5), res.ID)
	assert.Equal(t, []string{
		models.EventTypeBotRegistrationRequested,
		models.EventTypeStoreProvisioned,
	}, w.eventTypes(t))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStoreRollsBackWithoutRegisteringBot(t *testing.T) {
	st, mock := newMockStore(t)
	pub, w := newPublisher()
	reg := &fakeRegistrar{}
	svc := NewStoreService(st, nil, pub, reg, time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "42"."stores"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "public"."bot_tokens"`)).
		WillReturnError(errTelegramDown)
	mock.ExpectRollback()

	_, err := svc.CreateStore(context.Background(), "42", 42, storeRequest(), "")

	assert.Error(t, err)
	assert.Empty(t, reg.calls)
	assert.Empty(t, w.msgs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStoreRequiresTokenAndName(t *testing.T) {
	st, mock := newMockStore(t)
	svc := NewStoreService(st, nil, nil, nil, time.Hour)

	req := storeRequest()
	req.TokenBot = " "
	_, err := svc.CreateStore(context.Background(), "42", 42, req, "")
	assert.ErrorIs(t, err, ErrValidation)

	req = storeRequest()
	req.Info.Name = ""
	_, err = svc.CreateStore(context.Background(), "42", 42, req, "")
	assert.ErrorIs(t, err, ErrValidation)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStoreIsIdempotentPerKey(t *testing.T) {
	st, mock := newMockStore(t)
	mr := miniredis.RunT(t)
	rc := redisclient.NewFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	svc := NewStoreService(st, rc, nil, &fakeRegistrar{}, time.Hour)
	ctx := context.Background()

	expectProvisioning(mock, 5)

	first, err := svc.CreateStore(ctx, "42", 42, storeRequest(), "req-1")
	require.NoError(t, err)

	second, err := svc.CreateStore(ctx, "42", 42, storeRequest(), "req-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.NoError(t, mock.ExpectationsWereMet())

	bt, err := rc.GetBotToken(ctx, "123:abc")
	require.NoError(t, err)
	require.NotNil(t, bt)
	assert.Equal(t, int64(5), bt.StoreID)
}

func TestTogglePaymentRejectsUnknownMethod(t *testing.T) {
	st, mock := newMockStore(t)
	svc := NewStoreService(st, nil, nil, nil, time.Hour)

	_, err := svc.TogglePayment(context.Background(), "42", 1, "crypto")

	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleWorkingDay(t *testing.T) {
	st, mock := newMockStore(t)
	svc := NewStoreService(st, nil, nil, nil, time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE "42"."working_days" SET is_working = NOT is_working`)).
		WithArgs(int64(1), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"is_working"}).AddRow(true))
	mock.ExpectCommit()

	res, err := svc.ToggleWorkingDay(context.Background(), "42", 1, 3)

	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"is_working": true}, res.Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDistrictUsedByOrdersIsConflict(t *testing.T) {
	st, mock := newMockStore(t)
	svc := NewStoreService(st, nil, nil, nil, time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "42"."stodelivery_districts"`)).
		WillReturnError(fkViolation())
	mock.ExpectRollback()

	_, err := svc.DeleteDeliveryDistrict(context.Background(), "42", 1, 2)

	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), districtInUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDeliveryInfoWithoutTypeIsEmpty(t *testing.T) {
	st, mock := newMockStore(t)
	svc := NewStoreService(st, nil, nil, nil, time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "42"."stores_info"`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "name", "time_zone", "type_delivery_id"}).
			AddRow(1, 1, "Corner Cafe", "Europe/Moscow", nil))

	info, err := svc.GetDeliveryInfo(context.Background(), "42", 1)

	require.NoError(t, err)
	assert.Nil(t, info)
	assert.NoError(t, mock.ExpectationsWereMet())
}
