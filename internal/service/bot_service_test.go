package service

import (
	"context"
	"regexp"
	"testing"

	"store-admin/internal/broker"
	"store-admin/internal/redisclient"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var botTokenColumns = []string{"id", "token_bot", "user_id", "store_id"}

func newBotService(t *testing.T, reg WebhookRegistrar) (*BotService, sqlmock.Sqlmock, *fakeWriter) {
	t.Helper()
	st, mock := newMockStore(t)
	mr := miniredis.RunT(t)
	rc := redisclient.NewFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	w := &fakeWriter{}
	relay := broker.NewUpdateRelay(broker.NewProducerWithWriter(w))
	return NewBotService(st, rc, relay, reg), mock, w
}

func TestResolveTokenIsCached(t *testing.T) {
	svc, mock, _ := newBotService(t, nil)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "public"."bot_tokens"`)).
		WithArgs("123:abc").
		WillReturnRows(sqlmock.NewRows(botTokenColumns).AddRow(1, "123:abc", 42, 5))

	first, err := svc.ResolveToken(ctx, "123:abc")
	require.NoError(t, err)
	second, err := svc.ResolveToken(ctx, "123:abc")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(5), second.StoreID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleUpdateRelaysToStore(t *testing.T) {
	svc, mock, w := newBotService(t, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "public"."bot_tokens"`)).
		WillReturnRows(sqlmock.NewRows(botTokenColumns).AddRow(1, "123:abc", 42, 5))

	require.NoError(t, svc.HandleUpdate(context.Background(), "123:abc", []byte(`{"update_id":1}`)))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "42-store-5", string(w.msgs[0].Key))
}

func TestHandleUpdateUnknownToken(t *testing.T) {
	svc, mock, w := newBotService(t, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "public"."bot_tokens"`)).
		WillReturnRows(sqlmock.NewRows(botTokenColumns))

	err := svc.HandleUpdate(context.Background(), "999:zzz", []byte(`{"update_id":1}`))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, w.msgs)
}

func TestHandleUpdateRejectsInvalidBody(t *testing.T) {
	svc, mock, _ := newBotService(t, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "public"."bot_tokens"`)).
		WillReturnRows(sqlmock.NewRows(botTokenColumns).AddRow(1, "123:abc", 42, 5))

	err := svc.HandleUpdate(context.Background(), "123:abc", []byte(`{`))

	assert.ErrorIs(t, err, ErrValidation)
}

func TestSyncBotsRegistersEveryToken(t *testing.T) {
	reg := &fakeRegistrar{}
	svc, mock, _ := newBotService(t, reg)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "public"."bot_tokens"`)).
		WillReturnRows(sqlmock.NewRows(botTokenColumns).
			AddRow(1, "1:a", 42, 5).
			AddRow(2, "2:b", 43, 1))

	changed, err := svc.SyncBots(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, changed)
	assert.Equal(t, []string{"1:a", "2:b"}, reg.calls)
}

func TestSyncBotsReportsFailures(t *testing.T) {
	reg := &fakeRegistrar{err: errTelegramDown}
	svc, mock, _ := newBotService(t, reg)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "public"."bot_tokens"`)).
		WillReturnRows(sqlmock.NewRows(botTokenColumns).AddRow(1, "1:a", 42, 5))

	changed, err := svc.SyncBots(context.Background())

	assert.Error(t, err)
	assert.Zero(t, changed)
}
