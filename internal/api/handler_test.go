package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"store-admin/internal/broker"
	"store-admin/internal/service"
	"store-admin/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fakeWriter struct{ msgs []kafka.Message }

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type testServer struct {
	router *gin.Engine
	mock   sqlmock.Sqlmock
	auth   *service.AuthService
	relay  *fakeWriter
}

func newTestServer(t *testing.T, db Pinger) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	st := store.NewStoreFromDB(sqlx.NewDb(sqlDB, "postgres"))

	relay := &fakeWriter{}
	auth := service.NewAuthService(st, "test-secret", time.Hour)
	svc := Services{
		Auth:      auth,
		Catalog:   service.NewCatalogService(st, nil),
		Stores:    service.NewStoreService(st, nil, nil, nil, time.Hour),
		Customers: service.NewCustomerService(st),
		Mails:     service.NewMailService(st),
		Carts:     service.NewCartService(st, nil),
		Reference: service.NewReferenceService(st),
		Bots:      service.NewBotService(st, nil, broker.NewUpdateRelay(broker.NewProducerWithWriter(relay)), nil),
	}

	router := gin.New()
	NewHandler(svc, db, "/bot/webhook/").SetupRoutes(router)
	return &testServer{router: router, mock: mock, auth: auth, relay: relay}
}

func (s *testServer) do(t *testing.T, method, path, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		token, err := s.auth.IssueToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthAndReadiness(t *testing.T) {
	s := newTestServer(t, fakePinger{})
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", 0).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", "", 0).Code)

	down := newTestServer(t, fakePinger{err: errors.New("connection refused")})
	assert.Equal(t, http.StatusServiceUnavailable, down.do(t, http.MethodGet, "/ready", "", 0).Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/health", "", 0)

	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestAuthenticationRequired(t *testing.T) {
	s := newTestServer(t, nil)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/categories?store_id=1", "", 0).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories?store_id=1", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestsAreScopedToCallerSchema(t *testing.T) {
	s := newTestServer(t, nil)

	s.mock.ExpectQuery(regexp.QuoteMeta(`FROM "42"."categories"`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "name", "availability"}).AddRow(1, 1, "Drinks", true))
	s.mock.ExpectQuery(regexp.QuoteMeta(`FROM "7"."categories"`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "name", "availability"}))

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/categories?store_id=1", "", 42).Code)
	w := s.do(t, http.MethodGet, "/api/v1/categories?store_id=1", "", 7)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestErrorStatusMapping(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("unknown toggle field", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/v1/products/1/toggle/price", "", 42)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("referenced category", func(t *testing.T) {
		s.mock.ExpectBegin()
		s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "42"."categories"`)).
			WillReturnError(&pq.Error{Code: "23503"})
		s.mock.ExpectRollback()

		w := s.do(t, http.MethodDelete, "/api/v1/categories/3", "", 42)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w)["error"], "products reference it")
	})

	t.Run("missing row", func(t *testing.T) {
		s.mock.ExpectQuery(regexp.QuoteMeta(`FROM "42"."products"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		w := s.do(t, http.MethodGet, "/api/v1/products/99", "", 42)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unclassified failure", func(t *testing.T) {
		s.mock.ExpectQuery(regexp.QuoteMeta(`FROM "42"."mails"`)).
			WillReturnError(errors.New(`relation "42.mails" does not exist`))

		w := s.do(t, http.MethodGet, "/api/v1/mails?store_id=1", "", 42)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal server error", decode(t, w)["error"])
	})

	t.Run("bad query parameter", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/products?store_id=abc", "", 42)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestCreateReturns201(t *testing.T) {
	s := newTestServer(t, nil)

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "42"."mails"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	s.mock.ExpectCommit()

	w := s.do(t, http.MethodPost, "/api/v1/mails", `{"store_id":1,"title":"Weekend sale"}`, 42)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, service.StatusCreated, body["status"])
	assert.Equal(t, float64(4), body["id"])
}

func TestLoginWithUnknownUser(t *testing.T) {
	s := newTestServer(t, nil)

	s.mock.ExpectQuery(regexp.QuoteMeta(`FROM "public"."users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", `{"email":"a@b.c","password":"secret123"}`, 0)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBotWebhook(t *testing.T) {
	s := newTestServer(t, nil)
	columns := []string{"id", "token_bot", "user_id", "store_id"}

	s.mock.ExpectQuery(regexp.QuoteMeta(`FROM "public"."bot_tokens"`)).
		WithArgs("123:abc").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "123:abc", 42, 5))
	s.mock.ExpectQuery(regexp.QuoteMeta(`FROM "public"."bot_tokens"`)).
		WithArgs("999:zzz").
		WillReturnRows(sqlmock.NewRows(columns))

	w := s.do(t, http.MethodPost, "/bot/webhook/123:abc", `{"update_id":10}`, 0)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, s.relay.msgs, 1)
	assert.JSONEq(t, `{"update_id":10}`, string(s.relay.msgs[0].Value))

	w = s.do(t, http.MethodPost, "/bot/webhook/999:zzz", `{"update_id":11}`, 0)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, s.relay.msgs, 1)
}
