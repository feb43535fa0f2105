package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"store-admin/internal/broker"
	"store-admin/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return store.NewStoreFromDB(sqlx.NewDb(db, "postgres")), mock
}

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

// eventTypes decodes the event_type of every published message
func (w *fakeWriter) eventTypes(t *testing.T) []string {
	t.Helper()
	w.mu.Lock()
	defer w.mu.Unlock()
	types := make([]string, 0, len(w.msgs))
	for _, m := range w.msgs {
		var e struct {
			EventType string `json:"event_type"`
		}
		require.NoError(t, json.Unmarshal(m.Value, &e))
		types = append(types, e.EventType)
	}
	return types
}

func newPublisher() (*broker.EventPublisher, *fakeWriter) {
	w := &fakeWriter{}
	return broker.NewEventPublisher(broker.NewProducerWithWriter(w)), w
}

type fakeRegistrar struct {
	calls []string
	err   error
}

func (r *fakeRegistrar) Register(_ context.Context, token string) (bool, error) {
	r.calls = append(r.calls, token)
	if r.err != nil {
		return false, r.err
	}
	return true, nil
}

var errTelegramDown = errors.New("telegram unavailable")

func fkViolation() error {
	return &pq.Error{Code: "23503", Message: "violates foreign key constraint"}
}
