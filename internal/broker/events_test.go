package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"store-admin/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublishBotRegistrationRequested(t *testing.T) {
	w := &fakeWriter{}
	ep := NewEventPublisher(NewProducerWithWriter(w))

	event := &models.BotRegistrationRequestedEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeBotRegistrationRequested, "42"),
		StoreID:   3,
		Token:     "123:abc",
	}
	require.NoError(t, ep.PublishBotRegistrationRequested(context.Background(), event))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "42-store-3", string(w.msgs[0].Key))

	var decoded models.BotRegistrationRequestedEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, models.EventTypeBotRegistrationRequested, decoded.EventType)
	assert.Equal(t, "123:abc", decoded.Token)
}

func TestPublishWrapsWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	ep := NewEventPublisher(NewProducerWithWriter(w))

	err := ep.PublishCategoryDeleted(context.Background(), &models.CategoryDeletedEvent{CategoryID: 1})

	assert.ErrorContains(t, err, "broker down")
}

func TestRelayKeepsStoreHeaders(t *testing.T) {
	w := &fakeWriter{}
	relay := NewUpdateRelay(NewProducerWithWriter(w))
	bt := &models.BotToken{TokenBot: "123:abc", UserID: 42, StoreID: 3}

	require.NoError(t, relay.Relay(context.Background(), bt, []byte(`{"update_id":1}`)))
	assert.ErrorIs(t, relay.Relay(context.Background(), bt, []byte(`not json`)), ErrInvalidUpdate)

	require.Len(t, w.msgs, 1)
	headers := map[string]string{}
	for _, h := range w.msgs[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "42", headers["schema"])
	assert.Equal(t, "3", headers["store_id"])
}

func TestHandleMessageRoutesByType(t *testing.T) {
	eh := NewEventHandler()
	var got *models.BotRegistrationRequestedEvent
	eh.OnBotRegistrationRequested(func(_ context.Context, e *models.BotRegistrationRequestedEvent) error {
		got = e
		return nil
	})

	value, err := json.Marshal(&models.BotRegistrationRequestedEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeBotRegistrationRequested, "42"),
		StoreID:   3,
		Token:     "123:abc",
	})
	require.NoError(t, err)

	require.NoError(t, eh.HandleMessage(context.Background(), kafka.Message{Value: value}))
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.StoreID)
	assert.Equal(t, "42", got.Schema)

	assert.NoError(t, eh.HandleMessage(context.Background(), kafka.Message{Value: []byte(`{"event_type":"OTHER"}`)}))
	assert.Error(t, eh.HandleMessage(context.Background(), kafka.Message{Value: []byte(`{`)}))
}
