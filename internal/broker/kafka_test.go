package broker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader hands out msgs in order and cancels the consumer once they are exhausted.
type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestConsumerSkipsFailedMessageAndCommitsPastIt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &fakeReader{
		msgs:   []kafka.Message{{Offset: 10}, {Offset: 11}, {Offset: 12}},
		cancel: cancel,
	}
	c := NewConsumerWithReader(r, TopicStoreEvents)

	var handled []int64
	err := c.StartConsuming(ctx, func(_ context.Context, msg kafka.Message) error {
		handled = append(handled, msg.Offset)
		if msg.Offset == 11 {
			return errors.New("registration failed")
		}
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int64{10, 11, 12}, handled)
	assert.Equal(t, []int64{10, 12}, r.committed)
}
