package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"store-admin/internal/redisclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTelegram struct {
	mu       sync.Mutex
	url      string
	setCalls int
	fail     bool
}

func (f *fakeTelegram) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bot123:abc/getWebhookInfo", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "result": map[string]string{"url": f.url}})
	})
	mux.HandleFunc("/bot123:abc/setWebhook", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.fail {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error_code": 400, "description": "bad webhook"})
			return
		}
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.url = body["url"]
		f.setCalls++
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "result": true})
	})
	mux.HandleFunc("/bot123:abc/deleteWebhook", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.url = ""
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "result": true})
	})
	return mux
}

func TestWebhookURL(t *testing.T) {
	r := NewRegistrar("", "https://shop.example.com/", "/bot/webhook/", nil)
	assert.Equal(t, "https://shop.example.com/bot/webhook/123:abc", r.WebhookURL("123:abc"))
}

func TestRegisterIsIdempotent(t *testing.T) {
	tg := &fakeTelegram{}
	srv := httptest.NewServer(tg.handler(t))
	defer srv.Close()

	r := NewRegistrar(srv.URL, "https://shop.example.com", "/bot/webhook", nil)
	ctx := context.Background()

	changed, err := r.Register(ctx, "123:abc")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "https://shop.example.com/bot/webhook/123:abc", tg.url)

	changed, err = r.Register(ctx, "123:abc")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, tg.setCalls)

	require.NoError(t, r.Unregister(ctx, "123:abc"))
	assert.Empty(t, tg.url)
}

func TestRegisterReportsAPIError(t *testing.T) {
	tg := &fakeTelegram{fail: true}
	srv := httptest.NewServer(tg.handler(t))
	defer srv.Close()

	r := NewRegistrar(srv.URL, "https://shop.example.com", "/bot/webhook", nil)

	_, err := r.Register(context.Background(), "123:abc")
	assert.ErrorContains(t, err, "bad webhook")
}

func TestRedactHidesToken(t *testing.T) {
	r := NewRegistrar("", "https://shop.example.com", "/bot/webhook", nil)

	assert.Equal(t, "https://api.telegram.org/bot***/setWebhook", r.redact("https://api.telegram.org/bot123:abc/setWebhook"))
	assert.Equal(t, "https://shop.example.com/bot/webhook/***", r.redact(r.WebhookURL("123:abc")))
}

type recordingLocker struct {
	keys []string
}

func (l *recordingLocker) AcquireLock(_ context.Context, lockKey string, _ time.Duration) (*redisclient.Lock, error) {
	l.keys = append(l.keys, lockKey)
	return &redisclient.Lock{}, nil
}

func (l *recordingLocker) ReleaseLock(context.Context, *redisclient.Lock) error { return nil }

func TestRegisterLocksOnTokenDigest(t *testing.T) {
	tg := &fakeTelegram{}
	srv := httptest.NewServer(tg.handler(t))
	defer srv.Close()

	locker := &recordingLocker{}
	r := NewRegistrar(srv.URL, "https://shop.example.com", "/bot/webhook", locker)

	_, err := r.Register(context.Background(), "123:abc")
	require.NoError(t, err)

	require.Equal(t, []string{"webhook:" + redisclient.TokenDigest("123:abc")}, locker.keys)
	assert.NotContains(t, locker.keys[0], "123:abc")
}
