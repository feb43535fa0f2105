package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"store-admin/internal/redisclient"
	"store-admin/internal/util"

	"go.uber.org/zap"
)

const (
	DefaultAPIURL = "https://api.telegram.org"
	lockTTL       = 30 * time.Second
)

// ErrRegistrationInProgress is returned when another process holds the token's lock.
var ErrRegistrationInProgress = errors.New("webhook registration already in progress")

// Locker serializes registrations of the same token across processes
type Locker interface {
	AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (*redisclient.Lock, error)
	ReleaseLock(ctx context.Context, lock *redisclient.Lock) error
}

// Registrar points Telegram bots at this service's webhook endpoint
type Registrar struct {
	apiURL      string
	webhookHost string
	webhookPath string
	client      *http.Client
	locker      Locker
	logger      *zap.Logger
}

// NewRegistrar creates a registrar. A nil locker disables cross-process locking.
func NewRegistrar(apiURL, webhookHost, webhookPath string, locker Locker) *Registrar {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if webhookPath = strings.Trim(webhookPath, "/"); webhookPath != "" {
		webhookPath = "/" + webhookPath
	}
	return &Registrar{
		apiURL:      strings.TrimRight(apiURL, "/"),
		webhookHost: strings.TrimRight(webhookHost, "/"),
		webhookPath: webhookPath,
		client:      &http.Client{Timeout: 10 * time.Second},
		locker:      locker,
		logger:      util.GetLogger(),
	}
}

// WebhookURL is <host><path>/<token>
func (r *Registrar) WebhookURL(token string) string {
	return fmt.Sprintf("%s%s/%s", r.webhookHost, r.webhookPath, token)
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

type webhookInfo struct {
	URL string `json:"url"`
}

// Register sets the bot's webhook unless it already points at WebhookURL(token).
// It reports whether a change was made.
func (r *Registrar) Register(ctx context.Context, token string) (bool, error) {
	ctx, span := util.StartSpan(ctx, "Registrar.Register")
	defer span.End()

	start := time.Now()
	defer func() { util.WebhookRegistrationLatency.Observe(time.Since(start).Seconds()) }()

	if r.locker != nil {
		lock, err := r.locker.AcquireLock(ctx, "webhook:"+redisclient.TokenDigest(token), lockTTL)
		if err != nil {
			util.RecordError(span, err)
			return false, fmt.Errorf("failed to lock bot token: %w", err)
		}
		if lock == nil {
			util.WebhookRegistrationsTotal.WithLabelValues("locked").Inc()
			return false, ErrRegistrationInProgress
		}
		defer func() {
			if err := r.locker.ReleaseLock(context.Background(), lock); err != nil {
				r.logger.Warn("Failed to release webhook lock", zap.Error(err))
			}
		}()
	}

	target := r.WebhookURL(token)

	var info webhookInfo
	if err := r.call(ctx, token, http.MethodGet, "getWebhookInfo", nil, &info); err != nil {
		util.WebhookRegistrationsTotal.WithLabelValues("error").Inc()
		util.RecordError(span, err)
		return false, err
	}
	if info.URL == target {
		util.WebhookRegistrationsTotal.WithLabelValues("unchanged").Inc()
		return false, nil
	}

	if err := r.call(ctx, token, http.MethodPost, "setWebhook", map[string]string{"url": target}, nil); err != nil {
		util.WebhookRegistrationsTotal.WithLabelValues("error").Inc()
		util.RecordError(span, err)
		return false, err
	}

	util.WebhookRegistrationsTotal.WithLabelValues("registered").Inc()
	r.logger.Info("Bot webhook registered", zap.String("url", r.redact(target)))
	return true, nil
}

// Unregister removes the bot's webhook
func (r *Registrar) Unregister(ctx context.Context, token string) error {
	ctx, span := util.StartSpan(ctx, "Registrar.Unregister")
	defer span.End()

	if err := r.call(ctx, token, http.MethodPost, "deleteWebhook", nil, nil); err != nil {
		util.RecordError(span, err)
		return err
	}
	return nil
}

func (r *Registrar) call(ctx context.Context, token, method, apiMethod string, payload, result interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", apiMethod, err)
		}
		body = bytes.NewReader(data)
	}

	url := fmt.Sprintf("%s/bot%s/%s", r.apiURL, token, apiMethod)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", apiMethod, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		// the url embeds the token
		return fmt.Errorf("%s request failed: %s", apiMethod, r.redact(err.Error()))
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("failed to decode %s response (status %d): %w", apiMethod, resp.StatusCode, err)
	}
	if !out.OK {
		return fmt.Errorf("%s failed: %d %s", apiMethod, out.ErrorCode, out.Description)
	}
	if result != nil {
		if err := json.Unmarshal(out.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", apiMethod, err)
		}
	}
	return nil
}

// redact hides bot tokens in strings bound for logs
func (r *Registrar) redact(s string) string {
	if j := strings.LastIndex(s, r.webhookHost+r.webhookPath+"/"); j >= 0 && r.webhookHost != "" {
		j += len(r.webhookHost)
		return s[:j+len(r.webhookPath)+1] + "***"
	}
	i := strings.LastIndex(s, "/bot")
	if i < 0 {
		return s
	}
	end := strings.Index(s[i+4:], "/")
	if end < 0 {
		return s[:i+4] + "***"
	}
	return s[:i+4] + "***" + s[i+4+end:]
}
