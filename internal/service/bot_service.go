package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"store-admin/internal/broker"
	"store-admin/internal/models"
	"store-admin/internal/redisclient"
	"store-admin/internal/store"
	"store-admin/internal/util"

	"go.uber.org/zap"
)

// BotService resolves incoming webhook calls to stores and keeps bot webhooks registered
type BotService struct {
	store     *store.Store
	redis     *redisclient.Client
	relay     *broker.UpdateRelay
	registrar WebhookRegistrar
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewBotService creates a new bot service. redis may be nil.
func NewBotService(store *store.Store, redis *redisclient.Client, relay *broker.UpdateRelay, registrar WebhookRegistrar) *BotService {
	return &BotService{
		store:     store,
		redis:     redis,
		relay:     relay,
		registrar: registrar,
		cacheTTL:  time.Hour,
		logger:    util.GetLogger(),
	}
}

// ResolveToken finds the store a bot token belongs to, going through the redis cache first
func (s *BotService) ResolveToken(ctx context.Context, token string) (*models.BotToken, error) {
	if s.redis != nil {
		bt, err := s.redis.GetBotToken(ctx, token)
		if err != nil {
			s.logger.Warn("Bot token cache lookup failed", zap.Error(err))
		} else if bt != nil {
			util.BotTokenCacheTotal.WithLabelValues("hit").Inc()
			return bt, nil
		}
		util.BotTokenCacheTotal.WithLabelValues("miss").Inc()
	}

	bt, err := s.store.Repo().GetBotToken(ctx, token)
	if err != nil {
		return nil, translate("bot token", err, "")
	}

	if s.redis != nil {
		if err := s.redis.CacheBotToken(ctx, bt, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache bot token", zap.Error(err))
		}
	}
	return bt, nil
}

// HandleUpdate forwards a raw Telegram update received on a bot's webhook to the bot-updates topic
func (s *BotService) HandleUpdate(ctx context.Context, token string, update []byte) error {
	ctx, span := util.StartSpan(ctx, "BotService.HandleUpdate")
	defer span.End()

	bt, err := s.ResolveToken(ctx, token)
	if err != nil {
		util.BotUpdatesRelayedTotal.WithLabelValues("unknown_token").Inc()
		return err
	}

	if err := s.relay.Relay(ctx, bt, update); err != nil {
		util.RecordError(span, err)
		util.BotUpdatesRelayedTotal.WithLabelValues("failed").Inc()
		if errors.Is(err, broker.ErrInvalidUpdate) {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return err
	}

	util.BotUpdatesRelayedTotal.WithLabelValues("relayed").Inc()
	return nil
}

// SyncBots registers the webhook of every known bot. It keeps going past failures and
// returns the number of bots whose webhook changed.
func (s *BotService) SyncBots(ctx context.Context) (int, error) {
	tokens, err := s.store.Repo().ListBotTokens(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list bot tokens: %w", err)
	}

	changed, failed := 0, 0
	for _, bt := range tokens {
		if ctx.Err() != nil {
			return changed, ctx.Err()
		}
		ok, err := s.registrar.Register(ctx, bt.TokenBot)
		if err != nil {
			failed++
			s.logger.Error("Failed to register bot webhook",
				zap.Int64("store_id", bt.StoreID),
				zap.Int64("user_id", bt.UserID),
				zap.Error(err))
			continue
		}
		if ok {
			changed++
		}
	}

	s.logger.Info("Bot webhooks synced",
		zap.Int("total", len(tokens)),
		zap.Int("changed", changed),
		zap.Int("failed", failed))

	if failed > 0 {
		return changed, fmt.Errorf("%d of %d bot webhooks failed to register", failed, len(tokens))
	}
	return changed, nil
}

// WarmStoreToken loads the token of a freshly provisioned store into the cache
func (s *BotService) WarmStoreToken(ctx context.Context, userID, storeID int64) error {
	if s.redis == nil {
		return nil
	}
	bt, err := s.store.Repo().GetStoreBotToken(ctx, userID, storeID)
	if err != nil {
		return translate("bot token", err, "")
	}
	return s.redis.CacheBotToken(ctx, bt, s.cacheTTL)
}
