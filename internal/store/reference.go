package store

import (
	"context"

	"store-admin/internal/models"
	"store-admin/internal/tenant"
)

// CreateBotToken links a bot token to a store
func (r *Repo) CreateBotToken(ctx context.Context, token string, userID, storeID int64) (int64, error) {
	q, err := tenant.SharedSQL(`INSERT INTO {0} (token_bot, user_id, store_id) VALUES ($1, $2, $3) RETURNING id`,
		tenant.BotTokens)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.get(ctx, &id, q, token, userID, storeID)
	return id, err
}

// GetBotToken finds the store a bot token belongs to
func (r *Repo) GetBotToken(ctx context.Context, token string) (*models.BotToken, error) {
	q, err := tenant.SharedSQL(`SELECT id, token_bot, user_id, store_id FROM {0} WHERE token_bot = $1`, tenant.BotTokens)
	if err != nil {
		return nil, err
	}
	var bt models.BotToken
	if err := r.get(ctx, &bt, q, token); err != nil {
		return nil, err
	}
	return &bt, nil
}

// GetStoreBotToken returns the bot token of a store
func (r *Repo) GetStoreBotToken(ctx context.Context, userID, storeID int64) (*models.BotToken, error) {
	q, err := tenant.SharedSQL(`SELECT id, token_bot, user_id, store_id FROM {0}
		WHERE user_id = $1 AND store_id = $2`, tenant.BotTokens)
	if err != nil {
		return nil, err
	}
	var bt models.BotToken
	if err := r.get(ctx, &bt, q, userID, storeID); err != nil {
		return nil, err
	}
	return &bt, nil
}

// ListBotTokens returns every registered bot
func (r *Repo) ListBotTokens(ctx context.Context) ([]models.BotToken, error) {
	q, err := tenant.SharedSQL(`SELECT id, token_bot, user_id, store_id FROM {0} ORDER BY id`, tenant.BotTokens)
	if err != nil {
		return nil, err
	}
	tokens := []models.BotToken{}
	if err := r.selectAll(ctx, &tokens, q); err != nil {
		return nil, err
	}
	return tokens, nil
}

// ListOrderTypes returns the shared order types, newest first
func (r *Repo) ListOrderTypes(ctx context.Context) ([]models.OrderType, error) {
	q, err := tenant.SharedSQL(`SELECT id, name, image FROM {0} ORDER BY id DESC`, tenant.OrderTypes)
	if err != nil {
		return nil, err
	}
	types := []models.OrderType{}
	if err := r.selectAll(ctx, &types, q); err != nil {
		return nil, err
	}
	return types, nil
}

// CreateOrderType adds a shared order type
func (r *Repo) CreateOrderType(ctx context.Context, name string, image *string) (int64, error) {
	q, err := tenant.SharedSQL(`INSERT INTO {0} (name, image) VALUES ($1, $2) RETURNING id`, tenant.OrderTypes)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.get(ctx, &id, q, name, image)
	return id, err
}

// ListDaysOfWeek returns the shared day names in week order
func (r *Repo) ListDaysOfWeek(ctx context.Context) ([]models.DayOfWeek, error) {
	q, err := tenant.SharedSQL(`SELECT id, day_of_week, number_day FROM {0} ORDER BY number_day`, tenant.DaysOfWeek)
	if err != nil {
		return nil, err
	}
	days := []models.DayOfWeek{}
	if err := r.selectAll(ctx, &days, q); err != nil {
		return nil, err
	}
	return days, nil
}

// ListTypesDelivery returns the delivery pricing strategies
func (r *Repo) ListTypesDelivery(ctx context.Context) ([]models.TypeDelivery, error) {
	q, err := tenant.SharedSQL(`SELECT id, delivery_name FROM {0} ORDER BY id`, tenant.TypesDelivery)
	if err != nil {
		return nil, err
	}
	types := []models.TypeDelivery{}
	if err := r.selectAll(ctx, &types, q); err != nil {
		return nil, err
	}
	return types, nil
}

// GetUserByEmail returns an administrator account
func (r *Repo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	q, err := tenant.SharedSQL(`SELECT id, email, password_hash, is_active, created_at FROM {0} WHERE email = $1`,
		tenant.Users)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := r.get(ctx, &u, q, email); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts an administrator account
func (r *Repo) CreateUser(ctx context.Context, email, passwordHash string) (int64, error) {
	q, err := tenant.SharedSQL(`INSERT INTO {0} (email, password_hash) VALUES ($1, $2) RETURNING id`, tenant.Users)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.get(ctx, &id, q, email, passwordHash)
	return id, err
}
