package store

import (
	"context"

	"store-admin/internal/models"
	"store-admin/internal/tenant"
)

const mailColumns = `id, store_id, title, text, image,
	created_at, created_by, updated_at, updated_by, deleted_flag, deleted_at, deleted_by`

// ListMails returns the live mails of a store, newest first
func (r *Repo) ListMails(ctx context.Context, schema tenant.Schema, storeID int64) ([]models.Mail, error) {
	q, err := tenant.SQL(schema, `SELECT `+mailColumns+` FROM {0}
		WHERE store_id = $1 AND deleted_flag = FALSE ORDER BY id DESC`, tenant.Mails)
	if err != nil {
		return nil, err
	}
	mails := []models.Mail{}
	if err := r.selectAll(ctx, &mails, q, storeID); err != nil {
		return nil, err
	}
	return mails, nil
}

// CreateMail inserts a mail stamped with its creator
func (r *Repo) CreateMail(ctx context.Context, schema tenant.Schema, in models.MailInput, userID int64) (int64, error) {
	q, err := tenant.SQL(schema, `INSERT INTO {0} (store_id, title, text, image, created_by)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`, tenant.Mails)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.get(ctx, &id, q, in.StoreID, in.Title, in.Text, in.Image, userID)
	return id, err
}

// UpdateMail overwrites the writable columns
func (r *Repo) UpdateMail(ctx context.Context, schema tenant.Schema, id int64, in models.MailInput, userID int64) error {
	q, err := tenant.SQL(schema, `UPDATE {0} SET title = $2, text = $3, image = $4, updated_at = NOW(), updated_by = $5
		WHERE id = $1`, tenant.Mails)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, id, in.Title, in.Text, in.Image, userID)
}

// FlipMailDeleted negates deleted_flag and returns the new value
func (r *Repo) FlipMailDeleted(ctx context.Context, schema tenant.Schema, id, userID int64) (bool, error) {
	q, err := tenant.SQL(schema, `UPDATE {0} SET deleted_flag = NOT deleted_flag, deleted_at = NOW(), deleted_by = $2
		WHERE id = $1 RETURNING deleted_flag`, tenant.Mails)
	if err != nil {
		return false, err
	}
	var v bool
	err = r.get(ctx, &v, q, id, userID)
	return v, err
}

// DeleteMail removes the row
func (r *Repo) DeleteMail(ctx context.Context, schema tenant.Schema, id int64) error {
	q, err := tenant.SQL(schema, `DELETE FROM {0} WHERE id = $1`, tenant.Mails)
	if err != nil {
		return err
	}
	return r.exec(ctx, q, id)
}
