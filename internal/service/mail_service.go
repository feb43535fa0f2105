package service

import (
	"context"
	"fmt"

	"store-admin/internal/models"
	"store-admin/internal/store"
	"store-admin/internal/tenant"
	"store-admin/internal/util"

	"go.uber.org/zap"
)

// MailService manages broadcast mails of a tenant's stores
type MailService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewMailService creates a new mail service
func NewMailService(store *store.Store) *MailService {
	return &MailService{store: store, logger: util.GetLogger()}
}

// ListMails returns the live mails of a store
func (s *MailService) ListMails(ctx context.Context, schema tenant.Schema, storeID int64) ([]models.Mail, error) {
	ctx, span := util.StartTenantSpan(ctx, "MailService.ListMails", schema.String())
	defer span.End()

	mails, err := s.store.Repo().ListMails(ctx, schema, storeID)
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("mail", err, "")
	}
	return mails, nil
}

// CreateMail drafts a mail on behalf of userID
func (s *MailService) CreateMail(ctx context.Context, schema tenant.Schema, userID int64, in models.MailInput) (*Result, error) {
	ctx, span := util.StartTenantSpan(ctx, "MailService.CreateMail", schema.String())
	defer span.End()

	var id int64
	err := runTx(ctx, s.store, "create_mail", func(r *store.Repo) error {
		var err error
		id, err = r.CreateMail(ctx, schema, in, userID)
		return err
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, translate("mail", err, "store does not exist")
	}
	return created(id, in), nil
}

// UpdateMail overwrites a mail
func (s *MailService) UpdateMail(ctx context.Context, schema tenant.Schema, userID, id int64, in models.MailInput) (*Result, error) {
	err := runTx(ctx, s.store, "update_mail", func(r *store.Repo) error {
		return r.UpdateMail(ctx, schema, id, in, userID)
	})
	if err != nil {
		return nil, translate("mail", err, "")
	}
	return success(in, ""), nil
}

// ToggleMailDeleted flips the soft-delete flag of a mail
func (s *MailService) ToggleMailDeleted(ctx context.Context, schema tenant.Schema, userID, id int64) (*Result, error) {
	var v bool
	err := runTx(ctx, s.store, "toggle_mail_deleted", func(r *store.Repo) error {
		var err error
		v, err = r.FlipMailDeleted(ctx, schema, id, userID)
		return err
	})
	if err != nil {
		return nil, translate("mail", err, "")
	}
	util.TogglesTotal.WithLabelValues("mail", "deleted_flag").Inc()
	return toggled("deleted_flag", v), nil
}

// DeleteMail removes a mail
func (s *MailService) DeleteMail(ctx context.Context, schema tenant.Schema, id int64) (*Result, error) {
	err := runTx(ctx, s.store, "delete_mail", func(r *store.Repo) error {
		return r.DeleteMail(ctx, schema, id)
	})
	if err != nil {
		return nil, translate("mail", err, "")
	}
	return success(nil, fmt.Sprintf("mail %d deleted", id)), nil
}
