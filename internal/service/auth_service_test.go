package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userColumns = []string{"id", "email", "password_hash", "is_active", "created_at"}

func TestIssueAndParseToken(t *testing.T) {
	svc := NewAuthService(nil, "s3cret", time.Hour)

	token, err := svc.IssueToken(42)
	require.NoError(t, err)

	userID, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestParseTokenRejectsForeignAndExpiredTokens(t *testing.T) {
	other := NewAuthService(nil, "other", time.Hour)
	token, err := other.IssueToken(42)
	require.NoError(t, err)

	svc := NewAuthService(nil, "s3cret", time.Hour)
	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewAuthService(nil, "s3cret", -time.Minute)
	token, err = expired.IssueToken(42)
	require.NoError(t, err)
	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	st, mock := newMockStore(t)
	svc := NewAuthService(st, "s3cret", time.Hour)
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "public"."users"`)).
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(42, "admin@example.com", string(hash), true, time.Now()))

	token, err := svc.Login(context.Background(), " Admin@Example.com ", "correct horse")
	require.NoError(t, err)

	userID, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestLoginWrongPassword(t *testing.T) {
	st, mock := newMockStore(t)
	svc := NewAuthService(st, "s3cret", time.Hour)
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "public"."users"`)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(42, "admin@example.com", string(hash), true, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "public"."users"`)).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err = svc.Login(context.Background(), "admin@example.com", "battery staple")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "battery staple")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestCreateUserValidatesInput(t *testing.T) {
	st, mock := newMockStore(t)
	svc := NewAuthService(st, "s3cret", time.Hour)

	_, err := svc.CreateUser(context.Background(), "no-at-sign", "long enough")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateUser(context.Background(), "admin@example.com", "short")
	assert.ErrorIs(t, err, ErrValidation)

	assert.NoError(t, mock.ExpectationsWereMet())
}
