package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"store-admin/internal/store"
	"store-admin/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrBadCredentials is returned by Login for an unknown email or a wrong password.
	ErrBadCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned when an access token cannot be verified.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carried by an access token. UserID is the tenant key.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthService authenticates administrators and issues access tokens
type AuthService struct {
	store  *store.Store
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store *store.Store, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		logger: util.GetLogger(),
	}
}

// Login checks the password and returns a signed access token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	u, err := s.store.Repo().GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if isNotFound(err) {
			return "", ErrBadCredentials
		}
		util.RecordError(span, err)
		return "", err
	}
	if !u.IsActive {
		return "", ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrBadCredentials
	}

	s.logger.Info("User logged in", zap.Int64("user_id", u.ID))
	return s.IssueToken(u.ID)
}

// IssueToken signs an HS256 token for userID
func (s *AuthService) IssueToken(userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    util.ServiceName,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ParseToken verifies an access token and returns its user id
func (s *AuthService) ParseToken(tokenString string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// CreateUser registers an administrator and returns its id
func (s *AuthService) CreateUser(ctx context.Context, email, password string) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return 0, validationf("email is invalid")
	}
	if len(password) < 8 {
		return 0, validationf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	var id int64
	err = runTx(ctx, s.store, "create_user", func(r *store.Repo) error {
		var err error
		id, err = r.CreateUser(ctx, email, string(hash))
		return err
	})
	if err != nil {
		return 0, translate("user", err, "")
	}
	return id, nil
}
