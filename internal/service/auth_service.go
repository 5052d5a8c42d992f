package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dom/draft-queue/internal/config"
	"github.com/dom/draft-queue/internal/domain"
	"github.com/dom/draft-queue/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const refreshTokenTTL = 7 * 24 * time.Hour

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDisplayNameExists   = errors.New("display name already exists")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// Claims is the access token payload. Grants lists the variants the account
// may queue for, plus "admin" for operators.
type Claims struct {
	Name   string   `json:"name"`
	Grants []string `json:"grants"`
	jwt.RegisteredClaims
}

// Caller converts validated claims into the identity sessions see.
func (c *Claims) Caller() Caller {
	return Caller{
		PlayerID: domain.PlayerID(c.Subject),
		Name:     c.Name,
		Grants:   c.Grants,
	}
}

type AuthService struct {
	accountRepo repository.AccountRepository
	sessionRepo repository.AccountSessionRepository
	cfg         *config.Config
}

func NewAuthService(accountRepo repository.AccountRepository, sessionRepo repository.AccountSessionRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
	}
}

type RegisterInput struct {
	Password    string
	DisplayName string
}

type LoginInput struct {
	DisplayName string
	Password    string
}

type AuthResult struct {
	Account      *domain.Account
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	existing, err := s.accountRepo.GetByDisplayName(ctx, input.DisplayName)
	if err == nil && existing != nil {
		return nil, ErrDisplayNameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	grants := append([]string(nil), s.cfg.DefaultGrants...)
	if s.cfg.IsAdminName(input.DisplayName) {
		grants = append(grants, domain.GrantAdmin)
	}

	now := time.Now()
	account := &domain.Account{
		ID:           uuid.New(),
		PasswordHash: string(hashedPassword),
		DisplayName:  input.DisplayName,
		Grants:       grants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, account)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	account, err := s.accountRepo.GetByDisplayName(ctx, input.DisplayName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, account)
}

// generateTokens issues a fresh access token and replaces the account's
// refresh session. Refresh tokens are "<accountID>.<secret>"; only the
// secret is hashed.
func (s *AuthService) generateTokens(ctx context.Context, account *domain.Account) (*AuthResult, error) {
	accessToken, err := s.generateAccessToken(account)
	if err != nil {
		return nil, err
	}

	secret := uuid.New().String()
	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	_ = s.sessionRepo.DeleteByAccountID(ctx, account.ID)

	session := &domain.AccountSession{
		ID:               uuid.New(),
		AccountID:        account.ID,
		RefreshTokenHash: string(hashedSecret),
		ExpiresAt:        time.Now().Add(refreshTokenTTL),
		CreatedAt:        time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		Account:      account,
		AccessToken:  accessToken,
		RefreshToken: fmt.Sprintf("%s.%s", account.ID, secret),
	}, nil
}

func (s *AuthService) generateAccessToken(account *domain.Account) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:   account.DisplayName,
		Grants: account.Grants,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *AuthService) GetAccountByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// RefreshTokens trades a live refresh token for a new token pair. The old
// refresh token stops working.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*AuthResult, error) {
	idPart, secret, ok := strings.Cut(refreshToken, ".")
	if !ok || secret == "" {
		return nil, ErrInvalidRefreshToken
	}
	accountID, err := uuid.Parse(idPart)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	session, err := s.sessionRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, ErrInvalidRefreshToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(session.RefreshTokenHash), []byte(secret)); err != nil {
		return nil, ErrInvalidRefreshToken
	}

	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.generateTokens(ctx, account)
}

func (s *AuthService) Logout(ctx context.Context, accountID uuid.UUID) error {
	return s.sessionRepo.DeleteByAccountID(ctx, accountID)
}
