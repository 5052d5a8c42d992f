package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/dom/draft-queue/internal/domain"
	"github.com/dom/draft-queue/internal/repository/postgres"
	"github.com/dom/draft-queue/internal/service"
	"github.com/dom/draft-queue/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	cfg.AdminNames = []string{"operator"}
	authService := service.NewAuthService(repos.Account, repos.AccountSession, cfg)
	ctx := context.Background()

	tests := []struct {
		name       string
		input      service.RegisterInput
		setup      func()
		wantErr    error
		wantGrants []string
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				DisplayName: "newplayer",
				Password:    "password123",
			},
			wantGrants: cfg.DefaultGrants,
		},
		{
			name: "admin name gets admin grant",
			input: service.RegisterInput{
				DisplayName: "operator",
				Password:    "password123",
			},
			wantGrants: append(append([]string(nil), cfg.DefaultGrants...), domain.GrantAdmin),
		},
		{
			name: "duplicate display name",
			input: service.RegisterInput{
				DisplayName: "existingplayer",
				Password:    "password123",
			},
			setup: func() {
				testutil.NewAccountBuilder().
					WithDisplayName("existingplayer").
					Build(t, testDB.DB)
			},
			wantErr: service.ErrDisplayNameExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			result, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result.Account)
			assert.Equal(t, tt.input.DisplayName, result.Account.DisplayName)
			assert.ElementsMatch(t, tt.wantGrants, []string(result.Account.Grants))
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)

			claims, err := authService.ValidateToken(result.AccessToken)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.wantGrants, claims.Grants)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.Account, repos.AccountSession, cfg)
	ctx := context.Background()

	account, rawPassword := testutil.NewAccountBuilder().
		WithDisplayName("loginplayer").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name: "successful login",
			input: service.LoginInput{
				DisplayName: account.DisplayName,
				Password:    rawPassword,
			},
		},
		{
			name: "wrong password",
			input: service.LoginInput{
				DisplayName: account.DisplayName,
				Password:    "wrongpassword",
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name: "non-existent account",
			input: service.LoginInput{
				DisplayName: "nonexistent",
				Password:    "anypassword",
			},
			wantErr: service.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, account.ID, result.Account.ID)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.Account, repos.AccountSession, cfg)
	ctx := context.Background()

	result, err := authService.Register(ctx, service.RegisterInput{
		DisplayName: "tokenplayer",
		Password:    "password123",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid token", token: result.AccessToken},
		{name: "invalid token", token: "invalid.token.here", wantErr: true},
		{name: "malformed token", token: "notavalidjwt", wantErr: true},
		{name: "empty token", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := authService.ValidateToken(tt.token)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			caller := claims.Caller()
			assert.Equal(t, domain.PlayerID(result.Account.ID.String()), caller.PlayerID)
			assert.Equal(t, "tokenplayer", caller.Name)
			assert.True(t, caller.CanQueue(domain.VariantDraft))
			assert.False(t, caller.IsAdmin())
		})
	}
}

func TestAuthService_RefreshTokens(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.Account, repos.AccountSession, cfg)
	ctx := context.Background()

	first, err := authService.Register(ctx, service.RegisterInput{
		DisplayName: "refreshplayer",
		Password:    "password123",
	})
	require.NoError(t, err)

	second, err := authService.RefreshTokens(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, first.Account.ID, second.Account.ID)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = authService.RefreshTokens(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken, "a rotated token is dead")

	idPart, _, _ := strings.Cut(second.RefreshToken, ".")
	for _, bad := range []string{"", "nodot", "not-a-uuid.secret", idPart + ".wrongsecret", uuid.NewString() + ".secret"} {
		_, err := authService.RefreshTokens(ctx, bad)
		assert.ErrorIs(t, err, service.ErrInvalidRefreshToken, "token %q", bad)
	}
}

func TestAuthService_GetAccountByID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.Account, repos.AccountSession, cfg)
	ctx := context.Background()

	account, _ := testutil.NewAccountBuilder().
		WithDisplayName("getbyid").
		Build(t, testDB.DB)

	got, err := authService.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.DisplayName, got.DisplayName)

	_, err = authService.GetAccountByID(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrAccountNotFound)
}

func TestAuthService_Logout(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.Account, repos.AccountSession, cfg)
	ctx := context.Background()

	result, err := authService.Register(ctx, service.RegisterInput{
		DisplayName: "logoutplayer",
		Password:    "password123",
	})
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, result.Account.ID))
	// no sessions left to delete
	require.NoError(t, authService.Logout(ctx, result.Account.ID))

	_, err = authService.RefreshTokens(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
}
