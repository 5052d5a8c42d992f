package repository

import (
	"context"

	"github.com/dom/draft-queue/internal/domain"
	"github.com/google/uuid"
)

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
}

type AccountSessionRepository interface {
	Create(ctx context.Context, session *domain.AccountSession) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.AccountSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error
}

// StatRepository stores finished sessions. SaveSession must be idempotent per
// session ID so a retried report never counts twice.
type StatRepository interface {
	SaveSession(ctx context.Context, record *domain.SessionRecord, results []*domain.SessionResult) error
	GetSession(ctx context.Context, id uuid.UUID) (*domain.SessionRecord, error)
	Leaderboard(ctx context.Context, variant domain.Variant, limit int) ([]*domain.PlayerTotals, error)
	PlayerTotals(ctx context.Context, playerID domain.PlayerID) ([]*domain.PlayerTotals, error)
}

type Repositories struct {
	Account        AccountRepository
	AccountSession AccountSessionRepository
	Stat           StatRepository
}
