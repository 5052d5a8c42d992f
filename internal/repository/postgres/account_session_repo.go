package postgres

import (
	"context"

	"github.com/dom/draft-queue/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type accountSessionRepository struct {
	db *gorm.DB
}

func NewAccountSessionRepository(db *gorm.DB) *accountSessionRepository {
	return &accountSessionRepository{db: db}
}

func (r *accountSessionRepository) Create(ctx context.Context, session *domain.AccountSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *accountSessionRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.AccountSession, error) {
	var session domain.AccountSession
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *accountSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.AccountSession{}, "id = ?", id).Error
}

func (r *accountSessionRepository) DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.AccountSession{}, "account_id = ?", accountID).Error
}
