package postgres

import (
	"context"

	"github.com/dom/draft-queue/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const totalsSelect = "player_id, MAX(display_name) AS display_name, variant, " +
	"SUM(wins) AS wins, SUM(losses) AS losses, COUNT(*) AS sessions"

type statRepository struct {
	db *gorm.DB
}

func NewStatRepository(db *gorm.DB) *statRepository {
	return &statRepository{db: db}
}

// SaveSession writes the session header and every player line in one
// transaction. Both writes upsert on their keys.
func (r *statRepository) SaveSession(ctx context.Context, record *domain.SessionRecord, results []*domain.SessionResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit("Results").
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"variant", "team_scores", "ended_at", "updated_at"}),
			}).
			Create(record).Error
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"variant", "display_name", "team", "wins", "losses", "is_new", "finished"}),
		}).Create(results).Error
	})
}

func (r *statRepository) GetSession(ctx context.Context, id uuid.UUID) (*domain.SessionRecord, error) {
	var record domain.SessionRecord
	err := r.db.WithContext(ctx).
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("team, player_id")
		}).
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *statRepository) Leaderboard(ctx context.Context, variant domain.Variant, limit int) ([]*domain.PlayerTotals, error) {
	var totals []*domain.PlayerTotals
	err := r.db.WithContext(ctx).
		Model(&domain.SessionResult{}).
		Select(totalsSelect).
		Where("variant = ?", variant).
		Group("player_id, variant").
		Order("wins DESC, losses ASC, player_id").
		Limit(limit).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *statRepository) PlayerTotals(ctx context.Context, playerID domain.PlayerID) ([]*domain.PlayerTotals, error) {
	var totals []*domain.PlayerTotals
	err := r.db.WithContext(ctx).
		Model(&domain.SessionResult{}).
		Select(totalsSelect).
		Where("player_id = ?", playerID).
		Group("player_id, variant").
		Order("variant").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
