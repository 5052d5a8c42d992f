package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dom/draft-queue/internal/domain"
	"github.com/dom/draft-queue/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultLeaderboardLimit = 25
	maxLeaderboardLimit     = 100
)

var ErrRecordNotFound = errors.New("session record not found")

// StatsService is the stat store behind finished sessions. Writes are
// idempotent per session, so retrying a failed write is always safe.
type StatsService struct {
	repo       repository.StatRepository
	maxElapsed time.Duration
}

func NewStatsService(repo repository.StatRepository, maxElapsed time.Duration) *StatsService {
	return &StatsService{
		repo:       repo,
		maxElapsed: maxElapsed,
	}
}

// ReportStats stores a finished session, retrying with exponential backoff
// until maxElapsed has passed or ctx is done.
func (s *StatsService) ReportStats(ctx context.Context, report *domain.StatReport) error {
	if report == nil {
		return nil
	}
	record, results := domain.NewRecords(report)

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = s.maxElapsed

	attempts := 0
	op := func() error {
		attempts++
		return s.repo.SaveSession(ctx, record, results)
	}
	notify := func(err error, wait time.Duration) {
		log.Printf("ERROR [StatsService.ReportStats] session=%s attempt=%d: %v (retrying in %s)", report.SessionID, attempts, err, wait)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("report session %s: %w", report.SessionID, err)
	}
	log.Printf("StatsService: stored session %s (%d players)", report.SessionID, len(results))
	return nil
}

func (s *StatsService) Leaderboard(ctx context.Context, variant domain.Variant, limit int) ([]*domain.PlayerTotals, error) {
	if _, err := domain.LookupGameConfig(variant); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	limit = min(limit, maxLeaderboardLimit)
	return s.repo.Leaderboard(ctx, variant, limit)
}

// Profile returns a player's totals for every variant they have played.
func (s *StatsService) Profile(ctx context.Context, playerID domain.PlayerID) ([]*domain.PlayerTotals, error) {
	return s.repo.PlayerTotals(ctx, playerID)
}

func (s *StatsService) Session(ctx context.Context, id uuid.UUID) (*domain.SessionRecord, error) {
	record, err := s.repo.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}
