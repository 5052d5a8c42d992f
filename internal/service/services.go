package service

import (
	"github.com/dom/draft-queue/internal/config"
	"github.com/dom/draft-queue/internal/domain"
	"github.com/dom/draft-queue/internal/repository"
)

type Services struct {
	Auth  *AuthService
	Stats *StatsService
	Draft *DraftService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, clock domain.Clock) *Services {
	stats := NewStatsService(repos.Stat, cfg.StatRetryMaxElapsed)
	return &Services{
		Auth:  NewAuthService(repos.Account, repos.AccountSession, cfg),
		Stats: stats,
		Draft: NewDraftService(cfg.Tuning(), clock, domain.NewRand, stats, stats),
	}
}
