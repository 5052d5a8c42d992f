package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Session is one queue-to-finish unit for a variant. It is not safe for
// concurrent use; callers serialize commands (see service.DraftService).
type Session struct {
	ID     uuid.UUID
	Config GameConfig

	tuning Tuning
	clock  Clock
	rand   Rand

	initialized   bool
	terminated    bool
	players       map[PlayerID]*Player
	order         []PlayerID
	joinHistory   map[PlayerID]struct{}
	inactiveCount int
	subOuts       int
	process       *SessionProcess
	// version counts applied commands; summaries carry it so observers can order them
	version       uint64

	// kept after the process is retired so the finished summary can still be rendered
	finalTeams   []Team
	finalStarted bool

	createdAt time.Time
	expiresAt time.Time
	repingAt  time.Time
	endedAt   time.Time
}

// NewSession builds an empty queue. A missing clock or random source is
// fatal: no partially initialized session is ever returned.
func NewSession(id uuid.UUID, cfg GameConfig, tuning Tuning, clock Clock, rnd Rand) (*Session, error) {
	if clock == nil {
		return nil, ErrClockUnavailable
	}
	if rnd == nil {
		return nil, ErrRandUnavailable
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	now := clock.Now()
	if now.IsZero() {
		return nil, ErrClockUnavailable
	}
	return &Session{
		ID:          id,
		Config:      cfg,
		tuning:      tuning,
		clock:       clock,
		rand:        rnd,
		players:     make(map[PlayerID]*Player),
		joinHistory: make(map[PlayerID]struct{}),
		createdAt:   now,
		expiresAt:   now.Add(tuning.ExpiryWindow),
		repingAt:    now.Add(tuning.RepingCooldown),
	}, nil
}

// guard runs at the start of every command. Expiry is evaluated lazily here.
func (s *Session) guard() error {
	if s.terminated {
		return ErrTerminalState
	}
	if s.Expired() {
		s.terminated = true
		s.endedAt = s.expiresAt
		return ErrTerminalState
	}
	return nil
}

// Join queues a player. Reaching MaxToStart forms the teams immediately.
func (s *Session) Join(id PlayerID, name string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if _, ok := s.players[id]; ok {
		return ErrAlreadyQueued
	}
	if s.initialized {
		return ErrSessionFull
	}

	_, seen := s.joinHistory[id]
	s.joinHistory[id] = struct{}{}
	s.players[id] = newPlayer(id, name, s.clock.Now())
	s.order = append(s.order, id)

	size := s.activeCount()
	if !seen {
		s.extendExpiry(size)
	}
	if size >= s.Config.MaxToStart {
		return s.form()
	}
	return nil
}

// extendExpiry grants extra queue time when a first-time joiner lands on one
// of the threshold roster sizes. Rejoins never extend.
func (s *Session) extendExpiry(size int) {
	var bonus int
	switch size {
	case s.Config.MaxToStart - 2:
		bonus = s.tuning.NearFullBonus
	case s.Config.MaxToStart/2 - 1:
		bonus = s.tuning.HalfwayBonus
	}
	if bonus > 0 {
		s.expiresAt = s.expiresAt.Add(time.Duration(bonus) * s.tuning.TimeUnit)
	}
}

// Leave removes a queued player before the session forms.
func (s *Session) Leave(id PlayerID) error {
	if err := s.guard(); err != nil {
		return err
	}
	if _, ok := s.players[id]; !ok {
		return ErrNotQueued
	}
	if s.initialized {
		return ErrMatchInProgress
	}
	s.removeQueued(id)
	return nil
}

func (s *Session) removeQueued(id PlayerID) {
	delete(s.players, id)
	s.order = slices.DeleteFunc(s.order, func(o PlayerID) bool { return o == id })
}

// StartEarly forms the session with the current roster once MinToStart is met.
func (s *Session) StartEarly(id PlayerID) error {
	if err := s.guard(); err != nil {
		return err
	}
	if s.initialized {
		return ErrMatchInProgress
	}
	if _, ok := s.players[id]; !ok {
		return ErrNotQueued
	}
	if s.activeCount() < s.Config.MinToStart {
		return ErrNotEnoughPlayers
	}
	return s.form()
}

// Reping re-emits the ping text if the cooldown has run out and the session
// is close enough to full for a ping to be useful.
func (s *Session) Reping() (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	now := s.clock.Now()
	if now.Before(s.repingAt) {
		return "", ErrCooldownActive
	}
	if s.need() > s.Config.MaxToStart/2+1 {
		return "", ErrCooldownActive
	}
	s.repingAt = now.Add(s.tuning.RepingCooldown)
	return s.Ping(), nil
}

// Ping renders "<role> +<N>".
func (s *Session) Ping() string {
	return fmt.Sprintf("%s +%d", s.Config.Role, s.need())
}

func (s *Session) need() int {
	if s.process != nil && s.process.Started {
		return 0
	}
	return max(s.Config.MaxToStart-s.activeCount(), 0)
}

// Expired is true once an unformed queue has outlived its window.
func (s *Session) Expired() bool {
	return !s.initialized && !s.clock.Now().Before(s.expiresAt)
}

func (s *Session) form() error {
	ids := s.activeIDs()
	s.process = newProcess(s.Config, splitEvenly(len(ids), s.Config.TeamCount))
	s.initialized = true
	if s.Config.Captained {
		return s.determineCaptains("")
	}
	return s.shuffleTeams()
}

func (s *Session) activeIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(s.order))
	for _, id := range s.order {
		if s.players[id].Active {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Session) activeCount() int {
	n := 0
	for _, p := range s.players {
		if p.Active {
			n++
		}
	}
	return n
}

// Initialized reports whether the roster has formed and a process exists.
func (s *Session) Initialized() bool { return s.initialized }

// Terminated reports whether the session accepts no further commands.
func (s *Session) Terminated() bool { return s.terminated }

// ExpiresAt is the current queue deadline.
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// InactiveCount is the number of vacated slots waiting for a sub.
func (s *Session) InactiveCount() int { return s.inactiveCount }

// Process returns the live process, or nil before formation and after the end.
func (s *Session) Process() *SessionProcess { return s.process }

// Player returns a copy of the player's state.
func (s *Session) Player(id PlayerID) (Player, bool) {
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Players returns copies of every player in join order.
func (s *Session) Players() []Player {
	out := make([]Player, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.players[id])
	}
	return out
}
