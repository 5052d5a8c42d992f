package service

import (
	"context"
	"errors"
	"log"
	"slices"
	"sync"

	"github.com/dom/draft-queue/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotAdmin        = errors.New("admin grant required")
)

// Caller is the authenticated identity behind a command.
type Caller struct {
	PlayerID domain.PlayerID
	Name     string
	Grants   []string
}

// CanQueue reports whether the caller may queue for variant.
func (c Caller) CanQueue(variant domain.Variant) bool {
	return slices.Contains(c.Grants, string(variant))
}

func (c Caller) IsAdmin() bool {
	return slices.Contains(c.Grants, domain.GrantAdmin)
}

// Notifier receives rendered state after a command has been applied.
// Calls never happen while a session is mid-command.
type Notifier interface {
	SessionUpdated(summary domain.Summary)
	// SessionClosed is called once per session, when it ends or is swept.
	SessionClosed(summary domain.Summary)
	Ping(sessionID uuid.UUID, text string)
	Warn(sessionID uuid.UUID, message string)
	ShowProfile(sessionID uuid.UUID, playerID domain.PlayerID, totals []*domain.PlayerTotals)
}

// StatReporter persists the final tallies of a session that reached match play.
type StatReporter interface {
	ReportStats(ctx context.Context, report *domain.StatReport) error
}

// ProfileLookup loads the totals shown when a new player subs in.
type ProfileLookup interface {
	Profile(ctx context.Context, playerID domain.PlayerID) ([]*domain.PlayerTotals, error)
}

// DraftService is the arena of live sessions. Sessions share nothing; each
// one is driven by its own actor goroutine.
type DraftService struct {
	tuning   domain.Tuning
	clock    domain.Clock
	newRand  func() domain.Rand
	notifier Notifier
	stats    StatReporter
	profiles ProfileLookup

	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionActor
	closed   bool

	// reports tracks stat writes still in flight
	reports sync.WaitGroup
}

func NewDraftService(tuning domain.Tuning, clock domain.Clock, newRand func() domain.Rand, stats StatReporter, profiles ProfileLookup) *DraftService {
	return &DraftService{
		tuning:   tuning,
		clock:    clock,
		newRand:  newRand,
		notifier: nopNotifier{},
		stats:    stats,
		profiles: profiles,
		sessions: make(map[uuid.UUID]*sessionActor),
	}
}

// SetNotifier wires the outbound renderer. The hub and the service reference
// each other, so this is set after both exist.
func (s *DraftService) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	s.notifier = n
}

// Create opens a new queue for variant.
func (s *DraftService) Create(ctx context.Context, caller Caller, variant domain.Variant) (domain.Summary, error) {
	cfg, err := domain.LookupGameConfig(variant)
	if err != nil {
		return domain.Summary{}, err
	}
	if !caller.CanQueue(variant) && !caller.IsAdmin() {
		return domain.Summary{}, domain.ErrWrongAudience
	}

	var rnd domain.Rand
	if s.newRand != nil {
		rnd = s.newRand()
	}
	session, err := domain.NewSession(uuid.New(), cfg, s.tuning, s.clock, rnd)
	if err != nil {
		log.Printf("ERROR [DraftService.Create] variant=%s: %v", variant, err)
		return domain.Summary{}, err
	}

	actor := newSessionActor(session, s.clock.Now())
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.Summary{}, ErrSessionNotFound
	}
	s.sessions[actor.id] = actor
	s.mu.Unlock()
	go actor.run()

	out, err := actor.submit(ctx, domain.Command{Kind: domain.CmdSnapshot})
	if err != nil {
		return domain.Summary{}, err
	}
	log.Printf("DraftService: %s created %s session %s", caller.PlayerID, variant, actor.id)
	s.notifier.SessionUpdated(out.Summary)
	return out.Summary, nil
}

// Get renders a session without changing it.
func (s *DraftService) Get(ctx context.Context, id uuid.UUID) (domain.Summary, error) {
	actor, err := s.actor(id)
	if err != nil {
		return domain.Summary{}, err
	}
	out, err := actor.submit(ctx, domain.Command{Kind: domain.CmdSnapshot})
	if err != nil {
		return domain.Summary{}, err
	}
	return out.Summary, nil
}

// List renders every live session in creation order, optionally filtered by variant.
func (s *DraftService) List(ctx context.Context, variant domain.Variant) ([]domain.Summary, error) {
	actors := s.actors()
	summaries := make([]domain.Summary, 0, len(actors))
	for _, a := range actors {
		if variant != "" && a.variant != variant {
			continue
		}
		out, err := a.submit(ctx, domain.Command{Kind: domain.CmdSnapshot})
		if errors.Is(err, ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, out.Summary)
	}
	return summaries, nil
}

// Dispatch checks the caller's grants, runs cmd on the session's actor and
// then hands the copied outcome to the collaborators.
func (s *DraftService) Dispatch(ctx context.Context, id uuid.UUID, caller Caller, cmd domain.Command) (domain.Outcome, error) {
	actor, err := s.actor(id)
	if err != nil {
		return domain.Outcome{}, err
	}

	switch cmd.Kind {
	case domain.CmdJoin, domain.CmdSubIn:
		if !caller.CanQueue(actor.variant) {
			return domain.Outcome{}, domain.ErrWrongAudience
		}
	case domain.CmdForceSub, domain.CmdForceEnd:
		if !caller.IsAdmin() {
			return domain.Outcome{}, ErrNotAdmin
		}
	case domain.CmdAdjustScore:
		cmd.Admin = caller.IsAdmin()
	}
	if cmd.Kind != domain.CmdForceSub && cmd.Kind != domain.CmdForceEnd {
		cmd.PlayerID = caller.PlayerID
		if cmd.Name == "" {
			cmd.Name = caller.Name
		}
	}

	out, err := actor.submit(ctx, cmd)
	if err != nil {
		return domain.Outcome{}, err
	}
	s.publish(ctx, actor, out)
	return out, nil
}

func (s *DraftService) publish(ctx context.Context, actor *sessionActor, out domain.Outcome) {
	id := out.Summary.SessionID

	if out.Ping != "" {
		s.notifier.Ping(id, out.Ping)
	}
	if out.Warning != "" {
		s.notifier.Warn(id, out.Warning)
	}
	for _, pid := range out.Placed {
		s.showProfile(ctx, id, pid)
	}

	if out.End == nil && out.Summary.Status != domain.StatusFinished {
		s.notifier.SessionUpdated(out.Summary)
		return
	}
	if actor.closed.CompareAndSwap(false, true) {
		s.notifier.SessionClosed(out.Summary)
	}
	if out.End != nil && out.End.Report != nil {
		s.report(ctx, out.End.Report)
	}
}

func (s *DraftService) showProfile(ctx context.Context, sessionID uuid.UUID, playerID domain.PlayerID) {
	var totals []*domain.PlayerTotals
	if s.profiles != nil {
		var err error
		totals, err = s.profiles.Profile(ctx, playerID)
		if err != nil {
			log.Printf("ERROR [DraftService.showProfile] player=%s: %v", playerID, err)
		}
	}
	s.notifier.ShowProfile(sessionID, playerID, totals)
}

// report hands the final tallies to the stat store without holding up the
// command that ended the session.
func (s *DraftService) report(ctx context.Context, report *domain.StatReport) {
	if s.stats == nil {
		return
	}
	s.reports.Add(1)
	go func() {
		defer s.reports.Done()
		if err := s.stats.ReportStats(context.WithoutCancel(ctx), report); err != nil {
			log.Printf("ERROR [DraftService.report] session=%s: %v", report.SessionID, err)
		}
	}()
}

// SweepExpired retires every session that has finished or whose queue window
// has passed. It returns how many were removed.
func (s *DraftService) SweepExpired(ctx context.Context) int {
	removed := 0
	for _, a := range s.actors() {
		out, err := a.submit(ctx, domain.Command{Kind: domain.CmdSnapshot})
		if err != nil {
			if ctx.Err() != nil {
				return removed
			}
			continue
		}
		if out.Summary.Status != domain.StatusFinished {
			continue
		}

		s.mu.Lock()
		delete(s.sessions, a.id)
		s.mu.Unlock()
		a.shutdown()

		if a.closed.CompareAndSwap(false, true) {
			s.notifier.SessionClosed(out.Summary)
		}
		removed++
	}
	if removed > 0 {
		log.Printf("DraftService: swept %d finished sessions", removed)
	}
	return removed
}

// Close stops every actor and waits for pending stat writes.
func (s *DraftService) Close() {
	s.mu.Lock()
	s.closed = true
	actors := make([]*sessionActor, 0, len(s.sessions))
	for _, a := range s.sessions {
		actors = append(actors, a)
	}
	s.sessions = make(map[uuid.UUID]*sessionActor)
	s.mu.Unlock()

	for _, a := range actors {
		a.shutdown()
	}
	s.reports.Wait()
}

func (s *DraftService) actor(id uuid.UUID) (*sessionActor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return a, nil
}

func (s *DraftService) actors() []*sessionActor {
	s.mu.RLock()
	out := make([]*sessionActor, 0, len(s.sessions))
	for _, a := range s.sessions {
		out = append(out, a)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *sessionActor) int {
		if c := a.created.Compare(b.created); c != 0 {
			return c
		}
		return slices.Compare(a.id[:], b.id[:])
	})
	return out
}

type nopNotifier struct{}

func (nopNotifier) SessionUpdated(domain.Summary) {}
func (nopNotifier) SessionClosed(domain.Summary) {}
func (nopNotifier) Ping(uuid.UUID, string) {}
func (nopNotifier) Warn(uuid.UUID, string) {}
func (nopNotifier) ShowProfile(uuid.UUID, domain.PlayerID, []*domain.PlayerTotals) {}
