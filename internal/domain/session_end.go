package domain

import (
	"time"

	"github.com/google/uuid"
)

// EndResult is produced exactly once, when a session terminates with a process.
type EndResult struct {
	SessionID uuid.UUID
	Variant   Variant
	Started   bool
	// Report is nil when match play never started; nothing is reported then.
	Report *StatReport
}

// StatReport is handed to the stat collaborator at termination.
type StatReport struct {
	SessionID  uuid.UUID      `json:"sessionId"`
	Variant    Variant        `json:"variant"`
	EndedAt    time.Time      `json:"endedAt"`
	TeamScores []int          `json:"teamScores"`
	Players    []PlayerResult `json:"players"`
}

// PlayerResult is one player's final tally.
type PlayerResult struct {
	PlayerID PlayerID `json:"playerId"`
	Name     string   `json:"name"`
	Team     int      `json:"team"`
	Wins     int      `json:"wins"`
	Losses   int      `json:"losses"`
	New      bool     `json:"new"`
	Active   bool     `json:"active"`
}

// AdjustScore moves a team's score by one. callerID must be playing unless
// admin is set.
func (s *Session) AdjustScore(callerID PlayerID, team, delta int, admin bool) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.requireProcess(); err != nil {
		return err
	}
	if !s.process.Started {
		return ErrMatchNotStarted
	}
	if !admin {
		p, err := s.participant(callerID)
		if err != nil {
			return err
		}
		if !p.HasTeam {
			return ErrNotInSession
		}
	}
	if !s.Config.TracksScore() {
		return ErrScoreNotTracked
	}
	if delta != 1 && delta != -1 {
		return ErrInvalidDelta
	}
	return s.process.adjustScore(team, delta, s.players, s.Config.WinningScore)
}

// RequestEnd records an end vote. Before match play MaxToEnd votes are
// needed, afterwards MinToEnd. The EndResult is non-nil once the vote closes
// the session.
func (s *Session) RequestEnd(id PlayerID) (*EndResult, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if s.process == nil {
		return nil, ErrNotInSession
	}
	p, err := s.participant(id)
	if err != nil {
		return nil, err
	}
	if s.process.Started && !p.HasTeam {
		return nil, ErrNotInSession
	}
	if s.process.recordEndVote(id) < s.endVotesNeeded() {
		return nil, nil
	}
	return s.finish(), nil
}

func (s *Session) endVotesNeeded() int {
	if s.process != nil && s.process.Started {
		return s.Config.MinToEnd
	}
	return s.Config.MaxToEnd
}

// ForceEnd closes the session regardless of votes.
func (s *Session) ForceEnd() (*EndResult, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if s.process == nil {
		s.terminated = true
		s.endedAt = s.clock.Now()
		return nil, nil
	}
	return s.finish(), nil
}

func (s *Session) finish() *EndResult {
	s.endedAt = s.clock.Now()
	res := &EndResult{
		SessionID: s.ID,
		Variant:   s.Config.Variant,
		Started:   s.process.Started,
	}
	if s.process.Started {
		res.Report = s.report()
	}
	s.finalTeams = s.process.snapshotTeams()
	s.finalStarted = s.process.Started
	s.process = nil
	s.initialized = false
	s.terminated = true
	return res
}

func (s *Session) report() *StatReport {
	r := &StatReport{
		SessionID:  s.ID,
		Variant:    s.Config.Variant,
		EndedAt:    s.endedAt,
		TeamScores: make([]int, len(s.process.Teams)),
	}
	for i, t := range s.process.Teams {
		r.TeamScores[i] = t.Score
	}
	for _, id := range s.order {
		p := s.players[id]
		r.Players = append(r.Players, PlayerResult{
			PlayerID: p.ID,
			Name:     p.Name,
			Team:     p.LastTeam,
			Wins:     p.Wins,
			Losses:   p.Losses,
			New:      p.New,
			Active:   p.Active,
		})
	}
	return r
}
