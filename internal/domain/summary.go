package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the coarse phase shown to clients
type Status string

const (
	StatusQueueing      Status = "QUEUEING"
	StatusChoosingTeams Status = "CHOOSING_TEAMS"
	StatusInProgress    Status = "IN_PROGRESS"
	StatusFinished      Status = "FINISHED"
)

// PlayerView is the rendered form of a Player
type PlayerView struct {
	ID        PlayerID `json:"id"`
	Name      string   `json:"name"`
	Team      int      `json:"team"`
	IsCaptain bool     `json:"isCaptain"`
	IsSub     bool     `json:"isSub"`
	SubCount  int      `json:"subCount"`
	Wins      int      `json:"wins"`
	Losses    int      `json:"losses"`
}

// TeamView is the rendered form of a Team
type TeamView struct {
	Index         int          `json:"index"`
	Name          string       `json:"name"`
	Captain       PlayerID     `json:"captain,omitempty"`
	Members       []PlayerView `json:"members"`
	Capacity      int          `json:"capacity"`
	PlayersNeeded int          `json:"playersNeeded"`
	Score         int          `json:"score"`
	ScoreCeiling  int          `json:"scoreCeiling"`
}

// Summary is everything a UI needs to render a session
type Summary struct {
	SessionID      uuid.UUID    `json:"sessionId"`
	Version        uint64       `json:"version"`
	Variant        Variant      `json:"variant"`
	Status         Status       `json:"status"`
	Ping           string       `json:"ping"`
	Roster         []PlayerView `json:"roster"`
	Subs           []PlayerView `json:"subs"`
	Teams          []TeamView   `json:"teams,omitempty"`
	ScoreLine      string       `json:"scoreLine,omitempty"`
	Match          int          `json:"match,omitempty"`
	MatchCount     int          `json:"matchCount,omitempty"`
	OpenSlots      int          `json:"openSlots"`
	EndVotes       int          `json:"endVotes"`
	EndVotesNeeded int          `json:"endVotesNeeded"`
	CanStartEarly  bool         `json:"canStartEarly"`
	ExpiresAt      *time.Time   `json:"expiresAt,omitempty"`
}

// Status derives the phase without mutating the session.
func (s *Session) Status() Status {
	switch {
	case s.terminated || s.Expired():
		return StatusFinished
	case s.process == nil:
		return StatusQueueing
	case !s.process.Started:
		return StatusChoosingTeams
	default:
		return StatusInProgress
	}
}

// Summary renders the current state. It is a pure read.
func (s *Session) Summary() Summary {
	sum := Summary{
		SessionID:  s.ID,
		Version:    s.version,
		Variant:    s.Config.Variant,
		Status:     s.Status(),
		Ping:       s.Ping(),
		Roster:     []PlayerView{},
		Subs:       []PlayerView{},
		MatchCount: s.Config.MatchCount,
		OpenSlots:  s.inactiveCount,
	}
	for _, id := range s.order {
		p := s.players[id]
		if p.Active {
			sum.Roster = append(sum.Roster, s.view(p))
		} else {
			sum.Subs = append(sum.Subs, s.view(p))
		}
	}

	teams, started := s.finalTeams, s.finalStarted
	if s.process != nil {
		teams, started = s.process.Teams, s.process.Started
		sum.EndVotes = len(s.process.EndVotes)
		sum.EndVotesNeeded = s.endVotesNeeded()
	}
	for _, t := range teams {
		tv := TeamView{
			Index:         t.Index,
			Name:          t.Name,
			Captain:       t.Captain,
			Members:       make([]PlayerView, 0, len(t.Members)),
			Capacity:      t.Capacity,
			PlayersNeeded: t.PlayersNeeded,
			Score:         t.Score,
			ScoreCeiling:  t.ScoreCeiling,
		}
		for _, m := range t.Members {
			tv.Members = append(tv.Members, s.view(s.players[m]))
		}
		sum.Teams = append(sum.Teams, tv)
	}
	if started && s.Config.TracksScore() {
		sum.ScoreLine = scoreLine(teams)
		played := 0
		for _, t := range teams {
			played += t.Score
		}
		sum.Match = min(played+1, s.Config.MatchCount)
	}

	if sum.Status == StatusQueueing {
		expires := s.expiresAt
		sum.ExpiresAt = &expires
		sum.CanStartEarly = s.Config.MinToStart < s.Config.MaxToStart && s.activeCount() >= s.Config.MinToStart
	}
	return sum
}

func (s *Session) view(p *Player) PlayerView {
	return PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Team:      p.Team,
		IsCaptain: p.IsCaptain(),
		IsSub:     p.IsSub,
		SubCount:  p.SubCount,
		Wins:      p.Wins,
		Losses:    p.Losses,
	}
}

func scoreLine(teams []Team) string {
	if len(teams) == 2 {
		return fmt.Sprintf("%s %d - %d %s", teams[0].Name, teams[0].Score, teams[1].Score, teams[1].Name)
	}
	parts := make([]string, len(teams))
	for i, t := range teams {
		parts[i] = fmt.Sprintf("%s %d", t.Name, t.Score)
	}
	return strings.Join(parts, " | ")
}
