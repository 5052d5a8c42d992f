package domain

import "time"

// PlayerID is the opaque participant identity handed over by the transport.
type PlayerID string

// MaxSubCount is how many times a player may (re)enter a formed session as a sub.
const MaxSubCount = 2

// NoTeam marks a player that is not on any team.
const NoTeam = -1

// Captaincy is the draft-only payload attached to a captain.
type Captaincy struct {
	Team int `json:"team"`
}

// Player is a participant's session-scoped state.
type Player struct {
	ID           PlayerID
	Name         string
	Active       bool
	HasTeam      bool
	Team         int // index into the process teams, NoTeam when unassigned
	LastTeam     int // last team the player was on, kept for stat reporting
	IsSub        bool
	SubCount     int
	Wins         int
	Losses       int
	// New is set for players who entered through a sub-in rather than the queue.
	New          bool
	// ProfileShown is set once a new player's profile has been reported.
	ProfileShown bool
	Captain      *Captaincy
	JoinedAt     time.Time
}

func newPlayer(id PlayerID, name string, now time.Time) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Active:   true,
		Team:     NoTeam,
		LastTeam: NoTeam,
		JoinedAt: now,
	}
}

// IsCaptain reports whether the player currently holds a captaincy.
func (p *Player) IsCaptain() bool {
	return p.Captain != nil
}

func (p *Player) assign(team int) {
	p.HasTeam = true
	p.Team = team
	p.LastTeam = team
}

func (p *Player) unassign() {
	p.HasTeam = false
	p.Team = NoTeam
}

// tally moves wins or losses by delta, clamped to [0, ceiling].
func tally(v, delta, ceiling int) int {
	v += delta
	if v < 0 {
		return 0
	}
	if v > ceiling {
		return ceiling
	}
	return v
}
