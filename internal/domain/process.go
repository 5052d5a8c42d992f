package domain

// SessionProcess exists once a session's roster has formed. It owns the teams,
// the match-play flag and the end-confirmation votes.
type SessionProcess struct {
	Started  bool
	Teams    []Team
	EndVotes map[PlayerID]struct{}
}

func newProcess(cfg GameConfig, sizes []int) *SessionProcess {
	p := &SessionProcess{
		Teams:    make([]Team, len(sizes)),
		EndVotes: make(map[PlayerID]struct{}),
	}
	for i, size := range sizes {
		p.Teams[i] = newTeam(i, size, cfg.WinningScore)
	}
	if len(p.Teams) == 2 {
		p.Teams[0].Opponent = 1
		p.Teams[1].Opponent = 0
	}
	return p
}

func (p *SessionProcess) team(index int) (*Team, error) {
	if index < 0 || index >= len(p.Teams) {
		return nil, ErrNoSuchTeam
	}
	return &p.Teams[index], nil
}

// teamOf returns the index of the team holding id, or NoTeam.
func (p *SessionProcess) teamOf(id PlayerID) int {
	for i := range p.Teams {
		if p.Teams[i].has(id) {
			return i
		}
	}
	return NoTeam
}

func (p *SessionProcess) full() bool {
	for i := range p.Teams {
		if p.Teams[i].PlayersNeeded != 0 {
			return false
		}
	}
	return true
}

func (p *SessionProcess) recordEndVote(id PlayerID) int {
	p.EndVotes[id] = struct{}{}
	return len(p.EndVotes)
}

func (p *SessionProcess) clearEndVotes() {
	clear(p.EndVotes)
}

// adjustScore moves a team's score and mirrors it onto every active player's
// tallies: wins for the scoring team, losses for its opponent.
func (p *SessionProcess) adjustScore(index, delta int, players map[PlayerID]*Player, ceiling int) error {
	t, err := p.team(index)
	if err != nil {
		return err
	}
	if err := t.adjust(delta); err != nil {
		return err
	}
	for _, id := range t.Members {
		if pl := players[id]; pl != nil && pl.Active {
			pl.Wins = tally(pl.Wins, delta, ceiling)
		}
	}
	if t.Opponent != NoTeam {
		for _, id := range p.Teams[t.Opponent].Members {
			if pl := players[id]; pl != nil && pl.Active {
				pl.Losses = tally(pl.Losses, delta, ceiling)
			}
		}
	}
	p.clearEndVotes()
	return nil
}

func (p *SessionProcess) snapshotTeams() []Team {
	teams := make([]Team, len(p.Teams))
	for i, t := range p.Teams {
		t.Members = append([]PlayerID(nil), t.Members...)
		teams[i] = t
	}
	return teams
}
