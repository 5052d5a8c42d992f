package domain

import "fmt"

// RequestSubOut marks a player of a formed session as leaving. The slot they
// vacate stays open until someone subs in. The returned string is a non-fatal
// advisory emitted on every second sub-out.
func (s *Session) RequestSubOut(id PlayerID) (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	p, ok := s.players[id]
	if !ok || s.process == nil {
		return "", ErrNotInSession
	}
	if !p.Active {
		return "", ErrAlreadySubbedOut
	}
	return s.subOut(p)
}

// ForceSub is the administrative variant of RequestSubOut. Before the session
// forms it simply drops the player from the queue.
func (s *Session) ForceSub(id PlayerID) (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	p, ok := s.players[id]
	if !ok {
		return "", ErrNotInSession
	}
	if !s.initialized {
		s.removeQueued(id)
		return "", nil
	}
	if !p.Active {
		return "", ErrAlreadySubbedOut
	}
	return s.subOut(p)
}

func (s *Session) subOut(p *Player) (string, error) {
	wasCaptain := p.IsCaptain()
	if p.HasTeam {
		slot := p.Team
		if wasCaptain && !s.process.Started {
			s.vacateTeam(slot)
		} else if err := s.process.Teams[slot].remove(p.ID); err != nil {
			return "", err
		}
		p.unassign()
	}
	p.Captain = nil
	p.Active = false
	p.IsSub = true
	s.inactiveCount++
	s.subOuts++
	delete(s.process.EndVotes, p.ID)

	if wasCaptain {
		if err := s.determineCaptains(p.ID); err != nil {
			return "", err
		}
	}
	if s.subOuts%2 == 0 {
		return fmt.Sprintf("%d players have subbed out of this session", s.subOuts), nil
	}
	return "", nil
}

// SubIn fills a vacated slot, either with a returning player or a new one.
// It reports whether the player was placed on a team; during captain
// selection subs wait unassigned until a captain picks them.
func (s *Session) SubIn(id PlayerID, name string) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	if s.process == nil {
		return false, ErrNoOpenSlot
	}
	p, existing := s.players[id]
	if existing {
		if p.Active {
			return false, ErrAlreadyQueued
		}
		if p.SubCount >= MaxSubCount {
			return false, ErrSubLimitReached
		}
	}
	if s.inactiveCount == 0 {
		return false, ErrNoOpenSlot
	}
	if !existing {
		p = newPlayer(id, name, s.clock.Now())
		p.New = true
		s.players[id] = p
		s.order = append(s.order, id)
		s.joinHistory[id] = struct{}{}
	}
	p.Active = true
	p.IsSub = true
	p.SubCount++
	s.inactiveCount--

	if s.Config.Captained && !s.process.Started {
		return false, nil
	}
	slot := s.subSlot(p)
	if slot == NoTeam {
		return false, nil
	}
	if err := s.process.Teams[slot].add(id); err != nil {
		return false, err
	}
	p.assign(slot)
	return true, nil
}

// subSlot prefers the team the player last played on.
func (s *Session) subSlot(p *Player) int {
	if p.LastTeam != NoTeam && s.process.Teams[p.LastTeam].PlayersNeeded > 0 {
		return p.LastTeam
	}
	return s.openestTeam()
}
