package domain

// determineCaptains fills every empty captain slot with a random active,
// non-sub, non-captain player. exclude is never picked, so a captain who just
// vacated cannot be reselected straight away.
func (s *Session) determineCaptains(exclude PlayerID) error {
	for slot := range s.process.Teams {
		team := &s.process.Teams[slot]
		if team.Captain != "" {
			continue
		}
		candidates := s.captainCandidates(slot, exclude)
		if len(candidates) == 0 {
			continue
		}
		pick := s.players[candidates[s.rand.Intn(len(candidates))]]
		if !team.has(pick.ID) {
			if err := team.add(pick.ID); err != nil {
				return err
			}
			pick.assign(slot)
		}
		team.Captain = pick.ID
		pick.Captain = &Captaincy{Team: slot}
	}
	return nil
}

// captainCandidates lists eligible players for a slot in join order. Once play
// has started a replacement captain must already be on that team.
func (s *Session) captainCandidates(slot int, exclude PlayerID) []PlayerID {
	var out []PlayerID
	for _, id := range s.order {
		p := s.players[id]
		if id == exclude || !p.Active || p.IsSub || p.IsCaptain() {
			continue
		}
		if s.process.Started {
			if p.Team != slot {
				continue
			}
		} else if p.HasTeam && p.Team != slot {
			continue
		}
		out = append(out, id)
	}
	return out
}

// shuffleTeams deals every active player onto the team with the most open
// slots, in random order. Used by variants without captains.
func (s *Session) shuffleTeams() error {
	for i := range s.process.Teams {
		s.process.Teams[i].clear()
	}
	ids := s.activeIDs()
	for _, id := range ids {
		s.players[id].unassign()
	}
	s.rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	for _, id := range ids {
		slot := s.openestTeam()
		if slot == NoTeam {
			return ErrIncompleteRoster
		}
		if err := s.process.Teams[slot].add(id); err != nil {
			return err
		}
		s.players[id].assign(slot)
	}
	return nil
}

// openestTeam returns the team needing the most players, lowest index first.
func (s *Session) openestTeam() int {
	best := NoTeam
	for i := range s.process.Teams {
		need := s.process.Teams[i].PlayersNeeded
		if need > 0 && (best == NoTeam || need > s.process.Teams[best].PlayersNeeded) {
			best = i
		}
	}
	return best
}

func (s *Session) requireProcess() error {
	if s.process == nil {
		return ErrTeamsNotFormed
	}
	return nil
}

func (s *Session) captain(id PlayerID) (*Player, error) {
	if !s.Config.Captained {
		return nil, ErrNotCaptain
	}
	p, ok := s.players[id]
	if !ok || !p.Active || !p.IsCaptain() {
		return nil, ErrNotCaptain
	}
	return p, nil
}

func (s *Session) participant(id PlayerID) (*Player, error) {
	p, ok := s.players[id]
	if !ok || !p.Active {
		return nil, ErrNotInSession
	}
	return p, nil
}

// AssignCaptains fills any empty captain slot. Only draft-style variants have captains.
func (s *Session) AssignCaptains(callerID PlayerID) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.requireProcess(); err != nil {
		return err
	}
	if !s.Config.Captained {
		return ErrNotCaptain
	}
	if _, err := s.participant(callerID); err != nil {
		return err
	}
	if s.process.Started {
		return ErrMatchInProgress
	}
	return s.determineCaptains("")
}

// ReassignCaptain lets a captain give up the role. Their team is emptied and a
// different captain is drawn for it.
func (s *Session) ReassignCaptain(id PlayerID) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.requireProcess(); err != nil {
		return err
	}
	p, err := s.captain(id)
	if err != nil {
		return err
	}
	if s.process.Started {
		return ErrMatchInProgress
	}
	if len(s.captainCandidates(p.Captain.Team, id)) == 0 {
		return ErrNoReplacement
	}
	s.vacateTeam(p.Captain.Team)
	p.Captain = nil
	if err := s.determineCaptains(id); err != nil {
		return err
	}
	// the outgoing captain may still lead a team nobody else can
	return s.determineCaptains("")
}

// vacateTeam unassigns every member and clears the roster and captain slot.
func (s *Session) vacateTeam(slot int) {
	team := &s.process.Teams[slot]
	for _, m := range team.Members {
		if mp := s.players[m]; mp != nil {
			mp.unassign()
			mp.Captain = nil
		}
	}
	team.clear()
}

// AddToTeam puts a player on the captain's team during selection.
func (s *Session) AddToTeam(captainID, playerID PlayerID) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.requireProcess(); err != nil {
		return err
	}
	c, err := s.captain(captainID)
	if err != nil {
		return err
	}
	if s.process.Started {
		return ErrMatchInProgress
	}
	target, ok := s.players[playerID]
	if !ok || !target.Active {
		return ErrNotQueued
	}
	if target.HasTeam {
		return ErrAlreadyOnTeam
	}
	slot := c.Captain.Team
	if err := s.process.Teams[slot].add(playerID); err != nil {
		return err
	}
	target.assign(slot)
	return nil
}

// AddToTeamAt is AddToTeam for callers that name the team. A captain may only
// fill their own team.
func (s *Session) AddToTeamAt(team int, captainID, playerID PlayerID) error {
	if err := s.guard(); err != nil {
		return err
	}
	if s.process != nil && (team < 0 || team >= len(s.process.Teams)) {
		return ErrNoSuchTeam
	}
	if c, ok := s.players[captainID]; ok && c.IsCaptain() && c.Captain.Team != team {
		return ErrNotCaptain
	}
	return s.AddToTeam(captainID, playerID)
}

// ResetTeams clears team selection. Captained variants keep their captains
// and redraw any captain slot left empty; the others get a fresh shuffle.
func (s *Session) ResetTeams(callerID PlayerID) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.requireProcess(); err != nil {
		return err
	}
	if s.Config.Captained {
		if _, err := s.captain(callerID); err != nil {
			return err
		}
	} else if _, err := s.participant(callerID); err != nil {
		return err
	}
	if s.process.Started {
		return ErrMatchInProgress
	}
	s.process.clearEndVotes()
	if !s.Config.Captained {
		return s.shuffleTeams()
	}
	for slot := range s.process.Teams {
		team := &s.process.Teams[slot]
		captain := team.Captain
		for _, m := range team.Members {
			if m != captain {
				s.players[m].unassign()
			}
		}
		team.clear()
		if captain != "" {
			if err := team.add(captain); err != nil {
				return err
			}
			team.Captain = captain
		}
	}
	return s.determineCaptains("")
}

// StartMatchPlay begins scored play once every active player is on a full team.
func (s *Session) StartMatchPlay(callerID PlayerID) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.requireProcess(); err != nil {
		return err
	}
	if s.Config.Captained {
		if _, err := s.captain(callerID); err != nil {
			return err
		}
	} else if _, err := s.participant(callerID); err != nil {
		return err
	}
	if s.process.Started {
		return ErrMatchInProgress
	}
	if !s.process.full() {
		return ErrIncompleteRoster
	}
	for _, id := range s.activeIDs() {
		if s.process.teamOf(id) == NoTeam {
			return ErrIncompleteRoster
		}
	}
	s.process.Started = true
	s.process.clearEndVotes()
	return nil
}
