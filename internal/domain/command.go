package domain

import "fmt"

// CommandKind names an inbound session command
type CommandKind string

const (
	CmdSnapshot        CommandKind = "snapshot"
	CmdJoin            CommandKind = "join"
	CmdLeave           CommandKind = "leave"
	CmdReping          CommandKind = "reping"
	CmdStartEarly      CommandKind = "start_early"
	CmdSubOut          CommandKind = "sub_out"
	CmdSubIn           CommandKind = "sub_in"
	CmdForceSub        CommandKind = "force_sub"
	CmdAssignCaptains  CommandKind = "assign_captains"
	CmdReassignCaptain CommandKind = "reassign_captain"
	CmdAddToTeam       CommandKind = "add_to_team"
	CmdResetTeams      CommandKind = "reset_teams"
	CmdStartMatch      CommandKind = "start_match"
	CmdAdjustScore     CommandKind = "adjust_score"
	CmdRequestEnd      CommandKind = "request_end"
	CmdForceEnd        CommandKind = "force_end"
)

// Command is plain data; Execute is the only place it turns into mutation.
type Command struct {
	Kind     CommandKind
	PlayerID PlayerID
	Name     string
	// TargetID is the player acted upon by add-to-team and force-sub.
	TargetID PlayerID
	Team     int
	Delta    int
	Admin    bool
}

// Outcome is a copy of everything the caller needs once the command is done.
// It shares no memory with the session.
type Outcome struct {
	Summary Summary
	Ping    string
	Warning string
	// Placed lists brand-new subs that landed on a team for the first time.
	Placed []PlayerID
	End    *EndResult
}

// Execute applies cmd and renders the resulting state.
func (s *Session) Execute(cmd Command) (Outcome, error) {
	var out Outcome
	var err error

	switch cmd.Kind {
	case CmdSnapshot:
	case CmdJoin:
		err = s.Join(cmd.PlayerID, cmd.Name)
	case CmdLeave:
		err = s.Leave(cmd.PlayerID)
	case CmdReping:
		out.Ping, err = s.Reping()
	case CmdStartEarly:
		err = s.StartEarly(cmd.PlayerID)
	case CmdSubOut:
		out.Warning, err = s.RequestSubOut(cmd.PlayerID)
	case CmdSubIn:
		_, err = s.SubIn(cmd.PlayerID, cmd.Name)
	case CmdForceSub:
		out.Warning, err = s.ForceSub(cmd.TargetID)
	case CmdAssignCaptains:
		err = s.AssignCaptains(cmd.PlayerID)
	case CmdReassignCaptain:
		err = s.ReassignCaptain(cmd.PlayerID)
	case CmdAddToTeam:
		err = s.AddToTeamAt(cmd.Team, cmd.PlayerID, cmd.TargetID)
	case CmdResetTeams:
		err = s.ResetTeams(cmd.PlayerID)
	case CmdStartMatch:
		err = s.StartMatchPlay(cmd.PlayerID)
	case CmdAdjustScore:
		err = s.AdjustScore(cmd.PlayerID, cmd.Team, cmd.Delta, cmd.Admin)
	case CmdRequestEnd:
		out.End, err = s.RequestEnd(cmd.PlayerID)
	case CmdForceEnd:
		out.End, err = s.ForceEnd()
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}
	if err != nil {
		return Outcome{}, err
	}
	if cmd.Kind != CmdSnapshot {
		s.version++
	}
	out.Placed = s.placedNewSubs()
	out.Summary = s.Summary()
	return out, nil
}

// placedNewSubs returns new players who are on a team but whose profile has
// not been reported yet, and marks them as reported. Subs can land on a team
// through sub-in, a captain's pick or a reshuffle.
func (s *Session) placedNewSubs() []PlayerID {
	var out []PlayerID
	for _, id := range s.order {
		p := s.players[id]
		if p.New && p.HasTeam && !p.ProfileShown {
			p.ProfileShown = true
			out = append(out, id)
		}
	}
	return out
}
