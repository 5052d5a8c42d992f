package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/dom/draft-queue/internal/domain"
	"github.com/dom/draft-queue/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pid(i int) domain.PlayerID {
	return domain.PlayerID(fmt.Sprintf("p%d", i))
}

func newSession(t *testing.T, v domain.Variant, clock domain.Clock) *domain.Session {
	t.Helper()

	cfg, err := domain.LookupGameConfig(v)
	require.NoError(t, err)
	s, err := domain.NewSession(uuid.New(), cfg, domain.DefaultTuning(), clock, testutil.FirstRand{})
	require.NoError(t, err)
	return s
}

func fill(t *testing.T, s *domain.Session, from, to int) {
	t.Helper()
	for i := from; i < to; i++ {
		require.NoError(t, s.Join(pid(i), fmt.Sprintf("Player%d", i)))
	}
}

func captains(s *domain.Session) []domain.Player {
	var out []domain.Player
	for _, p := range s.Players() {
		if p.IsCaptain() {
			out = append(out, p)
		}
	}
	return out
}

// assertCapacity checks playersNeeded == capacity - |active, assigned players| for every team
func assertCapacity(t *testing.T, s *domain.Session) {
	t.Helper()

	proc := s.Process()
	if proc == nil {
		return
	}
	for i, team := range proc.Teams {
		assigned := 0
		for _, p := range s.Players() {
			if p.Active && p.HasTeam && p.Team == i {
				assigned++
			}
		}
		assert.Equal(t, team.Capacity-assigned, team.PlayersNeeded, "team %s", team.Name)
		assert.Len(t, team.Members, assigned, "team %s", team.Name)
		assert.GreaterOrEqual(t, team.PlayersNeeded, 0)
		assert.LessOrEqual(t, team.PlayersNeeded, team.Capacity)
	}
}

// formedDraft returns a draft with captains p0 (Alpha) and p1 (Bravo) and nobody else picked
func formedDraft(t *testing.T, clock domain.Clock) *domain.Session {
	t.Helper()
	s := newSession(t, domain.VariantDraft, clock)
	fill(t, s, 0, 8)
	return s
}

// startedDraft picks even players for Alpha and odd for Bravo, then starts play
func startedDraft(t *testing.T, clock domain.Clock) *domain.Session {
	t.Helper()
	s := formedDraft(t, clock)
	for _, i := range []int{2, 4, 6} {
		require.NoError(t, s.AddToTeam(pid(0), pid(i)))
	}
	for _, i := range []int{3, 5, 7} {
		require.NoError(t, s.AddToTeam(pid(1), pid(i)))
	}
	require.NoError(t, s.StartMatchPlay(pid(0)))
	return s
}

func TestNewSession_RejectsMissingCollaborators(t *testing.T) {
	cfg, err := domain.LookupGameConfig(domain.VariantDraft)
	require.NoError(t, err)

	_, err = domain.NewSession(uuid.New(), cfg, domain.DefaultTuning(), nil, testutil.FirstRand{})
	assert.ErrorIs(t, err, domain.ErrClockUnavailable)

	_, err = domain.NewSession(uuid.New(), cfg, domain.DefaultTuning(), testutil.NewFakeClock(), nil)
	assert.ErrorIs(t, err, domain.ErrRandUnavailable)

	cfg.MaxToEnd = cfg.MaxToStart + 1
	_, err = domain.NewSession(uuid.New(), cfg, domain.DefaultTuning(), testutil.NewFakeClock(), testutil.FirstRand{})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSession_FullQueueFormsDraft(t *testing.T) {
	s := newSession(t, domain.VariantDraft, testutil.NewFakeClock())

	fill(t, s, 0, 7)
	assert.False(t, s.Initialized())
	assert.Nil(t, s.Process())
	assert.Equal(t, domain.StatusQueueing, s.Status())
	assert.Equal(t, "@Draft +1", s.Ping())

	fill(t, s, 7, 8)
	require.True(t, s.Initialized())
	require.NotNil(t, s.Process())
	assert.Equal(t, domain.StatusChoosingTeams, s.Status())

	caps := captains(s)
	require.Len(t, caps, 2)
	assert.NotEqual(t, caps[0].ID, caps[1].ID)
	assert.NotEqual(t, caps[0].Captain.Team, caps[1].Captain.Team)
	for _, c := range caps {
		assert.False(t, c.IsSub)
		assert.True(t, c.HasTeam)
	}
	assert.Equal(t, pid(0), s.Process().Teams[0].Captain)
	assert.Equal(t, pid(1), s.Process().Teams[1].Captain)
	assertCapacity(t, s)
}

func TestSession_JoinAndLeave(t *testing.T) {
	s := newSession(t, domain.VariantDraft, testutil.NewFakeClock())

	require.NoError(t, s.Join(pid(0), "Player0"))
	assert.ErrorIs(t, s.Join(pid(0), "Player0"), domain.ErrAlreadyQueued)
	assert.ErrorIs(t, s.Leave(pid(1)), domain.ErrNotQueued)

	require.NoError(t, s.Leave(pid(0)))
	assert.Empty(t, s.Players())
	assert.False(t, s.Initialized())

	fill(t, s, 0, 8)
	assert.ErrorIs(t, s.Leave(pid(3)), domain.ErrMatchInProgress)
	assert.ErrorIs(t, s.Join(pid(9), "Late"), domain.ErrSessionFull)
}

func TestSession_JoinExtendsExpiryForFirstTimers(t *testing.T) {
	clock := testutil.NewFakeClock()
	s := newSession(t, domain.VariantDraft, clock)
	base := clock.Now().Add(time.Hour)
	require.Equal(t, base, s.ExpiresAt())

	// roster of 3 is MaxToStart/2-1
	fill(t, s, 0, 3)
	assert.Equal(t, base.Add(5*time.Minute), s.ExpiresAt())

	// rejoining does not extend again
	require.NoError(t, s.Leave(pid(2)))
	require.NoError(t, s.Join(pid(2), "Player2"))
	assert.Equal(t, base.Add(5*time.Minute), s.ExpiresAt())

	// roster of 6 is MaxToStart-2
	fill(t, s, 3, 6)
	assert.Equal(t, base.Add(15*time.Minute), s.ExpiresAt())
}

func TestSession_ExpiryIsTerminal(t *testing.T) {
	clock := testutil.NewFakeClock()
	s := newSession(t, domain.VariantDraft, clock)
	fill(t, s, 0, 2)

	clock.Advance(59 * time.Minute)
	assert.False(t, s.Expired())
	require.NoError(t, s.Join(pid(2), "Player2"))

	// the third join extended the window by five minutes
	clock.Advance(6 * time.Minute)
	assert.True(t, s.Expired())
	assert.Equal(t, domain.StatusFinished, s.Status())
	assert.ErrorIs(t, s.Join(pid(3), "Player3"), domain.ErrTerminalState)
	assert.ErrorIs(t, s.Leave(pid(0)), domain.ErrTerminalState)
	assert.True(t, s.Terminated())
}

func TestSession_Reping(t *testing.T) {
	clock := testutil.NewFakeClock()
	s := newSession(t, domain.VariantDraft, clock)

	_, err := s.Reping()
	assert.ErrorIs(t, err, domain.ErrCooldownActive, "cooldown starts with the session")

	clock.Advance(11 * time.Minute)
	_, err = s.Reping()
	assert.ErrorIs(t, err, domain.ErrCooldownActive, "too far from full")

	fill(t, s, 0, 3)
	ping, err := s.Reping()
	require.NoError(t, err)
	assert.Equal(t, "@Draft +5", ping)

	_, err = s.Reping()
	assert.ErrorIs(t, err, domain.ErrCooldownActive)

	clock.Advance(10 * time.Minute)
	_, err = s.Reping()
	assert.NoError(t, err)
}

func TestSession_EarlyStart(t *testing.T) {
	s := newSession(t, domain.VariantTurfWar, testutil.NewFakeClock())

	fill(t, s, 0, 3)
	assert.False(t, s.Summary().CanStartEarly)
	assert.ErrorIs(t, s.StartEarly(pid(0)), domain.ErrNotEnoughPlayers)

	fill(t, s, 3, 5)
	assert.True(t, s.Summary().CanStartEarly)
	assert.False(t, s.Initialized(), "reaching the minimum does not force formation")
	assert.ErrorIs(t, s.StartEarly(pid(9)), domain.ErrNotQueued)

	require.NoError(t, s.StartEarly(pid(4)))
	require.True(t, s.Initialized())
	teams := s.Process().Teams
	require.Len(t, teams, 2)
	assert.Equal(t, 3, teams[0].Capacity)
	assert.Equal(t, 2, teams[1].Capacity)
	assertCapacity(t, s)
	assert.True(t, s.Process().Teams[0].PlayersNeeded == 0 && s.Process().Teams[1].PlayersNeeded == 0)
	assert.Empty(t, captains(s), "turf war has no captains")
}

func TestSession_CaptainSelectionFlow(t *testing.T) {
	s := formedDraft(t, testutil.NewFakeClock())

	assert.ErrorIs(t, s.AddToTeam(pid(2), pid(3)), domain.ErrNotCaptain)
	require.NoError(t, s.AddToTeam(pid(0), pid(2)))
	assert.ErrorIs(t, s.AddToTeam(pid(1), pid(2)), domain.ErrAlreadyOnTeam)
	assert.ErrorIs(t, s.AddToTeam(pid(0), pid(42)), domain.ErrNotQueued)
	require.NoError(t, s.AddToTeam(pid(0), pid(3)))
	require.NoError(t, s.AddToTeam(pid(0), pid(4)))
	assert.ErrorIs(t, s.AddToTeam(pid(0), pid(5)), domain.ErrTeamFull)
	assertCapacity(t, s)

	assert.ErrorIs(t, s.StartMatchPlay(pid(2)), domain.ErrNotCaptain)
	assert.ErrorIs(t, s.StartMatchPlay(pid(0)), domain.ErrIncompleteRoster)

	for _, i := range []int{5, 6, 7} {
		require.NoError(t, s.AddToTeam(pid(1), pid(i)))
	}
	require.NoError(t, s.StartMatchPlay(pid(1)))
	assert.Equal(t, domain.StatusInProgress, s.Status())
	assert.ErrorIs(t, s.StartMatchPlay(pid(1)), domain.ErrMatchInProgress)
	assert.ErrorIs(t, s.AddToTeam(pid(0), pid(5)), domain.ErrMatchInProgress)
	assert.Equal(t, "@Draft +0", s.Ping())
}

func TestSession_ResetTeamsKeepsCaptains(t *testing.T) {
	s := formedDraft(t, testutil.NewFakeClock())
	require.NoError(t, s.AddToTeam(pid(0), pid(2)))
	require.NoError(t, s.AddToTeam(pid(1), pid(3)))
	_, err := s.RequestEnd(pid(4))
	require.NoError(t, err)

	assert.ErrorIs(t, s.ResetTeams(pid(4)), domain.ErrNotCaptain)
	require.NoError(t, s.ResetTeams(pid(1)))

	proc := s.Process()
	assert.Equal(t, []domain.PlayerID{pid(0)}, proc.Teams[0].Members)
	assert.Equal(t, []domain.PlayerID{pid(1)}, proc.Teams[1].Members)
	assert.Empty(t, proc.EndVotes)
	p2, _ := s.Player(pid(2))
	assert.False(t, p2.HasTeam)
	assertCapacity(t, s)
}

func TestSession_ReassignCaptain(t *testing.T) {
	s := formedDraft(t, testutil.NewFakeClock())
	require.NoError(t, s.AddToTeam(pid(0), pid(2)))
	require.NoError(t, s.AddToTeam(pid(0), pid(3)))

	assert.ErrorIs(t, s.ReassignCaptain(pid(2)), domain.ErrNotCaptain)
	require.NoError(t, s.ReassignCaptain(pid(0)))

	p0, _ := s.Player(pid(0))
	assert.False(t, p0.IsCaptain())
	assert.False(t, p0.HasTeam)

	alpha := s.Process().Teams[0]
	assert.Equal(t, pid(2), alpha.Captain, "the vacating captain is excluded from the redraw")
	assert.Equal(t, []domain.PlayerID{pid(2)}, alpha.Members)
	assert.Len(t, captains(s), 2)
	assertCapacity(t, s)
}

// lopsidedDraft leaves Alpha with only its captain p0: p2-p4 subbed out and
// every other regular picked by Bravo.
func lopsidedDraft(t *testing.T) *domain.Session {
	t.Helper()
	s := formedDraft(t, testutil.NewFakeClock())
	for _, i := range []int{2, 3, 4} {
		_, err := s.RequestSubOut(pid(i))
		require.NoError(t, err)
	}
	for _, i := range []int{5, 6, 7} {
		require.NoError(t, s.AddToTeam(pid(1), pid(i)))
	}
	return s
}

func TestSession_ReassignCaptainNeedsReplacement(t *testing.T) {
	s := lopsidedDraft(t)

	assert.ErrorIs(t, s.ReassignCaptain(pid(0)), domain.ErrNoReplacement)
	assert.Equal(t, pid(0), s.Process().Teams[0].Captain)
	assertCapacity(t, s)
}

func TestSession_ResetTeamsRedrawsEmptyCaptaincy(t *testing.T) {
	s := lopsidedDraft(t)

	_, err := s.RequestSubOut(pid(0))
	require.NoError(t, err)
	assert.Empty(t, s.Process().Teams[0].Captain, "every regular is already on Bravo")

	require.NoError(t, s.ResetTeams(pid(1)))
	assert.Equal(t, pid(5), s.Process().Teams[0].Captain)
	assert.Equal(t, pid(1), s.Process().Teams[1].Captain)
	assert.Len(t, captains(s), 2)
	assertCapacity(t, s)
}

func TestSession_CaptainSubOutRedrawsCaptain(t *testing.T) {
	s := formedDraft(t, testutil.NewFakeClock())
	require.NoError(t, s.AddToTeam(pid(1), pid(2)))

	warning, err := s.RequestSubOut(pid(0))
	require.NoError(t, err)
	assert.Empty(t, warning)

	caps := captains(s)
	require.Len(t, caps, 2)
	for _, c := range caps {
		assert.NotEqual(t, pid(0), c.ID)
		assert.False(t, c.IsSub)
	}
	assert.Equal(t, pid(3), s.Process().Teams[0].Captain, "p2 is already on Bravo")
	assert.Equal(t, 1, s.InactiveCount())
	assertCapacity(t, s)
}

func TestSession_ScoreBounds(t *testing.T) {
	s := startedDraft(t, testutil.NewFakeClock())

	for i := 0; i < 3; i++ {
		require.NoError(t, s.AdjustScore(pid(0), 0, 1, false))
	}
	require.Equal(t, 3, s.Process().Teams[0].Score)

	require.NoError(t, s.AdjustScore(pid(0), 0, 1, false))
	assert.Equal(t, 4, s.Process().Teams[0].Score)

	assert.ErrorIs(t, s.AdjustScore(pid(0), 0, 1, false), domain.ErrScoreAtBound)
	assert.Equal(t, 4, s.Process().Teams[0].Score)

	assert.ErrorIs(t, s.AdjustScore(pid(0), 1, -1, false), domain.ErrScoreAtBound)
	assert.Equal(t, 0, s.Process().Teams[1].Score)

	for _, m := range s.Process().Teams[0].Members {
		p, _ := s.Player(m)
		assert.Equal(t, 4, p.Wins)
		assert.Equal(t, 0, p.Losses)
	}
	for _, m := range s.Process().Teams[1].Members {
		p, _ := s.Player(m)
		assert.Equal(t, 0, p.Wins)
		assert.Equal(t, 4, p.Losses)
	}

	require.NoError(t, s.AdjustScore(pid(0), 0, -1, false))
	p2, _ := s.Player(pid(2))
	p3, _ := s.Player(pid(3))
	assert.Equal(t, 3, p2.Wins)
	assert.Equal(t, 3, p3.Losses)
	assert.Equal(t, "Alpha 3 - 0 Bravo", s.Summary().ScoreLine)
	assert.Equal(t, 4, s.Summary().Match)
}

func TestSession_AdjustScoreRejections(t *testing.T) {
	clock := testutil.NewFakeClock()

	s := formedDraft(t, clock)
	assert.ErrorIs(t, s.AdjustScore(pid(0), 0, 1, false), domain.ErrMatchNotStarted)

	s = startedDraft(t, clock)
	assert.ErrorIs(t, s.AdjustScore(pid(99), 0, 1, false), domain.ErrNotInSession)
	assert.ErrorIs(t, s.AdjustScore(pid(0), 0, 2, false), domain.ErrInvalidDelta)
	assert.ErrorIs(t, s.AdjustScore(pid(0), 5, 1, false), domain.ErrNoSuchTeam)
	assert.NoError(t, s.AdjustScore(pid(99), 1, 1, true), "admins need not be playing")

	turf := newSession(t, domain.VariantTurfWar, clock)
	fill(t, turf, 0, 8)
	require.NoError(t, turf.StartMatchPlay(pid(0)))
	assert.ErrorIs(t, turf.AdjustScore(pid(0), 0, 1, false), domain.ErrScoreNotTracked)

	fresh := newSession(t, domain.VariantDraft, clock)
	assert.ErrorIs(t, fresh.AdjustScore(pid(0), 0, 1, false), domain.ErrTeamsNotFormed)
}

func TestSession_SubLimit(t *testing.T) {
	s := startedDraft(t, testutil.NewFakeClock())
	p := pid(7)

	warning, err := s.RequestSubOut(p)
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, 1, s.Process().Teams[1].PlayersNeeded)
	assertCapacity(t, s)

	_, err = s.RequestSubOut(p)
	assert.ErrorIs(t, err, domain.ErrAlreadySubbedOut)

	placed, err := s.SubIn(p, "Player7")
	require.NoError(t, err)
	assert.True(t, placed)
	assert.Equal(t, 0, s.Process().Teams[1].PlayersNeeded)
	assertCapacity(t, s)

	warning, err = s.RequestSubOut(p)
	require.NoError(t, err)
	assert.NotEmpty(t, warning, "every second sub-out warns")
	_, err = s.SubIn(p, "Player7")
	require.NoError(t, err)

	_, err = s.RequestSubOut(p)
	require.NoError(t, err)
	_, err = s.SubIn(p, "Player7")
	assert.ErrorIs(t, err, domain.ErrSubLimitReached)

	player, _ := s.Player(p)
	assert.Equal(t, domain.MaxSubCount, player.SubCount)
	assert.False(t, player.Active)
	assert.Equal(t, 1, s.InactiveCount())
	assertCapacity(t, s)
}

func TestSession_NewSubJoinsVacatedTeam(t *testing.T) {
	s := startedDraft(t, testutil.NewFakeClock())

	_, err := s.SubIn(pid(20), "Newcomer")
	assert.ErrorIs(t, err, domain.ErrNoOpenSlot)

	_, err = s.RequestSubOut(pid(4))
	require.NoError(t, err)
	_, err = s.SubIn(pid(2), "Player2")
	assert.ErrorIs(t, err, domain.ErrAlreadyQueued)

	placed, err := s.SubIn(pid(20), "Newcomer")
	require.NoError(t, err)
	assert.True(t, placed)

	p, ok := s.Player(pid(20))
	require.True(t, ok)
	assert.True(t, p.New)
	assert.True(t, p.IsSub)
	assert.Equal(t, 0, p.Team)
	assert.Equal(t, 0, s.InactiveCount())
	assertCapacity(t, s)

	sum := s.Summary()
	assert.Len(t, sum.Roster, 8)
	require.Len(t, sum.Subs, 1)
	assert.Equal(t, pid(4), sum.Subs[0].ID)
}

func TestSession_SubInDuringSelectionWaitsForPick(t *testing.T) {
	s := formedDraft(t, testutil.NewFakeClock())
	_, err := s.RequestSubOut(pid(5))
	require.NoError(t, err)

	placed, err := s.SubIn(pid(20), "Newcomer")
	require.NoError(t, err)
	assert.False(t, placed)
	require.NoError(t, s.AddToTeam(pid(0), pid(20)))
	assertCapacity(t, s)
}

func TestSession_ForceSub(t *testing.T) {
	clock := testutil.NewFakeClock()

	queue := newSession(t, domain.VariantDraft, clock)
	fill(t, queue, 0, 3)
	_, err := queue.ForceSub(pid(1))
	require.NoError(t, err)
	assert.Len(t, queue.Players(), 2)

	s := startedDraft(t, clock)
	_, err = s.ForceSub(pid(1))
	require.NoError(t, err)
	assert.Equal(t, pid(3), s.Process().Teams[1].Captain, "a teammate takes over once play started")
	_, err = s.ForceSub(pid(1))
	assert.ErrorIs(t, err, domain.ErrAlreadySubbedOut)
	_, err = s.ForceSub(pid(50))
	assert.ErrorIs(t, err, domain.ErrNotInSession)
	assertCapacity(t, s)
}

func TestSession_PreMatchEndNeedsMaxVotes(t *testing.T) {
	s := formedDraft(t, testutil.NewFakeClock())

	for i := 0; i < 4; i++ {
		res, err := s.RequestEnd(pid(i))
		require.NoError(t, err)
		assert.Nil(t, res)
	}
	assert.True(t, s.Initialized())
	assert.Equal(t, 4, s.Summary().EndVotes)
	assert.Equal(t, 5, s.Summary().EndVotesNeeded)

	// repeated votes are not counted twice
	res, err := s.RequestEnd(pid(0))
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = s.RequestEnd(pid(4))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.Started)
	assert.Nil(t, res.Report)
	assert.False(t, s.Initialized())
	assert.True(t, s.Terminated())
	assert.Nil(t, s.Process())
	assert.Equal(t, domain.StatusFinished, s.Status())
}

func TestSession_InProgressEndReportsStats(t *testing.T) {
	s := startedDraft(t, testutil.NewFakeClock())
	require.NoError(t, s.AdjustScore(pid(0), 0, 1, false))
	require.NoError(t, s.AdjustScore(pid(1), 1, 1, false))
	require.NoError(t, s.AdjustScore(pid(0), 0, 1, false))

	_, err := s.RequestEnd(pid(99))
	assert.ErrorIs(t, err, domain.ErrNotInSession)

	for i := 0; i < 3; i++ {
		res, err := s.RequestEnd(pid(i))
		require.NoError(t, err)
		assert.Nil(t, res)
	}

	// a score change invalidates pending votes
	require.NoError(t, s.AdjustScore(pid(0), 0, 1, false))
	assert.Equal(t, 0, s.Summary().EndVotes)

	var res *domain.EndResult
	for i := 0; i < 4; i++ {
		res, err = s.RequestEnd(pid(i))
		require.NoError(t, err)
	}
	require.NotNil(t, res)
	require.NotNil(t, res.Report)
	assert.Equal(t, []int{3, 1}, res.Report.TeamScores)
	require.Len(t, res.Report.Players, 8)
	for _, p := range res.Report.Players {
		if p.Team == 0 {
			assert.Equal(t, 3, p.Wins)
			assert.Equal(t, 1, p.Losses)
		} else {
			assert.Equal(t, 1, p.Wins)
			assert.Equal(t, 3, p.Losses)
		}
		assert.False(t, p.New)
	}

	sum := s.Summary()
	assert.Equal(t, domain.StatusFinished, sum.Status)
	assert.Equal(t, "Alpha 3 - 1 Bravo", sum.ScoreLine)
}

func TestSession_TerminalStateIsMonotonic(t *testing.T) {
	s := startedDraft(t, testutil.NewFakeClock())
	res, err := s.ForceEnd()
	require.NoError(t, err)
	require.NotNil(t, res)

	commands := []domain.Command{
		{Kind: domain.CmdJoin, PlayerID: pid(30), Name: "Late"},
		{Kind: domain.CmdLeave, PlayerID: pid(0)},
		{Kind: domain.CmdReping},
		{Kind: domain.CmdStartEarly, PlayerID: pid(0)},
		{Kind: domain.CmdSubOut, PlayerID: pid(0)},
		{Kind: domain.CmdSubIn, PlayerID: pid(31)},
		{Kind: domain.CmdForceSub, TargetID: pid(2)},
		{Kind: domain.CmdAssignCaptains, PlayerID: pid(0)},
		{Kind: domain.CmdReassignCaptain, PlayerID: pid(0)},
		{Kind: domain.CmdAddToTeam, PlayerID: pid(0), TargetID: pid(2)},
		{Kind: domain.CmdResetTeams, PlayerID: pid(0)},
		{Kind: domain.CmdStartMatch, PlayerID: pid(0)},
		{Kind: domain.CmdAdjustScore, PlayerID: pid(0), Delta: 1},
		{Kind: domain.CmdRequestEnd, PlayerID: pid(0)},
		{Kind: domain.CmdForceEnd},
	}
	for _, cmd := range commands {
		t.Run(string(cmd.Kind), func(t *testing.T) {
			_, err := s.Execute(cmd)
			assert.ErrorIs(t, err, domain.ErrTerminalState)
		})
	}

	out, err := s.Execute(domain.Command{Kind: domain.CmdSnapshot})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFinished, out.Summary.Status)
}

func TestSession_RankedShufflesTeams(t *testing.T) {
	s := newSession(t, domain.VariantRanked, testutil.NewFakeClock())
	fill(t, s, 0, 8)

	proc := s.Process()
	require.NotNil(t, proc)
	assert.False(t, proc.Started)
	assert.Equal(t, []domain.PlayerID{pid(0), pid(2), pid(4), pid(6)}, proc.Teams[0].Members)
	assert.Equal(t, []domain.PlayerID{pid(1), pid(3), pid(5), pid(7)}, proc.Teams[1].Members)
	assert.Equal(t, 1, proc.Teams[0].Opponent)
	assert.Equal(t, 0, proc.Teams[1].Opponent)
	assert.Empty(t, captains(s))

	assert.ErrorIs(t, s.AddToTeam(pid(0), pid(1)), domain.ErrNotCaptain)
	require.NoError(t, s.ResetTeams(pid(3)))
	assertCapacity(t, s)

	assert.ErrorIs(t, s.StartMatchPlay(pid(40)), domain.ErrNotInSession)
	require.NoError(t, s.StartMatchPlay(pid(3)))
	assert.ErrorIs(t, s.ResetTeams(pid(3)), domain.ErrMatchInProgress)
}

func TestSession_TricolorHasThreeTeams(t *testing.T) {
	s := newSession(t, domain.VariantTricolor, testutil.NewFakeClock())
	fill(t, s, 0, 12)

	proc := s.Process()
	require.Len(t, proc.Teams, 3)
	for _, team := range proc.Teams {
		assert.Equal(t, 4, team.Capacity)
		assert.Equal(t, 0, team.PlayersNeeded)
		assert.Equal(t, domain.NoTeam, team.Opponent)
	}
	require.NoError(t, s.StartMatchPlay(pid(0)))
	assert.ErrorIs(t, s.AdjustScore(pid(0), 2, 1, false), domain.ErrScoreNotTracked)
	assert.Empty(t, s.Summary().ScoreLine)
}

func TestSession_ExecuteReportsPlacedNewSubs(t *testing.T) {
	s := startedDraft(t, testutil.NewFakeClock())

	out, err := s.Execute(domain.Command{Kind: domain.CmdSubOut, PlayerID: pid(6)})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Summary.OpenSlots)

	out, err = s.Execute(domain.Command{Kind: domain.CmdSubIn, PlayerID: pid(21), Name: "Fresh"})
	require.NoError(t, err)
	assert.Equal(t, []domain.PlayerID{pid(21)}, out.Placed)

	_, err = s.Execute(domain.Command{Kind: "dance"})
	assert.ErrorIs(t, err, domain.ErrUnknownCommand)
}

func TestSession_ExecuteReportsNewSubPickedByCaptain(t *testing.T) {
	s := formedDraft(t, testutil.NewFakeClock())

	_, err := s.Execute(domain.Command{Kind: domain.CmdSubOut, PlayerID: pid(5)})
	require.NoError(t, err)

	out, err := s.Execute(domain.Command{Kind: domain.CmdSubIn, PlayerID: pid(20), Name: "Newcomer"})
	require.NoError(t, err)
	assert.Empty(t, out.Placed, "unpicked subs wait for a captain")

	out, err = s.Execute(domain.Command{Kind: domain.CmdAddToTeam, PlayerID: pid(0), TargetID: pid(20), Team: 0})
	require.NoError(t, err)
	assert.Equal(t, []domain.PlayerID{pid(20)}, out.Placed)

	out, err = s.Execute(domain.Command{Kind: domain.CmdResetTeams, PlayerID: pid(0)})
	require.NoError(t, err)
	assert.Empty(t, out.Placed)

	out, err = s.Execute(domain.Command{Kind: domain.CmdAddToTeam, PlayerID: pid(1), TargetID: pid(20), Team: 1})
	require.NoError(t, err)
	assert.Empty(t, out.Placed, "a profile is shown once per player")
}

func TestSession_ExecuteVersionsSummaries(t *testing.T) {
	s := newSession(t, domain.VariantDraft, testutil.NewFakeClock())

	out, err := s.Execute(domain.Command{Kind: domain.CmdSnapshot})
	require.NoError(t, err)
	assert.Zero(t, out.Summary.Version)

	out, err = s.Execute(domain.Command{Kind: domain.CmdJoin, PlayerID: pid(0), Name: "Zero"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), out.Summary.Version)

	_, err = s.Execute(domain.Command{Kind: domain.CmdJoin, PlayerID: pid(0), Name: "Zero"})
	assert.ErrorIs(t, err, domain.ErrAlreadyQueued)

	out, err = s.Execute(domain.Command{Kind: domain.CmdSnapshot})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), out.Summary.Version, "rejected commands and reads leave the version alone")

	out, err = s.Execute(domain.Command{Kind: domain.CmdJoin, PlayerID: pid(1), Name: "One"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), out.Summary.Version)
}

func TestSession_AddToTeamAtChecksTeam(t *testing.T) {
	s := formedDraft(t, testutil.NewFakeClock())

	assert.ErrorIs(t, s.AddToTeamAt(1, pid(0), pid(2)), domain.ErrNotCaptain, "Alpha's captain cannot fill Bravo")
	assert.ErrorIs(t, s.AddToTeamAt(2, pid(0), pid(2)), domain.ErrNoSuchTeam)

	out, err := s.Execute(domain.Command{Kind: domain.CmdAddToTeam, PlayerID: pid(1), TargetID: pid(2), Team: 1})
	require.NoError(t, err)
	assert.Len(t, out.Summary.Teams[1].Members, 2)
}
