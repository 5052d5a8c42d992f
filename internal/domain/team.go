package domain

import (
	"fmt"
	"slices"
)

var teamNames = []string{"Alpha", "Bravo", "Charlie"}

// Team is a bounded roster with a bounded score. Members only ever holds
// active players, so PlayersNeeded == Capacity - len(Members).
type Team struct {
	Index         int
	Name          string
	Capacity      int
	PlayersNeeded int
	ScoreFloor    int
	ScoreCeiling  int
	Score         int
	Members       []PlayerID
	Captain       PlayerID
	Opponent      int // NoTeam when the variant has no head-to-head pairing
}

func newTeam(index, capacity, ceiling int) Team {
	return Team{
		Index:         index,
		Name:          teamNames[index],
		Capacity:      capacity,
		PlayersNeeded: capacity,
		ScoreCeiling:  ceiling,
		Opponent:      NoTeam,
	}
}

func (t *Team) has(id PlayerID) bool {
	return slices.Contains(t.Members, id)
}

func (t *Team) add(id PlayerID) error {
	if t.PlayersNeeded == 0 {
		return ErrTeamFull
	}
	t.Members = append(t.Members, id)
	t.PlayersNeeded--
	return t.check()
}

func (t *Team) remove(id PlayerID) error {
	i := slices.Index(t.Members, id)
	if i < 0 {
		return fmt.Errorf("%w: %s is not on team %s", ErrInvariant, id, t.Name)
	}
	t.Members = slices.Delete(t.Members, i, i+1)
	t.PlayersNeeded++
	if t.Captain == id {
		t.Captain = ""
	}
	return t.check()
}

// clear empties the roster and drops the captain. Score is kept.
func (t *Team) clear() {
	t.Members = nil
	t.PlayersNeeded = t.Capacity
	t.Captain = ""
}

func (t *Team) adjust(delta int) error {
	next := t.Score + delta
	if next < t.ScoreFloor || next > t.ScoreCeiling {
		return ErrScoreAtBound
	}
	t.Score = next
	return nil
}

func (t *Team) check() error {
	if t.PlayersNeeded < 0 || t.PlayersNeeded > t.Capacity || t.PlayersNeeded != t.Capacity-len(t.Members) {
		return fmt.Errorf("%w: team %s needs %d with %d/%d members",
			ErrInvariant, t.Name, t.PlayersNeeded, len(t.Members), t.Capacity)
	}
	return nil
}

// splitEvenly sizes k teams for n players, larger teams first.
func splitEvenly(n, k int) []int {
	sizes := make([]int, k)
	for i := range sizes {
		sizes[i] = n / k
		if i < n%k {
			sizes[i]++
		}
	}
	return sizes
}
