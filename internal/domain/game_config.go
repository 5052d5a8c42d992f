package domain

import "fmt"

// Variant identifies a configured game mode
type Variant string

const (
	VariantDraft    Variant = "draft"
	VariantRanked   Variant = "ranked"
	VariantTurfWar  Variant = "turf_war"
	VariantTricolor Variant = "tricolor"
)

// AllVariants lists every variant in display order
var AllVariants = []Variant{VariantDraft, VariantRanked, VariantTurfWar, VariantTricolor}

// GameConfig holds the per-variant thresholds. It is never mutated after lookup.
type GameConfig struct {
	Variant        Variant `json:"variant"`
	Role           string  `json:"role"`
	MinToStart     int     `json:"minToStart"`
	MaxToStart     int     `json:"maxToStart"`
	MinToEnd       int     `json:"minToEnd"`
	MaxToEnd       int     `json:"maxToEnd"`
	MatchCount     int     `json:"matchCount"`
	WinningScore   int     `json:"winningScore"` // 0 means score is not tracked
	PlayersPerTeam int     `json:"playersPerTeam"`
	TeamCount      int     `json:"teamCount"`
	Captained      bool    `json:"captained"`
}

var gameConfigs = map[Variant]GameConfig{
	VariantDraft: {
		Variant:        VariantDraft,
		Role:           "@Draft",
		MinToStart:     8,
		MaxToStart:     8,
		MinToEnd:       4,
		MaxToEnd:       5,
		MatchCount:     7,
		WinningScore:   4,
		PlayersPerTeam: 4,
		TeamCount:      2,
		Captained:      true,
	},
	VariantRanked: {
		Variant:        VariantRanked,
		Role:           "@Ranked",
		MinToStart:     8,
		MaxToStart:     8,
		MinToEnd:       3,
		MaxToEnd:       5,
		MatchCount:     5,
		WinningScore:   3,
		PlayersPerTeam: 4,
		TeamCount:      2,
	},
	VariantTurfWar: {
		Variant:        VariantTurfWar,
		Role:           "@TurfWar",
		MinToStart:     4,
		MaxToStart:     8,
		MinToEnd:       2,
		MaxToEnd:       4,
		PlayersPerTeam: 4,
		TeamCount:      2,
	},
	VariantTricolor: {
		Variant:        VariantTricolor,
		Role:           "@Tricolor",
		MinToStart:     12,
		MaxToStart:     12,
		MinToEnd:       4,
		MaxToEnd:       6,
		PlayersPerTeam: 4,
		TeamCount:      3,
	},
}

// LookupGameConfig returns the config registered for v.
func LookupGameConfig(v Variant) (GameConfig, error) {
	cfg, ok := gameConfigs[v]
	if !ok {
		return GameConfig{}, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
	return cfg, nil
}

// Validate checks the threshold ordering every session relies on.
func (c GameConfig) Validate() error {
	switch {
	case c.MinToStart <= 0 || c.MinToStart > c.MaxToStart:
		return fmt.Errorf("%w: start range %d..%d", ErrInvalidConfig, c.MinToStart, c.MaxToStart)
	case c.MinToEnd <= 0 || c.MinToEnd > c.MaxToEnd || c.MaxToEnd > c.MaxToStart:
		return fmt.Errorf("%w: end range %d..%d", ErrInvalidConfig, c.MinToEnd, c.MaxToEnd)
	case c.TeamCount < 2 || c.TeamCount > 3:
		return fmt.Errorf("%w: %d teams", ErrInvalidConfig, c.TeamCount)
	case c.Captained && c.TeamCount != 2:
		return fmt.Errorf("%w: captained variants have two teams", ErrInvalidConfig)
	case c.MaxToStart > c.PlayersPerTeam*c.TeamCount:
		return fmt.Errorf("%w: %d players do not fit %d teams of %d", ErrInvalidConfig, c.MaxToStart, c.TeamCount, c.PlayersPerTeam)
	case c.WinningScore < 0:
		return fmt.Errorf("%w: negative winning score", ErrInvalidConfig)
	}
	return nil
}

// TracksScore reports whether matches in this variant are scored.
func (c GameConfig) TracksScore() bool {
	return c.WinningScore > 0
}
