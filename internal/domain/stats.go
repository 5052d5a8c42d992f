package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionRecord is the stored header of a finished session
type SessionRecord struct {
	ID         uuid.UUID                `json:"id" gorm:"type:uuid;primary_key"`
	Variant    Variant                  `json:"variant" gorm:"type:varchar(20);not null;index"`
	TeamScores datatypes.JSONSlice[int] `json:"teamScores" gorm:"type:jsonb"`
	EndedAt    time.Time                `json:"endedAt" gorm:"not null"`
	CreatedAt  time.Time                `json:"createdAt"`
	UpdatedAt  time.Time                `json:"updatedAt"`

	// Relations
	Results []SessionResult `json:"results,omitempty" gorm:"foreignKey:SessionID"`
}

// TableName returns the table name for GORM
func (SessionRecord) TableName() string {
	return "session_records"
}

// SessionResult is one player's line in a finished session. The composite key
// makes re-reporting the same session an overwrite rather than a double count.
type SessionResult struct {
	SessionID   uuid.UUID `json:"sessionId" gorm:"type:uuid;primaryKey"`
	PlayerID    PlayerID  `json:"playerId" gorm:"type:varchar(64);primaryKey"`
	Variant     Variant   `json:"variant" gorm:"type:varchar(20);not null;index"`
	DisplayName string    `json:"displayName" gorm:"not null"`
	Team        int       `json:"team" gorm:"not null"`
	Wins        int       `json:"wins" gorm:"not null;default:0"`
	Losses      int       `json:"losses" gorm:"not null;default:0"`
	IsNew       bool      `json:"isNew" gorm:"not null;default:false"`
	Finished    bool      `json:"finished" gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (SessionResult) TableName() string {
	return "session_results"
}

// PlayerTotals aggregates a player's results for one variant
type PlayerTotals struct {
	PlayerID    PlayerID `json:"playerId"`
	DisplayName string   `json:"displayName"`
	Variant     Variant  `json:"variant"`
	Wins        int      `json:"wins"`
	Losses      int      `json:"losses"`
	Sessions    int      `json:"sessions"`
}

// NewRecords converts a report into rows for the stat store.
func NewRecords(r *StatReport) (*SessionRecord, []*SessionResult) {
	record := &SessionRecord{
		ID:         r.SessionID,
		Variant:    r.Variant,
		TeamScores: datatypes.NewJSONSlice(r.TeamScores),
		EndedAt:    r.EndedAt,
	}
	results := make([]*SessionResult, 0, len(r.Players))
	for _, p := range r.Players {
		results = append(results, &SessionResult{
			SessionID:   r.SessionID,
			PlayerID:    p.PlayerID,
			Variant:     r.Variant,
			DisplayName: p.Name,
			Team:        p.Team,
			Wins:        p.Wins,
			Losses:      p.Losses,
			IsNew:       p.New,
			Finished:    p.Active,
		})
	}
	return record, results
}
