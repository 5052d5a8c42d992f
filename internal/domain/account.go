package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GrantAdmin unlocks force-sub and force-end
const GrantAdmin = "admin"

type Account struct {
	ID           uuid.UUID                   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PasswordHash string                      `json:"-" gorm:"not null"`
	DisplayName  string                      `json:"displayName" gorm:"uniqueIndex;not null"`
	Grants       datatypes.JSONSlice[string] `json:"grants" gorm:"type:jsonb"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// HasGrant reports whether the account holds grant
func (a *Account) HasGrant(grant string) bool {
	return slices.Contains(a.Grants, grant)
}

type AccountSession struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AccountID        uuid.UUID `json:"accountId" gorm:"type:uuid;not null;index"`
	RefreshTokenHash string    `json:"-" gorm:"not null"`
	ExpiresAt        time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
}

// TableName returns the table name for GORM
func (AccountSession) TableName() string {
	return "account_sessions"
}
