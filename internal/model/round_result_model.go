package model

import (
	"time"

	"github.com/google/uuid"
)

// RoundResult is immutable once created; the usecase only ever inserts.
type RoundResult struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID   uuid.UUID `gorm:"type:uuid;index" json:"session_id"`
	RoundNumber int       `json:"round_number"`
	RoundType   string    `gorm:"type:varchar(50)" json:"round_type"`
	Score       float64   `gorm:"type:float" json:"score"`
	Passed      bool      `json:"passed"`
	Threshold   float64   `gorm:"type:float" json:"threshold"`
	Details     string    `gorm:"type:jsonb" json:"details"` // per-item audit entries
	Feedback    string    `gorm:"type:jsonb" json:"feedback"`
	Complexity  string    `gorm:"type:varchar(100)" json:"complexity"`
	CreatedAt   time.Time `json:"created_at"`
}
