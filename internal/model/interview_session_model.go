package model

import (
	"time"

	"github.com/google/uuid"
)

type InterviewSession struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CandidateName string        `gorm:"type:varchar(255)" json:"candidate_name"`
	TargetRole    string        `gorm:"type:varchar(255)" json:"target_role"`
	Evidence      string        `gorm:"type:jsonb" json:"evidence"` // JSON array of project/skill entries
	Status        string        `gorm:"type:varchar(50)" json:"status"` // e.g. "preparing", "in_progress", "screened_out", "completed", "failed"
	State         string        `gorm:"type:varchar(50)" json:"state"`  // pipeline state
	CurrentRound  int           `json:"current_round"`
	Rounds        []RoundResult `gorm:"foreignKey:SessionID" json:"rounds"`
	QuestionSets  string        `gorm:"type:jsonb" json:"question_sets"` // round number -> question items
	ChatTurns     string        `gorm:"type:jsonb" json:"chat_turns"`
	GateChecked   bool          `json:"gate_checked"`
	GateVerified  bool          `json:"gate_verified"`
	GateScore     float64       `gorm:"type:float" json:"gate_score"`
	GateReason    string        `gorm:"type:text" json:"gate_reason"`
	HeadlineScore int           `json:"headline_score"`
	Verdict       string        `gorm:"type:varchar(50)" json:"verdict"`
	Report        string        `gorm:"type:jsonb" json:"report"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
