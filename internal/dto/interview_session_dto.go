package dto

import (
	"time"

	"github.com/google/uuid"
)

type RoundResultDTO struct {
	RoundNumber int     `json:"round_number"`
	RoundType   string  `json:"round_type"`
	Score       float64 `json:"score"`
	Passed      bool    `json:"passed"`
	Threshold   float64 `json:"threshold"`
	Details     string  `json:"details"`
	Feedback    string  `json:"feedback"`
	Complexity  string  `json:"complexity,omitempty"`
}

type InterviewSessionDTO struct {
	ID            uuid.UUID        `json:"id"`
	CandidateName string           `json:"candidate_name"`
	TargetRole    string           `json:"target_role"`
	Status        string           `json:"status"`
	State         string           `json:"state"`
	CurrentRound  int              `json:"current_round"`
	Rounds        []RoundResultDTO `json:"rounds"`
	GateChecked   bool             `json:"gate_checked"`
	GateVerified  bool             `json:"gate_verified"`
	GateReason    string           `json:"gate_reason,omitempty"`
	HeadlineScore int              `json:"headline_score"`
	Verdict       string           `json:"verdict,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
