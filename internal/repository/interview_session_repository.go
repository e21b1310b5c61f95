package repository

import (
	"github.com/adityadeoche/interview-iq-ai-sub001/internal/model"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db}
}

func (r *SessionRepository) CreateSession(session *model.InterviewSession) error {
	return r.db.Create(session).Error
}

func (r *SessionRepository) UpdateSession(session *model.InterviewSession) error {
	return r.db.Save(session).Error
}

func (r *SessionRepository) FindSessionByID(id string) (*model.InterviewSession, error) {
	var session model.InterviewSession
	err := r.db.Preload("Rounds", func(db *gorm.DB) *gorm.DB {
		return db.Order("round_number ASC")
	}).First(&session, "id = ?", id).Error
	return &session, err
}

// UpdateSessionColumns writes only the named columns, so background writers
// cannot clobber fields updated concurrently by request handlers.
func (r *SessionRepository) UpdateSessionColumns(id string, columns map[string]interface{}) error {
	return r.db.Model(&model.InterviewSession{}).Where("id = ?", id).Updates(columns).Error
}

// CreateRoundResult inserts a round result. Results are immutable; there is
// deliberately no update method.
func (r *SessionRepository) CreateRoundResult(result *model.RoundResult) error {
	return r.db.Create(result).Error
}
