package repository

import (
	"github.com/adityadeoche/interview-iq-ai-sub001/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type RoleProfileRepository struct {
	db *gorm.DB
}

func NewRoleProfileRepository(db *gorm.DB) *RoleProfileRepository {
	return &RoleProfileRepository{db}
}

// SearchRoles returns the role profiles nearest to the given embedding.
func (r *RoleProfileRepository) SearchRoles(embedding pgvector.Vector, topK int) ([]model.RoleProfile, error) {
	var roles []model.RoleProfile

	err := r.db.Raw(`
        SELECT *, embedding <-> ? AS distance
        FROM role_profiles
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, embedding, topK).Scan(&roles).Error

	return roles, err
}

func (r *RoleProfileRepository) CreateRole(role *model.RoleProfile) error {
	return r.db.Create(role).Error
}

func (r *RoleProfileRepository) UpdateRole(role *model.RoleProfile) error {
	return r.db.Save(role).Error
}

func (r *RoleProfileRepository) FindRoleByTitle(title string) (*model.RoleProfile, error) {
	var role model.RoleProfile
	err := r.db.First(&role, "title = ?", title).Error
	return &role, err
}

func (r *RoleProfileRepository) GetRoles() ([]model.RoleProfile, error) {
	var roles []model.RoleProfile
	err := r.db.Find(&roles).Error
	return roles, err
}
