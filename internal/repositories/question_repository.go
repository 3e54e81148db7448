package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/CampusHub-2025/accounts-service/internal/models"
)

// QuestionRepository interface for question bank operations
type QuestionRepository interface {
	// Basic CRUD
	Create(ctx context.Context, tx *gorm.DB, question *models.Question) error
	CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.Question) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error)
	Update(ctx context.Context, tx *gorm.DB, question *models.Question) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// List operations
	List(ctx context.Context, tx *gorm.DB) ([]*models.Question, error)
	ListByOfficer(ctx context.Context, tx *gorm.DB, officerID uint) ([]*models.Question, error)

	// Bulk delete used when an officer account is removed
	DeleteByOfficer(ctx context.Context, tx *gorm.DB, officerID uint) error
}
