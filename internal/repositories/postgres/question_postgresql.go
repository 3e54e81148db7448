package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/CampusHub-2025/accounts-service/internal/models"
	"github.com/CampusHub-2025/accounts-service/internal/repositories"
)

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &questionRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *questionRepository) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(question).Error; err != nil {
		return r.handleDBError(err, "create question")
	}
	return nil
}

func (r *questionRepository) CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(questions).Error; err != nil {
		return r.handleDBError(err, "create questions batch")
	}
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	db := r.getDB(tx)
	var question models.Question

	if err := db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, r.handleDBError(err, "get question by id")
	}

	return &question, nil
}

func (r *questionRepository) Update(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(question).Error; err != nil {
		return r.handleDBError(err, "update question")
	}
	return nil
}

func (r *questionRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return r.handleDBError(result.Error, "delete question")
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *questionRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.Question, error) {
	db := r.getDB(tx)
	var questions []*models.Question

	if err := db.WithContext(ctx).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, r.handleDBError(err, "list questions")
	}

	return questions, nil
}

func (r *questionRepository) ListByOfficer(ctx context.Context, tx *gorm.DB, officerID uint) ([]*models.Question, error) {
	db := r.getDB(tx)
	var questions []*models.Question

	if err := db.WithContext(ctx).
		Where("officer_id = ?", officerID).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, r.handleDBError(err, "list questions by officer")
	}

	return questions, nil
}

func (r *questionRepository) DeleteByOfficer(ctx context.Context, tx *gorm.DB, officerID uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).
		Where("officer_id = ?", officerID).
		Delete(&models.Question{}).Error; err != nil {
		return r.handleDBError(err, "delete questions by officer")
	}
	return nil
}

// ===== HELPER METHODS =====

func (r *questionRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *questionRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}
