package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/CampusHub-2025/accounts-service/internal/models"
	"github.com/CampusHub-2025/accounts-service/internal/repositories"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &userRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return r.handleDBError(err, "create user")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	db := r.getDB(tx)
	var user models.User

	if err := db.WithContext(ctx).
		Preload("StudentProfile").
		Preload("OfficerProfile").
		First(&user, id).Error; err != nil {
		return nil, r.handleDBError(err, "get user by id")
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	db := r.getDB(tx)
	var user models.User

	if err := db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, r.handleDBError(err, "get user by username")
	}

	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return r.handleDBError(result.Error, "delete user")
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *userRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.User, error) {
	db := r.getDB(tx)
	var users []*models.User

	if err := db.WithContext(ctx).
		Preload("StudentProfile").
		Preload("OfficerProfile").
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, r.handleDBError(err, "list users")
	}

	return users, nil
}

// ===== VALIDATION =====

func (r *userRepository) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, r.handleDBError(err, "check if username exists")
	}

	return count > 0, nil
}

// ===== ROLE PROFILES =====

func (r *userRepository) CreateStudentProfile(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(profile).Error; err != nil {
		return r.handleDBError(err, "create student profile")
	}
	return nil
}

func (r *userRepository) CreateOfficerProfile(ctx context.Context, tx *gorm.DB, profile *models.OfficerProfile) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(profile).Error; err != nil {
		return r.handleDBError(err, "create officer profile")
	}
	return nil
}

func (r *userRepository) DeleteProfilesByUserID(ctx context.Context, tx *gorm.DB, userID uint) error {
	db := r.getDB(tx)

	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.StudentProfile{}).Error; err != nil {
		return r.handleDBError(err, "delete student profile")
	}

	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.OfficerProfile{}).Error; err != nil {
		return r.handleDBError(err, "delete officer profile")
	}

	return nil
}

// ===== HELPER METHODS =====

func (r *userRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *userRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}

// handleDBError is a package-level helper for handling database errors
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrDuplicateKey
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
