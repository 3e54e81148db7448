package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/CampusHub-2025/accounts-service/internal/models"
)

// UserRepository interface for account and role-profile operations
type UserRepository interface {
	// Basic CRUD
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// List operations
	List(ctx context.Context, tx *gorm.DB) ([]*models.User, error)

	// Validation and checks
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)

	// Role profiles (one per user, keyed by identity)
	CreateStudentProfile(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error
	CreateOfficerProfile(ctx context.Context, tx *gorm.DB, profile *models.OfficerProfile) error
	DeleteProfilesByUserID(ctx context.Context, tx *gorm.DB, userID uint) error
}
