package services

import (
	"context"
	"io"
	"time"

	"github.com/CampusHub-2025/accounts-service/internal/models"
)

// ===== REQUEST/RESPONSE DTOs =====

// RegisterRequest is the payload for account creation. Score accepts a JSON
// number or a numeric string and is coerced by the service. Score and Major
// are checked per identity in the service, not by struct tags: a student's
// major and an officer's score are ignored, not rejected.
type RegisterRequest struct {
	Username string      `json:"username" validate:"required,max=80"`
	Password string      `json:"password" validate:"required"`
	Identity string      `json:"identity"`
	Score    interface{} `json:"score"`
	Major    *string     `json:"major"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Identity string `json:"identity"`
}

type UserResponse struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Identity string   `json:"identity"`
	Score    *float64 `json:"score"`
	Major    *string  `json:"major"`
}

type CreateQuestionRequest struct {
	Content string `json:"content" validate:"required"`
	Topic   string `json:"topic" validate:"required,max=100"`
}

// UpdateQuestionRequest replaces both fields; partial updates are not supported
type UpdateQuestionRequest struct {
	Content string `json:"content" validate:"required"`
	Topic   string `json:"topic" validate:"required,max=100"`
}

type QuestionResponse struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	Topic     string    `json:"topic"`
	OfficerID uint      `json:"officer_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImportResult summarizes a bulk question import
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ===== SERVICE INTERFACES =====

// AccountService manages registration, authentication and account lifecycle
type AccountService interface {
	Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error)
	Authenticate(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context) ([]*UserResponse, error)
	Delete(ctx context.Context, targetID, actorID uint) error
}

// QuestionService manages the officer-owned question bank
type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest, actorID uint) (*QuestionResponse, error)
	List(ctx context.Context, actorID uint) ([]*QuestionResponse, error)
	Update(ctx context.Context, id uint, req *UpdateQuestionRequest, actorID uint) (*QuestionResponse, error)
	Delete(ctx context.Context, id uint, actorID uint) error
}

// ImportExportService handles bulk question ingestion from xlsx workbooks
type ImportExportService interface {
	ImportQuestions(ctx context.Context, r io.Reader, actorID uint) (*ImportResult, error)
}

// ServiceManager wires and exposes all services
type ServiceManager interface {
	Account() AccountService
	Question() QuestionService
	ImportExport() ImportExportService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
	HealthCheck(ctx context.Context) error
}
