package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/CampusHub-2025/accounts-service/internal/cache"
	"github.com/CampusHub-2025/accounts-service/internal/events"
	"github.com/CampusHub-2025/accounts-service/internal/models"
	"github.com/CampusHub-2025/accounts-service/internal/repositories"
	"github.com/CampusHub-2025/accounts-service/internal/validator"
)

type questionService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	caches    *cache.CacheManager
}

func NewQuestionService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
	caches *cache.CacheManager,
) QuestionService {
	return &questionService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		caches:    caches,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest, actorID uint) (*QuestionResponse, error) {
	s.logger.Info("Creating question", "actor_id", actorID, "topic", req.Topic)

	if err := s.requireOfficer(ctx, actorID, 0, "create"); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	question := &models.Question{
		Content:   req.Content,
		Topic:     req.Topic,
		OfficerID: actorID,
	}

	if err := s.repo.Question().Create(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created", "question_id", question.ID, "officer_id", actorID)

	s.invalidateListings(ctx)
	s.publishEvent(ctx, events.EventQuestionCreated, question)

	return buildQuestionResponse(question), nil
}

func (s *questionService) List(ctx context.Context, actorID uint) ([]*QuestionResponse, error) {
	if err := s.requireOfficer(ctx, actorID, 0, "list"); err != nil {
		return nil, err
	}

	// Listing covers the whole bank, not just the caller's questions
	questions, err := s.repo.Question().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	out := make([]*QuestionResponse, len(questions))
	for i, q := range questions {
		out[i] = buildQuestionResponse(q)
	}
	return out, nil
}

func (s *questionService) Update(ctx context.Context, id uint, req *UpdateQuestionRequest, actorID uint) (*QuestionResponse, error) {
	s.logger.Info("Updating question", "question_id", id, "actor_id", actorID)

	if err := s.requireOfficer(ctx, actorID, id, "update"); err != nil {
		return nil, err
	}

	// Existence is checked before ownership and payload validation so a
	// missing record is always 404
	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if question.OfficerID != actorID {
		return nil, NewPermissionError(actorID, id, "question", "update", "not the owning officer")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// created_at and officer_id are never touched here
	question.Content = req.Content
	question.Topic = req.Topic

	if err := s.repo.Question().Update(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.invalidateListings(ctx)
	s.publishEvent(ctx, events.EventQuestionUpdated, question)

	return buildQuestionResponse(question), nil
}

func (s *questionService) Delete(ctx context.Context, id uint, actorID uint) error {
	s.logger.Info("Deleting question", "question_id", id, "actor_id", actorID)

	if err := s.requireOfficer(ctx, actorID, id, "delete"); err != nil {
		return err
	}

	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}

	if question.OfficerID != actorID {
		return NewPermissionError(actorID, id, "question", "delete", "not the owning officer")
	}

	if err := s.repo.Question().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.invalidateListings(ctx)
	s.publishEvent(ctx, events.EventQuestionDeleted, question)

	return nil
}

// ===== HELPERS =====

func (s *questionService) requireOfficer(ctx context.Context, actorID, resourceID uint, action string) error {
	actor, err := s.repo.User().GetByID(ctx, nil, actorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get actor: %w", err)
	}

	if !actor.Is(models.IdentityOfficer) {
		return NewPermissionError(actorID, resourceID, "question", action, "officer identity required")
	}

	return nil
}

func (s *questionService) invalidateListings(ctx context.Context) {
	if err := s.caches.InvalidateQuestions(ctx); err != nil {
		s.logger.Warn("Failed to invalidate question cache", "error", err)
	}
}

func (s *questionService) publishEvent(ctx context.Context, eventType string, question *models.Question) {
	if s.publisher == nil {
		return
	}
	data := &events.QuestionEvent{
		QuestionID: question.ID,
		OfficerID:  question.OfficerID,
		Topic:      question.Topic,
	}
	if err := s.publisher.Publish(ctx, events.TopicQuestions, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}

func buildQuestionResponse(question *models.Question) *QuestionResponse {
	return &QuestionResponse{
		ID:        question.ID,
		Content:   question.Content,
		Topic:     question.Topic,
		OfficerID: question.OfficerID,
		CreatedAt: question.CreatedAt,
		UpdatedAt: question.UpdatedAt,
	}
}
