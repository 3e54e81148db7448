package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/CampusHub-2025/accounts-service/internal/auth"
	"github.com/CampusHub-2025/accounts-service/internal/cache"
	"github.com/CampusHub-2025/accounts-service/internal/events"
	"github.com/CampusHub-2025/accounts-service/internal/models"
	"github.com/CampusHub-2025/accounts-service/internal/repositories"
	"github.com/CampusHub-2025/accounts-service/internal/validator"
)

type accountService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
	publisher events.EventPublisher
	caches    *cache.CacheManager
}

func NewAccountService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	validator *validator.Validator,
	tokens *auth.TokenManager,
	publisher events.EventPublisher,
	caches *cache.CacheManager,
) AccountService {
	return &accountService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
		publisher: publisher,
		caches:    caches,
	}
}

// ===== REGISTRATION =====

func (s *accountService) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	s.logger.Info("Registering user", "username", req.Username, "identity", req.Identity)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Uniqueness is checked before the identity value so a taken username
	// reports the same way regardless of the rest of the payload
	exists, err := s.repo.User().ExistsByUsername(ctx, nil, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	identity := models.Identity(req.Identity)
	if !identity.Valid() {
		return nil, ErrInvalidIdentity
	}

	// Score only applies to students and major only to officers; the
	// field for the other identity is ignored, not rejected
	var score *float64
	if identity == models.IdentityStudent {
		score, err = coerceScore(req.Score)
		if err != nil {
			return nil, err
		}
	}

	var major *string
	if identity == models.IdentityOfficer {
		if req.Major != nil && utf8.RuneCountInString(*req.Major) > 100 {
			return nil, validator.ValidationErrors{{
				Field:   "major",
				Message: "must be at most 100 characters",
				Rule:    "max",
			}}
		}
		major = req.Major
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Identity:     &identity,
	}

	// Account and role profile are created atomically
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Create(ctx, nil, user); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		switch identity {
		case models.IdentityStudent:
			profile := &models.StudentProfile{UserID: user.ID, Score: score}
			if err := txRepo.User().CreateStudentProfile(ctx, nil, profile); err != nil {
				return fmt.Errorf("failed to create student profile: %w", err)
			}
		case models.IdentityOfficer:
			profile := &models.OfficerProfile{UserID: user.ID, Major: major}
			if err := txRepo.User().CreateOfficerProfile(ctx, nil, profile); err != nil {
				return fmt.Errorf("failed to create officer profile: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "identity", identity)

	s.publishEvent(ctx, events.TopicUsers, events.EventUserRegistered, &events.UserEvent{
		UserID:   user.ID,
		Username: user.Username,
		Identity: string(identity),
	})

	return buildUserResponse(user), nil
}

// ===== AUTHENTICATION =====

func (s *accountService) Authenticate(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.repo.User().GetByUsername(ctx, nil, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	identity := ""
	if user.Identity != nil {
		identity = string(*user.Identity)
	}

	s.logger.Info("User authenticated", "user_id", user.ID)

	return &LoginResponse{Token: token, Identity: identity}, nil
}

// ===== QUERIES =====

func (s *accountService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%d", id)

	var cached models.User
	if err := s.caches.User.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.caches.User.Set(ctx, cacheKey, user, cache.UserCacheConfig.TTL); err != nil {
		s.logger.Warn("Failed to cache user", "user_id", id, "error", err)
	}

	return user, nil
}

func (s *accountService) List(ctx context.Context) ([]*UserResponse, error) {
	users, err := s.repo.User().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]*UserResponse, len(users))
	for i, user := range users {
		out[i] = buildUserResponse(user)
	}
	return out, nil
}

// ===== DELETION =====

func (s *accountService) Delete(ctx context.Context, targetID, actorID uint) error {
	s.logger.Info("Deleting user", "target_id", targetID, "actor_id", actorID)

	target, err := s.repo.User().GetByID(ctx, nil, targetID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	// Only officer accounts can be removed through this operation
	if !target.Is(models.IdentityOfficer) {
		return NewPermissionError(actorID, targetID, "user", "delete", "target is not an officer")
	}

	// Captured before the cascade so each removed question gets its own event
	questions, err := s.repo.Question().ListByOfficer(ctx, nil, targetID)
	if err != nil {
		return fmt.Errorf("failed to list officer questions: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Question().DeleteByOfficer(ctx, nil, targetID); err != nil {
			return fmt.Errorf("failed to delete officer questions: %w", err)
		}
		if err := txRepo.User().DeleteProfilesByUserID(ctx, nil, targetID); err != nil {
			return fmt.Errorf("failed to delete profiles: %w", err)
		}
		if err := txRepo.User().Delete(ctx, nil, targetID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.caches.InvalidateUser(ctx, targetID); err != nil {
		s.logger.Warn("Failed to invalidate user cache", "user_id", targetID, "error", err)
	}
	if err := s.caches.InvalidateQuestions(ctx); err != nil {
		s.logger.Warn("Failed to invalidate question cache", "error", err)
	}

	s.logger.Info("User deleted", "target_id", targetID)

	for _, q := range questions {
		s.publishEvent(ctx, events.TopicQuestions, events.EventQuestionDeleted, &events.QuestionEvent{
			QuestionID: q.ID,
			OfficerID:  q.OfficerID,
			Topic:      q.Topic,
		})
	}

	identity := ""
	if target.Identity != nil {
		identity = string(*target.Identity)
	}
	s.publishEvent(ctx, events.TopicUsers, events.EventUserDeleted, &events.UserEvent{
		UserID:   target.ID,
		Username: target.Username,
		Identity: identity,
	})

	return nil
}

// ===== HELPERS =====

func (s *accountService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}

func buildUserResponse(user *models.User) *UserResponse {
	identity := ""
	if user.Identity != nil {
		identity = string(*user.Identity)
	}
	resp := &UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Identity: identity,
	}
	if user.StudentProfile != nil {
		resp.Score = user.StudentProfile.Score
	}
	if user.OfficerProfile != nil {
		resp.Major = user.OfficerProfile.Major
	}
	return resp
}

// coerceScore accepts the JSON number or numeric string forms of a score
func coerceScore(raw interface{}) (*float64, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrInvalidScore
		}
		return &v, nil
	case int:
		f := float64(v)
		return &f, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, ErrInvalidScore
		}
		return &f, nil
	default:
		return nil, ErrInvalidScore
	}
}
