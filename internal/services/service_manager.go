package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/CampusHub-2025/accounts-service/internal/auth"
	"github.com/CampusHub-2025/accounts-service/internal/cache"
	"github.com/CampusHub-2025/accounts-service/internal/events"
	"github.com/CampusHub-2025/accounts-service/internal/repositories"
	"github.com/CampusHub-2025/accounts-service/internal/validator"
)

// serviceManager implements ServiceManager
type serviceManager struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
	publisher events.EventPublisher
	caches    *cache.CacheManager

	accountService      AccountService
	questionService     QuestionService
	importExportService ImportExportService

	initialized bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies
func NewServiceManager(
	db *gorm.DB,
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	tokens *auth.TokenManager,
	publisher events.EventPublisher,
	caches *cache.CacheManager,
) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
		publisher: publisher,
		caches:    caches,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.accountService = NewAccountService(sm.repo, sm.db, sm.logger, sm.validator, sm.tokens, sm.publisher, sm.caches)
	sm.questionService = NewQuestionService(sm.repo, sm.db, sm.logger, sm.validator, sm.publisher, sm.caches)
	sm.importExportService = NewImportExportService(sm.repo, sm.db, sm.logger, sm.validator)

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized")

	return nil
}

func (sm *serviceManager) Account() AccountService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.accountService
}

func (sm *serviceManager) Question() QuestionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.questionService
}

func (sm *serviceManager) ImportExport() ImportExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.importExportService
}

// HealthCheck verifies all service dependencies
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	return sm.repo.Ping(ctx)
}

// Shutdown releases service resources
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Warn("Failed to close event publisher", "error", err)
		}
	}

	sm.initialized = false
	return nil
}
