package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/CampusHub-2025/accounts-service/internal/auth"
	"github.com/CampusHub-2025/accounts-service/internal/cache"
	"github.com/CampusHub-2025/accounts-service/internal/events"
	"github.com/CampusHub-2025/accounts-service/internal/models"
	"github.com/CampusHub-2025/accounts-service/internal/repositories"
	"github.com/CampusHub-2025/accounts-service/internal/repositories/postgres"
	"github.com/CampusHub-2025/accounts-service/internal/validator"
)

type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	account   AccountService
	question  QuestionService
	importer  ImportExportService
	publisher *events.MockEventPublisher
	tokens    *auth.TokenManager
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.StudentProfile{},
		&models.OfficerProfile{},
		&models.Question{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	slogLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	v := validator.New()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	publisher := events.NewMockEventPublisher(slogLogger)
	caches := cache.NewCacheManager(nil)

	account := NewAccountService(repo, db, slogLogger, v, tokens, publisher, caches)
	question := NewQuestionService(repo, db, slogLogger, v, publisher, caches)
	importer := NewImportExportService(repo, db, slogLogger, v)

	return &testEnv{
		db:        db,
		repo:      repo,
		account:   account,
		question:  question,
		importer:  importer,
		publisher: publisher,
		tokens:    tokens,
	}
}

func registerUser(t *testing.T, env *testEnv, username, identity string) *UserResponse {
	t.Helper()

	req := &RegisterRequest{Username: username, Password: "secret123", Identity: identity}
	resp, err := env.account.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("failed to register %s: %v", username, err)
	}
	return resp
}

func TestAccountService_Register(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	t.Run("student with numeric score", func(t *testing.T) {
		resp, err := env.account.Register(ctx, &RegisterRequest{
			Username: "alice",
			Password: "secret123",
			Identity: "student",
			Score:    float64(88.5),
		})
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if resp.Identity != "student" {
			t.Errorf("identity = %q, want student", resp.Identity)
		}

		var profile models.StudentProfile
		if err := env.db.Where("user_id = ?", resp.ID).First(&profile).Error; err != nil {
			t.Fatalf("student profile not created: %v", err)
		}
		if profile.Score == nil || *profile.Score != 88.5 {
			t.Errorf("score = %v, want 88.5", profile.Score)
		}
	})

	t.Run("student with string score", func(t *testing.T) {
		resp, err := env.account.Register(ctx, &RegisterRequest{
			Username: "bob",
			Password: "secret123",
			Identity: "student",
			Score:    "72",
		})
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}

		var profile models.StudentProfile
		if err := env.db.Where("user_id = ?", resp.ID).First(&profile).Error; err != nil {
			t.Fatalf("student profile not created: %v", err)
		}
		if profile.Score == nil || *profile.Score != 72 {
			t.Errorf("score = %v, want 72", profile.Score)
		}
	})

	t.Run("officer with major", func(t *testing.T) {
		major := "Computer Science"
		resp, err := env.account.Register(ctx, &RegisterRequest{
			Username: "carol",
			Password: "secret123",
			Identity: "officer",
			Major:    &major,
		})
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}

		var profile models.OfficerProfile
		if err := env.db.Where("user_id = ?", resp.ID).First(&profile).Error; err != nil {
			t.Fatalf("officer profile not created: %v", err)
		}
		if profile.Major == nil || *profile.Major != major {
			t.Errorf("major = %v, want %q", profile.Major, major)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := env.account.Register(ctx, &RegisterRequest{
			Username: "alice",
			Password: "other",
			Identity: "officer",
		})
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("duplicate username reported before identity check", func(t *testing.T) {
		_, err := env.account.Register(ctx, &RegisterRequest{
			Username: "alice",
			Password: "other",
			Identity: "wizard",
		})
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("invalid identity", func(t *testing.T) {
		_, err := env.account.Register(ctx, &RegisterRequest{
			Username: "dave",
			Password: "secret123",
			Identity: "wizard",
		})
		if !errors.Is(err, ErrInvalidIdentity) {
			t.Errorf("expected ErrInvalidIdentity, got %v", err)
		}
	})

	t.Run("missing identity", func(t *testing.T) {
		_, err := env.account.Register(ctx, &RegisterRequest{
			Username: "dave",
			Password: "secret123",
		})
		if !errors.Is(err, ErrInvalidIdentity) {
			t.Errorf("expected ErrInvalidIdentity, got %v", err)
		}
	})

	t.Run("officer major longer than 100 chars", func(t *testing.T) {
		major := strings.Repeat("x", 101)
		_, err := env.account.Register(ctx, &RegisterRequest{
			Username: "dave",
			Password: "secret123",
			Identity: "officer",
			Major:    &major,
		})
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("student major is ignored regardless of length", func(t *testing.T) {
		major := strings.Repeat("x", 101)
		resp, err := env.account.Register(ctx, &RegisterRequest{
			Username: "erin",
			Password: "secret123",
			Identity: "student",
			Major:    &major,
		})
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}

		var count int64
		env.db.Model(&models.OfficerProfile{}).Where("user_id = ?", resp.ID).Count(&count)
		if count != 0 {
			t.Errorf("student registration created an officer profile")
		}
	})

	t.Run("invalid score", func(t *testing.T) {
		_, err := env.account.Register(ctx, &RegisterRequest{
			Username: "dave",
			Password: "secret123",
			Identity: "student",
			Score:    "not-a-number",
		})
		if !errors.Is(err, ErrInvalidScore) {
			t.Errorf("expected ErrInvalidScore, got %v", err)
		}

		// Failed registration must not leave a partial account behind
		var count int64
		env.db.Model(&models.User{}).Where("username = ?", "dave").Count(&count)
		if count != 0 {
			t.Errorf("user created despite invalid score")
		}
	})

	t.Run("publishes registered event", func(t *testing.T) {
		env.publisher.ClearEvents()
		registerUser(t, env, "eve", "student")

		published := env.publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.EventUserRegistered {
			t.Errorf("event type = %q, want %q", published[0].Type, events.EventUserRegistered)
		}
		if published[0].Source != "accounts-service" {
			t.Errorf("event source = %q", published[0].Source)
		}
	})
}

func TestAccountService_Authenticate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	created := registerUser(t, env, "alice", "student")

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := env.account.Authenticate(ctx, &LoginRequest{Username: "alice", Password: "secret123"})
		if err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}
		if resp.Identity != "student" {
			t.Errorf("identity = %q, want student", resp.Identity)
		}

		userID, err := env.tokens.Verify(resp.Token)
		if err != nil {
			t.Fatalf("issued token does not verify: %v", err)
		}
		if userID != created.ID {
			t.Errorf("token subject = %d, want %d", userID, created.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.account.Authenticate(ctx, &LoginRequest{Username: "alice", Password: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := env.account.Authenticate(ctx, &LoginRequest{Username: "nobody", Password: "secret123"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAccountService_List(t *testing.T) {
	env := setupTestEnv(t)

	registerUser(t, env, "alice", "student")
	registerUser(t, env, "bob", "officer")

	users, err := env.account.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Username != "alice" || users[1].Username != "bob" {
		t.Errorf("unexpected ordering: %s, %s", users[0].Username, users[1].Username)
	}
}

func TestAccountService_Delete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	student := registerUser(t, env, "alice", "student")
	officer := registerUser(t, env, "bob", "officer")
	actor := registerUser(t, env, "carol", "officer")

	// Give the officer some questions so the cascade is observable
	for _, topic := range []string{"algebra", "geometry"} {
		_, err := env.question.Create(ctx, &CreateQuestionRequest{Content: "q", Topic: topic}, officer.ID)
		if err != nil {
			t.Fatalf("failed to create question: %v", err)
		}
	}

	t.Run("student target is forbidden", func(t *testing.T) {
		err := env.account.Delete(ctx, student.ID, actor.ID)
		if !IsPermissionError(err) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})

	t.Run("missing target", func(t *testing.T) {
		err := env.account.Delete(ctx, 9999, actor.ID)
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("officer target cascades", func(t *testing.T) {
		env.publisher.ClearEvents()

		if err := env.account.Delete(ctx, officer.ID, actor.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		var userCount, profileCount, questionCount int64
		env.db.Model(&models.User{}).Where("id = ?", officer.ID).Count(&userCount)
		env.db.Model(&models.OfficerProfile{}).Where("user_id = ?", officer.ID).Count(&profileCount)
		env.db.Model(&models.Question{}).Where("officer_id = ?", officer.ID).Count(&questionCount)

		if userCount != 0 || profileCount != 0 || questionCount != 0 {
			t.Errorf("cascade incomplete: users=%d profiles=%d questions=%d",
				userCount, profileCount, questionCount)
		}

		published := env.publisher.GetPublishedEvents()
		var questionDeletes, userDeletes int
		for _, ev := range published {
			switch ev.Type {
			case events.EventQuestionDeleted:
				questionDeletes++
			case events.EventUserDeleted:
				userDeletes++
			}
		}
		if questionDeletes != 2 {
			t.Errorf("expected 2 %s events, got %d", events.EventQuestionDeleted, questionDeletes)
		}
		if userDeletes != 1 {
			t.Errorf("expected 1 %s event, got %d", events.EventUserDeleted, userDeletes)
		}
	})
}

func TestAccountService_GetUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	created := registerUser(t, env, "alice", "student")

	user, err := env.account.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("get user failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want alice", user.Username)
	}
	if !user.Is(models.IdentityStudent) {
		t.Errorf("expected student identity")
	}

	if _, err := env.account.GetUser(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
