package services

import (
	"context"
	"errors"
	"testing"

	"github.com/CampusHub-2025/accounts-service/internal/events"
)

func TestQuestionService_Create(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	officer := registerUser(t, env, "officer1", "officer")
	student := registerUser(t, env, "student1", "student")

	t.Run("officer can create", func(t *testing.T) {
		env.publisher.ClearEvents()

		resp, err := env.question.Create(ctx, &CreateQuestionRequest{
			Content: "What is the capital of France?",
			Topic:   "geography",
		}, officer.ID)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if resp.OfficerID != officer.ID {
			t.Errorf("officer_id = %d, want %d", resp.OfficerID, officer.ID)
		}

		published := env.publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventQuestionCreated {
			t.Errorf("expected one %s event, got %d events", events.EventQuestionCreated, len(published))
		}
	})

	t.Run("student is forbidden", func(t *testing.T) {
		_, err := env.question.Create(ctx, &CreateQuestionRequest{
			Content: "x",
			Topic:   "y",
		}, student.ID)
		if !IsPermissionError(err) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})

	t.Run("missing content is rejected", func(t *testing.T) {
		_, err := env.question.Create(ctx, &CreateQuestionRequest{Topic: "y"}, officer.ID)
		if err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestQuestionService_List(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	officer1 := registerUser(t, env, "officer1", "officer")
	officer2 := registerUser(t, env, "officer2", "officer")
	student := registerUser(t, env, "student1", "student")

	mustCreateQuestion(t, env, officer1.ID, "q1", "math")
	mustCreateQuestion(t, env, officer2.ID, "q2", "history")

	t.Run("listing spans all officers", func(t *testing.T) {
		questions, err := env.question.List(ctx, officer1.ID)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(questions) != 2 {
			t.Errorf("expected 2 questions, got %d", len(questions))
		}
	})

	t.Run("student is forbidden", func(t *testing.T) {
		_, err := env.question.List(ctx, student.ID)
		if !IsPermissionError(err) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})
}

func TestQuestionService_Update(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	owner := registerUser(t, env, "owner", "officer")
	other := registerUser(t, env, "other", "officer")
	student := registerUser(t, env, "student1", "student")

	created := mustCreateQuestion(t, env, owner.ID, "original", "math")

	t.Run("owner can update", func(t *testing.T) {
		req := &UpdateQuestionRequest{Content: "revised", Topic: "algebra"}
		resp, err := env.question.Update(ctx, created.ID, req, owner.ID)
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if resp.Content != "revised" || resp.Topic != "algebra" {
			t.Errorf("got content=%q topic=%q", resp.Content, resp.Topic)
		}
		if resp.OfficerID != owner.ID {
			t.Errorf("officer_id changed to %d", resp.OfficerID)
		}
		if !resp.UpdatedAt.After(resp.CreatedAt) && !resp.UpdatedAt.Equal(resp.CreatedAt) {
			t.Errorf("updated_at %v precedes created_at %v", resp.UpdatedAt, resp.CreatedAt)
		}
	})

	t.Run("missing content is rejected", func(t *testing.T) {
		_, err := env.question.Update(ctx, created.ID, &UpdateQuestionRequest{Topic: "algebra"}, owner.ID)
		if err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("non-owner officer is forbidden", func(t *testing.T) {
		req := &UpdateQuestionRequest{Content: "hijack", Topic: "algebra"}
		_, err := env.question.Update(ctx, created.ID, req, other.ID)
		if !IsPermissionError(err) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})

	t.Run("student is forbidden", func(t *testing.T) {
		req := &UpdateQuestionRequest{Content: "hijack", Topic: "algebra"}
		_, err := env.question.Update(ctx, created.ID, req, student.ID)
		if !IsPermissionError(err) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})

	t.Run("missing question reports not found even for non-owner", func(t *testing.T) {
		req := &UpdateQuestionRequest{Content: "x", Topic: "y"}
		_, err := env.question.Update(ctx, 9999, req, other.ID)
		if !errors.Is(err, ErrQuestionNotFound) {
			t.Errorf("expected ErrQuestionNotFound, got %v", err)
		}
	})

	t.Run("missing question reports not found before payload validation", func(t *testing.T) {
		_, err := env.question.Update(ctx, 9999, &UpdateQuestionRequest{}, owner.ID)
		if !errors.Is(err, ErrQuestionNotFound) {
			t.Errorf("expected ErrQuestionNotFound, got %v", err)
		}
	})
}

func TestQuestionService_Delete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	owner := registerUser(t, env, "owner", "officer")
	other := registerUser(t, env, "other", "officer")

	created := mustCreateQuestion(t, env, owner.ID, "doomed", "math")

	t.Run("non-owner officer is forbidden", func(t *testing.T) {
		err := env.question.Delete(ctx, created.ID, other.ID)
		if !IsPermissionError(err) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})

	t.Run("owner can delete", func(t *testing.T) {
		env.publisher.ClearEvents()

		if err := env.question.Delete(ctx, created.ID, owner.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		questions, err := env.question.List(ctx, owner.ID)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(questions) != 0 {
			t.Errorf("question still listed after delete")
		}

		published := env.publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventQuestionDeleted {
			t.Errorf("expected one %s event", events.EventQuestionDeleted)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		err := env.question.Delete(ctx, 9999, owner.ID)
		if !errors.Is(err, ErrQuestionNotFound) {
			t.Errorf("expected ErrQuestionNotFound, got %v", err)
		}
	})
}

func mustCreateQuestion(t *testing.T, env *testEnv, officerID uint, content, topic string) *QuestionResponse {
	t.Helper()

	resp, err := env.question.Create(context.Background(), &CreateQuestionRequest{
		Content: content,
		Topic:   topic,
	}, officerID)
	if err != nil {
		t.Fatalf("failed to create question: %v", err)
	}
	return resp
}
