package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/CampusHub-2025/accounts-service/internal/models"
	"github.com/CampusHub-2025/accounts-service/internal/repositories"
	"github.com/CampusHub-2025/accounts-service/internal/validator"
)

type importExportService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	validator *validator.Validator,
) ImportExportService {
	return &importExportService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ImportQuestions reads an xlsx workbook with "content" and "topic" columns
// and creates one question per data row, owned by the importing officer.
// Rows that fail validation are skipped and reported, valid rows are
// committed together.
func (s *importExportService) ImportQuestions(ctx context.Context, r io.Reader, actorID uint) (*ImportResult, error) {
	s.logger.Info("Importing questions", "actor_id", actorID)

	actor, err := s.repo.User().GetByID(ctx, nil, actorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}
	if !actor.Is(models.IdentityOfficer) {
		return nil, NewPermissionError(actorID, 0, "question", "import", "officer identity required")
	}

	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrInvalidImportFile
	}
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	if sheet == "" {
		return nil, ErrInvalidImportFile
	}

	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	result := &ImportResult{}
	var questions []*models.Question

	for i, row := range rows {
		// Header row is optional
		if i == 0 && isHeaderRow(row) {
			continue
		}

		content, topic := cellAt(row, 0), cellAt(row, 1)
		if content == "" && topic == "" {
			continue
		}

		req := &CreateQuestionRequest{Content: content, Topic: topic}
		if err := s.validator.Validate(req); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		questions = append(questions, &models.Question{
			Content:   content,
			Topic:     topic,
			OfficerID: actorID,
		})
	}

	if len(questions) > 0 {
		err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
			return txRepo.Question().CreateBatch(ctx, nil, questions)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to import questions: %w", err)
		}
	}

	result.Imported = len(questions)

	s.logger.Info("Questions imported",
		"actor_id", actorID,
		"imported", result.Imported,
		"skipped", result.Skipped)

	return result, nil
}

func isHeaderRow(row []string) bool {
	return strings.EqualFold(cellAt(row, 0), "content")
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
