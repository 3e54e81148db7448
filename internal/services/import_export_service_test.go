package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("bad cell coordinates: %v", err)
			}
			if err := f.SetCellValue(sheet, ref, cell); err != nil {
				t.Fatalf("failed to set cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}
	return buf
}

func TestImportExportService_ImportQuestions(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	officer := registerUser(t, env, "officer1", "officer")
	student := registerUser(t, env, "student1", "student")

	t.Run("imports rows and skips invalid ones", func(t *testing.T) {
		buf := buildWorkbook(t, [][]string{
			{"content", "topic"},
			{"What is 2+2?", "math"},
			{"", "history"}, // missing content
			{"Name the largest ocean.", "geography"},
		})

		result, err := env.importer.ImportQuestions(ctx, buf, officer.ID)
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if result.Imported != 2 {
			t.Errorf("imported = %d, want 2", result.Imported)
		}
		if result.Skipped != 1 {
			t.Errorf("skipped = %d, want 1", result.Skipped)
		}
		if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "row 3") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}

		questions, err := env.question.List(ctx, officer.ID)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(questions) != 2 {
			t.Errorf("expected 2 questions in bank, got %d", len(questions))
		}
		for _, q := range questions {
			if q.OfficerID != officer.ID {
				t.Errorf("imported question owned by %d, want %d", q.OfficerID, officer.ID)
			}
		}
	})

	t.Run("student is forbidden", func(t *testing.T) {
		buf := buildWorkbook(t, [][]string{{"q", "t"}})
		_, err := env.importer.ImportQuestions(ctx, buf, student.ID)
		if !IsPermissionError(err) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})

	t.Run("rejects non-xlsx payload", func(t *testing.T) {
		_, err := env.importer.ImportQuestions(ctx, strings.NewReader("not a workbook"), officer.ID)
		if !errors.Is(err, ErrInvalidImportFile) {
			t.Errorf("expected ErrInvalidImportFile, got %v", err)
		}
	})
}
