// Package export renders stored forms as an XLSX workbook for offline review.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/handwriting-extraction/internal/core/ports"
)

type Service struct {
	repo   ports.FormRepository
	logger *slog.Logger
}

func NewService(repo ports.FormRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// ExportFormsXLSX returns a workbook with one row per stored form. The raw
// JSON payload is kept in a single cell; spreadsheet consumers filter on
// name and timestamps, not on field structure.
func (s *Service) ExportFormsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	forms, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query forms: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Forms"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headers := []string{"ID", "Form Name", "Data", "Created At", "Updated At"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for row, form := range forms {
		values := []any{
			form.ID,
			form.FormName,
			form.Data,
			form.CreatedAt.UTC().Format(time.RFC3339),
			form.UpdatedAt.UTC().Format(time.RFC3339),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	s.logger.Info("forms_exported",
		"count", len(forms),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
