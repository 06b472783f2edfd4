package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

type repoFake struct {
	forms []*domain.Form
	err   error
}

func (f *repoFake) Create(context.Context, string, string) (*domain.Form, error) {
	return nil, errors.New("not implemented")
}

func (f *repoFake) GetByID(context.Context, int64) (*domain.Form, error) {
	return nil, domain.ErrFormNotFound
}

func (f *repoFake) List(context.Context) ([]*domain.Form, error) {
	return f.forms, f.err
}

func (f *repoFake) Update(context.Context, int64, domain.FormUpdate) (*domain.Form, error) {
	return nil, domain.ErrFormNotFound
}

func (f *repoFake) Delete(context.Context, int64) error { return domain.ErrFormNotFound }

func TestExportFormsXLSXWritesHeaderAndRows(t *testing.T) {
	created := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	repo := &repoFake{forms: []*domain.Form{
		{ID: 1, FormName: "scan.jpg", Data: `{"name": "Ada"}`, CreatedAt: created, UpdatedAt: updated},
		{ID: 2, FormName: "receipt.png", Data: `{}`, CreatedAt: created, UpdatedAt: created},
	}}
	service := NewService(repo, nil)

	payload, err := service.ExportFormsXLSX(context.Background())
	if err != nil {
		t.Fatalf("ExportFormsXLSX() error = %v", err)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows("Forms")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header plus two forms", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][1] != "Form Name" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][1] != "scan.jpg" || rows[1][2] != `{"name": "Ada"}` {
		t.Fatalf("first row = %v", rows[1])
	}
	if rows[2][3] != created.Format(time.RFC3339) {
		t.Fatalf("created_at cell = %q", rows[2][3])
	}
}

func TestExportFormsXLSXEmptyStoreYieldsHeaderOnly(t *testing.T) {
	service := NewService(&repoFake{}, nil)

	payload, err := service.ExportFormsXLSX(context.Background())
	if err != nil {
		t.Fatalf("ExportFormsXLSX() error = %v", err)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows("Forms")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want header only", len(rows))
	}
}

func TestExportFormsXLSXPropagatesRepositoryError(t *testing.T) {
	service := NewService(&repoFake{err: errors.New("disk failure")}, nil)

	if _, err := service.ExportFormsXLSX(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
