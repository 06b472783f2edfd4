package sqldb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*FormRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &FormRepository{db: db, dialect: DialectPostgres}, mock, func() { _ = db.Close() }
}

func TestCreateReturnsAssignedID(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("INSERT INTO form_data").
		WithArgs("scan.jpg", `{"name": "Ada"}`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	form, err := repo.Create(context.Background(), "scan.jpg", `{"name": "Ada"}`)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if form.ID != 7 {
		t.Fatalf("id = %d, want 7", form.ID)
	}
	if form.FormName != "scan.jpg" || form.Data != `{"name": "Ada"}` {
		t.Fatalf("form = %+v", form)
	}
	if !form.CreatedAt.Equal(form.UpdatedAt) {
		t.Fatalf("fresh record must carry equal timestamps: %v vs %v", form.CreatedAt, form.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, form_name, data, created_at, updated_at").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListReturnsFormsInInsertionOrder(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, form_name, data, created_at, updated_at").
		WillReturnRows(sqlmock.NewRows([]string{"id", "form_name", "data", "created_at", "updated_at"}).
			AddRow(int64(1), "a.jpg", `{}`, now, now).
			AddRow(int64(2), "b.jpg", `{}`, now, now))

	forms, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(forms) != 2 || forms[0].ID != 1 || forms[1].ID != 2 {
		t.Fatalf("forms = %+v", forms)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdatePartialRefreshesUpdatedAt(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	created := time.Now().UTC().Add(-time.Hour)
	touched := time.Now().UTC()
	name := "renamed.jpg"

	// Only form_name is supplied, so the statement carries the new name, the
	// refreshed timestamp and the id.
	mock.ExpectQuery("UPDATE form_data").
		WithArgs(name, sqlmock.AnyArg(), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "form_name", "data", "created_at", "updated_at"}).
			AddRow(int64(5), name, `{}`, created, touched))

	form, err := repo.Update(context.Background(), 5, domain.FormUpdate{FormName: &name})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if form.FormName != name {
		t.Fatalf("name = %q", form.FormName)
	}
	if !form.UpdatedAt.After(form.CreatedAt) {
		t.Fatalf("updated_at not refreshed: %v vs %v", form.UpdatedAt, form.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	data := `{"name": "Ada"}`
	mock.ExpectQuery("UPDATE form_data").
		WithArgs(data, sqlmock.AnyArg(), int64(999999)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 999999, domain.FormUpdate{Data: &data})
	if !domain.IsKind(err, domain.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("DELETE FROM form_data").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 42)
	if !domain.IsKind(err, domain.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteSucceedsWhenRowRemoved(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("DELETE FROM form_data").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
