package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

func postJSONRequest(t *testing.T, handler http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestFormsCRUDRoundTrip(t *testing.T) {
	repo := newFormsRepoFake()
	handler := newTestHandler(&extractorFake{}, &agentFake{}, repo)

	res := postJSONRequest(t, handler, http.MethodPost, "/forms", map[string]string{
		"form_name": "scan.jpg",
		"data":      `{"name": "Ada"}`,
	})
	if res.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", res.Code, res.Body.String())
	}
	var created domain.Form
	decodeBody(t, res, &created)
	if created.ID == 0 || created.FormName != "scan.jpg" {
		t.Fatalf("created = %+v", created)
	}

	req := httptest.NewRequest(http.MethodGet, "/forms/1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	res = postJSONRequest(t, handler, http.MethodPut, "/forms/1", map[string]string{
		"form_name": "renamed.jpg",
	})
	if res.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var updated domain.Form
	decodeBody(t, res, &updated)
	if updated.FormName != "renamed.jpg" {
		t.Fatalf("updated name = %q", updated.FormName)
	}
	if updated.Data != `{"name": "Ada"}` {
		t.Fatalf("partial update must not touch data, got %q", updated.Data)
	}

	req = httptest.NewRequest(http.MethodDelete, "/forms/1", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	var msg map[string]string
	decodeBody(t, rec, &msg)
	if msg["message"] != "Form with id 1 deleted successfully" {
		t.Fatalf("message = %q", msg["message"])
	}

	req = httptest.NewRequest(http.MethodGet, "/forms/1", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
}

func TestDeleteLeavesOtherFormsUntouched(t *testing.T) {
	handler := newTestHandler(&extractorFake{}, &agentFake{}, newFormsRepoFake())

	res := postJSONRequest(t, handler, http.MethodPost, "/forms", map[string]string{
		"form_name": "first.jpg", "data": `{"a": 1}`,
	})
	if res.Code != http.StatusCreated {
		t.Fatalf("create first: %d", res.Code)
	}
	res = postJSONRequest(t, handler, http.MethodPost, "/forms", map[string]string{
		"form_name": "second.jpg", "data": `{"b": 2}`,
	})
	if res.Code != http.StatusCreated {
		t.Fatalf("create second: %d", res.Code)
	}
	var second domain.Form
	decodeBody(t, res, &second)

	req := httptest.NewRequest(http.MethodDelete, "/forms/1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete first: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/forms/2", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("second form must survive the delete, got %d", rec.Code)
	}
	var survivor domain.Form
	decodeBody(t, rec, &survivor)
	if survivor.FormName != "second.jpg" || survivor.Data != `{"b": 2}` {
		t.Fatalf("survivor = %+v", survivor)
	}
	if !survivor.CreatedAt.Equal(second.CreatedAt) || !survivor.UpdatedAt.Equal(second.UpdatedAt) {
		t.Fatalf("timestamps changed: %+v vs %+v", survivor, second)
	}
}

func TestListFormsEmptyReturnsArray(t *testing.T) {
	handler := newTestHandler(&extractorFake{}, &agentFake{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/forms", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestCreateFormRejectsMissingName(t *testing.T) {
	handler := newTestHandler(&extractorFake{}, &agentFake{}, nil)

	res := postJSONRequest(t, handler, http.MethodPost, "/forms", map[string]string{
		"data": `{}`,
	})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestCreateFormRejectsInvalidDataJSON(t *testing.T) {
	handler := newTestHandler(&extractorFake{}, &agentFake{}, nil)

	res := postJSONRequest(t, handler, http.MethodPost, "/forms", map[string]string{
		"form_name": "scan.jpg",
		"data":      `{"name":`,
	})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	var payload map[string]string
	decodeBody(t, res, &payload)
	if !strings.Contains(payload["detail"], "valid JSON") {
		t.Fatalf("detail = %q", payload["detail"])
	}
}

func TestUpdateUnknownFormReturns404WithMessage(t *testing.T) {
	handler := newTestHandler(&extractorFake{}, &agentFake{}, nil)

	res := postJSONRequest(t, handler, http.MethodPut, "/forms/999999", map[string]string{
		"form_name": "x",
	})
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
	var payload map[string]string
	decodeBody(t, res, &payload)
	if payload["detail"] != "Form with id 999999 not found" {
		t.Fatalf("detail = %q", payload["detail"])
	}
}

func TestUpdateFormRequiresAtLeastOneField(t *testing.T) {
	repo := newFormsRepoFake()
	_, _ = repo.Create(context.Background(), "scan.jpg", `{}`)
	handler := newTestHandler(&extractorFake{}, &agentFake{}, repo)

	res := postJSONRequest(t, handler, http.MethodPut, "/forms/1", map[string]string{})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestFormsItemRejectsNonIntegerID(t *testing.T) {
	handler := newTestHandler(&extractorFake{}, &agentFake{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/forms/abc", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestDeleteUnknownFormReturns404(t *testing.T) {
	handler := newTestHandler(&extractorFake{}, &agentFake{}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/forms/42", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
	var payload map[string]string
	decodeBody(t, res, &payload)
	if payload["detail"] != "Form with id 42 not found" {
		t.Fatalf("detail = %q", payload["detail"])
	}
}

func TestExportFormsReturnsWorkbook(t *testing.T) {
	repo := newFormsRepoFake()
	_, _ = repo.Create(context.Background(), "scan.jpg", `{"name": "Ada"}`)
	handler := newTestHandler(&extractorFake{}, &agentFake{}, repo)

	req := httptest.NewRequest(http.MethodGet, "/forms/export", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if got := res.Header().Get("Content-Type"); !strings.Contains(got, "spreadsheetml") {
		t.Fatalf("content type = %q", got)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(res.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer workbook.Close()
	rows, err := workbook.GetRows("Forms")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header plus one form", len(rows))
	}
	if rows[1][1] != "scan.jpg" {
		t.Fatalf("row = %v", rows[1])
	}
}
