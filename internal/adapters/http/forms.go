package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
)

type formCreateRequest struct {
	FormName *string `json:"form_name"`
	Data     *string `json:"data"`
}

type formUpdateRequest struct {
	FormName *string `json:"form_name"`
	Data     *string `json:"data"`
}

func (rt *Router) formsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.listForms(w, r)
	case http.MethodPost:
		rt.createForm(w, r)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (rt *Router) formsItem(w http.ResponseWriter, r *http.Request) {
	idText := strings.TrimPrefix(r.URL.Path, "/forms/")
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "form id must be an integer")
		return
	}

	switch r.Method {
	case http.MethodGet:
		rt.getForm(w, r, id)
	case http.MethodPut:
		rt.updateForm(w, r, id)
	case http.MethodDelete:
		rt.deleteForm(w, r, id)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (rt *Router) listForms(w http.ResponseWriter, r *http.Request) {
	forms, err := rt.repo.List(r.Context())
	if err != nil {
		writeDetail(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

func (rt *Router) createForm(w http.ResponseWriter, r *http.Request) {
	var req formCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.FormName == nil || strings.TrimSpace(*req.FormName) == "" {
		writeDetail(w, http.StatusBadRequest, "form_name is required")
		return
	}
	if req.Data == nil {
		writeDetail(w, http.StatusBadRequest, "data is required")
		return
	}
	if !json.Valid([]byte(*req.Data)) {
		writeDetail(w, http.StatusBadRequest, "data must be valid JSON text")
		return
	}

	form, err := rt.repo.Create(r.Context(), *req.FormName, *req.Data)
	if err != nil {
		writeDetail(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

func (rt *Router) getForm(w http.ResponseWriter, r *http.Request, id int64) {
	form, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeFormError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (rt *Router) updateForm(w http.ResponseWriter, r *http.Request, id int64) {
	var req formUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.FormName == nil && req.Data == nil {
		writeDetail(w, http.StatusBadRequest, "at least one of form_name, data is required")
		return
	}
	if req.Data != nil && !json.Valid([]byte(*req.Data)) {
		writeDetail(w, http.StatusBadRequest, "data must be valid JSON text")
		return
	}

	form, err := rt.repo.Update(r.Context(), id, domain.FormUpdate{
		FormName: req.FormName,
		Data:     req.Data,
	})
	if err != nil {
		writeFormError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (rt *Router) deleteForm(w http.ResponseWriter, r *http.Request, id int64) {
	if err := rt.repo.Delete(r.Context(), id); err != nil {
		writeFormError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Form with id %d deleted successfully", id),
	})
}

func (rt *Router) exportForms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	workbook, err := rt.exporter.ExportFormsXLSX(r.Context())
	if err != nil {
		writeDetail(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="forms.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}

func writeFormError(w http.ResponseWriter, id int64, err error) {
	if domain.IsKind(err, domain.ErrFormNotFound) {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Form with id %d not found", id))
		return
	}
	writeDetail(w, mapErrorToHTTPStatus(err), err.Error())
}
