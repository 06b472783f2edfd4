package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
)

// Direct field-agent endpoints. They share the upload pipeline's agent but
// stay callable on their own so clients can re-run individual stages.

type extractFieldsRequest struct {
	ExtractedText domain.ExtractedText `json:"extracted_text"`
	Language      string               `json:"language"`
}

type validateFormRequest struct {
	Fields         []domain.FieldValue `json:"fields"`
	ExpectedFields []string            `json:"expected_fields"`
}

type classifyFormRequest struct {
	ExtractedText domain.ExtractedText `json:"extracted_text"`
}

func (rt *Router) extractFormFields(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req extractFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ExtractedText == nil {
		writeDetail(w, http.StatusBadRequest, "extracted_text is required")
		return
	}

	fields, err := rt.fields.ExtractFields(r.Context(), req.ExtractedText, req.Language)
	if err != nil {
		rt.writeAgentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"fields":  fields,
	})
}

func (rt *Router) validateForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req validateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}

	// An absent or empty fields list is valid input: the report comes back
	// with an empty verdict set.
	if req.Fields == nil {
		req.Fields = []domain.FieldValue{}
	}

	report, err := rt.fields.ValidateFields(r.Context(), req.Fields, req.ExpectedFields)
	if err != nil {
		rt.writeAgentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"report":  report,
	})
}

func (rt *Router) classifyForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req classifyFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}

	classification, err := rt.fields.ClassifyForm(r.Context(), req.ExtractedText)
	if err != nil {
		rt.writeAgentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"classification": classification,
	})
}

func (rt *Router) writeAgentError(w http.ResponseWriter, err error) {
	if domain.IsKind(err, domain.ErrAgentNotReady) {
		writeDetail(w, http.StatusServiceUnavailable,
			"Field agent not initialized. Please ensure the model provider is configured and reachable.")
		return
	}
	writeDetail(w, mapErrorToHTTPStatus(err), err.Error())
}
