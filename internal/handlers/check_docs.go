package handlers

import (
	"errors"
	"net/http"

	"doccheck/internal/verify"
)

const (
	fieldStudentPassport = "student_passport"
	fieldTranslatedDoc   = "translated_doc"
	fieldFatherPassport  = "father_passport"
	fieldMotherPassport  = "mother_passport"
)

// CheckDocs: POST /check-docs
// multipart/form-data with student_passport and translated_doc, and
// optionally father_passport and mother_passport.
func (h *Handler) CheckDocs(w http.ResponseWriter, r *http.Request) {
	if err := h.parseUpload(w, r); err != nil {
		h.uploadError(w, err)
		return
	}
	if !hasFiles(r) {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "No files uploaded"})
		return
	}

	var docs verify.Documents
	for field, dst := range map[string]*[]byte{
		fieldStudentPassport: &docs.Student,
		fieldTranslatedDoc:   &docs.Translated,
		fieldFatherPassport:  &docs.Father,
		fieldMotherPassport:  &docs.Mother,
	} {
		up, err := formFile(r, field)
		if err != nil {
			h.internalError(w, err)
			return
		}
		if up != nil {
			*dst = up.Data
			h.logger.Debug("received upload", "field", field, "filename", up.Filename, "size", len(up.Data))
		}
	}

	if docs.Student == nil || docs.Translated == nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "Student passport and translated document are required"})
		return
	}

	report, err := h.checker.Check(r.Context(), docs)
	if errors.Is(err, verify.ErrMissingDocuments) {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "Student passport and translated document are required"})
		return
	}
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSONResp(w, http.StatusOK, report)
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("document check failed", "error", err)
	writeJSONResp(w, http.StatusInternalServerError, map[string]any{
		"error":     "Internal server error",
		"details":   err.Error(),
		"timestamp": h.timestamp(),
	})
}

func (h *Handler) uploadError(w http.ResponseWriter, err error) {
	if errors.Is(err, errTooLarge) {
		writeJSONResp(w, http.StatusRequestEntityTooLarge, map[string]any{"error": "File too large"})
		return
	}
	writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "Malformed upload", "details": err.Error()})
}
