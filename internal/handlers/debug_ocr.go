package handlers

import "net/http"

const fieldImage = "image"

// DebugOCR: POST /debug-ocr
// multipart/form-data with one file field "image". Returns the raw
// recognized text.
func (h *Handler) DebugOCR(w http.ResponseWriter, r *http.Request) {
	if err := h.parseUpload(w, r); err != nil {
		h.uploadError(w, err)
		return
	}
	up, err := formFile(r, fieldImage)
	if err != nil {
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	if up == nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "No image file uploaded"})
		return
	}

	h.logger.Info("debug ocr", "filename", up.Filename, "size", len(up.Data))

	text, err := h.recognizer.RecognizeRaw(r.Context(), up.Data)
	if err != nil {
		h.logger.Error("debug ocr failed", "error", err)
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"filename":       up.Filename,
		"size":           len(up.Data),
		"extracted_text": text,
		"timestamp":      h.timestamp(),
	})
}
