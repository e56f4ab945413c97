package handlers

import (
	"net/http"
	"net/url"

	"github.com/skip2/go-qrcode"
)

// VerifyReceipt: GET /receipts/verify?token=...
func (h *Handler) VerifyReceipt(w http.ResponseWriter, r *http.Request) {
	if h.receipts == nil {
		writeJSONResp(w, http.StatusNotFound, map[string]any{"error": "Receipts are not enabled"})
		return
	}
	claims, err := h.receipts.Verify(r.URL.Query().Get("token"))
	if err != nil {
		writeJSONResp(w, http.StatusUnauthorized, map[string]any{"error": "This receipt is invalid or has expired."})
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"valid":           true,
		"receipt_id":      claims.ID,
		"passport_number": claims.PassportNumber,
		"student_name":    claims.StudentName,
		"checked_at":      claims.CheckedAt,
		"summary":         claims.Summary,
		"valid_until":     claims.ExpiresAt.Time,
	})
}

// ReceiptQRCode: GET /receipts/qrcode?token=...
// Returns a PNG QR code linking to the receipt verification URL.
func (h *Handler) ReceiptQRCode(w http.ResponseWriter, r *http.Request) {
	if h.receipts == nil {
		writeJSONResp(w, http.StatusNotFound, map[string]any{"error": "Receipts are not enabled"})
		return
	}
	token := r.URL.Query().Get("token")
	if _, err := h.receipts.Verify(token); err != nil {
		writeJSONResp(w, http.StatusUnauthorized, map[string]any{"error": "This receipt is invalid or has expired."})
		return
	}

	data := h.publicURL + "/receipts/verify?token=" + url.QueryEscape(token)
	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	if err != nil {
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"error": "Failed to generate QR code"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
