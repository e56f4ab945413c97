package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doccheck/internal/models"
	"doccheck/internal/receipt"
	"doccheck/internal/verify"
)

var now = time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)

type fakeChecker struct {
	got    verify.Documents
	report models.VerificationReport
	err    error
}

func (f *fakeChecker) Check(_ context.Context, docs verify.Documents) (models.VerificationReport, error) {
	f.got = docs
	return f.report, f.err
}

type fakeRecognizer struct {
	text string
	err  error
}

func (f fakeRecognizer) RecognizeRaw(context.Context, []byte) (string, error) {
	return f.text, f.err
}

type fakeReceipts struct{}

func (fakeReceipts) Verify(token string) (*receipt.Claims, error) {
	if token != "good" {
		return nil, receipt.ErrInvalidToken
	}
	return &receipt.Claims{
		PassportNumber: "FA1234567",
		Summary:        models.Summary{TotalChecks: 4, Passed: 4},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "r-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}, nil
}

func newTestHandler(c Checker, rec Recognizer) *Handler {
	return New(Config{
		Checker:    c,
		Recognizer: rec,
		Receipts:   fakeReceipts{},
		Now:        func() time.Time { return now },
	})
}

func multipartRequest(t *testing.T, path string, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, content := range files {
		fw, err := mw.CreateFormFile(field, field+".png")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCheckDocs(t *testing.T) {
	checker := &fakeChecker{report: models.VerificationReport{
		Timestamp: "2025-06-01T09:30:00.000Z",
		Summary:   models.Summary{TotalChecks: 4, Passed: 3, Warnings: 1},
	}}
	h := newTestHandler(checker, nil)

	rec := httptest.NewRecorder()
	h.CheckDocs(rec, multipartRequest(t, "/check-docs", map[string]string{
		"student_passport": "student",
		"translated_doc":   "translated",
		"mother_passport":  "mother",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "student", string(checker.got.Student))
	assert.Equal(t, "translated", string(checker.got.Translated))
	assert.Equal(t, "mother", string(checker.got.Mother))
	assert.Nil(t, checker.got.Father)

	body := decode(t, rec)
	assert.Equal(t, map[string]any{"total_checks": 4.0, "passed": 3.0, "failed": 0.0, "warnings": 1.0}, body["summary"])
}

func TestCheckDocs_NoFiles(t *testing.T) {
	h := newTestHandler(&fakeChecker{}, nil)

	for name, req := range map[string]*http.Request{
		"empty multipart": multipartRequest(t, "/check-docs", nil),
		"not multipart":   httptest.NewRequest(http.MethodPost, "/check-docs", nil),
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.CheckDocs(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, map[string]any{"error": "No files uploaded"}, decode(t, rec))
		})
	}
}

func TestCheckDocs_MissingRequired(t *testing.T) {
	h := newTestHandler(&fakeChecker{}, nil)

	rec := httptest.NewRecorder()
	h.CheckDocs(rec, multipartRequest(t, "/check-docs", map[string]string{"student_passport": "s"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": "Student passport and translated document are required"}, decode(t, rec))
}

func TestCheckDocs_InternalError(t *testing.T) {
	h := newTestHandler(&fakeChecker{err: errors.New("all OCR attempts failed")}, nil)

	rec := httptest.NewRecorder()
	h.CheckDocs(rec, multipartRequest(t, "/check-docs", map[string]string{
		"student_passport": "s",
		"translated_doc":   "t",
	}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{
		"error":     "Internal server error",
		"details":   "all OCR attempts failed",
		"timestamp": "2025-06-01T09:30:00.000Z",
	}, decode(t, rec))
}

func TestCheckDocs_TooLarge(t *testing.T) {
	h := New(Config{Checker: &fakeChecker{}, MaxUpload: 64})

	rec := httptest.NewRecorder()
	h.CheckDocs(rec, multipartRequest(t, "/check-docs", map[string]string{
		"student_passport": string(bytes.Repeat([]byte("x"), 1024)),
	}))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(nil, nil).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"status":    "healthy",
		"timestamp": "2025-06-01T09:30:00.000Z",
		"version":   "2.1.0",
	}, decode(t, rec))
}

func TestDebugOCR(t *testing.T) {
	h := newTestHandler(nil, fakeRecognizer{text: "P<UTO"})

	rec := httptest.NewRecorder()
	h.DebugOCR(rec, multipartRequest(t, "/debug-ocr", map[string]string{"image": "12345"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"filename":       "image.png",
		"size":           5.0,
		"extracted_text": "P<UTO",
		"timestamp":      "2025-06-01T09:30:00.000Z",
	}, decode(t, rec))
}

func TestDebugOCR_NoImage(t *testing.T) {
	h := newTestHandler(nil, fakeRecognizer{})

	rec := httptest.NewRecorder()
	h.DebugOCR(rec, multipartRequest(t, "/debug-ocr", map[string]string{"file": "x"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": "No image file uploaded"}, decode(t, rec))
}

func TestDebugOCR_ProviderError(t *testing.T) {
	h := newTestHandler(nil, fakeRecognizer{err: errors.New("vision unavailable")})

	rec := httptest.NewRecorder()
	h.DebugOCR(rec, multipartRequest(t, "/debug-ocr", map[string]string{"image": "x"}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": "vision unavailable"}, decode(t, rec))
}

func TestVerifyReceipt(t *testing.T) {
	h := newTestHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.VerifyReceipt(rec, httptest.NewRequest(http.MethodGet, "/receipts/verify?token=good", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "r-1", body["receipt_id"])
	assert.Equal(t, "FA1234567", body["passport_number"])

	rec = httptest.NewRecorder()
	h.VerifyReceipt(rec, httptest.NewRequest(http.MethodGet, "/receipts/verify?token=bad", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyReceipt_Disabled(t *testing.T) {
	h := New(Config{})

	rec := httptest.NewRecorder()
	h.VerifyReceipt(rec, httptest.NewRequest(http.MethodGet, "/receipts/verify?token=good", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReceiptQRCode(t *testing.T) {
	h := newTestHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.ReceiptQRCode(rec, httptest.NewRequest(http.MethodGet, "/receipts/qrcode?token=good", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = httptest.NewRecorder()
	h.ReceiptQRCode(rec, httptest.NewRequest(http.MethodGet, "/receipts/qrcode?token=bad", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
