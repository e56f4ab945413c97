package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doccheck/internal/handlers"
	"doccheck/internal/metrics"
	"doccheck/internal/models"
	"doccheck/internal/ocr"
	"doccheck/internal/ocr/ocrtest"
	"doccheck/internal/ratelimit"
	"doccheck/internal/receipt"
	"doccheck/internal/verify"
)

const (
	studentText = "REPUBLIC OF UZBEKISTAN\nPlace of Birth: TASHKENT\n" +
		"P<UZBABDUKODIROVA<<RAYYONAZOKIROVNA<<<<<<<<<\n" +
		"FA12345674UZB0705066F3001012<<<<<<<<<<<<<<02\n"
	translatedText = "CERTIFICATE OF BIRTH\n" +
		"Full name: Abdukodirova Rayyona Zokirovna\n" +
		"Date of birth: May 06, 2007 (two thousand and seven)\n" +
		"Place of birth: Tashkent\n" +
		"Nationality: Uzbek\n" +
		"Father: Abdukodirov Zokir Karimovich\n"
)

func newTestServer(t *testing.T, limit int) (http.Handler, *receipt.Signer) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	provider := &ocrtest.Provider{
		ProviderName: "ocrtest",
		ByImage: map[string]ocrtest.Response{
			"student":    {Text: studentText},
			"translated": {Text: translatedText},
		},
	}
	clock := func() time.Time { return time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC) }
	orch := ocr.New(provider, ocr.WithMetrics(m), ocr.WithClock(clock))

	signer, err := receipt.NewSigner("test-secret", time.Hour)
	require.NoError(t, err)

	svc := verify.New(orch, verify.WithReceipts(signer), verify.WithMetrics(m), verify.WithClock(clock))
	h := handlers.New(handlers.Config{
		Checker:    svc,
		Recognizer: orch,
		Receipts:   signer,
		Now:        clock,
	})
	return RegisterRouter(Deps{
		Handler:  h,
		Limiter:  ratelimit.NewMemory(limit, time.Minute),
		Metrics:  m,
		Gatherer: reg,
	}), signer
}

func upload(t *testing.T, path string, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, content := range files {
		fw, err := mw.CreateFormFile(field, field+".jpg")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCheckDocs_EndToEnd(t *testing.T) {
	srv, signer := newTestServer(t, 10)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, upload(t, "/check-docs", map[string]string{
		"student_passport": "student",
		"translated_doc":   "translated",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.VerificationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	pd := report.Student.PassportData
	assert.Equal(t, "FA1234567", pd.PassportNumber)
	assert.Equal(t, "RAYYONAZOKIROVNA ABDUKODIROVA", pd.FullName)
	assert.Equal(t, "2007-05-06", pd.DateOfBirth)
	assert.Equal(t, "TASHKENT", pd.PlaceOfBirth)
	assert.Equal(t, models.MethodMRZ, pd.ExtractionMethod)
	require.NotNil(t, pd.Validation)
	assert.True(t, pd.Validation.IsValid)

	c := report.Student.Comparisons
	assert.Equal(t, models.StatusCloseMatch, c["name"].Status)
	assert.Equal(t, models.StatusExactMatch, c["date_of_birth"].Status)
	assert.Equal(t, models.StatusExactMatch, c["place_of_birth"].Status)
	assert.Equal(t, models.StatusMismatch, c["nationality"].Status)
	assert.Nil(t, report.Father, "no father passport uploaded")
	assert.Equal(t, models.Summary{TotalChecks: 4, Passed: 3, Failed: 1}, report.Summary)

	claims, err := signer.Verify(report.Receipt)
	require.NoError(t, err)
	assert.Equal(t, report.Summary, claims.Summary)
}

func TestCheckDocs_UnreadablePassport(t *testing.T) {
	srv, _ := newTestServer(t, 10)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, upload(t, "/check-docs", map[string]string{
		"student_passport": "unknown image",
		"translated_doc":   "translated",
	}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestRouter_Health(t *testing.T) {
	srv, _ := newTestServer(t, 10)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Body.String(), `"version":"2.1.0"`)
}

func TestRouter_Preflight(t *testing.T) {
	srv, _ := newTestServer(t, 10)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/check-docs", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "POST, GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestRouter_DebugOCR(t *testing.T) {
	srv, _ := newTestServer(t, 10)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, upload(t, "/debug-ocr", map[string]string{"image": "translated"}))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, translatedText, body["extracted_text"])
	assert.Equal(t, "image.jpg", body["filename"])
}

func TestRouter_RateLimit(t *testing.T) {
	srv, _ := newTestServer(t, 1)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, upload(t, "/debug-ocr", map[string]string{"image": "translated"}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, upload(t, "/debug-ocr", map[string]string{"image": "translated"}))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "health is not rate limited")
}

func TestRouter_Metrics(t *testing.T) {
	srv, _ := newTestServer(t, 10)
	srv.ServeHTTP(httptest.NewRecorder(), upload(t, "/debug-ocr", map[string]string{"image": "translated"}))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "doccheck_ocr_attempts_total")
}

func TestRouter_Receipts(t *testing.T) {
	srv, signer := newTestServer(t, 10)
	token, err := signer.Issue(models.VerificationReport{Summary: models.Summary{TotalChecks: 1, Passed: 1}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/receipts/verify?token="+token, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/receipts/qrcode?token="+token, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}
