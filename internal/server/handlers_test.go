package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docparse/convertd/constants"
	"github.com/docparse/convertd/internal/common"
	"github.com/docparse/convertd/internal/emailcheck"
	"github.com/docparse/convertd/internal/extract"
	"github.com/docparse/convertd/internal/pipeline"
)

type fakeStrategy struct {
	name string
	out  extract.Output
	err  error
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Extract(context.Context, *extract.Document) (extract.Output, error) {
	return f.out, f.err
}

type stubResolver struct {
	records map[string][]*net.MX
}

func (s stubResolver) LookupMX(_ context.Context, domain string) ([]*net.MX, error) {
	return s.records[domain], nil
}

func testHandler(strategies ...extract.Strategy) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := common.LoadConfig()
	conv := pipeline.NewConverter(strategies, log)
	resolver := stubResolver{records: map[string][]*net.MX{
		"example.com":    {{Host: "mx1.example.com", Pref: 10}},
		"mailinator.com": {{Host: "mx.mailinator.com", Pref: 10}},
	}}
	emails := emailcheck.NewValidator([]string{"mailinator.com"}, resolver, time.Second, log)
	return New(cfg, conv, emails, log).Handler()
}

func textStrategy(lines ...string) *fakeStrategy {
	return &fakeStrategy{
		name: constants.StrategyTextLayer,
		out:  extract.Output{TextBlocks: []extract.RawTextBlock{{Page: 1, Lines: lines}}},
	}
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestHealth(t *testing.T) {
	h := testHandler(textStrategy("line"))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, serviceName, body["service"])
}

func TestIndexListsEndpoints(t *testing.T) {
	h := testHandler(textStrategy("line"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	endpoints, ok := body["endpoints"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, endpoints, "POST /convert-pdf")
	assert.Contains(t, endpoints, "POST /validate-email")
}

func TestValidateEmailMissing(t *testing.T) {
	h := testHandler(textStrategy("line"))

	rec := postJSON(t, h, "/validate-email", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Email is required", body["error"])
	assert.Equal(t, false, body["valid"])
}

func TestValidateEmailBlank(t *testing.T) {
	h := testHandler(textStrategy("line"))

	rec := postJSON(t, h, "/validate-email", `{"email": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email cannot be empty", decodeBody(t, rec)["error"])
}

func TestValidateEmailValidAddress(t *testing.T) {
	h := testHandler(textStrategy("line"))

	rec := postJSON(t, h, "/validate-email", `{"email": "user@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["valid"])
	checks, ok := body["checks"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, checks["format_valid"])
	assert.Equal(t, true, checks["domain_exists"])
	assert.Equal(t, false, checks["is_disposable"])
}

func TestValidateEmailDisposable(t *testing.T) {
	h := testHandler(textStrategy("line"))

	rec := postJSON(t, h, "/validate-email", `{"email": "temp@mailinator.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["valid"])
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	assert.Contains(t, errs, "Disposable email addresses are not allowed")
}

func TestValidateEmailSimple(t *testing.T) {
	h := testHandler(textStrategy("line"))

	rec := postJSON(t, h, "/validate-email-simple", `{"email": "invalid-email"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, "Invalid email format", body["message"])
}

func multipartUpload(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake content"))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postUpload(t *testing.T, h http.Handler, filename string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartUpload(t, filename, fields)
	req := httptest.NewRequest(http.MethodPost, "/convert-pdf", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestConvertPDFMissingFile(t *testing.T) {
	h := testHandler(textStrategy("line"))

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("method", "auto"))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/convert-pdf", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file is required", decodeBody(t, rec)["error"])
}

func TestConvertPDFRejectsNonPDF(t *testing.T) {
	h := testHandler(textStrategy("line"))

	rec := postUpload(t, h, "notes.txt", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "only PDF uploads are supported", decodeBody(t, rec)["error"])
}

func TestConvertPDFRejectsBadFormat(t *testing.T) {
	h := testHandler(textStrategy("line"))

	rec := postUpload(t, h, "report.pdf", map[string]string{"format": "yaml"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConvertPDFRejectsUnknownMethod(t *testing.T) {
	h := testHandler(textStrategy("line"))

	rec := postUpload(t, h, "report.pdf", map[string]string{"method": "ocr"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "ocr")
}

func TestConvertPDFJSON(t *testing.T) {
	h := testHandler(textStrategy("first", "second"))

	rec := postUpload(t, h, "report.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, constants.StrategyTextLayer, body["strategy_used"])
	assert.Equal(t, float64(2), body["row_count"])
	rows, ok := body["rows"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	first, ok := rows[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "first", first["content"])
	assert.Equal(t, "1", first["page"])
}

func TestConvertPDFCSVAttachment(t *testing.T) {
	h := testHandler(textStrategy("only line"))

	rec := postUpload(t, h, "report.pdf", map[string]string{"format": "csv"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="report.csv"`)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "content,page"))
	assert.Contains(t, rec.Body.String(), "only line")
}

func TestConvertPDFXLSXAttachment(t *testing.T) {
	h := testHandler(textStrategy("only line"))

	rec := postUpload(t, h, "report.pdf", map[string]string{"format": "xlsx"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="report.xlsx"`)
}

func TestConvertPDFAllStrategiesFailed(t *testing.T) {
	h := testHandler(&fakeStrategy{name: constants.StrategyTextLayer})

	rec := postUpload(t, h, "report.pdf", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errMsg, ok := decodeBody(t, rec)["error"].(string)
	require.True(t, ok)
	assert.Contains(t, errMsg, "all extraction strategies failed")
}
