package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy unavailable")
}

func newTestHandler() *GeneratorHandler {
	return NewGeneratorHandler(service.NewGeneratorService())
}

func TestHandleGenerate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "empty body uses defaults", body: "", wantStatus: http.StatusOK},
		{name: "custom policy", body: `{"length":24,"symbols":true,"chunked":false}`, wantStatus: http.StatusOK},
		{name: "invalid json", body: `{"length":`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "length too short", body: `{"length":4}`, wantStatus: http.StatusBadRequest, wantError: service.ErrLengthTooShort.Error()},
		{
			name:       "no character sets",
			body:       `{"lowercase":false,"uppercase":false,"numbers":false,"symbols":false}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "select at least one character set",
		},
		{name: "count out of range", body: `{"count":100}`, wantStatus: http.StatusBadRequest, wantError: service.ErrCountOutOfRange.Error()},
	}

	h := newTestHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.HandleGenerate(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

			if tt.wantError != "" {
				var body map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tt.wantError, body["error"])
				return
			}

			var resp model.GenerateResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			require.Len(t, resp.Passwords, 1)
			pw := resp.Passwords[0]
			assert.Equal(t, crypto.Unchunk(pw.Password), pw.Raw)
			assert.NotEmpty(t, pw.Strength.Label)
			assert.GreaterOrEqual(t, pw.Strength.Meter, 6)
		})
	}
}

func TestHandleGenerateBodyTooLarge(t *testing.T) {
	body := `{"length":16,"pad":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newTestHandler().HandleGenerate(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleGenerateReaderFailure(t *testing.T) {
	h := NewGeneratorHandler(service.NewGeneratorServiceWith(crypto.NewGenerator(failingReader{})))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", nil)
	rec := httptest.NewRecorder()

	h.HandleGenerate(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestHandleAssess(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess",
		strings.NewReader(`{"password":"aB3$-cD4%-eF5^-gH6&","lowercase":true,"uppercase":true,"numbers":true,"symbols":true,"chunked":true}`))
	rec := httptest.NewRecorder()
	h.HandleAssess(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.AssessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.InDelta(t, 8.1, resp.Strength.Score, 1e-9)
	assert.Equal(t, "Strong", resp.Strength.Label)
	assert.Equal(t, "success", resp.Strength.Severity)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/assess", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	h.HandleAssess(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp = model.AssessResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Empty", resp.Strength.Label)
	assert.Zero(t, resp.Strength.Score)
}

func TestHandleAssessTooLong(t *testing.T) {
	body := `{"password":"` + strings.Repeat("a", service.MaxAssessedLength+1) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newTestHandler().HandleAssess(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
