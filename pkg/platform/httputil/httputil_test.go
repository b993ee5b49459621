package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "kycflow/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "store exploded"))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "internal_error", body["error"])
		_, ok := body["error_description"]
		assert.False(t, ok, "internal errors must not carry a description")
	})

	t.Run("illegal transition is a conflict", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeIllegalTransition, "cannot approve from Offboarded"))

		require.Equal(t, http.StatusConflict, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "illegal_transition", body["error"])
		assert.Equal(t, "cannot approve from Offboarded", body["error_description"])
	})

	t.Run("uncoded errors are internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("raw"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("validation maps to 422", func(t *testing.T) {
		assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(dErrors.CodeValidation))
	})
}

type pingRequest struct {
	Name string `json:"name"`
}

func (p *pingRequest) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("decodes and normalises", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"  Acme  "}`))

		req, ok := DecodeAndPrepare[pingRequest](w, r, nil, r.Context(), "req-1")
		require.True(t, ok)
		assert.Equal(t, "Acme", req.Name)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

		_, ok := DecodeAndPrepare[pingRequest](w, r, nil, r.Context(), "req-2")
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))

		_, ok := DecodeAndPrepare[pingRequest](w, r, nil, r.Context(), "req-3")
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("surfaces validation errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"   "}`))

		_, ok := DecodeAndPrepare[pingRequest](w, r, nil, r.Context(), "req-4")
		require.False(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
