package request

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycflow/pkg/requestcontext"
)

func TestContext(t *testing.T) {
	var gotRequestID, gotOperator string
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(Context)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = requestcontext.RequestID(r.Context())
		gotOperator = requestcontext.Operator(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("request id and operator reach the context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "req-123")
		req.Header.Set(HeaderOperator, "  analyst@bank  ")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", gotRequestID)
		assert.Equal(t, "analyst@bank", gotOperator)
		assert.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))
	})

	t.Run("a request id is generated when none is sent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, gotRequestID)
		assert.Equal(t, gotRequestID, rec.Header().Get(HeaderRequestID))
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodPost, "/entities", nil)
	req = req.WithContext(requestcontext.WithRequestID(req.Context(), "req-9"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotZero(t, buf.Len())
	assert.Contains(t, buf.String(), `"request_id":"req-9"`)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/entities"`)
}
