package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalogo/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(exposeDetail bool, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(RequestID(), Recovery(exposeDetail), CORS(), ErrorHandler(exposeDetail))
	r.NoMethod(MetodoNoPermitido())
	r.NoRoute(RutaNoEncontrada())
	r.POST("/x", h)
	return r
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apierror.APIError {
	t.Helper()
	var body apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	called := false
	r := newEngine(false, func(c *gin.Context) { called = true })

	for _, path := range []string{"/x", "/no-existe"} {
		w := do(r, http.MethodOptions, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Empty(t, w.Body.String(), path)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	}
	assert.False(t, called)
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	r := newEngine(false, func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := do(r, http.MethodPost, "/x")
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestErrorHandler_RendersKindAndHidesCause(t *testing.T) {
	cause := errors.New(`pq: relation "categorias" violates something internal`)
	r := newEngine(false, func(c *gin.Context) {
		_ = c.Error(apierror.Ejecucion("No se pudo crear la categoría.", cause))
	})

	w := do(r, http.MethodPost, "/x")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "No se pudo crear la categoría.", body.Message)
	assert.NotContains(t, w.Body.String(), "categorias")
}

func TestErrorHandler_ExposesCauseInDiagnosticMode(t *testing.T) {
	r := newEngine(true, func(c *gin.Context) {
		_ = c.Error(apierror.Infraestructura(apierror.MensajeInterno, errors.New("dial tcp: refused")))
	})

	w := do(r, http.MethodPost, "/x")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "dial tcp: refused", decode(t, w).Detail)
}

func TestErrorHandler_UnknownErrorIsGeneric500(t *testing.T) {
	r := newEngine(false, func(c *gin.Context) { _ = c.Error(errors.New("boom")) })

	w := do(r, http.MethodPost, "/x")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apierror.MensajeInterno, decode(t, w).Message)
}

func TestMetodoNoPermitido(t *testing.T) {
	called := false
	r := newEngine(false, func(c *gin.Context) { called = true })

	w := do(r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.False(t, decode(t, w).Success)
	assert.False(t, called)
}

func TestRutaNoEncontrada(t *testing.T) {
	r := newEngine(false, func(c *gin.Context) {})
	w := do(r, http.MethodGet, "/nada")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestRecovery(t *testing.T) {
	r := newEngine(false, func(c *gin.Context) { panic("kaboom") })

	w := do(r, http.MethodPost, "/x")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestRecovery_DetailInDiagnosticMode(t *testing.T) {
	r := newEngine(true, func(c *gin.Context) { panic("kaboom") })

	w := do(r, http.MethodPost, "/x")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, apierror.MensajeInterno, body.Message)
	assert.Equal(t, "kaboom", body.Detail)
}

func TestRateLimiter_Memory(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(nil, 2, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x").Code)

	w := do(r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(nil, 0, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x").Code)
	}
}

type failingContador struct{}

func (failingContador) incrementar(context.Context, string) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("redis: connection refused")
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	r := gin.New()
	r.Use(rateLimit(failingContador{}, 1))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x").Code)
	}
}

func TestMemoriaContador_WindowResets(t *testing.T) {
	m := newMemoriaContador(20 * time.Millisecond)
	n, _, _ := m.incrementar(context.Background(), "1.1.1.1")
	assert.Equal(t, int64(1), n)
	n, _, _ = m.incrementar(context.Background(), "1.1.1.1")
	assert.Equal(t, int64(2), n)

	time.Sleep(30 * time.Millisecond)
	n, _, _ = m.incrementar(context.Background(), "1.1.1.1")
	assert.Equal(t, int64(1), n)
}
