package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/config"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, nil, nil, &config.Config{
		Environment:    "development",
		JWTSecret:      "test",
		MaxReflections: 100,
	})
	return r
}

func TestRoutes(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/api/v1/health", "", http.StatusOK},
		{http.MethodPost, "/api/v1/simulate", `{"table":{"variant":"stadium","width":2,"height":1},"angle":90,"reflections":3,"phase_space":true}`, http.StatusOK},
		{http.MethodPost, "/api/v1/runs", `{}`, http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/sweeps", `{}`, http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/sweeps/x", "", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/nowhere", "", http.StatusNotFound},
	}
	for _, c := range cases {
		req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != c.want {
			t.Errorf("%s %s: status = %d, want %d (%s)", c.method, c.path, w.Code, c.want, w.Body.String())
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/simulate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
