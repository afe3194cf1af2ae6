package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/groupsite-api/internal/requestid"
	"github.com/ErlanBelekov/groupsite-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func requestIDEngine() *gin.Engine {
	r := gin.New()
	r.GET("/", middleware.RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, "%s", requestid.FromContext(c.Request.Context()))
	})
	return r
}

func TestRequestID_KeepsValidIncomingID(t *testing.T) {
	const id = "2b1f7c7e-3f5e-4b36-9d2b-6a1c2b8b9f10"
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", id)
	requestIDEngine().ServeHTTP(w, req)

	if w.Body.String() != id || w.Header().Get("X-Request-ID") != id {
		t.Errorf("body=%q header=%q, want %q", w.Body.String(), w.Header().Get("X-Request-ID"), id)
	}
}

func TestRequestID_ReplacesGarbage(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "evil\nlog line")
	requestIDEngine().ServeHTTP(w, req)

	got := w.Header().Get("X-Request-ID")
	if !requestid.Valid(got) {
		t.Errorf("header %q is not a generated id", got)
	}
	if w.Body.String() != got {
		t.Errorf("context id %q != header id %q", w.Body.String(), got)
	}
}
