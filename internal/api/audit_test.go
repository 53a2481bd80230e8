package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditLog_SkipsProbePaths(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	audit := zap.New(core)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := auditLog(audit, next)

	for _, path := range []string{"/health", "/ready", "/live", "/metrics", "/"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
	assert.Equal(t, 0, logs.Len())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vendors", nil))
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "request", logs.All()[0].Message)
}
