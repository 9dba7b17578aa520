package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceLoggingRecordsStatus(t *testing.T) {
	var sawRecorder bool
	h := TraceLogging("test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawRecorder = w.(*statusRecorder)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.True(t, sawRecorder)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
