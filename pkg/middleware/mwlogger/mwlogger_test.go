package mwlogger_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"tutor-service/pkg/middleware/mwlogger"
)

func TestLogger_LogsCompletedRequest(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := mwlogger.New(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/tutors/1", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-1"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)

	var last map[string]any
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		last = map[string]any{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &last))
	}

	require.Equal(t, "request completed", last["msg"])
	require.Equal(t, "GET", last["method"])
	require.Equal(t, "/tutors/1", last["path"])
	require.EqualValues(t, http.StatusTeapot, last["status"])
	require.Equal(t, "req-1", last["request_id"])
}
