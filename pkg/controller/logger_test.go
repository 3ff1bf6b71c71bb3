package controller_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"briefing/pkg/controller"
	"briefing/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		remoteAddr string
		want       string
	}{
		{name: "Forwarded Chain", xff: "1.2.3.4, 5.6.7.8", remoteAddr: "10.0.0.1:1", want: "1.2.3.4"},
		{name: "Remote Addr", remoteAddr: "10.0.0.1:12345", want: "10.0.0.1"},
		{name: "Invalid Remote Addr", remoteAddr: "not-an-addr", want: "not-an-addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			require.Equal(t, tt.want, controller.GetClientIP(req))
		})
	}
}

func TestWithLogger_RequestID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = controller.RequestID(r.Context())
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(controller.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	controller.WithLogger(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "abc-123", seen)
	require.Equal(t, "abc-123", rec.Header().Get(controller.RequestIDHeader))

	rec = httptest.NewRecorder()
	controller.WithLogger(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	require.Equal(t, seen, rec.Header().Get(controller.RequestIDHeader))
}

func TestWithLogger_AccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := logger.WithLogger(context.Background(), zap.New(core))

	handler := controller.WithLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			http.Error(w, "boom", http.StatusInternalServerError)

			return
		}
		_, _ = w.Write([]byte("hello"))
	}))

	for _, path := range []string{"/", "/fail"} {
		req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(base)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.FilterMessage("Access log").All()
	require.Len(t, entries, 2)

	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status_code"])
	require.Equal(t, int64(5), entries[0].ContextMap()["bytes"])
	require.NotEmpty(t, entries[0].ContextMap()[string(controller.RequestIDKey)])

	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	require.Equal(t, int64(http.StatusInternalServerError), entries[1].ContextMap()["status_code"])
}

func TestRequestID_Empty(t *testing.T) {
	require.Empty(t, controller.RequestID(context.Background()))
}
