package controller_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"briefing/pkg/controller"

	"github.com/stretchr/testify/require"
)

func TestWithCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		method string
		want   int
	}{
		{method: http.MethodGet, want: http.StatusTeapot},
		{method: http.MethodHead, want: http.StatusTeapot},
		{method: http.MethodOptions, want: http.StatusNoContent},
		{method: http.MethodPost, want: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			controller.WithCORS(next).ServeHTTP(rec, httptest.NewRequest(tt.method, "/map.geojson", nil))

			require.Equal(t, tt.want, rec.Code)
			require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
