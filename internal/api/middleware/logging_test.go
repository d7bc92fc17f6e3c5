package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

// TestRequestLoggerLevels проверяет выбор уровня лога по классу статуса.
func TestRequestLoggerLevels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"успех", http.StatusOK, "level=INFO"},
		{"редирект", http.StatusFound, "level=INFO"},
		{"клиентская ошибка", http.StatusNotFound, "level=WARN"},
		{"серверная ошибка", http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

			out := buf.String()
			if !strings.Contains(out, tt.level) {
				t.Errorf("лог %q не содержит %q", out, tt.level)
			}
			if !strings.Contains(out, "status="+strconv.Itoa(tt.status)) {
				t.Errorf("лог %q не содержит статус %d", out, tt.status)
			}
		})
	}
}
