package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/sessions", "/api/sessions"},
		{"/api/sessions/0b5e7c1e-4f2a-4a1b-9a60-1b2f3c4d5e6f", "/api/sessions/{id}"},
		{"/api/sessions/0b5e7c1e-4f2a-4a1b-9a60-1b2f3c4d5e6f/trim", "/api/sessions/{id}/trim"},
		{"/health", "/health"},
		{"/", "/"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestShouldSkip(t *testing.T) {
	config := DefaultLoggingConfig()
	config.LogHealthChecks = false
	config.SkipPaths = []string{"/metrics"}

	tests := []struct {
		path string
		want bool
	}{
		{"/api/sessions", false},
		{"/metrics", true},
		{"/healthz", true},
		{"/app.css", true},
		{"/index.html", false},
	}
	for _, tt := range tests {
		if got := shouldSkip(tt.path, config); got != tt.want {
			t.Errorf("shouldSkip(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"normal", "normal"},
		{"with\nnewline", "with newline"},
		{"with\rreturn", "with return"},
		{"null\x00byte", "nullbyte"},
		{"ansi\x1b[31mred", "ansi[31mred"},
		{"tab\tok", "tab\tok"},
	}
	for _, tt := range tests {
		if got := sanitizeLogField(tt.in); got != tt.want {
			t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSessionIDFromPath(t *testing.T) {
	id := "0b8f6f9e-8f4e-4bd4-9c83-5a4f2a2a9d1e"
	tests := []struct {
		path string
		want string
	}{
		{"/api/sessions/" + id + "/trim", id},
		{"/api/sessions/" + id, id},
		{"/api/sessions/not-a-uuid/trim", ""},
		{"/health", ""},
		{"/api/sessions/", ""},
	}
	for _, tt := range tests {
		if got := sessionIDFromPath(tt.path); got != tt.want {
			t.Errorf("sessionIDFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*http.Request)
		want  string
	}{
		{"remote addr", func(r *http.Request) { r.RemoteAddr = "10.0.0.1:1234" }, "10.0.0.1"},
		{"x-forwarded-for", func(r *http.Request) { r.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8") }, "1.2.3.4"},
		{"x-real-ip", func(r *http.Request) { r.Header.Set("X-Real-IP", "9.9.9.9") }, "9.9.9.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(r)
			if got := getClientIP(r); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompressionCompressesJSON(t *testing.T) {
	payload := strings.Repeat(`{"key":"value"}`, 200)
	handler := Compression(DefaultCompressionConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}

	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != payload {
		t.Error("decompressed body does not match payload")
	}
}

func TestCompressionSkipsVideo(t *testing.T) {
	payload := strings.Repeat("v", 4096)
	handler := Compression(DefaultCompressionConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte(payload))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/x/preview", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got == "gzip" {
		t.Error("video payload was gzip-compressed")
	}
	if rec.Body.String() != payload {
		t.Error("body altered for incompressible type")
	}
}

func TestCompressionSkipsRangeRequests(t *testing.T) {
	handler := Compression(DefaultCompressionConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(strings.Repeat("x", 4096)))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/x/preview", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Range", "bytes=0-99")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got == "gzip" {
		t.Error("range request was gzip-compressed")
	}
}

func TestCompressionSkipsSmallResponses(t *testing.T) {
	handler := Compression(DefaultCompressionConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got == "gzip" {
		t.Error("small response was gzip-compressed")
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	handler := Logger(DefaultLoggingConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if rec.Body.String() != "short" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
