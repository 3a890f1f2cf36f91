package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"notebook-server/internal/logger"
	"notebook-server/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier map[string]string

func (f fakeVerifier) Verify(token string) (string, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return "", errors.New("invalid")
}

func decodeMsg(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Msg string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Msg
}

func TestAuthMiddleware(t *testing.T) {
	manager, err := jwt.NewManager("gate-secret", time.Hour)
	require.NoError(t, err)
	valid, err := manager.Issue("user-1")
	require.NoError(t, err)

	foreign, err := jwt.NewManager("other-secret", time.Hour)
	require.NoError(t, err)
	foreignToken, err := foreign.Issue("user-1")
	require.NoError(t, err)

	expired, err := jwt.GenerateToken("user-1", -time.Minute, "gate-secret")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
		wantUser   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantMsg: msgNoToken},
		{name: "wrong scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized, wantMsg: msgInvalidToken},
		{name: "scheme only", header: "Bearer", wantStatus: http.StatusUnauthorized, wantMsg: msgInvalidToken},
		{name: "garbage token", header: "Bearer not.a.token", wantStatus: http.StatusUnauthorized, wantMsg: msgInvalidToken},
		{name: "expired token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantMsg: msgInvalidToken},
		{name: "foreign secret", header: "Bearer " + foreignToken, wantStatus: http.StatusUnauthorized, wantMsg: msgInvalidToken},
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantUser: "user-1"},
		{name: "lowercase scheme", header: "bearer " + valid, wantStatus: http.StatusOK, wantUser: "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				seen = GetUserID(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(manager)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.False(t, called)
				assert.Equal(t, tt.wantMsg, decodeMsg(t, rec))
				return
			}
			assert.True(t, called)
			assert.Equal(t, tt.wantUser, seen)
		})
	}
}

func TestAuthMiddlewareRejectsEmptyIdentity(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer blank")
	rec := httptest.NewRecorder()

	AuthMiddleware(fakeVerifier{"blank": ""})(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated and trimmed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "  abc-123  ")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("truncated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 300))
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Len(t, seen, maxRequestIDLength)
	})
}

func TestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := &logger.Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	manager, err := jwt.NewManager("log-secret", time.Hour)
	require.NoError(t, err)
	token, err := manager.Issue("user-42")
	require.NoError(t, err)

	inner := AuthMiddleware(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h := RequestIDMiddleware()(LoggerMiddleware(log)(inner))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "/api/profile", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, "user-42", line["user"])
	assert.NotContains(t, buf.String(), token)
}

func TestLoggerMiddlewareAnonymous(t *testing.T) {
	var buf bytes.Buffer
	log := &logger.Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	h := LoggerMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "anonymous", line["user"])
	assert.Equal(t, float64(http.StatusOK), line["status"])
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(logger.Noop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, rec.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	h := CORSMiddleware("https://app.example.com, https://admin.example.com", "GET,POST", "Content-Type,Authorization")(next)

	t.Run("allowed origin", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
		req.Header.Set("Origin", "https://admin.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.True(t, called)
		assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET,POST", rec.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodOptions, "/api/notes", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
