package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhook-verify/internal/logging"
	"webhook-verify/internal/registry"
	"webhook-verify/internal/replay"
	"webhook-verify/internal/testutil"
	"webhook-verify/internal/webhook"
	"webhook-verify/internal/webhook/providers"
)

func testLogger(t *testing.T) logging.Logger {
	t.Helper()
	logger, err := logging.NewZapLogger(logging.LogConfig{Level: logging.ErrorLevel})
	require.NoError(t, err)
	return logger
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	err := reg.Register("github", registry.Entry{
		Provider:         providers.NewGitHub([]byte(testutil.GitHubSecret)),
		DeliveryIDHeader: providers.GitHubDeliveryHeader,
	})
	require.NoError(t, err)
	return reg
}

func newRouter(h *Handlers) *mux.Router {
	router := mux.NewRouter()
	h.Routes(router)
	return router
}

func githubRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhook/github", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", testutil.GitHubSignature)
	req.Header.Set("X-GitHub-Delivery", "72d3162e-cc78-11e3-81ab-4c9367dc0958")
	return req
}

func TestHandleWebhook(t *testing.T) {
	t.Run("valid delivery reaches the receiver", func(t *testing.T) {
		var got *Delivery
		h := New(testRegistry(t), testLogger(t), WithReceiver(func(_ *http.Request, d *Delivery) error {
			got = d
			return nil
		}))
		router := newRouter(h)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, githubRequest(testutil.GitHubBody))

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, got)
		assert.Equal(t, "github", got.Provider)
		assert.Equal(t, []byte(testutil.GitHubBody), got.Body)
		assert.Equal(t, "72d3162e-cc78-11e3-81ab-4c9367dc0958", got.DeliveryID)
		assert.WithinDuration(t, time.Now(), got.ReceivedAt, 5*time.Second)
	})

	t.Run("tampered body is unauthorized", func(t *testing.T) {
		received := false
		h := New(testRegistry(t), testLogger(t), WithReceiver(func(*http.Request, *Delivery) error {
			received = true
			return nil
		}))
		router := newRouter(h)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, githubRequest(`{"action":"closed"}`))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, received)
	})

	t.Run("missing signature header is a bad request", func(t *testing.T) {
		h := New(testRegistry(t), testLogger(t))
		router := newRouter(h)

		req := httptest.NewRequest(http.MethodPost, "/webhook/github", strings.NewReader(testutil.GitHubBody))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unregistered provider is a server error", func(t *testing.T) {
		h := New(testRegistry(t), testLogger(t))
		router := newRouter(h)

		req := httptest.NewRequest(http.MethodPost, "/webhook/stripe", strings.NewReader("{}"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		reg := registry.New()
		require.NoError(t, reg.Register("github", registry.Entry{
			Provider:    providers.NewGitHub([]byte(testutil.GitHubSecret)),
			MaxBodySize: 8,
		}))
		h := New(reg, testLogger(t))
		router := newRouter(h)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, githubRequest(testutil.GitHubBody))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})

	t.Run("receiver failure is a server error", func(t *testing.T) {
		h := New(testRegistry(t), testLogger(t), WithReceiver(func(*http.Request, *Delivery) error {
			return errors.New("queue unavailable")
		}))
		router := newRouter(h)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, githubRequest(testutil.GitHubBody))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("duplicate delivery is rejected via replay cache", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		t.Cleanup(mr.Close)

		cache, err := replay.New(&replay.Config{Address: mr.Addr()})
		require.NoError(t, err)
		t.Cleanup(func() { cache.Close() })

		h := New(testRegistry(t), testLogger(t), WithReplayCache(cache))
		router := newRouter(h)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, githubRequest(testutil.GitHubBody))
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, githubRequest(testutil.GitHubBody))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("get method is not routed", func(t *testing.T) {
		h := New(testRegistry(t), testLogger(t))
		router := newRouter(h)

		req := httptest.NewRequest(http.MethodGet, "/webhook/github", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	t.Run("healthy without replay cache", func(t *testing.T) {
		h := New(testRegistry(t), testLogger(t))
		router := newRouter(h)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "healthy")
	})

	t.Run("degraded when the replay cache is down", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)

		cache, err := replay.New(&replay.Config{Address: mr.Addr()})
		require.NoError(t, err)
		mr.Close()

		h := New(testRegistry(t), testLogger(t), WithReplayCache(cache))
		router := newRouter(h)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, rr.Body.String(), "degraded")
	})
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"signature", webhook.SignatureError("no match"), http.StatusUnauthorized},
		{"missing header", webhook.MissingHeaderError("X-Hub-Signature-256"), http.StatusBadRequest},
		{"invalid header", webhook.InvalidHeaderError("bad prefix"), http.StatusBadRequest},
		{"timestamp", webhook.TimestampError("stale"), http.StatusBadRequest},
		{"read", webhook.ReadError(errors.New("reset")), http.StatusBadRequest},
		{"deserialize", webhook.DeserializeError(errors.New("bad json")), http.StatusUnprocessableEntity},
		{"not attached", webhook.NotAttachedError("github"), http.StatusInternalServerError},
		{"max bytes", &http.MaxBytesError{Limit: 8}, http.StatusRequestEntityTooLarge},
		{"max bytes wrapped in read", webhook.ReadError(&http.MaxBytesError{Limit: 8}), http.StatusRequestEntityTooLarge},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, StatusForError(tc.err))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Action string `json:"action"`
	}

	t.Run("valid payload", func(t *testing.T) {
		var p payload
		require.NoError(t, DecodeJSON([]byte(testutil.GitHubBody), &p))
		assert.Equal(t, "opened", p.Action)
	})

	t.Run("invalid payload is a deserialize error", func(t *testing.T) {
		var p payload
		err := DecodeJSON([]byte("{not json"), &p)
		assert.True(t, webhook.IsKind(err, webhook.ErrKindDeserialize))
	})
}
