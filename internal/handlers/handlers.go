// Package handlers adapts the verification engine to net/http. It is the
// only place where verification failures are mapped to HTTP statuses:
// cryptographic failures are 401, malformed or replayed requests are 4xx,
// and a missing provider registration is a 500-class configuration error.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"webhook-verify/internal/logging"
	"webhook-verify/internal/registry"
	"webhook-verify/internal/replay"
	"webhook-verify/internal/webhook"
)

// Delivery is one verified webhook handed to application code. Body
// ownership transfers to the receiver.
type Delivery struct {
	// Provider is the registry key the request was verified against
	Provider string
	// DeliveryID is the sender's unique delivery ID, when the provider
	// carries one
	DeliveryID string
	// Body is the raw validated payload
	Body []byte
	// Headers are the request headers, for receivers that need event
	// metadata (e.g. X-GitHub-Event)
	Headers http.Header
	// ReceivedAt is when verification completed
	ReceivedAt time.Time
}

// ReceiveFunc consumes a verified delivery. Returning an error produces a
// 500 response; the webhook sender owns retries.
type ReceiveFunc func(r *http.Request, d *Delivery) error

// Handlers serves the webhook receiver endpoints
type Handlers struct {
	registry *registry.Registry
	replay   *replay.Cache
	receive  ReceiveFunc
	logger   logging.Logger
}

// Option configures optional handler behavior
type Option func(*Handlers)

// WithReplayCache enables duplicate-delivery rejection for providers whose
// registry entry names a delivery-ID header.
func WithReplayCache(cache *replay.Cache) Option {
	return func(h *Handlers) { h.replay = cache }
}

// WithReceiver sets the application callback for verified deliveries. When
// unset, verified requests are acknowledged and dropped.
func WithReceiver(fn ReceiveFunc) Option {
	return func(h *Handlers) { h.receive = fn }
}

// New creates the handler set
func New(reg *registry.Registry, logger logging.Logger, opts ...Option) *Handlers {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	h := &Handlers{registry: reg, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts the receiver endpoints on the router
func (h *Handlers) Routes(r *mux.Router) {
	r.HandleFunc("/webhook/{provider}", h.HandleWebhook).Methods("POST", "PUT")
	r.HandleFunc("/health", h.HandleHealth).Methods("GET")
}

// HandleWebhook verifies an incoming webhook request against the provider
// configuration named in the URL and hands the validated bytes to the
// receiver callback.
func (h *Handlers) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["provider"]

	entry, err := h.registry.Lookup(key)
	if err != nil {
		h.respondError(w, key, err)
		return
	}

	req := &webhook.Request{
		Headers:       r.Header,
		ContentLength: r.ContentLength,
		Body:          http.MaxBytesReader(w, r.Body, entry.MaxBodySize),
		Bounds:        entry.Tolerance.BoundsAt(time.Now()),
	}

	body, err := entry.Provider.Verify(r.Context(), req)
	if err != nil {
		h.respondError(w, key, err)
		return
	}

	delivery := &Delivery{
		Provider:   key,
		Body:       body,
		Headers:    r.Header,
		ReceivedAt: time.Now(),
	}
	if entry.DeliveryIDHeader != "" {
		delivery.DeliveryID = r.Header.Get(entry.DeliveryIDHeader)
	}

	if h.replay != nil && delivery.DeliveryID != "" {
		seen, err := h.replay.Seen(r.Context(), key, delivery.DeliveryID)
		if err != nil {
			// Cache trouble must not drop authentic deliveries; the
			// timestamp window still bounds replays.
			h.logger.Warn("Replay cache unavailable",
				logging.Field{Key: "provider", Value: key},
				logging.Err(err),
			)
		} else if seen {
			h.respondError(w, key, webhook.TimestampError("duplicate delivery '%s'", delivery.DeliveryID))
			return
		}
	}

	if h.receive != nil {
		if err := h.receive(r, delivery); err != nil {
			h.logger.Error("Webhook receiver failed", err,
				logging.Field{Key: "provider", Value: key},
			)
			http.Error(w, "failed to process webhook", http.StatusInternalServerError)
			return
		}
	}

	h.logger.Debug("Webhook verified",
		logging.Field{Key: "provider", Value: key},
		logging.Field{Key: "bytes", Value: len(body)},
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleHealth reports process liveness and, when enabled, replay cache
// connectivity.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	status := map[string]string{"status": "healthy"}
	code := http.StatusOK
	if h.replay != nil {
		if err := h.replay.Health(); err != nil {
			status["status"] = "degraded"
			status["replay_cache"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

func (h *Handlers) respondError(w http.ResponseWriter, key string, err error) {
	status := StatusForError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Webhook rejected", err, logging.Field{Key: "provider", Value: key})
	} else {
		h.logger.Warn("Webhook rejected",
			logging.Field{Key: "provider", Value: key},
			logging.Field{Key: "status", Value: status},
			logging.Err(err),
		)
	}
	http.Error(w, http.StatusText(status), status)
}

// StatusForError maps a verification error to its HTTP response status
func StatusForError(err error) int {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}

	var werr *webhook.Error
	if !errors.As(err, &werr) {
		return http.StatusInternalServerError
	}
	switch werr.Kind {
	case webhook.ErrKindSignature:
		return http.StatusUnauthorized
	case webhook.ErrKindNotAttached:
		return http.StatusInternalServerError
	case webhook.ErrKindDeserialize:
		return http.StatusUnprocessableEntity
	default:
		// MissingHeader, InvalidHeader, Timestamp, Read
		return http.StatusBadRequest
	}
}

// DecodeJSON unmarshals a verified body into v, classifying failures as
// Deserialize errors so callers can distinguish bad payloads from bad
// signatures.
func DecodeJSON(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return webhook.DeserializeError(err)
	}
	return nil
}
