// Package webhook receives update deliveries over HTTP and hands them to the
// dispatcher.
package webhook

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/bjaus/webhookbot"
)

const (
	// SecretHeader carries the secret token configured with setWebhook.
	SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

	// DefaultMaxBody bounds the size of an accepted delivery.
	DefaultMaxBody = 1 << 20
)

// Processor turns a raw delivery into the reply to send.
type Processor interface {
	Process(ctx context.Context, raw []byte) (webhookbot.Reply, error)
}

// Deliverer sends a reply back to the messaging platform.
type Deliverer interface {
	SendMessage(ctx context.Context, reply webhookbot.Reply) error
}

// Handler is the http.Handler for webhook deliveries. Each request is
// processed on its own goroutine by net/http; Handler keeps no per-request
// state.
//
// Responses:
//   - 405 for methods other than POST
//   - 401 when a secret is configured and the header does not match
//   - 413 for bodies over the size limit, 400 for bodies that are not JSON
//   - 200 once the reply is delivered, or when the update has nothing to
//     answer or cannot be classified without a chat to answer in (the
//     platform redelivers anything else)
//   - 500 when processing or delivery fails
type Handler struct {
	processor Processor
	deliverer Deliverer
	logger    *slog.Logger
	secret    string
	maxBody   int64
}

// NewHandler creates a Handler.
func NewHandler(p Processor, d Deliverer, logger *slog.Logger) *Handler {
	return &Handler{
		processor: p,
		deliverer: d,
		logger:    logger,
		maxBody:   DefaultMaxBody,
	}
}

// WithSecret requires every delivery to carry secret in SecretHeader.
func (h *Handler) WithSecret(secret string) *Handler {
	h.secret = secret
	return h
}

// WithMaxBody overrides DefaultMaxBody.
func (h *Handler) WithMaxBody(n int64) *Handler {
	h.maxBody = n
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.secret != "" {
		got := r.Header.Get(SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			h.logger.Warn("webhook_rejected", "reason", "secret mismatch", "remote", r.RemoteAddr)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBody+1))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}
	if int64(len(body)) > h.maxBody {
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
		return
	}
	if !gjson.ValidBytes(body) {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	logger := h.logger.With("request_id", uuid.New().String())
	ctx := r.Context()

	reply, err := h.processor.Process(ctx, body)
	if err != nil {
		h.writeProcessError(w, logger, err)
		return
	}

	if err := h.deliverer.SendMessage(ctx, reply); err != nil {
		logger.Error("delivery_failed", "chat_id", reply.ChatID, "error", err)
		http.Error(w, "delivery failed", http.StatusInternalServerError)
		return
	}

	logger.Debug("reply_delivered", "chat_id", reply.ChatID)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) writeProcessError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var perr *webhookbot.ParseError
	switch {
	case errors.Is(err, webhookbot.ErrEmptyUpdate):
		logger.Debug("update_ignored", "reason", err)
		w.WriteHeader(http.StatusOK)
	case errors.As(err, &perr):
		logger.Warn("update_rejected", "error", err)
		w.WriteHeader(http.StatusOK)
	default:
		logger.Error("update_failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
