package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/llatino/my-laundry-bot/internal/channels/line"
	"github.com/llatino/my-laundry-bot/internal/conversation"
	observemetrics "github.com/llatino/my-laundry-bot/internal/observability/metrics"
	"github.com/llatino/my-laundry-bot/pkg/logging"
)

type replyClient interface {
	ReplyText(ctx context.Context, replyToken, text string) error
}

// LineWebhookHandler processes inbound LINE webhook deliveries: verify the
// signature, run each text message through the responder and dispatch the
// composed reply.
type LineWebhookHandler struct {
	channelSecret string
	responder     *conversation.Responder
	client        replyClient
	logger        *logging.Logger
	metrics       *observemetrics.WebhookMetrics
}

type LineWebhookConfig struct {
	ChannelSecret string
	Responder     *conversation.Responder
	Client        replyClient
	Logger        *logging.Logger
	Metrics       *observemetrics.WebhookMetrics
}

func NewLineWebhookHandler(cfg LineWebhookConfig) *LineWebhookHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &LineWebhookHandler{
		channelSecret: cfg.ChannelSecret,
		responder:     cfg.Responder,
		client:        cfg.Client,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
	}
}

// HandleCallback is the POST /callback endpoint. A verified delivery is
// always acknowledged with 200 "OK", even when lookup or dispatch failed;
// anything else would make LINE redeliver an event we already replied to.
func (h *LineWebhookHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get(line.SignatureHeader)
	if !line.VerifySignature(h.channelSecret, body, signature) {
		h.logger.Warn("invalid webhook signature", "remote_ip", r.RemoteAddr)
		h.metrics.ObserveInbound("rejected")
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	req, err := line.ParseWebhookRequest(body)
	if err != nil {
		h.logger.Warn("unparsable webhook payload", "error", err)
		h.metrics.ObserveInbound("rejected")
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	for _, msg := range line.ExtractTextMessages(req) {
		h.processMessage(r.Context(), msg)
	}

	h.metrics.ObserveInbound("ok")
	h.metrics.ObserveLatency(time.Since(start).Seconds())

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *LineWebhookHandler) processMessage(ctx context.Context, msg line.ParsedTextMessage) {
	outcome := h.responder.Respond(ctx, msg.UserID, msg.Text)
	if detail := outcome.Detail(); detail != "" {
		h.metrics.ObserveLookupFailure()
	}
	reply := conversation.Compose(outcome)

	// At-most-once dispatch: the reply token is single-use, so a retry
	// after an ambiguous failure could only produce a token-reuse error.
	if err := h.client.ReplyText(ctx, msg.ReplyToken, reply); err != nil {
		h.logger.Error("reply dispatch failed",
			"identity_key", msg.UserID,
			"message_id", msg.MessageID,
			"error", err,
		)
		h.metrics.ObserveDispatch("error")
		return
	}

	h.metrics.ObserveDispatch("ok")
	h.logger.Info("reply dispatched",
		"identity_key", msg.UserID,
		"message_id", msg.MessageID,
	)
}
