package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// SignatureHeader is the request header carrying the webhook signature.
const SignatureHeader = "X-Line-Signature"

// VerifySignature checks the X-Line-Signature header against the raw
// request body. The signature is the base64-encoded HMAC-SHA256 of the body
// keyed with the channel secret.
func VerifySignature(channelSecret string, body []byte, signature string) bool {
	if channelSecret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseWebhookRequest decodes a webhook delivery body.
func ParseWebhookRequest(body []byte) (*WebhookRequest, error) {
	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("line: parse webhook body: %w", err)
	}
	return &req, nil
}

// ExtractTextMessages pulls the text message events out of a webhook
// delivery, trimming surrounding whitespace from the text. Non-message
// events and non-text messages are skipped.
func ExtractTextMessages(req *WebhookRequest) []ParsedTextMessage {
	var messages []ParsedTextMessage

	for _, ev := range req.Events {
		if ev.Type != "message" || ev.Message == nil || ev.Message.Type != "text" {
			continue
		}
		messages = append(messages, ParsedTextMessage{
			UserID:     ev.Source.UserID,
			Text:       strings.TrimSpace(ev.Message.Text),
			ReplyToken: ev.ReplyToken,
			MessageID:  ev.Message.ID,
		})
	}

	return messages
}
