package line

// WebhookRequest is the top-level payload LINE delivers to the webhook URL.
type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is a single webhook event. LINE delivers message, follow, unfollow
// and other event kinds on the same route.
type Event struct {
	Type       string   `json:"type"`
	Mode       string   `json:"mode"`
	Timestamp  int64    `json:"timestamp"`
	ReplyToken string   `json:"replyToken"`
	Source     Source   `json:"source"`
	Message    *Message `json:"message,omitempty"`
}

// Source identifies who sent the event.
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
}

// Message is the message content of a message event.
type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// ReplyRequest is the payload for the reply endpoint.
type ReplyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []TextMessage `json:"messages"`
}

// PushRequest is the payload for the push endpoint.
type PushRequest struct {
	To       string        `json:"to"`
	Messages []TextMessage `json:"messages"`
}

// TextMessage is a plain text outbound message.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// APIError is the error body returned by the LINE Messaging API.
type APIError struct {
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail is one entry of an API error's details list.
type ErrorDetail struct {
	Message  string `json:"message"`
	Property string `json:"property"`
}

// ParsedTextMessage is the normalized result of extracting a text message
// event from a webhook delivery.
type ParsedTextMessage struct {
	UserID     string
	Text       string
	ReplyToken string
	MessageID  string
}
