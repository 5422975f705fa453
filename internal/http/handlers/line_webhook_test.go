package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/llatino/my-laundry-bot/internal/channels/line"
	"github.com/llatino/my-laundry-bot/internal/conversation"
	"github.com/llatino/my-laundry-bot/internal/customers"
)

const testSecret = "channel-secret"

type fakeStore struct {
	records map[string]*customers.Record
	err     error
	calls   int
}

func (f *fakeStore) Lookup(ctx context.Context, key string) (*customers.Record, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if rec, ok := f.records[key]; ok {
		return rec, nil
	}
	return nil, customers.ErrNotFound
}

type fakeReplyClient struct {
	err     error
	replies []struct{ token, text string }
}

func (f *fakeReplyClient) ReplyText(ctx context.Context, replyToken, text string) error {
	f.replies = append(f.replies, struct{ token, text string }{replyToken, text})
	return f.err
}

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func webhookBody(userID, text, replyToken string) string {
	return fmt.Sprintf(`{"destination":"Ubot","events":[{"type":"message","replyToken":"%s","source":{"type":"user","userId":"%s"},"message":{"id":"m1","type":"text","text":"%s"}}]}`,
		replyToken, userID, text)
}

func newTestHandler(store *fakeStore, client *fakeReplyClient) *LineWebhookHandler {
	return NewLineWebhookHandler(LineWebhookConfig{
		ChannelSecret: testSecret,
		Responder:     conversation.NewResponder(store, nil),
		Client:        client,
	})
}

func post(h *LineWebhookHandler, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	if signature != "" {
		req.Header.Set(line.SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	h.HandleCallback(w, req)
	return w
}

func TestHandleCallbackKnownCustomerStatus(t *testing.T) {
	store := &fakeStore{records: map[string]*customers.Record{
		"U123": customers.RecordFromRow([]string{"U123", "Tom", "สมชาย", "รอดำเนินการ", "250"}),
	}}
	client := &fakeReplyClient{}
	h := newTestHandler(store, client)

	body := webhookBody("U123", "สถานะ", "rtoken-1")
	w := post(h, body, sign(body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Fatalf("expected body OK, got %q", w.Body.String())
	}
	if len(client.replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(client.replies))
	}
	reply := client.replies[0]
	if reply.token != "rtoken-1" {
		t.Errorf("expected reply token rtoken-1, got %s", reply.token)
	}
	if !strings.Contains(reply.text, "สมชาย") || !strings.Contains(reply.text, "รอดำเนินการ") {
		t.Errorf("unexpected reply text: %q", reply.text)
	}
}

func TestHandleCallbackUnknownCustomer(t *testing.T) {
	store := &fakeStore{}
	client := &fakeReplyClient{}
	h := newTestHandler(store, client)

	body := webhookBody("U999", "สวัสดี", "rtoken-2")
	w := post(h, body, sign(body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(client.replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(client.replies))
	}
	if !strings.Contains(client.replies[0].text, "U999") {
		t.Errorf("registration prompt must echo identity key: %q", client.replies[0].text)
	}
}

func TestHandleCallbackStoreFailureStillAcks(t *testing.T) {
	store := &fakeStore{err: &customers.ConnectionError{Op: "read sheet values", Err: errors.New("invalid credentials")}}
	client := &fakeReplyClient{}
	h := newTestHandler(store, client)

	body := webhookBody("U123", "สถานะ", "rtoken-3")
	w := post(h, body, sign(body))

	if w.Code != http.StatusOK {
		t.Fatalf("internal failure must still ack 200, got %d", w.Code)
	}
	if len(client.replies) != 1 {
		t.Fatalf("expected apology reply, got %d replies", len(client.replies))
	}
	if strings.Contains(client.replies[0].text, "invalid credentials") {
		t.Errorf("internal detail leaked to customer: %q", client.replies[0].text)
	}
}

func TestHandleCallbackBadSignature(t *testing.T) {
	store := &fakeStore{}
	client := &fakeReplyClient{}
	h := newTestHandler(store, client)

	body := webhookBody("U123", "สถานะ", "rtoken-4")

	t.Run("wrong signature", func(t *testing.T) {
		w := post(h, body, "AAAA")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("missing signature", func(t *testing.T) {
		w := post(h, body, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	if store.calls != 0 {
		t.Fatalf("rejected request must not reach the store, got %d lookups", store.calls)
	}
	if len(client.replies) != 0 {
		t.Fatalf("rejected request must not dispatch, got %d replies", len(client.replies))
	}
}

func TestHandleCallbackDispatchFailureStillAcks(t *testing.T) {
	store := &fakeStore{records: map[string]*customers.Record{
		"U123": customers.RecordFromRow([]string{"U123", "Tom", "สมชาย", "รอดำเนินการ", "250"}),
	}}
	client := &fakeReplyClient{err: errors.New("reply token already used")}
	h := newTestHandler(store, client)

	body := webhookBody("U123", "บิล", "rtoken-5")
	w := post(h, body, sign(body))

	if w.Code != http.StatusOK {
		t.Fatalf("dispatch failure must still ack 200, got %d", w.Code)
	}
}

func TestHandleCallbackReplayIsIdempotent(t *testing.T) {
	store := &fakeStore{records: map[string]*customers.Record{
		"U123": customers.RecordFromRow([]string{"U123", "Tom", "สมชาย", "รอดำเนินการ", "250"}),
	}}
	client := &fakeReplyClient{}
	h := newTestHandler(store, client)

	body := webhookBody("U123", "บิลของฉัน", "rtoken-6")
	sig := sign(body)
	post(h, body, sig)
	post(h, body, sig)

	if len(client.replies) != 2 {
		t.Fatalf("expected 2 independent replies, got %d", len(client.replies))
	}
	if client.replies[0].text != client.replies[1].text {
		t.Fatalf("replayed event must compose identically: %q vs %q", client.replies[0].text, client.replies[1].text)
	}
}

func TestHandleCallbackSkipsNonTextEvents(t *testing.T) {
	store := &fakeStore{}
	client := &fakeReplyClient{}
	h := newTestHandler(store, client)

	body := `{"destination":"Ubot","events":[{"type":"follow","replyToken":"rt","source":{"type":"user","userId":"U1"}}]}`
	w := post(h, body, sign(body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if store.calls != 0 || len(client.replies) != 0 {
		t.Fatal("non-text events must be skipped")
	}
}
