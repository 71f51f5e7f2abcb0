package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mandi/models"
)

func testAPI() *API {
	return &API{
		Manager:  NewManager(echoReply, nil, NoSpeech{}),
		Language: func(*http.Request) models.Language { return models.LangEnglish },
	}
}

func TestGetMessagesDoesNotDrainVoiceInput(t *testing.T) {
	api := testAPI()
	sess := api.Manager.Get("sess1", models.LangEnglish)
	sess.mu.Lock()
	sess.pendingInput = "tomato prices"
	sess.mu.Unlock()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil)
		req.Header.Set("X-Session-Id", "sess1")
		w := httptest.NewRecorder()
		api.GetMessages(w, req, nil)

		var resp struct {
			PendingInput string `json:"pendingInput"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.PendingInput != "tomato prices" {
			t.Fatalf("poll %d: expected pending input intact, got %q", i, resp.PendingInput)
		}
	}
}

func TestTakeVoiceInputDrains(t *testing.T) {
	api := testAPI()
	sess := api.Manager.Get("sess1", models.LangEnglish)
	sess.mu.Lock()
	sess.pendingInput = "tomato prices"
	sess.mu.Unlock()

	req := httptest.NewRequest(http.MethodPost, "/api/chat/voice/text", nil)
	req.Header.Set("X-Session-Id", "sess1")
	w := httptest.NewRecorder()
	api.TakeVoiceInput(w, req, nil)

	var resp struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Text != "tomato prices" {
		t.Fatalf("expected transcript, got %q", resp.Text)
	}
	if got := sess.PendingInput(); got != "" {
		t.Fatalf("expected pending input drained, got %q", got)
	}
}

func TestChatEndpointsRequireSessionID(t *testing.T) {
	api := testAPI()

	req := httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil)
	w := httptest.NewRecorder()
	api.GetMessages(w, req, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session id, got %d", w.Code)
	}
}
