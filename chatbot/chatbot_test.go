package chatbot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubGen struct {
	reply string
	err   error
	// last prompt seen, for assertions
	prompt string
}

func (s *stubGen) Generate(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func TestReplyDegradedMode(t *testing.T) {
	svc := NewServiceWith(nil)

	got, err := svc.Reply(context.Background(), "hello", "en")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != notConfiguredReply("en") {
		t.Fatalf("expected degraded reply, got %q", got)
	}

	got, _ = svc.Reply(context.Background(), "नमस्ते", "hi")
	if got != notConfiguredReply("hi") {
		t.Fatalf("expected Hindi degraded reply, got %q", got)
	}
}

func TestReplyPassesThroughModelText(t *testing.T) {
	gen := &stubGen{reply: "  Use organic fertilizer  "}
	svc := NewServiceWith(gen)

	got, err := svc.Reply(context.Background(), "how to grow wheat", "en")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != "Use organic fertilizer" {
		t.Fatalf("expected trimmed model text, got %q", got)
	}
	if !strings.Contains(gen.prompt, "User message: how to grow wheat") {
		t.Fatalf("prompt missing user message: %q", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "Language: English") {
		t.Fatalf("prompt missing language hint: %q", gen.prompt)
	}
}

func TestReplyHindiPromptHint(t *testing.T) {
	gen := &stubGen{reply: "ok"}
	svc := NewServiceWith(gen)

	svc.Reply(context.Background(), "गेहूं का भाव", "hi")
	if !strings.Contains(gen.prompt, "भाषा: हिंदी") {
		t.Fatalf("prompt missing Hindi hint: %q", gen.prompt)
	}
}

func TestReplyEmptyModelText(t *testing.T) {
	svc := NewServiceWith(&stubGen{reply: ""})

	got, err := svc.Reply(context.Background(), "hello", "hi")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != emptyReply("hi") {
		t.Fatalf("expected canned empty reply, got %q", got)
	}
}

func TestReplyUpstreamError(t *testing.T) {
	svc := NewServiceWith(&stubGen{err: errors.New("quota exceeded")})

	if _, err := svc.Reply(context.Background(), "hello", "en"); err == nil {
		t.Fatal("expected upstream error to surface")
	}
}

func TestHandleRejectsEmptyMessage(t *testing.T) {
	svc := NewServiceWith(&stubGen{reply: "unused"})

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot", strings.NewReader(`{"message":"   ","language":"en"}`))
	w := httptest.NewRecorder()
	svc.Handle(w, req, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleReturnsReply(t *testing.T) {
	svc := NewServiceWith(&stubGen{reply: "Mandi prices update daily."})

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot", strings.NewReader(`{"message":"prices?","language":"en"}`))
	w := httptest.NewRecorder()
	svc.Handle(w, req, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Mandi prices update daily.") {
		t.Fatalf("reply missing from body: %s", w.Body.String())
	}
}

func TestHandleUpstreamFailure(t *testing.T) {
	svc := NewServiceWith(&stubGen{err: errors.New("upstream timeout")})

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot", strings.NewReader(`{"message":"hi","language":"en"}`))
	w := httptest.NewRecorder()
	svc.Handle(w, req, nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
