package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mandi/models"
)

func echoReply(_ context.Context, message, _ string) (string, error) {
	return "echo: " + message, nil
}

func TestSessionSeedsWelcome(t *testing.T) {
	m := NewManager(echoReply, nil, NoSpeech{})

	s := m.Get("sess1", models.LangHindi)
	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 welcome message, got %d", len(msgs))
	}
	if msgs[0].Sender != models.SenderBot || msgs[0].Text != welcomeText[models.LangHindi] {
		t.Fatalf("unexpected welcome message: %+v", msgs[0])
	}

	// same id, same session
	if m.Get("sess1", models.LangEnglish) != s {
		t.Fatal("expected Get to reuse the session")
	}
}

func TestSendAppendsUserThenBot(t *testing.T) {
	m := NewManager(echoReply, nil, NoSpeech{})
	s := m.Get("sess1", models.LangEnglish)

	bot, ok := s.Send(context.Background(), "what is basmati?", models.LangEnglish)
	if !ok {
		t.Fatal("expected send to be accepted")
	}
	if bot.Text != "echo: what is basmati?" {
		t.Fatalf("unexpected bot reply: %q", bot.Text)
	}

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected welcome+user+bot, got %d messages", len(msgs))
	}
	if msgs[1].Sender != models.SenderUser || msgs[2].Sender != models.SenderBot {
		t.Fatalf("unexpected transcript order: %v, %v", msgs[1].Sender, msgs[2].Sender)
	}
}

func TestSendIgnoresEmptyInput(t *testing.T) {
	m := NewManager(echoReply, nil, NoSpeech{})
	s := m.Get("sess1", models.LangEnglish)

	if _, ok := s.Send(context.Background(), "   ", models.LangEnglish); ok {
		t.Fatal("expected blank send to be ignored")
	}
	if got := len(s.Messages()); got != 1 {
		t.Fatalf("transcript grew on blank send: %d messages", got)
	}
}

func TestSendSingleInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	slowReply := func(_ context.Context, message, _ string) (string, error) {
		close(started)
		<-release
		return "done", nil
	}

	m := NewManager(slowReply, nil, NoSpeech{})
	s := m.Get("sess1", models.LangEnglish)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Send(context.Background(), "first", models.LangEnglish)
	}()

	<-started
	if !s.Busy() {
		t.Fatal("expected session busy while reply pending")
	}
	if _, ok := s.Send(context.Background(), "second", models.LangEnglish); ok {
		t.Fatal("expected second send to be ignored while first is pending")
	}

	close(release)
	wg.Wait()

	if s.Busy() {
		t.Fatal("expected session idle after reply resolved")
	}
	// welcome + first user + first bot; second send left no trace
	if got := len(s.Messages()); got != 3 {
		t.Fatalf("expected 3 messages, got %d", got)
	}
}

func TestSendFailureKeepsUserMessage(t *testing.T) {
	failReply := func(_ context.Context, _, _ string) (string, error) {
		return "", errors.New("upstream down")
	}
	m := NewManager(failReply, nil, NoSpeech{})
	s := m.Get("sess1", models.LangHindi)

	bot, ok := s.Send(context.Background(), "भाव बताओ", models.LangHindi)
	if !ok {
		t.Fatal("expected send to be accepted")
	}
	if bot.Text != errorText[models.LangHindi] {
		t.Fatalf("expected canned apology, got %q", bot.Text)
	}

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected welcome+user+apology, got %d", len(msgs))
	}
	if msgs[1].Text != "भाव बताओ" {
		t.Fatalf("user message lost on failure: %q", msgs[1].Text)
	}
}

func TestResetReseedsWelcome(t *testing.T) {
	m := NewManager(echoReply, nil, NoSpeech{})
	s := m.Get("sess1", models.LangHindi)
	s.Send(context.Background(), "hello", models.LangHindi)

	s.Reset(models.LangEnglish)

	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected transcript reset to 1 message, got %d", len(msgs))
	}
	if msgs[0].Text != welcomeText[models.LangEnglish] {
		t.Fatalf("expected English welcome after reset, got %q", msgs[0].Text)
	}
}

func TestSpeechUnavailable(t *testing.T) {
	m := NewManager(echoReply, nil, NoSpeech{})
	s := m.Get("sess1", models.LangEnglish)

	if s.SpeechSupported() {
		t.Fatal("expected speech unsupported")
	}
	if _, err := s.ToggleListening(context.Background()); err != ErrSpeechUnavailable {
		t.Fatalf("expected ErrSpeechUnavailable, got %v", err)
	}
}

type fakeSpeech struct {
	transcript string
}

func (f *fakeSpeech) Recognize(context.Context) (string, error) {
	return f.transcript, nil
}

func (f *fakeSpeech) Stop() {}

func TestToggleListeningFillsPendingInput(t *testing.T) {
	speech := &fakeSpeech{transcript: "टमाटर का भाव"}
	m := NewManager(echoReply, nil, speech)
	s := m.Get("sess1", models.LangHindi)

	on, err := s.ToggleListening(context.Background())
	if err != nil || !on {
		t.Fatalf("expected listening to start, got on=%v err=%v", on, err)
	}

	deadline := time.After(2 * time.Second)
	for s.Listening() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for recognition to finish")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// peeking leaves the transcript in place
	if got := s.PendingInput(); got != "टमाटर का भाव" {
		t.Fatalf("expected transcript as pending input, got %q", got)
	}
	if got := s.PendingInput(); got != "टमाटर का भाव" {
		t.Fatalf("second peek consumed the input, got %q", got)
	}

	if got := s.TakePendingInput(); got != "टमाटर का भाव" {
		t.Fatalf("expected take to return the transcript, got %q", got)
	}
	if got := s.PendingInput(); got != "" {
		t.Fatalf("expected pending input drained after take, got %q", got)
	}
}
