package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"mandi/models"

	"github.com/google/uuid"
)

// ReplyFunc asks the assistant for a bot reply to one user message.
type ReplyFunc func(ctx context.Context, message, language string) (string, error)

var welcomeText = map[models.Language]string{
	models.LangHindi:   "नमस्ते! मैं Digital Mandi का AI सहायक हूँ। मैं आपकी कृषि, मूल्य निर्धारण, और बाज़ार संबंधी सभी सवालों में मदद कर सकता हूँ।",
	models.LangEnglish: "Hello! I'm Digital Mandi's AI assistant. I can help you with farming advice, pricing suggestions, market trends, and any questions about agriculture.",
}

var errorText = map[models.Language]string{
	models.LangHindi:   "क्षमा करें, कुछ गलत हुआ है। कृपया दोबारा कोशिश करें।",
	models.LangEnglish: "Sorry, something went wrong. Please try again.",
}

// Session owns one open chat transcript. Messages live only for the life of
// the session; Reset starts over with a fresh welcome message.
type Session struct {
	ID string

	mu           sync.Mutex
	language     models.Language
	messages     []models.ChatMessage
	inFlight     bool
	listening    bool
	pendingInput string

	speech SpeechInput
	reply  ReplyFunc
	hub    *Hub
}

func newSession(id string, lang models.Language, reply ReplyFunc, hub *Hub, speech SpeechInput) *Session {
	s := &Session{
		ID:       id,
		language: lang,
		reply:    reply,
		hub:      hub,
		speech:   speech,
	}
	s.seedWelcome()
	return s
}

func (s *Session) seedWelcome() {
	s.messages = []models.ChatMessage{{
		ID:        "welcome",
		Text:      welcomeText[s.language],
		Sender:    models.SenderBot,
		Timestamp: time.Now(),
		Language:  s.language,
	}}
}

func (s *Session) appendLocked(msg models.ChatMessage) {
	s.messages = append(s.messages, msg)
	if s.hub != nil {
		s.hub.Broadcast(s.ID, encodeTranscriptEvent(msg))
	}
}

// Messages returns the transcript oldest first.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Send runs the two-phase exchange: the user message is appended
// immediately and irrevocably, then the assistant reply (or the canned
// apology when the call fails) is appended once it resolves. Empty input
// and sends while a reply is pending are ignored. Only one send may be in
// flight per session.
func (s *Session) Send(ctx context.Context, text string, lang models.Language) (models.ChatMessage, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, false
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return models.ChatMessage{}, false
	}
	s.inFlight = true
	s.language = lang
	userMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    models.SenderUser,
		Timestamp: time.Now(),
		Language:  lang,
	}
	s.appendLocked(userMsg)
	s.mu.Unlock()

	replyText, err := s.reply(ctx, text, string(lang))
	if err != nil {
		replyText = errorText[lang]
	}

	botMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		Text:      replyText,
		Sender:    models.SenderBot,
		Timestamp: time.Now(),
		Language:  lang,
	}

	s.mu.Lock()
	s.appendLocked(botMsg)
	s.inFlight = false
	s.mu.Unlock()

	return botMsg, true
}

// Reset clears the transcript and reseeds the welcome message, as a freshly
// reopened widget does.
func (s *Session) Reset(lang models.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = lang
	s.seedWelcome()
}

// SpeechSupported reports whether voice controls should be offered.
func (s *Session) SpeechSupported() bool {
	if s.speech == nil {
		return false
	}
	_, absent := s.speech.(NoSpeech)
	return !absent
}

// ToggleListening enters or exits voice capture. On a recognized utterance
// the pending input text is replaced with the transcript; on error or
// natural end the input is left alone. Listening always ends back at false.
func (s *Session) ToggleListening(ctx context.Context) (bool, error) {
	if !s.SpeechSupported() {
		return false, ErrSpeechUnavailable
	}

	s.mu.Lock()
	if s.listening {
		s.mu.Unlock()
		s.speech.Stop()
		s.mu.Lock()
		s.listening = false
		s.mu.Unlock()
		return false, nil
	}
	s.listening = true
	s.mu.Unlock()

	go func() {
		transcript, err := s.speech.Recognize(ctx)
		s.mu.Lock()
		if err == nil && transcript != "" {
			s.pendingInput = transcript
		}
		s.listening = false
		s.mu.Unlock()
	}()
	return true, nil
}

func (s *Session) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

// PendingInput reports the voice transcript waiting to fill the input
// field, without consuming it.
func (s *Session) PendingInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingInput
}

// TakePendingInput drains the waiting voice transcript. The client calls
// this once it has copied the text into the input field.
func (s *Session) TakePendingInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.pendingInput
	s.pendingInput = ""
	return text
}

// Manager hands out one session per session id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	reply    ReplyFunc
	hub      *Hub
	speech   SpeechInput
}

func NewManager(reply ReplyFunc, hub *Hub, speech SpeechInput) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		reply:    reply,
		hub:      hub,
		speech:   speech,
	}
}

// Get returns the session for id, creating it (with a welcome message in
// lang) the first time.
func (m *Manager) Get(id string, lang models.Language) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := newSession(id, lang, m.reply, m.hub, m.speech)
	m.sessions[id] = s
	return s
}
