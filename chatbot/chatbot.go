// Package chatbot bridges the chat UI to the hosted Gemini model, keeping
// the credential server-side. Without a credential it answers with a fixed
// local reply instead of calling the network, so the widget always gets
// something displayable.
package chatbot

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"mandi/models"
	"mandi/utils"

	"github.com/julienschmidt/httprouter"
)

// Generator produces the model's reply text for a prompt. An empty string
// with a nil error means the model returned no usable text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	gen Generator
}

// NewService builds the proxy. When no API key is configured the service
// runs in degraded mode and never touches the network.
func NewService(ctx context.Context) *Service {
	key := APIKey()
	if key == "" {
		log.Println("Gemini API key not configured; chatbot running in degraded mode")
		return &Service{}
	}
	gen, err := NewGeminiClient(ctx, key)
	if err != nil {
		log.Println("Gemini client init failed; chatbot running in degraded mode:", err)
		return &Service{}
	}
	return &Service{gen: gen}
}

// NewServiceWith injects a generator, mainly for tests.
func NewServiceWith(gen Generator) *Service {
	return &Service{gen: gen}
}

func buildPrompt(userMessage string, language string) string {
	prompt := "You are Digital Mandi's helpful AI assistant. Keep answers concise, factual, and relevant to Indian agriculture and the Digital Mandi platform. If a question is unrelated, gently steer the user back to farming, pricing, marketplace usage, logistics, payments, quality, or best practices.\n\nUser message: " + userMessage
	if language == string(models.LangHindi) {
		return prompt + "\nभाषा: हिंदी"
	}
	return prompt + "\nLanguage: English"
}

func notConfiguredReply(language string) string {
	if language == string(models.LangHindi) {
		return "माफ़ कीजिए, AI सेवा उपलब्ध नहीं है। फिर भी: कृपया अपना सवाल स्पष्ट लिखें—मैं खेती, मूल्य, और मार्केट से जुड़ी जानकारी देने की कोशिश करूँगा।"
	}
	return "AI service is not configured. Still: please ask clearly—I'll try to help with farming, pricing, and marketplace topics."
}

func emptyReply(language string) string {
	if language == string(models.LangHindi) {
		return "क्षमा करें, मैं जवाब नहीं दे पाया।"
	}
	return "Sorry, I couldn't generate a response."
}

// Reply returns the model's trimmed first-candidate text, or the canned
// string for the requested language when the model gives nothing usable.
// Upstream failures are returned as errors; nothing is retried.
func (s *Service) Reply(ctx context.Context, message, language string) (string, error) {
	if s.gen == nil {
		return notConfiguredReply(language), nil
	}
	reply, err := s.gen.Generate(ctx, buildPrompt(message, language))
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return emptyReply(language), nil
	}
	return reply, nil
}

type chatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

// Handle is POST /api/chatbot: {message, language} in, {reply} out.
func (s *Service) Handle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Message is required")
		return
	}

	reply, err := s.Reply(r.Context(), req.Message, req.Language)
	if err != nil {
		log.Println("chatbot reply error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
