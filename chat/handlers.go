package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"mandi/models"
	"mandi/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// renderedMessage pairs a transcript message with its HTML form.
type renderedMessage struct {
	models.ChatMessage
	HTML string `json:"html"`
}

type transcriptEvent struct {
	Action  string          `json:"action"`
	Message renderedMessage `json:"message"`
}

// replayEvent carries the whole transcript in a single frame so a joining
// client catches up before live broadcasts.
type replayEvent struct {
	Action   string            `json:"action"`
	Messages []renderedMessage `json:"messages"`
}

func render(msg models.ChatMessage) renderedMessage {
	return renderedMessage{ChatMessage: msg, HTML: RenderBasicMarkdown(msg.Text)}
}

func encodeTranscriptEvent(msg models.ChatMessage) []byte {
	data, _ := json.Marshal(transcriptEvent{Action: "message", Message: render(msg)})
	return data
}

func encodeReplayEvent(msgs []models.ChatMessage) []byte {
	rendered := make([]renderedMessage, len(msgs))
	for i, m := range msgs {
		rendered[i] = render(m)
	}
	data, _ := json.Marshal(replayEvent{Action: "replay", Messages: rendered})
	return data
}

// API exposes the widget over HTTP. Language resolves the caller's active
// UI language so transcripts follow the app-wide toggle.
type API struct {
	Manager  *Manager
	Language func(r *http.Request) models.Language
}

func (a *API) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sid := utils.GetSessionID(r)
	if sid == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return nil, false
	}
	return a.Manager.Get(sid, a.Language(r)), true
}

// GetMessages returns the transcript plus widget state.
func (a *API) GetMessages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	msgs := sess.Messages()
	rendered := make([]renderedMessage, len(msgs))
	for i, m := range msgs {
		rendered[i] = render(m)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"messages":        rendered,
		"busy":            sess.Busy(),
		"listening":       sess.Listening(),
		"pendingInput":    sess.PendingInput(),
		"speechSupported": sess.SpeechSupported(),
	})
}

type sendRequest struct {
	Message string `json:"message"`
}

// SendMessage appends the user message, waits for the assistant, and
// returns the bot reply. A send while one is pending is refused without
// touching the transcript.
func (a *API) SendMessage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Message is required")
		return
	}

	reply, accepted := sess.Send(r.Context(), req.Message, a.Language(r))
	if !accepted {
		utils.RespondWithError(w, http.StatusConflict, "A reply is still pending")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"reply": render(reply)})
}

// ResetSession clears the transcript, as closing and reopening the widget
// does.
func (a *API) ResetSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	sess.Reset(a.Language(r))
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// ToggleVoice enters or exits voice capture. A missing recognizer is a
// capability report, not an error.
func (a *API) ToggleVoice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	listening, err := sess.ToggleListening(r.Context())
	if errors.Is(err, ErrSpeechUnavailable) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"supported": false, "listening": false})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"supported": true, "listening": listening})
}

// TakeVoiceInput consumes the recognized transcript once the client has
// picked it up; polling GetMessages leaves it in place.
func (a *API) TakeVoiceInput(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"text": sess.TakePendingInput()})
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler streams transcript events for one session so the widget
// can stay pinned to the newest message.
func (a *API) WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sid := utils.GetSessionID(r)
		if sid == "" {
			sid = r.URL.Query().Get("session")
		}
		if sid == "" {
			http.Error(w, "session id required", http.StatusBadRequest)
			return
		}
		sess := a.Manager.Get(sid, a.Language(r))

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Send:      make(chan []byte, 256),
			SessionID: sid,
		}

		// the writer must drain before registration queues the replay frame
		go writePump(client, conn)
		hub.register <- registration{
			client: client,
			replay: encodeReplayEvent(sess.Messages()),
		}
		go readPump(client, conn, hub)
	}
}

func writePump(c *Client, conn *websocket.Conn) {
	defer conn.Close()
	for msg := range c.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *Client, conn *websocket.Conn, hub *Hub) {
	defer func() {
		hub.unregister <- c
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
