package controller

import (
	"database/sql"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eyepatch-3097/ds-chatbot/utils"
)

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type chatMessage struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type chatResponse struct {
	SessionID         string        `json:"sessionId"`
	Messages          []chatMessage `json:"messages"`
	Links             []Link        `json:"links"`
	GatedLinks        []Link        `json:"gatedLinks"`
	NeedsLeadForLinks bool          `json:"needsLeadForLinks"`
	LeadSuggestion    *string       `json:"leadSuggestion,omitempty"`
}

// ChatMessage runs one conversation turn: resolve or create the session,
// persist the user message, call the model over the full history, persist
// the reply, and attach links and lead prompts. The model call degrades to
// a fixed apology; it never fails the request.
func (c *Controller) ChatMessage(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := utils.DecodeJSON(r, &body); err != nil || strings.TrimSpace(body.Message) == "" {
		utils.JSONErr(w, http.StatusBadRequest, "message is required")
		return
	}

	sessionID, ok := c.resolveOrCreateSession(w, r, strings.TrimSpace(body.SessionID))
	if !ok {
		return
	}

	if _, err := c.db.Exec(`INSERT INTO chat_messages (session_id,role,text) VALUES ($1,'user',$2)`,
		sessionID, body.Message); err != nil {
		c.logRequestError(r, "chat user message insert failed", err, "session_id", sessionID)
		utils.JSONErr(w, http.StatusInternalServerError, "db error")
		return
	}

	history, err := c.sessionMessages(sessionID)
	if err != nil {
		c.logRequestError(r, "chat history query failed", err, "session_id", sessionID)
		utils.JSONErr(w, http.StatusInternalServerError, "db error")
		return
	}

	prompt := make([]llmMessage, 0, len(history)+1)
	prompt = append(prompt, llmMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		prompt = append(prompt, llmMessage{Role: m.Role, Content: m.Text})
	}

	reply, llmErr := c.llm.Complete(r.Context(), prompt)
	if llmErr != nil || strings.TrimSpace(reply) == "" {
		c.logRequestWarn(r, "chat completion failed, sending apology", llmErr, "session_id", sessionID)
		reply = apologyReply
	}

	if _, err := c.db.Exec(`INSERT INTO chat_messages (session_id,role,text) VALUES ($1,'assistant',$2)`,
		sessionID, reply); err != nil {
		c.logRequestWarn(r, "chat assistant message insert failed", err, "session_id", sessionID)
	}
	if _, err := c.db.Exec(`UPDATE chat_sessions SET bot_message_count=bot_message_count+1,updated_at=CURRENT_TIMESTAMP WHERE id=$1`,
		sessionID); err != nil {
		c.logRequestWarn(r, "chat bot counter update failed", err, "session_id", sessionID)
	}

	messages, err := c.sessionMessages(sessionID)
	if err != nil {
		c.logRequestError(r, "chat response history query failed", err, "session_id", sessionID)
		utils.JSONErr(w, http.StatusInternalServerError, "db error")
		return
	}

	gated := gatedLinks(body.Message)
	resp := chatResponse{
		SessionID:         sessionID,
		Messages:          messages,
		Links:             relevantLinks(body.Message),
		GatedLinks:        gated,
		NeedsLeadForLinks: len(gated) > 0,
	}
	if suggestion := leadSuggestionFor(body.Message, len(gated) > 0); suggestion != "" {
		resp.LeadSuggestion = &suggestion
	}
	utils.JSONOK(w, resp)
}

// resolveOrCreateSession returns the session to use for this turn. Unknown
// session IDs fall through to a fresh session rather than erroring.
func (c *Controller) resolveOrCreateSession(w http.ResponseWriter, r *http.Request, requested string) (string, bool) {
	if requested != "" {
		var id string
		err := c.db.QueryRow(`SELECT id FROM chat_sessions WHERE id=$1`, requested).Scan(&id)
		switch {
		case err == nil:
			if _, err := c.db.Exec(`UPDATE chat_sessions SET user_message_count=user_message_count+1,last_message_at=CURRENT_TIMESTAMP,updated_at=CURRENT_TIMESTAMP WHERE id=$1`, id); err != nil {
				c.logRequestWarn(r, "chat session counter update failed", err, "session_id", id)
			}
			return id, true
		case errors.Is(err, sql.ErrNoRows):
			// stale or forged id: start over
		default:
			c.logRequestError(r, "chat session lookup failed", err, "session_id", requested)
			utils.JSONErr(w, http.StatusInternalServerError, "db error")
			return "", false
		}
	}

	sessionID := uuid.NewString()
	ip := clientIP(r)
	if _, err := c.db.Exec(`INSERT INTO chat_sessions (id,ip_address,user_agent,user_message_count,first_message_at,last_message_at)
		VALUES ($1,$2,$3,1,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)`,
		sessionID, ip, r.UserAgent()); err != nil {
		c.logRequestError(r, "chat session create failed", err)
		utils.JSONErr(w, http.StatusInternalServerError, "db error")
		return "", false
	}
	c.enrichSessionGeo(r.Context(), r, sessionID, ip)
	return sessionID, true
}

func (c *Controller) sessionMessages(sessionID string) ([]chatMessage, error) {
	rows, err := c.db.Query(`SELECT role,text,created_at FROM chat_messages WHERE session_id=$1 ORDER BY created_at ASC,id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	messages := []chatMessage{}
	for rows.Next() {
		var m chatMessage
		if err := rows.Scan(&m.Role, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// clientIP prefers the first forwarded-for entry, falling back to the
// direct peer address.
func clientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
