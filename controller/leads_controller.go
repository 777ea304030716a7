package controller

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/eyepatch-3097/ds-chatbot/utils"
)

const leadTypeGatedInfo = "gated_info"
const leadTypeContact = "contact"

type leadRequest struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	LeadType  string `json:"leadType"`
	Message   string `json:"message"`
}

type leadResponse struct {
	LeadID  string `json:"leadId"`
	Message string `json:"message"`
}

// SubmitLead captures a visitor contact record, updates session counters,
// and emails a notification with the chat transcript. Only the missing
// email is fatal; everything downstream degrades.
func (c *Controller) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var body leadRequest
	if err := utils.DecodeJSON(r, &body); err != nil || strings.TrimSpace(body.Email) == "" {
		utils.JSONErr(w, http.StatusBadRequest, "email is required")
		return
	}
	email := utils.NormalizeEmail(body.Email)
	leadType := strings.TrimSpace(body.LeadType)
	if leadType != leadTypeGatedInfo {
		leadType = leadTypeContact
	}

	sessionID := c.resolveSession(r, strings.TrimSpace(body.SessionID))

	leadID := uuid.NewString()
	if _, err := c.db.Exec(`INSERT INTO chat_leads (id,session_id,name,email,lead_type,message) VALUES ($1,$2,$3,$4,$5,$6)`,
		leadID, nullableID(sessionID), body.Name, email, leadType, body.Message); err != nil {
		c.logRequestError(r, "lead insert failed", err, "email", email, "lead_type", leadType)
		utils.JSONErr(w, http.StatusInternalServerError, "db error")
		return
	}

	if sessionID != "" {
		query := `UPDATE chat_sessions SET lead_count=lead_count+1,updated_at=CURRENT_TIMESTAMP WHERE id=$1`
		if leadType == leadTypeGatedInfo {
			query = `UPDATE chat_sessions SET lead_count=lead_count+1,gated_lead_count=gated_lead_count+1,updated_at=CURRENT_TIMESTAMP WHERE id=$1`
		}
		if _, err := c.db.Exec(query, sessionID); err != nil {
			c.logRequestWarn(r, "lead session counter update failed", err, "session_id", sessionID)
		}
	}

	transcript := c.sessionTranscript(r, sessionID)
	if err := c.notifyLead(body.Name, email, leadType, body.Message, transcript); err != nil {
		c.logRequestWarn(r, "lead notification email failed", err, "lead_id", leadID, "email", email)
	}

	utils.JSON(w, http.StatusCreated, leadResponse{
		LeadID:  leadID,
		Message: "Lead captured successfully.",
	})
}

// resolveSession returns the session ID when it exists, otherwise "".
// A missing session never blocks lead capture.
func (c *Controller) resolveSession(r *http.Request, requested string) string {
	if requested == "" {
		return ""
	}
	var id string
	err := c.db.QueryRow(`SELECT id FROM chat_sessions WHERE id=$1`, requested).Scan(&id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.logRequestWarn(r, "lead session lookup failed", err, "session_id", requested)
		}
		return ""
	}
	return id
}

// sessionTranscript renders the conversation as role-labelled lines for
// the notification email.
func (c *Controller) sessionTranscript(r *http.Request, sessionID string) string {
	if sessionID == "" {
		return noTranscriptPlaceholder
	}
	messages, err := c.sessionMessages(sessionID)
	if err != nil {
		c.logRequestWarn(r, "lead transcript query failed", err, "session_id", sessionID)
		return noTranscriptPlaceholder
	}
	return renderTranscript(messages)
}

const noTranscriptPlaceholder = "(no transcript available)"

func renderTranscript(messages []chatMessage) string {
	if len(messages) == 0 {
		return noTranscriptPlaceholder
	}
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		label := "Dotswitch Bot"
		if m.Role == "user" {
			label = "User"
		}
		lines = append(lines, label+": "+m.Text)
	}
	return strings.Join(lines, "\n")
}

func nullableID(id string) interface{} {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return id
}
