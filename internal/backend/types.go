// Package backend is the HTTP client for the healthcare backend: user profiles,
// health logs and the conversational agent.
package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// NoResponseContent is the reply text used when the agent response is missing or empty.
const NoResponseContent = "No response content"

// StatusError is the agent status value that marks a failed exchange.
const StatusError = "error"

// ChatRequest is the body posted to the agent endpoint.
// UserID is nil until an identity has been bound, and encodes as JSON null.
type ChatRequest struct {
	Message   string `json:"message"`
	UserID    *int64 `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatReply is an agent response with its text already resolved.
type ChatReply struct {
	Text   string         `json:"response"`
	Status string         `json:"status"`
	Data   map[string]any `json:"data,omitempty"`
}

// Failed reports whether the agent marked the exchange as failed.
func (r ChatReply) Failed() bool {
	return r.Status == StatusError
}

// UnmarshalJSON resolves the polymorphic "response" field into Text.
func (r *ChatReply) UnmarshalJSON(data []byte) error {
	var wire struct {
		Response json.RawMessage `json:"response"`
		Status   string          `json:"status"`
		Data     map[string]any  `json:"data"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Text = ResolveReplyText(wire.Response)
	r.Status = wire.Status
	r.Data = wire.Data
	return nil
}

// ResolveReplyText turns the raw "response" value into display text.
// Precedence: a JSON string verbatim, then an object's non-empty "content",
// then any other non-empty value in its JSON form. Missing, null, false, zero
// and empty values give NoResponseContent.
func ResolveReplyText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return NoResponseContent
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		if content, ok := obj["content"]; ok && !isEmptyValue(content) {
			var text string
			if err := json.Unmarshal(content, &text); err == nil {
				return text
			}
			return string(bytes.TrimSpace(content))
		}
		return string(raw)
	}

	if isEmptyValue(raw) {
		return NoResponseContent
	}
	return string(raw)
}

func isEmptyValue(raw json.RawMessage) bool {
	v := string(bytes.TrimSpace(raw))
	switch v {
	case "", "null", "false", `""`:
		return true
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == 0 {
		return true
	}
	return false
}
