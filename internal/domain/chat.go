// Package domain contains core domain types for the health dashboard.
package domain

import (
	"time"
)

// Sender identifies who authored a chat message.
type Sender string

const (
	// SenderUser marks a message typed by the person at the dashboard.
	SenderUser Sender = "user"
	// SenderAgent marks a reply from the healthcare agent (or a local notice shown in its place).
	SenderAgent Sender = "agent"
)

// Classification drives how a chat message is rendered.
type Classification string

const (
	ClassNormal  Classification = "normal"
	ClassSuccess Classification = "success"
	ClassError   Classification = "error"
)

// ChatMessage is a single transcript entry. Entries are never edited once appended.
type ChatMessage struct {
	ID             string         `json:"id"`
	Text           string         `json:"text"`
	Sender         Sender         `json:"sender"`
	Timestamp      time.Time      `json:"timestamp"`
	Classification Classification `json:"type"`
}

// IsError reports whether the message should be shown as a failure notice.
func (m ChatMessage) IsError() bool {
	return m.Classification == ClassError
}
