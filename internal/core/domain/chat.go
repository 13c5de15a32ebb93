package domain

import "time"

// Chat roles as stored and as sent to the LLM.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation groups the turns of one chat session.
type Conversation struct {
	// ID is the unique conversation identifier.
	ID string

	// CreatedAt is when the first turn was stored.
	CreatedAt time.Time
}

// ChatTurn is a single utterance within a conversation.
type ChatTurn struct {
	// Role is RoleUser or RoleAssistant.
	Role string

	// Content is the utterance text.
	Content string
}
