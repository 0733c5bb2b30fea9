package domain

import "time"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a conversation.
type Message struct {
	// Role is one of "system", "user", or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// Conversation is a saved multi-turn chat session.
type Conversation struct {
	// Name is the unique conversation name; doubles as the file stem
	// when persisted.
	Name string `json:"name"`

	// Model is the chat model the conversation was held with.
	Model string `json:"model"`

	// SystemPrompt is the system instruction in effect.
	SystemPrompt string `json:"system_prompt"`

	// Messages is the ordered exchange, excluding the system prompt.
	Messages []Message `json:"messages"`

	// CreatedAt is when the conversation was first saved.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the conversation was last saved.
	UpdatedAt time.Time `json:"updated_at"`
}

// Pairs extracts consecutive user/assistant message pairs, the unit
// indexed into the vector store. A trailing user message without a
// response is dropped.
func (c Conversation) Pairs() []MessagePair {
	var users, assistants []string
	for _, m := range c.Messages {
		switch m.Role {
		case RoleUser:
			users = append(users, m.Content)
		case RoleAssistant:
			assistants = append(assistants, m.Content)
		}
	}

	n := len(users)
	if len(assistants) < n {
		n = len(assistants)
	}

	pairs := make([]MessagePair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, MessagePair{
			Index:     i,
			User:      users[i],
			Assistant: assistants[i],
		})
	}
	return pairs
}

// MessagePair is one user message and its assistant response.
type MessagePair struct {
	Index     int
	User      string
	Assistant string
}

// ConversationSummary is a lightweight listing view of a saved conversation.
type ConversationSummary struct {
	Name         string    `json:"name"`
	Model        string    `json:"model"`
	MessageCount int       `json:"message_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}
