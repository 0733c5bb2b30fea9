package domain

// WordFrequency is one entry in a word frequency ranking.
type WordFrequency struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ConversationAnalysis summarises the shape and content of one
// conversation.
type ConversationAnalysis struct {
	// Name is the analysed conversation.
	Name string `json:"name"`

	// MessageCount is the total number of messages.
	MessageCount int `json:"message_count"`

	// UserMessages and AssistantMessages split the count by role.
	UserMessages      int `json:"user_messages"`
	AssistantMessages int `json:"assistant_messages"`

	// UserWords and AssistantWords split the word totals by role.
	UserWords      int `json:"user_words"`
	AssistantWords int `json:"assistant_words"`

	// AvgWordsPerMessage is the mean message length in words.
	AvgWordsPerMessage float64 `json:"avg_words_per_message"`

	// EngagementRatio is assistant words per user word. High values
	// mean long answers to short questions.
	EngagementRatio float64 `json:"engagement_ratio"`

	// TopWords ranks the most frequent non-stop words.
	TopWords []WordFrequency `json:"top_words"`

	// QuestionCount is the number of user messages ending in "?".
	QuestionCount int `json:"question_count"`
}

// ConversationSearchOptions filters a keyword search over saved
// conversations.
type ConversationSearchOptions struct {
	// NamesOnly matches the query against conversation names instead
	// of message content.
	NamesOnly bool

	// Role restricts content matching to one role when non-empty.
	Role string
}

// ConversationMatch is one keyword search hit.
type ConversationMatch struct {
	// Name is the matching conversation.
	Name string `json:"name"`

	// Role and Snippet locate the matching message; empty for
	// name-only matches.
	Role    string `json:"role,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}
