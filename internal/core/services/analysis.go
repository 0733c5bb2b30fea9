package services

import (
	"sort"
	"strings"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

// stopWords are excluded from word frequency rankings.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "can": true, "do": true, "for": true,
	"from": true, "have": true, "how": true, "i": true, "in": true, "is": true,
	"it": true, "its": true, "me": true, "my": true, "not": true, "of": true,
	"on": true, "or": true, "so": true, "that": true, "the": true, "this": true,
	"to": true, "was": true, "what": true, "when": true, "which": true,
	"will": true, "with": true, "would": true, "you": true, "your": true,
}

// topWordCount bounds the word frequency ranking.
const topWordCount = 10

// AnalyzeConversation computes message and word statistics for a
// conversation.
func AnalyzeConversation(conv *domain.Conversation) *domain.ConversationAnalysis {
	a := &domain.ConversationAnalysis{
		Name:         conv.Name,
		MessageCount: len(conv.Messages),
	}

	freq := make(map[string]int)
	totalWords := 0

	for _, msg := range conv.Messages {
		words := strings.Fields(msg.Content)
		totalWords += len(words)

		switch msg.Role {
		case domain.RoleUser:
			a.UserMessages++
			a.UserWords += len(words)
			if strings.HasSuffix(strings.TrimSpace(msg.Content), "?") {
				a.QuestionCount++
			}
		case domain.RoleAssistant:
			a.AssistantMessages++
			a.AssistantWords += len(words)
		}

		for _, w := range words {
			w = normalizeWord(w)
			if w == "" || len(w) < 3 || stopWords[w] {
				continue
			}
			freq[w]++
		}
	}

	if a.MessageCount > 0 {
		a.AvgWordsPerMessage = float64(totalWords) / float64(a.MessageCount)
	}
	if a.UserWords > 0 {
		a.EngagementRatio = float64(a.AssistantWords) / float64(a.UserWords)
	}
	a.TopWords = rankWords(freq, topWordCount)

	return a
}

// normalizeWord lowercases and strips surrounding punctuation.
func normalizeWord(w string) string {
	return strings.Trim(strings.ToLower(w), ".,:;!?\"'()[]{}*`")
}

// rankWords returns the top n words by count, ties broken
// alphabetically for stable output.
func rankWords(freq map[string]int, n int) []domain.WordFrequency {
	ranked := make([]domain.WordFrequency, 0, len(freq))
	for w, c := range freq {
		ranked = append(ranked, domain.WordFrequency{Word: w, Count: c})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
