package domain

import "time"

// RequestRecord is one chat API call, recorded for usage statistics.
type RequestRecord struct {
	// Model is the chat model used.
	Model string `json:"model"`

	// PromptTokens is the token count of the request payload.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the token count of the response.
	CompletionTokens int `json:"completion_tokens"`

	// Cost is the estimated cost in USD.
	Cost float64 `json:"cost"`

	// CreatedAt is when the request was made.
	CreatedAt time.Time `json:"created_at"`
}

// TotalTokens returns prompt plus completion tokens.
func (r RequestRecord) TotalTokens() int {
	return r.PromptTokens + r.CompletionTokens
}

// ModelUsage aggregates usage for one model.
type ModelUsage struct {
	Model    string  `json:"model"`
	Requests int     `json:"requests"`
	Tokens   int     `json:"tokens"`
	Cost     float64 `json:"cost"`
}

// DailyUsage aggregates usage for one calendar day.
type DailyUsage struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	Requests int     `json:"requests"`
	Tokens   int     `json:"tokens"`
	Cost     float64 `json:"cost"`
}

// UsageSummary aggregates all recorded usage.
type UsageSummary struct {
	TotalRequests    int          `json:"total_requests"`
	TotalTokens      int          `json:"total_tokens"`
	TotalCost        float64      `json:"total_cost"`
	AvgTokensPerCall int          `json:"avg_tokens_per_call"`
	ByModel          []ModelUsage `json:"by_model"`
	ByDay            []DailyUsage `json:"by_day"`
}

// modelPricing is the estimated price per 1K tokens.
// Approximations only; gateway pricing may differ.
type modelPricing struct {
	prompt     float64
	completion float64
}

var pricingTable = map[string]modelPricing{
	"gpt-4o-mini":              {prompt: 0.00015, completion: 0.0006},
	"gpt-4o":                   {prompt: 0.005, completion: 0.015},
	"gpt-4.1":                  {prompt: 0.03, completion: 0.06},
	"claude-3-5-sonnet-latest": {prompt: 0.003, completion: 0.015},
	"claude-3-5-haiku-latest":  {prompt: 0.0008, completion: 0.004},
}

var defaultPricing = modelPricing{prompt: 0.0015, completion: 0.006}

// EstimateCost returns the approximate USD cost for a request.
// Unknown models fall back to a generic rate.
func EstimateCost(model string, promptTokens, completionTokens int) float64 {
	p, ok := pricingTable[model]
	if !ok {
		p = defaultPricing
	}
	return float64(promptTokens)/1000*p.prompt + float64(completionTokens)/1000*p.completion
}
