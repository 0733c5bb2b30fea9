package domain

import "time"

// BatchStatus tracks the lifecycle of a batch job or item.
type BatchStatus string

// Available batch statuses.
const (
	BatchPending   BatchStatus = "pending"
	BatchCompleted BatchStatus = "completed"
	BatchFailed    BatchStatus = "failed"
)

// BatchPrompt is one prompt within a batch job.
type BatchPrompt struct {
	// ID is the prompt identifier, unique within the job.
	ID string `json:"id"`

	// Text is the prompt to send.
	Text string `json:"text"`

	// Response is the completion, set once processed.
	Response string `json:"response,omitempty"`

	// Error records a per-prompt failure; the batch continues past it.
	Error string `json:"error,omitempty"`

	// Status is pending until the prompt has been processed.
	Status BatchStatus `json:"status"`
}

// BatchJob is a named set of prompts processed sequentially through
// the chat model.
type BatchJob struct {
	// Name is the unique job name; doubles as the file stem.
	Name string `json:"name"`

	// Model is the chat model to run the prompts with.
	Model string `json:"model"`

	// SystemPrompt applies to every prompt in the job.
	SystemPrompt string `json:"system_prompt"`

	// Prompts is the ordered work list.
	Prompts []BatchPrompt `json:"prompts"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// CompletedAt is set once every prompt has been processed.
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// Stats counts prompts per status.
func (j BatchJob) Stats() BatchStats {
	s := BatchStats{Total: len(j.Prompts)}
	for _, p := range j.Prompts {
		switch p.Status {
		case BatchCompleted:
			s.Completed++
		case BatchFailed:
			s.Failed++
		default:
			s.Pending++
		}
	}
	return s
}

// Done returns true once no prompt is pending.
func (j BatchJob) Done() bool {
	return j.Stats().Pending == 0
}

// BatchStats counts job prompts by status.
type BatchStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}
