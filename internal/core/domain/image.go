package domain

import "time"

// ImageRequest describes one image generation call.
type ImageRequest struct {
	// Prompt is the image description.
	Prompt string

	// Size is the output resolution, e.g. "1024x1024".
	Size string

	// Quality is "standard" or "hd".
	Quality string

	// Style is "vivid" or "natural".
	Style string
}

// ImageRecord is the stored metadata for a generated image.
type ImageRecord struct {
	// ID is the unique record identifier.
	ID string `json:"id"`

	// Prompt is the prompt as sent, after any metaprompt enhancement.
	Prompt string `json:"prompt"`

	// OriginalPrompt is the prompt as the user typed it.
	OriginalPrompt string `json:"original_prompt,omitempty"`

	// Model is the image model used.
	Model string `json:"model"`

	// Size and Quality echo the request.
	Size    string `json:"size"`
	Quality string `json:"quality"`

	// Path is where the image file was written.
	Path string `json:"path"`

	// RevisedPrompt is the provider's rewritten prompt, when returned.
	RevisedPrompt string `json:"revised_prompt,omitempty"`

	// CreatedAt is when the image was generated.
	CreatedAt time.Time `json:"created_at"`
}

// SavedPrompt is a named, reusable image prompt.
type SavedPrompt struct {
	Name        string    `json:"name"`
	Prompt      string    `json:"prompt"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ImageStats summarises generated images.
type ImageStats struct {
	Total        int            `json:"total"`
	ByModel      map[string]int `json:"by_model"`
	BySize       map[string]int `json:"by_size"`
	SavedPrompts int            `json:"saved_prompts"`
}
