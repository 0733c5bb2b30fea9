package domain

import "time"

// DefaultProfileName is the profile loaded when none is selected.
// It cannot be deleted.
const DefaultProfileName = "default"

// Preferences holds cosmetic and behavioural user preferences.
type Preferences struct {
	// Theme selects the UI colour theme.
	Theme string `json:"theme"`

	// AutoSave saves the conversation after every exchange.
	AutoSave bool `json:"auto_save"`

	// AutoIndex indexes the conversation into the vector store on save.
	AutoIndex bool `json:"auto_index"`
}

// Profile is a named set of user settings applied to a chat session.
type Profile struct {
	// Name is the unique profile name; doubles as the file stem.
	Name string `json:"name"`

	// Model is the preferred chat model.
	Model string `json:"model"`

	// SystemPrompt is the default system instruction.
	SystemPrompt string `json:"system_prompt"`

	// Parameters are the preferred sampling parameters.
	Parameters ModelParameters `json:"parameters"`

	// Preferences holds cosmetic and behavioural options.
	Preferences Preferences `json:"preferences"`

	// CreatedAt is when the profile was created.
	CreatedAt time.Time `json:"created_at"`

	// LastUsed is when the profile was last applied or saved.
	LastUsed time.Time `json:"last_used"`
}

// DefaultProfile returns the built-in default profile.
func DefaultProfile() Profile {
	now := time.Now()
	return Profile{
		Name:         DefaultProfileName,
		Model:        "gpt-4o-mini",
		SystemPrompt: "You are a helpful assistant.",
		Parameters:   DefaultModelParameters(),
		Preferences:  Preferences{Theme: "default"},
		CreatedAt:    now,
		LastUsed:     now,
	}
}
