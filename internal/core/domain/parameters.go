package domain

import "fmt"

// ModelParameters controls sampling behaviour for chat requests.
type ModelParameters struct {
	// Temperature controls randomness (0.0-2.0).
	Temperature float64 `json:"temperature"`

	// MaxTokens bounds the completion length (1-4000).
	MaxTokens int `json:"max_tokens"`

	// TopP is the nucleus sampling cutoff (0.0-1.0).
	TopP float64 `json:"top_p"`

	// FrequencyPenalty discourages token repetition (-2.0-2.0).
	FrequencyPenalty float64 `json:"frequency_penalty"`

	// PresencePenalty discourages topic repetition (-2.0-2.0).
	PresencePenalty float64 `json:"presence_penalty"`
}

// DefaultModelParameters returns the balanced defaults.
func DefaultModelParameters() ModelParameters {
	return ModelParameters{
		Temperature: 0.7,
		MaxTokens:   1000,
		TopP:        1.0,
	}
}

// Validate checks every parameter is within its allowed range.
func (p ModelParameters) Validate() error {
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("%w: temperature %.2f outside [0, 2]", ErrInvalidInput, p.Temperature)
	}
	if p.MaxTokens < 1 || p.MaxTokens > 4000 {
		return fmt.Errorf("%w: max tokens %d outside [1, 4000]", ErrInvalidInput, p.MaxTokens)
	}
	if p.TopP < 0 || p.TopP > 1 {
		return fmt.Errorf("%w: top_p %.2f outside [0, 1]", ErrInvalidInput, p.TopP)
	}
	if p.FrequencyPenalty < -2 || p.FrequencyPenalty > 2 {
		return fmt.Errorf("%w: frequency penalty %.2f outside [-2, 2]", ErrInvalidInput, p.FrequencyPenalty)
	}
	if p.PresencePenalty < -2 || p.PresencePenalty > 2 {
		return fmt.Errorf("%w: presence penalty %.2f outside [-2, 2]", ErrInvalidInput, p.PresencePenalty)
	}
	return nil
}

// ParameterPreset is a named set of model parameters.
type ParameterPreset struct {
	Name        string
	Description string
	Parameters  ModelParameters
}

// ParameterPresets returns the built-in sampling presets.
func ParameterPresets() []ParameterPreset {
	return []ParameterPreset{
		{
			Name:        "creative",
			Description: "Higher temperature for varied, exploratory output",
			Parameters: ModelParameters{
				Temperature: 1.2, MaxTokens: 1500, TopP: 0.95,
				FrequencyPenalty: 0.3, PresencePenalty: 0.3,
			},
		},
		{
			Name:        "balanced",
			Description: "General purpose defaults",
			Parameters:  DefaultModelParameters(),
		},
		{
			Name:        "precise",
			Description: "Low temperature for factual, deterministic output",
			Parameters: ModelParameters{
				Temperature: 0.2, MaxTokens: 1000, TopP: 0.9,
			},
		},
	}
}

// PresetByName returns the preset with the given name.
func PresetByName(name string) (ParameterPreset, bool) {
	for _, p := range ParameterPresets() {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterPreset{}, false
}
