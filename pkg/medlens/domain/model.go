package domain

// GenerateOptions controls a single generation request. Each agent carries its own tuned values:
// agents that must stay factual use lower temperatures.
type GenerateOptions struct {
	MaxNewTokens int
	Temperature  float64
}

// Model is a generic interface to the underlying multimodal medical model. The model is expensive to load,
// so a single long-lived instance is shared by all agents in the pipeline; the implementation owns its
// lifecycle and concurrency story, the agents only hold a reference to it.
type Model interface {
	// GenerateFromImageAndText runs multimodal inference over an image on disk plus a text prompt.
	GenerateFromImageAndText(imagePath, prompt, systemPrompt string, options GenerateOptions) (string, error)
	// GenerateFromText runs text-only inference.
	GenerateFromText(prompt, systemPrompt string, options GenerateOptions) (string, error)
}
