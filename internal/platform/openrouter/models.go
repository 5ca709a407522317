package openrouter

// Model describes one OpenRouter model option.
type Model struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	ContextWindow   int      `json:"context_window"`
	MaxOutputTokens int      `json:"max_output_tokens"`
	Capabilities    []string `json:"capabilities"`
	Recommended     bool     `json:"recommended"`
}

// Models lists the model options exposed to clients, in presentation order.
func Models() []Model {
	return modelCatalog
}

// RecommendedModel returns the ID of the recommended catalog entry.
func RecommendedModel() string {
	for _, m := range modelCatalog {
		if m.Recommended {
			return m.ID
		}
	}
	return modelCatalog[0].ID
}

// ModelByID looks up a catalog entry by its identifier.
func ModelByID(id string) (Model, bool) {
	for _, m := range modelCatalog {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

var modelCatalog = []Model{
	{
		ID:              "google/gemini-2.0-flash-exp:free",
		Name:            "Gemini 2.0 Flash (Free)",
		Description:     "Fast, efficient model for quick generation",
		ContextWindow:   1000000,
		MaxOutputTokens: 8192,
		Capabilities:    []string{"text-generation", "multilingual"},
		Recommended:     true,
	},
	{
		ID:              "google/gemini-2.0-flash-thinking-exp:free",
		Name:            "Gemini 2.0 Flash Thinking (Free)",
		Description:     "Enhanced reasoning capabilities",
		ContextWindow:   1000000,
		MaxOutputTokens: 8192,
		Capabilities:    []string{"text-generation", "reasoning", "multilingual"},
	},
	{
		ID:              "google/gemini-pro",
		Name:            "Gemini Pro",
		Description:     "Balanced performance and quality",
		ContextWindow:   91728,
		MaxOutputTokens: 8192,
		Capabilities:    []string{"text-generation", "multilingual", "code"},
	},
	{
		ID:              "anthropic/claude-3-haiku",
		Name:            "Claude 3 Haiku",
		Description:     "Fast and efficient for simple tasks",
		ContextWindow:   200000,
		MaxOutputTokens: 4096,
		Capabilities:    []string{"text-generation", "multilingual"},
	},
	{
		ID:              "anthropic/claude-3.5-sonnet",
		Name:            "Claude 3.5 Sonnet",
		Description:     "High quality with good performance",
		ContextWindow:   200000,
		MaxOutputTokens: 8192,
		Capabilities:    []string{"text-generation", "reasoning", "multilingual"},
	},
	{
		ID:              "meta-llama/llama-3.1-8b-instruct:free",
		Name:            "Llama 3.1 8B (Free)",
		Description:     "Open source model, good for general tasks",
		ContextWindow:   128000,
		MaxOutputTokens: 4096,
		Capabilities:    []string{"text-generation", "multilingual"},
	},
	{
		ID:              "mistralai/mistral-7b-instruct:free",
		Name:            "Mistral 7B (Free)",
		Description:     "Efficient open source model",
		ContextWindow:   32768,
		MaxOutputTokens: 4096,
		Capabilities:    []string{"text-generation", "multilingual"},
	},
}
