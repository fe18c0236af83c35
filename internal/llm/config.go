// Package llm provides centralized LLM configuration and client abstractions.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, extraction, salary inference
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: profile analysis, structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: discovery, dual-score evaluation
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// FallbackModels returns the models to try, best first, when the requested
// tier's model hits a quota limit. The requested tier leads; remaining tiers
// follow in descending capability so generation degrades instead of failing.
func (c *Config) FallbackModels(tier ModelTier) []string {
	order := []ModelTier{tier, TierAdvanced, TierStandard, TierLite}

	var models []string
	seen := make(map[string]bool)
	for _, t := range order {
		model, ok := c.Models[t]
		if !ok || model == "" || seen[model] {
			continue
		}
		seen[model] = true
		models = append(models, model)
	}
	return models
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)),
	}
	for t, m := range c.Models {
		newConfig.Models[t] = m
	}
	newConfig.Models[tier] = model
	return newConfig
}
