// Package llm provides the generation provider client used for growth
// analysis and transcript distillation.
package llm

// ModelTier represents the complexity level of a generation call.
type ModelTier string

const (
	// TierLite is for the cheap distillation sub-call.
	TierLite ModelTier = "lite"
	// TierStandard is for the schema-constrained analysis call.
	TierStandard ModelTier = "standard"
)

// Config holds model selection for the generation provider.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model mapping.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a tier, falling back to the standard
// tier when the requested one is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	return c.Models[TierStandard]
}
