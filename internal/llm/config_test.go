package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.NotEmpty(t, cfg.GetModel(TierLite))
	assert.NotEmpty(t, cfg.GetModel(TierStandard))
	assert.NotEmpty(t, cfg.GetModel(TierAdvanced))
}

func TestGetModel_FallbackChain(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "lite-model"},
	}

	// Unknown tier falls back to standard, then lite
	assert.Equal(t, "lite-model", cfg.GetModel(TierAdvanced))

	empty := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}
	assert.Empty(t, empty.GetModel(TierStandard))
}

func TestFallbackModels_RequestedTierFirst(t *testing.T) {
	cfg := DefaultConfig()

	models := cfg.FallbackModels(TierLite)
	require.NotEmpty(t, models)
	assert.Equal(t, cfg.GetModel(TierLite), models[0])
	// All three tiers represented, no duplicates
	assert.Len(t, models, 3)
}

func TestFallbackModels_Deduplicates(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "same-model",
			TierStandard: "same-model",
			TierAdvanced: "big-model",
		},
	}

	models := cfg.FallbackModels(TierAdvanced)
	assert.Equal(t, []string{"big-model", "same-model"}, models)
}

func TestWithModel_DoesNotMutateOriginal(t *testing.T) {
	cfg := DefaultConfig()
	original := cfg.GetModel(TierStandard)

	updated := cfg.WithModel(TierStandard, "custom-model")

	assert.Equal(t, "custom-model", updated.GetModel(TierStandard))
	assert.Equal(t, original, cfg.GetModel(TierStandard))
}

func TestIsQuotaErr(t *testing.T) {
	assert.True(t, isQuotaErr(errString("googleapi: Error 429: quota exceeded")))
	assert.True(t, isQuotaErr(errString("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED")))
	assert.False(t, isQuotaErr(errString("candidate was blocked")))
}

type errString string

func (e errString) Error() string { return string(e) }
