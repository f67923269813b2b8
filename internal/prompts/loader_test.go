package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAnalysisPrompts(t *testing.T) {
	for _, key := range []string{"analysis_system", "analysis_user", "distill_system", "distill_user"} {
		prompt, err := Get("analysis.json", key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, prompt, key)
	}
}

func TestGetUnknownKey(t *testing.T) {
	_, err := Get("analysis.json", "no_such_key")
	assert.Error(t, err)
}

func TestGetUnknownFile(t *testing.T) {
	_, err := Get("missing.json", "analysis_system")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format("Episode {{.EpisodeTitle}} of {{.PodcastTitle}}", map[string]string{
		"EpisodeTitle": "Ep 1",
		"PodcastTitle": "Growth Talk",
	})
	assert.Equal(t, "Episode Ep 1 of Growth Talk", out)
}

func TestFormatLeavesUnknownPlaceholders(t *testing.T) {
	out := Format("{{.Known}} and {{.Unknown}}", map[string]string{"Known": "yes"})
	assert.Equal(t, "yes and {{.Unknown}}", out)
}

func TestAnalysisUserPromptCarriesPlaceholders(t *testing.T) {
	prompt := MustGet("analysis.json", "analysis_user")
	assert.Contains(t, prompt, "{{.Transcript}}")
	assert.Contains(t, prompt, "{{.EpisodeTitle}}")
	assert.Contains(t, prompt, "{{.PodcastTitle}}")
}
