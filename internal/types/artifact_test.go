package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validArtifact() AnalysisArtifact {
	target := CommunityTarget{Name: "r/podcasting", Platform: "Reddit", URL: "https://reddit.com/r/podcasting", Rationale: "creators"}
	lead := CrossPromotionLead{ShowName: "Other Show", HostName: "Host", Contact: "host@example.com", Rationale: "overlap"}
	return AnalysisArtifact{
		Summary:              "An episode about growing a podcast.",
		QuotableLines:        []string{"one", "two", "three"},
		Keywords:             []string{"a", "b", "c", "d", "e"},
		OptimizedTitle:       "How to Grow",
		OptimizedDescription: "A description.",
		CommunityTargets:     []CommunityTarget{target, target, target},
		CrossPromotionLeads:  []CrossPromotionLead{lead, lead, lead},
		TrendAngle:           "clips",
		SocialCaption:        "caption",
		NextAction:           "post a clip",
		GrowthScore:          "7/10: solid hooks",
	}
}

func TestArtifactValidateOK(t *testing.T) {
	a := validArtifact()
	assert.NoError(t, a.Validate())
}

func TestArtifactValidateKeywordRange(t *testing.T) {
	a := validArtifact()
	a.Keywords = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	assert.NoError(t, a.Validate())

	a.Keywords = append(a.Keywords, "m")
	assert.Error(t, a.Validate())

	a.Keywords = []string{"a", "b", "c", "d"}
	assert.Error(t, a.Validate())
}

func TestArtifactValidateCollectsAllViolations(t *testing.T) {
	a := AnalysisArtifact{}
	err := a.Validate()
	require.Error(t, err)

	var vErr *ArtifactValidationError
	require.ErrorAs(t, err, &vErr)

	fields := make(map[string]bool)
	for _, v := range vErr.Violations {
		fields[v.Field] = true
	}
	assert.True(t, fields["summary"])
	assert.True(t, fields["quotable_lines"])
	assert.True(t, fields["keywords"])
	assert.True(t, fields["optimized_title"])
	assert.True(t, fields["community_targets"])
	assert.True(t, fields["cross_promotion_leads"])
	assert.True(t, fields["growth_score"])
}

func TestArtifactValidateWhitespaceOnlyStrings(t *testing.T) {
	a := validArtifact()
	a.Summary = "   "
	a.GrowthScore = "\t\n"

	var vErr *ArtifactValidationError
	require.ErrorAs(t, a.Validate(), &vErr)
	assert.Len(t, vErr.Violations, 2)
}

func TestArtifactJSONKeys(t *testing.T) {
	data, err := json.Marshal(validArtifact())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{
		"summary", "quotable_lines", "keywords", "optimized_title",
		"optimized_description", "community_targets", "cross_promotion_leads",
		"trend_angle", "social_caption", "next_action", "growth_score",
	} {
		assert.Contains(t, m, key)
	}
}

func TestTranscriptionResultIsDegraded(t *testing.T) {
	assert.False(t, TranscriptionResult{Provider: ProviderPrimary}.IsDegraded())
	assert.False(t, TranscriptionResult{Provider: ProviderSecondary}.IsDegraded())
	assert.True(t, TranscriptionResult{Provider: ProviderDegradedPlaceholder}.IsDegraded())
}
