package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() map[string]any {
	target := map[string]any{"name": "r/podcasting", "platform": "Reddit", "url": "https://reddit.com/r/podcasting", "rationale": "creators"}
	lead := map[string]any{"show_name": "Other Show", "host_name": "Host", "contact": "host@example.com", "rationale": "overlap"}
	return map[string]any{
		"summary":               "An episode about podcast growth.",
		"quotable_lines":        []any{"one", "two", "three"},
		"keywords":              []any{"a", "b", "c", "d", "e"},
		"optimized_title":       "How to Grow",
		"optimized_description": "A description.",
		"community_targets":     []any{target, target, target},
		"cross_promotion_leads": []any{lead, lead, lead},
		"trend_angle":           "clips",
		"social_caption":        "caption",
		"next_action":           "post a clip",
		"growth_score":          "7/10",
	}
}

func marshal(t *testing.T, doc map[string]any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(data)
}

func TestValidateGrowthArtifactOK(t *testing.T) {
	assert.NoError(t, ValidateGrowthArtifact(marshal(t, validDocument())))
}

func TestValidateGrowthArtifactMissingField(t *testing.T) {
	doc := validDocument()
	delete(doc, "growth_score")

	err := ValidateGrowthArtifact(marshal(t, doc))
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Errors)
}

func TestValidateGrowthArtifactWrongCardinality(t *testing.T) {
	doc := validDocument()
	doc["quotable_lines"] = []any{"only one", "and two"}
	assert.Error(t, ValidateGrowthArtifact(marshal(t, doc)))

	doc = validDocument()
	doc["community_targets"] = []any{}
	assert.Error(t, ValidateGrowthArtifact(marshal(t, doc)))

	doc = validDocument()
	doc["keywords"] = []any{"a", "b"}
	assert.Error(t, ValidateGrowthArtifact(marshal(t, doc)))
}

func TestValidateGrowthArtifactWrongType(t *testing.T) {
	doc := validDocument()
	doc["summary"] = 42
	assert.Error(t, ValidateGrowthArtifact(marshal(t, doc)))
}

func TestValidateGrowthArtifactLeadMissingKey(t *testing.T) {
	doc := validDocument()
	lead := map[string]any{"show_name": "Other Show", "rationale": "overlap"}
	doc["cross_promotion_leads"] = []any{lead, lead, lead}
	assert.Error(t, ValidateGrowthArtifact(marshal(t, doc)))
}

func TestValidateGrowthArtifactNotJSON(t *testing.T) {
	assert.Error(t, ValidateGrowthArtifact("this is not json"))
}

func TestValidationErrorMessageListsFields(t *testing.T) {
	doc := validDocument()
	delete(doc, "summary")
	delete(doc, "next_action")

	err := ValidateGrowthArtifact(marshal(t, doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}
