package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/podcast-growth/internal/llm"
	"github.com/jonathan/podcast-growth/internal/types"
)

type scripted struct {
	jsonResponses []string
	jsonErrs      []error
	jsonCalls     int

	textResponse string
	textErr      error
	textCalls    int
}

func (s *scripted) GenerateJSON(_ context.Context, _, _ string, _ llm.ModelTier) (string, error) {
	i := s.jsonCalls
	s.jsonCalls++
	var resp string
	var err error
	if i < len(s.jsonResponses) {
		resp = s.jsonResponses[i]
	}
	if i < len(s.jsonErrs) {
		err = s.jsonErrs[i]
	}
	return resp, err
}

func (s *scripted) GenerateText(_ context.Context, _, _ string, _ llm.ModelTier) (string, error) {
	s.textCalls++
	return s.textResponse, s.textErr
}

func (s *scripted) Close() error { return nil }

func testLog() *logrus.Entry {
	base := logrus.New()
	base.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(base)
}

func validArtifactJSON(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(StaticFallback("Test Episode"))
	require.NoError(t, err)
	return string(data)
}

func TestAnalyzeFirstAttemptSucceeds(t *testing.T) {
	client := &scripted{jsonResponses: []string{validArtifactJSON(t)}}
	engine := NewEngine(client, testLog())

	artifact, warnings := engine.Analyze(context.Background(), "a transcript", "Ep", "Show")

	assert.Empty(t, warnings)
	assert.Equal(t, 1, client.jsonCalls)
	assert.Equal(t, 0, client.textCalls)
	assert.NoError(t, artifact.Validate())
}

func TestAnalyzeRecoversFencedJSON(t *testing.T) {
	wrapped := "Here is the plan:\n" + validArtifactJSON(t) + "\nGood luck!"
	client := &scripted{jsonResponses: []string{wrapped}}
	engine := NewEngine(client, testLog())

	artifact, warnings := engine.Analyze(context.Background(), "a transcript", "Ep", "Show")

	assert.Empty(t, warnings)
	assert.NoError(t, artifact.Validate())
}

func TestAnalyzeMalformedThenDistilledSucceeds(t *testing.T) {
	client := &scripted{
		jsonResponses: []string{`{"summary": "missing everything else"}`, validArtifactJSON(t)},
		textResponse:  "key facts from the episode",
	}
	engine := NewEngine(client, testLog())

	artifact, warnings := engine.Analyze(context.Background(), "a transcript", "Ep", "Show")

	assert.Equal(t, 2, client.jsonCalls)
	assert.Equal(t, 1, client.textCalls)
	assert.NoError(t, artifact.Validate())
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "malformed")
}

func TestAnalyzeAllAttemptsFailReturnsStaticFallback(t *testing.T) {
	client := &scripted{
		jsonResponses: []string{"", "", ""},
		jsonErrs:      []error{errors.New("down"), errors.New("down"), errors.New("down")},
		textErr:       errors.New("also down"),
	}
	engine := NewEngine(client, testLog())

	artifact, warnings := engine.Analyze(context.Background(), "a transcript", "My Episode", "Show")

	assert.NoError(t, artifact.Validate())
	assert.Equal(t, StaticFallback("My Episode"), artifact)
	assert.NotEmpty(t, warnings)
	assert.Contains(t, warnings[len(warnings)-1], "static fallback")
}

func TestAnalyzeNilClientReturnsStaticFallback(t *testing.T) {
	engine := NewEngine(nil, testLog())

	artifact, warnings := engine.Analyze(context.Background(), "a transcript", "My Episode", "Show")

	assert.Equal(t, StaticFallback("My Episode"), artifact)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "unavailable")
}

func TestAnalyzeDistillFailureFallsBackToTruncation(t *testing.T) {
	client := &scripted{
		jsonResponses: []string{"not json at all", validArtifactJSON(t)},
		textErr:       errors.New("distill down"),
	}
	engine := NewEngine(client, testLog())

	artifact, warnings := engine.Analyze(context.Background(), "a transcript", "Ep", "Show")

	assert.NoError(t, artifact.Validate())
	assert.Contains(t, warnings, "distillation failed, used truncated transcript")
}

func TestParseArtifactRejectsSchemaViolations(t *testing.T) {
	_, err := parseArtifact(`{"summary": "only a summary"}`)
	assert.Error(t, err)
}

func TestParseArtifactRejectsNonJSON(t *testing.T) {
	_, err := parseArtifact("no braces anywhere")
	assert.Error(t, err)
}

func TestStaticFallbackIsDeterministicAndValid(t *testing.T) {
	a := StaticFallback("Some Episode")
	b := StaticFallback("Some Episode")

	assert.Equal(t, a, b)
	assert.NoError(t, a.Validate())

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var decoded types.AnalysisArtifact
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NoError(t, decoded.Validate())
}

func TestStaticFallbackEmptyTitle(t *testing.T) {
	a := StaticFallback("")
	assert.NoError(t, a.Validate())
	assert.Contains(t, a.Summary, "This episode")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
