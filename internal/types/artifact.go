package types

import (
	"fmt"
	"strings"
)

// Cardinality requirements for the growth artifact. These are fixed by the
// output contract: a response violating them is a schema failure, never a
// partial success.
const (
	QuotableLineCount    = 3
	CommunityTargetCount = 3
	CrossPromotionCount  = 3
	KeywordCountMin      = 5
	KeywordCountMax      = 12
)

// CommunityTarget is a community where the episode could be shared.
type CommunityTarget struct {
	Name      string `json:"name"`
	Platform  string `json:"platform"`
	URL       string `json:"url"`
	Rationale string `json:"rationale"`
}

// CrossPromotionLead is a show worth approaching for cross-promotion.
type CrossPromotionLead struct {
	ShowName  string `json:"show_name"`
	HostName  string `json:"host_name"`
	Contact   string `json:"contact"`
	Rationale string `json:"rationale"`
}

// AnalysisArtifact is the fixed-shape growth strategy derived from an
// episode transcript.
type AnalysisArtifact struct {
	Summary              string               `json:"summary"`
	QuotableLines        []string             `json:"quotable_lines"`
	Keywords             []string             `json:"keywords"`
	OptimizedTitle       string               `json:"optimized_title"`
	OptimizedDescription string               `json:"optimized_description"`
	CommunityTargets     []CommunityTarget    `json:"community_targets"`
	CrossPromotionLeads  []CrossPromotionLead `json:"cross_promotion_leads"`
	TrendAngle           string               `json:"trend_angle"`
	SocialCaption        string               `json:"social_caption"`
	NextAction           string               `json:"next_action"`
	GrowthScore          string               `json:"growth_score"`
}

// ArtifactViolation describes one failed artifact constraint.
type ArtifactViolation struct {
	Field   string
	Message string
}

// ArtifactValidationError aggregates all constraint failures for an artifact.
type ArtifactValidationError struct {
	Violations []ArtifactViolation
}

func (e *ArtifactValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("artifact validation failed:")
	for i, v := range e.Violations {
		if i > 0 {
			sb.WriteString(";")
		}
		sb.WriteString(fmt.Sprintf(" %s: %s", v.Field, v.Message))
	}
	return sb.String()
}

// Validate checks the artifact against the output contract: required strings
// present and array cardinalities exact. Returns *ArtifactValidationError
// listing every violation, or nil when the artifact is well-formed.
func (a *AnalysisArtifact) Validate() error {
	var violations []ArtifactViolation

	add := func(field, format string, args ...any) {
		violations = append(violations, ArtifactViolation{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if strings.TrimSpace(a.Summary) == "" {
		add("summary", "must be non-empty")
	}
	if len(a.QuotableLines) != QuotableLineCount {
		add("quotable_lines", "expected exactly %d, got %d", QuotableLineCount, len(a.QuotableLines))
	}
	if len(a.Keywords) < KeywordCountMin || len(a.Keywords) > KeywordCountMax {
		add("keywords", "expected %d-%d, got %d", KeywordCountMin, KeywordCountMax, len(a.Keywords))
	}
	if strings.TrimSpace(a.OptimizedTitle) == "" {
		add("optimized_title", "must be non-empty")
	}
	if strings.TrimSpace(a.OptimizedDescription) == "" {
		add("optimized_description", "must be non-empty")
	}
	if len(a.CommunityTargets) != CommunityTargetCount {
		add("community_targets", "expected exactly %d, got %d", CommunityTargetCount, len(a.CommunityTargets))
	}
	if len(a.CrossPromotionLeads) != CrossPromotionCount {
		add("cross_promotion_leads", "expected exactly %d, got %d", CrossPromotionCount, len(a.CrossPromotionLeads))
	}
	if strings.TrimSpace(a.GrowthScore) == "" {
		add("growth_score", "must be non-empty")
	}

	if len(violations) > 0 {
		return &ArtifactValidationError{Violations: violations}
	}
	return nil
}
