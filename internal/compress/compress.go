// Package compress reduces long transcripts to a bounded digest that keeps
// high-value sentences, so generation prompts stay inside model budgets.
package compress

import (
	"regexp"
	"strings"
)

// Sizing constants for the two-tier degrade. The first tier samples
// sentences; the second hard-truncates each section so the output is bounded
// regardless of input length.
const (
	// TriggerThreshold is the input length below which text is returned
	// unchanged.
	TriggerThreshold = 12000

	// MaxCompressedSize is the hard upper bound on output length once
	// compression runs.
	MaxCompressedSize = 14000

	openingSentences = 8
	closingSentences = 8
	maxHighValue     = 20

	openingCap   = 3500
	highValueCap = 6000
	closingCap   = 3500
)

// Section headers label the sampled regions in the digest.
const (
	openingHeader   = "[OPENING]"
	highValueHeader = "[KEY MOMENTS]"
	closingHeader   = "[CLOSING]"
)

// highValuePatterns match sentences worth keeping: named people/shows,
// money/percentage/duration figures, recommendations, platform mentions and
// growth tactics.
var highValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z][a-z]+ [A-Z][a-z]+`),
	regexp.MustCompile(`\$\d[\d,.]*|\d+(\.\d+)?%|\d+\s*(minutes?|hours?|days?|weeks?|months?|years?)`),
	regexp.MustCompile(`(?i)\b(recommend|should|start with|focus on|try|avoid|the key is)\b`),
	regexp.MustCompile(`(?i)\b(reddit|subreddit|discord|youtube|tiktok|instagram|linkedin|twitter|facebook|newsletter|community|forum)\b`),
	regexp.MustCompile(`(?i)\b(growth|audience|engagement|monetiz\w*|sponsor\w*|collab\w*|cross.?promot\w*|seo|launch|strategy|tactic)\b`),
}

// Compress returns a digest of text no longer than targetMax, best effort.
// It is deterministic and pure; input shorter than TriggerThreshold is
// returned unchanged.
func Compress(text string, targetMax int) string {
	if len(text) < TriggerThreshold {
		return text
	}

	sentences := splitSentences(text)
	digest := sampleSentences(sentences)

	limit := targetMax
	if limit <= 0 || limit > MaxCompressedSize {
		limit = MaxCompressedSize
	}
	if len(digest) > limit {
		digest = hardTruncate(sentences)
	}
	return digest
}

func splitSentences(text string) []string {
	parts := strings.Split(text, ". ")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// sampleSentences builds the first-tier digest: opening block, up to
// maxHighValue pattern matches from the middle in source order, closing
// block.
func sampleSentences(sentences []string) string {
	opening, middle, closing := partition(sentences)

	matched := make([]string, 0, maxHighValue)
	for _, s := range middle {
		if len(matched) == maxHighValue {
			break
		}
		if isHighValue(s) {
			matched = append(matched, s)
		}
	}

	return assemble(
		strings.Join(opening, ". "),
		strings.Join(matched, ". "),
		strings.Join(closing, ". "),
	)
}

// hardTruncate builds the second-tier digest: each section cut to a fixed
// character cap.
func hardTruncate(sentences []string) string {
	opening, middle, closing := partition(sentences)

	matched := make([]string, 0, maxHighValue)
	for _, s := range middle {
		if len(matched) == maxHighValue {
			break
		}
		if isHighValue(s) {
			matched = append(matched, s)
		}
	}

	return assemble(
		truncate(strings.Join(opening, ". "), openingCap),
		truncate(strings.Join(matched, ". "), highValueCap),
		truncate(strings.Join(closing, ". "), closingCap),
	)
}

func partition(sentences []string) (opening, middle, closing []string) {
	if len(sentences) <= openingSentences+closingSentences {
		return sentences, nil, nil
	}
	opening = sentences[:openingSentences]
	closing = sentences[len(sentences)-closingSentences:]
	middle = sentences[openingSentences : len(sentences)-closingSentences]
	return opening, middle, closing
}

func isHighValue(sentence string) bool {
	for _, p := range highValuePatterns {
		if p.MatchString(sentence) {
			return true
		}
	}
	return false
}

func assemble(opening, matched, closing string) string {
	var sb strings.Builder
	sb.WriteString(openingHeader)
	sb.WriteString("\n")
	sb.WriteString(opening)
	if matched != "" {
		sb.WriteString("\n\n")
		sb.WriteString(highValueHeader)
		sb.WriteString("\n")
		sb.WriteString(matched)
	}
	if closing != "" {
		sb.WriteString("\n\n")
		sb.WriteString(closingHeader)
		sb.WriteString("\n")
		sb.WriteString(closing)
	}
	return sb.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
