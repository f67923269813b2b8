package analysis

import (
	"fmt"

	"github.com/jonathan/podcast-growth/internal/types"
)

// StaticFallback returns a hand-authored, deterministic artifact derived
// only from the episode title. It guarantees the pipeline always completes
// with a well-formed artifact even when the generation provider is down.
// Given the same title the output is byte-for-byte reproducible.
func StaticFallback(episodeTitle string) types.AnalysisArtifact {
	title := episodeTitle
	if title == "" {
		title = "This episode"
	}

	return types.AnalysisArtifact{
		Summary: fmt.Sprintf("%s could not be analyzed automatically. The generation service was unavailable, so this plan contains general-purpose growth steps to start with.", title),
		QuotableLines: []string{
			"Consistency beats virality for podcast growth.",
			"Every episode is a doorway for a new listener.",
			"Distribution is a feature of the content, not an afterthought.",
		},
		Keywords: []string{
			"podcast growth",
			"podcast marketing",
			"audience building",
			"podcast promotion",
			"content repurposing",
		},
		OptimizedTitle:       title,
		OptimizedDescription: fmt.Sprintf("In this episode: %s. Listen for practical takeaways, then share your favorite moment with a friend who would enjoy it.", title),
		CommunityTargets: []types.CommunityTarget{
			{
				Name:      "r/podcasting",
				Platform:  "Reddit",
				URL:       "https://www.reddit.com/r/podcasting/",
				Rationale: "Active community of podcast creators exchanging promotion tactics.",
			},
			{
				Name:      "Podcast Movement Community",
				Platform:  "Facebook",
				URL:       "https://www.facebook.com/groups/podcastmovement/",
				Rationale: "Large general-purpose podcasting group open to episode shares on topic threads.",
			},
			{
				Name:      "r/podcasts",
				Platform:  "Reddit",
				URL:       "https://www.reddit.com/r/podcasts/",
				Rationale: "Listener-focused community for episode recommendations.",
			},
		},
		CrossPromotionLeads: []types.CrossPromotionLead{
			{
				ShowName:  "A show in your niche with a similar audience size",
				HostName:  "(research needed)",
				Contact:   "(research needed)",
				Rationale: "Feed swaps with same-size shows convert best; start with shows one tier above yours.",
			},
			{
				ShowName:  "A show your guests have appeared on",
				HostName:  "(research needed)",
				Contact:   "(research needed)",
				Rationale: "Shared guests are a warm introduction for cross-promotion.",
			},
			{
				ShowName:  "A newsletter covering your topic",
				HostName:  "(research needed)",
				Contact:   "(research needed)",
				Rationale: "Newsletter mentions reach engaged audiences outside podcast apps.",
			},
		},
		TrendAngle:    "Short-form clips remain the highest-leverage discovery channel for audio content.",
		SocialCaption: fmt.Sprintf("New episode: %s. Link in bio. #podcast #newepisode", title),
		NextAction:    "Cut one 60-second clip from the episode's strongest moment and post it natively on one platform.",
		GrowthScore:   "N/A: automated analysis unavailable for this episode",
	}
}
