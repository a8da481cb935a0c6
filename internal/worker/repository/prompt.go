package repository

import (
	"fmt"
	"strings"

	"newsbrief/internal/entity"
	"newsbrief/internal/worker/dto"
	"newsbrief/pkg/utils"
)

const maxSummaryCharsInPrompt = 1200

func formatArticlesForPrompt(articles []entity.Article) string {
	var sb strings.Builder
	for i, a := range articles {
		publishedStr := "N/A"
		if a.Published != nil {
			publishedStr = a.Published.Format("2006-01-02 15:04")
		}
		sb.WriteString(fmt.Sprintf("[%d] Title: %s\n", i+1, a.Title))
		sb.WriteString(fmt.Sprintf("    Summary: %s\n", utils.Truncate(a.BestSummary(), maxSummaryCharsInPrompt)))
		sb.WriteString(fmt.Sprintf("    Source: %s\n", a.Source))
		sb.WriteString(fmt.Sprintf("    Published: %s\n\n", publishedStr))
	}
	return sb.String()
}

// BuildSynthesizeClusterPrompt asks the model to merge one article
// cluster into a single aggregated story.
func BuildSynthesizeClusterPrompt(articles []entity.Article) string {
	promptTemplate := `You are a news editor. Below is a cluster of related articles covering the same underlying story:

%s
Synthesize these articles into ONE aggregated story. Rewrite the title for clarity, never clickbait. The narrative must combine the key facts from ALL articles: what happened, the reaction, and the context.

Respond with JSON only, no other text:

{
  "title": "clear neutral headline",
  "synthesis": "2-4 paragraph narrative combining all articles",
  "key_points": ["at least 3 concise key points"],
  "why_it_matters": "1-2 sentences on the broader significance",
  "topics": ["topic labels"],
  "entities": ["companies, products, people mentioned across the cluster"]
}`

	return fmt.Sprintf(promptTemplate, formatArticlesForPrompt(articles))
}

// BuildGroupSummaryPrompt is the map pass over one article group for
// large clusters.
func BuildGroupSummaryPrompt(articles []entity.Article) string {
	promptTemplate := `You are a news editor. Summarize the following group of related articles into one intermediate summary that a second pass will merge with other group summaries:

%s
Respond with JSON only, no other text:

{
  "summary": "1 paragraph covering the group's combined facts",
  "key_facts": ["concise factual statements"],
  "entities": ["companies, products, people mentioned"]
}`

	return fmt.Sprintf(promptTemplate, formatArticlesForPrompt(articles))
}

// BuildReduceSummariesPrompt merges the map-pass outputs into the final
// story payload.
func BuildReduceSummariesPrompt(summaries []dto.GroupSummary) string {
	var sb strings.Builder
	for i, s := range summaries {
		sb.WriteString(fmt.Sprintf("Group %d summary: %s\n", i+1, s.Summary))
		for _, fact := range s.KeyFacts {
			sb.WriteString(fmt.Sprintf("  - %s\n", fact))
		}
		if len(s.Entities) > 0 {
			sb.WriteString(fmt.Sprintf("  Entities: %s\n", strings.Join(s.Entities, ", ")))
		}
		sb.WriteString("\n")
	}

	promptTemplate := `You are a news editor. The following are intermediate summaries of groups of related articles, all covering the same underlying story:

%s
Merge them into ONE aggregated story. Respond with JSON only, no other text:

{
  "title": "clear neutral headline",
  "synthesis": "2-4 paragraph narrative combining all groups",
  "key_points": ["at least 3 concise key points"],
  "why_it_matters": "1-2 sentences on the broader significance",
  "topics": ["topic labels"],
  "entities": ["companies, products, people mentioned"]
}`

	return fmt.Sprintf(promptTemplate, sb.String())
}

// BuildExtractEntitiesPrompt asks the model for the five entity
// categories of one article, capped at 5 names each.
func BuildExtractEntitiesPrompt(title, summary string) string {
	promptTemplate := `Extract the named entities from this news article. List at most 5 per category; use an empty list when a category does not apply.

Title: %s
Summary: %s

Respond with JSON only, no other text:

{
  "companies": [],
  "products": [],
  "people": [],
  "technologies": [],
  "locations": []
}`

	return fmt.Sprintf(promptTemplate, title, utils.Truncate(summary, maxSummaryCharsInPrompt))
}
