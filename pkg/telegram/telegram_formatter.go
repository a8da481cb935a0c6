package telegram

import (
	"fmt"
	"strings"
)

// StoryDigestEntry is one synthesized story in the post-run digest.
type StoryDigestEntry struct {
	Title        string
	Synthesis    string
	Topics       []string
	ArticleCount int
	Version      int
	IsUpdate     bool
}

// FormatStoryDigest formats newly generated stories into Markdown
// messages for Telegram, splitting so no message exceeds the API limit.
func FormatStoryDigest(entries []StoryDigestEntry) []string {
	if len(entries) == 0 {
		return nil
	}

	const maxLen = 4090
	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		if part == 1 {
			currentMessage.WriteString("📰 *NewsBrief: New Stories* 📰\n\n")
		} else {
			currentMessage.WriteString(fmt.Sprintf("---*NewsBrief: New Stories, Part %d*---\n\n", part))
		}
	}

	startNewPart()

	for _, e := range entries {
		var entryBuilder strings.Builder

		marker := "🆕"
		if e.IsUpdate {
			marker = "🔁"
		}
		entryBuilder.WriteString(fmt.Sprintf("%s *%s*\n", marker, e.Title))
		entryBuilder.WriteString(fmt.Sprintf("💬 %s\n", e.Synthesis))
		if len(e.Topics) > 0 {
			entryBuilder.WriteString(fmt.Sprintf("🏷 %s\n", strings.Join(e.Topics, ", ")))
		}
		if e.IsUpdate {
			entryBuilder.WriteString(fmt.Sprintf("📎 %d sources · v%d\n", e.ArticleCount, e.Version))
		} else {
			entryBuilder.WriteString(fmt.Sprintf("📎 %d sources\n", e.ArticleCount))
		}
		entryBuilder.WriteString("\n")

		entryString := entryBuilder.String()

		if currentMessage.Len()+len(entryString) > maxLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(entryString)
	}

	if currentMessage.Len() > 0 {
		messages = append(messages, currentMessage.String())
	}

	return messages
}
