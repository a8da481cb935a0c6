package service

import (
	"strings"
	"unicode"
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "has": {}, "have": {}, "his": {},
	"how": {}, "its": {}, "new": {}, "now": {}, "will": {}, "with": {},
	"this": {}, "that": {}, "from": {}, "they": {}, "their": {}, "them": {},
	"been": {}, "more": {}, "when": {}, "what": {}, "who": {}, "why": {},
	"says": {}, "said": {}, "after": {}, "over": {}, "into": {}, "about": {},
	"than": {}, "could": {}, "would": {}, "should": {}, "also": {}, "just": {},
	"some": {}, "other": {}, "while": {}, "where": {}, "which": {}, "here": {},
	"there": {}, "being": {}, "during": {}, "before": {}, "between": {},
	"amid": {}, "against": {}, "under": {}, "first": {}, "report": {},
	"reports": {}, "announces": {}, "announced": {},
}

const minKeywordLength = 3

// tokenize lowercases, strips punctuation, and filters stop words and
// short tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < minKeywordLength {
			continue
		}
		if _, ok := stopWords[field]; ok {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

// ExtractKeywords builds the weighted keyword multiset of an article
// from its title and summary. Title tokens and title bigrams count
// double, which empirically keeps headline overlap the dominant signal.
func ExtractKeywords(title, summary string) map[string]int {
	keywords := make(map[string]int)

	titleTokens := tokenize(title)
	for _, token := range titleTokens {
		keywords[token] += 2
	}
	for _, bigram := range bigrams(titleTokens) {
		keywords[bigram] += 2
	}

	summaryTokens := tokenize(summary)
	for _, token := range summaryTokens {
		keywords[token]++
	}
	for _, bigram := range bigrams(summaryTokens) {
		keywords[bigram]++
	}

	return keywords
}

func bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	result := make([]string, 0, len(tokens)-1)
	for i := 0; i < len(tokens)-1; i++ {
		result = append(result, tokens[i]+" "+tokens[i+1])
	}
	return result
}
