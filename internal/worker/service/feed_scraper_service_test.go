package service

import (
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
)

func TestItemHashDeterministic(t *testing.T) {
	item := &gofeed.Item{Link: "https://example.com/a", Published: "Mon, 02 Jan 2026 15:04:05 GMT"}

	assert.Equal(t, itemHash(item), itemHash(item))
	assert.NotEqual(t, itemHash(item), itemHash(&gofeed.Item{Link: "https://example.com/b", Published: item.Published}))
	assert.NotEqual(t, itemHash(item), itemHash(&gofeed.Item{Link: item.Link, Published: "Tue, 03 Jan 2026 09:00:00 GMT"}))
}

func TestSummaryTextStripsMarkup(t *testing.T) {
	item := &gofeed.Item{Description: "<p>Plain <b>bold</b> text</p>"}
	assert.Equal(t, "Plain bold text", summaryText(item))
}

func TestSummaryTextFallsBackToContent(t *testing.T) {
	item := &gofeed.Item{Content: "<div>Body only</div>"}
	assert.Equal(t, "Body only", summaryText(item))
}

func TestSummaryTextEmptyItem(t *testing.T) {
	assert.Equal(t, "", summaryText(&gofeed.Item{}))
}
