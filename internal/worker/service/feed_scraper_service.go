package service

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"newsbrief/internal/entity"
	"newsbrief/internal/worker/config"
	"newsbrief/internal/worker/dto"
	"newsbrief/internal/worker/repository"
	"newsbrief/pkg/common"
	"newsbrief/pkg/logger"
	"newsbrief/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/redis/go-redis/v9"
)

// FeedScraperService ingests subscribed feeds into the article store.
type FeedScraperService interface {
	ProcessTask(ctx context.Context)
	ScrapeAll(ctx context.Context, feedIDs []uint) error
}

type feedScrape struct {
	FeedURL    string   `json:"feed_url"`
	NewItems   int      `json:"new_items"`
	Updated    int      `json:"updated_items"`
	FailedURLs []string `json:"failed_urls"`
	Errors     []string `json:"errors"`
}

// NewFeedScraperService creates a new FeedScraperService.
func NewFeedScraperService(
	cfg *config.Config,
	log *logger.Logger,
	redisClient *redis.Client,
	feedRepo repository.FeedRepository,
	articleRepo repository.ArticleRepository,
	cacheRepo repository.SynthesisCacheRepository,
	classifier *TopicClassifier,
) FeedScraperService {
	return &feedScraperService{
		cfg:         cfg,
		logger:      log,
		redisClient: redisClient,
		feedRepo:    feedRepo,
		articleRepo: articleRepo,
		cacheRepo:   cacheRepo,
		classifier:  classifier,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type feedScraperService struct {
	cfg         *config.Config
	logger      *logger.Logger
	redisClient *redis.Client
	feedRepo    repository.FeedRepository
	articleRepo repository.ArticleRepository
	cacheRepo   repository.SynthesisCacheRepository
	classifier  *TopicClassifier
	client      *http.Client
}

// ProcessTask reads one feed scraper job from the stream and runs it.
func (s *feedScraperService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamFeedScraper, ">"},
		Count:    1,
		Block:    2 * time.Second,
	}).Result()
	if err != nil {
		if err == context.Canceled || err == redis.Nil {
			return
		}
		s.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}
	message := streams[0].Messages[0]

	// Every consumed message is acknowledged, success or not: poison
	// payloads cannot improve on retry and failed runs are already
	// logged, so nothing may sit in the pending list forever.
	defer func() {
		if err := ackAndDelete(ctx, s.redisClient, common.RedisStreamFeedScraper, message.ID); err != nil {
			s.logger.Error("Failed to acknowledge feed scraper task", logger.ErrorField(err), logger.Field("message_id", message.ID))
		}
	}()

	payload, ok := message.Values["payload"].(string)
	if !ok {
		s.logger.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", message.ID))
		return
	}

	var streamData dto.StreamDataFeedScraper
	if err := json.Unmarshal([]byte(payload), &streamData); err != nil {
		s.logger.Error("Failed to unmarshal task data", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	if err := s.ScrapeAll(ctx, streamData.FeedIDs); err != nil {
		s.logger.Error("Feed scrape failed", logger.ErrorField(err), logger.Field("message_id", message.ID))
	}
}

// ScrapeAll fetches every requested feed concurrently, bounded by the
// configured worker count. An empty feedIDs slice means all active feeds.
func (s *feedScraperService) ScrapeAll(ctx context.Context, feedIDs []uint) error {
	feeds, err := s.feedRepo.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to get active feeds: %w", err)
	}
	if len(feedIDs) > 0 {
		wanted := make(map[uint]bool, len(feedIDs))
		for _, id := range feedIDs {
			wanted[id] = true
		}
		var filtered []entity.Feed
		for _, feed := range feeds {
			if wanted[feed.ID] {
				filtered = append(filtered, feed)
			}
		}
		feeds = filtered
	}
	if len(feeds) == 0 {
		s.logger.Info("No active feeds to scrape")
		return nil
	}

	maxConcurrent := s.cfg.Scraper.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 3
	}
	semaphore := make(chan struct{}, maxConcurrent)

	var results []feedScrape
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, feed := range feeds {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		wg.Add(1)
		feed := feed
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result := s.scrapeFeed(ctx, feed)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		})
	}
	wg.Wait()

	resultJSON, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	s.logger.Info("Feed scrape completed",
		logger.IntField("feeds", len(feeds)),
		logger.StringField("results", string(resultJSON)))
	return nil
}

func (s *feedScraperService) scrapeFeed(ctx context.Context, feed entity.Feed) feedScrape {
	result := feedScrape{
		FeedURL:    feed.URL,
		FailedURLs: []string{},
		Errors:     []string{},
	}

	s.logger.Info("Processing feed", logger.StringField("url", feed.URL))
	fp := gofeed.NewParser()
	parsed, err := fp.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		s.logger.Error("Failed to parse feed", logger.ErrorField(err), logger.StringField("url", feed.URL))
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	sort.Slice(parsed.Items, func(i, j int) bool {
		if parsed.Items[i].PublishedParsed == nil || parsed.Items[j].PublishedParsed == nil {
			return false
		}
		return parsed.Items[i].PublishedParsed.After(*parsed.Items[j].PublishedParsed)
	})

	newItems, err := s.filterExistingItems(ctx, parsed.Items)
	if err != nil {
		s.logger.Error("Failed to filter existing items", logger.ErrorField(err), logger.StringField("url", feed.URL))
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	s.logger.Info("Filtered feed items",
		logger.IntField("original_count", len(parsed.Items)),
		logger.IntField("filtered_count", len(newItems)),
		logger.StringField("url", feed.URL))

	maxItems := s.cfg.Scraper.MaxItemsPerFeed
	for _, item := range newItems {
		if !utils.ShouldContinue(ctx, s.logger) {
			return result
		}
		if maxItems > 0 && result.NewItems >= maxItems {
			break
		}

		created, updated, err := s.processItem(ctx, feed, item)
		if err != nil {
			result.FailedURLs = append(result.FailedURLs, item.Link)
			result.Errors = append(result.Errors, err.Error())
			s.logger.Error("Failed to process feed item", logger.ErrorField(err), logger.StringField("title", item.Title))
			continue
		}
		if created {
			result.NewItems++
		}
		if updated {
			result.Updated++
		}
	}

	if err := s.feedRepo.UpdateLastFetched(ctx, feed.ID, utils.TimeNowUTC()); err != nil {
		s.logger.Error("Failed to update feed fetch time", logger.ErrorField(err), logger.StringField("url", feed.URL))
	}

	return result
}

// filterExistingItems drops items already ingested (by hash identifier)
// and items past the configured age limit.
func (s *feedScraperService) filterExistingItems(ctx context.Context, items []*gofeed.Item) ([]*gofeed.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	hashes := make([]string, 0, len(items))
	for _, item := range items {
		hashes = append(hashes, itemHash(item))
	}

	existing, err := s.articleRepo.FindExistingHashes(ctx, hashes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing articles: %w", err)
	}

	maxAge := s.cfg.Scraper.MaxItemAgeInDays
	cutoff := utils.TimeNowUTC().Add(-time.Duration(maxAge*24) * time.Hour)

	var filtered []*gofeed.Item
	for _, item := range items {
		if existing[itemHash(item)] {
			continue
		}
		if maxAge > 0 && item.PublishedParsed != nil && item.PublishedParsed.Before(cutoff) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

// processItem ingests one feed item. A hash miss with a known link means
// the publisher revised the item: the stored article is refreshed and
// any synthesis cache entries covering it are invalidated.
func (s *feedScraperService) processItem(ctx context.Context, feed entity.Feed, item *gofeed.Item) (created, updated bool, err error) {
	parsedURL, err := url.Parse(item.Link)
	if err != nil {
		return false, false, fmt.Errorf("failed to parse item link: %w", err)
	}
	if utils.ContainsString(s.cfg.Scraper.BlacklistDomains, parsedURL.Hostname()) {
		s.logger.Warn("Skip item from blacklisted domain", logger.StringField("domain", parsedURL.Hostname()))
		return false, false, nil
	}

	summary := summaryText(item)
	var rawContent string
	if len(summary) < s.cfg.Scraper.MinSummaryLength {
		rawContent, err = s.extractContent(ctx, item.Link)
		if err != nil {
			s.logger.Warn("Failed to extract article content, keeping feed summary",
				logger.ErrorField(err), logger.StringField("url", item.Link))
		} else if summary == "" {
			summary = utils.Truncate(rawContent, 500)
		}
	}

	article := entity.Article{
		FeedID:         feed.ID,
		Title:          utils.CleanToValidUTF8(item.Title),
		Link:           item.Link,
		Summary:        summary,
		RawContent:     rawContent,
		Published:      item.PublishedParsed,
		HashIdentifier: itemHash(item),
		Source:         parsedURL.Hostname(),
	}
	article.Topic = s.classifier.Classify(article.Title, article.Summary)
	article.RankScore = RankScore(feed.Credibility, article.Published, utils.TimeNowUTC())

	wrote, err := s.articleRepo.CreateIgnoreConflict(ctx, &article)
	if err != nil {
		return false, false, fmt.Errorf("failed to create article: %w", err)
	}
	if wrote {
		return true, false, nil
	}

	prior, err := s.articleRepo.FindByLink(ctx, item.Link)
	if err != nil || prior == nil {
		return false, false, err
	}
	if prior.Summary == summary && (rawContent == "" || prior.RawContent == rawContent) {
		return false, false, nil
	}

	if err := s.articleRepo.UpdateContent(ctx, prior.ID, rawContent, summary); err != nil {
		return false, false, fmt.Errorf("failed to update article content: %w", err)
	}
	invalidated, err := s.cacheRepo.InvalidateForArticles(ctx, []uint{prior.ID})
	if err != nil {
		s.logger.Error("Failed to invalidate synthesis cache", logger.ErrorField(err), logger.Field("article_id", prior.ID))
	} else if invalidated > 0 {
		s.logger.Info("Invalidated synthesis cache entries for revised article",
			logger.Field("article_id", prior.ID),
			logger.Field("entries", invalidated))
	}
	return false, true, nil
}

// extractContent fetches the article page and reduces it to readable text.
func (s *feedScraperService) extractContent(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article content: %w", err)
	}
	readable, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse readable content: %w", err)
	}

	content := strings.Join(strings.Fields(readable.Text()), " ")
	return utils.SafeText(content), nil
}

// summaryText strips any markup from the feed item description.
func summaryText(item *gofeed.Item) string {
	description := item.Description
	if description == "" {
		description = item.Content
	}
	if description == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return utils.CleanToValidUTF8(strings.TrimSpace(description))
	}
	return utils.CleanToValidUTF8(strings.TrimSpace(doc.Text()))
}

func itemHash(item *gofeed.Item) string {
	sum := md5.Sum([]byte(item.Link + "|" + item.Published))
	return hex.EncodeToString(sum[:])
}
