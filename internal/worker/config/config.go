package config

import (
	"time"

	"newsbrief/pkg/config"
)

// Worker holds worker-specific configuration.
type Worker struct {
	RedisStreamFeedScraperTimeout     time.Duration `mapstructure:"redis_stream_feed_scraper_timeout"`
	RedisStreamStoryGenerationTimeout time.Duration `mapstructure:"redis_stream_story_generation_timeout"`
	RedisStreamCleanupTimeout         time.Duration `mapstructure:"redis_stream_cleanup_timeout"`

	FeedScraperSchedule     string `mapstructure:"feed_scraper_schedule"`
	StoryGenerationSchedule string `mapstructure:"story_generation_schedule"`
	CleanupSchedule         string `mapstructure:"cleanup_schedule"`
}

// Scraper holds feed-ingestion configuration.
type Scraper struct {
	MaxConcurrent    int      `mapstructure:"max_concurrent"`
	MaxItemsPerFeed  int      `mapstructure:"max_items_per_feed"`
	MaxItemAgeInDays int      `mapstructure:"max_item_age_in_days"`
	MinSummaryLength int      `mapstructure:"min_summary_length"`
	BlacklistDomains []string `mapstructure:"blacklist_domains"`
}

// Clustering holds the story clustering knobs.
type Clustering struct {
	TimeWindowHours     int     `mapstructure:"time_window_hours"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	MinArticlesPerStory int     `mapstructure:"min_articles_per_story"`
	OverlapThreshold    float64 `mapstructure:"overlap_threshold"`
	MaxWorkers          int     `mapstructure:"max_workers"`
	TopicBonus          float64 `mapstructure:"topic_bonus"`
	KeywordWeight       float64 `mapstructure:"keyword_weight"`
	EntityWeight        float64 `mapstructure:"entity_weight"`
}

// Synthesis holds context-budget and prompt-shaping configuration.
type Synthesis struct {
	ModelTokenBudgets    map[string]int `mapstructure:"model_token_budgets"`
	DefaultTokenBudget   int            `mapstructure:"default_token_budget"`
	SafetyMargin         float64        `mapstructure:"safety_margin"`
	BasePromptOverhead   int            `mapstructure:"base_prompt_overhead"`
	MaxArticlesPerPrompt int            `mapstructure:"max_articles_per_prompt"`
	MapReduceMinArticles int            `mapstructure:"map_reduce_min_articles"`
	HierarchicalMin      int            `mapstructure:"hierarchical_min_articles"`
	GroupSize            int            `mapstructure:"group_size"`
	CacheTTL             time.Duration  `mapstructure:"cache_ttl"`
	LLMTimeout           time.Duration  `mapstructure:"llm_timeout"`
}

// Retention holds archive/purge windows.
type Retention struct {
	ArchiveActiveAfterDays  int `mapstructure:"archive_active_after_days"`
	DeleteArchivedAfterDays int `mapstructure:"delete_archived_after_days"`
}

// Ollama holds the configuration for a local Ollama server.
type Ollama struct {
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Interest maps a topic label to the keywords that classify it.
type Interest struct {
	Topic    string   `mapstructure:"topic"`
	Keywords []string `mapstructure:"keywords"`
}

// Config holds the full configuration for the worker service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	Worker     Worker          `mapstructure:"worker"`
	Scraper    Scraper         `mapstructure:"scraper"`
	Clustering Clustering      `mapstructure:"clustering"`
	Synthesis  Synthesis       `mapstructure:"synthesis"`
	Retention  Retention       `mapstructure:"retention"`
	Ollama     Ollama          `mapstructure:"ollama"`
	Gemini     Gemini          `mapstructure:"gemini"`
	AI         AI              `mapstructure:"ai"`
	Telegram   Telegram        `mapstructure:"telegram"`
	Interests  []Interest      `mapstructure:"interests"`
}

// Load loads the worker configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Clustering.SimilarityThreshold == 0 {
		cfg.Clustering.SimilarityThreshold = 0.25
	}
	if cfg.Clustering.MinArticlesPerStory == 0 {
		cfg.Clustering.MinArticlesPerStory = 2
	}
	if cfg.Clustering.OverlapThreshold == 0 {
		cfg.Clustering.OverlapThreshold = 0.70
	}
	if cfg.Clustering.MaxWorkers == 0 {
		cfg.Clustering.MaxWorkers = 3
	}
	if cfg.Clustering.TimeWindowHours == 0 {
		cfg.Clustering.TimeWindowHours = 24
	}
	if cfg.Clustering.TopicBonus == 0 {
		cfg.Clustering.TopicBonus = 0.2
	}
	if cfg.Clustering.KeywordWeight == 0 {
		cfg.Clustering.KeywordWeight = 0.4
	}
	if cfg.Clustering.EntityWeight == 0 {
		cfg.Clustering.EntityWeight = 0.6
	}
	if cfg.Synthesis.DefaultTokenBudget == 0 {
		cfg.Synthesis.DefaultTokenBudget = 8000
	}
	if cfg.Synthesis.SafetyMargin == 0 {
		cfg.Synthesis.SafetyMargin = 0.9
	}
	if cfg.Synthesis.BasePromptOverhead == 0 {
		cfg.Synthesis.BasePromptOverhead = 500
	}
	if cfg.Synthesis.MaxArticlesPerPrompt == 0 {
		cfg.Synthesis.MaxArticlesPerPrompt = 8
	}
	if cfg.Synthesis.MapReduceMinArticles == 0 {
		cfg.Synthesis.MapReduceMinArticles = 9
	}
	if cfg.Synthesis.HierarchicalMin == 0 {
		cfg.Synthesis.HierarchicalMin = 16
	}
	if cfg.Synthesis.GroupSize == 0 {
		cfg.Synthesis.GroupSize = 5
	}
	if cfg.Synthesis.CacheTTL == 0 {
		cfg.Synthesis.CacheTTL = 7 * 24 * time.Hour
	}
	if cfg.Synthesis.LLMTimeout == 0 {
		cfg.Synthesis.LLMTimeout = 90 * time.Second
	}
	if cfg.Retention.ArchiveActiveAfterDays == 0 {
		cfg.Retention.ArchiveActiveAfterDays = 7
	}
	if cfg.Retention.DeleteArchivedAfterDays == 0 {
		cfg.Retention.DeleteArchivedAfterDays = 30
	}
}
