package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Catalog
		CatalogRefresh
		Cache
		Listing
		Library
		Scrape
		Tasks
	}

	HTTP struct {
		Port           int32
		Host           string
		RequestTimeout time.Duration // deadline wrapped around provider calls
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Catalog struct {
		DataDir       string // snapshot directory
		MaxAge        time.Duration
		FirstPageSize int
		FullPageSize  int
	}
	CatalogRefresh struct {
		Enabled  bool
		Schedule string // Cron format: "0 4 * * *" = daily at 04:00
	}
	Cache struct {
		ChapterLists int
		ChapterHTML  int
		Freshness    int
	}
	Listing struct {
		MinResults int // collector stops once this many novels were gathered
		MaxPages   int // collector page cap per request
		PageSize   int // in-memory catalog page size
	}
	Library struct {
		LookupDownloads bool // include "Downloads" in title status lookups
	}
	Scrape struct {
		Timeout     time.Duration
		MinInterval time.Duration
		UserAgent   string
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("request_timeout", "90s")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Catalog snapshot defaults
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("catalog_max_age", "24h")
	v.SetDefault("catalog_first_page_size", 200)
	v.SetDefault("catalog_full_page_size", 10000)
	v.SetDefault("catalog_refresh_enabled", true)
	v.SetDefault("catalog_refresh_schedule", "0 4 * * *") // Daily at 04:00

	// In-memory cache capacities
	v.SetDefault("cache_chapter_lists", 20)
	v.SetDefault("cache_chapter_html", 20)
	v.SetDefault("cache_freshness", 50)

	// Listing defaults
	v.SetDefault("listing_min_results", 11)
	v.SetDefault("listing_max_pages", 10)
	v.SetDefault("listing_page_size", 30)

	v.SetDefault("library_lookup_downloads", false)

	// Scraper defaults
	v.SetDefault("scrape_timeout", "60s")
	v.SetDefault("scrape_min_interval", "250ms")
	v.SetDefault("scrape_user_agent", "")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "10m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Catalog: Catalog{
			DataDir:       v.GetString("DATA_DIR"),
			MaxAge:        v.GetDuration("CATALOG_MAX_AGE"),
			FirstPageSize: v.GetInt("CATALOG_FIRST_PAGE_SIZE"),
			FullPageSize:  v.GetInt("CATALOG_FULL_PAGE_SIZE"),
		},
		CatalogRefresh: CatalogRefresh{
			Enabled:  v.GetBool("CATALOG_REFRESH_ENABLED"),
			Schedule: v.GetString("CATALOG_REFRESH_SCHEDULE"),
		},
		Cache: Cache{
			ChapterLists: v.GetInt("CACHE_CHAPTER_LISTS"),
			ChapterHTML:  v.GetInt("CACHE_CHAPTER_HTML"),
			Freshness:    v.GetInt("CACHE_FRESHNESS"),
		},
		Listing: Listing{
			MinResults: v.GetInt("LISTING_MIN_RESULTS"),
			MaxPages:   v.GetInt("LISTING_MAX_PAGES"),
			PageSize:   v.GetInt("LISTING_PAGE_SIZE"),
		},
		Library: Library{
			LookupDownloads: v.GetBool("LIBRARY_LOOKUP_DOWNLOADS"),
		},
		Scrape: Scrape{
			Timeout:     v.GetDuration("SCRAPE_TIMEOUT"),
			MinInterval: v.GetDuration("SCRAPE_MIN_INTERVAL"),
			UserAgent:   v.GetString("SCRAPE_USER_AGENT"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}
