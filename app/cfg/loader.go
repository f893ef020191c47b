package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port           string   `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl        string   `long:"base-url" env:"BASE_URL" description:"Public base URL for absolute audio links (e.g., https://digest.example.com)"`
	AllowedOrigins []string `long:"allowed-origins" env:"ALLOWED_ORIGINS" env-delim:"," default:"http://localhost:3000" default:"http://127.0.0.1:3000" description:"Origins allowed by CORS"`
	APIAccessKey   string   `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for admin endpoints (optional)"`

	// Storage configuration
	DataDir        string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Root directory for the article cache and audio files"`
	CacheBackend   string `long:"cache-backend" env:"CACHE_BACKEND" default:"json" choice:"json" choice:"sqlite" choice:"redis" description:"Article cache backend"`
	CacheFile      string `long:"cache-file" env:"CACHE_FILE" description:"JSON cache path (default <data-dir>/articles.json)"`
	SQLitePath     string `long:"sqlite-path" env:"SQLITE_PATH" description:"SQLite cache path (default <data-dir>/articles.db)"`
	RedisAddr      string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address"`
	RedisKey       string `long:"redis-key" env:"REDIS_KEY" default:"quickdigest:articles" description:"Redis key holding the article cache"`
	AudioDir       string `long:"audio-dir" env:"AUDIO_DIR" description:"Rendered audio directory (default <data-dir>/audio)"`
	CategoriesFile string `long:"categories-file" env:"CATEGORIES_FILE" description:"YAML file overriding the category feed table"`

	// Pipeline configuration
	UserAgent      string `long:"user-agent" env:"USER_AGENT" default:"quickdigest-bot/1.0" description:"User agent string for HTTP requests"`
	FetchTimeout   int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Timeout in seconds for each outbound fetch"`
	FeedLimit      int    `long:"feed-limit" env:"FEED_LIMIT" default:"40" description:"Entries read per feed"`
	ExtractWorkers int    `long:"extract-workers" env:"EXTRACT_WORKERS" default:"4" description:"Concurrent article extractions per aggregation"`
	SummaryWorkers int    `long:"summary-workers" env:"SUMMARY_WORKERS" default:"2" description:"Concurrent article summaries per digest"`
	GeminiAPIKey   string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key; the offline extractive engine is used when unset"`
	GeminiModel    string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-1.5-flash" description:"Gemini model name"`
	TTSEndpoint    string `long:"tts-endpoint" env:"TTS_ENDPOINT" default:"https://translate.google.com/translate_tts" description:"Text-to-speech endpoint"`

	// Background tasks
	WorkerCount  int `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for cache refreshes"`
	WarmInterval int `long:"warm-interval" env:"WARM_INTERVAL" default:"0" description:"Seconds between background cache refreshes (0 disables)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses args and the environment. It returns nil, nil when help
// was requested.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Cfg{
		Port:           raw.Port,
		BaseUrl:        strings.TrimRight(raw.BaseUrl, "/"),
		AllowedOrigins: trimAll(raw.AllowedOrigins),
		APIAccessKey:   raw.APIAccessKey,
		DataDir:        raw.DataDir,
		CacheBackend:   raw.CacheBackend,
		CacheFile:      cmp.Or(raw.CacheFile, filepath.Join(raw.DataDir, "articles.json")),
		SQLitePath:     cmp.Or(raw.SQLitePath, filepath.Join(raw.DataDir, "articles.db")),
		RedisAddr:      raw.RedisAddr,
		RedisKey:       raw.RedisKey,
		AudioDir:       cmp.Or(raw.AudioDir, filepath.Join(raw.DataDir, "audio")),
		CategoriesFile: raw.CategoriesFile,
		UserAgent:      raw.UserAgent,
		FetchTimeout:   time.Duration(raw.FetchTimeout) * time.Second,
		FeedLimit:      raw.FeedLimit,
		ExtractWorkers: raw.ExtractWorkers,
		SummaryWorkers: raw.SummaryWorkers,
		GeminiAPIKey:   raw.GeminiAPIKey,
		GeminiModel:    raw.GeminiModel,
		TTSEndpoint:    raw.TTSEndpoint,
		WorkerCount:    raw.WorkerCount,
		WarmInterval:   time.Duration(raw.WarmInterval) * time.Second,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func validate(raw *rawCfg) error {
	positiveFields := map[string]int{
		"fetch timeout":   raw.FetchTimeout,
		"feed limit":      raw.FeedLimit,
		"extract workers": raw.ExtractWorkers,
		"summary workers": raw.SummaryWorkers,
		"worker count":    raw.WorkerCount,
	}

	for fieldName, fieldValue := range positiveFields {
		if fieldValue <= 0 {
			return fmt.Errorf("%s must be positive", fieldName)
		}
	}

	if raw.WarmInterval < 0 {
		return fmt.Errorf("warm interval must be non-negative")
	}

	return nil
}

func trimAll(values []string) []string {
	trimmed := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			trimmed = append(trimmed, v)
		}
	}
	return trimmed
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
