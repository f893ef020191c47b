package cfg

import "time"

type Cfg struct {
	// Server configuration
	Port           string
	BaseUrl        string
	AllowedOrigins []string
	APIAccessKey   string

	// Storage configuration
	DataDir        string
	CacheBackend   string
	CacheFile      string
	SQLitePath     string
	RedisAddr      string
	RedisKey       string
	AudioDir       string
	CategoriesFile string

	// Pipeline configuration
	UserAgent      string
	FetchTimeout   time.Duration
	FeedLimit      int
	ExtractWorkers int
	SummaryWorkers int
	GeminiAPIKey   string
	GeminiModel    string
	TTSEndpoint    string

	// Background tasks
	WorkerCount  int
	WarmInterval time.Duration

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
