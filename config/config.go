package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment  string
	HTTPPort     string
	HTTPSPort    string
	Domains      []string
	CertCacheDir string

	// Text generation
	GroqAPIKey   string
	GroqAPIURL   string
	GroqModel    string
	OpenAIAPIKey string

	// Image search / generation
	PexelsAPIKey      string
	ImageGenAPIURL    string
	ImageGenAPIKey    string
	ImageGenPollDelay time.Duration
	ImageGenMaxPolls  int

	// Affiliate
	AmazonTag string

	// Blogger publishing
	BloggerBlogID       string
	BloggerClientID     string
	BloggerClientSecret string
	BloggerRefreshToken string
	TokenCachePath      string

	// Trend sources
	TrendsFeedURL  string
	TrendsBoardURL string

	// Scheduled auto-publish
	ScheduleEnabled   bool
	ScheduleFrequency string
	ScheduleTime      string
	ScheduleCategory  string
	CheckInterval     time.Duration

	// Optional notification / promotion credentials
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string
	NotifyPhoneNumber string

	TwitterConsumerKey    string
	TwitterConsumerSecret string
	TwitterAccessToken    string
	TwitterAccessSecret   string
}

var isTest bool

func init() {
	isTest = os.Getenv("GO_ENVIRONMENT") == "test"
	if !isTest {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}
}

func Load() Config {
	return Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		HTTPPort:     getEnv("HTTP_PORT", "8086"),
		HTTPSPort:    getEnv("HTTPS_PORT", "443"),
		Domains:      []string{getEnv("DOMAIN", "example.com")},
		CertCacheDir: getEnv("CERT_CACHE_DIR", "/etc/letsencrypt/live/example.com"),

		GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
		GroqAPIURL:   getEnv("GROQ_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GroqModel:    getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		PexelsAPIKey:      getEnv("PEXELS_API_KEY", ""),
		ImageGenAPIURL:    getEnv("IMAGE_GEN_API_URL", ""),
		ImageGenAPIKey:    getEnv("IMAGE_GEN_API_KEY", ""),
		ImageGenPollDelay: time.Duration(getEnvAsInt("IMAGE_GEN_POLL_DELAY", 2)) * time.Second,
		ImageGenMaxPolls:  getEnvAsInt("IMAGE_GEN_MAX_POLLS", 30),

		AmazonTag: getEnv("AMAZON_TAG", ""),

		BloggerBlogID:       getEnv("BLOGGER_BLOG_ID", ""),
		BloggerClientID:     getEnv("BLOGGER_CLIENT_ID", ""),
		BloggerClientSecret: getEnv("BLOGGER_CLIENT_SECRET", ""),
		BloggerRefreshToken: getEnv("BLOGGER_REFRESH_TOKEN", ""),
		TokenCachePath:      getEnv("TOKEN_CACHE_PATH", ".blogger_token.json"),

		TrendsFeedURL:  getEnv("TRENDS_FEED_URL", "https://trends.google.com/trending/rss?geo=US"),
		TrendsBoardURL: getEnv("TRENDS_BOARD_URL", ""),

		ScheduleEnabled:   getEnv("SCHEDULE_ENABLED", "false") == "true",
		ScheduleFrequency: getEnv("SCHEDULE_FREQUENCY", "daily"),
		ScheduleTime:      getEnv("SCHEDULE_TIME", "09:00"),
		ScheduleCategory:  getEnv("SCHEDULE_CATEGORY", "skincare"),
		CheckInterval:     time.Duration(getEnvAsInt("CHECK_INTERVAL", 120)) * time.Second,

		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber:  getEnv("TWILIO_FROM_NUMBER", ""),
		NotifyPhoneNumber: getEnv("NOTIFY_PHONE_NUMBER", ""),

		TwitterConsumerKey:    getEnv("TWITTER_CONSUMER_KEY", ""),
		TwitterConsumerSecret: getEnv("TWITTER_CONSUMER_SECRET", ""),
		TwitterAccessToken:    getEnv("TWITTER_ACCESS_TOKEN", ""),
		TwitterAccessSecret:   getEnv("TWITTER_ACCESS_SECRET", ""),
	}
}

// Validate reports every missing required key at once so the operator can fix
// the environment in one pass. Publishing credentials are only required when
// publishing is possible at all (blog ID set or schedule enabled).
func (c Config) Validate() error {
	var missing []string

	if c.GroqAPIKey == "" {
		missing = append(missing, "GROQ_API_KEY")
	}
	if c.PexelsAPIKey == "" {
		missing = append(missing, "PEXELS_API_KEY")
	}
	if c.AmazonTag == "" {
		missing = append(missing, "AMAZON_TAG")
	}

	if c.BloggerBlogID != "" || c.ScheduleEnabled {
		if c.BloggerBlogID == "" {
			missing = append(missing, "BLOGGER_BLOG_ID")
		}
		if c.BloggerClientID == "" {
			missing = append(missing, "BLOGGER_CLIENT_ID")
		}
		if c.BloggerClientSecret == "" {
			missing = append(missing, "BLOGGER_CLIENT_SECRET")
		}
		if c.BloggerRefreshToken == "" {
			missing = append(missing, "BLOGGER_REFRESH_TOKEN")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
