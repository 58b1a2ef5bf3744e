package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		GroqAPIKey:   "gk",
		PexelsAPIKey: "pk",
		AmazonTag:    "glowpress-20",
	}
}

func TestValidateReportsAllMissingKeys(t *testing.T) {
	err := Config{}.Validate()
	if err == nil {
		t.Fatal("expected error for empty config")
	}
	for _, key := range []string{"GROQ_API_KEY", "PEXELS_API_KEY", "AMAZON_TAG"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error missing %s: %v", key, err)
		}
	}
}

func TestValidateOKWithoutPublishing(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateRequiresBloggerCredsWhenBlogIDSet(t *testing.T) {
	cfg := validConfig()
	cfg.BloggerBlogID = "blog-1"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing Blogger credentials")
	}
	for _, key := range []string{"BLOGGER_CLIENT_ID", "BLOGGER_CLIENT_SECRET", "BLOGGER_REFRESH_TOKEN"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error missing %s: %v", key, err)
		}
	}
}

func TestValidateRequiresBloggerCredsWhenScheduleEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.ScheduleEnabled = true

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error when scheduling without Blogger credentials")
	}
	if !strings.Contains(err.Error(), "BLOGGER_BLOG_ID") {
		t.Errorf("error missing BLOGGER_BLOG_ID: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.GroqAPIURL == "" {
		t.Error("GroqAPIURL default missing")
	}
	if cfg.TrendsFeedURL == "" {
		t.Error("TrendsFeedURL default missing")
	}
	if cfg.ImageGenMaxPolls <= 0 {
		t.Error("ImageGenMaxPolls default missing")
	}
	if cfg.CheckInterval <= 0 {
		t.Error("CheckInterval default missing")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("AMAZON_TAG", "custom-21")
	t.Setenv("SCHEDULE_ENABLED", "true")
	t.Setenv("IMAGE_GEN_MAX_POLLS", "7")

	cfg := Load()
	if cfg.AmazonTag != "custom-21" {
		t.Errorf("AmazonTag = %q", cfg.AmazonTag)
	}
	if !cfg.ScheduleEnabled {
		t.Error("ScheduleEnabled not read from environment")
	}
	if cfg.ImageGenMaxPolls != 7 {
		t.Errorf("ImageGenMaxPolls = %d", cfg.ImageGenMaxPolls)
	}
}
