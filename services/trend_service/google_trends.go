package trend_service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/serisow/glowpress/pipeline_type"
)

// beautyKeywords filters the general trends feed down to topics this blog can
// actually write about.
var beautyKeywords = []string{
	"skin", "skincare", "beauty", "makeup", "hair", "serum", "spf", "sunscreen",
	"moisturizer", "cleanser", "retinol", "niacinamide", "nails", "fashion",
	"glow", "routine", "lip", "mask", "fragrance", "perfume",
}

// GoogleTrendsService reads the public Google Trends RSS feed and converts
// the ht:approx_traffic extension into an interest score.
type GoogleTrendsService struct {
	feedURL string
	parser  *gofeed.Parser
	logger  *slog.Logger
}

func NewGoogleTrendsService(feedURL string, logger *slog.Logger) *GoogleTrendsService {
	parser := gofeed.NewParser()
	// gofeed's default client has no timeout; a hung feed fetch would stall
	// a scheduled run indefinitely.
	parser.Client = &http.Client{Timeout: 30 * time.Second}

	return &GoogleTrendsService{
		feedURL: feedURL,
		parser:  parser,
		logger:  logger,
	}
}

func (s *GoogleTrendsService) Fetch(ctx context.Context, category string) ([]pipeline_type.Topic, error) {
	feed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching trends feed: %w", err)
	}

	var topics []pipeline_type.Topic
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" || !matchesBeauty(title, category) {
			continue
		}
		topics = append(topics, pipeline_type.Topic{
			Text:        strings.ToLower(title),
			Interest:    approxTraffic(item),
			Competition: "medium",
		})
	}

	s.logger.Debug("Google Trends feed parsed",
		slog.Int("items", len(feed.Items)),
		slog.Int("matched", len(topics)))

	return topics, nil
}

func matchesBeauty(title, category string) bool {
	lower := strings.ToLower(title)
	if category != "" && strings.Contains(lower, strings.ToLower(category)) {
		return true
	}
	for _, kw := range beautyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// approxTraffic parses values like "200+" or "1,000+" from the ht namespace.
func approxTraffic(item *gofeed.Item) int {
	exts, ok := item.Extensions["ht"]
	if !ok {
		return 0
	}
	traffic, ok := exts["approx_traffic"]
	if !ok || len(traffic) == 0 {
		return 0
	}

	raw := strings.TrimSpace(traffic[0].Value)
	raw = strings.TrimSuffix(raw, "+")
	raw = strings.ReplaceAll(raw, ",", "")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
