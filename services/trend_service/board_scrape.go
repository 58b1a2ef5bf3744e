package trend_service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/serisow/glowpress/pipeline_type"
)

// BoardScrapeService scrapes a Pinterest-style trends board page. Each trend
// entry is expected to carry the phrase text plus optional data-interest and
// data-competition attributes; pages without the attributes still yield
// candidates with rank-based interest.
type BoardScrapeService struct {
	boardURL   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewBoardScrapeService(boardURL string, logger *slog.Logger) *BoardScrapeService {
	return &BoardScrapeService{
		boardURL:   boardURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

func (s *BoardScrapeService) Fetch(ctx context.Context, category string) ([]pipeline_type.Topic, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.boardURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; GlowPress/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching trends board: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends board returned non-200 status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error parsing trends board HTML: %w", err)
	}

	var topics []pipeline_type.Topic
	doc.Find("[data-trend], .trend-item, li.trend").Each(func(i int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if attr, ok := sel.Attr("data-trend"); ok && strings.TrimSpace(attr) != "" {
			text = strings.TrimSpace(attr)
		}
		if text == "" || !matchesBeauty(text, category) {
			return
		}

		// Later rows rank lower when the page carries no explicit score.
		interest := 100 - i*5
		if attr, ok := sel.Attr("data-interest"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(attr)); err == nil {
				interest = n
			}
		}

		competition := "medium"
		if attr, ok := sel.Attr("data-competition"); ok && strings.TrimSpace(attr) != "" {
			competition = strings.ToLower(strings.TrimSpace(attr))
		}

		topics = append(topics, pipeline_type.Topic{
			Text:        strings.ToLower(text),
			Interest:    interest,
			Competition: competition,
		})
	})

	s.logger.Debug("Trends board scraped",
		slog.String("url", s.boardURL),
		slog.Int("matched", len(topics)))

	return topics, nil
}
