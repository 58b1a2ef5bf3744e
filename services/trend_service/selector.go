package trend_service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/serisow/glowpress/pipeline_type"
)

// Candidates below this interest score are ignored when an external source
// supplies them.
const interestThreshold = 40

// seasonalTopics maps calendar months to phrases that are safe to write about
// even when no trend source is reachable.
var seasonalTopics = map[time.Month][]string{
	time.January:   {"winter skin hydration", "new year skincare reset", "dry skin repair routine"},
	time.February:  {"valentine's day makeup look", "lip care routine", "date night glow"},
	time.March:     {"spring skincare transition", "skin barrier repair", "lightweight moisturizer picks"},
	time.April:     {"spring cleaning your vanity", "pollen season skincare", "dewy makeup look"},
	time.May:       {"sunscreen guide", "wedding season beauty prep", "spf reapplication tips"},
	time.June:      {"summer sweat proof makeup", "beach hair care", "minimal summer routine"},
	time.July:      {"glass skin routine", "after sun skin repair", "summer glow serum"},
	time.August:    {"back to school skincare", "humidity proof hair", "oily skin summer fixes"},
	time.September: {"fall skincare transition", "retinol for beginners", "autumn makeup trends"},
	time.October:   {"halloween makeup ideas", "pumpkin enzyme facials", "cozy season self care"},
	time.November:  {"winter prep skincare", "holiday gift guide beauty", "hydrating night routine"},
	time.December:  {"holiday party makeup", "new year skin goals", "festive nail ideas"},
}

// evergreenTopics is the last-resort fallback. Selection never returns empty.
var evergreenTopics = []string{
	"glowing skin routine",
	"skincare routine for beginners",
	"everyday natural makeup",
}

// Selector implements topic selection: explicit topic wins, then seasonal
// candidates merged with external trend data, then the evergreen fallback.
type Selector struct {
	sources map[string]TrendService
	logger  *slog.Logger
	now     func() time.Time
}

func NewSelector(sources map[string]TrendService, logger *slog.Logger) *Selector {
	return &Selector{
		sources: sources,
		logger:  logger,
		now:     time.Now,
	}
}

// WithNow overrides the clock, used by tests to pin the seasonal table.
func (s *Selector) WithNow(now func() time.Time) *Selector {
	s.now = now
	return s
}

// Select returns exactly one topic string. External source failures are logged
// and treated as "no candidates from that source"; they never propagate.
func (s *Selector) Select(ctx context.Context, explicitTopic, category string) string {
	if trimmed := strings.TrimSpace(explicitTopic); trimmed != "" {
		return trimmed
	}

	candidates := s.seasonalCandidates()

	for name, source := range s.sources {
		topics, err := source.Fetch(ctx, category)
		if err != nil {
			s.logger.Warn("Trend source unreachable, skipping",
				slog.String("source", name),
				slog.String("error", err.Error()))
			continue
		}
		for _, t := range topics {
			if t.Interest < interestThreshold || t.Competition == "high" {
				continue
			}
			candidates = append(candidates, t)
		}
	}

	if len(candidates) == 0 {
		day := s.now().YearDay()
		return evergreenTopics[day%len(evergreenTopics)]
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Interest > candidates[j].Interest
	})

	return candidates[0].Text
}

func (s *Selector) seasonalCandidates() []pipeline_type.Topic {
	phrases := seasonalTopics[s.now().Month()]
	candidates := make([]pipeline_type.Topic, 0, len(phrases))
	for i, phrase := range phrases {
		candidates = append(candidates, pipeline_type.Topic{
			Text: phrase,
			// Earlier entries are the stronger seasonal picks.
			Interest:    interestThreshold + len(phrases) - i,
			Competition: "low",
		})
	}
	return candidates
}
