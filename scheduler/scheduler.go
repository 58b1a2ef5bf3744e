package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/serisow/glowpress/config"
	"github.com/serisow/glowpress/history"
	"github.com/serisow/glowpress/pipeline"
	"github.com/serisow/glowpress/pipeline_type"
	"github.com/serisow/glowpress/plugin_registry"
)

// ScheduledRun describes when the unattended generate-and-publish pipeline
// should fire. The schedule comes from configuration, not a remote API.
type ScheduledRun struct {
	ScheduleType       string `json:"schedule_type"`
	ScheduledTime      int64  `json:"scheduled_time"`
	RecurringFrequency string `json:"recurring_frequency"`
	RecurringTime      string `json:"recurring_time"`
	LastRunTime        int64  `json:"last_run_time"`
}

// Prevent a second run from starting while the previous one is still going.
var runningRuns sync.Map

type Scheduler struct {
	cfg           config.Config
	checkInterval time.Duration
	registry      *plugin_registry.PluginRegistry
	logger        *slog.Logger
	history       *history.Store
	run           ScheduledRun
	mu            sync.Mutex
}

func New(cfg config.Config, registry *plugin_registry.PluginRegistry, logger *slog.Logger, store *history.Store) *Scheduler {
	return &Scheduler{
		cfg:           cfg,
		checkInterval: cfg.CheckInterval,
		registry:      registry,
		logger:        logger,
		history:       store,
		run: ScheduledRun{
			ScheduleType:       "recurring",
			RecurringFrequency: cfg.ScheduleFrequency,
			RecurringTime:      cfg.ScheduleTime,
		},
	}
}

// Start blocks, checking the schedule until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting publish scheduler",
		slog.String("frequency", s.run.RecurringFrequency),
		slog.String("time", s.run.RecurringTime))

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping publish scheduler")
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			due := s.run.ShouldRun(now)
			s.mu.Unlock()
			if due {
				go s.executeRun(ctx, now)
			}
		}
	}
}

func (s *Scheduler) executeRun(ctx context.Context, startedAt time.Time) {
	if _, loaded := runningRuns.LoadOrStore("scheduled", struct{}{}); loaded {
		return
	}
	defer runningRuns.Delete("scheduled")

	s.mu.Lock()
	s.run.LastRunTime = startedAt.Unix()
	s.mu.Unlock()

	p := pipeline.NewScheduledPipeline(s.cfg)
	_, err := pipeline.ExecutePipeline(ctx, p, s.registry, s.logger)

	if value, ok := p.Context.GetStepOutput("post"); ok {
		if post, ok := value.(pipeline_type.Post); ok {
			s.history.Add(post)
		}
	}

	if err != nil {
		s.logger.Error("Scheduled run failed", slog.String("error", err.Error()))
		s.notifyFailure(ctx, p, err)
		return
	}
	s.logger.Info("Scheduled run completed", slog.String("pipeline_id", p.ID))
}

// notifyFailure texts the operator when an unattended run dies partway. The
// in-pipeline notify step only fires after a successful publish, so the
// failure path sends through the action service directly.
func (s *Scheduler) notifyFailure(ctx context.Context, p *pipeline_type.Pipeline, runErr error) {
	if s.cfg.TwilioAccountSID == "" || s.cfg.NotifyPhoneNumber == "" {
		return
	}
	service, ok := s.registry.GetActionService("sms_notify")
	if !ok {
		return
	}

	step := &pipeline_type.PipelineStep{
		ID:           "notify-failure",
		ActionConfig: "sms_notify",
		ActionDetails: &pipeline_type.ActionDetails{
			Configuration: map[string]interface{}{
				"account_sid": s.cfg.TwilioAccountSID,
				"auth_token":  s.cfg.TwilioAuthToken,
				"from_number": s.cfg.TwilioFromNumber,
				"to_number":   s.cfg.NotifyPhoneNumber,
				"message":     fmt.Sprintf("GlowPress: scheduled run failed: %v", runErr),
			},
		},
	}

	if _, err := service.Execute(ctx, "sms_notify", p.Context, step); err != nil {
		s.logger.Error("Failed to send failure notification", slog.String("error", err.Error()))
	}
}

// ShouldRun reports whether the run is due at now. Recurring schedules use a
// 10-minute window around the configured time so a coarse check interval
// cannot skip a day.
func (sr *ScheduledRun) ShouldRun(now time.Time) bool {
	switch sr.ScheduleType {
	case "one_time":
		scheduledTime := time.Unix(sr.ScheduledTime, 0)
		if sr.LastRunTime == 0 {
			return now.After(scheduledTime) || now.Equal(scheduledTime)
		}
		lastRunTime := time.Unix(sr.LastRunTime, 0)
		return now.After(scheduledTime) && lastRunTime.Before(scheduledTime)
	case "recurring":
		scheduleTime, err := time.Parse("15:04", sr.RecurringTime)
		if err != nil {
			return false
		}

		scheduledDateTime := time.Date(now.Year(), now.Month(), now.Day(), scheduleTime.Hour(), scheduleTime.Minute(), 0, 0, now.Location())
		windowStart := scheduledDateTime.Add(-5 * time.Minute)
		windowEnd := scheduledDateTime.Add(5 * time.Minute)

		isWithinWindow := now.After(windowStart) && now.Before(windowEnd)

		if sr.LastRunTime == 0 {
			return isWithinWindow
		}

		lastRunTime := time.Unix(sr.LastRunTime, 0)
		hasNotRunToday := lastRunTime.Before(now.Truncate(24 * time.Hour))

		switch sr.RecurringFrequency {
		case "daily":
			return isWithinWindow && hasNotRunToday
		case "weekly":
			return now.Weekday() == time.Monday && isWithinWindow && hasNotRunToday
		case "monthly":
			return now.Day() == 1 && isWithinWindow && hasNotRunToday
		}
	}
	return false
}
