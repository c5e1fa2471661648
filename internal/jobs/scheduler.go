package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"LotusLedger/internal/config"
	"LotusLedger/internal/logger"
	"LotusLedger/internal/serviceiface"
	"LotusLedger/internal/staging"

	"github.com/robfig/cron/v3"
)

// ReaperConfig controls the staged-upload reaper job.
type ReaperConfig struct {
	Schedule string
	MaxAge   time.Duration
	TimeZone string
}

func NewDefaultReaperConfig() *ReaperConfig {
	return &ReaperConfig{
		Schedule: config.DefaultReapSchedule,
		MaxAge:   config.DefaultSessionTTL,
		TimeZone: config.DefaultTimeZone,
	}
}

// RunReaperScheduler schedules reaper.Run and starts the cron runner.
func RunReaperScheduler(cfg *ReaperConfig, reaper *staging.Reaper) (*cron.Cron, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = config.DefaultReapSchedule
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = config.DefaultSessionTTL
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = config.DefaultTimeZone
	}
	reaper.MaxAge = cfg.MaxAge

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() { reapOnce(reaper) })
	if err != nil {
		return nil, fmt.Errorf("unable to schedule upload reaper: %w", err)
	}
	c.Start()
	audit(fmt.Sprintf("Upload reaper scheduled (%s, max age %s)", cfg.Schedule, cfg.MaxAge))
	return c, nil
}

func reapOnce(reaper *staging.Reaper) ReapSummary {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	res := reaper.Run(ctx)
	for _, err := range res.Errors {
		audit(fmt.Sprintf("Upload reaper error: %v", err))
	}
	if res.Sessions > 0 || res.Orphans > 0 {
		audit(fmt.Sprintf("Upload reaper removed %d sessions and %d orphaned files", res.Sessions, res.Orphans))
	}
	return ReapSummary{Sessions: res.Sessions, Orphans: res.Orphans, Errors: len(res.Errors)}
}

type ReapSummary struct {
	Sessions int
	Orphans  int
	Errors   int
}

func audit(msg string) {
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(msg)
		return
	}
	log.Println("[INFO]", msg)
}

// CronService runs the background jobs listed under the cron entry in
// services.yaml.
type CronService struct {
	config map[string]interface{}
	reaper *staging.Reaper
	cron   *cron.Cron
}

func NewCronService(cfg map[string]interface{}, reaper *staging.Reaper) serviceiface.Service {
	return &CronService{config: cfg, reaper: reaper}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")
	rc := NewDefaultReaperConfig()
	if s.config != nil {
		rc.Schedule = config.String(s.config, "reap_schedule", rc.Schedule)
		rc.MaxAge = config.Duration(s.config, "session_ttl", rc.MaxAge)
		rc.TimeZone = config.String(s.config, "time_zone", rc.TimeZone)
	}
	c, err := RunReaperScheduler(rc, s.reaper)
	if err != nil {
		return fmt.Errorf("failed to start upload reaper: %w", err)
	}
	s.cron = c
	return nil
}

// Stop waits for a running job to finish.
func (s *CronService) Stop() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	log.Println("Cron service stopped.")
	return nil
}
