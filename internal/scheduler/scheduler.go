// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the recurring background jobs: publishing
// scheduled pages and sweeping abandoned template uploads.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/navstruct/navcms/internal/service"
)

// Scheduler handles scheduled tasks like publishing pages.
type Scheduler struct {
	pages     *service.PageService
	templates *service.TemplateBuffer
	cron      *cron.Cron
	logger    *slog.Logger
}

// New creates a new scheduler instance.
func New(pages *service.PageService, templates *service.TemplateBuffer, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		pages:     pages,
		templates: templates,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start begins the scheduler with a job that runs every minute.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", s.runOnce)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// runOnce executes one tick: due pages are published and stale template
// uploads are dropped.
func (s *Scheduler) runOnce() {
	now := time.Now().UTC()

	if err := s.processScheduledPages(now); err != nil {
		s.logger.Error("failed to process scheduled pages",
			"category", "scheduler", "error", err)
	}
	if removed := s.templates.Sweep(now); removed > 0 {
		s.logger.Info("swept stale template uploads", "count", removed)
	}
}

func (s *Scheduler) processScheduledPages(now time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.pages.PublishDue(ctx, now)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("published scheduled pages", "count", n)
	}
	return nil
}
