package scheduler

import (
	"context"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/service"
	"github.com/cuckooblock/vendor-portal/internal/websocket"
	"github.com/cuckooblock/vendor-portal/pkg/logger"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 30 * time.Second

// AwaitingReviewCounter counts profiles waiting on an admin decision.
type AwaitingReviewCounter interface {
	CountAwaitingReview(ctx context.Context) (int64, error)
}

// ReviewReminderScheduler periodically tells connected admins how many
// submitted profiles are waiting for review.
type ReviewReminderScheduler struct {
	cron    *cron.Cron
	spec    string
	counter AwaitingReviewCounter
	events  service.EventPublisher
	now     func() time.Time
}

func NewReviewReminderScheduler(spec string, counter AwaitingReviewCounter, events service.EventPublisher) *ReviewReminderScheduler {
	return &ReviewReminderScheduler{
		cron:    cron.New(),
		spec:    spec,
		counter: counter,
		events:  events,
		now:     time.Now,
	}
}

// Start registers the job and starts the cron runner.
func (s *ReviewReminderScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			logger.Error("Review reminder run failed", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for review reminder", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Review reminder scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce counts submitted profiles and notifies admins when any are waiting.
func (s *ReviewReminderScheduler) RunOnce(ctx context.Context) (int64, error) {
	count, err := s.counter.CountAwaitingReview(ctx)
	if err != nil {
		return 0, err
	}

	logger.Info("Vendor profiles awaiting review", map[string]interface{}{
		"count": count,
	})
	if count > 0 && s.events != nil {
		s.events.PublishToAdmins(websocket.Event{
			Type:  websocket.EventReviewReminder,
			Count: count,
			At:    s.now(),
		})
	}
	return count, nil
}

// Stop waits for a running job to finish.
func (s *ReviewReminderScheduler) Stop() {
	logger.Info("Stopping review reminder scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Review reminder scheduler stopped")
}
