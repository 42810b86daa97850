package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/pkg/config"
	"github.com/noah-isme/resource-planner-api/pkg/jobs"
	"github.com/noah-isme/resource-planner-api/pkg/mailer"
)

// NotificationService renders notification emails and delivers them either inline or
// through the background mail outbox.
type NotificationService struct {
	mailer    mailer.Mailer
	outbox    *jobs.Queue
	reviewers []string
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewNotificationService wires the mailer and builds the outbox queue. Start must be
// called before Enqueue delivers asynchronously.
func NewNotificationService(m mailer.Mailer, reviewers []string, cfg config.NotificationConfig, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotificationService{mailer: m, reviewers: reviewers, metrics: metrics, logger: logger}
	svc.outbox = jobs.NewQueue("mail-outbox", svc.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		DeadLetter: func(job jobs.Job, err error) {
			msg, _ := job.Payload.(mailer.Message)
			svc.metrics.RecordMail(job.Kind, "dead")
			svc.logger.Error("mail dropped after retries", zap.String("job_id", job.ID), zap.Strings("to", msg.To), zap.Error(err))
		},
	})
	return svc
}

// Start launches the outbox workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.outbox.Start(ctx)
}

// Stop drains the outbox workers.
func (s *NotificationService) Stop() {
	s.outbox.Stop()
}

// Reviewers returns the addresses that receive review requests.
func (s *NotificationService) Reviewers() []string {
	return s.reviewers
}

// Send renders and delivers the event synchronously.
func (s *NotificationService) Send(ctx context.Context, event mailer.Event, to []string, data mailer.TemplateData) error {
	msg, err := mailer.Render(event, to, data)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.metrics.RecordMail(string(event), "failed")
		return fmt.Errorf("send %s mail: %w", event, err)
	}
	s.metrics.RecordMail(string(event), "sent")
	return nil
}

// Enqueue renders the event and hands it to the outbox. When the outbox is not
// running the message is sent inline and failures are only logged.
func (s *NotificationService) Enqueue(ctx context.Context, event mailer.Event, to []string, data mailer.TemplateData) error {
	msg, err := mailer.Render(event, to, data)
	if err != nil {
		return err
	}
	err = s.outbox.Submit(ctx, jobs.Job{ID: uuid.NewString(), Kind: string(event), Payload: msg})
	if err == nil {
		s.metrics.RecordMail(string(event), "queued")
		return nil
	}
	if !errors.Is(err, jobs.ErrQueueClosed) {
		return err
	}
	if sendErr := s.mailer.Send(ctx, msg); sendErr != nil {
		s.metrics.RecordMail(string(event), "failed")
		s.logger.Warn("inline mail delivery failed", zap.String("event", string(event)), zap.Error(sendErr))
		return nil
	}
	s.metrics.RecordMail(string(event), "sent")
	return nil
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(mailer.Message)
	if !ok {
		s.logger.Error("unexpected mail payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.mailer.Send(ctx, msg)
}
