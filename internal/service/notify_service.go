package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danidan902/tullu-dimtu-school-backend/pkg/jobs"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/mailer"
)

const jobTypeEmail = "email"

// NotifyService queues outbound confirmation email so request handlers never
// block on the mail provider.
type NotifyService struct {
	queue  *jobs.Queue
	sender mailer.Sender
	logger *zap.Logger
}

// NewNotifyService builds the queue around the given sender. Call Start
// before enqueueing.
func NewNotifyService(sender mailer.Sender, cfg jobs.QueueConfig, logger *zap.Logger) *NotifyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotifyService{sender: sender, logger: logger}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("notify", s.handle, cfg)
	return s
}

// Start launches the mail workers.
func (s *NotifyService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotifyService) Stop() {
	s.queue.Stop()
}

// Pending reports queued but unsent messages.
func (s *NotifyService) Pending() int {
	return s.queue.Pending()
}

// Enqueue schedules a message for delivery.
func (s *NotifyService) Enqueue(msg mailer.Message) {
	if msg.ToEmail == "" {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobTypeEmail,
		Payload: msg,
	})
	if err != nil {
		s.logger.Warn("failed to enqueue email", zap.String("to", msg.ToEmail), zap.Error(err))
	}
}

func (s *NotifyService) handle(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(mailer.Message)
	if !ok {
		return fmt.Errorf("unexpected payload type for job %s", job.ID)
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.ToEmail, err)
	}
	s.logger.Info("email sent", zap.String("to", msg.ToEmail), zap.String("subject", msg.Subject))
	return nil
}
