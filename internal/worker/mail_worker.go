package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/member-service/internal/mail"
)

// MailQueue is the consuming side of the mail outbox.
type MailQueue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*mail.Message, error)
}

// MailWorker drains the outbox and hands each message to the SMTP sender.
type MailWorker struct {
	queue       MailQueue
	sender      mail.Sender
	logger      *zap.Logger
	pollTimeout time.Duration
	retryDelay  time.Duration
}

// NewMailWorker builds a worker.
func NewMailWorker(queue MailQueue, sender mail.Sender, logger *zap.Logger) *MailWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MailWorker{
		queue:       queue,
		sender:      sender,
		logger:      logger,
		pollTimeout: 5 * time.Second,
		retryDelay:  time.Second,
	}
}

// Run processes messages until ctx is cancelled. A message that fails to
// send is logged and dropped; the member can request another code.
func (w *MailWorker) Run(ctx context.Context) {
	w.logger.Info("mail worker started")
	defer w.logger.Info("mail worker stopped")

	for {
		if ctx.Err() != nil {
			return
		}
		msg, err := w.queue.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			w.logger.Warn("mail outbox read failed", zap.Error(err))
			if !sleep(ctx, w.retryDelay) {
				return
			}
			continue
		}
		if msg == nil {
			continue
		}
		w.deliver(ctx, *msg)
	}
}

func (w *MailWorker) deliver(ctx context.Context, msg mail.Message) {
	if err := w.sender.Send(ctx, msg); err != nil {
		w.logger.Warn("mail delivery failed", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	w.logger.Debug("mail delivered", zap.String("subject", msg.Subject))
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
