package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/member-service/internal/mail"
)

type chanQueue struct {
	ch   chan *mail.Message
	errs chan error
}

func (q *chanQueue) Dequeue(ctx context.Context, timeout time.Duration) (*mail.Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-q.errs:
		return nil, err
	case msg := <-q.ch:
		return msg, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	fail map[string]bool
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[msg.To] {
		return errors.New("smtp 550")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestMailWorkerDeliversAndSkipsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	queue := &chanQueue{ch: make(chan *mail.Message, 3), errs: make(chan error, 1)}
	sender := &recordingSender{fail: map[string]bool{"bad@example.com": true}}

	w := NewMailWorker(queue, sender, zap.New(core))
	w.pollTimeout = 10 * time.Millisecond
	w.retryDelay = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	queue.ch <- &mail.Message{To: "a@example.com", Subject: "one"}
	queue.ch <- &mail.Message{To: "bad@example.com", Subject: "two"}
	queue.errs <- errors.New("connection refused")
	queue.ch <- &mail.Message{To: "c@example.com", Subject: "three"}

	require.Eventually(t, func() bool {
		return sender.count() == 2 &&
			logs.FilterMessage("mail delivery failed").Len() == 1 &&
			logs.FilterMessage("mail outbox read failed").Len() == 1
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}

	assert.Equal(t, []string{"one", "three"}, []string{sender.sent[0].Subject, sender.sent[1].Subject})
}
