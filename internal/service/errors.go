package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/member-service/internal/domain"
	"github.com/spec-kit/member-service/internal/events"
)

// storageError logs err and hides the driver error behind domain.ErrStorage.
func storageError(logger *zap.Logger, op string, err error) error {
	logger.Error("storage failure", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s", domain.ErrStorage, op)
}

// passthrough returns err unchanged when it already belongs to the domain
// taxonomy and wraps it as a storage failure otherwise.
func passthrough(logger *zap.Logger, op string, err error, known ...error) error {
	for _, k := range known {
		if errors.Is(err, k) {
			return k
		}
	}
	return storageError(logger, op, err)
}

// publish hands event to the dispatcher once the mutation has committed.
// Dispatch failures never undo the mutation.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event publish failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("member_id", event.MemberID),
			zap.Error(err))
	}
}
