package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/member-service/internal/events"
	"github.com/spec-kit/member-service/internal/mail"
)

// NotificationService turns account events into queued emails.
type NotificationService struct {
	dispatcher events.Dispatcher
	renderer   *mail.Renderer
	outbox     mail.Outbox
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, renderer *mail.Renderer, outbox mail.Outbox, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		renderer:   renderer,
		outbox:     outbox,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventMemberRegistered, n.handleMemberRegistered)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventMemberActivated, n.logEvent)
	n.dispatcher.Subscribe(events.EventPasswordChanged, n.logEvent)
	n.dispatcher.Subscribe(events.EventMemberStatusChanged, n.logEvent)
	n.dispatcher.Subscribe(events.EventMemberEmailChanged, n.logEvent)
}

func (n *NotificationService) handleMemberRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MemberRegisteredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	msg, err := n.renderer.Registration(mail.RegistrationData{
		Email:     event.Email,
		FullName:  payload.FirstName + " " + payload.LastName,
		FirstName: payload.FirstName,
		Code:      payload.Code,
	})
	if err != nil {
		return err
	}
	return n.enqueue(ctx, event, msg)
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	msg, err := n.renderer.PasswordReset(event.Email, mail.PasswordResetData{
		FirstName: payload.FirstName,
		Code:      payload.Code,
	})
	if err != nil {
		return err
	}
	return n.enqueue(ctx, event, msg)
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.Int64("member_id", event.MemberID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) enqueue(ctx context.Context, event events.Event, msg mail.Message) error {
	if n.outbox == nil {
		return nil
	}
	if err := n.outbox.Enqueue(ctx, msg); err != nil {
		return fmt.Errorf("enqueue %s mail: %w", event.Type, err)
	}
	n.logger.Debug("mail queued", zap.String("event_type", string(event.Type)), zap.Int64("member_id", event.MemberID))
	return nil
}
