package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcherDeliversToAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var calls []string
	d.Subscribe(EventMemberRegistered, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.Email)
		return errors.New("smtp down")
	})
	d.Subscribe(EventMemberRegistered, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.Email)
		return nil
	})
	d.Subscribe(EventPasswordChanged, func(_ context.Context, e Event) error {
		calls = append(calls, "other")
		return nil
	})

	evt := NewEvent(EventMemberRegistered, 1, "bob@example.com", MemberRegisteredPayload{Code: "c"})
	require.NoError(t, d.Publish(context.Background(), evt))
	assert.Equal(t, []string{"first:bob@example.com", "second:bob@example.com"}, calls)
	assert.NotEmpty(t, evt.ID)
}
