package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishInvokesSubscribers(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()
	var seen []Event
	d.Subscribe(EventAccountRegistered, func(_ context.Context, e Event) error {
		seen = append(seen, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventAccountRegistered, AccountID: "acc-1"})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "acc-1", seen[0].AccountID)
}

func TestDispatcher_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()
	var calls int
	d.Subscribe(EventReferralCredited, func(context.Context, Event) error {
		calls++
		return errors.New("handler down")
	})
	d.Subscribe(EventReferralCredited, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventReferralCredited})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDispatcher_IgnoresUnrelatedEvents(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()
	var calls int
	d.Subscribe(EventAccountRegistered, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventReferralCredited}))
	assert.Zero(t, calls)
}
