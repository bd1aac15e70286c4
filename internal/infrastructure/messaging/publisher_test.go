package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/event"
)

type fakeBroker struct {
	keys []string
	msgs []interface{}
	err  error
}

func (b *fakeBroker) Publish(ctx context.Context, routingKey string, message interface{}) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("missing deadline")
	}
	b.keys = append(b.keys, routingKey)
	b.msgs = append(b.msgs, message)
	return b.err
}

func TestEventPublisher_RoutesByName(t *testing.T) {
	broker := &fakeBroker{}
	p := NewEventPublisher(broker)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // 请求已结束也要能发布

	p.Publish(ctx, event.New(event.LoanBorrowed, event.LoanPayload{LoanID: 1, MemberID: 2}))

	require.Equal(t, []string{event.LoanBorrowed}, broker.keys)
	e, ok := broker.msgs[0].(event.Event)
	require.True(t, ok)
	assert.Equal(t, uint(1), e.Payload.(event.LoanPayload).LoanID)
}

func TestEventPublisher_SwallowsErrors(t *testing.T) {
	broker := &fakeBroker{err: errors.New("channel closed")}
	p := NewEventPublisher(broker)

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), event.New(event.FineCreated, event.FinePayload{Amount: 5000}))
	})
	assert.Len(t, broker.keys, 1)
}
