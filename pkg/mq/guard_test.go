package mq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
)

type flakyPublisher struct {
	err   error
	calls int
}

func (p *flakyPublisher) Publish(context.Context, string, interface{}) error {
	p.calls++
	return p.err
}

func TestGuardedPublisher(t *testing.T) {
	next := &flakyPublisher{err: errors.New("channel closed")}
	breaker := circuitbreaker.New("rabbitmq", circuitbreaker.Settings{
		Timeout:     time.Minute,
		ReadyToTrip: func(c circuitbreaker.Counts) bool { return c.ConsecutiveFailures >= 2 },
	})
	p := NewGuardedPublisher(next, breaker)

	ctx := context.Background()
	assert.EqualError(t, p.Publish(ctx, "book.created", nil), "channel closed")
	assert.EqualError(t, p.Publish(ctx, "book.created", nil), "channel closed")

	// 熔断后不再调用下游
	assert.ErrorIs(t, p.Publish(ctx, "book.created", nil), circuitbreaker.ErrOpenState)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, circuitbreaker.StateOpen, breaker.State())
}
