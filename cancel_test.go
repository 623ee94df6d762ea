package kurir

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelTokenFirstCancelWins(t *testing.T) {
	source := NewCancelTokenSource()
	require.Nil(t, source.Token.Reason())
	require.NoError(t, source.Token.ThrowIfRequested())

	source.Cancel("stop")
	source.Cancel("again")

	reason := source.Token.Reason()
	require.NotNil(t, reason)
	assert.Equal(t, "stop", reason.Message)

	err := source.Token.ThrowIfRequested()
	assert.True(t, IsCancel(err))
	assert.Same(t, reason, err)
}

func TestCancelTokenWithoutMessage(t *testing.T) {
	source := NewCancelTokenSource()
	source.Cancel()

	assert.Equal(t, "", source.Token.Reason().Message)
	assert.Equal(t, "kurir: request canceled", source.Token.Reason().Error())
}

func TestCancelTokenExecutorRunsSynchronously(t *testing.T) {
	var captured Canceler
	token := NewCancelToken(func(cancel Canceler) {
		captured = cancel
	})
	require.NotNil(t, captured)

	select {
	case <-token.Done():
		t.Fatal("token should not be cancelled yet")
	default:
	}

	captured("now")

	select {
	case <-token.Done():
	case <-time.After(time.Second):
		t.Fatal("Done was not closed")
	}
	assert.Equal(t, "kurir: request canceled: now", token.Reason().Error())
}

func TestCancelTokenConcurrentCancel(t *testing.T) {
	source := NewCancelTokenSource()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			source.Cancel(fmt.Sprintf("reason %d", i))
			_ = source.Token.Reason()
		}(i)
	}
	wg.Wait()

	first := source.Token.Reason()
	require.NotNil(t, first)
	for i := 0; i < 5; i++ {
		assert.Same(t, first, source.Token.Reason())
	}
}

func TestNilCancelToken(t *testing.T) {
	var token *CancelToken
	assert.Nil(t, token.Done())
	assert.Nil(t, token.Reason())
	assert.NoError(t, token.ThrowIfRequested())

	ctx, stop := token.Context(context.Background())
	defer stop()
	assert.NoError(t, ctx.Err())
}

func TestCancelTokenContext(t *testing.T) {
	source := NewCancelTokenSource()
	ctx, stop := source.Token.Context(context.Background())
	defer stop()

	source.Cancel("shutdown")

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled")
	}

	cause := context.Cause(ctx)
	assert.True(t, IsCancel(cause))
	assert.Equal(t, "shutdown", cause.(*Cancel).Message)
}

func TestCancelTokenContextStopReleasesWatcher(t *testing.T) {
	source := NewCancelTokenSource()
	ctx, stop := source.Token.Context(context.Background())
	stop()

	<-ctx.Done()
	assert.True(t, errors.Is(context.Cause(ctx), context.Canceled))
}

func TestIsCancel(t *testing.T) {
	assert.True(t, IsCancel(&Cancel{}))
	assert.True(t, IsCancel(fmt.Errorf("wrapped: %w", &Cancel{Message: "x"})))
	assert.False(t, IsCancel(errors.New("plain")))
	assert.False(t, IsCancel(nil))
	assert.False(t, IsCancel(&ClientError{Type: ErrorTypeTransport}))
}
