package kurir

import (
	"context"
	"errors"
	"sync"
)

// Cancel is the error delivered when a request is cancelled through a CancelToken.
type Cancel struct {
	Message string
}

func (c *Cancel) Error() string {
	if c.Message == "" {
		return "kurir: request canceled"
	}
	return "kurir: request canceled: " + c.Message
}

// IsCancel reports whether err is (or wraps) a cancellation.
func IsCancel(err error) bool {
	var c *Cancel
	return errors.As(err, &c)
}

// Canceler cancels the token it was issued for. Only the first call has an
// effect; its optional message becomes the cancellation reason.
type Canceler func(message ...string)

// CancelExecutor receives a token's Canceler while the token is being built.
type CancelExecutor func(cancel Canceler)

// CancelToken is a one-shot cancellation signal. It can be attached to any number
// of requests, before or while they run; cancelling it fails every one of them.
//
// A nil *CancelToken is valid and is never cancelled.
type CancelToken struct {
	once   sync.Once
	done   chan struct{}
	reason *Cancel
}

// NewCancelToken creates a token and runs executor synchronously with its Canceler.
func NewCancelToken(executor CancelExecutor) *CancelToken {
	t := &CancelToken{done: make(chan struct{})}
	if executor != nil {
		executor(t.cancel)
	}
	return t
}

func (t *CancelToken) cancel(message ...string) {
	t.once.Do(func() {
		reason := &Cancel{}
		if len(message) > 0 {
			reason.Message = message[0]
		}
		// reason is published by closing done
		t.reason = reason
		close(t.done)
	})
}

// Done returns a channel that is closed once the token is cancelled.
func (t *CancelToken) Done() <-chan struct{} {
	if t == nil {
		return nil
	}
	return t.done
}

// Reason returns the cancellation, or nil while the token is still live.
func (t *CancelToken) Reason() *Cancel {
	if t == nil {
		return nil
	}
	select {
	case <-t.done:
		return t.reason
	default:
		return nil
	}
}

// ThrowIfRequested returns the stored cancellation if the token was cancelled.
func (t *CancelToken) ThrowIfRequested() error {
	if reason := t.Reason(); reason != nil {
		return reason
	}
	return nil
}

// Context derives a context from parent that is cancelled, with the token's reason
// as its cause, as soon as the token is. The returned CancelFunc releases the
// watcher and must be called.
func (t *CancelToken) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	if t == nil {
		return ctx, func() { cancel(context.Canceled) }
	}
	go func() {
		select {
		case <-t.done:
			cancel(t.reason)
		case <-ctx.Done():
		}
	}()
	return ctx, func() { cancel(context.Canceled) }
}

// CancelTokenSource pairs a token with its Canceler.
type CancelTokenSource struct {
	Token  *CancelToken
	Cancel Canceler
}

// NewCancelTokenSource creates a linked token/cancel pair.
func NewCancelTokenSource() CancelTokenSource {
	var cancel Canceler
	token := NewCancelToken(func(c Canceler) {
		cancel = c
	})
	return CancelTokenSource{Token: token, Cancel: cancel}
}
