// Package handshake models the popup login flow as a one-shot handshake:
// the opener begins an attempt, the provider callback (or a cancellation,
// or the timeout) resolves it exactly once.
package handshake

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// DefaultTimeout bounds how long a login attempt may stay pending.
const DefaultTimeout = 30 * time.Second

// Terminal error reasons carried in Result.Err.
const (
	ErrCancelled = "login cancelled"
	ErrTimedOut  = "login timed out"
	ErrNoCode    = "No authorization code received"
)

// Result is the terminal outcome of one login attempt. Either Code is set
// (success) or Err holds the failure reason; never both.
type Result struct {
	Provider string `json:"provider"`
	Code     string `json:"code,omitempty"`
	State    string `json:"state,omitempty"`
	Err      string `json:"error,omitempty"`
}

func (r Result) Failed() bool {
	return r.Err != ""
}

// Attempt is a pending login handshake. It resolves exactly once through
// whichever of Complete, Cancel, or the broker timeout fires first.
type Attempt struct {
	Provider string
	State    string

	broker *Broker
	done   chan Result
	once   sync.Once
	timer  *time.Timer
}

// Wait blocks until the attempt resolves or ctx is done.
func (a *Attempt) Wait(ctx context.Context) (Result, error) {
	select {
	case res := <-a.done:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// resolve delivers the result if the attempt is still pending and reports
// whether this caller won the race. Losing branches are inert: the timer is
// stopped and the state is deregistered so it cannot be replayed.
func (a *Attempt) resolve(res Result) bool {
	won := false
	a.once.Do(func() {
		won = true
		a.timer.Stop()
		a.broker.remove(a.State)
		a.done <- res
	})
	return won
}

// Broker tracks pending login attempts keyed by their state value.
type Broker struct {
	mu       sync.Mutex
	attempts map[string]*Attempt
	timeout  time.Duration
}

func NewBroker(timeout time.Duration) *Broker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Broker{
		attempts: make(map[string]*Attempt),
		timeout:  timeout,
	}
}

// Begin registers a new pending attempt under a fresh crypto-random state
// and arms its timeout.
func (b *Broker) Begin(provider string) (*Attempt, error) {
	state, err := generateState()
	if err != nil {
		return nil, err
	}

	a := &Attempt{
		Provider: provider,
		State:    state,
		broker:   b,
		done:     make(chan Result, 1),
	}

	b.mu.Lock()
	a.timer = time.AfterFunc(b.timeout, func() {
		a.resolve(Result{Provider: provider, State: state, Err: ErrTimedOut})
	})
	b.attempts[state] = a
	b.mu.Unlock()

	return a, nil
}

// Lookup returns the pending attempt for a state value, if any.
func (b *Broker) Lookup(state string) (*Attempt, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.attempts[state]
	return a, ok
}

// Complete resolves the attempt with the callback's result. It reports
// false when no attempt is pending under that state, which also covers
// replayed or foreign state values.
func (b *Broker) Complete(state string, res Result) bool {
	a, ok := b.Lookup(state)
	if !ok {
		return false
	}
	return a.resolve(res)
}

// Cancel resolves the attempt as user-cancelled (popup closed).
func (b *Broker) Cancel(state string) bool {
	a, ok := b.Lookup(state)
	if !ok {
		return false
	}
	return a.resolve(Result{Provider: a.Provider, State: state, Err: ErrCancelled})
}

func (b *Broker) remove(state string) {
	b.mu.Lock()
	delete(b.attempts, state)
	b.mu.Unlock()
}

func generateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
