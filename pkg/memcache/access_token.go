// pkg/memcache/access_token.go
package mem

import (
	"context"
	"sync"
	"time"

	"tripcraft/pkg/utils"
)

// RefreshFunc fetches a fresh token and the instant it stops being valid.
type RefreshFunc func(ctx context.Context) (token string, expiresAt time.Time, err error)

// AccessToken holds one bearer token for an upstream provider and refreshes it
// shortly before expiry. Safe for concurrent use.
type AccessToken struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time

	refresh RefreshFunc
	clock   utils.Clock
	leeway  time.Duration
}

func NewAccessToken(refresh RefreshFunc, clock utils.Clock, leeway time.Duration) *AccessToken {
	if clock == nil {
		clock = utils.SystemClock()
	}
	return &AccessToken{
		refresh: refresh,
		clock:   clock,
		leeway:  leeway,
	}
}

// Get returns the cached token, refreshing it when missing or within leeway of expiry.
// A failed refresh leaves the previous state untouched.
func (a *AccessToken) Get(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && a.clock.Now().Add(a.leeway).Before(a.expiresAt) {
		return a.token, nil
	}

	token, expiresAt, err := a.refresh(ctx)
	if err != nil {
		return "", err
	}
	a.token = token
	a.expiresAt = expiresAt
	return token, nil
}

// Invalidate drops the cached token, e.g. after the provider answered 401.
func (a *AccessToken) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = ""
	a.expiresAt = time.Time{}
}

// ExpiresAt reports the expiry of the cached token, zero when none is held.
func (a *AccessToken) ExpiresAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.expiresAt
}
