package mem

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type steppingClock struct{ now time.Time }

func (c *steppingClock) Now() time.Time { return c.now }

func TestAccessToken_ReusesUntilLeeway(t *testing.T) {
	clock := &steppingClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	calls := 0
	refresh := func(ctx context.Context) (string, time.Time, error) {
		calls++
		return fmt.Sprintf("token-%d", calls), clock.now.Add(30 * time.Minute), nil
	}
	tok := NewAccessToken(refresh, clock, 30*time.Second)

	first, err := tok.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", first)

	clock.now = clock.now.Add(29 * time.Minute)
	again, err := tok.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", again)

	clock.now = clock.now.Add(45 * time.Second)
	refreshed, err := tok.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", refreshed)
	assert.Equal(t, 2, calls)
}

func TestAccessToken_FailedRefreshKeepsNothing(t *testing.T) {
	clock := &steppingClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	boom := errors.New("auth down")
	tok := NewAccessToken(func(ctx context.Context) (string, time.Time, error) {
		return "", time.Time{}, boom
	}, clock, 0)

	_, err := tok.Get(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, tok.ExpiresAt().IsZero())
}

func TestAccessToken_Invalidate(t *testing.T) {
	clock := &steppingClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	calls := 0
	tok := NewAccessToken(func(ctx context.Context) (string, time.Time, error) {
		calls++
		return "tok", clock.now.Add(time.Hour), nil
	}, clock, 0)

	_, _ = tok.Get(context.Background())
	tok.Invalidate()
	_, _ = tok.Get(context.Background())
	assert.Equal(t, 2, calls)
}
