package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestShell(finder AvailabilityFinder, perMinute int) (*Shell, *MemoryStore) {
	r, _ := newTestResolver(finder, august1)
	store := NewMemoryStore(time.Hour)
	return NewShell(r, store, NewKeywordResponder(DefaultTopics), perMinute, zap.NewNop()), store
}

var enabled = BotPolicy{Enabled: true}

func TestShell_ConversationIsStored(t *testing.T) {
	ctx := context.Background()
	shell, store := newTestShell(&fakeFinder{offers: testOffers}, 100)

	sess, reply, err := shell.Handle(ctx, enabled, "guest-1", "4 people")
	require.NoError(t, err)
	assert.Equal(t, ReplyNeedDates, reply.Kind)
	assert.True(t, sess.Greeted)
	assert.Contains(t, reply.Text, msgGreeting)

	stored, ok, err := store.Get(ctx, "guest-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, stored.Guests)

	_, reply, err = shell.Handle(ctx, enabled, "guest-1", "Aug 16 to Aug 18")
	require.NoError(t, err)
	assert.Equal(t, ReplyOffers, reply.Kind)
	assert.NotContains(t, reply.Text, msgGreeting, "greet only once")

	require.NoError(t, shell.Reset(ctx, "guest-1"))
	_, ok, _ = store.Get(ctx, "guest-1")
	assert.False(t, ok)
}

func TestShell_DisabledPolicyLeavesMessagesAlone(t *testing.T) {
	ctx := context.Background()
	shell, store := newTestShell(&fakeFinder{}, 100)

	_, reply, err := shell.Handle(ctx, BotPolicy{Enabled: false}, "guest-1", "4 people")
	require.NoError(t, err)
	assert.Equal(t, ReplyDisabled, reply.Kind)

	_, ok, _ := store.Get(ctx, "guest-1")
	assert.False(t, ok)
}

func TestShell_TopicsOnlyOutsideASearch(t *testing.T) {
	ctx := context.Background()
	shell, _ := newTestShell(&fakeFinder{offers: testOffers}, 100)

	_, reply, err := shell.Handle(ctx, enabled, "guest-1", "Do you have wifi?")
	require.NoError(t, err)
	assert.Equal(t, ReplyTopic, reply.Kind)
	assert.Contains(t, reply.Text, "Wi-Fi")

	// Dates win over keywords.
	_, reply, err = shell.Handle(ctx, enabled, "guest-1", "Aug 16 to Aug 18 with my dog, 2 people")
	require.NoError(t, err)
	assert.Equal(t, ReplyOffers, reply.Kind)

	// While the list is shown, keywords are follow-ups.
	_, reply, err = shell.Handle(ctx, enabled, "guest-1", "is there parking?")
	require.NoError(t, err)
	assert.Equal(t, ReplyFollowUp, reply.Kind)
}

func TestShell_RateLimit(t *testing.T) {
	ctx := context.Background()
	shell, _ := newTestShell(&fakeFinder{}, 2)

	for i := 0; i < 2; i++ {
		_, _, err := shell.Handle(ctx, enabled, "guest-1", "hello")
		require.NoError(t, err)
	}
	_, _, err := shell.Handle(ctx, enabled, "guest-1", "hello")
	assert.ErrorIs(t, err, ErrRateLimited)

	// Other users have their own budget.
	_, _, err = shell.Handle(ctx, enabled, "guest-2", "hello")
	assert.NoError(t, err)
}

func TestShell_SameUserMessagesAreSerialized(t *testing.T) {
	ctx := context.Background()
	shell, store := newTestShell(&fakeFinder{}, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := shell.Handle(ctx, enabled, "guest-1", "3 people")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sess, ok, err := store.Get(ctx, "guest-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, sess.Guests)
	assert.Empty(t, shell.locks.locks, "locks are released once idle")
}
