package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedNoFolloweesShowsOwnPosts(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	base := time.Now().Add(-time.Hour)
	p1 := env.createPostAt(t, alice.ID, "first", base)
	p2 := env.createPostAt(t, alice.ID, "second", base.Add(time.Minute))
	env.createPostAt(t, bob.ID, "not in feed", base.Add(2*time.Minute))

	feed, err := env.feedSvc.Feed(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, p2.ID, feed[0].ID)
	assert.Equal(t, p1.ID, feed[1].ID)
}

func TestFeedMergesFolloweesNewestFirst(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	base := time.Now().Add(-time.Hour)
	a1 := env.createPostAt(t, alice.ID, "a1", base)
	b1 := env.createPostAt(t, bob.ID, "b1", base.Add(time.Minute))
	a2 := env.createPostAt(t, alice.ID, "a2", base.Add(2*time.Minute))
	b2 := env.createPostAt(t, bob.ID, "b2", base.Add(3*time.Minute))

	before, err := env.feedSvc.Feed(ctx, alice.ID, 10, 0)
	require.NoError(t, err)

	require.NoError(t, env.relSvc.Follow(ctx, alice.ID, bob.ID))

	after, err := env.feedSvc.Feed(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, after, 4)
	assert.Equal(t, []string{b2.ID, a2.ID, b1.ID, a1.ID},
		[]string{after[0].ID, after[1].ID, after[2].ID, after[3].ID})

	// 关注后的 feed 是关注前的保序超集
	i := 0
	for _, p := range after {
		if i < len(before) && p.ID == before[i].ID {
			i++
		}
	}
	assert.Equal(t, len(before), i)
}

func TestFeedPagination(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	require.NoError(t, env.relSvc.Follow(ctx, alice.ID, bob.ID))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 6; i++ {
		author := alice.ID
		if i%2 == 0 {
			author = bob.ID
		}
		env.createPostAt(t, author, "p", base.Add(time.Duration(i)*time.Minute))
	}

	page1, err := env.feedSvc.Feed(ctx, alice.ID, 3, 0)
	require.NoError(t, err)
	page2, err := env.feedSvc.Feed(ctx, alice.ID, 3, 3)
	require.NoError(t, err)
	require.Len(t, page1, 3)
	require.Len(t, page2, 3)

	seen := map[string]bool{}
	for _, p := range append(page1, page2...) {
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
}

func TestFeedEmptyForFreshUser(t *testing.T) {
	env := setupEnv(t)
	alice := env.register(t, "alice")

	feed, err := env.feedSvc.Feed(context.Background(), alice.ID, 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)
}

func TestFeedExcludesUnfollowed(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	env.createPostAt(t, bob.ID, "b", time.Now().Add(-time.Minute))

	require.NoError(t, env.relSvc.Follow(ctx, alice.ID, bob.ID))
	feed, err := env.feedSvc.Feed(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)

	require.NoError(t, env.relSvc.Unfollow(ctx, alice.ID, bob.ID))
	feed, err = env.feedSvc.Feed(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)
}
