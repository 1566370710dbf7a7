package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostPlain(t *testing.T) {
	env := setupEnv(t)
	alice := env.register(t, "alice")

	p, err := env.contentSvc.CreatePost(context.Background(), alice.ID, "hello", nil, "")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, p.AuthorID)
	assert.Equal(t, "hello", p.Content)
	assert.Empty(t, p.ImageKey)
}

func TestCreatePostWithImage(t *testing.T) {
	env := setupEnv(t)
	alice := env.register(t, "alice")

	p, err := env.contentSvc.CreatePost(context.Background(), alice.ID, "pic", []byte{0x89, 0x50}, "photo.PNG")
	require.NoError(t, err)
	require.NotEmpty(t, p.ImageKey)
	assert.True(t, strings.HasSuffix(p.ImageKey, ".png"))

	data, ok := env.blobs.Get(p.ImageKey)
	require.True(t, ok)
	assert.Equal(t, []byte{0x89, 0x50}, data)
}

func TestCreatePostUnsupportedMedia(t *testing.T) {
	env := setupEnv(t)
	alice := env.register(t, "alice")

	for _, name := range []string{"doc.pdf", "run.exe", "noext", "tar.gz"} {
		_, err := env.contentSvc.CreatePost(context.Background(), alice.ID, "pic", []byte("x"), name)
		assert.ErrorIs(t, err, ErrUnsupportedMedia, name)
	}
}

func TestCreatePostEmptyContent(t *testing.T) {
	env := setupEnv(t)
	alice := env.register(t, "alice")

	_, err := env.contentSvc.CreatePost(context.Background(), alice.ID, "   ", nil, "")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestGetPostNotFound(t *testing.T) {
	env := setupEnv(t)
	_, err := env.contentSvc.GetPost(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestListPostsPagination(t *testing.T) {
	env := setupEnv(t)
	alice := env.register(t, "alice")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		env.createPostAt(t, alice.ID, "p", base.Add(time.Duration(i)*time.Minute))
	}
	ctx := context.Background()

	// 相邻分页不重叠且连续，拼接等于一次取 4 条
	page1, err := env.contentSvc.ListPosts(ctx, 2, 0)
	require.NoError(t, err)
	page2, err := env.contentSvc.ListPosts(ctx, 2, 2)
	require.NoError(t, err)
	first4, err := env.contentSvc.ListPosts(ctx, 4, 0)
	require.NoError(t, err)

	require.Len(t, page1, 2)
	require.Len(t, page2, 2)
	require.Len(t, first4, 4)
	joined := append(page1, page2...)
	for i := range first4 {
		assert.Equal(t, first4[i].ID, joined[i].ID)
	}

	// 新帖在前
	for i := 1; i < len(first4); i++ {
		assert.False(t, first4[i-1].CreatedAt.Before(first4[i].CreatedAt))
	}
}

func TestListPostsStableOnEqualTimestamps(t *testing.T) {
	env := setupEnv(t)
	alice := env.register(t, "alice")
	at := time.Now().Truncate(time.Second)
	for i := 0; i < 4; i++ {
		env.createPostAt(t, alice.ID, "same-instant", at)
	}
	ctx := context.Background()

	a, err := env.contentSvc.ListPosts(ctx, 10, 0)
	require.NoError(t, err)
	b, err := env.contentSvc.ListPosts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, a, 4)
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
	}
}

func TestCreateCommentOnMissingPost(t *testing.T) {
	env := setupEnv(t)
	alice := env.register(t, "alice")

	_, err := env.contentSvc.CreateComment(context.Background(), "missing", alice.ID, "hi")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCommentsOldestFirstAcrossAuthors(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	post, err := env.contentSvc.CreatePost(ctx, alice.ID, "thread", nil, "")
	require.NoError(t, err)

	// 两个作者交错评论
	authors := []string{alice.ID, bob.ID, bob.ID, alice.ID, bob.ID}
	want := make([]string, len(authors))
	for i, a := range authors {
		c, err := env.contentSvc.CreateComment(ctx, post.ID, a, "c")
		require.NoError(t, err)
		want[i] = c.ID
	}

	comments, err := env.contentSvc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, len(want))
	for i := range want {
		assert.Equal(t, want[i], comments[i].ID)
		assert.Equal(t, authors[i], comments[i].AuthorID)
	}
	for i := 1; i < len(comments); i++ {
		assert.False(t, comments[i].CreatedAt.Before(comments[i-1].CreatedAt))
	}
}
