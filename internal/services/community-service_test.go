package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repos backed by the gorm interfaces are overkill here; the post
// and comment repos are thin enough that a tiny fake per test file suffices.

func newTestCommunityService(t *testing.T) CommunityService {
	t.Helper()
	return NewCommunityService(newFakePostRepo(), newFakeCommentRepo())
}

func TestPostLifecycle(t *testing.T) {
	svc := newTestCommunityService(t)

	post, err := svc.CreatePost(1, "  hello world  ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", post.Content)
	assert.Nil(t, post.UpdatedAt)

	updated, err := svc.UpdatePost(1, post.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.NotNil(t, updated.UpdatedAt)

	_, err = svc.UpdatePost(2, post.ID, "hijack")
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.DeletePost(1, post.ID, false))
	_, err = svc.GetPost(post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminCanDeleteAnyPost(t *testing.T) {
	svc := newTestCommunityService(t)

	post, err := svc.CreatePost(1, "user content")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeletePost(2, post.ID, false), ErrForbidden)
	assert.NoError(t, svc.DeletePost(2, post.ID, true))
}

func TestEmptyContentRejected(t *testing.T) {
	svc := newTestCommunityService(t)

	_, err := svc.CreatePost(1, "   ")
	assert.Error(t, err)
}

func TestCommentLifecycle(t *testing.T) {
	svc := newTestCommunityService(t)

	post, err := svc.CreatePost(1, "discuss")
	require.NoError(t, err)

	comment, err := svc.CreateComment(2, post.ID, "agreed")
	require.NoError(t, err)

	comments, err := svc.ListComments(post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	_, err = svc.UpdateComment(1, comment.ID, "hijack")
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdateComment(2, comment.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, "changed my mind", updated.Content)

	require.NoError(t, svc.DeleteComment(2, comment.ID, false))
}

func TestCommentOnMissingPost(t *testing.T) {
	svc := newTestCommunityService(t)

	_, err := svc.CreateComment(1, 999, "into the void")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ListComments(999)
	assert.ErrorIs(t, err, ErrNotFound)
}
