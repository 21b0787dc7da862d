package posts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"Ciale/internal/auth"
	"Ciale/internal/core/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	ownerID = "0b9f6a52-3c1d-4a8e-9f21-6d7e8c9b0a11"
	otherID = "7c2e1d40-5b6a-4f3e-8d9c-1a2b3c4d5e6f"
	postID  = "3f8e2b1c-6d4a-4e9f-a1b2-c3d4e5f6a7b8"
)

var alice = &users.User{ID: ownerID, Username: "alice", Avatar: "https://cdn.example.com/alice.png"}

func newTestService(repo *MockRepository, dir *MockUserDirectory, files FileDeleter) *postService {
	svc := NewPostService(repo, dir, files, nil).(*postService)
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 123456789, time.UTC) }
	return svc
}

func TestCreatePost_Success(t *testing.T) {
	repo := new(MockRepository)
	dir := new(MockUserDirectory)
	svc := newTestService(repo, dir, nil)

	dir.On("GetUserByID", mock.Anything, ownerID).Return(alice, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *Post) bool {
		return p.Owner == ownerID && p.Username == "alice" && p.Content == "first post" && p.ID != ""
	})).Return(nil)
	dir.On("RecordOwnership", mock.Anything, ownerID, mock.AnythingOfType("string")).Return(nil)

	post, err := svc.CreatePost(context.Background(), CreatePostRequest{
		OwnerID: ownerID,
		Content: "  first post  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "first post", post.Content)
	assert.Equal(t, ownerID, post.Owner)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	assert.Equal(t, 0, post.CreatedAt.Nanosecond()%1000, "timestamps are truncated to microseconds")
	require.NotNil(t, post.Author)
	assert.Equal(t, "alice", post.Author.Username)
	assert.Equal(t, alice.Avatar, post.Author.Avatar)
	assert.Zero(t, post.LikesCount)

	// Ownership is recorded for the id that was stored
	dir.AssertCalled(t, "RecordOwnership", mock.Anything, ownerID, post.ID)
	repo.AssertExpectations(t)
}

func TestCreatePost_MediaOnly(t *testing.T) {
	repo := new(MockRepository)
	dir := new(MockUserDirectory)
	svc := newTestService(repo, dir, nil)

	dir.On("GetUserByID", mock.Anything, ownerID).Return(alice, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	dir.On("RecordOwnership", mock.Anything, ownerID, mock.Anything).Return(nil)

	post, err := svc.CreatePost(context.Background(), CreatePostRequest{
		OwnerID: ownerID,
		Media:   &Media{Type: "Image", URL: "https://ik.imagekit.io/demo/cat.jpg", FileID: "file_1"},
	})
	require.NoError(t, err)
	assert.Empty(t, post.Content)
	require.NotNil(t, post.Media)
	assert.Equal(t, MediaImage, post.Media.Type)
	assert.Equal(t, "file_1", post.Media.FileID)
}

func TestCreatePost_Validation(t *testing.T) {
	tests := []struct {
		name      string
		req       CreatePostRequest
		wantField string
	}{
		{"empty body no media", CreatePostRequest{OwnerID: ownerID, Content: "   "}, "content"},
		{"empty media object counts as absent", CreatePostRequest{OwnerID: ownerID, Media: &Media{}}, "content"},
		{"too long", CreatePostRequest{OwnerID: ownerID, Content: strings.Repeat("a", MaxContentLength+1)}, "content"},
		{"media without type", CreatePostRequest{OwnerID: ownerID, Media: &Media{URL: "https://x.example/a.png"}}, "media.type"},
		{"unknown media type", CreatePostRequest{OwnerID: ownerID, Media: &Media{Type: "audio", URL: "https://x.example/a.mp3"}}, "media.type"},
		{"media without url", CreatePostRequest{OwnerID: ownerID, Media: &Media{Type: MediaVideo}}, "media.url"},
		{"media with bad url", CreatePostRequest{OwnerID: ownerID, Media: &Media{Type: MediaVideo, URL: "not a url"}}, "media.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			dir := new(MockUserDirectory)
			svc := newTestService(repo, dir, nil)

			_, err := svc.CreatePost(context.Background(), tt.req)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.wantField, valErr.Field)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreatePost_MaxLengthCountsCharacters(t *testing.T) {
	repo := new(MockRepository)
	dir := new(MockUserDirectory)
	svc := newTestService(repo, dir, nil)

	dir.On("GetUserByID", mock.Anything, ownerID).Return(alice, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	dir.On("RecordOwnership", mock.Anything, ownerID, mock.Anything).Return(nil)

	// 2000 two-byte characters is within the limit even though it is 4000 bytes
	_, err := svc.CreatePost(context.Background(), CreatePostRequest{
		OwnerID: ownerID,
		Content: strings.Repeat("é", MaxContentLength),
	})
	assert.NoError(t, err)
}

func TestCreatePost_Unauthenticated(t *testing.T) {
	svc := newTestService(new(MockRepository), new(MockUserDirectory), nil)
	_, err := svc.CreatePost(context.Background(), CreatePostRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestCreatePost_AuthorMissing(t *testing.T) {
	repo := new(MockRepository)
	dir := new(MockUserDirectory)
	dir.On("GetUserByID", mock.Anything, ownerID).Return(nil, users.ErrUserNotFound)

	_, err := newTestService(repo, dir, nil).CreatePost(context.Background(), CreatePostRequest{OwnerID: ownerID, Content: "hi"})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestCreatePost_UsernameMustMatchCaller(t *testing.T) {
	repo := new(MockRepository)
	dir := new(MockUserDirectory)
	dir.On("GetUserByID", mock.Anything, ownerID).Return(alice, nil)

	_, err := newTestService(repo, dir, nil).CreatePost(context.Background(), CreatePostRequest{
		OwnerID:  ownerID,
		Username: "mallory",
		Content:  "hi",
	})
	assert.True(t, IsValidationError(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePost_LinkFailureRemovesPost(t *testing.T) {
	repo := new(MockRepository)
	dir := new(MockUserDirectory)
	svc := newTestService(repo, dir, nil)

	var storedID string
	dir.On("GetUserByID", mock.Anything, ownerID).Return(alice, nil)
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		storedID = args.Get(1).(*Post).ID
	}).Return(nil)
	dir.On("RecordOwnership", mock.Anything, ownerID, mock.Anything).Return(errors.New("users table locked"))
	repo.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.CreatePost(context.Background(), CreatePostRequest{OwnerID: ownerID, Content: "hi"})
	require.Error(t, err)

	repo.AssertCalled(t, "Delete", mock.Anything, storedID)
}

func TestCreatePost_StoreFailure(t *testing.T) {
	repo := new(MockRepository)
	dir := new(MockUserDirectory)
	dir.On("GetUserByID", mock.Anything, ownerID).Return(alice, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := newTestService(repo, dir, nil).CreatePost(context.Background(), CreatePostRequest{OwnerID: ownerID, Content: "hi"})
	require.Error(t, err)
	dir.AssertNotCalled(t, "RecordOwnership", mock.Anything, mock.Anything, mock.Anything)
}

func TestListPosts_NeverNil(t *testing.T) {
	repo := new(MockRepository)
	repo.On("List", mock.Anything).Return(nil, nil)

	list, err := newTestService(repo, new(MockUserDirectory), nil).ListPosts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSearchPosts_BlankQueryLists(t *testing.T) {
	repo := new(MockRepository)
	all := []*Post{{ID: "b"}, {ID: "a"}}
	repo.On("List", mock.Anything).Return(all, nil)

	list, err := newTestService(repo, new(MockUserDirectory), nil).SearchPosts(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, all, list)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearchPosts_TrimsQuery(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Search", mock.Anything, "alice").Return([]*Post{{ID: "a"}}, nil)

	list, err := newTestService(repo, new(MockUserDirectory), nil).SearchPosts(context.Background(), " alice ")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetPost_MalformedID(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockUserDirectory), nil)

	for _, id := range []string{"", "42", "{" + postID + "}", strings.ToUpper(postID)} {
		_, err := svc.GetPost(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound, id)
	}
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdatePost_OnlyContentChanges(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockUserDirectory), nil)

	existing := &Post{ID: postID, Owner: ownerID, Username: "alice", Content: "old"}
	updated := &Post{ID: postID, Owner: ownerID, Username: "alice", Content: "edited"}
	repo.On("GetByID", mock.Anything, postID).Return(existing, nil)
	repo.On("UpdateContent", mock.Anything, postID, "edited", svc.timestamp()).Return(updated, nil)

	post, err := svc.UpdatePost(context.Background(), postID, auth.Identity{UserID: ownerID}, " edited ")
	require.NoError(t, err)
	assert.Equal(t, "edited", post.Content)
	repo.AssertExpectations(t)
}

func TestUpdatePost_NotFound(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, postID).Return(nil, ErrNotFound)

	_, err := newTestService(repo, new(MockUserDirectory), nil).UpdatePost(context.Background(), postID, auth.Identity{UserID: ownerID}, "x")
	assert.True(t, IsNotFound(err))
}

func TestUpdatePost_NotOwner(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, postID).Return(&Post{ID: postID, Owner: ownerID, Username: "alice"}, nil)

	_, err := newTestService(repo, new(MockUserDirectory), nil).UpdatePost(context.Background(), postID,
		auth.Identity{UserID: otherID, Username: "alice"}, "hijack")
	assert.ErrorIs(t, err, ErrNotAuthorized)
	repo.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePost_EmptyContentNeedsMedia(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockUserDirectory), nil)

	repo.On("GetByID", mock.Anything, postID).Return(&Post{ID: postID, Owner: ownerID, Content: "text"}, nil).Once()
	_, err := svc.UpdatePost(context.Background(), postID, auth.Identity{UserID: ownerID}, "  ")
	assert.True(t, IsValidationError(err))

	withMedia := &Post{ID: postID, Owner: ownerID, Media: &Media{Type: MediaImage, URL: "https://x.example/a.png"}}
	repo.On("GetByID", mock.Anything, postID).Return(withMedia, nil).Once()
	repo.On("UpdateContent", mock.Anything, postID, "", mock.Anything).Return(withMedia, nil)
	_, err = svc.UpdatePost(context.Background(), postID, auth.Identity{UserID: ownerID}, "  ")
	assert.NoError(t, err)
}

func TestDeletePost_Success(t *testing.T) {
	repo := new(MockRepository)
	dir := new(MockUserDirectory)
	files := new(MockFileDeleter)
	svc := newTestService(repo, dir, files)

	existing := &Post{ID: postID, Owner: ownerID, Media: &Media{Type: MediaVideo, URL: "https://x.example/v.mp4", FileID: "file_9"}}
	repo.On("GetByID", mock.Anything, postID).Return(existing, nil)
	files.On("DeleteFile", mock.Anything, "file_9").Return(nil)
	repo.On("Delete", mock.Anything, postID).Return(nil)
	dir.On("RemoveOwnership", mock.Anything, ownerID, postID).Return(nil)

	require.NoError(t, svc.DeletePost(context.Background(), postID, auth.Identity{UserID: ownerID}))
	files.AssertExpectations(t)
	repo.AssertExpectations(t)
	dir.AssertExpectations(t)
}

func TestDeletePost_CDNFailureKeepsPost(t *testing.T) {
	repo := new(MockRepository)
	files := new(MockFileDeleter)
	svc := newTestService(repo, new(MockUserDirectory), files)

	existing := &Post{ID: postID, Owner: ownerID, Media: &Media{Type: MediaImage, URL: "https://x.example/a.png", FileID: "file_1"}}
	repo.On("GetByID", mock.Anything, postID).Return(existing, nil)
	files.On("DeleteFile", mock.Anything, "file_1").Return(errors.New("cdn unavailable"))

	err := svc.DeletePost(context.Background(), postID, auth.Identity{UserID: ownerID})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeletePost_WithoutCDNClient(t *testing.T) {
	repo := new(MockRepository)
	dir := new(MockUserDirectory)
	svc := newTestService(repo, dir, nil)

	existing := &Post{ID: postID, Owner: ownerID, Media: &Media{Type: MediaImage, URL: "https://x.example/a.png", FileID: "file_1"}}
	repo.On("GetByID", mock.Anything, postID).Return(existing, nil)
	repo.On("Delete", mock.Anything, postID).Return(nil)
	dir.On("RemoveOwnership", mock.Anything, ownerID, postID).Return(nil)

	assert.NoError(t, svc.DeletePost(context.Background(), postID, auth.Identity{UserID: ownerID}))
}

func TestDeletePost_UnlinkFailureIsNotFatal(t *testing.T) {
	repo := new(MockRepository)
	dir := new(MockUserDirectory)
	svc := newTestService(repo, dir, nil)

	repo.On("GetByID", mock.Anything, postID).Return(&Post{ID: postID, Owner: ownerID, Content: "x"}, nil)
	repo.On("Delete", mock.Anything, postID).Return(nil)
	dir.On("RemoveOwnership", mock.Anything, ownerID, postID).Return(errors.New("timeout"))

	assert.NoError(t, svc.DeletePost(context.Background(), postID, auth.Identity{UserID: ownerID}))
}

func TestDeletePost_NotOwner(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, postID).Return(&Post{ID: postID, Owner: ownerID, Content: "x"}, nil)

	err := newTestService(repo, new(MockUserDirectory), nil).DeletePost(context.Background(), postID, auth.Identity{UserID: otherID})
	assert.ErrorIs(t, err, ErrNotAuthorized)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeletePost_Unauthenticated(t *testing.T) {
	err := newTestService(new(MockRepository), new(MockUserDirectory), nil).DeletePost(context.Background(), postID, auth.Identity{})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestReconcileOwnership(t *testing.T) {
	repo := new(MockRepository)
	dir := new(MockUserDirectory)
	svc := newTestService(repo, dir, nil)

	repo.On("List", mock.Anything).Return([]*Post{
		{ID: "p1", Owner: ownerID},
		{ID: "p2", Owner: ownerID},
		{ID: "p3", Owner: "ghost"},
	}, nil)
	dir.On("ListOwnership", mock.Anything).Return(users.Ownership{
		ownerID: {"p1", "deleted"},
		otherID: {"p3"},
	}, nil)

	dir.On("RemoveOwnership", mock.Anything, ownerID, "deleted").Return(nil)
	dir.On("RemoveOwnership", mock.Anything, otherID, "p3").Return(nil)
	dir.On("RecordOwnership", mock.Anything, ownerID, "p2").Return(nil)
	dir.On("RecordOwnership", mock.Anything, "ghost", "p3").Return(users.ErrUserNotFound)

	report, err := svc.ReconcileOwnership(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &ReconcileReport{Added: 1, Removed: 2, Skipped: 1}, report)
	dir.AssertExpectations(t)
}

func TestReconcileOwnership_ListFailure(t *testing.T) {
	repo := new(MockRepository)
	repo.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := newTestService(repo, new(MockUserDirectory), nil).ReconcileOwnership(context.Background())
	assert.Error(t, err)
}
