package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Ciale/internal/auth"
	"Ciale/internal/core/media"
	"Ciale/internal/core/posts"
	"Ciale/internal/core/users"
	"Ciale/internal/db/badgerstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := badgerstore.Open(badgerstore.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	userRepo := users.NewCachingRepository(badgerstore.NewUserRepository(store), 64, time.Minute)
	userService := users.NewUserService(userRepo)
	postService := posts.NewPostService(badgerstore.NewPostRepository(store), userService, nil, nil)
	mediaService := media.NewMediaService(badgerstore.NewImageRepository(store), badgerstore.NewVideoRepository(store), nil, nil)

	tokens, err := auth.NewTokenIssuer([]byte(testSecret), time.Hour)
	require.NoError(t, err)
	sessions, err := auth.NewSessionStore(testSecret, time.Hour, false)
	require.NoError(t, err)

	server := httptest.NewServer(NewRouter(Dependencies{
		Users:    userService,
		Posts:    postService,
		Media:    mediaService,
		Tokens:   tokens,
		Sessions: sessions,
	}))
	t.Cleanup(server.Close)
	return server
}

type client struct {
	t      *testing.T
	base   string
	token  string
	client *http.Client
}

func (c *client) do(method, path string, body interface{}, out interface{}) int {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func signUp(t *testing.T, server *httptest.Server, username string) *client {
	t.Helper()
	c := &client{t: t, base: server.URL, client: server.Client()}

	status := c.do(http.MethodPost, "/auth/register", map[string]string{
		"email": username + "@example.com", "password": "secret1", "username": username,
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var login struct {
		Token string `json:"token"`
	}
	status = c.do(http.MethodPost, "/auth/login", map[string]string{
		"email": username + "@example.com", "password": "secret1",
	}, &login)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, login.Token)

	c.token = login.Token
	return c
}

func TestFeedLifecycle(t *testing.T) {
	server := newTestServer(t)
	alice := signUp(t, server, "alice")

	var created posts.Post
	require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, "/posts", map[string]string{"content": "first post"}, &created))
	assert.Equal(t, "alice", created.Username)
	require.NotNil(t, created.Author)
	assert.Equal(t, "alice", created.Author.Username)

	var list []posts.Post
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/posts", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	var found []posts.Post
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/posts/search?q=ALICE", nil, &found))
	require.Len(t, found, 1)

	var me users.User
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/user", nil, &me))
	assert.Equal(t, []string{created.ID}, me.PostIDs)

	var updated posts.Post
	require.Equal(t, http.StatusOK, alice.do(http.MethodPut, "/posts/"+created.ID, map[string]string{"content": "edited"}, &updated))
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	var deleted map[string]bool
	require.Equal(t, http.StatusOK, alice.do(http.MethodDelete, "/posts/"+created.ID, nil, &deleted))
	assert.True(t, deleted["success"])

	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/posts", nil, &list))
	assert.Empty(t, list)

	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/user", nil, &me))
	assert.Empty(t, me.PostIDs)
}

func TestOwnershipIsEnforced(t *testing.T) {
	server := newTestServer(t)
	alice := signUp(t, server, "alice")
	bob := signUp(t, server, "bob")

	var created posts.Post
	require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, "/posts", map[string]string{"content": "mine"}, &created))

	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodPut, "/posts/"+created.ID, map[string]string{"content": "hijack"}, nil))
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodDelete, "/posts/"+created.ID, nil, nil))

	anonymous := &client{t: t, base: server.URL, client: server.Client()}
	assert.Equal(t, http.StatusUnauthorized, anonymous.do(http.MethodPost, "/posts", map[string]string{"content": "x"}, nil))
	assert.Equal(t, http.StatusUnauthorized, anonymous.do(http.MethodDelete, "/posts/"+created.ID, nil, nil))

	var got posts.Post
	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/posts/"+created.ID, nil, &got))
	assert.Equal(t, "mine", got.Content)

	// Claiming someone else's handle is rejected
	assert.Equal(t, http.StatusBadRequest, bob.do(http.MethodPost, "/posts", map[string]string{"content": "x", "username": "alice"}, nil))
}

func TestSearchIsLiteral(t *testing.T) {
	server := newTestServer(t)
	alice := signUp(t, server, "alice")

	for _, content := range []string{"price is $5 (approx)", "plain text"} {
		require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, "/posts", map[string]string{"content": content}, nil))
	}

	var found []posts.Post
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/posts/search?q=%245+(", nil, &found))
	require.Len(t, found, 1)
	assert.Equal(t, "price is $5 (approx)", found[0].Content)

	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/posts/search?q=.*", nil, &found))
	assert.Empty(t, found)
}

func TestMissingPostIs404(t *testing.T) {
	server := newTestServer(t)
	anonymous := &client{t: t, base: server.URL, client: server.Client()}

	assert.Equal(t, http.StatusNotFound, anonymous.do(http.MethodGet, "/posts/not-a-uuid", nil, nil))
	assert.Equal(t, http.StatusNotFound, anonymous.do(http.MethodGet, "/posts/0f8e2a4c-3b1d-4e5f-9a6b-7c8d9e0f1a2b", nil, nil))
}

func TestGalleries(t *testing.T) {
	server := newTestServer(t)
	alice := signUp(t, server, "alice")

	var image media.Image
	require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, "/images", map[string]string{
		"title": "Sunset", "description": "Bay", "imageUrl": "https://ik.imagekit.io/demo/s.jpg", "fileId": "f1",
	}, &image))
	assert.Equal(t, "alice", image.Username)

	var images []media.Image
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/images", nil, &images))
	assert.Len(t, images, 1)

	require.Equal(t, http.StatusOK, alice.do(http.MethodPut, "/images", map[string]string{"id": image.ID, "title": "Dusk"}, &image))
	assert.Equal(t, "Dusk", image.Title)
	assert.Equal(t, "Bay", image.Description)

	var video media.Video
	require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, "/videos", map[string]interface{}{
		"title": "Clip", "description": "Short", "videoUrl": "https://ik.imagekit.io/demo/c.mp4", "fileId": "f2",
	}, &video))
	assert.True(t, video.Controls)
	assert.Equal(t, 100, video.Transformation.Quality)

	require.Equal(t, http.StatusOK, alice.do(http.MethodDelete, "/videos", map[string]string{"id": video.ID}, nil))
	require.Equal(t, http.StatusOK, alice.do(http.MethodDelete, "/images/"+image.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, "/images/"+image.ID, nil, nil))
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)
	resp, err := server.Client().Get(server.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
