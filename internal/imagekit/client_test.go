package imagekit

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresPrivateKey(t *testing.T) {
	_, err := NewClient("public_x", "", "", "")
	assert.Error(t, err)
}

func TestAuthenticationParameters(t *testing.T) {
	client, err := NewClient("public_x", "private_secret", "https://ik.imagekit.io/demo", "")
	require.NoError(t, err)

	now := time.Unix(1_700_000_000, 0)
	client.now = func() time.Time { return now }

	params := client.AuthenticationParameters()
	assert.NotEmpty(t, params.Token)
	assert.Equal(t, now.Add(30*time.Minute).Unix(), params.Expire)

	mac := hmac.New(sha1.New, []byte("private_secret"))
	mac.Write([]byte(params.Token + strconv.FormatInt(params.Expire, 10)))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), params.Signature)

	// Tokens are single-use
	assert.NotEqual(t, params.Token, client.AuthenticationParameters().Token)
}

func TestDeleteFile_Success(t *testing.T) {
	var gotPath, gotUser, gotPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewClient("public_x", "private_secret", "", server.URL)
	require.NoError(t, err)

	require.NoError(t, client.DeleteFile(context.Background(), "file_123"))
	assert.Equal(t, "/v1/files/file_123", gotPath)
	assert.Equal(t, "private_secret", gotUser)
	assert.Empty(t, gotPass)
}

func TestDeleteFile_AlreadyGone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"The requested file does not exist."}`))
	}))
	defer server.Close()

	client, err := NewClient("public_x", "private_secret", "", server.URL)
	require.NoError(t, err)
	assert.NoError(t, client.DeleteFile(context.Background(), "missing"))
}

func TestDeleteFile_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Your account cannot be authenticated."}`))
	}))
	defer server.Close()

	client, err := NewClient("public_x", "wrong", "", server.URL)
	require.NoError(t, err)

	err = client.DeleteFile(context.Background(), "file_123")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Your account cannot be authenticated.", apiErr.Message)
}

func TestDeleteFile_EmptyID(t *testing.T) {
	client, err := NewClient("public_x", "private_secret", "", "http://127.0.0.1:0")
	require.NoError(t, err)
	assert.Error(t, client.DeleteFile(context.Background(), ""))
}

func TestDeleteFile_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewClient("public_x", "private_secret", "", server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, client.DeleteFile(ctx, "file_123"))
}
