package imagekit

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultAPIBase is the ImageKit management API host
const DefaultAPIBase = "https://api.imagekit.io"

// authWindow is how long client-side upload credentials stay valid
const authWindow = 30 * time.Minute

// AuthParams are the signed credentials a browser needs to upload directly to ImageKit
type AuthParams struct {
	Token     string `json:"token"`
	Signature string `json:"signature"`
	Expire    int64  `json:"expire"`
}

// APIError is a non-success response from the ImageKit API
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("imagekit error (%d): %s", e.StatusCode, e.Message)
}

// Client talks to the ImageKit API with an account's key pair
type Client struct {
	httpClient  *http.Client
	now         func() time.Time
	publicKey   string
	privateKey  string
	urlEndpoint string
	apiBase     string
}

// NewClient creates a client; apiBase may be empty to use DefaultAPIBase
func NewClient(publicKey, privateKey, urlEndpoint, apiBase string) (*Client, error) {
	if privateKey == "" {
		return nil, fmt.Errorf("imagekit private key is required")
	}
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		now:         time.Now,
		publicKey:   publicKey,
		privateKey:  privateKey,
		urlEndpoint: urlEndpoint,
		apiBase:     apiBase,
	}, nil
}

// PublicKey is exposed to browsers alongside AuthParams
func (c *Client) PublicKey() string { return c.publicKey }

// URLEndpoint is the account's delivery URL prefix
func (c *Client) URLEndpoint() string { return c.urlEndpoint }

// AuthenticationParameters signs a one-time upload token.
// signature = hex(HMAC-SHA1(privateKey, token + expire)).
func (c *Client) AuthenticationParameters() AuthParams {
	token := uuid.NewString()
	expire := c.now().Add(authWindow).Unix()
	return AuthParams{
		Token:     token,
		Expire:    expire,
		Signature: sign(c.privateKey, token, expire),
	}
}

// DeleteFile removes an uploaded file. A file that is already gone is not an error.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return fmt.Errorf("file id cannot be empty")
	}

	endpoint := c.apiBase + "/v1/files/" + url.PathEscape(fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	req.SetBasicAuth(c.privateKey, "")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("Warning: failed to close imagekit response body: %v", closeErr)
		}
	}()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return nil
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
	}
}

func sign(privateKey, token string, expire int64) string {
	mac := hmac.New(sha1.New, []byte(privateKey))
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func readMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no response body"
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return string(raw)
}
