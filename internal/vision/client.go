// Package vision calls the external image-description service. The service
// accepts a base64-encoded image plus a language code and returns
// descriptive text. Failures here are real errors surfaced to the user;
// nothing in this package touches the prompt store.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	apperrors "promptforge/internal/errors"
)

// MaxImageBytes is the largest accepted image payload (decoded size).
const MaxImageBytes = 10 << 20

// Client talks to a describe-image endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a vision client. An empty endpoint yields a client whose
// calls fail with a configuration error.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type describeRequest struct {
	ImageBase64 string `json:"imageBase64"`
	Language    string `json:"language"`
}

type describeResponse struct {
	Description string `json:"description"`
	Error       string `json:"error,omitempty"`
}

// Describe sends the encoded image to the service and returns its textual
// description. imageData must be a data URL for an image MIME type and no
// larger than MaxImageBytes when decoded.
func (c *Client) Describe(ctx context.Context, imageData, language string) (string, error) {
	if c.endpoint == "" {
		return "", apperrors.ValidationError("no vision endpoint configured")
	}
	if err := checkImagePayload(imageData); err != nil {
		return "", err
	}

	body, err := json.Marshal(describeRequest{ImageBase64: imageData, Language: language})
	if err != nil {
		return "", apperrors.InternalError("failed to encode request", err)
	}

	var description string
	err = retry.Do(
		func() error {
			desc, err := c.describeOnce(ctx, body)
			if err != nil {
				return err
			}
			description = desc
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
	if err != nil {
		return "", err
	}
	return description, nil
}

func (c *Client) describeOnce(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.InternalError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NetworkError("image analysis request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperrors.NetworkError("failed to read response", err)
	}
	if resp.StatusCode >= 500 {
		return "", apperrors.NetworkError(fmt.Sprintf("image analysis service returned %d", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.ValidationError(fmt.Sprintf("image analysis rejected: %s", strings.TrimSpace(string(respBody))))
	}

	var parsed describeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", apperrors.NetworkError("malformed response from image analysis service", err)
	}
	if parsed.Error != "" {
		return "", apperrors.NetworkError(parsed.Error, nil)
	}
	return parsed.Description, nil
}

// isRetryable limits retries to transient network and server failures;
// validation rejections are final.
func isRetryable(err error) bool {
	app := apperrors.GetAppError(err)
	return app.Category == apperrors.CategoryNetwork
}

// checkImagePayload enforces the image MIME prefix and the size cap before
// any network traffic happens.
func checkImagePayload(imageData string) error {
	if !strings.HasPrefix(imageData, "data:image/") {
		return apperrors.ValidationError("payload is not an image")
	}
	idx := strings.Index(imageData, ";base64,")
	if idx < 0 {
		return apperrors.ValidationError("image payload is not base64 encoded")
	}
	encoded := imageData[idx+len(";base64,"):]
	// Decoded size is 3/4 of the base64 length; close enough for a cap.
	if len(encoded)/4*3 > MaxImageBytes {
		return apperrors.ValidationError("image exceeds the 10MB limit")
	}
	return nil
}

// EncodeImageFile reads an image from disk and returns it as a data URL
// suitable for Describe.
func EncodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperrors.StorageError("failed to read image file", err)
	}
	if len(data) > MaxImageBytes {
		return "", apperrors.ValidationError("image exceeds the 10MB limit")
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", apperrors.ValidationError(fmt.Sprintf("not an image file: %s", mime))
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}
