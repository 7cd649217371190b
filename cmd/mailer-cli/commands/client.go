package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/cuongbtq/job-mailer/internal/sender"
)

// DefaultTimeout covers a bulk send of a few hundred jobs at one per second
const DefaultTimeout = 10 * time.Minute

// Client is the subset of the API service used by the CLI
type Client interface {
	SendJob(ctx context.Context, jobID string) (*sender.SendResult, error)
	SendBulk(ctx context.Context, status domain.JobStatus) (*sender.BulkResult, error)
}

var _ Client = &APIClient{}

// APIError is a non-2xx response from the API service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// APIClient calls the API service over HTTP
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API service at baseURL
func NewClient(baseURL string, timeout time.Duration) (*APIClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// SendJob calls POST /api/v1/send
func (c *APIClient) SendJob(ctx context.Context, jobID string) (*sender.SendResult, error) {
	var result sender.SendResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/send", map[string]string{"jobId": jobID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendBulk calls POST /api/v1/send/bulk
func (c *APIClient) SendBulk(ctx context.Context, status domain.JobStatus) (*sender.BulkResult, error) {
	body := map[string]string{}
	if status != "" {
		body["status"] = string(status)
	}

	var result sender.BulkResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/send/bulk", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *APIClient) do(ctx context.Context, method, endpoint string, body, v any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if v != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}
