package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fnt-jany/day4/internal/dto"
)

// APIError carries the backend's HTTP status and message through to the
// tool layer so rejections can be shown to the model verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client is a thin HTTP client for the chatbot ingestion API. Every call
// authenticates with the caller-supplied scoped API key.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListGoals(ctx context.Context, apiKey string) ([]dto.ChatbotGoalResponse, error) {
	var goals []dto.ChatbotGoalResponse
	if err := c.do(ctx, apiKey, http.MethodGet, "/goals", nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (c *Client) CreateRecord(ctx context.Context, apiKey string, req *dto.RecordWriteRequest) (*dto.RecordCreatedResponse, error) {
	var resp dto.RecordCreatedResponse
	if err := c.do(ctx, apiKey, http.MethodPost, "/records", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateBatch(ctx context.Context, apiKey string, records []dto.RecordWriteRequest) (*dto.BatchResponse, error) {
	var resp dto.BatchResponse
	if err := c.do(ctx, apiKey, http.MethodPost, "/records/batch", dto.BatchRequest{Records: records}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListRecords(ctx context.Context, apiKey string, goalID int, goalName string) (*dto.RecordListResponse, error) {
	q := url.Values{}
	if goalID > 0 {
		q.Set("goalId", strconv.Itoa(goalID))
	}
	if goalName != "" {
		q.Set("goalName", goalName)
	}
	path := "/records"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp dto.RecordListResponse
	if err := c.do(ctx, apiKey, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, apiKey, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr dto.ErrorResponse
		if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Message == "" {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Message}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
