package client

import (
	"EmotionTrackerGo/models"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// API is the subset of the HTTP API the poller needs.
type API interface {
	SubmitFrame(ctx context.Context, image []byte) (*models.DetectResponse, error)
	RecentSummary(ctx context.Context) (*models.SummaryResponse, error)
	Recommendation(ctx context.Context, summary []models.SummaryEntry) (*models.RecommendationResponse, error)
	SaveSnapshot(ctx context.Context, req models.SaveSnapshotRequest) error
}

// APIClient talks to the /api/v1 endpoints with a bearer token.
type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewAPIClient(baseURL, token string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *APIClient) SubmitFrame(ctx context.Context, image []byte) (*models.DetectResponse, error) {
	req := models.DetectRequest{
		Image: "data:" + http.DetectContentType(image) + ";base64," + base64.StdEncoding.EncodeToString(image),
	}
	var resp models.DetectResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/detect", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) RecentSummary(ctx context.Context) (*models.SummaryResponse, error) {
	var resp models.SummaryResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/summary/recent", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) Recommendation(ctx context.Context, summary []models.SummaryEntry) (*models.RecommendationResponse, error) {
	if summary == nil {
		summary = []models.SummaryEntry{}
	}
	var resp models.RecommendationResponse
	body := models.RecommendationRequest{Summary: summary}
	if err := c.do(ctx, http.MethodPost, "/api/v1/recommendation", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) SaveSnapshot(ctx context.Context, req models.SaveSnapshotRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/summary/snapshot", req, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, apiErr.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
