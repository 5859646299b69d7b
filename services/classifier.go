package services

import (
	"EmotionTrackerGo/config"
	"EmotionTrackerGo/models"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
)

// ErrClassifierUnavailable wraps transport failures and open-breaker rejections.
var ErrClassifierUnavailable = errors.New("emotion classifier unavailable")

// Classifier labels one image. A nil result with a nil error means nothing could be
// resolved from the frame (no face, malformed answer).
type Classifier interface {
	Classify(ctx context.Context, image []byte) (*models.DetectionResult, error)
}

// HTTPClassifierConfig configures the model sidecar client.
type HTTPClassifierConfig struct {
	URL              string
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// HTTPClassifier posts {"image": "<base64>"} to a model service and parses whatever shape it
// answers with.
type HTTPClassifier struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewHTTPClassifier(cfg HTTPClassifierConfig) *HTTPClassifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "emotion-classifier",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			config.Logger.Warnw("classifier circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &HTTPClassifier{
		url:     cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// State reports the breaker state for health output.
func (c *HTTPClassifier) State() string {
	return c.breaker.State().String()
}

func (c *HTTPClassifier) Classify(ctx context.Context, image []byte) (*models.DetectionResult, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.post(ctx, image)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}

	result, ok := ParseDetection(body)
	if !ok {
		config.Logger.Debugw("classifier response had no usable label", "bytes", len(body))
		return nil, nil
	}
	return result, nil
}

func (c *HTTPClassifier) post(ctx context.Context, image []byte) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{
		"image": base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("classifier returned %d", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		// the model rejected this frame; not a reason to trip the breaker
		config.Logger.Warnw("classifier rejected frame", "status", resp.StatusCode)
		return []byte("null"), nil
	}
	return body, nil
}
