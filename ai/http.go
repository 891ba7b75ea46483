package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

var ErrMalformedResponse = errors.New("malformed-classifier-response")

// HTTPClient talks to the stroke classification service over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, log zerolog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Healthcheck probes the service. The process must refuse to start when the
// classifier is unreachable, since every room's judging depends on it.
func (c *HTTPClient) Healthcheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("classifier healthcheck: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("classifier healthcheck: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) Predict(ctx context.Context, preq Request) (Result, error) {
	body, err := json.Marshal(preq)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("classifier request: unexpected status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if len(result.Predictions) == 0 {
		return Result{}, ErrMalformedResponse
	}

	c.log.Debug().
		Str("best", result.Predictions[0].Name).
		Float64("percent", result.Confidence.Percent).
		Msg("classifier prediction")

	return result, nil
}
