package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/domain"
)

// maxResponseBytes bounds the prediction service response body
const maxResponseBytes = 64 << 10

// HTTPClassifier calls a URL phishing prediction service over HTTP
//
// Contract:
//
//	POST {endpoint}/predict  {"url": "..."}
//	200 {"prediction": 0|1, "confidence": 0.93, "description": "..."}
//	GET  {endpoint}/health   2xx when the model is loaded
type HTTPClassifier struct {
	endpoint  string
	modelName string
	client    *http.Client
	logger    *zap.Logger
}

type predictRequest struct {
	URL string `json:"url"`
}

type predictResponse struct {
	Prediction  *int     `json:"prediction"`
	Confidence  *float64 `json:"confidence"`
	Description string   `json:"description"`
}

// NewHTTPClassifier creates a client for the prediction service at endpoint
func NewHTTPClassifier(endpoint, modelName string, timeout time.Duration, logger *zap.Logger) *HTTPClassifier {
	return &HTTPClassifier{
		endpoint:  strings.TrimRight(endpoint, "/"),
		modelName: modelName,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// Name returns the model name reported in results
func (c *HTTPClassifier) Name() string {
	return c.modelName
}

// Source returns the model source reported in results
func (c *HTTPClassifier) Source() string {
	return "http"
}

// Ready checks the prediction service health endpoint
func (c *HTTPClassifier) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: health check returned status %d", domain.ErrClassifierUnavailable, resp.StatusCode)
	}
	return nil
}

// Predict classifies one URL
func (c *HTTPClassifier) Predict(ctx context.Context, url string) (domain.ClassifierVerdict, error) {
	body, err := json.Marshal(predictRequest{URL: url})
	if err != nil {
		return domain.ClassifierVerdict{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/predict", bytes.NewReader(body))
	if err != nil {
		return domain.ClassifierVerdict{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.ClassifierVerdict{}, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.ClassifierVerdict{}, fmt.Errorf("failed to read prediction response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ClassifierVerdict{}, fmt.Errorf("prediction service returned status %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.ClassifierVerdict{}, fmt.Errorf("failed to parse prediction response: %w", err)
	}
	if out.Prediction == nil {
		return domain.ClassifierVerdict{}, fmt.Errorf("prediction response has no prediction field")
	}

	c.logger.Debug("URL classified",
		zap.String("url", url),
		zap.Int("prediction", *out.Prediction))

	return domain.ClassifierVerdict{
		Label:       *out.Prediction,
		Confidence:  out.Confidence,
		Description: out.Description,
	}, nil
}
