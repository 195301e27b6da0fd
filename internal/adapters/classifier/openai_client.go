package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/domain"
)

const urlPrompt = `You are a phishing URL detection system. Classify the following URL.
Respond with a JSON object containing:
- prediction: integer (1 if the URL is a phishing URL, 0 if it is legitimate)
- confidence: number between 0 and 1 (how confident you are in your assessment)
- description: string (one sentence explaining the classification)

URL: %s

Respond only with the JSON object and nothing else.`

// OpenAIClassifier classifies URLs with an OpenAI chat model
type OpenAIClassifier struct {
	client    *openai.Client
	modelName string
	maxTokens int
	logger    *zap.Logger
}

// urlVerdict is the structured response requested from the model
type urlVerdict struct {
	Prediction  *int     `json:"prediction"`
	Confidence  *float64 `json:"confidence"`
	Description string   `json:"description"`
}

// NewOpenAIClassifier creates a new OpenAI URL classifier
//
// baseURL may be empty to use the public API.
func NewOpenAIClassifier(apiKey, baseURL, modelName string, maxTokens int, logger *zap.Logger) *OpenAIClassifier {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIClassifier{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Name returns the chat model name
func (c *OpenAIClassifier) Name() string {
	return c.modelName
}

// Source returns the model source reported in results
func (c *OpenAIClassifier) Source() string {
	return "openai"
}

// Ready checks that the configured model is reachable with the API key
func (c *OpenAIClassifier) Ready(ctx context.Context) error {
	if _, err := c.client.GetModel(ctx, c.modelName); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	return nil
}

// Predict asks the model to classify one URL
func (c *OpenAIClassifier) Predict(ctx context.Context, url string) (domain.ClassifierVerdict, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a phishing URL detection system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(urlPrompt, url),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.ClassifierVerdict{}, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.ClassifierVerdict{}, fmt.Errorf("empty response from OpenAI")
	}

	verdict, err := parseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		return domain.ClassifierVerdict{}, err
	}

	c.logger.Debug("URL classified by chat model",
		zap.String("url", url),
		zap.String("model", c.modelName),
		zap.Int("prediction", verdict.Label),
		zap.String("completion_id", resp.ID))

	return verdict, nil
}

// parseVerdict reads the JSON object out of a completion, tolerating surrounding prose
func parseVerdict(content string) (domain.ClassifierVerdict, error) {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end < start {
		return domain.ClassifierVerdict{}, fmt.Errorf("failed to extract JSON from model response")
	}

	var v urlVerdict
	if err := json.Unmarshal([]byte(content[start:end+1]), &v); err != nil {
		return domain.ClassifierVerdict{}, fmt.Errorf("failed to parse model response as JSON: %w", err)
	}
	if v.Prediction == nil {
		return domain.ClassifierVerdict{}, fmt.Errorf("model response has no prediction field")
	}

	return domain.ClassifierVerdict{
		Label:       *v.Prediction,
		Confidence:  v.Confidence,
		Description: v.Description,
	}, nil
}
