package services

import (
	"EmotionTrackerGo/config"
	"EmotionTrackerGo/models"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

const visionPrompt = `You label facial expressions. Look at the largest face in the image and answer with JSON only:
{"emotion": "<one of happy, sad, angry, fear, disgust, surprise, neutral>", "confidence": <0-100>}
If there is no face, answer {"emotion": null}.`

// VisionClassifier asks an OpenAI-compatible multimodal model to label the frame.
type VisionClassifier struct {
	model llms.Model
}

func NewVisionClassifier(apiKey, apiEndpoint, model string) (*VisionClassifier, error) {
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
		openai.WithResponseFormat(&openai.ResponseFormat{
			Type: "json_object",
		}),
	}
	if apiEndpoint != "" {
		opts = append(opts, openai.WithBaseURL(apiEndpoint))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionClassifier{model: llm}, nil
}

// NewVisionClassifierWithModel wraps an existing model, e.g. a fake in tests.
func NewVisionClassifierWithModel(model llms.Model) *VisionClassifier {
	return &VisionClassifier{model: model}
}

func (c *VisionClassifier) Classify(ctx context.Context, image []byte) (*models.DetectionResult, error) {
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(visionPrompt)},
		},
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(http.DetectContentType(image), image),
			},
		},
	}

	resp, err := c.model.GenerateContent(ctx, messages, llms.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		config.Logger.Debugw("vision model returned no choices")
		return nil, nil
	}

	content := extractJSON(resp.Choices[0].Content)
	result, ok := ParseDetection([]byte(content))
	if !ok {
		config.Logger.Debugw("vision model answer had no usable label", "content", content)
		return nil, nil
	}
	return result, nil
}

// extractJSON strips code fences and prose around the first JSON value.
func extractJSON(s string) string {
	start := strings.IndexAny(s, "{[")
	end := strings.LastIndexAny(s, "}]")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
