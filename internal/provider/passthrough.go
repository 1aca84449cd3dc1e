package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/verinews/verinews/internal/model"
)

// PassthroughProvider sends text to a generic chat-completion endpoint without
// an output-shape constraint and wraps the raw reply as best-effort
// commentary: Summary holds the model text, the verdict is fixed at MIXED with
// confidence 50 and every other sequence is empty.
//
// Inventing these placeholder fields instead of failing is deliberate,
// documented behavior of this variant only; the other variants treat
// unstructured output as a malformed response.
type PassthroughProvider struct {
	client *openai.Client
	config Config
}

// NewPassthroughProvider creates the free-text passthrough provider.
func NewPassthroughProvider(config Config) *PassthroughProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &PassthroughProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Name returns the provider name.
func (p *PassthroughProvider) Name() string {
	return "passthrough"
}

// Grounded reports that this variant has no grounding capability.
func (p *PassthroughProvider) Grounded() bool {
	return false
}

// Analyze requests free-text commentary and coerces it into the minimal legal
// result shape.
func (p *PassthroughProvider) Analyze(ctx context.Context, text string) (*model.AnalysisResult, error) {
	if p.config.APIKey == "" {
		return nil, errorf(KindConfigMissing, p.Name(), "API key not configured (set OPENAI_API_KEY)")
	}

	timeout := p.config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	completionModel := p.config.Model
	if completionModel == "" {
		completionModel = openai.GPT4oMini
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: completionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a news credibility analyst. Comment briefly on how trustworthy the following text appears and why.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(text),
			},
		},
		Temperature: 0.3,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errorf(KindTimeout, p.Name(), "call exceeded deadline: %v", err)
		}
		return nil, errorf(KindRequestFailed, p.Name(), "completion error: %v", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errorf(KindMalformedResponse, p.Name(), "no choices in response")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return nil, errorf(KindMalformedResponse, p.Name(), "empty completion")
	}

	return &model.AnalysisResult{
		Verdict:            model.VerdictMixed,
		Confidence:         50,
		Summary:            summary,
		Metrics:            []model.Metric{},
		LogicalFallacies:   []string{},
		LinguisticPatterns: []string{},
		Sources:            []model.GroundingSource{},
	}, nil
}
