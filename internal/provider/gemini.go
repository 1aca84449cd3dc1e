package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/verinews/verinews/internal/model"
	"github.com/verinews/verinews/internal/schema"
)

// GeminiProvider implements the Provider interface against the Gemini
// generation API with a constrained output schema and Google Search grounding.
type GeminiProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	config     Config
}

// Gemini API structures (REST generateContent surface).
type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
	Tools             []geminiTool           `json:"tools,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64                `json:"temperature,omitempty"`
	ResponseMimeType string                 `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]interface{} `json:"responseSchema,omitempty"`
}

type geminiTool struct {
	GoogleSearch *geminiGoogleSearch `json:"googleSearch,omitempty"`
}

type geminiGoogleSearch struct{}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
			Role  string       `json:"role"`
		} `json:"content"`
		FinishReason      string                  `json:"finishReason"`
		GroundingMetadata *geminiGroundingMeta    `json:"groundingMetadata,omitempty"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

type geminiGroundingMeta struct {
	GroundingChunks []geminiGroundingChunk `json:"groundingChunks"`
}

type geminiGroundingChunk struct {
	Web *geminiWebSource `json:"web,omitempty"`
}

type geminiWebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// NewGeminiProvider creates a new Gemini provider.
// A missing API key is a configuration error surfaced on Analyze, before any
// network attempt.
func NewGeminiProvider(config Config) *GeminiProvider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	geminiModel := config.Model
	if geminiModel == "" {
		geminiModel = "gemini-3-flash-preview"
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &GeminiProvider{
		apiKey:  config.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   geminiModel,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(config),
		},
		config: config,
	}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Grounded reports that this variant attaches Google Search citations.
func (p *GeminiProvider) Grounded() bool {
	return true
}

// Analyze submits the text under the fixed analysis instruction, constrained
// to the result schema, and maps grounding chunks to citation sources.
// Single attempt; no retries.
func (p *GeminiProvider) Analyze(ctx context.Context, text string) (*model.AnalysisResult, error) {
	if p.apiKey == "" {
		return nil, errorf(KindConfigMissing, p.Name(), "API key not configured (set GEMINI_API_KEY)")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.httpClient.Timeout)
		defer cancel()
	}

	apiReq := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: buildPrompt(text)}},
			},
		},
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemInstruction}},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   resultSchema(),
		},
		Tools: []geminiTool{
			{GoogleSearch: &geminiGoogleSearch{}},
		},
	}

	resp, err := p.makeRequest(ctx, apiReq)
	if err != nil {
		return nil, err
	}

	if resp.Error != nil {
		return nil, errorf(KindRequestFailed, p.Name(), "API error: %s", resp.Error.Message)
	}
	if len(resp.Candidates) == 0 {
		return nil, errorf(KindMalformedResponse, p.Name(), "no candidates in response")
	}

	candidate := resp.Candidates[0]
	var payload strings.Builder
	for _, part := range candidate.Content.Parts {
		payload.WriteString(part.Text)
	}

	result, warnings, err := schema.Validate([]byte(payload.String()))
	if err != nil {
		// The raw text is never accepted as a result in this variant.
		return nil, newError(KindMalformedResponse, p.Name(), err)
	}
	if len(warnings) > 0 {
		fmt.Fprintf(os.Stderr, "gemini: response repaired: %s\n", strings.Join(warnings, "; "))
	}

	result.Sources = extractSources(candidate.GroundingMetadata)
	return result, nil
}

// extractSources maps web-backed grounding chunks to citation sources.
// Chunks without a web reference are skipped; chunks without a title receive a
// generic placeholder. Sources are never inferred or fabricated.
func extractSources(meta *geminiGroundingMeta) []model.GroundingSource {
	sources := []model.GroundingSource{}
	if meta == nil {
		return sources
	}
	for _, chunk := range meta.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = "External Source"
		}
		sources = append(sources, model.GroundingSource{
			Title: title,
			URI:   chunk.Web.URI,
		})
	}
	return sources
}

// makeRequest makes an HTTP request to the generation API.
func (p *GeminiProvider) makeRequest(ctx context.Context, apiReq geminiRequest) (*geminiResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, errorf(KindRequestFailed, p.Name(), "marshal request: %v", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, url.PathEscape(p.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errorf(KindRequestFailed, p.Name(), "create request: %v", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errorf(KindTimeout, p.Name(), "call exceeded deadline: %v", err)
		}
		return nil, errorf(KindRequestFailed, p.Name(), "execute request: %v", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errorf(KindRequestFailed, p.Name(), "read response: %v", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, errorf(KindRequestFailed, p.Name(), "API error (%d): %s", httpResp.StatusCode, truncateBody(respBody))
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, errorf(KindMalformedResponse, p.Name(), "unmarshal response: %v", err)
	}

	return &resp, nil
}

// truncateBody bounds error payloads quoted in messages.
func truncateBody(body []byte) string {
	const max = 512
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
