package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the snapshot the coaching prompt was tuned against
const DefaultModel = "gemini-2.5-flash-preview-05-20"

// Decoding parameters are fixed so the rubric is applied as deterministically as the model allows.
const (
	Temperature float32 = 0
	TopP        float32 = 0.1
)

// ErrInvalidCredential means the upstream rejected the API key
var ErrInvalidCredential = errors.New("gemini: API key rejected")

// UpstreamError wraps any other failure of the generation call
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Completion is the text returned for one prompt, plus the block diagnostics
// the API reports when it refuses to answer.
type Completion struct {
	Text               string
	BlockReason        string
	BlockReasonMessage string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client issues single, non-streaming generateContent calls
type Client struct {
	models *genai.Models
	model  string
	params *genai.GenerateContentConfig
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		models: gc.Models,
		model:  model,
		params: &genai.GenerateContentConfig{
			Temperature: genai.Ptr(Temperature),
			TopP:        genai.Ptr(TopP),
		},
	}, nil
}

// Model returns the model identifier every call is sent to
func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt as a single user turn. Nothing is retried.
func (c *Client) Generate(ctx context.Context, prompt string) (*Completion, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), c.params)
	if err != nil {
		return nil, classifyError(err)
	}

	out := &Completion{Text: resp.Text()}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		out.BlockReason = string(fb.BlockReason)
		out.BlockReasonMessage = fb.BlockReasonMessage
		if out.BlockReasonMessage == "" {
			out.BlockReasonMessage = out.BlockReason
		}
	}
	return out, nil
}

func classifyError(err error) error {
	apiErr, ok := asAPIError(err)
	if !ok {
		return &UpstreamError{Err: err}
	}
	if isCredentialRejection(apiErr) {
		return fmt.Errorf("%w: %s", ErrInvalidCredential, apiErr.Message)
	}
	return &UpstreamError{StatusCode: apiErr.Code, Err: err}
}

func asAPIError(err error) (genai.APIError, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return *p, true
	}
	return genai.APIError{}, false
}

func isCredentialRejection(e genai.APIError) bool {
	if e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden {
		return true
	}
	for _, d := range e.Details {
		if reason, _ := d["reason"].(string); reason == "API_KEY_INVALID" {
			return true
		}
	}
	return strings.Contains(e.Message, "API key not valid")
}
