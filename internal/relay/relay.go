package relay

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/askaron/docsmith/internal/config"
	"github.com/askaron/docsmith/internal/errors"
	"github.com/askaron/docsmith/internal/model/contract"

	"github.com/sashabaranov/go-openai"
)

// Generator produces completion text for a composed request.
type Generator interface {
	Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error)
}

// Client relays completion requests to an OpenAI-compatible endpoint.
// It holds no per-invocation state: every Generate call is one fresh POST.
type Client struct {
	client  *openai.Client
	apiKey  string
	model   string
	timeout time.Duration
}

// headerTransport attaches OpenRouter attribution headers to every request.
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

func New(cfg config.OpenRouterConfig) (*Client, error) {
	timeout, err := config.DurationOrDefault(cfg.RequestTimeout, config.DefaultOpenRouterTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "parse relay request timeout")
	}

	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultOpenRouterBaseURL
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = baseURL
	clientCfg.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: &headerTransport{referer: cfg.Referer, title: cfg.Title},
	}

	return &Client{
		client:  openai.NewClientWithConfig(clientCfg),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

// Generate issues a single synchronous completion call and returns the first
// choice's content unchanged. A missing key or model fails before any network
// traffic. Total wait is bounded by the configured request timeout.
func (c *Client) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	if strings.TrimSpace(c.apiKey) == "" || strings.TrimSpace(c.model) == "" {
		return nil, errors.Configuration("openrouter api key or model not set")
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.ResponseShape("no choices in completion response")
	}

	return &contract.CompletionResponse{Content: resp.Choices[0].Message.Content}, nil
}

// classify maps SDK failures onto the invocation taxonomy. Status and
// connection failures are transport errors; a success status whose body does
// not decode is a shape error; anything else is internal.
func classify(err error) error {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return errors.Transport(err.Error())
	}

	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		return errors.Transport(err.Error())
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Transport("request timeout: " + err.Error())
	}

	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		return errors.Transport(err.Error())
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &syntaxErr) || stderrors.As(err, &typeErr) {
		return errors.ResponseShape("malformed completion response: " + err.Error())
	}

	return errors.Internal(err.Error())
}
