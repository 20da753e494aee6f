package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/sashabaranov/go-openai"
)

// Prompt asks for exactly the labels the parser looks for.
const Prompt = `Look at this image and identify the event it shows.
Answer with exactly these three lines and nothing else:
Event Name: <a short name for the event>
Event Description: <one or two sentences describing what is happening>
Occasion: <the kind of occasion, for example birthday, wedding, concert, conference>`

const (
	_defaultModel     = openai.GPT4o
	_defaultMaxTokens = 300
)

type Option func(*Describer)

func Model(model string) Option {
	return func(d *Describer) {
		if model != "" {
			d.model = model
		}
	}
}

func MaxTokens(n int) Option {
	return func(d *Describer) {
		if n > 0 {
			d.maxTokens = n
		}
	}
}

func BaseURL(url string) Option {
	return func(d *Describer) {
		d.baseURL = url
	}
}

func HTTPClient(c *http.Client) Option {
	return func(d *Describer) {
		d.httpClient = c
	}
}

// Describer asks a vision model to describe the event in an image.
type Describer struct {
	model      string
	maxTokens  int
	baseURL    string
	httpClient *http.Client

	client *openai.Client
}

func New(apiKey string, opts ...Option) *Describer {
	d := &Describer{
		model:     _defaultModel,
		maxTokens: _defaultMaxTokens,
	}

	for _, opt := range opts {
		opt(d)
	}

	cfg := openai.DefaultConfig(apiKey)
	if d.baseURL != "" {
		cfg.BaseURL = d.baseURL
	}
	if d.httpClient != nil {
		cfg.HTTPClient = d.httpClient
	}

	d.client = openai.NewClientWithConfig(cfg)

	return d
}

// Describe returns the model text for the image at url. A response without usable
// content yields an empty string, not an error.
func (d *Describer) Describe(ctx context.Context, url string) (string, error) {
	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     d.model,
		MaxTokens: d.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: Prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    url,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("Describer - Describe - d.client.CreateChatCompletion: %w", mapError(ctx, err))
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", fmt.Errorf("Describer - Describe: %w: content filtered", errs.ErrInferenceRejected)
	}

	return strings.TrimSpace(choice.Message.Content), nil
}

func mapError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", errs.ErrInferenceTimeout, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", statusError(apiErr.HTTPStatusCode), err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%w: %v", statusError(reqErr.HTTPStatusCode), err)
	}

	return fmt.Errorf("%w: %v", errs.ErrInferenceUnavailable, err)
}

func statusError(code int) error {
	switch code {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
		return errs.ErrInferenceRejected
	default:
		// auth, quota, rate limits and server errors
		return errs.ErrInferenceUnavailable
	}
}
