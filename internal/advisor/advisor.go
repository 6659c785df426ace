// Package advisor sends portfolio exports to an LLM for a written review.
package advisor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	apperrors "atrad-tracker/internal/errors"
	"atrad-tracker/pkg/utils"
)

const systemPrompt = `You are an experienced equity portfolio advisor. You are given a
portfolio report in markdown: holdings, tax lots, action price ranges and
rule-generated recommendations. Review it and answer the analysis request at
the end of the report. Be specific, reference securities by symbol, and keep
the response under 800 words.`

// Client wraps an OpenAI chat client for portfolio reviews.
type Client struct {
	client *openai.Client
	model  string
	retry  utils.RetryConfig
	logger zerolog.Logger
}

// New creates an advisor client. It returns ErrNoAdvisor when no API key
// is configured.
func New(apiKey, model string, logger zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, apperrors.ErrNoAdvisor
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Client{
		client: openai.NewClient(apiKey),
		model:  model,
		retry:  utils.DefaultRetryConfig(),
		logger: logger,
	}, nil
}

// Review sends the portfolio report to the model and returns its written
// assessment. Transient API failures are retried with backoff.
func (c *Client) Review(ctx context.Context, report string) (string, error) {
	var answer string

	err := utils.Retry(ctx, c.retry, func() error {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: report},
			},
		})
		if err != nil {
			c.logger.Warn().Err(err).Str("model", c.model).Msg("advisor completion failed, retrying")
			return fmt.Errorf("openai completion failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no response from openai")
		}
		answer = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}

	return answer, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}
