package llm

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// LangChainClient talks to any OpenAI-compatible endpoint through langchaingo.
type LangChainClient struct {
	llm  llms.Model
	opts Options
}

func NewLangChainClient(baseURL, token string, opts Options) (*LangChainClient, error) {
	clientOpts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(opts.Model),
	}
	if baseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(clientOpts...)
	if err != nil {
		return nil, err
	}
	return &LangChainClient{llm: llm, opts: opts}, nil
}

func (c *LangChainClient) Complete(ctx context.Context, prompt, system string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.timeout())
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	callOpts := []llms.CallOption{llms.WithTemperature(c.opts.Temperature)}
	if c.opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(c.opts.MaxTokens))
	}

	resp, err := c.llm.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", classify(err, 0)
	}
	if len(resp.Choices) == 0 {
		return "", &Failure{Kind: FailureOther, Err: errors.New("no choices in completion")}
	}
	return resp.Choices[0].Content, nil
}
