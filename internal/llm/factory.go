package llm

import "fmt"

// NewClient builds the model client named by provider.
func NewClient(provider, baseURL, token string, opts Options) (Client, error) {
	switch provider {
	case "langchain", "":
		return NewLangChainClient(baseURL, token, opts)
	case "openai":
		return NewOpenAIClient(baseURL, token, opts), nil
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", provider)
	}
}
