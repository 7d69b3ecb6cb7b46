package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
)

// MockClient answers every prompt with a fixed page built from the request
// text. It lets the whole pipeline run offline.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Complete(ctx context.Context, prompt, system string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", classify(err, 0)
	}

	requirements := requirementsOf(prompt)
	page := fmt.Sprintf(`export default function Generated() {
	return (
		<main className="p-8">
			<p>%s</p>
		</main>
	);
}`, strings.NewReplacer("<", "&lt;", ">", "&gt;", "{", "&#123;", "}", "&#125;").Replace(requirements))

	return EncodeResponse(models.GenerationResponse{
		Explanation: fmt.Sprintf("Added a generated page for: %s", requirements),
		Operations: []models.FileOperation{
			{Path: "app/generated/page.tsx", Content: page, Kind: models.OperationCreate},
		},
	}), nil
}

func requirementsOf(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if rest, ok := strings.CutPrefix(line, "Requirements: "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
