package llm

import (
	"strings"
	"testing"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildPromptSectionsInOrder(t *testing.T) {
	prompt := BuildPrompt(models.GenerationRequest{
		Kind:    models.RequestAnalyze,
		Content: "add an about page",
		Context: &models.GenerationContext{
			ProjectFilePaths: []string{"app/page.tsx", "package.json"},
			CurrentFilePath:  "app/page.tsx",
			DependencyNames:  []string{"next", "react"},
		},
	})

	assert.True(t, strings.HasPrefix(prompt, "Task: analyze_request\nRequirements: add an about page\n"))

	order := []string{
		"Project Structure:\napp/page.tsx\npackage.json",
		"Current File: app/page.tsx",
		"Dependencies:\nnext\nreact",
		"---FILES---",
		FilePathMarker,
		FileContentMarker,
		"---DEPENDENCIES---",
		"---EXPLANATION---",
	}
	last := -1
	for _, part := range order {
		idx := strings.Index(prompt, part)
		if assert.GreaterOrEqual(t, idx, 0, "missing %q", part) {
			assert.Greater(t, idx, last, "%q out of order", part)
			last = idx
		}
	}
}

func TestBuildPromptMinimal(t *testing.T) {
	prompt := BuildPrompt(models.GenerationRequest{Kind: models.RequestAnalyze})

	assert.True(t, strings.HasPrefix(prompt, "Task: analyze_request\nRequirements: \n"))
	assert.NotContains(t, prompt, "Project Structure:")
	assert.NotContains(t, prompt, "Current File:")
	assert.NotContains(t, prompt, "Dependencies:")
	assert.Contains(t, prompt, "---EXPLANATION---")
}

func TestBuildPromptDeterministic(t *testing.T) {
	req := models.GenerationRequest{
		Kind:    models.RequestCreatePage,
		Content: "pricing",
		Context: &models.GenerationContext{ProjectFilePaths: []string{"a", "b"}},
	}
	assert.Equal(t, BuildPrompt(req), BuildPrompt(req))
}
