package llm

import (
	"strings"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
)

const outputProtocol = `

Please provide the code in the following format:
---FILES---
[file path]
path/of/the/file.tsx
[file content]
the complete content of the file
---DEPENDENCIES---
one dependency name per line
---EXPLANATION---
explanation of changes
`

// BuildPrompt renders a generation request into the structured text sent
// to the model. It is deterministic and performs no I/O.
func BuildPrompt(req models.GenerationRequest) string {
	var b strings.Builder

	b.WriteString("Task: ")
	b.WriteString(string(req.Kind))
	b.WriteString("\nRequirements: ")
	b.WriteString(req.Content)
	b.WriteString("\n")

	if c := req.Context; c != nil {
		if len(c.ProjectFilePaths) > 0 {
			b.WriteString("\nProject Structure:\n")
			b.WriteString(strings.Join(c.ProjectFilePaths, "\n"))
		}
		if c.CurrentFilePath != "" {
			b.WriteString("\nCurrent File: ")
			b.WriteString(c.CurrentFilePath)
		}
		if len(c.DependencyNames) > 0 {
			b.WriteString("\nDependencies:\n")
			b.WriteString(strings.Join(c.DependencyNames, "\n"))
		}
	}

	b.WriteString(outputProtocol)
	return b.String()
}
