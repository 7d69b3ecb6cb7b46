package llm

import (
	"strings"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
)

// EncodeResponse writes a response in the same framing the prompt asks the
// model for. Every operation is written as a file record; the format has no
// way to say update or delete, so those come back as create. File content
// sits between one line break after its marker and one before the next
// marker, so it parses back unchanged. Empty content does not survive.
func EncodeResponse(resp models.GenerationResponse) string {
	var b strings.Builder

	if len(resp.Operations) > 0 {
		writeHeader(&b, sectionFiles)
		for _, op := range resp.Operations {
			b.WriteString(FilePathMarker)
			b.WriteString("\n")
			b.WriteString(op.Path)
			b.WriteString("\n")
			b.WriteString(FileContentMarker)
			b.WriteString("\n")
			b.WriteString(op.Content)
			b.WriteString("\n")
		}
	}

	if len(resp.DependencyNames) > 0 {
		writeHeader(&b, sectionDependencies)
		for _, dep := range resp.DependencyNames {
			b.WriteString(dep)
			b.WriteString("\n")
		}
	}

	writeHeader(&b, sectionExplanation)
	b.WriteString(resp.Explanation)
	b.WriteString("\n")

	return b.String()
}

func writeHeader(b *strings.Builder, kind sectionKind) {
	b.WriteString(SectionMarker)
	b.WriteString(string(kind))
	b.WriteString(SectionMarker)
	b.WriteString("\n")
}
