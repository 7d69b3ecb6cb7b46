package llm

import (
	"strings"
	"unicode/utf8"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
)

// Wire markers. Content that itself contains one of them cannot be framed;
// the format defines no escaping.
const (
	SectionMarker     = "---"
	FilePathMarker    = "[file path]"
	FileContentMarker = "[file content]"
)

type sectionKind string

const (
	sectionFiles        sectionKind = "FILES"
	sectionDependencies sectionKind = "DEPENDENCIES"
	sectionExplanation  sectionKind = "EXPLANATION"
)

// ParseFailureMessage is the explanation of a response the parser gave up on.
const ParseFailureMessage = "Failed to parse AI response"

// ParseResponse turns a raw model reply into a GenerationResponse. It never
// fails: structurally unusable input yields a response of kind error.
//
// Malformed file blocks are dropped and counted in Skipped rather than
// aborting the whole reply.
func ParseResponse(raw string) (resp models.GenerationResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = parseFailure()
		}
	}()

	if !utf8.ValidString(raw) {
		return parseFailure()
	}

	resp = models.GenerationResponse{
		Kind:            models.ResponseCode,
		Operations:      []models.FileOperation{},
		DependencyNames: []string{},
	}
	seen := make(map[string]bool)

	sections := strings.Split(raw, SectionMarker)
	for i := 0; i < len(sections); i++ {
		kind, ok := classifySection(sections[i])
		if !ok {
			continue
		}

		body, inline := sections[i], true
		// "---FILES---" puts the keyword in a section of its own; the body
		// is the section after it.
		if strings.TrimSpace(body) == string(kind) && i+1 < len(sections) {
			i++
			body, inline = sections[i], false
		}

		switch kind {
		case sectionFiles:
			ops, skipped := parseFiles(body)
			for _, op := range ops {
				if seen[op.Path] {
					resp.Duplicates++
				}
				seen[op.Path] = true
			}
			resp.Operations = append(resp.Operations, ops...)
			resp.Skipped += skipped
		case sectionDependencies:
			resp.DependencyNames = append(resp.DependencyNames, parseDependencies(body, inline)...)
		case sectionExplanation:
			if inline {
				body = strings.Replace(body, string(sectionExplanation), "", 1)
			}
			resp.Explanation = strings.TrimSpace(body)
		}
	}

	return resp
}

func parseFailure() models.GenerationResponse {
	return models.GenerationResponse{
		Kind:            models.ResponseError,
		Explanation:     ParseFailureMessage,
		Operations:      []models.FileOperation{},
		DependencyNames: []string{},
	}
}

// classifySection checks keywords in a fixed priority order.
func classifySection(section string) (sectionKind, bool) {
	for _, kind := range []sectionKind{sectionFiles, sectionDependencies, sectionExplanation} {
		if strings.Contains(section, string(kind)) {
			return kind, true
		}
	}
	return "", false
}

func parseFiles(body string) ([]models.FileOperation, int) {
	var (
		ops     []models.FileOperation
		skipped int
	)

	// Anything before the first path marker is preamble.
	fragments := strings.Split(body, FilePathMarker)
	for _, fragment := range fragments[1:] {
		if fragment == "" {
			continue
		}

		path, content, found := strings.Cut(fragment, FileContentMarker)
		path = strings.TrimSpace(path)
		content = fileBody(content)
		if !found || path == "" || content == "" {
			skipped++
			continue
		}

		ops = append(ops, models.FileOperation{
			Path:    path,
			Content: content,
			Kind:    models.OperationCreate,
		})
	}
	return ops, skipped
}

// fileBody removes the line break after the content marker and the one
// before the next marker. Everything between them is kept byte for byte.
func fileBody(s string) string {
	if !strings.Contains(s, "\n") {
		return strings.TrimSpace(s)
	}
	if i := strings.IndexByte(s, '\n'); strings.TrimSpace(s[:i]) == "" {
		s = s[i+1:]
	}
	if i := strings.LastIndexByte(s, '\n'); i >= 0 && strings.TrimSpace(s[i+1:]) == "" {
		s = s[:i]
	}
	return s
}

func parseDependencies(body string, inline bool) []string {
	var deps []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || (inline && strings.Contains(line, string(sectionDependencies))) {
			continue
		}
		deps = append(deps, line)
	}
	return deps
}
