package chat

import "strings"

type IntentKind string

const (
	IntentGenerate      IntentKind = "generate"
	IntentCreateProject IntentKind = "create_project"
)

const DefaultNewProjectName = "new-project"

type Intent struct {
	Kind        IntentKind
	ProjectName string
}

// IntentClassifier decides whether a message asks for a new project or for
// code generation against the active one.
type IntentClassifier interface {
	Classify(message string) Intent
}

// KeywordClassifier routes any message containing both "create" and
// "project" (case-insensitive) to project creation, naming the project after
// the message's last word.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(message string) Intent {
	lower := strings.ToLower(message)
	if !strings.Contains(lower, "create") || !strings.Contains(lower, "project") {
		return Intent{Kind: IntentGenerate}
	}

	name := DefaultNewProjectName
	if fields := strings.Fields(message); len(fields) > 0 {
		name = fields[len(fields)-1]
	}
	return Intent{Kind: IntentCreateProject, ProjectName: name}
}
