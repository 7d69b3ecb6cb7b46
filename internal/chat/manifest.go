package chat

import (
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
	"github.com/tidwall/gjson"
)

const manifestPath = "package.json"

// manifestDependencies lists the keys of package.json's "dependencies"
// object in document order. A missing or malformed manifest yields nil.
func manifestDependencies(project *models.Project) []string {
	f, ok := project.File(manifestPath)
	if !ok || !gjson.Valid(f.Content) {
		return nil
	}

	var names []string
	gjson.Get(f.Content, "dependencies").ForEach(func(key, _ gjson.Result) bool {
		if name := key.String(); name != "" {
			names = append(names, name)
		}
		return true
	})
	return names
}
