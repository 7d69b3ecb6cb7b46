package models

type RequestKind string

const (
	RequestCreateComponent RequestKind = "create_component"
	RequestCreatePage      RequestKind = "create_page"
	RequestModifyCode      RequestKind = "modify_code"
	RequestAnalyze         RequestKind = "analyze_request"
)

// GenerationRequest is built fresh for every chat turn and never persisted.
type GenerationRequest struct {
	Kind    RequestKind        `json:"kind"`
	Content string             `json:"content"`
	Context *GenerationContext `json:"context,omitempty"`
}

type GenerationContext struct {
	ProjectFilePaths []string `json:"project_file_paths,omitempty"`
	CurrentFilePath  string   `json:"current_file_path,omitempty"`
	DependencyNames  []string `json:"dependency_names,omitempty"`
}

type ResponseKind string

const (
	ResponseCode  ResponseKind = "code"
	ResponseError ResponseKind = "error"
)

type OperationKind string

const (
	OperationCreate OperationKind = "create"
	OperationUpdate OperationKind = "update"
	OperationDelete OperationKind = "delete"
)

type FileOperation struct {
	Path    string        `json:"path"`
	Content string        `json:"content"`
	Kind    OperationKind `json:"kind"`
}

// GenerationResponse is derived from one raw model reply.
//
// Operations keep their order of appearance. When two operations target the
// same path they are both kept; applying them in order makes the last one win,
// and Duplicates counts how many were shadowed that way.
type GenerationResponse struct {
	Kind            ResponseKind    `json:"kind"`
	Explanation     string          `json:"explanation"`
	Operations      []FileOperation `json:"file_operations"`
	DependencyNames []string        `json:"dependency_names"`
	Skipped         int             `json:"skipped"`
	Duplicates      int             `json:"duplicates"`
}
