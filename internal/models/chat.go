package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type ActionType string

const (
	ActionCreateProject ActionType = "create_project"
	ActionUpdateFile    ActionType = "update_file"
)

// Action tells the UI what changed as a result of an assistant reply.
type Action struct {
	Type      ActionType `json:"type"`
	ProjectID string     `json:"project_id,omitempty"`
	Files     []string   `json:"files,omitempty"`
}

type ChatMessage struct {
	ID        string      `json:"id"`
	Role      Role        `json:"role"`
	Content   string      `json:"content"`
	Status    Status      `json:"status,omitempty"`
	Action    *Action     `json:"action,omitempty"`
	Failure   FailureKind `json:"failure,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
