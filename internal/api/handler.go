package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/chat"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/db"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
	"go.uber.org/zap"
)

type Store interface {
	CreateProject(ctx context.Context, name string) (*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListRecentProjects(ctx context.Context, limit int) ([]models.Project, error)
	InitProject(ctx context.Context) (*models.Project, error)
	SaveMessage(ctx context.Context, projectID string, msg models.ChatMessage) error
	ListMessages(ctx context.Context, projectID string, limit int) ([]models.ChatMessage, error)
}

type Handler struct {
	store  Store
	chat   *chat.Orchestrator
	logger *zap.Logger
}

func NewHandler(store Store, orchestrator *chat.Orchestrator, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		chat:   orchestrator,
		logger: logger,
	}
}

// Register wires every route onto mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/message", h.HandleMessage)
	mux.HandleFunc("/api/projects", h.Projects)
	mux.HandleFunc("/api/projects/init", h.InitProject)
	mux.HandleFunc("/api/project", h.GetProject)
	mux.HandleFunc("/api/project/file", h.DeleteFile)
	mux.HandleFunc("/api/messages", h.GetMessages)
}

type MessageRequest struct {
	Content     string `json:"content"`
	CurrentFile string `json:"current_file,omitempty"`
}

type MessageResponse struct {
	Messages  []models.ChatMessage `json:"messages"`
	ProjectID string               `json:"project_id,omitempty"`
}

type CreateProjectRequest struct {
	Name string `json:"name"`
}

func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	projectID := r.URL.Query().Get("project_id")
	turn := h.chat.HandleMessage(r.Context(), chat.Input{
		Content:     req.Content,
		ProjectID:   projectID,
		CurrentFile: req.CurrentFile,
	})

	// A newly created project becomes the home of the turn that created it.
	if a := turn.Assistant.Action; a != nil && a.Type == models.ActionCreateProject {
		projectID = a.ProjectID
	}
	if projectID != "" {
		for _, msg := range turn.Messages() {
			if err := h.store.SaveMessage(r.Context(), projectID, msg); err != nil {
				h.logger.Error("Failed to save message",
					zap.Error(err),
					zap.String("project_id", projectID),
					zap.String("message_id", msg.ID))
			}
		}
	}

	h.writeJSON(w, http.StatusOK, MessageResponse{Messages: turn.Messages(), ProjectID: projectID})
}

func (h *Handler) Projects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		projects, err := h.store.ListRecentProjects(r.Context(), limit)
		if err != nil {
			h.logger.Error("Failed to list projects",
				zap.Error(err),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		h.logger.Debug("Retrieved projects", zap.Int("count", len(projects)))
		h.writeJSON(w, http.StatusOK, projects)

	case http.MethodPost:
		var req CreateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		project, err := h.store.CreateProject(r.Context(), req.Name)
		if err != nil {
			h.logger.Error("Failed to create project", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, http.StatusCreated, project)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) InitProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	project, err := h.store.InitProject(r.Context())
	if err != nil {
		h.logger.Error("Failed to initialize project", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, project)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "Query parameter 'project_id' is required", http.StatusBadRequest)
		return
	}

	project, err := h.store.GetProject(r.Context(), projectID)
	if errors.Is(err, db.ErrProjectNotFound) {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("Failed to get project", zap.Error(err), zap.String("project_id", projectID))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, project)
}

// DeleteFile removes one file. Generated replies cannot express deletion, so
// this is the only way to delete.
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	projectID := r.URL.Query().Get("project_id")
	path := r.URL.Query().Get("path")
	if projectID == "" || path == "" {
		http.Error(w, "Query parameters 'project_id' and 'path' are required", http.StatusBadRequest)
		return
	}

	result, err := h.chat.RemoveFile(r.Context(), projectID, path)
	if errors.Is(err, db.ErrProjectNotFound) {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("Failed to delete file", zap.Error(err), zap.String("project_id", projectID), zap.String("path", path))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "Query parameter 'project_id' is required", http.StatusBadRequest)
		return
	}

	messages, err := h.store.ListMessages(r.Context(), projectID, 50)
	if err != nil {
		h.logger.Error("Failed to get messages", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, messages)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
