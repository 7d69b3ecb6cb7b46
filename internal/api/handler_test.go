package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/apply"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/chat"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/db"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/llm"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (http.Handler, *db.MemoryStore) {
	t.Helper()

	store := db.NewMemoryStore()
	applier := apply.New(store, zap.NewNop())
	orchestrator := chat.New(store, llm.NewMockClient(), applier, zap.NewNop())

	mux := http.NewServeMux()
	NewHandler(store, orchestrator, zap.NewNop()).Register(mux)
	return mux, store
}

func postMessage(t *testing.T, srv http.Handler, projectID, content string) MessageResponse {
	t.Helper()

	body, err := json.Marshal(MessageRequest{Content: content})
	require.NoError(t, err)

	target := "/api/message"
	if projectID != "" {
		target += "?project_id=" + url.QueryEscape(projectID)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp MessageResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestCreateProjectThenGenerate(t *testing.T) {
	srv, store := newTestServer(t)

	created := postMessage(t, srv, "", "create project apollo")
	require.Len(t, created.Messages, 2)
	require.NotNil(t, created.Messages[1].Action)
	projectID := created.Messages[1].Action.ProjectID
	assert.Equal(t, projectID, created.ProjectID)

	generated := postMessage(t, srv, projectID, "a pricing page")
	require.Len(t, generated.Messages, 2)
	assistant := generated.Messages[1]
	assert.Equal(t, models.StatusSuccess, assistant.Status)
	assert.Equal(t, []string{"app/generated/page.tsx"}, assistant.Action.Files)

	project, err := store.GetProject(context.Background(), projectID)
	require.NoError(t, err)
	_, ok := project.File("app/generated/page.tsx")
	assert.True(t, ok)

	req := httptest.NewRequest(http.MethodGet, "/api/messages?project_id="+projectID, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var history []models.ChatMessage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&history))
	require.Len(t, history, 4)
	assert.Equal(t, "create project apollo", history[0].Content)
	assert.Equal(t, models.RoleAssistant, history[3].Role)
}

func TestMessageWithoutProject(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postMessage(t, srv, "", "add a navbar")

	require.Len(t, resp.Messages, 2)
	assert.Equal(t, models.StatusError, resp.Messages[1].Status)
	assert.Equal(t, models.FailureUserInput, resp.Messages[1].Failure)
	assert.Empty(t, resp.ProjectID)
}

func TestMessageRejectsBadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/message", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/message", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/projects/init", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var initial models.Project
	require.NoError(t, json.NewDecoder(w.Body).Decode(&initial))
	assert.Equal(t, db.DefaultProjectName, initial.Name)
	assert.NotEmpty(t, initial.Files)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewBufferString(`{"name":"shop"}`)))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects?limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var projects []models.Project
	require.NoError(t, json.NewDecoder(w.Body).Decode(&projects))
	require.Len(t, projects, 2)
	assert.Equal(t, "shop", projects[0].Name)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/project?project_id="+initial.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/project?project_id=missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteFile(t *testing.T) {
	srv, store := newTestServer(t)
	project, err := store.CreateProject(context.Background(), "apollo")
	require.NoError(t, err)

	target := "/api/project/file?project_id=" + project.ID + "&path=" + url.QueryEscape("next.config.ts")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, target, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result apply.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, []string{"next.config.ts"}, result.Paths)

	// deleting an absent file succeeds and touches nothing
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, target, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Empty(t, result.Paths)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/project/file?project_id=missing&path=a.ts", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
