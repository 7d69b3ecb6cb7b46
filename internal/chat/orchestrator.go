package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/apply"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/db"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/llm"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProjectStore interface {
	CreateProject(ctx context.Context, name string) (*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
}

type FileApplier interface {
	Apply(ctx context.Context, projectID string, ops []models.FileOperation) (*apply.Result, error)
}

type State string

const (
	StateIdle            State = "idle"
	StateIntentCheck     State = "intent_check"
	StateCreatingProject State = "creating_project"
	StateNeedsProject    State = "needs_project"
	StateGenerating      State = "generating"
	StateApplying        State = "applying"
	StateSucceeded       State = "succeeded"
	StateFailed          State = "failed"
)

const (
	needsProjectMessage    = "Please create a project first by saying 'create project [name]'"
	missingProjectMessage  = "The selected project could not be found. Please create a project first by saying 'create project [name]'"
	createFailedMessage    = "Sorry, the project could not be created. Please try again."
	loadFailedMessage      = "Sorry, the project could not be loaded. Please try again."
	modelFailedMessage     = "Failed to generate code. Please try again."
	rateLimitedMessage     = "The code generator is busy right now. Please try again in a moment."
	canceledMessage        = "The request was cancelled before any changes were made."
	applyFailedMessage     = "Failed to apply the generated changes. No files were modified."
	emptyExplanationFormat = "Applied %d file change(s)."
)

// Input is one incoming chat message. ProjectID is the active project, if any.
type Input struct {
	Content     string
	ProjectID   string
	CurrentFile string
}

// Turn is the outcome of one chat message: the user's message followed by
// the assistant's reply, plus the states the run went through.
type Turn struct {
	User      models.ChatMessage
	Assistant models.ChatMessage
	States    []State

	Response *models.GenerationResponse
	Applied  *apply.Result
}

func (t *Turn) Messages() []models.ChatMessage {
	return []models.ChatMessage{t.User, t.Assistant}
}

type Orchestrator struct {
	store   ProjectStore
	model   llm.Client
	applier FileApplier
	intent  IntentClassifier
	locks   *projectLocks
	logger  *zap.Logger
	now     func() time.Time
}

type Option func(*Orchestrator)

// WithIntentClassifier replaces the keyword rule used to detect project creation.
func WithIntentClassifier(c IntentClassifier) Option {
	return func(o *Orchestrator) { o.intent = c }
}

func New(store ProjectStore, model llm.Client, applier FileApplier, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:   store,
		model:   model,
		applier: applier,
		intent:  KeywordClassifier{},
		locks:   newProjectLocks(),
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HandleMessage runs one chat turn. It always returns both messages; every
// failure is reported as an assistant message with status error.
func (o *Orchestrator) HandleMessage(ctx context.Context, in Input) *Turn {
	user := o.message(models.RoleUser, in.Content)
	r := &run{
		o:      o,
		turn:   &Turn{User: user},
		logger: o.logger.With(zap.String("project_id", in.ProjectID), zap.String("message_id", user.ID)),
	}
	r.turn.Assistant = o.message(models.RoleAssistant, "")
	r.turn.Assistant.Status = models.StatusLoading
	r.to(StateIdle)

	r.to(StateIntentCheck)
	intent := o.intent.Classify(in.Content)

	switch {
	case intent.Kind == IntentCreateProject:
		r.createProject(ctx, intent.ProjectName)
	case in.ProjectID == "":
		r.to(StateNeedsProject)
		r.fail(models.FailureUserInput, needsProjectMessage, nil)
	default:
		r.generate(ctx, in)
	}

	r.turn.Assistant.CreatedAt = o.now()
	return r.turn
}

func (o *Orchestrator) message(role models.Role, content string) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: o.now(),
	}
}

type run struct {
	o      *Orchestrator
	turn   *Turn
	logger *zap.Logger
	state  State
}

func (r *run) to(next State) {
	if r.state != "" {
		r.logger.Debug("chat state", zap.String("from", string(r.state)), zap.String("to", string(next)))
	}
	r.state = next
	r.turn.States = append(r.turn.States, next)
}

func (r *run) fail(kind models.FailureKind, content string, err error) {
	r.to(StateFailed)
	r.turn.Assistant.Content = content
	r.turn.Assistant.Status = models.StatusError
	r.turn.Assistant.Failure = kind
	if err != nil {
		r.logger.Error("chat turn failed", zap.String("failure", string(kind)), zap.Error(err))
	}
}

func (r *run) succeed(content string, action *models.Action) {
	r.to(StateSucceeded)
	r.turn.Assistant.Content = content
	r.turn.Assistant.Status = models.StatusSuccess
	r.turn.Assistant.Action = action
}

func (r *run) createProject(ctx context.Context, name string) {
	r.to(StateCreatingProject)

	project, err := r.o.store.CreateProject(ctx, name)
	if err != nil {
		r.fail(models.FailureStore, createFailedMessage, err)
		return
	}

	r.logger.Info("project created", zap.String("created_project_id", project.ID), zap.String("name", project.Name))
	r.succeed(
		fmt.Sprintf("I've created a new project %q with Next.js and Tailwind CSS. You can now start adding components and pages.", project.Name),
		&models.Action{Type: models.ActionCreateProject, ProjectID: project.ID},
	)
}

func (r *run) generate(ctx context.Context, in Input) {
	release, err := r.o.locks.acquire(ctx, in.ProjectID)
	if err != nil {
		r.fail(models.FailureModel, canceledMessage, err)
		return
	}
	defer release()

	r.to(StateGenerating)

	// The snapshot is read once; the batch is later applied against whatever
	// the store holds at that point.
	project, err := r.o.store.GetProject(ctx, in.ProjectID)
	if errors.Is(err, db.ErrProjectNotFound) {
		r.fail(models.FailureUserInput, missingProjectMessage, err)
		return
	}
	if err != nil {
		r.fail(models.FailureStore, loadFailedMessage, err)
		return
	}

	req := models.GenerationRequest{
		Kind:    models.RequestAnalyze,
		Content: in.Content,
		Context: &models.GenerationContext{
			ProjectFilePaths: project.FilePaths(),
			CurrentFilePath:  in.CurrentFile,
			DependencyNames:  manifestDependencies(project),
		},
	}

	raw, err := r.o.model.Complete(ctx, llm.BuildPrompt(req), llm.SystemInstruction)
	if ctx.Err() != nil {
		r.fail(models.FailureModel, canceledMessage, ctx.Err())
		return
	}
	if err != nil {
		content := modelFailedMessage
		var f *llm.Failure
		if errors.As(err, &f) && f.Kind == llm.FailureRateLimited {
			content = rateLimitedMessage
		}
		r.fail(models.FailureModel, content, err)
		return
	}

	resp := llm.ParseResponse(raw)
	r.turn.Response = &resp
	if resp.Kind == models.ResponseError {
		r.fail(models.FailureParse, resp.Explanation, nil)
		return
	}
	if resp.Skipped > 0 {
		r.logger.Warn("dropped malformed file blocks", zap.Int("skipped", resp.Skipped))
	}
	if resp.Duplicates > 0 {
		r.logger.Warn("duplicate file paths in response, last one wins", zap.Int("duplicates", resp.Duplicates))
	}

	r.to(StateApplying)
	applied, err := r.o.applier.Apply(ctx, in.ProjectID, resp.Operations)
	if err != nil {
		r.fail(models.FailureApply, applyFailedMessage, err)
		return
	}
	r.turn.Applied = applied

	content := resp.Explanation
	if content == "" {
		content = fmt.Sprintf(emptyExplanationFormat, len(applied.Paths))
	}
	r.succeed(content, &models.Action{Type: models.ActionUpdateFile, ProjectID: in.ProjectID, Files: applied.Paths})
}

// RemoveFile deletes one file from a project. It waits for any chat turn
// running against the same project, so a delete never lands between that
// turn's generation and its apply.
func (o *Orchestrator) RemoveFile(ctx context.Context, projectID, path string) (*apply.Result, error) {
	release, err := o.locks.acquire(ctx, projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	return o.applier.Apply(ctx, projectID, []models.FileOperation{
		{Path: path, Kind: models.OperationDelete},
	})
}
