package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
	"github.com/google/uuid"
)

type memProject struct {
	meta  models.Project
	seq   int
	files map[string]models.ProjectFile
}

// MemoryStore keeps projects in process. Batches write to a copy of the
// project's files and swap it in on success.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*memProject
	messages map[string][]models.ChatMessage
	seq      int
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]*memProject),
		messages: make(map[string][]models.ChatMessage),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.seq++
	p := &memProject{
		meta:  models.Project{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now},
		seq:   s.seq,
		files: make(map[string]models.ProjectFile),
	}
	tx := &memFileTx{projectID: p.meta.ID, files: p.files, now: now}
	for _, f := range DefaultFiles() {
		if err := tx.UpsertFile(ctx, f.Path, f.Content); err != nil {
			return nil, err
		}
	}
	s.projects[p.meta.ID] = p

	out := p.meta
	return &out, nil
}

func (s *MemoryStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}

	out := p.meta
	out.Files = make([]models.ProjectFile, 0, len(p.files))
	for _, f := range p.files {
		out.Files = append(out.Files, f)
	}
	sort.Slice(out.Files, func(i, j int) bool { return out.Files[i].Path < out.Files[j].Path })
	return &out, nil
}

func (s *MemoryStore) ListRecentProjects(ctx context.Context, limit int) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*memProject, 0, len(s.projects))
	for _, p := range s.projects {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq > all[j].seq })

	projects := make([]models.Project, 0)
	for _, p := range all {
		if limit > 0 && len(projects) >= limit {
			break
		}
		projects = append(projects, p.meta)
	}
	return projects, nil
}

func (s *MemoryStore) InitProject(ctx context.Context) (*models.Project, error) {
	return initProject(ctx, s)
}

func (s *MemoryStore) UpsertFile(ctx context.Context, projectID, path, content string) error {
	return s.Batch(ctx, projectID, func(tx FileTx) error {
		return tx.UpsertFile(ctx, path, content)
	})
}

func (s *MemoryStore) DeleteFile(ctx context.Context, projectID, path string) error {
	return s.Batch(ctx, projectID, func(tx FileTx) error {
		return tx.DeleteFile(ctx, path)
	})
}

func (s *MemoryStore) Batch(ctx context.Context, projectID string, fn func(FileTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return ErrProjectNotFound
	}

	staged := make(map[string]models.ProjectFile, len(p.files))
	for k, v := range p.files {
		staged[k] = v
	}

	now := s.now()
	if err := fn(&memFileTx{projectID: projectID, files: staged, now: now}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.files = staged
	p.meta.UpdatedAt = now
	return nil
}

type memFileTx struct {
	projectID string
	files     map[string]models.ProjectFile
	now       time.Time
}

func (t *memFileTx) ReadFile(ctx context.Context, path string) (string, bool, error) {
	f, ok := t.files[path]
	return f.Content, ok, nil
}

func (t *memFileTx) UpsertFile(ctx context.Context, path, content string) error {
	f, ok := t.files[path]
	if !ok {
		f = models.ProjectFile{ID: uuid.NewString(), ProjectID: t.projectID, Path: path, CreatedAt: t.now}
	}
	f.Content = content
	f.Type = FileType(path)
	f.UpdatedAt = t.now
	t.files[path] = f
	return nil
}

func (t *memFileTx) DeleteFile(ctx context.Context, path string) error {
	delete(t.files, path)
	return nil
}

func (s *MemoryStore) SaveMessage(ctx context.Context, projectID string, msg models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[projectID] = append(s.messages[projectID], msg)
	return nil
}

func (s *MemoryStore) ListMessages(ctx context.Context, projectID string, limit int) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[projectID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]models.ChatMessage(nil), msgs...), nil
}
