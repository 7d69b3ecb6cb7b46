package apply

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/db"
	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"
)

// Store runs a set of file writes against one project as a single unit.
type Store interface {
	Batch(ctx context.Context, projectID string, fn func(db.FileTx) error) error
}

type ChangeKind string

const (
	ChangeCreated   ChangeKind = "created"
	ChangeUpdated   ChangeKind = "updated"
	ChangeUnchanged ChangeKind = "unchanged"
	ChangeDeleted   ChangeKind = "deleted"
)

type FileChange struct {
	Path    string     `json:"path"`
	Change  ChangeKind `json:"change"`
	Added   int        `json:"added"`
	Removed int        `json:"removed"`
}

// Result lists the paths a batch touched, each once, in the order they were
// first touched.
type Result struct {
	Paths   []string     `json:"paths"`
	Changes []FileChange `json:"changes"`
}

// ApplyError wraps the store's rejection of a batch. None of the batch's
// operations are visible when it is returned.
type ApplyError struct {
	Op  models.FileOperation
	Err error
}

func (e *ApplyError) Error() string {
	if e.Op.Path == "" {
		return fmt.Sprintf("apply batch: %v", e.Err)
	}
	return fmt.Sprintf("apply %s %s: %v", e.Op.Kind, e.Op.Path, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

type Applier struct {
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Applier {
	return &Applier{store: store, logger: logger}
}

// Apply writes ops to the project in order, all or nothing. Later operations
// on the same path overwrite earlier ones. Deleting a missing path is a no-op.
func (a *Applier) Apply(ctx context.Context, projectID string, ops []models.FileOperation) (*Result, error) {
	var result *Result

	err := a.store.Batch(ctx, projectID, func(tx db.FileTx) error {
		result = &Result{Paths: []string{}, Changes: []FileChange{}}
		index := make(map[string]int)

		for _, op := range ops {
			if err := ctx.Err(); err != nil {
				return &ApplyError{Op: op, Err: err}
			}

			change, touched, err := applyOne(ctx, tx, op)
			if err != nil {
				return &ApplyError{Op: op, Err: err}
			}
			if !touched {
				continue
			}

			if i, ok := index[op.Path]; ok {
				result.Changes[i] = merge(result.Changes[i], change)
				continue
			}
			index[op.Path] = len(result.Changes)
			result.Paths = append(result.Paths, op.Path)
			result.Changes = append(result.Changes, change)
		}
		return nil
	})
	if err != nil {
		var applyErr *ApplyError
		if !errors.As(err, &applyErr) {
			err = &ApplyError{Err: err}
		}
		a.logger.Warn("file operations rolled back",
			zap.String("project_id", projectID),
			zap.Int("operations", len(ops)),
			zap.Error(err))
		return nil, err
	}

	a.logger.Info("file operations applied",
		zap.String("project_id", projectID),
		zap.Int("operations", len(ops)),
		zap.Strings("paths", result.Paths))
	return result, nil
}

func applyOne(ctx context.Context, tx db.FileTx, op models.FileOperation) (FileChange, bool, error) {
	old, exists, err := tx.ReadFile(ctx, op.Path)
	if err != nil {
		return FileChange{}, false, err
	}

	switch op.Kind {
	case models.OperationCreate, models.OperationUpdate:
		if err := tx.UpsertFile(ctx, op.Path, op.Content); err != nil {
			return FileChange{}, false, err
		}
		change := FileChange{Path: op.Path, Change: ChangeCreated}
		if exists {
			change.Change = ChangeUpdated
			if old == op.Content {
				change.Change = ChangeUnchanged
			}
		}
		change.Added, change.Removed = lineStats(old, op.Content)
		return change, true, nil

	case models.OperationDelete:
		if !exists {
			return FileChange{}, false, nil
		}
		if err := tx.DeleteFile(ctx, op.Path); err != nil {
			return FileChange{}, false, err
		}
		_, removed := lineStats(old, "")
		return FileChange{Path: op.Path, Change: ChangeDeleted, Removed: removed}, true, nil

	default:
		return FileChange{}, false, fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

// merge folds a later change to the same path into the earlier one.
func merge(prev, next FileChange) FileChange {
	next.Added += prev.Added
	next.Removed += prev.Removed
	if prev.Change == ChangeCreated && next.Change != ChangeDeleted {
		next.Change = ChangeCreated
	}
	return next
}

func lineStats(oldText, newText string) (added, removed int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		n := countLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += n
		case diffmatchpatch.DiffDelete:
			removed += n
		}
	}
	return added, removed
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
