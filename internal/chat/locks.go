package chat

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// projectLocks serialises generate+apply runs per project. Waiting for a
// lock honours context cancellation.
type projectLocks struct {
	mu    sync.Mutex
	locks map[string]*projectLock
}

type projectLock struct {
	sem  *semaphore.Weighted
	refs int
}

func newProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[string]*projectLock)}
}

func (l *projectLocks) acquire(ctx context.Context, projectID string) (func(), error) {
	l.mu.Lock()
	pl, ok := l.locks[projectID]
	if !ok {
		pl = &projectLock{sem: semaphore.NewWeighted(1)}
		l.locks[projectID] = pl
	}
	pl.refs++
	l.mu.Unlock()

	if err := pl.sem.Acquire(ctx, 1); err != nil {
		l.drop(projectID, pl)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			pl.sem.Release(1)
			l.drop(projectID, pl)
		})
	}, nil
}

func (l *projectLocks) drop(projectID string, pl *projectLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pl.refs--
	if pl.refs == 0 {
		delete(l.locks, projectID)
	}
}
