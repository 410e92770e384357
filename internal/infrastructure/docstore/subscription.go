package docstore

import (
	"context"
	"errors"
	"sync"

	"cureconnect/internal/domain/repository"
)

// subscription is the Subscription shared by every backend. Producers run
// under wg and deliver through emit; Close stops them, releases backend
// resources and then closes the updates channel.
type subscription struct {
	updates   chan repository.Snapshot
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	release   func() error
	err       error
}

func newSubscription(ctx context.Context, release func() error) *subscription {
	s := &subscription{
		updates: make(chan repository.Snapshot),
		done:    make(chan struct{}),
		release: release,
	}

	go func() {
		select {
		case <-ctx.Done():
			_ = s.Close()
		case <-s.done:
		}
	}()

	return s
}

func (s *subscription) Updates() <-chan repository.Snapshot {
	return s.updates
}

// emit blocks until the snapshot is received or the subscription is closed.
func (s *subscription) emit(snap repository.Snapshot) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.updates <- snap:
		return true
	case <-s.done:
		return false
	}
}

func (s *subscription) run(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.release != nil {
			s.err = s.release()
		}
		s.wg.Wait()
		close(s.updates)
	})
	return s.err
}

type getter interface {
	Get(ctx context.Context, collection, id string) (repository.Document, error)
}

func readSnapshot(ctx context.Context, store getter, collection, id string) repository.Snapshot {
	doc, err := store.Get(ctx, collection, id)
	switch {
	case errors.Is(err, repository.ErrDocumentNotFound):
		return repository.Snapshot{ID: id}
	case err != nil:
		return repository.Snapshot{ID: id, Err: err}
	default:
		return repository.Snapshot{ID: id, Data: doc, Exists: true}
	}
}
