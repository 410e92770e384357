package docstore

import (
	"context"
	"sync"

	"cureconnect/internal/domain/repository"
)

// MemoryStore keeps documents in process memory. Used by tests and by
// STORE_DRIVER=memory for local runs.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]repository.Document
	watchers    map[string]map[chan struct{}]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]repository.Document),
		watchers:    make(map[string]map[chan struct{}]struct{}),
	}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}
	// Copy under the lock; Update and Merge modify stored maps in place.
	return normalize(doc)
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, doc repository.Document) error {
	stored, err := normalize(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.put(collection, id, stored)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields repository.Document) error {
	patch, err := normalize(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return repository.ErrDocumentNotFound
	}
	for key, value := range patch {
		doc[key] = value
	}
	s.put(collection, id, doc)
	return nil
}

func (s *MemoryStore) Merge(ctx context.Context, collection, id string, fields repository.Document) error {
	patch, err := normalize(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(collection, id, deepMerge(s.collections[collection][id], patch))
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Record, error) {
	filters, err := normalizeFilters(filters)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []repository.Record{}
	for id, doc := range s.collections[collection] {
		if !matches(doc, filters) {
			continue
		}
		data, err := normalize(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, repository.Record{ID: id, Data: data})
	}
	sortRecords(records)
	return records, nil
}

func (s *MemoryStore) Watch(ctx context.Context, collection, id string) (repository.Subscription, error) {
	key := channelName(collection, id)
	signal := make(chan struct{}, 1)

	s.mu.Lock()
	if s.watchers[key] == nil {
		s.watchers[key] = make(map[chan struct{}]struct{})
	}
	s.watchers[key][signal] = struct{}{}
	s.mu.Unlock()

	sub := newSubscription(ctx, func() error {
		s.mu.Lock()
		delete(s.watchers[key], signal)
		if len(s.watchers[key]) == 0 {
			delete(s.watchers, key)
		}
		s.mu.Unlock()
		return nil
	})

	sub.run(func() {
		if !sub.emit(readSnapshot(context.Background(), s, collection, id)) {
			return
		}
		for {
			select {
			case <-signal:
				if !sub.emit(readSnapshot(context.Background(), s, collection, id)) {
					return
				}
			case <-sub.done:
				return
			}
		}
	})

	return sub, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// put stores doc and signals watchers. Caller holds s.mu.
func (s *MemoryStore) put(collection, id string, doc repository.Document) {
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]repository.Document)
	}
	s.collections[collection][id] = doc

	for signal := range s.watchers[channelName(collection, id)] {
		select {
		case signal <- struct{}{}:
		default:
		}
	}
}
