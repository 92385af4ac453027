package memory

import (
	"context"
	"errors"
	"sync"
)

var errWriterClosed = errors.New("memory: writer already committed or rolled back")

// Store keeps every session in process memory. Reads see the last committed
// partition; a session has at most one open Writer.
type Store struct {
	mu         sync.RWMutex
	partitions map[string]*partition
	writers    map[string]chan struct{}
}

func NewStore() *Store {
	return &Store{
		partitions: make(map[string]*partition),
		writers:    make(map[string]chan struct{}),
	}
}

func (s *Store) snapshot(session string) *partition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.partitions[session]
	if !ok {
		return &partition{}
	}
	return p
}

func (s *Store) writerSlot(session string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.writers[session]
	if !ok {
		slot = make(chan struct{}, 1)
		s.writers[session] = slot
	}
	return slot
}

// Read returns a view over the committed state of session.
func (s *Store) Read(session string) *Reader {
	return &Reader{load: func() *partition {
		return s.snapshot(session)
	}}
}

// Write waits for the session's writer slot, or for ctx to be done.
func (s *Store) Write(ctx context.Context, session string) (*Writer, error) {
	slot := s.writerSlot(session)
	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	w := &Writer{
		store:   s,
		session: session,
		slot:    slot,
		staged:  s.snapshot(session).clone(),
	}
	w.Reader = Reader{load: func() *partition {
		return w.staged
	}}
	return w, nil
}

func (s *Store) commit(session string, p *partition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partitions[session] = p
}
