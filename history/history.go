// Package history keeps the posts generated during this process run. The
// list is unbounded and lives in memory only; it is cleared by explicit
// operator action or process exit.
package history

import (
	"sync"

	"github.com/serisow/glowpress/pipeline_type"
)

type Entry struct {
	Post      pipeline_type.Post           `json:"post"`
	Published *pipeline_type.PublishResult `json:"published,omitempty"`
}

type Store struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Add(post pipeline_type.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{Post: post})
}

// List returns the entries newest first.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}
	return out
}

func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.Post.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// MarkPublished records the publish result on an existing entry.
func (s *Store) MarkPublished(id string, result pipeline_type.PublishResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].Post.ID == id {
			s.entries[i].Published = &result
			return true
		}
	}
	return false
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.Post.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
