package history

import (
	"testing"

	"github.com/serisow/glowpress/pipeline_type"
)

func samplePost(id, topic string) pipeline_type.Post {
	return pipeline_type.Post{
		ID:    id,
		Topic: topic,
		Title: "A Title About " + topic,
	}
}

func TestStoreAddAndList(t *testing.T) {
	s := NewStore()
	s.Add(samplePost("a", "retinol"))
	s.Add(samplePost("b", "spf"))

	entries := s.List()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Post.ID != "b" || entries[1].Post.ID != "a" {
		t.Errorf("unexpected order: %s, %s", entries[0].Post.ID, entries[1].Post.ID)
	}
}

func TestStoreMarkPublished(t *testing.T) {
	s := NewStore()
	s.Add(samplePost("a", "retinol"))

	ok := s.MarkPublished("a", pipeline_type.PublishResult{PostID: "123", URL: "http://blog/123"})
	if !ok {
		t.Fatal("MarkPublished returned false for existing entry")
	}

	entry, found := s.Get("a")
	if !found {
		t.Fatal("entry disappeared")
	}
	if entry.Published == nil || entry.Published.PostID != "123" {
		t.Errorf("publish result not recorded: %+v", entry.Published)
	}

	if s.MarkPublished("missing", pipeline_type.PublishResult{}) {
		t.Error("MarkPublished returned true for missing entry")
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore()
	s.Add(samplePost("a", "retinol"))
	s.Add(samplePost("b", "spf"))

	if !s.Delete("a") {
		t.Fatal("Delete returned false for existing entry")
	}
	if s.Delete("a") {
		t.Error("Delete returned true for already removed entry")
	}
	if s.Len() != 1 {
		t.Errorf("got %d entries after delete, want 1", s.Len())
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	s.Add(samplePost("a", "retinol"))
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("got %d entries after clear, want 0", s.Len())
	}
}
