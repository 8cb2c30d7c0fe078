package store

import (
	"context"
	"testing"
)

func TestMemoryStoreClonesDocuments(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	conv := &Conversation{ClerkID: "clerk_1", CharacterID: "char_1", Title: "t"}
	if err := s.CreateConversation(ctx, conv); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetConversation(ctx, conv.ID, "clerk_1")
	got.Title = "mutated locally"
	got.Messages = append(got.Messages, Message{ID: "m1", Role: RoleUser, Content: "hi"})

	again, _ := s.GetConversation(ctx, conv.ID, "clerk_1")
	if again.Title != "t" || len(again.Messages) != 0 {
		t.Errorf("store state must not alias returned documents: %+v", again)
	}
}

func TestMemoryStoreListOrdering(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := &Conversation{ClerkID: "clerk_1", CharacterID: "char_1", Title: "first"}
	second := &Conversation{ClerkID: "clerk_1", CharacterID: "char_1", Title: "second"}
	if err := s.CreateConversation(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateConversation(ctx, second); err != nil {
		t.Fatal(err)
	}

	// Touch the older conversation so it becomes the most recent.
	first.Title = "first, updated"
	if err := s.UpdateConversation(ctx, first); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListConversations(ctx, "clerk_1", "")
	if err != nil || len(list) != 2 {
		t.Fatalf("list failed: %d, %v", len(list), err)
	}
	if list[0].ID != first.ID {
		t.Errorf("most recently updated should sort first, got %q", list[0].Title)
	}
}
