package store

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUserRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	age := 30
	user := &User{
		ClerkID:     "clerk_1",
		DisplayName: "Luna",
		Email:       "luna@example.test",
		Age:         &age,
		Interests:   []string{"tea"},
		Preferences: DefaultPreferences(),
		IsActive:    true,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.ID == "" || user.CreatedAt.IsZero() {
		t.Error("create must assign id and timestamps")
	}

	got, err := s.GetUserByClerkID(ctx, "clerk_1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil || got.DisplayName != "Luna" || got.Age == nil || *got.Age != 30 {
		t.Errorf("round trip mismatch: %+v", got)
	}

	got.Description = "updated"
	if err := s.UpdateUser(ctx, got); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	again, _ := s.GetUserByClerkID(ctx, "clerk_1")
	if again.Description != "updated" {
		t.Errorf("update not persisted: %+v", again)
	}
}

func TestGetUserAbsent(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetUserByClerkID(context.Background(), "nobody")
	if err != nil || got != nil {
		t.Fatalf("absent user should be (nil, nil), got %+v, %v", got, err)
	}
}

func TestUpdateUserMissing(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateUser(context.Background(), &User{ClerkID: "ghost"})
	if err == nil {
		t.Fatal("updating a missing user should fail")
	}
}

func TestCharacterRoundTripAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B"} {
		ch := &Character{
			ClerkID: "clerk_1",
			Name:    name,
			Personality: Personality{
				Voice:    "Zephyr",
				Emotions: DefaultEmotions(),
			},
		}
		if err := s.CreateCharacter(ctx, ch); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
	}
	if err := s.CreateCharacter(ctx, &Character{ClerkID: "clerk_2", Name: "C"}); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListCharacters(ctx, "clerk_1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 characters for clerk_1, got %d", len(list))
	}

	count, err := s.CountCharacters(ctx, "clerk_1")
	if err != nil || count != 2 {
		t.Errorf("count = %d, err = %v", count, err)
	}

	got, err := s.GetCharacter(ctx, list[0].ID)
	if err != nil || got == nil {
		t.Fatalf("get failed: %+v, %v", got, err)
	}
	if got.Personality.Emotions != DefaultEmotions() {
		t.Errorf("nested document fields lost: %+v", got.Personality)
	}

	if err := s.DeleteCharacter(ctx, got.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if after, _ := s.GetCharacter(ctx, got.ID); after != nil {
		t.Error("character should be gone after delete")
	}
}

func TestConversationOwnershipAndListing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv := &Conversation{
		ClerkID:     "clerk_1",
		CharacterID: "char_1",
		Title:       "Chat",
		Messages: []Message{
			{ID: "m1", Role: RoleUser, Content: "hello"},
		},
		PinnedMessages: []string{"m1"},
		MessageCount:   1,
	}
	if err := s.CreateConversation(ctx, conv); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if got, _ := s.GetConversation(ctx, conv.ID, "clerk_2"); got != nil {
		t.Error("foreign clerk id must not see the conversation")
	}

	got, err := s.GetConversation(ctx, conv.ID, "clerk_1")
	if err != nil || got == nil {
		t.Fatalf("get failed: %+v, %v", got, err)
	}
	if len(got.Messages) != 1 || len(got.PinnedMessages) != 1 {
		t.Errorf("document fields lost: %+v", got)
	}

	list, err := s.ListConversations(ctx, "clerk_1", "")
	if err != nil || len(list) != 1 {
		t.Fatalf("list failed: %d, %v", len(list), err)
	}
	if list[0].Messages != nil {
		t.Error("listings must exclude message bodies")
	}
	if list[0].MessageCount != 1 {
		t.Errorf("listing should keep the message count, got %d", list[0].MessageCount)
	}

	if filtered, _ := s.ListConversations(ctx, "clerk_1", "other_char"); len(filtered) != 0 {
		t.Error("character filter not applied")
	}

	count, err := s.CountConversations(ctx, "clerk_1", "char_1")
	if err != nil || count != 1 {
		t.Errorf("count = %d, err = %v", count, err)
	}
}

func TestDeleteConversationsByCharacter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.CreateConversation(ctx, &Conversation{ClerkID: "clerk_1", CharacterID: "char_1"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.CreateConversation(ctx, &Conversation{ClerkID: "clerk_1", CharacterID: "char_2"}); err != nil {
		t.Fatal(err)
	}

	removed, err := s.DeleteConversationsByCharacter(ctx, "char_1", "clerk_1")
	if err != nil {
		t.Fatalf("cascade delete failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 removed, got %d", removed)
	}
	left, _ := s.ListConversations(ctx, "clerk_1", "")
	if len(left) != 1 || left[0].CharacterID != "char_2" {
		t.Errorf("unrelated conversations must survive: %+v", left)
	}
}

func TestUpdateConversation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv := &Conversation{ClerkID: "clerk_1", CharacterID: "char_1", Title: "old"}
	if err := s.CreateConversation(ctx, conv); err != nil {
		t.Fatal(err)
	}
	conv.Title = "new"
	conv.Messages = append(conv.Messages, Message{ID: "m1", Role: RoleUser, Content: "hi"})
	conv.MessageCount = 1
	if err := s.UpdateConversation(ctx, conv); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, _ := s.GetConversation(ctx, conv.ID, "clerk_1")
	if got.Title != "new" || got.MessageCount != 1 {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := s.UpdateConversation(ctx, &Conversation{ID: "ghost", ClerkID: "clerk_1"}); err == nil {
		t.Error("updating a missing conversation should fail")
	}
}
