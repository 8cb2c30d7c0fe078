package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and local development.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[string]*User         // keyed by clerkId
	characters    map[string]*Character    // keyed by id
	conversations map[string]*Conversation // keyed by id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]*User),
		characters:    make(map[string]*Character),
		conversations: make(map[string]*Conversation),
	}
}

func (s *MemoryStore) Close() error { return nil }

// clone round-trips through JSON so callers never alias stored documents.
func clone[T any](in *T) *T {
	if in == nil {
		return nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		panic(err)
	}
	return out
}

func (s *MemoryStore) GetUserByClerkID(_ context.Context, clerkID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.users[clerkID]), nil
}

func (s *MemoryStore) CreateUser(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ClerkID] = clone(user)
	return nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.UpdatedAt = time.Now()
	s.users[user.ClerkID] = clone(user)
	return nil
}

func (s *MemoryStore) CreateCharacter(_ context.Context, ch *Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	now := time.Now()
	ch.CreatedAt = now
	ch.UpdatedAt = now
	s.characters[ch.ID] = clone(ch)
	return nil
}

func (s *MemoryStore) GetCharacter(_ context.Context, id string) (*Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.characters[id]), nil
}

func (s *MemoryStore) ListCharacters(_ context.Context, clerkID string) ([]Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Character
	for _, ch := range s.characters {
		if ch.ClerkID == clerkID {
			out = append(out, *clone(ch))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *MemoryStore) CountCharacters(_ context.Context, clerkID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, ch := range s.characters {
		if ch.ClerkID == clerkID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) UpdateCharacter(_ context.Context, ch *Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch.UpdatedAt = time.Now()
	s.characters[ch.ID] = clone(ch)
	return nil
}

func (s *MemoryStore) DeleteCharacter(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.characters, id)
	return nil
}

func (s *MemoryStore) CreateConversation(_ context.Context, conv *Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	s.conversations[conv.ID] = clone(conv)
	return nil
}

func (s *MemoryStore) GetConversation(_ context.Context, id, clerkID string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv := s.conversations[id]
	if conv == nil || conv.ClerkID != clerkID {
		return nil, nil
	}
	return clone(conv), nil
}

func (s *MemoryStore) ListConversations(_ context.Context, clerkID, characterID string) ([]Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Conversation
	for _, conv := range s.conversations {
		if conv.ClerkID != clerkID {
			continue
		}
		if characterID != "" && conv.CharacterID != characterID {
			continue
		}
		c := *clone(conv)
		c.Messages = nil
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *MemoryStore) CountConversations(_ context.Context, clerkID, characterID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, conv := range s.conversations {
		if conv.ClerkID == clerkID && conv.CharacterID == characterID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) UpdateConversation(_ context.Context, conv *Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv.UpdatedAt = time.Now()
	s.conversations[conv.ID] = clone(conv)
	return nil
}

func (s *MemoryStore) DeleteConversation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, id)
	return nil
}

func (s *MemoryStore) DeleteConversationsByCharacter(_ context.Context, characterID, clerkID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, conv := range s.conversations {
		if conv.CharacterID == characterID && conv.ClerkID == clerkID {
			delete(s.conversations, id)
			deleted++
		}
	}
	return deleted, nil
}
