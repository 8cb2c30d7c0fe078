package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/companionhq/companion-backend/internal/apperr"
	"github.com/companionhq/companion-backend/internal/store"
)

const (
	// MaxConversationsPerCharacter caps conversations per (user, character).
	MaxConversationsPerCharacter = 10
	// MaxPinnedMessages caps the pinned-id list per conversation.
	MaxPinnedMessages = 5
)

// ChatService owns conversations and the turn lifecycle: send, regenerate,
// edit, delete, and pin management.
type ChatService struct {
	store    store.Store
	gen      Generator
	thoughts *ThoughtEnhancer
	logger   *zap.Logger
}

func NewChatService(st store.Store, gen Generator, thoughts *ThoughtEnhancer, logger *zap.Logger) *ChatService {
	return &ChatService{store: st, gen: gen, thoughts: thoughts, logger: logger}
}

// CreateConversation opens a conversation with a character, applying the
// character's first-message policy. A failed random greeting is skipped, not
// fatal.
func (s *ChatService) CreateConversation(ctx context.Context, clerkID, characterID, title string) (*store.Conversation, error) {
	user, err := s.store.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to create conversation")
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	character, err := s.store.GetCharacter(ctx, characterID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to create conversation")
	}
	if character == nil {
		return nil, apperr.NotFound("Character not found")
	}

	count, err := s.store.CountConversations(ctx, clerkID, characterID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to create conversation")
	}
	if count >= MaxConversationsPerCharacter {
		return nil, apperr.LimitExceeded(
			"Conversation limit reached. Maximum %d conversations allowed per character.",
			MaxConversationsPerCharacter)
	}

	if title == "" {
		title = fmt.Sprintf("Chat with %s", character.Name)
	}
	conv := &store.Conversation{
		ClerkID:        clerkID,
		CharacterID:    characterID,
		Title:          title,
		Messages:       []store.Message{},
		PinnedMessages: []string{},
	}

	switch character.FirstMessage.Type {
	case store.FirstMessageFixed:
		if character.FirstMessage.Text != "" {
			_ = Apply(conv, Append{Message: store.Message{
				ID:        NewMessageID(),
				Role:      store.RoleAssistant,
				Content:   character.FirstMessage.Text,
				Timestamp: time.Now(),
			}})
		}
	case store.FirstMessageRandom:
		greeting, err := s.gen.GenerateText(ctx, ModelChat, GreetingPrompt(character))
		if err != nil {
			// Conversation opens without a greeting rather than failing.
			s.logger.Warn("failed to generate first message",
				zap.String("character_id", characterID), zap.Error(err))
		} else {
			_ = Apply(conv, Append{Message: store.Message{
				ID:        NewMessageID(),
				Role:      store.RoleAssistant,
				Content:   greeting,
				Timestamp: time.Now(),
			}})
		}
	}

	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, apperr.Upstream(err, "Failed to create conversation")
	}

	character.ConversationCount++
	s.touchCharacter(ctx, character)

	return conv, nil
}

func (s *ChatService) ListConversations(ctx context.Context, clerkID, characterID string) ([]store.Conversation, error) {
	conversations, err := s.store.ListConversations(ctx, clerkID, characterID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to get conversations")
	}
	return conversations, nil
}

// GetConversation returns the conversation together with its character; the
// character may be nil when it has since been deleted.
func (s *ChatService) GetConversation(ctx context.Context, clerkID, conversationID string) (*store.Conversation, *store.Character, error) {
	conv, err := s.store.GetConversation(ctx, conversationID, clerkID)
	if err != nil {
		return nil, nil, apperr.Upstream(err, "Failed to get conversation")
	}
	if conv == nil {
		return nil, nil, apperr.NotFound("Conversation not found")
	}
	character, err := s.store.GetCharacter(ctx, conv.CharacterID)
	if err != nil {
		return nil, nil, apperr.Upstream(err, "Failed to get conversation")
	}
	return conv, character, nil
}

func (s *ChatService) UpdateTitle(ctx context.Context, clerkID, conversationID, title string) error {
	conv, err := s.ownedConversation(ctx, clerkID, conversationID)
	if err != nil {
		return err
	}
	conv.Title = title
	if err := s.store.UpdateConversation(ctx, conv); err != nil {
		return apperr.Upstream(err, "Failed to update conversation")
	}
	return nil
}

// ClearMessages drops every message; pinned ids are pruned along with them.
func (s *ChatService) ClearMessages(ctx context.Context, clerkID, conversationID string) error {
	conv, err := s.ownedConversation(ctx, clerkID, conversationID)
	if err != nil {
		return err
	}
	conv.Messages = []store.Message{}
	conv.PinnedMessages = []string{}
	conv.MessageCount = 0
	if err := s.store.UpdateConversation(ctx, conv); err != nil {
		return apperr.Upstream(err, "Failed to clear conversation")
	}
	return nil
}

func (s *ChatService) DeleteConversation(ctx context.Context, clerkID, conversationID string) error {
	if _, err := s.ownedConversation(ctx, clerkID, conversationID); err != nil {
		return err
	}
	if err := s.store.DeleteConversation(ctx, conversationID); err != nil {
		return apperr.Upstream(err, "Failed to delete conversation")
	}
	return nil
}

// SendMessage appends the user message, generates the reply, and appends it.
// The user message stays persisted when generation fails; the caller may
// retry via regenerate.
func (s *ChatService) SendMessage(ctx context.Context, clerkID, conversationID, text string) (*store.Message, error) {
	conv, err := s.ownedConversation(ctx, clerkID, conversationID)
	if err != nil {
		return nil, err
	}
	character, err := s.store.GetCharacter(ctx, conv.CharacterID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to send message")
	}
	if character == nil {
		return nil, apperr.NotFound("Character not found")
	}

	userMsg := store.Message{
		ID:        NewMessageID(),
		Role:      store.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	}
	_ = Apply(conv, Append{Message: userMsg})
	if err := s.store.UpdateConversation(ctx, conv); err != nil {
		return nil, apperr.Upstream(err, "Failed to store user message")
	}

	return s.completeTurn(ctx, conv, character, ModelChat, text)
}

// Regenerate truncates the conversation back to its last user message and
// produces a fresh reply to it.
func (s *ChatService) Regenerate(ctx context.Context, clerkID, conversationID string) (*store.Message, error) {
	conv, err := s.ownedConversation(ctx, clerkID, conversationID)
	if err != nil {
		return nil, err
	}
	character, err := s.store.GetCharacter(ctx, conv.CharacterID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to regenerate message")
	}
	if character == nil {
		return nil, apperr.NotFound("Character not found")
	}

	if err := Apply(conv, TruncateToLastUser{}); err != nil {
		return nil, err
	}
	if err := s.store.UpdateConversation(ctx, conv); err != nil {
		return nil, apperr.Upstream(err, "Failed to regenerate message")
	}

	lastUser := LastUserMessage(conv.Messages)
	return s.completeTurn(ctx, conv, character, ModelThought, lastUser.Content)
}

// completeTurn runs one model call for the trigger input (already the final
// stored message) and appends the post-processed reply.
func (s *ChatService) completeTurn(ctx context.Context, conv *store.Conversation, character *store.Character, model, input string) (*store.Message, error) {
	prior := conv.Messages[:len(conv.Messages)-1]
	history := BuildChatHistory(character, prior, conv.PinnedMessages, input)

	reply, err := s.gen.ChatCompletion(ctx, model, history)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to generate response")
	}
	reply = s.thoughts.Enhance(ctx, character, reply, input)

	aiMsg := store.Message{
		ID:        NewMessageID(),
		Role:      store.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	}
	_ = Apply(conv, Append{Message: aiMsg})
	if err := s.store.UpdateConversation(ctx, conv); err != nil {
		return nil, apperr.Upstream(err, "Failed to store response")
	}

	now := time.Now()
	character.LastInteraction = &now
	s.touchCharacter(ctx, character)

	return &aiMsg, nil
}

// EditMessage rewrites a user message and discards everything after it. The
// client follows up with a regenerate call for the fresh reply; the two are
// not one transaction.
func (s *ChatService) EditMessage(ctx context.Context, clerkID, conversationID, messageID, content string) (*store.Message, error) {
	conv, err := s.ownedConversation(ctx, clerkID, conversationID)
	if err != nil {
		return nil, err
	}
	if err := Apply(conv, Edit{MessageID: messageID, Content: content}); err != nil {
		return nil, err
	}
	if err := s.store.UpdateConversation(ctx, conv); err != nil {
		return nil, apperr.Upstream(err, "Failed to edit message")
	}
	edited := conv.Messages[len(conv.Messages)-1]
	return &edited, nil
}

func (s *ChatService) DeleteMessage(ctx context.Context, clerkID, conversationID, messageID string) error {
	conv, err := s.ownedConversation(ctx, clerkID, conversationID)
	if err != nil {
		return err
	}
	if err := Apply(conv, Delete{MessageID: messageID}); err != nil {
		return err
	}
	if err := s.store.UpdateConversation(ctx, conv); err != nil {
		return apperr.Upstream(err, "Failed to delete message")
	}
	return nil
}

// PinMessage adds a message id to the pinned list and returns the new count.
func (s *ChatService) PinMessage(ctx context.Context, clerkID, conversationID, messageID string) (int, error) {
	conv, err := s.ownedConversation(ctx, clerkID, conversationID)
	if err != nil {
		return 0, err
	}
	if indexOfMessage(conv.Messages, messageID) < 0 {
		return 0, apperr.NotFound("Message not found")
	}
	for _, id := range conv.PinnedMessages {
		if id == messageID {
			return 0, apperr.Validation("Message is already pinned")
		}
	}
	if len(conv.PinnedMessages) >= MaxPinnedMessages {
		return 0, apperr.LimitExceeded(
			"Pin limit reached. Maximum %d messages can be pinned.", MaxPinnedMessages)
	}
	conv.PinnedMessages = append(conv.PinnedMessages, messageID)
	if err := s.store.UpdateConversation(ctx, conv); err != nil {
		return 0, apperr.Upstream(err, "Failed to pin message")
	}
	return len(conv.PinnedMessages), nil
}

func (s *ChatService) UnpinMessage(ctx context.Context, clerkID, conversationID, messageID string) (int, error) {
	conv, err := s.ownedConversation(ctx, clerkID, conversationID)
	if err != nil {
		return 0, err
	}
	kept := conv.PinnedMessages[:0]
	found := false
	for _, id := range conv.PinnedMessages {
		if id == messageID {
			found = true
			continue
		}
		kept = append(kept, id)
	}
	if !found {
		return 0, apperr.Validation("Message is not pinned")
	}
	conv.PinnedMessages = kept
	if err := s.store.UpdateConversation(ctx, conv); err != nil {
		return 0, apperr.Upstream(err, "Failed to unpin message")
	}
	return len(conv.PinnedMessages), nil
}

// PinnedMessages resolves the pinned ids to their message bodies.
func (s *ChatService) PinnedMessages(ctx context.Context, clerkID, conversationID string) ([]store.Message, error) {
	conv, err := s.ownedConversation(ctx, clerkID, conversationID)
	if err != nil {
		return nil, err
	}
	pinned := make(map[string]bool, len(conv.PinnedMessages))
	for _, id := range conv.PinnedMessages {
		pinned[id] = true
	}
	out := []store.Message{}
	for _, msg := range conv.Messages {
		if pinned[msg.ID] {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (s *ChatService) ownedConversation(ctx context.Context, clerkID, conversationID string) (*store.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, conversationID, clerkID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to load conversation")
	}
	if conv == nil {
		return nil, apperr.NotFound("Conversation not found")
	}
	return conv, nil
}

// touchCharacter persists counter and timestamp bumps best-effort; the turn
// itself already succeeded.
func (s *ChatService) touchCharacter(ctx context.Context, character *store.Character) {
	if err := s.store.UpdateCharacter(ctx, character); err != nil {
		s.logger.Warn("failed to update character interaction state",
			zap.String("character_id", character.ID), zap.Error(err))
	}
}
