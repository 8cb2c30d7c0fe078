package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/companionhq/companion-backend/internal/apperr"
	"github.com/companionhq/companion-backend/internal/store"
)

// NewMessageID mints an application-level message id; messages live inside
// their conversation document and never get a store id of their own.
func NewMessageID() string {
	return "msg_" + uuid.NewString()
}

// TurnOp is one transition of the conversation message list. Every mutation
// that truncates history goes through Apply so the "rewrite history from
// this point" rule lives in exactly one place.
type TurnOp interface {
	isTurnOp()
}

// Append adds a message to the end of the list.
type Append struct {
	Message store.Message
}

// Edit replaces the content of a user message and discards everything after
// it, including any assistant reply that followed.
type Edit struct {
	MessageID string
	Content   string
	Now       time.Time
}

// Delete removes the target message and everything after it.
type Delete struct {
	MessageID string
}

// TruncateToLastUser cuts the list so it ends at the last user message,
// discarding any replies after it. Used by regenerate.
type TruncateToLastUser struct{}

func (Append) isTurnOp()             {}
func (Edit) isTurnOp()               {}
func (Delete) isTurnOp()             {}
func (TruncateToLastUser) isTurnOp() {}

// Apply mutates conv according to op. Truncating ops also prune pinned ids
// that no longer reference a surviving message and recompute messageCount.
func Apply(conv *store.Conversation, op TurnOp) error {
	switch o := op.(type) {
	case Append:
		conv.Messages = append(conv.Messages, o.Message)
		conv.MessageCount = len(conv.Messages)
		return nil

	case Edit:
		i := indexOfMessage(conv.Messages, o.MessageID)
		if i < 0 {
			return apperr.NotFound("Message not found")
		}
		if conv.Messages[i].Role != store.RoleUser {
			return apperr.Forbidden("Only user messages can be edited")
		}
		now := o.Now
		if now.IsZero() {
			now = time.Now()
		}
		conv.Messages[i].Content = o.Content
		conv.Messages[i].Edited = true
		conv.Messages[i].EditedAt = &now
		truncate(conv, i+1)
		return nil

	case Delete:
		i := indexOfMessage(conv.Messages, o.MessageID)
		if i < 0 {
			return apperr.NotFound("Message not found")
		}
		truncate(conv, i)
		return nil

	case TruncateToLastUser:
		for i := len(conv.Messages) - 1; i >= 0; i-- {
			if conv.Messages[i].Role == store.RoleUser {
				truncate(conv, i+1)
				return nil
			}
		}
		return apperr.NotFound("No user message found to respond to")
	}
	return apperr.Validation("unknown turn operation")
}

// LastUserMessage returns the most recent user message, or nil.
func LastUserMessage(messages []store.Message) *store.Message {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == store.RoleUser {
			return &messages[i]
		}
	}
	return nil
}

func indexOfMessage(messages []store.Message, id string) int {
	for i := range messages {
		if messages[i].ID == id {
			return i
		}
	}
	return -1
}

func truncate(conv *store.Conversation, end int) {
	conv.Messages = conv.Messages[:end]
	conv.MessageCount = len(conv.Messages)
	prunePins(conv)
}

// prunePins drops pinned ids whose message was truncated away.
func prunePins(conv *store.Conversation) {
	if len(conv.PinnedMessages) == 0 {
		return
	}
	alive := make(map[string]bool, len(conv.Messages))
	for _, msg := range conv.Messages {
		alive[msg.ID] = true
	}
	kept := conv.PinnedMessages[:0]
	for _, id := range conv.PinnedMessages {
		if alive[id] {
			kept = append(kept, id)
		}
	}
	conv.PinnedMessages = kept
}
