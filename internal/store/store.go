package store

import "context"

// Store is the document-store surface the services depend on. Lookups
// return (nil, nil) when the document does not exist; ownership and limit
// decisions belong to the service layer.
type Store interface {
	GetUserByClerkID(ctx context.Context, clerkID string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error

	CreateCharacter(ctx context.Context, ch *Character) error
	GetCharacter(ctx context.Context, id string) (*Character, error)
	ListCharacters(ctx context.Context, clerkID string) ([]Character, error)
	CountCharacters(ctx context.Context, clerkID string) (int, error)
	UpdateCharacter(ctx context.Context, ch *Character) error
	DeleteCharacter(ctx context.Context, id string) error

	CreateConversation(ctx context.Context, conv *Conversation) error
	GetConversation(ctx context.Context, id, clerkID string) (*Conversation, error)
	// ListConversations omits message bodies; characterID may be empty.
	ListConversations(ctx context.Context, clerkID, characterID string) ([]Conversation, error)
	CountConversations(ctx context.Context, clerkID, characterID string) (int, error)
	UpdateConversation(ctx context.Context, conv *Conversation) error
	DeleteConversation(ctx context.Context, id string) error
	DeleteConversationsByCharacter(ctx context.Context, characterID, clerkID string) (int, error)

	Close() error
}
