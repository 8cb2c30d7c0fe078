package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore persists each record as a JSON document body next to the few
// columns needed for ownership filters and ordering.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err = s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        clerk_id TEXT PRIMARY KEY,
        doc TEXT NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS characters (
        id TEXT PRIMARY KEY, -- UUID
        clerk_id TEXT NOT NULL,
        doc TEXT NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_characters_clerk_id ON characters (clerk_id);

    CREATE TABLE IF NOT EXISTS conversations (
        id TEXT PRIMARY KEY, -- UUID
        clerk_id TEXT NOT NULL,
        character_id TEXT NOT NULL,
        doc TEXT NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_conversations_clerk_id ON conversations (clerk_id);
    CREATE INDEX IF NOT EXISTS idx_conversations_character_id ON conversations (character_id);
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods

func (s *SQLiteStore) GetUserByClerkID(ctx context.Context, clerkID string) (*User, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT doc FROM users WHERE clerk_id = ?", clerkID).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	var user User
	if err := json.Unmarshal([]byte(doc), &user); err != nil {
		return nil, fmt.Errorf("failed to decode user document: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user document: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (clerk_id, doc, updated_at) VALUES (?, ?, ?)",
		user.ClerkID, string(doc), now)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, user *User) error {
	user.UpdatedAt = time.Now()
	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user document: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET doc = ?, updated_at = ? WHERE clerk_id = ?",
		string(doc), user.UpdatedAt, user.ClerkID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("user not found, nothing updated")
	}
	return nil
}

// Character methods

func (s *SQLiteStore) CreateCharacter(ctx context.Context, ch *Character) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	now := time.Now()
	ch.CreatedAt = now
	ch.UpdatedAt = now

	doc, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("failed to encode character document: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO characters (id, clerk_id, doc, updated_at) VALUES (?, ?, ?, ?)",
		ch.ID, ch.ClerkID, string(doc), now)
	if err != nil {
		return fmt.Errorf("failed to insert character: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetCharacter(ctx context.Context, id string) (*Character, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT doc FROM characters WHERE id = ?", id).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query character: %w", err)
	}
	var ch Character
	if err := json.Unmarshal([]byte(doc), &ch); err != nil {
		return nil, fmt.Errorf("failed to decode character document: %w", err)
	}
	return &ch, nil
}

func (s *SQLiteStore) ListCharacters(ctx context.Context, clerkID string) ([]Character, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM characters WHERE clerk_id = ? ORDER BY updated_at DESC", clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to query characters: %w", err)
	}
	defer rows.Close()

	var characters []Character
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan character row: %w", err)
		}
		var ch Character
		if err := json.Unmarshal([]byte(doc), &ch); err != nil {
			return nil, fmt.Errorf("failed to decode character document: %w", err)
		}
		characters = append(characters, ch)
	}
	return characters, rows.Err()
}

func (s *SQLiteStore) CountCharacters(ctx context.Context, clerkID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM characters WHERE clerk_id = ?", clerkID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count characters: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) UpdateCharacter(ctx context.Context, ch *Character) error {
	ch.UpdatedAt = time.Now()
	doc, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("failed to encode character document: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE characters SET doc = ?, updated_at = ? WHERE id = ?",
		string(doc), ch.UpdatedAt, ch.ID)
	if err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("character not found, nothing updated")
	}
	return nil
}

func (s *SQLiteStore) DeleteCharacter(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM characters WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}

// Conversation methods

func (s *SQLiteStore) CreateConversation(ctx context.Context, conv *Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now

	doc, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to encode conversation document: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO conversations (id, clerk_id, character_id, doc, updated_at) VALUES (?, ?, ?, ?, ?)",
		conv.ID, conv.ClerkID, conv.CharacterID, string(doc), now)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetConversation(ctx context.Context, id, clerkID string) (*Conversation, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM conversations WHERE id = ? AND clerk_id = ?", id, clerkID).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	var conv Conversation
	if err := json.Unmarshal([]byte(doc), &conv); err != nil {
		return nil, fmt.Errorf("failed to decode conversation document: %w", err)
	}
	return &conv, nil
}

func (s *SQLiteStore) ListConversations(ctx context.Context, clerkID, characterID string) ([]Conversation, error) {
	query := "SELECT doc FROM conversations WHERE clerk_id = ?"
	args := []any{clerkID}
	if characterID != "" {
		query += " AND character_id = ?"
		args = append(args, characterID)
	}
	query += " ORDER BY updated_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []Conversation
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		var conv Conversation
		if err := json.Unmarshal([]byte(doc), &conv); err != nil {
			return nil, fmt.Errorf("failed to decode conversation document: %w", err)
		}
		conv.Messages = nil // listings exclude message bodies
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

func (s *SQLiteStore) CountConversations(ctx context.Context, clerkID, characterID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM conversations WHERE clerk_id = ? AND character_id = ?",
		clerkID, characterID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count conversations: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) UpdateConversation(ctx context.Context, conv *Conversation) error {
	conv.UpdatedAt = time.Now()
	doc, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to encode conversation document: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE conversations SET doc = ?, updated_at = ? WHERE id = ?",
		string(doc), conv.UpdatedAt, conv.ID)
	if err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("conversation not found, nothing updated")
	}
	return nil
}

func (s *SQLiteStore) DeleteConversation(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteConversationsByCharacter(ctx context.Context, characterID, clerkID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM conversations WHERE character_id = ? AND clerk_id = ?", characterID, clerkID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete conversations: %w", err)
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}
