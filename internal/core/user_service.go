package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/companionhq/companion-backend/internal/apperr"
	"github.com/companionhq/companion-backend/internal/store"
)

// ProfileInput carries the client-editable user profile fields. Identity and
// bookkeeping fields (clerkId, timestamps, isActive) are never taken from the
// client.
type ProfileInput struct {
	DisplayName     *string
	Email           *string
	Description     *string
	Age             *int
	Location        *string
	Language        *string
	Timezone        *string
	Interests       []string
	CustomVariables []store.CustomVariable
	ProfileImageURL *string
	AvatarURL       *string
	IsOnboarded     *bool
	Preferences     *store.Preferences
}

// AccountLimits reports how much of each resource cap the account has used.
type AccountLimits struct {
	Characters    LimitUsage               `json:"characters"`
	Conversations []ConversationLimitUsage `json:"conversations"`
}

type LimitUsage struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// ConversationLimitUsage is the per-character slice of the conversation cap.
type ConversationLimitUsage struct {
	CharacterID       string `json:"characterId"`
	CharacterName     string `json:"characterName"`
	ConversationCount int    `json:"conversationCount"`
	ConversationLimit int    `json:"conversationLimit"`
}

// UserService owns account verification, profile updates, and limit
// reporting.
type UserService struct {
	store  store.Store
	logger *zap.Logger
}

func NewUserService(st store.Store, logger *zap.Logger) *UserService {
	return &UserService{store: st, logger: logger}
}

// Verify returns the account for clerkID, creating it with defaults on first
// sight. The second return reports whether the account already existed.
func (s *UserService) Verify(ctx context.Context, clerkID, email, displayName string) (*store.User, bool, error) {
	user, err := s.store.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, false, apperr.Upstream(err, "Failed to verify user")
	}
	if user != nil {
		return user, true, nil
	}

	user = &store.User{
		ClerkID:         clerkID,
		DisplayName:     displayName,
		Email:           email,
		Language:        "en",
		Interests:       []string{},
		CustomVariables: []store.CustomVariable{},
		IsActive:        true,
		Preferences:     store.DefaultPreferences(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, false, apperr.Upstream(err, "Failed to create user")
	}
	s.logger.Info("user created", zap.String("clerk_id", clerkID))
	return user, false, nil
}

// UpdateProfile applies a partial profile edit.
func (s *UserService) UpdateProfile(ctx context.Context, clerkID string, in ProfileInput) (*store.User, error) {
	if err := validateProfileInput(in); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to update user")
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	setString(&user.DisplayName, in.DisplayName)
	setString(&user.Email, in.Email)
	setString(&user.Description, in.Description)
	setString(&user.Location, in.Location)
	setString(&user.Language, in.Language)
	setString(&user.Timezone, in.Timezone)
	setString(&user.ProfileImageURL, in.ProfileImageURL)
	setString(&user.AvatarURL, in.AvatarURL)
	if in.Age != nil {
		user.Age = in.Age
	}
	if in.Interests != nil {
		user.Interests = in.Interests
	}
	if in.CustomVariables != nil {
		user.CustomVariables = in.CustomVariables
	}
	if in.IsOnboarded != nil {
		user.IsOnboarded = *in.IsOnboarded
	}
	if in.Preferences != nil {
		user.Preferences = *in.Preferences
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, apperr.Upstream(err, "Failed to update user")
	}
	return user, nil
}

// Limits reports character and per-character conversation usage against the
// account caps.
func (s *UserService) Limits(ctx context.Context, clerkID string) (*AccountLimits, error) {
	user, err := s.store.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to get user limits")
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	characters, err := s.store.ListCharacters(ctx, clerkID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to get user limits")
	}

	limits := &AccountLimits{
		Characters: LimitUsage{
			Used:      len(characters),
			Limit:     MaxCharactersPerUser,
			Remaining: max(0, MaxCharactersPerUser-len(characters)),
		},
		Conversations: []ConversationLimitUsage{},
	}
	for _, ch := range characters {
		used, err := s.store.CountConversations(ctx, clerkID, ch.ID)
		if err != nil {
			return nil, apperr.Upstream(err, "Failed to get user limits")
		}
		limits.Conversations = append(limits.Conversations, ConversationLimitUsage{
			CharacterID:       ch.ID,
			CharacterName:     ch.Name,
			ConversationCount: used,
			ConversationLimit: MaxConversationsPerCharacter,
		})
	}
	return limits, nil
}

func validateProfileInput(in ProfileInput) error {
	if in.Description != nil && len(*in.Description) > 500 {
		return apperr.Validation("Description must be 500 characters or less")
	}
	if len(in.Interests) > 50 {
		return apperr.Validation("Maximum 50 interests allowed")
	}
	for _, interest := range in.Interests {
		if len(interest) > 50 {
			return apperr.Validation("Each interest must be 50 characters or less")
		}
	}
	for _, cv := range in.CustomVariables {
		if cv.Name == "" || cv.Value == "" {
			return apperr.Validation("Custom variables require both a name and a value")
		}
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
