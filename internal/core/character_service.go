package core

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/companionhq/companion-backend/internal/apperr"
	"github.com/companionhq/companion-backend/internal/media"
	"github.com/companionhq/companion-backend/internal/store"
)

// MaxCharactersPerUser caps how many characters one account can hold.
const MaxCharactersPerUser = 5

// CharacterInput carries the client-editable character fields. Pointer fields
// distinguish "absent" from "zero" on partial updates.
type CharacterInput struct {
	Name                string
	Age                 *int
	Description         string
	Interests           []string
	AvatarURL           string
	Personality         *store.Personality
	EmotionalExpression *store.EmotionalExpression
	FirstMessage        *store.FirstMessage
	CustomAttributes    []store.CustomVariable
}

// CharacterService owns character CRUD, image upload, and the emotional
// state endpoints.
type CharacterService struct {
	store    store.Store
	uploader media.Uploader
	logger   *zap.Logger
}

func NewCharacterService(st store.Store, uploader media.Uploader, logger *zap.Logger) *CharacterService {
	return &CharacterService{store: st, uploader: uploader, logger: logger}
}

// Create validates the input, applies defaults, and persists a new character
// owned by clerkID.
func (s *CharacterService) Create(ctx context.Context, clerkID string, in CharacterInput) (*store.Character, error) {
	if err := validateCharacterInput(in); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to create character")
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	count, err := s.store.CountCharacters(ctx, clerkID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to create character")
	}
	if count >= MaxCharactersPerUser {
		return nil, apperr.LimitExceeded(
			"Character limit reached. Maximum %d characters allowed per user.", MaxCharactersPerUser)
	}

	character := &store.Character{
		ClerkID:     clerkID,
		Name:        in.Name,
		Age:         in.Age,
		Description: in.Description,
		Interests:   in.Interests,
		AvatarURL:   in.AvatarURL,
		IsActive:    true,
		Personality: store.Personality{
			Traits:      []string{},
			Voice:       "Zephyr",
			SpeechStyle: "Conversational",
			Emotions:    store.DefaultEmotions(),
		},
		EmotionalExpression: store.EmotionalExpression{
			Enabled:      true,
			Intensity:    store.IntensityModerate,
			ShowThoughts: true,
		},
		FirstMessage:     store.FirstMessage{Type: store.FirstMessageNone},
		CustomAttributes: in.CustomAttributes,
	}
	if character.Interests == nil {
		character.Interests = []string{}
	}
	if character.CustomAttributes == nil {
		character.CustomAttributes = []store.CustomVariable{}
	}
	applyCharacterInput(character, in)

	if err := s.store.CreateCharacter(ctx, character); err != nil {
		return nil, apperr.Upstream(err, "Failed to create character")
	}
	return character, nil
}

// Get returns the character. When clerkID is non-empty, ownership is
// enforced.
func (s *CharacterService) Get(ctx context.Context, characterID, clerkID string) (*store.Character, error) {
	character, err := s.store.GetCharacter(ctx, characterID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to get character")
	}
	if character == nil {
		return nil, apperr.NotFound("Character not found")
	}
	if clerkID != "" && character.ClerkID != clerkID {
		return nil, apperr.Forbidden("Access denied")
	}
	return character, nil
}

func (s *CharacterService) List(ctx context.Context, clerkID string) ([]store.Character, error) {
	characters, err := s.store.ListCharacters(ctx, clerkID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to get characters")
	}
	return characters, nil
}

// Update applies a partial edit to an owned character.
func (s *CharacterService) Update(ctx context.Context, characterID, clerkID string, in CharacterInput) (*store.Character, error) {
	character, err := s.Get(ctx, characterID, clerkID)
	if err != nil {
		return nil, err
	}
	if err := validateCharacterUpdate(in); err != nil {
		return nil, err
	}

	if in.Name != "" {
		character.Name = in.Name
	}
	if in.Age != nil {
		character.Age = in.Age
	}
	if in.Description != "" {
		character.Description = in.Description
	}
	if in.Interests != nil {
		character.Interests = in.Interests
	}
	if in.AvatarURL != "" {
		character.AvatarURL = in.AvatarURL
	}
	if in.CustomAttributes != nil {
		character.CustomAttributes = in.CustomAttributes
	}
	applyCharacterInput(character, in)

	if err := s.store.UpdateCharacter(ctx, character); err != nil {
		return nil, apperr.Upstream(err, "Failed to update character")
	}
	return character, nil
}

// Delete removes the character and cascades to its conversations, returning
// how many conversations were removed.
func (s *CharacterService) Delete(ctx context.Context, characterID, clerkID string) (int, error) {
	if _, err := s.Get(ctx, characterID, clerkID); err != nil {
		return 0, err
	}
	removed, err := s.store.DeleteConversationsByCharacter(ctx, characterID, clerkID)
	if err != nil {
		return 0, apperr.Upstream(err, "Failed to delete character")
	}
	if err := s.store.DeleteCharacter(ctx, characterID); err != nil {
		return removed, apperr.Upstream(err, "Failed to delete character")
	}
	return removed, nil
}

// UploadImage pushes the image to the media host and stores the resulting
// URL. A hosted image whose URL cannot be persisted is logged before the
// error is surfaced.
func (s *CharacterService) UploadImage(ctx context.Context, characterID, clerkID, imageData string) (*store.Character, error) {
	character, err := s.Get(ctx, characterID, clerkID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, apperr.New(apperr.CodeUpstream, "Image uploads are not configured")
	}
	if imageData == "" {
		return nil, apperr.Validation("Image data is required")
	}

	url, err := s.uploader.UploadCharacterImage(ctx, characterID, imageData)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to upload image")
	}
	character.AvatarURL = url
	if err := s.store.UpdateCharacter(ctx, character); err != nil {
		s.logger.Error("image uploaded but avatar url not persisted",
			zap.String("character_id", characterID), zap.String("url", url), zap.Error(err))
		return nil, apperr.Upstream(err, "Image uploaded but failed to save URL")
	}
	return character, nil
}

// UpdateEmotions merges the supplied axis values into the character's
// emotional state, leaving untouched axes as they were.
func (s *CharacterService) UpdateEmotions(ctx context.Context, characterID, clerkID string, emotions map[string]int) (*store.Character, error) {
	character, err := s.Get(ctx, characterID, clerkID)
	if err != nil {
		return nil, err
	}
	if len(emotions) == 0 {
		return nil, apperr.Validation("At least one emotion value is required")
	}
	for axis, value := range emotions {
		if value < 0 || value > 100 {
			return nil, apperr.Validation("Emotion %q must be between 0 and 100", axis)
		}
		if !character.Personality.Emotions.SetAxis(axis, value) {
			return nil, apperr.Validation("Unknown emotion %q. Valid emotions: %s",
				axis, strings.Join(store.EmotionAxes, ", "))
		}
	}
	if err := s.store.UpdateCharacter(ctx, character); err != nil {
		return nil, apperr.Upstream(err, "Failed to update emotions")
	}
	return character, nil
}

// UpdateEmotionalExpression replaces the expression settings.
func (s *CharacterService) UpdateEmotionalExpression(ctx context.Context, characterID, clerkID string, expr store.EmotionalExpression) (*store.Character, error) {
	character, err := s.Get(ctx, characterID, clerkID)
	if err != nil {
		return nil, err
	}
	if !validIntensity(expr.Intensity) {
		return nil, apperr.Validation("Intensity must be one of: %s, %s, %s",
			store.IntensitySubtle, store.IntensityModerate, store.IntensityExpressive)
	}
	character.EmotionalExpression = expr
	if err := s.store.UpdateCharacter(ctx, character); err != nil {
		return nil, apperr.Upstream(err, "Failed to update emotional expression")
	}
	return character, nil
}

func applyCharacterInput(character *store.Character, in CharacterInput) {
	if in.Personality != nil {
		p := *in.Personality
		if p.Voice == "" {
			p.Voice = character.Personality.Voice
		}
		if p.SpeechStyle == "" {
			p.SpeechStyle = character.Personality.SpeechStyle
		}
		if p.Emotions == (store.Emotions{}) {
			p.Emotions = character.Personality.Emotions
		}
		character.Personality = p
	}
	if in.EmotionalExpression != nil {
		character.EmotionalExpression = *in.EmotionalExpression
	}
	if in.FirstMessage != nil {
		character.FirstMessage = *in.FirstMessage
	}
}

func validateCharacterInput(in CharacterInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("Name is required")
	}
	return validateCharacterUpdate(in)
}

func validateCharacterUpdate(in CharacterInput) error {
	if len(in.Name) > 100 {
		return apperr.Validation("Name must be 100 characters or less")
	}
	if len(in.Description) > 1000 {
		return apperr.Validation("Description must be 1000 characters or less")
	}
	if in.EmotionalExpression != nil && !validIntensity(in.EmotionalExpression.Intensity) {
		return apperr.Validation("Intensity must be one of: %s, %s, %s",
			store.IntensitySubtle, store.IntensityModerate, store.IntensityExpressive)
	}
	if fm := in.FirstMessage; fm != nil {
		switch fm.Type {
		case store.FirstMessageNone, store.FirstMessageRandom:
		case store.FirstMessageFixed:
			if strings.TrimSpace(fm.Text) == "" {
				return apperr.Validation("First message text is required when type is %q", store.FirstMessageFixed)
			}
		default:
			return apperr.Validation("First message type must be one of: %s, %s, %s",
				store.FirstMessageNone, store.FirstMessageFixed, store.FirstMessageRandom)
		}
		if len(fm.Text) > 1000 {
			return apperr.Validation("First message text must be 1000 characters or less")
		}
	}
	return nil
}

func validIntensity(intensity string) bool {
	switch intensity {
	case store.IntensitySubtle, store.IntensityModerate, store.IntensityExpressive:
		return true
	}
	return false
}
