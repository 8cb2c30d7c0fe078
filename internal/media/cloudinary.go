// Package media hosts uploaded character images on Cloudinary.
package media

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	uploadFolder = "ai-companion/characters"
	// Crop to a square around the face so avatars render consistently.
	uploadTransformation = "c_fill,g_face,h_500,w_500"
)

// Uploader stores a character image and returns its public URL.
type Uploader interface {
	// UploadCharacterImage accepts a data URI or remote URL and returns the
	// hosted HTTPS URL. Re-uploading for the same character overwrites the
	// previous image.
	UploadCharacterImage(ctx context.Context, characterID, imageData string) (string, error)
}

// CloudinaryUploader implements Uploader against a Cloudinary account.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary client: %w", err)
	}
	return &CloudinaryUploader{client: client}, nil
}

func (u *CloudinaryUploader) UploadCharacterImage(ctx context.Context, characterID, imageData string) (string, error) {
	resp, err := u.client.Upload.Upload(ctx, imageData, uploader.UploadParams{
		Folder:         uploadFolder,
		PublicID:       "character_" + characterID,
		Overwrite:      api.Bool(true),
		Transformation: uploadTransformation,
	})
	if err != nil {
		return "", fmt.Errorf("upload character image: %w", err)
	}
	return resp.SecureURL, nil
}
