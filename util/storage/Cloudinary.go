package storage

import (
	"context"
	"log"

	"github.com/breatheclean/breatheclean_api/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const avatarFolder = "breatheclean/avatars"

type Cloudinary struct {
	CLD *cloudinary.Cloudinary
}

// NewCloudinary returns nil when no credentials are configured; callers fall
// back to storing the provider's own avatar URL.
func NewCloudinary(cfg *config.Config) *Cloudinary {
	if cfg.CloudinaryCloudName == "" {
		return nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Printf("Failed to initialize Cloudinary: %v", err)
		return nil
	}

	return &Cloudinary{CLD: cld}
}

// MirrorAvatar uploads a remote profile picture and returns the hosted URL.
// The upload is keyed by user so repeat logins overwrite rather than pile up.
func (c *Cloudinary) MirrorAvatar(ctx context.Context, pictureURL, userID string) (string, error) {
	overwrite := true
	resp, err := c.CLD.Upload.Upload(ctx, pictureURL, uploader.UploadParams{
		Folder:    avatarFolder,
		PublicID:  userID,
		Overwrite: &overwrite,
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
