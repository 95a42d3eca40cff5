// Package media stores product and vendor images on a configured backend.
package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/dryp/marketplace/config"
	"github.com/dryp/marketplace/models"
	"github.com/google/uuid"
)

// Store uploads an image and deletes it again by its public id.
type Store interface {
	Upload(ctx context.Context, r io.Reader, filename, contentType string) (models.Image, error)
	Delete(ctx context.Context, publicID string) error
}

// New picks the backend named by cfg.Backend.
func New(ctx context.Context, cfg config.MediaConfig) (Store, error) {
	switch cfg.Backend {
	case "cloudinary":
		return NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	case "gcs":
		return NewGCS(ctx, cfg.GCSBucket, cfg.CredentialsFile)
	case "r2":
		return NewR2(ctx, R2Options{
			Bucket:       cfg.R2Bucket,
			AccessKeyID:  cfg.R2AccessKeyID,
			SecretKey:    cfg.R2SecretKey,
			Endpoint:     cfg.R2Endpoint,
			PublicDomain: cfg.R2PublicDomain,
		})
	case "", "none":
		log.Println("media backend disabled, uploads will be rejected")
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
}

// DeleteAll removes every image and logs failures instead of returning them.
func DeleteAll(ctx context.Context, s Store, images []models.Image) {
	for _, img := range images {
		if img.PublicID == "" {
			continue
		}
		if err := s.Delete(ctx, img.PublicID); err != nil {
			log.Printf("media delete %s: %v", img.PublicID, err)
		}
	}
}

// ErrDisabled is returned by Nop uploads.
var ErrDisabled = fmt.Errorf("media uploads are not configured")

type Nop struct{}

func (Nop) Upload(context.Context, io.Reader, string, string) (models.Image, error) {
	return models.Image{}, ErrDisabled
}

func (Nop) Delete(context.Context, string) error { return nil }

// objectName builds a unique key under products/.
func objectName(filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("products/%d-%s%s", now.UTC().Unix(), uuid.New().String(), ext)
}

func contentTypeFor(filename, ct string) string {
	if ct != "" {
		return ct
	}
	if ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
