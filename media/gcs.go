package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/dryp/marketplace/models"
	"google.golang.org/api/option"
)

type GCS struct {
	client *storage.Client
	bucket string
}

func NewGCS(ctx context.Context, bucket, credentialsPath string) (*GCS, error) {
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS_BUCKET")
	}
	var opts []option.ClientOption
	if credentialsPath != "" {
		abs, err := filepath.Abs(credentialsPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, abs))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) Upload(ctx context.Context, r io.Reader, filename, contentType string) (models.Image, error) {
	name := objectName(filename, time.Now())

	w := g.client.Bucket(g.bucket).Object(name).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentTypeFor(filename, contentType)

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return models.Image{}, fmt.Errorf("upload copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return models.Image{}, fmt.Errorf("upload close: %w", err)
	}

	return models.Image{
		URL:      fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, name),
		PublicID: name,
	}, nil
}

// Delete accepts an object name or a public URL of one.
func (g *GCS) Delete(ctx context.Context, publicID string) error {
	if strings.HasPrefix(publicID, "https://") {
		name, err := ObjectNameFromGCSPublicURL(g.bucket, publicID)
		if err != nil {
			return err
		}
		publicID = name
	}
	if err := g.client.Bucket(g.bucket).Object(publicID).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	return nil
}

// ObjectNameFromGCSPublicURL recovers the object name from either public URL style.
func ObjectNameFromGCSPublicURL(bucket string, raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	host := strings.ToLower(u.Host)
	path := strings.TrimPrefix(u.Path, "/")

	// storage.googleapis.com/<bucket>/<object>
	if host == "storage.googleapis.com" {
		prefix := bucket + "/"
		if !strings.HasPrefix(path, prefix) {
			return "", fmt.Errorf("url bucket mismatch")
		}
		return strings.TrimPrefix(path, prefix), nil
	}

	// <bucket>.storage.googleapis.com/<object>
	if host == strings.ToLower(bucket)+".storage.googleapis.com" {
		if path == "" {
			return "", fmt.Errorf("missing object path")
		}
		return path, nil
	}

	return "", fmt.Errorf("not a gcs public url")
}
