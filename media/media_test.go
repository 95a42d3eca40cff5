package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/dryp/marketplace/config"
	"github.com/dryp/marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	deleted []string
	fail    string
}

func (s *recordingStore) Upload(context.Context, io.Reader, string, string) (models.Image, error) {
	return models.Image{}, nil
}

func (s *recordingStore) Delete(_ context.Context, id string) error {
	if id == s.fail {
		return errors.New("boom")
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func TestDeleteAllSkipsBlankAndKeepsGoing(t *testing.T) {
	s := &recordingStore{fail: "b"}
	DeleteAll(context.Background(), s, []models.Image{
		{PublicID: "a"}, {PublicID: ""}, {PublicID: "b"}, {PublicID: "c"},
	})
	assert.Equal(t, []string{"a", "c"}, s.deleted)
}

func TestNewSelectsBackend(t *testing.T) {
	s, err := New(context.Background(), config.MediaConfig{Backend: "none"})
	require.NoError(t, err)
	_, err = s.Upload(context.Background(), strings.NewReader("x"), "a.png", "")
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = New(context.Background(), config.MediaConfig{Backend: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), config.MediaConfig{Backend: "cloudinary"})
	assert.Error(t, err)
	_, err = New(context.Background(), config.MediaConfig{Backend: "r2", R2Bucket: "b"})
	assert.Error(t, err)
}

func TestObjectNameFromGCSPublicURL(t *testing.T) {
	name, err := ObjectNameFromGCSPublicURL("dryp", "https://storage.googleapis.com/dryp/products/1-x.png")
	require.NoError(t, err)
	assert.Equal(t, "products/1-x.png", name)

	name, err = ObjectNameFromGCSPublicURL("dryp", "https://dryp.storage.googleapis.com/products/2.png")
	require.NoError(t, err)
	assert.Equal(t, "products/2.png", name)

	_, err = ObjectNameFromGCSPublicURL("dryp", "https://storage.googleapis.com/other/x.png")
	assert.Error(t, err)
	_, err = ObjectNameFromGCSPublicURL("dryp", "https://example.com/x.png")
	assert.Error(t, err)
}

func TestObjectNameAndContentType(t *testing.T) {
	now := time.Unix(1700000000, 0)
	name := objectName("Photo.JPG", now)
	assert.True(t, strings.HasPrefix(name, "products/1700000000-"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.True(t, strings.HasSuffix(objectName("noext", now), ".bin"))

	assert.Equal(t, "image/webp", contentTypeFor("a.png", "image/webp"))
	assert.Equal(t, "image/png", contentTypeFor("a.png", ""))
	assert.Equal(t, "application/octet-stream", contentTypeFor("a.zzz", ""))
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["image"][0]
}

func TestFileValidator(t *testing.T) {
	v := NewImageValidator(config.MediaConfig{
		MaxUploadSizeMB:   1,
		AllowedExtensions: []string{".png"},
		AllowedMimeTypes:  []string{"image/png"},
	})
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

	mt, err := v.ValidateFile(fileHeader(t, "logo.png", png))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mt)

	_, err = v.ValidateFile(fileHeader(t, "logo.gif", png))
	assert.EqualError(t, err, "invalid file extension")

	_, err = v.ValidateFile(fileHeader(t, "fake.png", []byte("just some text")))
	assert.EqualError(t, err, "invalid file type")

	_, err = v.ValidateFile(fileHeader(t, "big.png", append(png, make([]byte, 2<<20)...)))
	assert.EqualError(t, err, "file too large (max 1 MB)")
}
