package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	ThumbnailWidth  = 960
	ThumbnailHeight = 339

	postsDir      = "posts"
	thumbnailsDir = "posts/thumbs"
)

// ErrInvalidImage is returned for uploads that cannot be decoded as an image
var ErrInvalidImage = errors.New("upload a valid image: the file is either not an image or a corrupted image")

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ImageStore validates uploaded images and stores them with a cropped thumbnail
type ImageStore struct {
	storage Storage
}

func NewImageStore(s Storage) *ImageStore {
	return &ImageStore{storage: s}
}

// SavePostImage stores an uploaded post image and its thumbnail, returning the stored name
func (s *ImageStore) SavePostImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "read upload")
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrInvalidImage
	}

	name := uniqueName(postsDir, filename)
	if err := s.storage.Save(ctx, name, bytes.NewReader(data), contentType(filename)); err != nil {
		return "", err
	}

	thumb := imaging.Fill(img, ThumbnailWidth, ThumbnailHeight, imaging.Center, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return "", errors.Wrap(err, "encode thumbnail")
	}
	if err := s.storage.Save(ctx, ThumbnailName(name), &buf, "image/jpeg"); err != nil {
		return "", err
	}
	return name, nil
}

// URL of a stored file, empty for an empty name
func (s *ImageStore) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.storage.URL(name)
}

// ThumbnailURL of a stored post image, empty for an empty name
func (s *ImageStore) ThumbnailURL(name string) string {
	if name == "" {
		return ""
	}
	return s.storage.URL(ThumbnailName(name))
}

// ThumbnailName maps posts/cat_1a2b3c4d.gif to posts/thumbs/cat_1a2b3c4d.jpg
func ThumbnailName(name string) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	return path.Join(thumbnailsDir, base+".jpg")
}

func uniqueName(dir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = strings.Trim(unsafeNameChars.ReplaceAllString(stem, "_"), "_")
	if stem == "" {
		stem = "image"
	}
	return path.Join(dir, fmt.Sprintf("%s_%s%s", stem, uuid.NewString()[:8], ext))
}

func contentType(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
