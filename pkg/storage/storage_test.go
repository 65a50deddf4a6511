package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallGIF is a valid 2x1 gif
var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

func TestLocalStorageSave(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/media/")
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "posts/a.txt", strings.NewReader("hello"), "text/plain"))
	data, err := os.ReadFile(filepath.Join(root, "posts", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "/media/posts/a.txt", s.URL("posts/a.txt"))
}

func TestLocalStorageStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/media/")
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "../../escape.txt", strings.NewReader("x"), "text/plain"))
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.NoError(t, err)

	assert.Error(t, s.Save(context.Background(), "", strings.NewReader("x"), "text/plain"))
}

func TestSavePostImage(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/media/")
	require.NoError(t, err)
	images := NewImageStore(s)

	name, err := images.SavePostImage(context.Background(), "small.gif", bytes.NewReader(smallGIF))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "posts/small_"), name)
	assert.True(t, strings.HasSuffix(name, ".gif"), name)

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	assert.Equal(t, smallGIF, stored)

	thumb, err := imaging.Open(filepath.Join(root, filepath.FromSlash(ThumbnailName(name))))
	require.NoError(t, err)
	assert.Equal(t, ThumbnailWidth, thumb.Bounds().Dx())
	assert.Equal(t, ThumbnailHeight, thumb.Bounds().Dy())

	assert.Equal(t, "/media/"+name, images.URL(name))
	assert.Empty(t, images.ThumbnailURL(""))
}

func TestSavePostImageRejectsNonImages(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/media/")
	require.NoError(t, err)

	_, err = NewImageStore(s).SavePostImage(context.Background(), "notes.gif", strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestUniqueNameSanitizes(t *testing.T) {
	name := uniqueName("posts", "my cat (1).PNG")
	assert.True(t, strings.HasPrefix(name, "posts/my_cat_1_"), name)
	assert.True(t, strings.HasSuffix(name, ".png"), name)
	assert.Equal(t, "posts/thumbs/my_cat.jpg", ThumbnailName("posts/my_cat.png"))
}
