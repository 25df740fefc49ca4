package helpers

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ErrInvalidAvatar marks uploads that cannot become an avatar: no file, an
// extension with no known encoder, or bytes that do not decode as an image.
var ErrInvalidAvatar = errors.New("invalid avatar image")

// avatarRotation is applied only when AvatarOptions.Rotate is set.
const avatarRotation = 30

// ObjectStore persists encoded avatar bytes under a flat name. Delete of a
// missing name is not an error.
type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) error
	Delete(ctx context.Context, name string) error
}

type AvatarOptions struct {
	MaxWidth  int
	MaxHeight int
	Rotate    bool
}

// DefaultAvatarOptions is the 125x175 bounding box, unrotated.
func DefaultAvatarOptions() AvatarOptions {
	return AvatarOptions{MaxWidth: 125, MaxHeight: 175}
}

// AvatarSaver turns an uploaded image into a stored thumbnail.
type AvatarSaver struct {
	Store ObjectStore
	Opts  AvatarOptions
}

func NewAvatarSaver(store ObjectStore, opts AvatarOptions) *AvatarSaver {
	return &AvatarSaver{Store: store, Opts: opts}
}

// Save decodes the upload, thumbnails it and writes it to the store under a
// random name that keeps the upload's extension. It returns that name only.
func (s *AvatarSaver) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fmt.Errorf("%w: missing file", ErrInvalidAvatar)
	}
	name, err := AvatarFilename(fh.Filename)
	if err != nil {
		return "", err
	}
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return "", fmt.Errorf("%w: unsupported extension %q", ErrInvalidAvatar, filepath.Ext(name))
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, err := imaging.Decode(f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAvatar, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, ThumbnailAvatar(img, s.Opts), format); err != nil {
		return "", fmt.Errorf("encode avatar: %w", err)
	}
	if err := s.Store.Put(ctx, name, contentTypeFor(format), &buf); err != nil {
		return "", fmt.Errorf("store avatar %s: %w", name, err)
	}
	return name, nil
}

// Discard removes a stored avatar whose user record was never written.
func (s *AvatarSaver) Discard(ctx context.Context, name string) error {
	return s.Store.Delete(ctx, name)
}

// ThumbnailAvatar shrinks img to fit the bounding box, keeping its aspect ratio
// and never upscaling. With Rotate set the thumbnail is also turned 30 degrees
// counter-clockwise and cropped back to its own size.
func ThumbnailAvatar(img image.Image, opts AvatarOptions) *image.NRGBA {
	thumb := imaging.Fit(img, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
	if !opts.Rotate {
		return thumb
	}
	b := thumb.Bounds()
	rotated := imaging.Rotate(thumb, avatarRotation, color.Transparent)
	return imaging.CropCenter(rotated, b.Dx(), b.Dy())
}

// AvatarFilename returns 16 random hex characters followed by the extension
// of the original filename.
func AvatarFilename(original string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate avatar name: %w", err)
	}
	return hex.EncodeToString(b) + filepath.Ext(original), nil
}

func contentTypeFor(f imaging.Format) string {
	switch f {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	case imaging.TIFF:
		return "image/tiff"
	case imaging.BMP:
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}
