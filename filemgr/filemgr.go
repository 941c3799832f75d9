// Package filemgr stores uploaded event images on local disk together with
// a fixed-size thumbnail.
package filemgr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"eventspark/models"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const (
	MaxImageSize = 10 << 20
	ThumbWidth   = 300
	ThumbHeight  = 200
	maxDimension = 6000
	eventsDir    = "events"
	thumbDir     = "thumb"
)

var (
	allowedExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
	allowedMIMEs      = []string{"image/jpeg", "image/png", "image/webp"}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
)

// Manager writes under root and hands out URLs under urlPrefix.
type Manager struct {
	root      string
	urlPrefix string
}

func NewManager(root, urlPrefix string) *Manager {
	return &Manager{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

// SavedImage names the stored original and its thumbnail.
type SavedImage struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumbUrl"`
}

// SaveEventImage validates an upload, stores it and writes a 300x200
// thumbnail cropped from the centre.
func (m *Manager) SaveEventImage(r io.Reader, filename string) (SavedImage, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !contains(allowedExtensions, ext) {
		return SavedImage{}, models.Validation("%v: %s", ErrInvalidExtension, ext)
	}

	buf, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return SavedImage{}, fmt.Errorf("read upload: %w", err)
	}
	if len(buf) > MaxImageSize {
		return SavedImage{}, models.Validation("%v", ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(buf)
	if !contains(allowedMIMEs, mimeType) {
		return SavedImage{}, models.Validation("%v: %s", ErrInvalidMIME, mimeType)
	}

	// header only; the pixel buffer is not allocated until the size is known
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return SavedImage{}, models.Validation("could not decode image %q", filename)
	}
	if err := validateDimensions(cfg.Width, cfg.Height); err != nil {
		return SavedImage{}, err
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return SavedImage{}, models.Validation("could not decode image %q", filename)
	}

	name := uuid.New().String()
	origDir := filepath.Join(m.root, eventsDir)
	thumbsDir := filepath.Join(origDir, thumbDir)
	if err := os.MkdirAll(thumbsDir, 0o755); err != nil {
		return SavedImage{}, fmt.Errorf("mkdir %s: %w", thumbsDir, err)
	}

	origName := name + ext
	if err := os.WriteFile(filepath.Join(origDir, origName), buf, 0o644); err != nil {
		return SavedImage{}, fmt.Errorf("write image: %w", err)
	}

	thumbName := name + ".jpg"
	thumb := imaging.Fill(img, ThumbWidth, ThumbHeight, imaging.Center, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(thumbsDir, thumbName), imaging.JPEGQuality(85)); err != nil {
		return SavedImage{}, fmt.Errorf("write thumbnail: %w", err)
	}

	log.Printf("[Files] saved %s (%d bytes, %s)", origName, len(buf), mimeType)
	return SavedImage{
		URL:      path.Join(m.urlPrefix, eventsDir, origName),
		ThumbURL: path.Join(m.urlPrefix, eventsDir, thumbDir, thumbName),
	}, nil
}

func validateDimensions(w, h int) error {
	if w > maxDimension || h > maxDimension {
		return models.Validation("image dimensions %dx%d exceed allowed maximum %dx%d", w, h, maxDimension, maxDimension)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
