package media

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// previewMaxDimension is the maximum width or height of a generated
// preview image.
const previewMaxDimension = 512

// PreviewManager allocates revocable preview handles for pending media
// items. Every allocation must be revoked exactly once, whether through
// removal, session reset, or teardown. Under-revoking leaks files in the session
// directory; revoking twice (or revoking a handle still held by a live
// item) is an error surfaced to the caller.
//
// For JPEG/PNG sources the handle is a downscaled JPEG; other kinds get
// a marker file recording the source path.
type PreviewManager struct {
	dir string

	mu      sync.Mutex
	live    map[string]struct{}
	created int
	revoked int
}

// NewPreviewManager creates a manager backed by a fresh session
// directory. Close tears the directory down.
func NewPreviewManager() (*PreviewManager, error) {
	dir, err := os.MkdirTemp("", "encore-previews-*")
	if err != nil {
		return nil, fmt.Errorf("create preview dir: %w", err)
	}
	return &PreviewManager{
		dir:  dir,
		live: map[string]struct{}{},
	}, nil
}

// Allocate creates one preview handle for the given source file.
func (m *PreviewManager) Allocate(srcPath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(srcPath))
	handle := filepath.Join(m.dir, uuid.NewString()+".preview")

	var err error
	switch ext {
	case ".jpg", ".jpeg", ".png":
		err = renderThumbnail(srcPath, handle)
		if err != nil {
			// A corrupt-but-allowed image still gets a handle; the
			// preview is cosmetic, the upload uses the original bytes.
			log.Warn().Err(err).Str("path", srcPath).Msg("Preview render failed, using marker")
			err = writeMarker(srcPath, handle)
		}
	default:
		err = writeMarker(srcPath, handle)
	}
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.live[handle] = struct{}{}
	m.created++
	m.mu.Unlock()

	log.Debug().Str("source", srcPath).Str("handle", handle).Msg("Preview allocated")
	return handle, nil
}

// Revoke releases a handle. Each handle can be revoked exactly once.
func (m *PreviewManager) Revoke(handle string) error {
	m.mu.Lock()
	if _, ok := m.live[handle]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("preview already revoked or unknown: %s", handle)
	}
	delete(m.live, handle)
	m.revoked++
	m.mu.Unlock()

	if err := os.Remove(handle); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("handle", handle).Msg("Failed to remove preview file")
	}
	return nil
}

// Close revokes any still-live handles and removes the session
// directory. Safe to call after all handles were already revoked.
func (m *PreviewManager) Close() error {
	m.mu.Lock()
	var leftover []string
	for h := range m.live {
		leftover = append(leftover, h)
	}
	m.mu.Unlock()

	for _, h := range leftover {
		if err := m.Revoke(h); err != nil {
			return err
		}
	}
	return os.RemoveAll(m.dir)
}

// Stats returns the lifetime allocation and revocation counts.
func (m *PreviewManager) Stats() (created, revoked int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created, m.revoked
}

// Live returns the number of currently unrevoked handles.
func (m *PreviewManager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// renderThumbnail decodes src and writes a downscaled JPEG to dst.
func renderThumbnail(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > previewMaxDimension || h > previewMaxDimension {
		scale := float64(previewMaxDimension) / float64(w)
		if h > w {
			scale = float64(previewMaxDimension) / float64(h)
		}
		nw := int(float64(w) * scale)
		nh := int(float64(h) * scale)
		scaled := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
		img = scaled
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

// writeMarker records the source path in the handle file for kinds that
// have no rendered preview.
func writeMarker(src, dst string) error {
	if err := os.WriteFile(dst, []byte(src), 0600); err != nil {
		return fmt.Errorf("write preview marker: %w", err)
	}
	return nil
}
