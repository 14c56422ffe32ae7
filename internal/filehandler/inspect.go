package filehandler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// Inspection is the attach-time reading of a local media file, shown to
// the user before upload (gallery inspect, edit-session attach logging).
type Inspection struct {
	MediaFile

	// Image-only fields, populated when EXIF data is readable.
	Width       int
	Height      int
	DateTaken   time.Time
	CameraMake  string
	CameraModel string
}

// Inspect loads a file and, for images, extracts dimensions and EXIF
// metadata. Metadata failures are non-fatal; upload only needs the file
// to stat and match a supported extension.
func Inspect(filePath string) (*Inspection, error) {
	mf, err := Load(filePath)
	if err != nil {
		return nil, err
	}

	insp := &Inspection{MediaFile: *mf}

	if IsImage(filepath.Ext(filePath)) {
		if err := insp.readImageMeta(); err != nil {
			log.Warn().Err(err).Str("path", filePath).Msg("Failed to read image metadata, continuing without it")
		}
	}
	return insp, nil
}

// readImageMeta decodes EXIF metadata with the imagemeta library. Only
// metadata bytes are read, not the whole image.
func (i *Inspection) readImageMeta() error {
	file, err := os.Open(i.Path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	meta, err := imagemeta.Decode(file)
	if err != nil {
		return fmt.Errorf("failed to decode metadata: %w", err)
	}

	i.Width = int(meta.ImageWidth)
	i.Height = int(meta.ImageHeight)
	i.CameraMake = strings.TrimSpace(meta.Make)
	i.CameraModel = strings.TrimSpace(meta.Model)

	// Date fallback chain: original capture time first.
	switch {
	case !meta.DateTimeOriginal().IsZero():
		i.DateTaken = meta.DateTimeOriginal()
	case !meta.CreateDate().IsZero():
		i.DateTaken = meta.CreateDate()
	case !meta.ModifyDate().IsZero():
		i.DateTaken = meta.ModifyDate()
	}
	return nil
}

// Summary returns a one-line human description for CLI output.
func (i *Inspection) Summary() string {
	parts := []string{fmt.Sprintf("%s (%s, %d bytes)", filepath.Base(i.Path), i.MIMEType, i.Size)}
	if i.Width > 0 && i.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", i.Width, i.Height))
	}
	if !i.DateTaken.IsZero() {
		parts = append(parts, i.DateTaken.Format("2006-01-02"))
	}
	if i.CameraModel != "" {
		parts = append(parts, i.CameraModel)
	}
	return strings.Join(parts, " ")
}
