// Package filehandler maps local media files onto the platform's media
// kinds: extension tables, MIME resolution, and attach-time inspection.
package filehandler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// SupportedImageExtensions defines the file extensions accepted for photo upload.
var SupportedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// SupportedAudioExtensions defines the file extensions accepted for audio upload.
var SupportedAudioExtensions = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
}

// SupportedVideoExtensions defines the file extensions accepted for video upload.
var SupportedVideoExtensions = map[string]string{
	".mp4": "video/mp4",
	".mov": "video/quicktime",
}

// MediaFile describes a local file selected for upload.
type MediaFile struct {
	Path     string
	MIMEType string
	Size     int64
}

// Load stats a local file and resolves its MIME type from the extension.
func Load(filePath string) (*MediaFile, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", filePath)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	mimeType, err := MIMEType(ext)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("path", filePath).
		Str("mime_type", mimeType).
		Int64("size_bytes", info.Size()).
		Msg("Media file loaded")

	return &MediaFile{
		Path:     filePath,
		MIMEType: mimeType,
		Size:     info.Size(),
	}, nil
}

// MIMEType returns the MIME type for a given file extension.
func MIMEType(ext string) (string, error) {
	ext = strings.ToLower(ext)

	if mimeType, ok := SupportedImageExtensions[ext]; ok {
		return mimeType, nil
	}
	if mimeType, ok := SupportedAudioExtensions[ext]; ok {
		return mimeType, nil
	}
	if mimeType, ok := SupportedVideoExtensions[ext]; ok {
		return mimeType, nil
	}
	return "", fmt.Errorf("unsupported file extension: %s", ext)
}

// IsImage returns true if the file extension corresponds to an image.
func IsImage(ext string) bool {
	_, ok := SupportedImageExtensions[strings.ToLower(ext)]
	return ok
}

// IsAudio returns true if the file extension corresponds to an audio track.
func IsAudio(ext string) bool {
	_, ok := SupportedAudioExtensions[strings.ToLower(ext)]
	return ok
}

// IsVideo returns true if the file extension corresponds to a video.
func IsVideo(ext string) bool {
	_, ok := SupportedVideoExtensions[strings.ToLower(ext)]
	return ok
}
