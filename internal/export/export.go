// Package export bundles a studio's gallery into a local ZIP archive
// with zstd-compressed entries.
package export

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/dkovach/encore-cli/internal/api"
	"github.com/dkovach/encore-cli/internal/studio"
)

// zipMethodZstd is the ZIP compression method ID for Zstandard
// (APPNOTE 6.3.7), registered in init().
const zipMethodZstd uint16 = 93

func init() {
	zip.RegisterCompressor(zipMethodZstd, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	})
}

// Gallery downloads every photo in the studio gallery and writes them
// into a single archive at outPath. Downloads run one at a time;
// progress is reported as counts, not percentages.
func Gallery(ctx context.Context, client *api.Client, svc *studio.Service, outPath string) error {
	photos, err := svc.Photos(ctx)
	if err != nil {
		return err
	}
	if len(photos) == 0 {
		return fmt.Errorf("the gallery has no photos to export")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	// A failed export leaves no truncated archive behind.
	if err := writeArchive(ctx, client, photos, out); err != nil {
		out.Close()
		os.Remove(outPath)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("finalize archive: %w", err)
	}

	log.Info().Int("photos", len(photos)).Str("archive", outPath).Msg("Gallery exported")
	return nil
}

// writeArchive downloads each photo and writes it as one zip entry.
func writeArchive(ctx context.Context, client *api.Client, photos []studio.Photo, out io.Writer) error {
	zw := zip.NewWriter(out)
	for i, photo := range photos {
		log.Info().Int("photo", i+1).Int("total", len(photos)).Str("url", photo.URL).Msg("Downloading")

		data, err := client.Download(ctx, photo.URL)
		if err != nil {
			zw.Close()
			return fmt.Errorf("download %s: %w", photo.URL, err)
		}

		name := path.Base(photo.URL)
		if name == "" || name == "." || name == "/" {
			name = fmt.Sprintf("photo-%02d", i+1)
		}
		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:   name,
			Method: zipMethodZstd,
		})
		if err != nil {
			zw.Close()
			return fmt.Errorf("create archive entry %s: %w", name, err)
		}
		if _, err := entry.Write(data); err != nil {
			zw.Close()
			return fmt.Errorf("write archive entry %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}
