package cli

import (
	"errors"
	"strings"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"

	"github.com/dkovach/encore-cli/internal/media"
)

// filterPatterns maps each media kind to its picker file patterns.
var filterPatterns = map[media.Kind][]string{
	media.KindPhoto: {"*.jpg", "*.jpeg", "*.png", "*.webp"},
	media.KindAudio: {"*.mp3", "*.wav", "*.flac"},
	media.KindVideo: {"*.mp4", "*.mov"},
}

// PickMediaFiles opens a native multi-file dialog filtered to the given
// kind. When the dialog is unavailable (headless session) it falls back
// to prompting for comma-separated paths. A canceled dialog returns an
// empty slice.
func PickMediaFiles(kind media.Kind) []string {
	selected, err := zenity.SelectFileMultiple(
		zenity.Title("Select "+string(kind)+" files"),
		zenity.FileFilters{
			{Name: "Media files", Patterns: filterPatterns[kind]},
		},
	)
	if err == nil {
		log.Debug().Int("count", len(selected)).Msg("Files picked via native dialog")
		return selected
	}
	if errors.Is(err, zenity.ErrCanceled) {
		return nil
	}

	log.Debug().Err(err).Msg("Native file picker unavailable, falling back to prompt")
	input := Prompt("File paths (comma-separated)", "")
	if input == "" {
		return nil
	}
	var paths []string
	for _, p := range strings.Split(input, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
