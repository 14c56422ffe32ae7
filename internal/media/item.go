// Package media implements the edit-session model for the dashboard's
// media screens: an ordered collection of photo/video/audio items where
// each item is either already persisted server-side or a local file
// waiting to be uploaded, plus the deletion manifest sent on save.
package media

// Origin tags where a media item lives.
type Origin string

const (
	// OriginExisting marks an item already persisted server-side,
	// identified by its canonical URL.
	OriginExisting Origin = "existing"

	// OriginPending marks a local file not yet uploaded, identified by
	// a revocable preview handle.
	OriginPending Origin = "pending"
)

// Kind is the media kind a collection holds.
type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// plural returns the kind's plural for user-facing messages.
func (k Kind) plural() string {
	switch k {
	case KindPhoto:
		return "photos"
	case KindVideo:
		return "videos"
	case KindAudio:
		return "audio tracks"
	}
	return string(k) + "s"
}

// Item is one entry in a media collection.
//
// Invariants: exactly one PreviewURL per item; pending items never have a
// canonical URL; existing items never carry a payload.
type Item struct {
	// ID is a session-unique identifier (UUID for pending items).
	ID string

	Origin Origin

	// PreviewURL is the canonical URL for existing items, or the
	// allocated preview handle for pending items.
	PreviewURL string

	// Payload is the local file path to upload. Pending only.
	Payload string

	// Position is the 0-based display order. Position 0 of the photo
	// collection is the cover image.
	Position int
}

// IsPending reports whether the item still needs to be uploaded.
func (it Item) IsPending() bool {
	return it.Origin == OriginPending
}
