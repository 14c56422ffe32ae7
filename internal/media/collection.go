package media

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FileValidator checks a local file before it may join a collection.
// Wired to the per-kind type/size gate in internal/validate.
type FileValidator func(path string) error

// Collection is the in-session state of one media kind: the ordered
// items, the capacity bound, and the deletion manifest for existing
// items removed during this session.
//
// Collections are confined to the editing session's goroutine, matching
// the single-threaded screens they back; they are not safe for
// concurrent use.
type Collection struct {
	kind     Kind
	capacity int

	// replaceOnAdd selects the singleton policy: when true, adding to a
	// full single-slot collection drops the current item (latest wins);
	// when false the add is rejected and the user must remove first.
	replaceOnAdd bool

	validate FileValidator
	previews *PreviewManager

	items    []Item
	snapshot []Item
	toDelete []string
}

// NewCollection builds a collection seeded with the server's current
// media URLs. The seed becomes the session snapshot that Reset restores.
func NewCollection(kind Kind, capacity int, replaceOnAdd bool, validate FileValidator, previews *PreviewManager, existingURLs []string) *Collection {
	c := &Collection{
		kind:         kind,
		capacity:     capacity,
		replaceOnAdd: replaceOnAdd,
		validate:     validate,
		previews:     previews,
	}
	c.seed(existingURLs)
	return c
}

func (c *Collection) seed(urls []string) {
	c.items = c.items[:0]
	for i, u := range urls {
		if i >= c.capacity {
			log.Warn().Str("kind", string(c.kind)).Int("capacity", c.capacity).Msg("Server returned more media than the collection capacity, truncating")
			break
		}
		c.items = append(c.items, Item{
			ID:         uuid.NewString(),
			Origin:     OriginExisting,
			PreviewURL: u,
			Position:   i,
		})
	}
	c.snapshot = append([]Item(nil), c.items...)
	c.toDelete = nil
}

// Kind returns the media kind this collection holds.
func (c *Collection) Kind() Kind { return c.kind }

// Capacity returns the maximum number of items.
func (c *Collection) Capacity() int { return c.capacity }

// Len returns the current item count.
func (c *Collection) Len() int { return len(c.items) }

// Items returns a copy of the current items in display order.
func (c *Collection) Items() []Item {
	return append([]Item(nil), c.items...)
}

// Pending returns the items that still need uploading, in order.
func (c *Collection) Pending() []Item {
	var out []Item
	for _, it := range c.items {
		if it.IsPending() {
			out = append(out, it)
		}
	}
	return out
}

// ToDelete returns the canonical URLs queued for server-side removal.
func (c *Collection) ToDelete() []string {
	return append([]string(nil), c.toDelete...)
}

// HasDeletion reports whether any existing item was removed this
// session. For singleton kinds this is the boolean delete flag sent on
// save.
func (c *Collection) HasDeletion() bool { return len(c.toDelete) > 0 }

// AddFiles validates and appends local files as pending items. Accepted
// files are appended in order after the current items; each gets a
// preview handle. Files failing validation are reported individually;
// files beyond the remaining capacity are reported once with the
// remaining count. Returns the number of files accepted.
func (c *Collection) AddFiles(paths []string) (int, []error) {
	var rejected []error
	remaining := c.capacity - len(c.items)
	added := 0
	overflow := 0

	for _, path := range paths {
		replacing := false
		if len(c.items) >= c.capacity {
			if c.replaceOnAdd && c.capacity == 1 {
				replacing = true
			} else {
				overflow++
				continue
			}
		}

		if err := c.validate(path); err != nil {
			rejected = append(rejected, err)
			continue
		}

		handle, err := c.previews.Allocate(path)
		if err != nil {
			rejected = append(rejected, fmt.Errorf("%s: preview: %w", path, err))
			continue
		}

		if replacing {
			// Latest wins, but the occupant is evicted only once the
			// replacement has validated and holds a preview: a rejected
			// file leaves the collection unchanged. An evicted existing
			// item joins the deletion manifest, a pending one is simply
			// revoked.
			if err := c.RemoveAt(0); err != nil {
				if revokeErr := c.previews.Revoke(handle); revokeErr != nil {
					log.Warn().Err(revokeErr).Str("handle", handle).Msg("Failed to revoke orphaned preview")
				}
				rejected = append(rejected, err)
				continue
			}
		}

		c.items = append(c.items, Item{
			ID:         uuid.NewString(),
			Origin:     OriginPending,
			PreviewURL: handle,
			Payload:    path,
			Position:   len(c.items),
		})
		added++
		log.Debug().Str("kind", string(c.kind)).Str("path", path).Int("count", len(c.items)).Msg("File attached")
	}

	if overflow > 0 {
		if remaining <= 0 && c.capacity == 1 {
			rejected = append(rejected, fmt.Errorf("remove the current %s before adding another", c.kind))
		} else {
			rejected = append(rejected, fmt.Errorf("you can only upload %d more %s", remaining, c.kind.plural()))
		}
	}
	return added, rejected
}

// RemoveAt removes the item at index. An existing item's canonical URL
// joins the deletion manifest; a pending item's preview is revoked with
// no server-side trace. Indices must be re-derived from the current
// items; stale indices fail here rather than removing the wrong item.
func (c *Collection) RemoveAt(index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("no %s at position %d", c.kind, index)
	}

	it := c.items[index]
	switch it.Origin {
	case OriginExisting:
		c.toDelete = append(c.toDelete, it.PreviewURL)
	case OriginPending:
		if err := c.previews.Revoke(it.PreviewURL); err != nil {
			return err
		}
	}

	c.items = append(c.items[:index], c.items[index+1:]...)
	c.renumber()
	log.Debug().Str("kind", string(c.kind)).Str("origin", string(it.Origin)).Int("index", index).Msg("Item removed")
	return nil
}

// Reset restores the session-start snapshot: all existing items back in
// place, deletion manifest empty, every pending preview revoked.
func (c *Collection) Reset() error {
	for _, it := range c.items {
		if it.IsPending() {
			if err := c.previews.Revoke(it.PreviewURL); err != nil {
				return err
			}
		}
	}
	c.items = append([]Item(nil), c.snapshot...)
	c.toDelete = nil
	return nil
}

// Rehydrate replaces the session state with the server's authoritative
// response after a successful save: newly uploaded files come back as
// existing items with server-assigned URLs, manifests and pending
// buffers are cleared, and the new state becomes the snapshot.
func (c *Collection) Rehydrate(urls []string) error {
	for _, it := range c.items {
		if it.IsPending() {
			if err := c.previews.Revoke(it.PreviewURL); err != nil {
				return err
			}
		}
	}
	c.seed(urls)
	return nil
}

func (c *Collection) renumber() {
	for i := range c.items {
		c.items[i].Position = i
	}
}
