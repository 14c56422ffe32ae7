package media

import (
	"fmt"
	"strings"
	"testing"
)

func acceptAll(string) error { return nil }

func newTestCollection(t *testing.T, kind Kind, capacity int, replaceOnAdd bool, existing []string) (*Collection, *PreviewManager) {
	t.Helper()
	previews, err := NewPreviewManager()
	if err != nil {
		t.Fatalf("create preview manager: %v", err)
	}
	t.Cleanup(func() { previews.Close() })
	return NewCollection(kind, capacity, replaceOnAdd, acceptAll, previews, existing), previews
}

func TestAddFilesWithinCapacity(t *testing.T) {
	c, _ := newTestCollection(t, KindPhoto, 5, false, []string{"https://cdn/p1.jpg", "https://cdn/p2.jpg"})

	added, rejected := c.AddFiles([]string{"a.png", "b.png"})
	if added != 2 || len(rejected) != 0 {
		t.Fatalf("expected 2 added and no rejections, got %d added, %v", added, rejected)
	}
	if c.Len() != 4 {
		t.Errorf("expected 4 items, got %d", c.Len())
	}
	for i, it := range c.Items() {
		if it.Position != i {
			t.Errorf("item %d has position %d", i, it.Position)
		}
	}
	if got := len(c.Pending()); got != 2 {
		t.Errorf("expected 2 pending items, got %d", got)
	}
}

func TestAddFilesOverflowReportsRemainingCount(t *testing.T) {
	c, _ := newTestCollection(t, KindPhoto, 5, false, []string{"u1", "u2", "u3"})

	added, rejected := c.AddFiles([]string{"a.png", "b.png", "c.png", "d.png"})
	if added != 2 {
		t.Fatalf("expected 2 added, got %d", added)
	}
	if len(rejected) != 1 {
		t.Fatalf("expected one overflow error, got %v", rejected)
	}
	if !strings.Contains(rejected[0].Error(), "2 more photos") {
		t.Errorf("overflow message must carry the remaining count: %v", rejected[0])
	}
	if c.Len() != 5 {
		t.Errorf("capacity invariant broken: %d items", c.Len())
	}
}

func TestAddFilesKeepsGoodFilesWhenOthersFail(t *testing.T) {
	previews, err := NewPreviewManager()
	if err != nil {
		t.Fatalf("create preview manager: %v", err)
	}
	defer previews.Close()

	reject := func(path string) error {
		if strings.HasPrefix(path, "bad") {
			return fmt.Errorf("%s: unsupported file type", path)
		}
		return nil
	}
	c := NewCollection(KindPhoto, 5, false, reject, previews, nil)

	added, rejected := c.AddFiles([]string{"good1.png", "bad.txt", "good2.png"})
	if added != 2 {
		t.Errorf("expected the good files to stay attached, got %d", added)
	}
	if len(rejected) != 1 || !strings.Contains(rejected[0].Error(), "bad.txt") {
		t.Errorf("expected one per-file rejection naming the file, got %v", rejected)
	}
}

func TestRemoveExistingFeedsDeletionManifest(t *testing.T) {
	c, previews := newTestCollection(t, KindPhoto, 5, false, []string{"https://cdn/p1.jpg", "https://cdn/p2.jpg"})
	c.AddFiles([]string{"new.png"})

	if err := c.RemoveAt(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.ToDelete(); len(got) != 1 || got[0] != "https://cdn/p1.jpg" {
		t.Errorf("expected the removed URL in the manifest, got %v", got)
	}

	// Removing the pending item revokes its preview and leaves the
	// manifest alone.
	if err := c.RemoveAt(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.ToDelete(); len(got) != 1 {
		t.Errorf("pending removals must not join the manifest, got %v", got)
	}
	if previews.Live() != 0 {
		t.Errorf("expected the pending preview revoked, %d live", previews.Live())
	}

	for i, it := range c.Items() {
		if it.Position != i {
			t.Errorf("positions not contiguous after removal: item %d at %d", i, it.Position)
		}
	}
}

func TestRemoveAtStaleIndex(t *testing.T) {
	c, _ := newTestCollection(t, KindPhoto, 5, false, []string{"u1"})
	if err := c.RemoveAt(3); err == nil {
		t.Fatal("expected an error for an out-of-range index")
	}
	if err := c.RemoveAt(-1); err == nil {
		t.Fatal("expected an error for a negative index")
	}
	if c.Len() != 1 {
		t.Errorf("stale index must not remove anything, %d items left", c.Len())
	}
}

func TestResetRestoresSnapshot(t *testing.T) {
	c, previews := newTestCollection(t, KindPhoto, 5, false, []string{"u1", "u2"})
	c.AddFiles([]string{"new.png"})
	if err := c.RemoveAt(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := c.Reset(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := c.Items()
	if len(items) != 2 || items[0].PreviewURL != "u1" || items[1].PreviewURL != "u2" {
		t.Errorf("reset must restore the session-start items, got %v", items)
	}
	if c.HasDeletion() {
		t.Error("reset must clear the deletion manifest")
	}
	if previews.Live() != 0 {
		t.Errorf("reset must revoke pending previews, %d live", previews.Live())
	}
}

func TestVideoReplaceOnAdd(t *testing.T) {
	c, _ := newTestCollection(t, KindVideo, 1, true, []string{"https://cdn/old.mp4"})

	added, rejected := c.AddFiles([]string{"new.mp4"})
	if added != 1 || len(rejected) != 0 {
		t.Fatalf("expected the new video to take the slot, got %d added, %v", added, rejected)
	}
	if c.Len() != 1 {
		t.Errorf("singleton slot must hold one item, got %d", c.Len())
	}
	if !c.Items()[0].IsPending() {
		t.Error("the slot must hold the new pending video")
	}
	if got := c.ToDelete(); len(got) != 1 || got[0] != "https://cdn/old.mp4" {
		t.Errorf("replacing an existing video must record its deletion, got %v", got)
	}
	if !c.HasDeletion() {
		t.Error("HasDeletion must report the displaced video")
	}
}

func TestVideoReplaceOnAddRejectedFileKeepsExisting(t *testing.T) {
	previews, err := NewPreviewManager()
	if err != nil {
		t.Fatalf("create preview manager: %v", err)
	}
	defer previews.Close()

	reject := func(path string) error {
		if strings.HasSuffix(path, ".txt") {
			return fmt.Errorf("%s: unsupported file type", path)
		}
		return nil
	}
	c := NewCollection(KindVideo, 1, true, reject, previews, []string{"https://cdn/old.mp4"})

	added, rejected := c.AddFiles([]string{"bad.txt"})
	if added != 0 {
		t.Fatalf("expected the bad file rejected, got %d added", added)
	}
	if len(rejected) != 1 {
		t.Fatalf("expected one rejection, got %v", rejected)
	}

	// The rejected replacement must not evict the current occupant.
	if c.Len() != 1 {
		t.Fatalf("existing video must survive a rejected replacement, got %d items", c.Len())
	}
	if c.Items()[0].Origin != OriginExisting || c.Items()[0].PreviewURL != "https://cdn/old.mp4" {
		t.Errorf("unexpected occupant after rejected replacement: %+v", c.Items()[0])
	}
	if len(c.ToDelete()) != 0 {
		t.Errorf("rejected replacement must not queue a deletion, got %v", c.ToDelete())
	}
	if previews.Live() != 0 {
		t.Errorf("rejected replacement must not leak previews, %d live", previews.Live())
	}

	// A good file still takes the slot afterwards.
	added, rejected = c.AddFiles([]string{"new.mp4"})
	if added != 1 || len(rejected) != 0 {
		t.Fatalf("expected the good file to replace, got %d added, %v", added, rejected)
	}
	if got := c.ToDelete(); len(got) != 1 || got[0] != "https://cdn/old.mp4" {
		t.Errorf("replacement must record the evicted video, got %v", got)
	}
}

func TestAudioDeleteFirstRejection(t *testing.T) {
	c, _ := newTestCollection(t, KindAudio, 1, false, []string{"https://cdn/track.mp3"})

	added, rejected := c.AddFiles([]string{"new.mp3"})
	if added != 0 {
		t.Fatalf("expected the add rejected while a track exists, got %d added", added)
	}
	if len(rejected) != 1 || !strings.Contains(rejected[0].Error(), "remove the current audio") {
		t.Errorf("expected the delete-first message, got %v", rejected)
	}

	// After an explicit removal the slot opens up.
	if err := c.RemoveAt(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	added, rejected = c.AddFiles([]string{"new.mp3"})
	if added != 1 || len(rejected) != 0 {
		t.Errorf("expected the add accepted after removal, got %d added, %v", added, rejected)
	}
}

func TestRehydrateClearsSessionState(t *testing.T) {
	c, previews := newTestCollection(t, KindPhoto, 5, false, []string{"u1"})
	c.AddFiles([]string{"new.png"})
	if err := c.RemoveAt(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := c.Rehydrate([]string{"https://cdn/s1.jpg", "https://cdn/s2.jpg"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 2 || len(c.Pending()) != 0 {
		t.Errorf("rehydrated state must be all existing, got %d items %d pending", c.Len(), len(c.Pending()))
	}
	if c.HasDeletion() {
		t.Error("rehydrate must clear the deletion manifest")
	}
	if previews.Live() != 0 {
		t.Errorf("rehydrate must revoke pending previews, %d live", previews.Live())
	}

	// The server state is the new snapshot.
	c.AddFiles([]string{"another.png"})
	if err := c.Reset(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("reset after rehydrate must restore the server state, got %d", c.Len())
	}
}

func TestSeedTruncatesBeyondCapacity(t *testing.T) {
	c, _ := newTestCollection(t, KindPhoto, 2, false, []string{"u1", "u2", "u3"})
	if c.Len() != 2 {
		t.Errorf("seed must truncate at capacity, got %d", c.Len())
	}
}
