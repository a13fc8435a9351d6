package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Segregation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Species hovering close to each other
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick:    int32(i * 100),
			MassA:            50,
			MassB:            50,
			MaxSpeedA:        1,
			MaxSpeedB:        1,
			CentroidDistance: 2,
		})
	}

	bookmarks := bd.Check(WindowStats{
		WindowEndTick:    500,
		MassA:            50,
		MassB:            50,
		MaxSpeedA:        1,
		MaxSpeedB:        1,
		CentroidDistance: 12,
	})
	if !hasBookmark(bookmarks, BookmarkSegregation) {
		t.Error("expected segregation bookmark")
	}
}

func TestBookmarkDetector_Mixing(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 100), MassA: 40, MassB: 20, Overlap: 1, MaxSpeedA: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 500, MassA: 40, MassB: 20, Overlap: 15, MaxSpeedA: 1})
	if !hasBookmark(bookmarks, BookmarkMixing) {
		t.Error("expected mixing bookmark")
	}
}

func TestBookmarkDetector_Collapse(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 100), MassA: 100, MassB: 80, MaxSpeedA: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 300, MassA: 30, MassB: 80, MaxSpeedA: 1})
	if !hasBookmark(bookmarks, BookmarkCollapse) {
		t.Fatal("expected collapse bookmark")
	}

	// Peak resets, so the same level does not trigger again
	bookmarks = bd.Check(WindowStats{WindowEndTick: 400, MassA: 30, MassB: 80, MaxSpeedA: 1})
	if hasBookmark(bookmarks, BookmarkCollapse) {
		t.Error("collapse triggered twice for the same drop")
	}
}

func TestBookmarkDetector_CalmTriggersOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	count := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 100), MassA: 10, MassB: 10})
		if hasBookmark(bookmarks, BookmarkCalm) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("calm triggered %d times, want 1", count)
	}
}

func TestBookmarkDetector_NoFalsePositives(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 20; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick:    int32(i * 100),
			MassA:            50,
			MassB:            50,
			MaxSpeedA:        0.5,
			MaxSpeedB:        0.5,
			CentroidDistance: 8,
			Overlap:          5,
		})
		if len(bookmarks) > 0 {
			t.Errorf("window %d: unexpected bookmarks %v", i, bookmarks)
		}
	}
}
