package telemetry

import (
	"testing"

	"github.com/pthm-cable/predation/config"
)

func newDetector() *BookmarkDetector {
	return NewBookmarkDetector(10, config.Defaults().Bookmarks)
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HuntBreakthrough(t *testing.T) {
	bd := newDetector()

	// Add some history with a low kill rate
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: int32(i * 10),
			PreyCount:     100,
			PredCount:     10,
			Kills:         2,
			KillsPerPred:  0.02,
		})
	}

	// Now a window with a kill rate well above 2x the average
	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 50,
		PreyCount:     100,
		PredCount:     10,
		Kills:         8,
		KillsPerPred:  0.08,
	})

	if !hasBookmark(bookmarks, BookmarkHuntBreakthrough) {
		t.Error("expected hunt_breakthrough bookmark")
	}
}

func TestBookmarkDetector_PreyCrash(t *testing.T) {
	bd := newDetector()

	// Build up prey population
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: int32(i * 10),
			PreyCount:     100,
			PredCount:     10,
		})
	}

	// Now crash prey population
	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 50,
		PreyCount:     50, // 50% drop
		PredCount:     10,
	})

	if !hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("expected prey_crash bookmark")
	}
}

func TestBookmarkDetector_PreyCrashNeedsMinimumDrop(t *testing.T) {
	bd := newDetector()

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 10), PreyCount: 20, PredCount: 5})
	}

	// 40% drop but only 8 animals: below min_drop
	bookmarks := bd.Check(WindowStats{WindowEndTick: 30, PreyCount: 12, PredCount: 5})
	if hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("unexpected prey_crash bookmark for a small absolute drop")
	}
}

func TestBookmarkDetector_PredatorRecovery(t *testing.T) {
	bd := newDetector()

	// Predator population drops to critical level
	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{
			WindowEndTick: int32(i * 10),
			PreyCount:     100,
			PredCount:     2,
		})
	}

	// Predator recovers to more than 3x the minimum
	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 40,
		PreyCount:     100,
		PredCount:     10,
	})

	if !hasBookmark(bookmarks, BookmarkPredatorRecovery) {
		t.Error("expected predator_recovery bookmark")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := newDetector()
	stableWindows := config.Defaults().Bookmarks.StableEcosystem.StableWindows

	fired := 0
	for i := 0; i < 20; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: int32(i * 10),
			PreyCount:     100,
			PredCount:     20,
		})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			fired++
		}
	}

	if fired != 1 {
		t.Errorf("stable_ecosystem fired %d times over a steady run, want 1 (after %d stable windows)", fired, stableWindows)
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := newDetector()

	bd.Check(WindowStats{WindowEndTick: 10, PreyCount: 30, PredCount: 4})

	bookmarks := bd.Check(WindowStats{WindowEndTick: 20, PreyCount: 0, PredCount: 4})
	if !hasBookmark(bookmarks, BookmarkPreyExtinct) {
		t.Fatal("expected prey_extinct bookmark")
	}
	if hasBookmark(bookmarks, BookmarkPredatorExtinct) {
		t.Error("unexpected predator_extinct bookmark")
	}

	// Reported once
	bookmarks = bd.Check(WindowStats{WindowEndTick: 30, PreyCount: 0, PredCount: 0})
	if hasBookmark(bookmarks, BookmarkPreyExtinct) {
		t.Error("prey_extinct reported twice")
	}
	if !hasBookmark(bookmarks, BookmarkPredatorExtinct) {
		t.Error("expected predator_extinct bookmark")
	}
}
