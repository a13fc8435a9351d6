package telemetry

import (
	"fmt"
	"log/slog"
	"math"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSegregation BookmarkType = "segregation"
	BookmarkMixing      BookmarkType = "mixing"
	BookmarkCollapse    BookmarkType = "collapse"
	BookmarkCalm        BookmarkType = "calm"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// Detection thresholds
const (
	segregationFactor  = 2.0  // centroid distance vs rolling average
	segregationMinDist = 3.0  // cells
	mixingRatio        = 0.5  // overlap / smaller mass
	mixingQuietRatio   = 0.25 // rolling average must stay below this
	collapseDrop       = 0.5  // fraction of peak mass lost
	collapseMinPeak    = 1.0
	calmSpeed          = 1e-3
	calmWindows        = 5
)

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	peakMass    [2]float64 // highest mass per species since the last collapse
	calmWindows int        // consecutive windows with both species at rest
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < calmWindows {
		historySize = calmWindows
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Segregation: species pulled apart well beyond their usual distance
		if b := bd.checkSegregation(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Mixing: species suddenly sharing most of their cells
		if b := bd.checkMixing(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Collapse: a species lost most of its mass
	bookmarks = append(bookmarks, bd.checkCollapse(stats)...)

	// Calm: both species present and at rest for several windows
	if b := bd.checkCalm(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// overlapRatio is the share of the smaller species that sits on top of the other.
func overlapRatio(s WindowStats) float64 {
	smaller := math.Min(s.MassA, s.MassB)
	if smaller <= 0 {
		return 0
	}
	return s.Overlap / smaller
}

func (bd *BookmarkDetector) checkSegregation(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.CentroidDistance
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.CentroidDistance > avg*segregationFactor && stats.CentroidDistance >= segregationMinDist {
		return &Bookmark{
			Type:        BookmarkSegregation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Centroid distance %.1f is %.1fx average (%.1f)", stats.CentroidDistance, stats.CentroidDistance/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkMixing(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += overlapRatio(h)
	}
	avg := total / float64(len(history))

	ratio := overlapRatio(stats)
	if ratio > mixingRatio && avg < mixingQuietRatio {
		return &Bookmark{
			Type:        BookmarkMixing,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Overlap %.0f%% of the smaller species, up from %.0f%%", ratio*100, avg*100),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkCollapse(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	masses := [2]float64{stats.MassA, stats.MassB}
	names := [2]string{"a", "b"}

	for k, mass := range masses {
		peak := bd.peakMass[k]
		if peak >= collapseMinPeak && mass < peak*(1-collapseDrop) {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkCollapse,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("Species %s mass fell %.0f%% from %.1f to %.1f", names[k], (1-mass/peak)*100, peak, mass),
			})
			// Reset the peak after triggering
			bd.peakMass[k] = mass
			continue
		}
		if mass > peak {
			bd.peakMass[k] = mass
		}
	}

	return bookmarks
}

func (bd *BookmarkDetector) checkCalm(stats WindowStats) *Bookmark {
	if stats.MassA <= 0 || stats.MassB <= 0 || stats.MaxSpeedA > calmSpeed || stats.MaxSpeedB > calmSpeed {
		bd.calmWindows = 0
		return nil
	}

	bd.calmWindows++
	if bd.calmWindows == calmWindows { // trigger exactly once per calm stretch
		return &Bookmark{
			Type:        BookmarkCalm,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Both species at rest for %d windows", calmWindows),
		}
	}

	return nil
}
