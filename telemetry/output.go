package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/fearfield/config"
)

// Files written under an output directory.
const (
	ConfigFile    = "config.yaml"
	TelemetryFile = "telemetry.csv" // one WindowStats row per stats window
	PerfFile      = "perf.csv"      // one PerfStatsCSV row per perf window
	BookmarkFile  = "bookmarks.csv" // one Bookmark row per detected event
	SnapshotDir   = "snapshots"     // snapshot_<tick>.json field dumps
)

// csvLog appends gocsv rows to one file, writing the header with the first row.
type csvLog struct {
	name    string
	file    *os.File
	started bool
}

func openCSVLog(dir, name string) (*csvLog, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvLog{name: name, file: f}, nil
}

// append writes rows, which must be a slice of csv-tagged structs.
func (l *csvLog) append(rows any) error {
	marshal := gocsv.MarshalWithoutHeaders
	if !l.started {
		marshal = gocsv.Marshal
	}
	if err := marshal(rows, l.file); err != nil {
		return fmt.Errorf("writing %s: %w", l.name, err)
	}
	l.started = true
	return nil
}

// OutputManager owns a run's output directory: the effective config, the
// telemetry, perf and bookmark logs and the snapshots directory. A nil
// manager is valid and discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvLog
	perf      *csvLog
	bookmarks *csvLog
}

// NewOutputManager creates dir and opens its logs. It returns nil when dir
// is empty.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, slot := range []struct {
		log  **csvLog
		name string
	}{
		{&om.telemetry, TelemetryFile},
		{&om.perf, PerfFile},
		{&om.bookmarks, BookmarkFile},
	} {
		l, err := openCSVLog(dir, slot.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*slot.log = l
	}
	return om, nil
}

// WriteConfig saves cfg as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteTelemetry appends one window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.append([]WindowStats{stats})
}

// WritePerf appends one perf window ending at windowEnd to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return om.perf.append([]PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// WriteBookmark appends b to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.append([]Bookmark{b})
}

// WriteSnapshot saves snap under the snapshots directory and returns its path.
func (om *OutputManager) WriteSnapshot(snap *Snapshot) (string, error) {
	if om == nil || snap == nil {
		return "", nil
	}
	return SaveSnapshot(snap, filepath.Join(om.dir, SnapshotDir))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every open log.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, l := range []*csvLog{om.telemetry, om.perf, om.bookmarks} {
		if l != nil {
			errs = append(errs, l.file.Close())
		}
	}
	return errors.Join(errs...)
}
