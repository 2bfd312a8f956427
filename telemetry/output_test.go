package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/predation/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// Nil manager methods are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePopulation(Sample{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir() = %q, want empty", om.Dir())
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := om.WritePopulation(Sample{Tick: int32(i), Prey: 10 + i, Predators: 5}); err != nil {
			t.Fatalf("WritePopulation: %v", err)
		}
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 10, PreyCount: 12}); err != nil {
		t.Fatalf("WriteTelemetry: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkPreyCrash, Tick: 10, Description: "crash"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 10); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "populations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("populations.csv has %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if lines[0] != "tick,prey,predators,grown_forage" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[3] != "2,12,5,0" {
		t.Errorf("last row = %q, want %q", lines[3], "2,12,5,0")
	}

	for _, name := range []string{"telemetry.csv", "bookmarks.csv", "perf.csv", "config.yaml"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
