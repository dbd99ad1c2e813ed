package globe

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newLoggedGlobe(buf *bytes.Buffer) *Globe {
	log := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewGlobe(Options{Width: 800, Height: 600, Logger: log})
}

func TestDebugLog(t *testing.T) {
	var buf bytes.Buffer
	g := newLoggedGlobe(&buf)
	g.SetDebugMode(true)
	g.debugLog(RenderStats{Features: 3, Rings: 4, Subpaths: 5}, 2*time.Millisecond)

	out := buf.String()
	for _, want := range []string{"msg=render", "features=3", "rings=4", "subpaths=5", "zoom=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "degenerate") {
		t.Error("unexpected warning without skipped rings")
	}
}

func TestDebugLog_SkippedRingsWarn(t *testing.T) {
	var buf bytes.Buffer
	g := newLoggedGlobe(&buf)
	g.SetDebugMode(true)
	g.debugLog(RenderStats{SkippedRings: 2}, time.Millisecond)
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "count=2") {
		t.Errorf("expected a warning:\n%s", buf.String())
	}
}

func TestDebugLog_Disabled(t *testing.T) {
	var buf bytes.Buffer
	g := newLoggedGlobe(&buf)
	buf.Reset()
	g.debugLog(RenderStats{SkippedRings: 2}, time.Millisecond)
	if buf.Len() != 0 {
		t.Errorf("debug off but logged:\n%s", buf.String())
	}
}
