package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestOptionsFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		prefix     string
		toFile     string
		wantLevel  log.Level
		wantPrefix string
		wantFile   bool
	}{
		{"defaults", "", "", "", log.InfoLevel, "simdscan ", false},
		{"debug", "debug", "", "", log.DebugLevel, "simdscan ", false},
		{"upper case", "WARN", "", "", log.WarnLevel, "simdscan ", false},
		{"error", "error", "scan", "1", log.ErrorLevel, "scan", true},
		{"garbage level", "loud", "", "yes", log.InfoLevel, "simdscan ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SIMDSCAN_LOG_LEVEL", tt.level)
			t.Setenv("SIMDSCAN_LOG_PREFIX", tt.prefix)
			t.Setenv("SIMDSCAN_LOG_TO_FILE", tt.toFile)

			got := OptionsFromEnv()
			if got.Level != tt.wantLevel || got.Prefix != tt.wantPrefix || got.ToFile != tt.wantFile {
				t.Errorf("OptionsFromEnv() = %+v, want level %v prefix %q file %v",
					got, tt.wantLevel, tt.wantPrefix, tt.wantFile)
			}
		})
	}
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	lc := NewLoggerWithWriter(&buf, Options{Level: log.WarnLevel, Prefix: "simdscan "})

	lc.Info("hidden")
	lc.Warn("shown", "ext", "AVX")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "ext=AVX") {
		t.Errorf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "simdscan") {
		t.Errorf("prefix missing: %q", out)
	}
}

func TestNewLoggerToFile(t *testing.T) {
	dir := t.TempDir()
	lc, err := NewLogger(Options{Level: log.DebugLevel, Prefix: "simdscan ", ToFile: true, Dir: dir})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	lc.Debug("scan started", "binary", "a.out")
	if err := lc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if filepath.Dir(lc.Path()) != dir || !strings.HasPrefix(filepath.Base(lc.Path()), "simdscan-") {
		t.Fatalf("Path() = %q, want simdscan-*.log in %s", lc.Path(), dir)
	}
	data, err := os.ReadFile(lc.Path())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "scan started") {
		t.Errorf("log file = %q", data)
	}
}

func TestNewLoggerFallsBackToStderr(t *testing.T) {
	lc, err := NewLogger(Options{ToFile: true, Dir: filepath.Join(t.TempDir(), "missing")})
	if err == nil {
		t.Fatal("expected error for missing log directory")
	}
	if lc == nil || lc.Path() != "" {
		t.Fatalf("fallback logger = %+v", lc)
	}
	if err := lc.Close(); err != nil {
		t.Errorf("closing stderr logger: %v", err)
	}
}

func TestIsDebug(t *testing.T) {
	t.Setenv("SIMDSCAN_LOG_LEVEL", "DEBUG")
	if !IsDebug() {
		t.Error("IsDebug() = false for DEBUG")
	}
	t.Setenv("SIMDSCAN_LOG_LEVEL", "info")
	if IsDebug() {
		t.Error("IsDebug() = true for info")
	}
}
