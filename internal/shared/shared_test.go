package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	tu "crate/internal/testing"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty ids")
	}
	if a == b {
		t.Error("expected unique ids")
	}
	if len(strings.Split(a, "-")) != 5 {
		t.Errorf("expected uuid shape, got %s", a)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.SetLevel(log.DebugLevel)

	logger.Debug("hello", "key", "value")

	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected log output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "key") {
		t.Errorf("expected structured fields, got %q", buf.String())
	}
}

func TestNewFileLogger(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	logPath := filepath.Join(logDir, "crate.log")

	logger, err := NewFileLogger(logPath)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	logger.Info("tui session started")

	tu.AssertDirExists(t, logDir)
	tu.AssertFileExists(t, logPath)
	if !strings.Contains(tu.MustReadFile(t, logPath), "tui session started") {
		t.Error("expected log entry in file")
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Run("compact", func(t *testing.T) {
		data, err := MarshalJSON(map[string]int{"n": 1}, false)
		if err != nil {
			t.Fatalf("MarshalJSON failed: %v", err)
		}
		if string(data) != `{"n":1}` {
			t.Errorf("unexpected output %s", data)
		}
	})

	t.Run("indented", func(t *testing.T) {
		data, err := MarshalJSON(map[string]int{"n": 1}, true)
		if err != nil {
			t.Fatalf("MarshalJSON failed: %v", err)
		}
		if !strings.Contains(string(data), "\n  \"n\": 1") {
			t.Errorf("expected indented output, got %s", data)
		}
	})
}
