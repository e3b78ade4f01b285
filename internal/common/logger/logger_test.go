package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

// TestVerboseModeShowsDebugMessages tests that --verbose shows debug messages
func TestVerboseModeShowsDebugMessages(t *testing.T) {
	buf := new(bytes.Buffer)
	log := New(buf, LevelInfo)

	// Debug should not appear at Info level
	log.Debug("debug message before verbose")
	if strings.Contains(buf.String(), "debug message before verbose") {
		t.Error("Debug message should not appear at Info level")
	}

	log.SetVerbose(true)

	log.Debug("debug message after verbose")
	if !strings.Contains(buf.String(), "debug message after verbose") {
		t.Error("Debug message should appear when verbose is enabled")
	}
}

// TestQuietModeSuppressesInfoMessages tests that --quiet suppresses info and notice messages
func TestQuietModeSuppressesInfoMessages(t *testing.T) {
	buf := new(bytes.Buffer)
	log := New(buf, LevelInfo)

	log.Info("info message before quiet")
	if !strings.Contains(buf.String(), "info message before quiet") {
		t.Error("Info message should appear at Info level")
	}

	buf.Reset()
	log.SetQuiet(true)

	log.Info("info message after quiet")
	log.Notice("notice message after quiet")
	if strings.Contains(buf.String(), "after quiet") {
		t.Error("Info and notice messages should not appear when quiet is enabled")
	}

	log.Error("error message in quiet mode")
	if !strings.Contains(buf.String(), "error message in quiet mode") {
		t.Error("Error message should appear even in quiet mode")
	}
}

// TestLogLevelHierarchy tests that log levels work correctly
func TestLogLevelHierarchy(t *testing.T) {
	tests := []struct {
		name         string
		level        Level
		expectDebug  bool
		expectInfo   bool
		expectNotice bool
		expectWarn   bool
		expectError  bool
	}{
		{"Debug level shows all", LevelDebug, true, true, true, true, true},
		{"Info level hides debug", LevelInfo, false, true, true, true, true},
		{"Notice level hides debug and info", LevelNotice, false, false, true, true, true},
		{"Warn level hides notice", LevelWarn, false, false, false, true, true},
		{"Error level shows only errors", LevelError, false, false, false, false, true},
		{"Quiet level shows nothing", LevelQuiet, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			log := New(buf, tt.level)

			log.Debug("dbg-line")
			log.Info("info-line")
			log.Notice("notice-line")
			log.Warn("warn-line")
			log.Error("error-line")

			out := buf.String()
			checks := []struct {
				msg    string
				expect bool
			}{
				{"dbg-line", tt.expectDebug},
				{"info-line", tt.expectInfo},
				{"notice-line", tt.expectNotice},
				{"warn-line", tt.expectWarn},
				{"error-line", tt.expectError},
			}
			for _, c := range checks {
				if got := strings.Contains(out, c.msg); got != c.expect {
					t.Errorf("%s: expected %v, got %v", c.msg, c.expect, got)
				}
			}
		})
	}
}

func TestPrefixAndLevelTag(t *testing.T) {
	buf := new(bytes.Buffer)
	log := New(buf, LevelInfo)
	log.SetPrefix("ExamplePlugin")

	log.Info("hello %s", "world")
	log.Notice("update %d", 2)

	out := buf.String()
	if !strings.Contains(out, "[ExamplePlugin] hello world") {
		t.Errorf("prefix missing from info line: %q", out)
	}
	if !strings.Contains(out, "NOTICE") || !strings.Contains(out, "[ExamplePlugin] update 2") {
		t.Errorf("notice line should carry level tag and prefix: %q", out)
	}
}

func TestLevelString(t *testing.T) {
	tests := map[Level]string{
		LevelDebug:  "DEBUG",
		LevelNotice: "NOTICE",
		LevelError:  "ERROR",
		LevelQuiet:  "QUIET",
	}
	for level, want := range tests {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

// TestSetVerboseEnablesDebugLevel tests SetVerbose sets level to Debug
func TestSetVerboseEnablesDebugLevel(t *testing.T) {
	log := &Logger{level: LevelInfo}
	log.SetVerbose(true)
	if log.Level() != LevelDebug {
		t.Errorf("SetVerbose(true) should set level to Debug, got %v", log.level)
	}
}

// TestSetQuietEnablesErrorLevel tests SetQuiet sets level to Error
func TestSetQuietEnablesErrorLevel(t *testing.T) {
	log := &Logger{level: LevelInfo}
	log.SetQuiet(true)
	if log.Level() != LevelError {
		t.Errorf("SetQuiet(true) should set level to Error, got %v", log.level)
	}
}

// TestPackageLevelFunctions tests the package-level convenience functions
func TestPackageLevelFunctions(t *testing.T) {
	once = sync.Once{}
	defaultLogger = nil

	buf := new(bytes.Buffer)
	once.Do(func() {
		defaultLogger = New(buf, LevelDebug)
	})

	Debug("debug test")
	Info("info test")
	Notice("notice test")
	Warn("warn test")
	Error("error test")

	out := buf.String()
	for _, msg := range []string{"debug test", "info test", "notice test", "warn test", "error test"} {
		if !strings.Contains(out, msg) {
			t.Errorf("package-level helper did not log %q", msg)
		}
	}
}
