package common

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
)

func TestNewLogger_ReturnsNonNil(t *testing.T) {
	logger := NewLogger("info")
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
}

func TestNewLogger_FluentAPI(t *testing.T) {
	// Must not panic — proves the fluent chain works with arbor
	logger := NewLogger("error")
	logger.Info().Str("key", "value").Msg("test message")
	logger.Warn().Int("count", 42).Msg("warning")
	logger.Error().Err(nil).Msg("error message")
	logger.Debug().Float64("rate", 3.14).Bool("ok", true).Msg("debug")
}

func TestNewLoggerWithOutput_WritesToProvidedWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	logger.Info().Str("key", "value").Msg("hello")

	if buf.String() == "" {
		t.Error("Expected output to provided writer, got empty string")
	}
}

func TestNewSilentLogger_DiscardsOutput(t *testing.T) {
	logger := NewSilentLogger()
	if logger == nil {
		t.Fatal("NewSilentLogger returned nil")
	}
	// Must not panic
	logger.Info().Str("key", "value").Msg("should be discarded")
	logger.Error().Err(nil).Msg("should be discarded")
}

func TestNewSilentLogger_DoesNotWriteToGlobalWriters(t *testing.T) {
	var buf bytes.Buffer
	_ = NewLoggerWithOutput("info", &buf)
	buf.Reset()

	silent := NewSilentLogger()
	silent.Info().Str("key", "value").Msg("this should NOT appear")
	silent.Error().Msg("this should NOT appear either")

	if buf.Len() > 0 {
		t.Errorf("Silent logger wrote %d bytes to global writer: %s", buf.Len(), buf.String())
	}
}

func TestNewLogger_DoesNotWriteToStdout(t *testing.T) {
	// stdout IS the MCP JSON-RPC channel when serving stdio.
	// Console writer must route to stderr, never stdout.
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	logger := NewLogger("info")
	logger.Info().Str("tool", "test").Msg("this must not go to stdout")
	logger.Error().Msg("neither should this")

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	r.Close()

	if buf.Len() > 0 {
		t.Errorf("Logger wrote %d bytes to stdout (would corrupt MCP stdio): %s", buf.Len(), buf.String())
	}
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	logger := NewLogger("info")
	correlated := logger.WithCorrelationId("req-123")

	if correlated == nil {
		t.Fatal("WithCorrelationId returned nil")
	}
	if correlated == logger {
		t.Error("WithCorrelationId should return a new Logger instance, not the same one")
	}
}

func TestLogLevel_DebugFilteredAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)

	logger.Debug().Msg("debug message should not appear")

	if strings.Contains(buf.String(), "debug message should not appear") {
		t.Error("Debug message appeared at info level — level filtering is broken")
	}
}

func TestLogLevel_InfoVisibleAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)

	logger.Info().Msg("info message should appear")

	if !strings.Contains(buf.String(), "info message should appear") {
		t.Errorf("Info message not visible at info level — got: %s", buf.String())
	}
}

func TestLogLevel_InfoFilteredAtWarnLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("warn", &buf)

	logger.Info().Msg("info message should not appear at warn level")

	if strings.Contains(buf.String(), "info message should not appear") {
		t.Error("Info message appeared at warn level — level filtering is broken")
	}
}

func TestConcurrentLogging_NoRaceOrPanic(t *testing.T) {
	logger := NewSilentLogger()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			correlated := logger.WithCorrelationId(fmt.Sprintf("goroutine-%d", id))
			for j := 0; j < 100; j++ {
				correlated.Info().Int("goroutine", id).Int("entry", j).Msg("concurrent log entry")
			}
		}(i)
	}

	wg.Wait()
}

func TestOutputFormat_ContainsExpectedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)

	logger.Info().
		Str("tool", "list_suppliers").
		Int("count", 10).
		Msg("handler complete")

	output := buf.String()
	if !strings.Contains(output, "handler complete") {
		t.Errorf("Output missing message — got: %s", output)
	}
	if !strings.Contains(output, "list_suppliers") {
		t.Errorf("Output missing 'list_suppliers' value — got: %s", output)
	}
}
