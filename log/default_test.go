package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(Make(&buf, WithLevel(LevelTrace)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn(tt.name+" message", slog.String("key", "value"))

			output := buf.String()
			for _, want := range []string{tt.name + " message", tt.level, `"key":"value"`} {
				if !strings.Contains(output, want) {
					t.Errorf("expected %q in output, got: %s", want, output)
				}
			}
		})
	}
}

func TestPackage_Config_ReconfiguresDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(Make(&buf))
	Config(WithFormat(FormatText), WithLevel(LevelWarn))

	Info("hidden")
	Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info logged after raising level to warn")
	}
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Errorf("expected text output, got: %s", buf.String())
	}
}
