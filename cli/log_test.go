package cli

import "testing"

func TestLogScan(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		level  logLevel
		format logFormat
		pretty bool
		caller bool
	}{
		{
			name:   "none",
			args:   []string{"vars", "a.tmpl"},
			pretty: true,
		},
		{
			name:   "assigned",
			args:   []string{"--log-level=debug", "--log-format=text", "vars"},
			level:  "debug",
			format: "text",
			pretty: true,
		},
		{
			name:   "separate values",
			args:   []string{"render", "--log-level", "warn", "--log-caller"},
			level:  "warn",
			pretty: true,
			caller: true,
		},
		{
			name: "negated",
			args: []string{"--no-log-pretty", "--log-caller=false"},
		},
		{
			name:   "negated false",
			args:   []string{"--no-log-pretty=false"},
			pretty: true,
		},
		{
			name:   "stops at terminator",
			args:   []string{"--", "--log-level=error", "--no-log-pretty"},
			pretty: true,
		},
		{
			name:   "invalid bool ignored",
			args:   []string{"--log-caller=maybe"},
			pretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.level || f.Format != tt.format {
				t.Errorf("level, format = %q, %q, want %q, %q",
					f.Level, f.Format, tt.level, tt.format)
			}

			if f.Pretty != tt.pretty || f.Caller != tt.caller {
				t.Errorf("pretty, caller = %v, %v, want %v, %v",
					f.Pretty, f.Caller, tt.pretty, tt.caller)
			}
		})
	}
}

func TestScanBool(t *testing.T) {
	tests := []struct {
		name, value string
		assigned    bool
		want, ok    bool
	}{
		{"--log-pretty", "", false, true, true},
		{"--no-log-pretty", "", false, false, true},
		{"--log-pretty", "false", true, false, true},
		{"--no-log-pretty", "0", true, true, true},
		{"--log-pretty", "nah", true, false, false},
	}

	for _, tt := range tests {
		got, ok := scanBool(tt.name, tt.value, tt.assigned)
		if got != tt.want || ok != tt.ok {
			t.Errorf("scanBool(%q, %q, %v) = (%v, %v), want (%v, %v)",
				tt.name, tt.value, tt.assigned, got, ok, tt.want, tt.ok)
		}
	}
}
