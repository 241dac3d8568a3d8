package profile

import "testing"

func TestNew_AppliesOptions(t *testing.T) {
	c := New(WithMode("cpu"), WithPath("/tmp/x"), WithQuiet(true), nil)

	if c.Mode != "cpu" || c.Path != "/tmp/x" || !c.Quiet {
		t.Errorf("unexpected config: %+v", c)
	}
}

func TestConfig_Start_EmptyModeIsNoop(t *testing.T) {
	s := New(WithPath(t.TempDir())).Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("expected no-op stopper, got %T", s)
	}

	s.Stop()
}

func TestConfig_Start_UnknownModeIsNoop(t *testing.T) {
	s := New(WithMode("bogus"), WithPath(t.TempDir())).Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("expected no-op stopper, got %T", s)
	}
}
