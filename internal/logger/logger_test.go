package logger

import "testing"

func TestNamed(t *testing.T) {
	Init("test", "not-a-level")

	if Get() == nil {
		t.Fatal("expected a logger")
	}
	if Named("forecast") == nil {
		t.Fatal("expected a named logger")
	}
	if !Get().Desugar().Core().Enabled(0) {
		t.Error("expected info level to be enabled for an unparsable level")
	}
}
