package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	t.Setenv("SL_TEST_DURATION", "45s")
	if got := Duration("SL_TEST_DURATION", time.Second); got != 45*time.Second {
		t.Fatalf("got %v", got)
	}
	t.Setenv("SL_TEST_DURATION", "12")
	if got := Duration("SL_TEST_DURATION", time.Second); got != 12*time.Second {
		t.Fatalf("bare seconds: got %v", got)
	}
	t.Setenv("SL_TEST_DURATION", "soon")
	if got := Duration("SL_TEST_DURATION", time.Second); got != time.Second {
		t.Fatalf("invalid should fall back: got %v", got)
	}
}

func TestIntAndBool(t *testing.T) {
	t.Setenv("SL_TEST_INT", "x")
	if got := Int("SL_TEST_INT", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
	t.Setenv("SL_TEST_BOOL", "on")
	if !Bool("SL_TEST_BOOL", false) {
		t.Fatalf("expected true")
	}
	if got := String("SL_TEST_MISSING", "def"); got != "def" {
		t.Fatalf("got %q", got)
	}
}
