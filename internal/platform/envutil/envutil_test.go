package envutil

import (
	"testing"
	"time"
)

func TestReaders(t *testing.T) {
	t.Setenv("NB_STR", "  hello ")
	t.Setenv("NB_INT", "42")
	t.Setenv("NB_BAD_INT", "x")
	t.Setenv("NB_BOOL", "on")
	t.Setenv("NB_SECS", "7")

	if got := String("NB_STR", "d"); got != "hello" {
		t.Fatalf("String: %q", got)
	}
	if got := String("NB_MISSING", "d"); got != "d" {
		t.Fatalf("String default: %q", got)
	}
	if got := Int("NB_INT", 1); got != 42 {
		t.Fatalf("Int: %d", got)
	}
	if got := Int("NB_BAD_INT", 1); got != 1 {
		t.Fatalf("Int fallback: %d", got)
	}
	if !Bool("NB_BOOL", false) {
		t.Fatalf("Bool: want true")
	}
	if Bool("NB_MISSING", false) {
		t.Fatalf("Bool default: want false")
	}
	if got := Seconds("NB_SECS", time.Second); got != 7*time.Second {
		t.Fatalf("Seconds: %v", got)
	}
}
