package logger

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRedactorValue(t *testing.T) {
	r := &redactor{salt: "pepper"}
	if got := r.value("authorization", "Bearer abc"); got != "[REDACTED]" {
		t.Fatalf("authorization not redacted: %v", got)
	}
	if got := r.value("postgres_dsn", "host=db password=x"); got != "[REDACTED]" {
		t.Fatalf("dsn not redacted: %v", got)
	}
	user := uuid.New()
	got, ok := r.value("user_id", user).(string)
	if !ok || !strings.HasPrefix(got, "hash:") || len(got) != len("hash:")+12 {
		t.Fatalf("user_id not hashed: %v", got)
	}
	if again := r.value("user_id", user.String()); again != got {
		t.Fatalf("hash differs between uuid and string forms: %v vs %v", again, got)
	}
	if other := (&redactor{salt: "salt"}).value("user_id", user); other == got {
		t.Fatalf("salt ignored")
	}
	if got := r.value("course_id", "c1"); got != "c1" {
		t.Fatalf("course_id should pass through: %v", got)
	}
	jwtish := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	if got := r.value("note", jwtish); got != "[REDACTED]" {
		t.Fatalf("jwt-looking value not redacted: %v", got)
	}
}

func TestRedactorKVs(t *testing.T) {
	var off *redactor
	in := []interface{}{"token", "t"}
	if got := off.kvs(in); got[1] != "t" {
		t.Fatalf("nil redactor should pass through: %v", got)
	}
	got := (&redactor{}).kvs([]interface{}{"Token", "t", "dangling"})
	if len(got) != 3 || got[1] != "[REDACTED]" || got[2] != "dangling" {
		t.Fatalf("got %v", got)
	}
}

func TestNewWithOptionsRejectsBadLevel(t *testing.T) {
	if _, err := NewWithOptions(Options{Mode: "development", Level: "loud"}); err == nil {
		t.Fatalf("expected level error")
	}
}

func TestNewTestModeIsSilent(t *testing.T) {
	l, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.With("service", "x").Info("hello", "user_id", "u1", "dangling")
	l.Sync()
}
