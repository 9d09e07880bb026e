package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromKeepsWrappedError(t *testing.T) {
	inner := New(http.StatusNotFound, CodeCourseNotFound, errors.New("course x"))
	got := From(fmt.Errorf("handler: %w", inner))
	if got != inner {
		t.Fatalf("From lost the wrapped *Error: %+v", got)
	}
}

func TestFromClassifiesPlainErrorsAsInternal(t *testing.T) {
	got := From(errors.New("boom"))
	if got.Status != http.StatusInternalServerError || got.Code != CodeInternal {
		t.Fatalf("got %d %s", got.Status, got.Code)
	}
}

func TestPublicMessageHidesServerErrors(t *testing.T) {
	if msg := PublicMessage(http.StatusBadGateway, errors.New("dial tcp 10.0.0.3:5432")); msg != "Bad Gateway" {
		t.Fatalf("leaked: %q", msg)
	}
	if msg := PublicMessage(http.StatusBadRequest, errors.New("unit_uuid is required")); msg != "unit_uuid is required" {
		t.Fatalf("got %q", msg)
	}
}
