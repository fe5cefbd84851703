package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeForStatus(t *testing.T) {
	cases := map[int]ErrorCode{
		400: ErrCodeInvalid,
		401: ErrCodeUnauthorized,
		403: ErrCodeForbidden,
		404: ErrCodeNotFound,
		409: ErrCodeConflict,
		418: ErrCodeRemote,
		502: ErrCodeInternal,
	}
	for status, want := range cases {
		if got := CodeForStatus(status); got != want {
			t.Errorf("CodeForStatus(%d) = %s, want %s", status, got, want)
		}
	}
}

func TestErrorInspection(t *testing.T) {
	err := fmt.Errorf("load foods: %w", HTTPError(404, "not here"))
	if !IsDomainError(err, ErrCodeNotFound) {
		t.Fatal("expected NOT_FOUND through wrapping")
	}
	if StatusOf(err) != 404 {
		t.Fatalf("StatusOf = %d, want 404", StatusOf(err))
	}
	if StatusOf(errors.New("plain")) != 0 {
		t.Fatal("plain errors have no status")
	}
	copyOf := *ErrNoSession
	if !errors.Is(&copyOf, ErrNoSession) {
		t.Fatal("copies of sentinels should match with errors.Is")
	}
}
