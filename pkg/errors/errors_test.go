package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestError_Format(t *testing.T) {
	err := New(ErrCodeLayoutFailed, "tree layout on %d nodes", 7)
	want := "LAYOUT_FAILED: tree layout on 7 nodes"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeInternal, cause, "while converting")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
	if GetCode(err) != ErrCodeInternal {
		t.Errorf("GetCode() = %q, want INTERNAL_ERROR", GetCode(err))
	}
}

func TestIs_MatchesThroughWrapping(t *testing.T) {
	inner := New(ErrCodeTimeout, "layout timed out")
	outer := fmt.Errorf("running pipeline: %w", inner)

	if !Is(outer, ErrCodeTimeout) {
		t.Error("Is() should find the code through fmt.Errorf wrapping")
	}
	if Is(outer, ErrCodeNotFound) {
		t.Error("Is() matched the wrong code")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidFormat, "bad format")); got != "bad format" {
		t.Errorf("UserMessage() = %q, want message without code", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q, want plain", got)
	}
}
