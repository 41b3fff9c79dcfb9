package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrap(t *testing.T) {
	internal := fmt.Errorf("connection refused")
	err := Wrap(ErrInternalServer, internal)

	if err.Code != "INTERNAL_ERROR" {
		t.Errorf("expected code INTERNAL_ERROR, got %s", err.Code)
	}
	if !stderrors.Is(err, internal) {
		t.Error("expected wrapped error to unwrap to the internal error")
	}
	if !stderrors.Is(err, ErrInternalServer) {
		t.Error("expected wrapped error to match its sentinel")
	}
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrBookNotFound, "book 42 not found")

	if err.Message != "book 42 not found" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.StatusCode)
	}
	if ErrBookNotFound.Message != "Book not found" {
		t.Error("sentinel must not be mutated")
	}
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"book", ErrBookNotFound, true},
		{"transaction", WithMessage(ErrTransactionNotFound, "gone"), true},
		{"constraint", ErrNegativeAmount, false},
		{"plain", fmt.Errorf("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsNotFound(tc.err); got != tc.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConstraintViolationsShareCode(t *testing.T) {
	for _, err := range []*AppError{ErrInvalidDirection, ErrNegativeAmount, ErrInvalidDate} {
		if !stderrors.Is(err, ErrConstraintViolation) {
			t.Errorf("%q should match ErrConstraintViolation", err.Message)
		}
	}
}
