package service

import (
	"errors"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "message", Message: "cannot be empty"}

	if got, want := err.Error(), "validation error on field message: cannot be empty"; got != want {
		t.Errorf("ValidationError.Error() = %v, want %v", got, want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
	if errors.Is(err, ErrExternalService) {
		t.Error("ValidationError should not match ErrExternalService")
	}

	wrapped := WrapError(err, "chat")
	var validationErr *ValidationError
	if !errors.As(wrapped, &validationErr) || validationErr.Field != "message" {
		t.Errorf("errors.As() should find the ValidationError in %v", wrapped)
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		msg     string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "nil error",
			err:     nil,
			msg:     "context",
			wantNil: true,
		},
		{
			name:    "wrapped error",
			err:     errors.New("original error"),
			msg:     "context",
			wantMsg: "context: original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapError(tt.err, tt.msg)
			if tt.wantNil {
				if got != nil {
					t.Errorf("WrapError() = %v, want nil", got)
				}
				return
			}
			if got == nil || got.Error() != tt.wantMsg {
				t.Fatalf("WrapError() = %v, want %v", got, tt.wantMsg)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("WrapError() should wrap original error")
			}
		})
	}
}

func TestExternalError(t *testing.T) {
	if ExternalError(nil, "llm") != nil {
		t.Error("ExternalError(nil) should be nil")
	}

	cause := errors.New("connection refused")
	err := ExternalError(cause, "failed to get LLM response")

	if got, want := err.Error(), "failed to get LLM response: external service error: connection refused"; got != want {
		t.Errorf("ExternalError() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrExternalService) {
		t.Error("ExternalError() should match ErrExternalService")
	}
	if !errors.Is(err, cause) {
		t.Error("ExternalError() should match the cause")
	}
}
