package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{"invalid argument", InvalidArgument("kernel size %d must be odd", 4), "invalid_argument: kernel size 4 must be odd"},
		{"not found", NotFound("asset %d", 3), "not_found: asset 3"},
		{"io failure with cause", IOFailure("failed to decode image", fmt.Errorf("bad header")), "io_failure: failed to decode image (caused by: bad header)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsType_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading asset: %w", NotFound("asset %d", 7))
	if !IsType(err, ErrorTypeNotFound) {
		t.Error("IsType should see through fmt.Errorf wrapping")
	}
	if IsType(err, ErrorTypeIOFailure) {
		t.Error("IsType matched the wrong type")
	}
	if IsType(errors.New("plain"), ErrorTypeNotFound) {
		t.Error("IsType matched a plain error")
	}
}

func TestErrCancelled_Is(t *testing.T) {
	err := fmt.Errorf("capture: %w", Cancelled(context.Canceled))
	if !errors.Is(err, ErrCancelled) {
		t.Error("errors.Is(err, ErrCancelled) should hold for any cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("cause should stay reachable through Unwrap")
	}
	if errors.Is(InvalidArgument("x"), ErrCancelled) {
		t.Error("invalid argument must not match ErrCancelled")
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf(IOFailure("x", nil)); got != ErrorTypeIOFailure {
		t.Errorf("TypeOf = %q, want %q", got, ErrorTypeIOFailure)
	}
	if got := TypeOf(errors.New("plain")); got != "" {
		t.Errorf("TypeOf(plain) = %q, want empty", got)
	}
}
