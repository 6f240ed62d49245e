package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"file too large", &IOError{FileName: "a.csv", Err: ErrFileTooLarge}, "FILE001"},
		{"empty file", &IOError{FileName: "a.csv", Err: ErrEmptyFile}, "FILE002"},
		{"read failure", &IOError{FileName: "a.csv", Err: errors.New("permission denied")}, "FILE004"},
		{"json format", &FormatError{Format: FormatJSON, Reason: "array is empty"}, "FMT001"},
		{"forced encoding", fmt.Errorf("%w: %q", ErrUnknownEncoding, "ebcdic"), "FMT002"},
		{"mapping override", fmt.Errorf("%w: unknown column", ErrInvalidMapping), "MAP001"},
		{"limiter busy", ErrTooManyImports, "IMP001"},
		{"cancelled", fmt.Errorf("list articles: %w", context.Canceled), "IMP002"},
		{"deadline before generic timeout", fmt.Errorf("create articles: %w", context.DeadlineExceeded), "IMP003"},
		{"duplicate key", errors.New("ERROR: duplicate key value violates unique constraint"), "DB001"},
		{"foreign key", errors.New("insert or update on table violates foreign key constraint"), "DB002"},
		{"connection refused", errors.New("dial tcp: connection refused"), "DB003"},
		{"case insensitive", errors.New("DEADLOCK detected"), "DB006"},
		{"unknown error", errors.New("some random internal error"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapError(tt.err); got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrTooManyImports)
	want := "Another import is currently running (Code: IMP001). Please wait a moment and try again"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrFileTooLarge, true},
		{errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		if got := IsUserFacing(tt.err); got != tt.want {
			t.Errorf("IsUserFacing(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
