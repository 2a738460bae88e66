package core

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "bad password", err: errors.New(`FATAL: password authentication failed for user "bob" (SQLSTATE 28P01)`), wantCode: "DB001"},
		{name: "connection refused", err: errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), wantCode: "DB002"},
		{name: "unknown host", err: errors.New("dial tcp: lookup nohost: no such host"), wantCode: "DB003"},
		{name: "dial timeout", err: errors.New("dial tcp 10.0.0.1:5432: i/o timeout"), wantCode: "DB004"},
		{name: "missing column", err: errors.New(`column "zip" of relation "people" does not exist`), wantCode: "DB010"},
		{name: "duplicate column", err: errors.New(`column "a" specified more than once`), wantCode: "DB011"},
		{name: "type mismatch", err: errors.New(`invalid input syntax for type bigint: "x"`), wantCode: "DB012"},
		{name: "numeric overflow", err: errors.New("value out of range for type integer"), wantCode: "DB013"},
		{name: "missing database", err: errors.New(`database "nope" does not exist`), wantCode: "DB005"},
		{name: "invalid file type", err: ErrInvalidFileType, wantCode: "FILE001"},
		{name: "empty file", err: newLoadError(ErrorEmptyInput, ErrEmptyDataset), wantCode: "FILE002"},
		{name: "body too large", err: errors.New("http: request body too large"), wantCode: "FILE003"},
		{name: "no files", err: errors.New("No files selected"), wantCode: "FILE004"},
		{name: "csv parse", err: errors.New(`parse error on line 3, column 5: bare " in non-quoted-field`), wantCode: "FILE005"},
		{name: "empty identifier", err: ErrEmptyIdentifier, wantCode: "VAL001"},
		{name: "busy", err: ErrTooManyBatches, wantCode: "UPL001"},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: "UPL003"},
		{name: "rate limit", err: errors.New("rate limit exceeded"), wantCode: "RATE001"},
		{name: "unknown error returns default", err: errors.New("something completely unexpected"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Action == "" {
				t.Errorf("MapError(%v).Action is empty", tt.err)
			}
		})
	}
}

func TestMapError_CaseInsensitive(t *testing.T) {
	for _, s := range []string{"CONNECTION REFUSED", "Connection Refused", "connection refused"} {
		if got := MapError(errors.New(s)).Code; got != "DB002" {
			t.Errorf("MapError(%q).Code = %q, want DB002", s, got)
		}
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(errors.New("connection refused"))
	if !strings.Contains(got, "(Code: DB002)") {
		t.Errorf("FormatUserError missing code: %q", got)
	}
	if !strings.HasPrefix(got, "Unable to connect to database") {
		t.Errorf("FormatUserError missing message: %q", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if !IsUserFacing(ErrInvalidFileType) {
		t.Error("invalid file type should be user facing")
	}
	if IsUserFacing(errors.New("xyz")) {
		t.Error("unknown error should not be user facing")
	}
}
