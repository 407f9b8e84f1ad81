package convert_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reel/internal/convert"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := convert.Wrap(convert.ErrBackend, "mux", "write failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, convert.ErrBackend) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"mux", "write failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutBaseError(t *testing.T) {
	err := convert.Wrap(convert.ErrInvalidJob, "new job", "source path is empty", nil)
	if !errors.Is(err, convert.ErrInvalidJob) {
		t.Fatalf("expected invalid job marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "source path is empty") {
		t.Fatalf("expected message in error string %q", err.Error())
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want convert.ErrorKind
	}{
		{name: "nil", err: nil, want: convert.KindNone},
		{name: "cancelled", err: convert.Wrap(convert.ErrCancelled, "run", "stopped", nil), want: convert.KindCancelled},
		{name: "context cancel", err: context.Canceled, want: convert.KindCancelled},
		{name: "already running", err: convert.ErrAlreadyRunning, want: convert.KindAlreadyRunning},
		{name: "invalid job", err: convert.Wrap(convert.ErrInvalidJob, "new job", "missing", nil), want: convert.KindInvalidJob},
		{name: "detection", err: convert.Wrap(convert.ErrDetection, "probe", "timed out", nil), want: convert.KindDetection},
		{name: "unclassified", err: errors.New("disk full"), want: convert.KindBackendFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := convert.Classify(tc.err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestErrorKindLabels(t *testing.T) {
	if got := convert.KindBackendFailure.Label(); got != "Backend failure" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := convert.KindNone.Label(); got != "" {
		t.Fatalf("expected empty label for none, got %q", got)
	}
}
