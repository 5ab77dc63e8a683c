package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew_NilErrReturnsNil(t *testing.T) {
	if got := New(ConfigInvalid, "op", nil); got != nil {
		t.Errorf("New with nil err = %v, want nil", got)
	}
}

func TestIs(t *testing.T) {
	base := errors.New("boom")
	wrapped := New(CloneFailed, "clone", base)

	if !Is(wrapped, CloneFailed) {
		t.Error("expected Is(wrapped, CloneFailed) to be true")
	}
	if Is(wrapped, Network) {
		t.Error("expected Is(wrapped, Network) to be false")
	}
	if Is(base, CloneFailed) {
		t.Error("expected Is(base, CloneFailed) to be false for an unwrapped error")
	}
}

func TestIs_ThroughFmtWrap(t *testing.T) {
	base := errors.New("boom")
	wrapped := New(Network, "fetch", base)
	doubleWrapped := fmt.Errorf("outer context: %w", wrapped)

	if !Is(doubleWrapped, Network) {
		t.Error("expected Is to see through an additional fmt.Errorf wrap")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(nil); got != Unknown {
		t.Errorf("KindOf(nil) = %v, want Unknown", got)
	}
	if got := KindOf(errors.New("plain")); got != Unknown {
		t.Errorf("KindOf(plain error) = %v, want Unknown", got)
	}
	if got := KindOf(New(LockFailed, "lock", errors.New("x"))); got != LockFailed {
		t.Errorf("KindOf = %v, want LockFailed", got)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, 0},
		{"cancelled", New(Cancelled, "run", errors.New("x")), 130},
		{"config invalid", New(ConfigInvalid, "load", errors.New("x")), 2},
		{"manifest missing", New(ManifestMissing, "load", errors.New("x")), 2},
		{"clone failed", New(CloneFailed, "clone", errors.New("x")), 1},
		{"plain error", errors.New("unwrapped"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	err := New(HookSpawnFailed, "spawn hook", errors.New("exec: not found"))
	got := err.Error()
	want := "spawn hook: hook spawn failed: exec: not found"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	noOp := New(IO, "", errors.New("disk full"))
	if noOp.Error() != "io error: disk full" {
		t.Errorf("Error() without Op = %q, want %q", noOp.Error(), "io error: disk full")
	}
}
