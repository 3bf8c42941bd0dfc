package apps

import (
	"testing"

	"github.com/axlocate/axlocate/internal/axerr"
)

func TestOpen_EmptyName(t *testing.T) {
	err := Open("")
	if !axerr.IsKind(err, axerr.InvalidArgument) {
		t.Errorf("kind = %v, want InvalidArgument", axerr.KindOf(err))
	}
}

func TestOpenURL_EmptyURL(t *testing.T) {
	err := OpenURL("", "")
	if !axerr.IsKind(err, axerr.InvalidArgument) {
		t.Errorf("kind = %v, want InvalidArgument", axerr.KindOf(err))
	}
}

func TestFindProcess_EmptyName(t *testing.T) {
	_, err := FindProcess("  ")
	if !axerr.IsKind(err, axerr.InvalidArgument) {
		t.Errorf("kind = %v, want InvalidArgument", axerr.KindOf(err))
	}
}

func TestNormalizeProcName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Calculator.exe", "calculator"},
		{"Calculator.app", "calculator"},
		{" CALC ", "calc"},
		{"calc", "calc"},
	}
	for _, c := range cases {
		if got := normalizeProcName(c.in); got != c.want {
			t.Errorf("normalizeProcName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
