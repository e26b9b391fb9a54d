package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// UpdateGoldenEnv rewrites golden files instead of comparing when set.
const UpdateGoldenEnv = "TASKDECK_UPDATE_GOLDEN"

// Golden compares got against testdata/<name>.golden.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if os.Getenv(UpdateGoldenEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("create testdata: %v", err)
		}
		if err := os.WriteFile(path, got, 0644); err != nil {
			t.Fatalf("update %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v (set %s=1 to create it)\ngot:\n%s", path, err, UpdateGoldenEnv, got)
	}
	if bytes.Equal(got, want) {
		return
	}

	line, w, g := firstDiff(want, got)
	t.Errorf("%s differs at line %d\nwant: %q\n got: %q\n\nfull output:\n%s", path, line, w, g, got)
}

// firstDiff returns the 1-based number of the first line that differs and
// both versions of it.
func firstDiff(want, got []byte) (int, string, string) {
	wl := bytes.Split(want, []byte("\n"))
	gl := bytes.Split(got, []byte("\n"))
	for i := 0; i < max(len(wl), len(gl)); i++ {
		var w, g []byte
		if i < len(wl) {
			w = wl[i]
		}
		if i < len(gl) {
			g = gl[i]
		}
		if i >= len(wl) || i >= len(gl) || !bytes.Equal(w, g) {
			return i + 1, string(w), string(g)
		}
	}
	return 0, "", ""
}
