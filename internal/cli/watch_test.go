package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Dicklesworthstone/alignr/internal/align"
)

func TestWatchRunnerAlignsInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("ab\\\n"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	opts := align.DefaultOptions()
	opts.TargetColumn = 10
	runner := &watchRunner{path: path, suffix: ".bak", opts: opts}

	st, _, skipped, err := runner.run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if skipped {
		t.Fatal("first run should not be skipped")
	}
	if st.Aligned != 1 {
		t.Errorf("aligned = %d, want 1", st.Aligned)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if string(got) != "ab       \\\n" {
		t.Errorf("file = %q, want aligned content", got)
	}
}

func TestWatchRunnerSkipsOwnRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("ab\\\n"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	opts := align.DefaultOptions()
	opts.TargetColumn = 10
	runner := &watchRunner{path: path, suffix: ".bak", opts: opts}

	if _, _, _, err := runner.run(); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// The file now matches the recorded modtime and size: the event our
	// own rewrite caused must not trigger another rewrite.
	_, _, skipped, err := runner.run()
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !skipped {
		t.Error("second run should be skipped")
	}
}

func TestWatchRunnerRunsAgainAfterRealChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("ab\\\n"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	opts := align.DefaultOptions()
	opts.TargetColumn = 10
	runner := &watchRunner{path: path, suffix: ".bak", opts: opts}

	if _, _, _, err := runner.run(); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// A real edit: different size, so it runs even if the filesystem
	// granularity hides the modtime difference.
	if err := os.WriteFile(path, []byte("cdef\\\n"), 0644); err != nil {
		t.Fatalf("editing file: %v", err)
	}

	st, _, skipped, err := runner.run()
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if skipped {
		t.Fatal("edit should not be skipped")
	}
	if st.Aligned != 1 {
		t.Errorf("aligned = %d, want 1", st.Aligned)
	}
}

func TestWatchRunnerMissingFile(t *testing.T) {
	runner := &watchRunner{
		path:   filepath.Join(t.TempDir(), "gone.txt"),
		suffix: ".bak",
		opts:   align.DefaultOptions(),
	}
	if _, _, _, err := runner.run(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWatchCommandRequiresExistingFile(t *testing.T) {
	_, _, err := execRoot(t, "", "watch", filepath.Join(t.TempDir(), "gone.txt"))
	if err == nil {
		t.Fatal("expected error for missing watch target")
	}
}
