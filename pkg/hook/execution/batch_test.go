package execution

import (
	"strings"
	"testing"
)

func TestBatchFiles(t *testing.T) {
	t.Run("empty input yields one empty batch", func(t *testing.T) {
		batches := BatchFiles(nil)
		if len(batches) != 1 || len(batches[0]) != 0 {
			t.Fatalf("got %v, want one empty batch", batches)
		}
	})

	t.Run("small list fits in one batch", func(t *testing.T) {
		files := []string{"a.py", "b.py", "c.py"}
		batches := BatchFiles(files)
		if len(batches) != 1 {
			t.Fatalf("got %d batches, want 1", len(batches))
		}
		if len(batches[0]) != 3 {
			t.Errorf("got %d files in batch, want 3", len(batches[0]))
		}
	})

	t.Run("large list splits across batches", func(t *testing.T) {
		longName := strings.Repeat("x", 1000) + ".py"
		files := make([]string, 300)
		for i := range files {
			files[i] = longName
		}
		batches := BatchFiles(files)
		if len(batches) < 2 {
			t.Fatalf("got %d batches, want at least 2", len(batches))
		}

		total := 0
		for _, b := range batches {
			total += len(b)
		}
		if total != len(files) {
			t.Errorf("got %d total files across batches, want %d", total, len(files))
		}
	})
}
