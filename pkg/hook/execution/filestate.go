package execution

import (
	"crypto/sha256"
	"io"
	"os"
)

// FileState is a snapshot of a file's on-disk identity, taken before and
// after a hook runs. Two snapshots are compared by size first (the
// cheapest signal), then by content hash when size is unchanged but
// mtime moved — some tools rewrite a file byte-identically, bumping its
// mtime without actually changing its bytes, and size+mtime alone would
// misreport that as a modification.
type FileState struct {
	ModTimeUnixNano int64
	Size            int64
	Hash            [sha256.Size]byte
	Exists          bool
}

// SnapshotFiles stats and hashes each file's current contents. Files
// that cannot be statted (already deleted, permission denied) are
// recorded as non-existent rather than omitted, so a hook that deletes
// or creates a file is still detected as a modification.
func SnapshotFiles(files []string) map[string]FileState {
	snapshot := make(map[string]FileState, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil || info.IsDir() {
			snapshot[f] = FileState{}
			continue
		}

		state := FileState{
			Exists:          true,
			ModTimeUnixNano: info.ModTime().UnixNano(),
			Size:            info.Size(),
		}
		if hash, ok := hashFile(f); ok {
			state.Hash = hash
		}
		snapshot[f] = state
	}
	return snapshot
}

func hashFile(path string) ([sha256.Size]byte, bool) {
	var sum [sha256.Size]byte
	f, err := os.Open(path) //nolint:gosec // path comes from the hook's own file list
	if err != nil {
		return sum, false
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return sum, false
	}
	copy(sum[:], h.Sum(nil))
	return sum, true
}

// ModifiedFiles compares two snapshots of the same file list, keyed by
// path, and returns the subset that changed.
func ModifiedFiles(before, after map[string]FileState) []string {
	var modified []string
	for path, b := range before {
		a, ok := after[path]
		if !ok || fileChanged(b, a) {
			modified = append(modified, path)
		}
	}
	return modified
}

func fileChanged(before, after FileState) bool {
	if before.Exists != after.Exists {
		return true
	}
	if !before.Exists {
		return false
	}
	if before.Size != after.Size {
		return true
	}
	if before.ModTimeUnixNano == after.ModTimeUnixNano {
		return false
	}
	return before.Hash != after.Hash
}
