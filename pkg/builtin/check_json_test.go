package builtin

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestCheckJSON(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		content   string
		wantFail  bool
		checkText string
	}{
		{"valid object", `{"a": 1, "b": 2}`, false, ""},
		{"valid nested", `{"a": {"b": {"c": 1}}}`, false, ""},
		{"valid array", `[1, 2, {"a": 1}]`, false, ""},
		{"duplicate top-level key", `{"a": 1, "a": 2}`, true, `duplicate key "a"`},
		{"duplicate nested key", `{"a": {"b": 1, "b": 2}}`, true, `duplicate key "b"`},
		{"duplicate key inside array element", `[{"x": 1}, {"y": 1, "y": 2}]`, true, `duplicate key "y"`},
		{"malformed json", `{"a": }`, true, ""},
		{"trailing garbage", `{"a": 1}garbage`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, dir, tt.name+".json", tt.content)
			exitCode, output := CheckJSON([]string{path})

			if tt.wantFail && exitCode == 0 {
				t.Errorf("expected failure, got exit 0")
			}
			if !tt.wantFail && exitCode != 0 {
				t.Errorf("expected success, got exit %d with output %q", exitCode, output)
			}
			if tt.checkText != "" && !strings.Contains(output, tt.checkText) {
				t.Errorf("output %q does not contain %q", output, tt.checkText)
			}
		})
	}
}
