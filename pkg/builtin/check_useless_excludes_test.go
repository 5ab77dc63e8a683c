package builtin

import (
	"strings"
	"testing"
)

func TestCheckUselessExcludes(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempFile(t, dir, ".pre-commit-config.yaml", `
exclude: '^vendor/'
repos:
  - repo: local
    hooks:
      - id: useful-exclude
        entry: true
        language: system
        files: '\.py$'
        exclude: '_test\.py$'
      - id: useless-exclude
        entry: true
        language: system
        files: '\.py$'
        exclude: '\.nonexistent$'
      - id: always-useful-marker
        entry: true
        language: system
        files: '\.py$'
        exclude: '^$'
`)

	allFiles := []string{"a.py", "a_test.py", "b.py"}

	exitCode, output := CheckUselessExcludes([]string{configPath}, allFiles)

	if exitCode != 1 {
		t.Fatalf("exitCode = %d, want 1; output: %s", exitCode, output)
	}
	if !strings.Contains(output, "useless-exclude") {
		t.Errorf("expected output to mention useless-exclude, got %q", output)
	}
	if strings.Contains(output, "useful-exclude's") {
		t.Errorf("useful-exclude should not be reported, got %q", output)
	}
	if strings.Contains(output, "always-useful-marker") {
		t.Errorf("^$ exclude should be exempt, got %q", output)
	}
}

func TestCheckUselessExcludes_TopLevelUseless(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempFile(t, dir, ".pre-commit-config.yaml", `
exclude: '\.nonexistent$'
repos:
  - repo: local
    hooks:
      - id: some-hook
        entry: true
        language: system
        files: '\.py$'
`)

	exitCode, output := CheckUselessExcludes([]string{configPath}, []string{"a.py"})
	if exitCode != 1 {
		t.Fatalf("exitCode = %d, want 1; output: %s", exitCode, output)
	}
	if !strings.Contains(output, "top-level exclude") {
		t.Errorf("expected output to mention top-level exclude, got %q", output)
	}
}

func TestCheckUselessExcludes_AllUseful(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempFile(t, dir, ".pre-commit-config.yaml", `
repos:
  - repo: local
    hooks:
      - id: some-hook
        entry: true
        language: system
        files: '\.py$'
        exclude: '_test\.py$'
`)

	exitCode, output := CheckUselessExcludes([]string{configPath}, []string{"a.py", "a_test.py"})
	if exitCode != 0 {
		t.Errorf("exitCode = %d, want 0; output: %s", exitCode, output)
	}
}
