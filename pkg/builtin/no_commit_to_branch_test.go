package builtin

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/nrook/prek/pkg/git"
)

func setupBranchTestRepo(t *testing.T, branchName string) string {
	t.Helper()
	dir := t.TempDir()

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if err := cmd.Run(); err != nil {
			if exec.Command("git", "--version").Run() != nil {
				t.Skip("git not available, skipping git integration test")
			}
			t.Fatalf("git %v: %v", args, err)
		}
	}

	run("init", "--initial-branch="+branchName)
	run("config", "user.name", "Test User")
	run("config", "user.email", "test@example.com")
	run("config", "commit.gpgsign", "false")

	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, []byte("hello"), 0o600); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}
	run("add", ".")
	run("commit", "-m", "initial commit")

	return dir
}

func TestNoCommitToBranch_ProtectedByDefault(t *testing.T) {
	dir := setupBranchTestRepo(t, "main")
	repo, err := git.NewRepository(dir)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	exitCode, output := NoCommitToBranch(repo, nil, nil)
	if exitCode != 1 {
		t.Fatalf("exitCode = %d, want 1; output: %s", exitCode, output)
	}
}

func TestNoCommitToBranch_Unprotected(t *testing.T) {
	dir := setupBranchTestRepo(t, "feature/my-change")
	repo, err := git.NewRepository(dir)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	exitCode, _ := NoCommitToBranch(repo, nil, nil)
	if exitCode != 0 {
		t.Errorf("exitCode = %d, want 0", exitCode)
	}
}

func TestNoCommitToBranch_CustomBranches(t *testing.T) {
	dir := setupBranchTestRepo(t, "release")
	repo, err := git.NewRepository(dir)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	exitCode, _ := NoCommitToBranch(repo, []string{"release"}, nil)
	if exitCode != 1 {
		t.Errorf("exitCode = %d, want 1", exitCode)
	}
}

func TestNoCommitToBranch_Pattern(t *testing.T) {
	dir := setupBranchTestRepo(t, "release/1.0")
	repo, err := git.NewRepository(dir)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	exitCode, _ := NoCommitToBranch(repo, nil, []string{`^release/.*`})
	if exitCode != 1 {
		t.Errorf("exitCode = %d, want 1", exitCode)
	}
}
