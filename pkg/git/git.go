// Package git provides Git repository operations for pre-commit hooks.
//
// Operations shell out to the `git` binary (and, where available, `jj`)
// rather than linking a Git implementation: the engine needs the exact
// exit-code and stderr shape a real `git` subprocess produces, and it must
// keep working against whatever on-disk git version the user has installed.
package git

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Repository represents a git repository rooted at Root.
type Repository struct {
	Root       string
	useJJ      bool
	jjResolved bool
}

// NewRepository creates a new Repository instance, discovering the git root
// from path (or the current directory when path is empty).
func NewRepository(path string) (*Repository, error) {
	root, err := FindGitRoot(path)
	if err != nil {
		return nil, err
	}

	return &Repository{Root: root}, nil
}

// FindGitRoot finds the root of the git repository containing path.
func FindGitRoot(path string) (string, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		gitDir := filepath.Join(path, ".git")
		if info, err := os.Stat(gitDir); err == nil {
			if info.IsDir() {
				return path, nil
			}
			// Handle git worktrees (where .git is a file)
			// #nosec G304 -- reading git metadata
			if content, err := os.ReadFile(gitDir); err == nil {
				line := strings.TrimSpace(string(content))
				if strings.HasPrefix(line, "gitdir: ") {
					return path, nil
				}
			}
		}

		parent := filepath.Dir(path)
		if parent == path {
			return "", fmt.Errorf("not in a git repository")
		}
		path = parent
	}
}

// IsInRepository checks if the current directory is inside a git repository.
func IsInRepository() bool {
	_, err := FindGitRoot("")
	return err == nil
}

// run executes `git <args...>` in the repository root and returns combined
// stdout+stderr and the raw error (including *exec.ExitError), so callers
// can surface the child's exit code verbatim per the adapter contract.
func (r *Repository) run(args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Root
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// output executes `git <args...>` and returns only stdout, trimmed.
func (r *Repository) output(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Root
	out, err := cmd.Output()
	if err != nil {
		return "", wrapGitError(args, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func wrapGitError(args []string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("git %s: exit %d: %s", strings.Join(args, " "), exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
	}
	return fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
}

func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// GetStagedFiles returns the list of staged files (added/modified/copied/renamed).
func (r *Repository) GetStagedFiles() ([]string, error) {
	out, err := r.output("diff", "--name-only", "--cached", "--diff-filter=ACMR")
	if err != nil {
		return nil, fmt.Errorf("failed to get staged files: %w", err)
	}
	return splitLines(out), nil
}

// GetAllFiles returns all files tracked by git (`git ls-files`).
func (r *Repository) GetAllFiles() ([]string, error) {
	out, err := r.output("ls-files")
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return splitLines(out), nil
}

// GetChangedFiles returns files changed between two refs.
func (r *Repository) GetChangedFiles(fromRef, toRef string) ([]string, error) {
	out, err := r.output("diff", "--name-only", "--diff-filter=ACM", fromRef, toRef)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s..%s: %w", fromRef, toRef, err)
	}
	return splitLines(out), nil
}

// GetUnstagedFiles returns files with working-tree modifications or untracked files.
func (r *Repository) GetUnstagedFiles() ([]string, error) {
	out, err := r.output("diff", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("failed to get unstaged files: %w", err)
	}
	files := splitLines(out)

	untracked, err := r.output("ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("failed to list untracked files: %w", err)
	}
	files = append(files, splitLines(untracked)...)
	return files, nil
}

// GetCommitFiles returns the files touched by a single commit.
func (r *Repository) GetCommitFiles(commitRef string) ([]string, error) {
	out, err := r.output("show", "--name-only", "--pretty=format:", commitRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get files for commit %s: %w", commitRef, err)
	}
	return splitLines(out), nil
}

// GetPushFiles returns files differing between a local and remote branch,
// falling back to all tracked files if the remote branch does not exist.
func (r *Repository) GetPushFiles(localBranch, remoteBranch string) ([]string, error) {
	if _, err := r.output("rev-parse", "--verify", remoteBranch); err != nil {
		return r.GetAllFiles()
	}
	out, err := r.output("diff", "--name-only", remoteBranch, localBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s..%s: %w", remoteBranch, localBranch, err)
	}
	return splitLines(out), nil
}

// GetCurrentBranch returns the current branch's short name.
func (r *Repository) GetCurrentBranch() (string, error) {
	out, err := r.output("symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("HEAD is not pointing to a branch: %w", err)
	}
	return out, nil
}

// GetRemoteURL returns the URL configured for a remote.
func (r *Repository) GetRemoteURL(remoteName string) (string, error) {
	out, err := r.output("remote", "get-url", remoteName)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", remoteName, err)
	}
	return out, nil
}

// InstallHook installs a git hook script.
func (r *Repository) InstallHook(hookName, script string) error {
	hooksDir := filepath.Join(r.Root, ".git", "hooks")
	if err := os.MkdirAll(hooksDir, 0o750); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}

	hookPath := filepath.Join(hooksDir, hookName)
	if err := os.WriteFile(hookPath, []byte(script), 0o600); err != nil {
		return fmt.Errorf("failed to write hook file: %w", err)
	}

	// #nosec G302 - Hook scripts need to be executable
	if err := os.Chmod(hookPath, 0o700); err != nil {
		return fmt.Errorf("failed to make hook executable: %w", err)
	}

	return nil
}

// UninstallHook removes a git hook.
func (r *Repository) UninstallHook(hookName string) error {
	hookPath := filepath.Join(r.Root, ".git", "hooks", hookName)
	if err := os.Remove(hookPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove hook: %w", err)
	}
	return nil
}

// HasHook checks if a hook is installed.
func (r *Repository) HasHook(hookName string) bool {
	hookPath := filepath.Join(r.Root, ".git", "hooks", hookName)
	_, err := os.Stat(hookPath)
	return err == nil
}

// GetModifiedFiles returns files with any staged or unstaged change.
func (r *Repository) GetModifiedFiles() ([]string, error) {
	staged, err := r.GetStagedFiles()
	if err != nil {
		return nil, err
	}
	unstaged, err := r.GetUnstagedFiles()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(staged)+len(unstaged))
	var files []string
	for _, f := range append(staged, unstaged...) {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	return files, nil
}

// CheckFileModifications reports whether any of the given files differ
// between the working tree and the index.
func (r *Repository) CheckFileModifications(files []string) (bool, error) {
	if len(files) == 0 {
		return false, nil
	}

	args := append([]string{"diff", "--quiet", "--", }, files...)
	_, err := r.run(args...)
	if err == nil {
		return false, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, fmt.Errorf("failed to check file modifications: %w", err)
}

// GetDiffOutput returns the unified diff for the given files between HEAD
// and the working tree.
func (r *Repository) GetDiffOutput(files []string) (string, error) {
	if len(files) == 0 {
		return "", nil
	}

	args := append([]string{"diff", "HEAD", "--"}, files...)
	out, err := r.output(args...)
	if err != nil {
		return "", fmt.Errorf("failed to get diff output: %w", err)
	}
	if out == "" {
		return "No differences detected", nil
	}
	return out, nil
}

// HasUnmergedFiles checks for files left in a conflicted merge state.
func (r *Repository) HasUnmergedFiles() bool {
	out, err := r.output("diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return false
	}
	return out != ""
}

// HasUnstagedChangesForFile checks if a specific file has unstaged changes.
func (r *Repository) HasUnstagedChangesForFile(filePath string) bool {
	_, err := r.run("diff", "--quiet", "--", filePath)
	if err == nil {
		return false
	}
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == 1
}

// GetStagedFileContent returns the content of a file as recorded in the index.
func (r *Repository) GetStagedFileContent(filePath string) ([]byte, error) {
	cmd := exec.Command("git", "show", ":"+filePath)
	cmd.Dir = r.Root
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to read staged content for %s: %w", filePath, err)
	}
	return out, nil
}

// RevParse resolves a reference to a commit hash. It returns ("", nil) when
// the reference cannot be resolved, distinguishing "unknown ref" from a
// transport/IO failure.
func (r *Repository) RevParse(ref string) (string, error) {
	out, err := r.output("rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", nil //nolint:nilerr // unresolved ref is a valid ("", nil) outcome, not a failure
	}
	return out, nil
}

// RevParseHead returns the commit hash HEAD points at.
func (r *Repository) RevParseHead() (string, error) {
	return r.output("rev-parse", "HEAD")
}

// SymbolicRefHead returns the branch HEAD points at, or an error if detached.
func (r *Repository) SymbolicRefHead() (string, error) {
	return r.GetCurrentBranch()
}

// DiffNameOnly lists files changed in the working tree relative to HEAD.
func (r *Repository) DiffNameOnly() ([]string, error) {
	out, err := r.output("diff", "--name-only", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to diff against HEAD: %w", err)
	}
	return splitLines(out), nil
}

// TagTimestamp pairs a tag name with its commit's author/committer date.
type TagTimestamp struct {
	Tag       string
	Timestamp int64
}

// ListTagsWithTimestamps lists all tags in the repository sorted newest-first.
func (r *Repository) ListTagsWithTimestamps() ([]TagTimestamp, error) {
	out, err := r.output("for-each-ref", "--format=%(refname:short) %(creatordate:unix)", "refs/tags")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var tags []TagTimestamp
	for _, line := range splitLines(out) {
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}
		ts, parseErr := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if parseErr != nil {
			continue
		}
		tags = append(tags, TagTimestamp{Tag: parts[0], Timestamp: ts})
	}

	sortTagsNewestFirst(tags)
	return tags, nil
}

func sortTagsNewestFirst(tags []TagTimestamp) {
	for i := 1; i < len(tags); i++ {
		for j := i; j > 0 && tags[j-1].Timestamp < tags[j].Timestamp; j-- {
			tags[j-1], tags[j] = tags[j], tags[j-1]
		}
	}
}

// FindEligibleTag returns the newest tag whose commit is at least
// cooldownDays old, preferring SemVer-looking tags among ties on age.
// If nothing qualifies, currentRev is returned unchanged.
func FindEligibleTag(tags []TagTimestamp, currentRev string, cooldownDays int, now time.Time) string {
	cutoff := now.Add(-time.Duration(cooldownDays) * 24 * time.Hour).Unix()

	var best *TagTimestamp
	for i := range tags {
		t := &tags[i]
		if t.Timestamp > cutoff {
			continue
		}
		if best == nil {
			best = t
			continue
		}
		if t.Timestamp == best.Timestamp && looksLikeSemver(t.Tag) && !looksLikeSemver(best.Tag) {
			best = t
		}
	}

	if best == nil {
		return currentRev
	}
	return best.Tag
}

func looksLikeSemver(tag string) bool {
	s := strings.TrimPrefix(tag, "v")
	parts := strings.SplitN(s, ".", 3)
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		for _, c := range p {
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	return true
}
