package repository

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/nrook/prek/pkg/cache"
	"github.com/nrook/prek/pkg/config"
)

// Operations handles Git repository cloning and updating operations
type Operations struct {
	cacheManager *cache.Manager
}

// NewRepositoryOperations creates a new repository operations handler
func NewRepositoryOperations(cacheManager *cache.Manager) *Operations {
	return &Operations{
		cacheManager: cacheManager,
	}
}

// CloneOrUpdateRepo ensures a repository is cloned and at the correct revision
func (ops *Operations) CloneOrUpdateRepo(ctx context.Context, repo config.Repo) (string, error) {
	//nolint:contextcheck // Cache operations are local and don't need context cancellation
	repoPath := ops.cacheManager.GetRepoPath(repo)

	// A repo dir only counts as usable once the store's marker confirms it
	// was fully cloned for this exact (url, rev); anything else (missing,
	// partial, stale) goes through the locked clone path.
	if ops.cacheManager.RepoComplete(repoPath, repo) {
		if err := ops.updateRepo(repoPath, repo.Rev); err != nil {
			// If update fails, remove and re-clone with locking
			if rmErr := os.RemoveAll(repoPath); rmErr != nil {
				fmt.Printf("Warning: failed to remove repository directory: %v\n", rmErr)
			}
			return ops.cloneWithLock(ctx, repo, repoPath)
		}
		return repoPath, nil
	}

	// Repository doesn't exist or is incomplete, clone it with file-based locking
	return ops.cloneWithLock(ctx, repo, repoPath)
}

// CloneOrUpdateRepoWithDeps ensures a repository is cloned and at the correct revision, considering additional dependencies
func (ops *Operations) CloneOrUpdateRepoWithDeps(
	ctx context.Context,
	repo config.Repo,
	additionalDeps []string,
) (string, error) {
	//nolint:contextcheck // Cache operations are local and don't need context cancellation
	repoPath := ops.cacheManager.GetRepoPathWithDeps(repo, additionalDeps)

	if ops.cacheManager.RepoComplete(repoPath, repo) {
		if err := ops.updateRepo(repoPath, repo.Rev); err != nil {
			// If update fails, remove and re-clone with locking
			if rmErr := os.RemoveAll(repoPath); rmErr != nil {
				fmt.Printf("Warning: failed to remove repository directory: %v\n", rmErr)
			}
			return ops.cloneWithLockAndDeps(ctx, repo, repoPath, additionalDeps)
		}
		return repoPath, nil
	}

	// Repository doesn't exist or is incomplete, clone it with file-based locking
	return ops.cloneWithLockAndDeps(ctx, repo, repoPath, additionalDeps)
}

// runGit runs `git <args...>` with dir as the working directory, returning
// combined output on failure for error context.
func runGit(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// cloneRepo clones a repository into targetDir by shelling out to git, so
// failures (auth, network, unknown revision) surface with git's own exit
// codes and messages instead of a library's reinterpretation of them.
// targetDir is normally a staged temp directory; the caller is responsible
// for publishing it to the final content-addressed path only on success.
func (ops *Operations) cloneRepo(ctx context.Context, repo config.Repo, targetDir string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if err := os.MkdirAll(filepath.Dir(targetDir), 0o750); err != nil {
		return "", fmt.Errorf("failed to create repository directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, "git", "clone", "--no-checkout", repo.Repo, targetDir)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		return "", fmt.Errorf("failed to clone repository %s: %w: %s", repo.Repo, err, out.String())
	}

	if _, err := runGit(targetDir, "fetch", "--tags", "origin"); err != nil {
		// Tag fetch failures are non-fatal: the clone already has the default branch.
		fmt.Printf("Warning: failed to fetch tags for %s: %v\n", repo.Repo, err)
	}

	rev := repo.Rev
	if rev == "" {
		rev = "HEAD"
	}
	if out, err := runGit(targetDir, "checkout", rev); err != nil {
		return "", fmt.Errorf("failed to checkout revision %s: %w: %s", rev, err, string(out))
	}

	return targetDir, nil
}

// isValidCommitHash checks if a string looks like a git commit hash
func isValidCommitHash(s string) bool {
	if len(s) != 40 && len(s) != 7 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// updateRepo updates a repository to the specified revision via git.
func (ops *Operations) updateRepo(repoPath, revision string) error {
	head, err := runGit(repoPath, "rev-parse", "HEAD")
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}

	targetHash, err := ops.resolveRevision(repoPath, revision)
	if err != nil {
		return ops.fetchAndCheckout(repoPath, revision)
	}

	if bytes.Equal(bytes.TrimSpace(head), []byte(targetHash)) {
		return nil
	}

	if out, err := runGit(repoPath, "checkout", targetHash); err == nil {
		_ = out
		return nil
	}

	return ops.fetchAndCheckout(repoPath, revision)
}

// resolveRevision tries to resolve a revision string to a commit hash using
// only refs already present locally.
func (ops *Operations) resolveRevision(repoPath, revision string) (string, error) {
	if isValidCommitHash(revision) {
		if out, err := runGit(repoPath, "rev-parse", "--verify", revision+"^{commit}"); err == nil {
			return string(bytes.TrimSpace(out)), nil
		}
	}

	for _, ref := range []string{
		"refs/tags/" + revision,
		"refs/remotes/origin/" + revision,
		"refs/heads/" + revision,
	} {
		if out, err := runGit(repoPath, "rev-parse", "--verify", ref); err == nil {
			return string(bytes.TrimSpace(out)), nil
		}
	}

	return "", fmt.Errorf("revision %s not found locally", revision)
}

// fetchAndCheckout fetches from remote and checks out the specified revision.
func (ops *Operations) fetchAndCheckout(repoPath, revision string) error {
	if out, err := runGit(repoPath, "fetch", "--tags", "origin",
		"+refs/heads/*:refs/remotes/origin/*"); err != nil {
		return fmt.Errorf("failed to fetch updates: %w: %s", err, string(out))
	}

	targetHash, err := ops.resolveRevision(repoPath, revision)
	if err != nil {
		return fmt.Errorf("failed to resolve revision %s after fetch: %w", revision, err)
	}

	if out, err := runGit(repoPath, "checkout", targetHash); err != nil {
		return fmt.Errorf("failed to checkout %s: %w: %s", targetHash, err, string(out))
	}
	return nil
}

// cloneWithLock clones a repository under a per-repo file lock, staging the
// clone in a sibling temp directory and publishing it to repoPath atomically
// so two concurrent engine invocations never leave a partial clone visible.
func (ops *Operations) cloneWithLock(
	ctx context.Context,
	repo config.Repo,
	repoPath string,
) (string, error) {
	lock := ops.cacheManager.Lock(filepath.Base(repoPath))

	var result string
	var resultErr error

	lockErr := lock.WithLock(ctx, func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Double-check if another process already finished cloning while we
		// waited for the lock.
		if ops.cacheManager.RepoComplete(repoPath, repo) {
			result = repoPath
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		tmpDir, err := ops.cacheManager.StageRepoClone(repoPath)
		if err != nil {
			resultErr = err
			return err
		}

		if _, err := ops.cloneRepo(ctx, repo, tmpDir); err != nil {
			ops.cacheManager.AbandonRepoClone(tmpDir)
			resultErr = err
			return err
		}

		if err := ops.cacheManager.FinalizeRepoClone(tmpDir, repoPath, repo); err != nil {
			ops.cacheManager.AbandonRepoClone(tmpDir)
			resultErr = err
			return err
		}

		// Update database entry
		if err := ops.cacheManager.UpdateRepoEntry(repo, repoPath); err != nil { //nolint:contextcheck // Cache operations are local and don't need context cancellation
			// Log error but don't fail - the cache will still work
			fmt.Printf("Warning: failed to update database entry for %s: %v\n", repo.Repo, err)
		}

		result = repoPath
		return nil
	})

	if lockErr != nil {
		return "", fmt.Errorf("failed to acquire lock for cloning: %w", lockErr)
	}

	if resultErr != nil {
		return "", resultErr
	}

	return result, nil
}

// cloneWithLockAndDeps is cloneWithLock with dependency-aware cache bookkeeping.
func (ops *Operations) cloneWithLockAndDeps(
	ctx context.Context,
	repo config.Repo,
	repoPath string,
	additionalDeps []string,
) (string, error) {
	lock := ops.cacheManager.Lock(filepath.Base(repoPath))

	var result string
	var resultErr error

	lockErr := lock.WithLock(ctx, func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if ops.cacheManager.RepoComplete(repoPath, repo) {
			result = repoPath
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		tmpDir, err := ops.cacheManager.StageRepoClone(repoPath)
		if err != nil {
			resultErr = err
			return err
		}

		if _, err := ops.cloneRepo(ctx, repo, tmpDir); err != nil {
			ops.cacheManager.AbandonRepoClone(tmpDir)
			resultErr = err
			return err
		}

		if err := ops.cacheManager.FinalizeRepoClone(tmpDir, repoPath, repo); err != nil {
			ops.cacheManager.AbandonRepoClone(tmpDir)
			resultErr = err
			return err
		}

		// Update database entry with dependencies
		if err := ops.cacheManager.UpdateRepoEntryWithDeps(repo, additionalDeps, repoPath); err != nil { //nolint:contextcheck // Cache operations are local and don't need context cancellation
			fmt.Printf("Warning: failed to update cache database: %v\n", err)
		}

		result = repoPath
		return nil
	})

	if lockErr != nil {
		return "", fmt.Errorf("failed to acquire lock for cloning: %w", lockErr)
	}

	if resultErr != nil {
		return "", resultErr
	}

	return result, nil
}
