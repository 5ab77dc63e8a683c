// Package cache provides the on-disk Store: the content-addressed cache root
// holding cloned hook repositories, per-hook language environments,
// downloaded toolchains, and ecosystem scratch space, plus the cross-process
// locking used to coordinate writers.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/nrook/prek/pkg/config"
	"github.com/nrook/prek/pkg/interfaces"
)

// repoMarkerFile names the marker written at the root of a completed clone.
// Its presence is the sole completeness signal: a directory containing
// everything else but missing this file is a partial clone and must be
// redone (see RepoComplete).
const repoMarkerFile = ".prek-repo.json"

// envMarkerFile names the marker written at the root of a completed hook
// environment install. Mirrors repoMarkerFile for the hooks/ side of the
// store.
const envMarkerFile = ".prek-env.json"

// repoMarker is the persisted contents of repoMarkerFile.
type repoMarker struct {
	URL string `json:"url"`
	Rev string `json:"rev"`
}

// InstallInfo describes a materialized hook environment, persisted inside
// the env as envMarkerFile so a later run can verify the directory it found
// actually satisfies the request instead of trusting its mere existence.
type InstallInfo struct {
	Language        string            `json:"language"`
	Dependencies    []string          `json:"dependencies"`
	EnvPath         string            `json:"env_path"`
	Toolchain       string            `json:"toolchain,omitempty"`
	LanguageVersion string            `json:"language_version,omitempty"`
	Extras          map[string]string `json:"extras,omitempty"`
}

// Manager handles store layout, cross-process locking, and the SQLite-backed
// secondary index used for config-usage bookkeeping and repo path lookups.
type Manager struct {
	db       *sql.DB
	cacheDir string
	dbPath   string
}

// NewManager creates a new cache manager rooted at cacheDir.
func NewManager(cacheDir string) (*Manager, error) {
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(cacheDir, "db.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := initDatabase(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			fmt.Printf("⚠️  Warning: failed to close database: %v\n", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m := &Manager{
		db:       db,
		cacheDir: cacheDir,
		dbPath:   dbPath,
	}

	for _, dir := range []string{m.ReposDir(), m.HooksDir(), filepath.Join(cacheDir, "tools"), filepath.Join(cacheDir, "cache")} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				fmt.Printf("⚠️  Warning: failed to close database: %v\n", closeErr)
			}
			return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}

	return m, nil
}

// ReposDir returns store/repos, the root of cloned hook sources.
func (m *Manager) ReposDir() string {
	return filepath.Join(m.cacheDir, "repos")
}

// HooksDir returns store/hooks, the root of per-hook language environments.
func (m *Manager) HooksDir() string {
	return filepath.Join(m.cacheDir, "hooks")
}

// ToolsPath returns store/tools/<bucket>, a downloaded-toolchain directory
// for the given language bucket (e.g. "node", "python"). Created on first
// use.
func (m *Manager) ToolsPath(bucket string) string {
	path := filepath.Join(m.cacheDir, "tools", bucket)
	if err := os.MkdirAll(path, 0o750); err != nil {
		fmt.Printf("⚠️  Warning: failed to create tools directory %s: %v\n", path, err)
	}
	return path
}

// CachePath returns store/cache/<bucket>, an ecosystem-scoped scratch
// directory (e.g. a Deno cache). Created on first use.
func (m *Manager) CachePath(bucket string) string {
	path := filepath.Join(m.cacheDir, "cache", bucket)
	if err := os.MkdirAll(path, 0o750); err != nil {
		fmt.Printf("⚠️  Warning: failed to create cache directory %s: %v\n", path, err)
	}
	return path
}

// Lock returns a cross-process lock scoped to the named resource, e.g. a
// repo directory's base name or a hook env hash, so unrelated clones and
// installs don't serialize behind one store-wide lock.
func (m *Manager) Lock(resource string) *FileLock {
	return NewFileLock(m.cacheDir, resource)
}

var repoSlugSanitizer = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// repoSlug derives a readable directory prefix from a repo URL, e.g.
// "https://github.com/psf/black" -> "psf-black".
func repoSlug(repoURL string) string {
	trimmed := strings.TrimSuffix(repoURL, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")
	parts := strings.FieldsFunc(trimmed, func(r rune) bool { return r == '/' || r == ':' })
	n := len(parts)
	var slug string
	switch {
	case n >= 2:
		slug = parts[n-2] + "-" + parts[n-1]
	case n == 1:
		slug = parts[0]
	default:
		slug = "repo"
	}
	slug = repoSlugSanitizer.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "repo"
	}
	return slug
}

// shortHash returns a short, stable hex digest of the given parts joined by
// NUL bytes, used to make content-addressed directory names collision
// resistant without being unreadably long.
func shortHash(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}

// RepoDirName computes the content-addressed directory name for a repo
// clone: slug-<hash(url,rev,deps)>. Two requests for the same (url, rev,
// additionalDeps) always resolve to the same name, which is what lets
// concurrent invocations and repeated runs reuse a single clone.
func RepoDirName(repo config.Repo, additionalDeps []string) string {
	key := shortHash(repo.Repo, repo.Rev, strings.Join(additionalDeps, ","))
	return fmt.Sprintf("%s-%s", repoSlug(repo.Repo), key)
}

// GetRepoPath returns the content-addressed path for a repository clone.
func (m *Manager) GetRepoPath(repo config.Repo) string {
	return m.GetRepoPathWithDeps(repo, nil)
}

// GetRepoPathWithDeps returns the content-addressed path for a repository
// clone, considering additional dependencies. The path is computed, not
// looked up: callers must still check RepoComplete before trusting it holds
// a finished clone.
func (m *Manager) GetRepoPathWithDeps(repo config.Repo, additionalDeps []string) string {
	return filepath.Join(m.ReposDir(), RepoDirName(repo, additionalDeps))
}

// RepoComplete reports whether path holds a finished clone of repo: the
// marker file must exist and must describe the same (url, rev). A
// directory missing the marker, or bearing a stale one, is treated as
// absent so the caller redoes the clone rather than trusting partial or
// desynchronized state.
func (m *Manager) RepoComplete(path string, repo config.Repo) bool {
	data, err := os.ReadFile(filepath.Join(path, repoMarkerFile))
	if err != nil {
		return false
	}
	var marker repoMarker
	if err := json.Unmarshal(data, &marker); err != nil {
		return false
	}
	return marker.URL == repo.Repo && marker.Rev == repo.Rev
}

// StageRepoClone returns a sibling temp directory under finalPath's parent
// to clone into, so a process killed mid-clone never leaves half-written
// content at the final content-addressed path. The directory itself is
// removed before returning since `git clone` must create its target.
func (m *Manager) StageRepoClone(finalPath string) (string, error) {
	parent := filepath.Dir(finalPath)
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return "", fmt.Errorf("failed to create repos directory: %w", err)
	}
	tmp, err := os.MkdirTemp(parent, filepath.Base(finalPath)+".tmp-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	if err := os.Remove(tmp); err != nil {
		return "", fmt.Errorf("failed to prepare staging directory: %w", err)
	}
	return tmp, nil
}

// FinalizeRepoClone atomically publishes a completed clone at tmpPath to
// finalPath and writes the completeness marker last, so RepoComplete never
// observes a directory that exists but isn't actually finished.
func (m *Manager) FinalizeRepoClone(tmpPath, finalPath string, repo config.Repo) error {
	if err := os.RemoveAll(finalPath); err != nil {
		return fmt.Errorf("failed to clear stale repo directory: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("failed to publish cloned repository: %w", err)
	}
	marker := repoMarker{URL: repo.Repo, Rev: repo.Rev}
	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode repo marker: %w", err)
	}
	if err := os.WriteFile(filepath.Join(finalPath, repoMarkerFile), data, 0o600); err != nil {
		return fmt.Errorf("failed to write repo marker: %w", err)
	}
	return nil
}

// AbandonRepoClone removes a staged clone directory after a failed attempt.
func (m *Manager) AbandonRepoClone(tmpPath string) {
	if tmpPath == "" {
		return
	}
	if err := os.RemoveAll(tmpPath); err != nil {
		fmt.Printf("⚠️  Warning: failed to clean up staged clone %s: %v\n", tmpPath, err)
	}
}

// EnvKey computes the stable key used to derive a hook environment's
// content-addressed directory: a hash over (language, sorted
// additionalDeps). Per the store's install_env contract, the language
// version is deliberately excluded; re-requesting the same language+deps
// combination with a different version must reuse (and, via health-check,
// possibly repair) the same env rather than fork a new directory.
func EnvKey(language string, additionalDeps []string) string {
	sorted := append([]string(nil), additionalDeps...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	return shortHash(language, strings.Join(sorted, ","))
}

// HookEnvPath returns the content-addressed path for a hook environment
// keyed by EnvKey.
func (m *Manager) HookEnvPath(key string) string {
	return filepath.Join(m.HooksDir(), key)
}

// EnvComplete reports whether path holds a finished hook env install: the
// state marker must exist. Health/version satisfaction is the caller's
// responsibility (request.satisfied_by(info) in store terms); this only
// gates "was the install interrupted".
func (m *Manager) EnvComplete(path string) bool {
	_, err := os.Stat(filepath.Join(path, envMarkerFile))
	return err == nil
}

// StageEnvInstall returns a sibling temp directory under finalPath's parent
// to build an environment into before it is published at finalPath.
func (m *Manager) StageEnvInstall(finalPath string) (string, error) {
	parent := filepath.Dir(finalPath)
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return "", fmt.Errorf("failed to create hooks directory: %w", err)
	}
	tmp, err := os.MkdirTemp(parent, filepath.Base(finalPath)+".tmp-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	return tmp, nil
}

// FinalizeEnvInstall atomically publishes a built environment at tmpPath to
// finalPath and writes the InstallInfo state file last.
func (m *Manager) FinalizeEnvInstall(tmpPath, finalPath string, info InstallInfo) error {
	if err := os.RemoveAll(finalPath); err != nil {
		return fmt.Errorf("failed to clear stale env directory: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("failed to publish hook environment: %w", err)
	}
	info.EnvPath = finalPath
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode env state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(finalPath, envMarkerFile), data, 0o600); err != nil {
		return fmt.Errorf("failed to write env state: %w", err)
	}
	return nil
}

// AbandonEnvInstall removes a partially built environment after a failed
// install attempt.
func (m *Manager) AbandonEnvInstall(tmpPath string) {
	if tmpPath == "" {
		return
	}
	if err := os.RemoveAll(tmpPath); err != nil {
		fmt.Printf("⚠️  Warning: failed to clean up staged env %s: %v\n", tmpPath, err)
	}
}

// UpdateRepoEntry records a repo's resolved path in the secondary index.
func (m *Manager) UpdateRepoEntry(repo config.Repo, path string) error {
	return m.UpdateRepoEntryWithDeps(repo, nil, path)
}

// UpdateRepoEntryWithDeps records a repo's resolved path in the secondary
// index, considering dependencies.
func (m *Manager) UpdateRepoEntryWithDeps(repo config.Repo, additionalDeps []string, path string) error {
	dbRepoName := createDBRepoName(repo.Repo, additionalDeps)
	return m.insertRepoEntry(dbRepoName, repo.Rev, path)
}

// CleanCache removes all cached repositories and hook environments.
func (m *Manager) CleanCache() error {
	return m.CleanCacheWithTimeout(30 * time.Second)
}

// CleanCacheWithTimeout removes store/repos and store/hooks under the store
// lock, so a clean doesn't race an in-flight clone or install.
func (m *Manager) CleanCacheWithTimeout(timeout time.Duration) error {
	lock := m.Lock("store")
	return lock.WithLockTimeout(timeout, func() error {
		if err := m.removeDirContents(m.ReposDir()); err != nil {
			return err
		}
		if _, err := m.db.ExecContext(context.Background(), "DELETE FROM repos"); err != nil {
			return fmt.Errorf("failed to clear repo index: %w", err)
		}
		return m.removeDirContents(m.HooksDir())
	})
}

// removeDirContents removes every entry inside dir without removing dir
// itself.
func (m *Manager) removeDirContents(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// MarkConfigUsed marks a config file as used in the database.
func (m *Manager) MarkConfigUsed(configPath string) error {
	normalizedPath, err := m.normalizePath(configPath)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(normalizedPath); os.IsNotExist(statErr) {
		return nil
	}

	_, err = m.db.ExecContext(context.Background(), "INSERT OR IGNORE INTO configs VALUES (?)", normalizedPath)
	return err
}

// normalizePath normalizes a path by resolving symlinks like Python's os.path.realpath
func (m *Manager) normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return absPath, nil //nolint:nilerr // Intentional fallback on symlink resolution failure
	}

	return realPath, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// GetCacheDir returns the cache directory
func (m *Manager) GetCacheDir() string {
	return m.cacheDir
}

// GetDBPath returns the database path
func (m *Manager) GetDBPath() string {
	return m.dbPath
}

// insertRepoEntry inserts or replaces a repository entry
func (m *Manager) insertRepoEntry(dbRepoName, rev, path string) error {
	normalizedPath, err := m.normalizePath(path)
	if err != nil {
		normalizedPath = path
	}

	_, err = m.db.ExecContext(
		context.Background(),
		"INSERT OR REPLACE INTO repos (repo, ref, path) VALUES (?, ?, ?)",
		dbRepoName, rev, normalizedPath,
	)
	if err != nil {
		fmt.Printf("⚠️  Warning: failed to update database entry for %s: %v\n", dbRepoName, err)
	}
	return err
}

// Package-level helper functions

// initDatabase creates the necessary tables if they don't exist
func initDatabase(db *sql.DB) error {
	createReposTable := `
	CREATE TABLE IF NOT EXISTS repos (
		repo TEXT,
		ref TEXT,
		path TEXT,
		PRIMARY KEY (repo, ref)
	);`

	createConfigsTable := `
	CREATE TABLE IF NOT EXISTS configs (
		path TEXT NOT NULL,
		PRIMARY KEY (path)
	);`

	if _, err := db.ExecContext(context.Background(), createReposTable); err != nil {
		return fmt.Errorf("failed to create repos table: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), createConfigsTable); err != nil {
		return fmt.Errorf("failed to create configs table: %w", err)
	}

	return nil
}

// createDBRepoName creates the database repository index key.
// Format: repo_url for no dependencies, repo_url:dep1,dep2,dep3 for dependencies
func createDBRepoName(repoURL string, additionalDeps []string) string {
	if len(additionalDeps) == 0 {
		return repoURL
	}
	// Note: Do NOT sort - Python pre-commit uses the order as provided
	return fmt.Sprintf("%s:%s", repoURL, strings.Join(additionalDeps, ","))
}

// Ensure Manager implements the CacheManager interface
var _ interfaces.CacheManager = (*Manager)(nil)
