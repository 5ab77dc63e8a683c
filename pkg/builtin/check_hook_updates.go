package builtin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nrook/prek/pkg/config"
	"github.com/nrook/prek/pkg/git"
)

// lastRunTouchFile is the cache-relative file whose mtime rate-limits how
// often check-hook-updates actually fetches tags.
const lastRunTouchFile = "check_hook_updates_last_run"

// RepoPathResolver returns the local clone path for a configured remote
// repo, the same lookup repository.Manager.GetRepoPath performs. It's an
// interface rather than a concrete type so this package doesn't need to
// import pkg/repository just to call one method.
type RepoPathResolver interface {
	GetRepoPath(repo config.Repo) string
}

// CheckHookUpdates reports, for each remote repo in repos, whether a newer
// tag is available than the one currently pinned. It's rate-limited by a
// touch-file in cacheDir: if the file was touched more recently than
// checkIntervalHours ago, the check is skipped entirely (exit 0, no
// output). Network errors listing a repo's tags are reported as warnings,
// never as failures; only a real available update can fail the check, and
// only when failOnUpdates is set.
func CheckHookUpdates(
	repos []config.Repo,
	resolver RepoPathResolver,
	cacheDir string,
	cooldownDays int,
	failOnUpdates bool,
	checkIntervalHours int,
) (exitCode int, output string) {
	touchPath := filepath.Join(cacheDir, lastRunTouchFile)

	if recentlyChecked(touchPath, checkIntervalHours) {
		return 0, ""
	}

	var updates []string
	var warnings []string
	now := time.Now()

	for _, repo := range repos {
		if repo.Repo == "local" || repo.Repo == "meta" {
			continue
		}

		repoPath := resolver.GetRepoPath(repo)
		localRepo, err := git.NewRepository(repoPath)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", repo.Repo, err))
			continue
		}

		tags, err := localRepo.ListTagsWithTimestamps()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", repo.Repo, err))
			continue
		}

		eligible := git.FindEligibleTag(tags, repo.Rev, cooldownDays, now)
		if eligible != repo.Rev {
			updates = append(updates, fmt.Sprintf("%s: %s -> %s available", repo.Repo, repo.Rev, eligible))
		}
	}

	touchLastRun(touchPath)

	var lines []string
	lines = append(lines, updates...)
	for _, w := range warnings {
		lines = append(lines, "warning: "+w)
	}

	if failOnUpdates && len(updates) > 0 {
		return 1, strings.Join(lines, "\n")
	}
	return 0, strings.Join(lines, "\n")
}

func recentlyChecked(touchPath string, checkIntervalHours int) bool {
	info, err := os.Stat(touchPath)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < time.Duration(checkIntervalHours)*time.Hour
}

func touchLastRun(touchPath string) {
	if err := os.MkdirAll(filepath.Dir(touchPath), 0o750); err != nil {
		return
	}
	_ = os.WriteFile(touchPath, []byte{}, 0o600)
}
