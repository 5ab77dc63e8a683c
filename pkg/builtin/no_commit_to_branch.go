package builtin

import (
	"fmt"
	"regexp"

	"github.com/nrook/prek/pkg/git"
)

// defaultProtectedBranches is used when no --branch argument is given.
var defaultProtectedBranches = []string{"main", "master"}

// NoCommitToBranch fails if the current branch's short name equals any of
// branches (defaulting to main/master) or matches any of patterns.
func NoCommitToBranch(repo *git.Repository, branches []string, patterns []string) (exitCode int, output string) {
	if len(branches) == 0 {
		branches = defaultProtectedBranches
	}

	current, err := repo.GetCurrentBranch()
	if err != nil {
		// Not on a branch (detached HEAD) - nothing to protect against.
		return 0, ""
	}

	for _, b := range branches {
		if current == b {
			return 1, fmt.Sprintf("Direct commits to branch %s are not allowed", current)
		}
	}

	for _, p := range patterns {
		re, compileErr := regexp.Compile(p)
		if compileErr != nil {
			return 1, fmt.Sprintf("invalid --pattern %q: %v", p, compileErr)
		}
		if re.MatchString(current) {
			return 1, fmt.Sprintf("Direct commits to branch %s are not allowed", current)
		}
	}

	return 0, ""
}
