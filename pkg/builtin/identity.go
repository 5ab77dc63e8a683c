// Package builtin implements the in-process hooks that run inside the
// engine itself rather than as an external process: identity,
// check-hooks-apply, check-useless-excludes, no-commit-to-branch,
// check-ast, check-json, and the auto-update availability checker.
package builtin

import "strings"

// Identity returns the files it was given, one per line, and never fails.
// It exists so a config can assert "these are the files pre-commit would
// have run against" without invoking an external program.
func Identity(files []string) (exitCode int, output string) {
	return 0, strings.Join(files, "\n")
}
