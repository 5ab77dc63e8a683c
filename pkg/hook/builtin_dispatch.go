package hook

import (
	"strconv"
	"time"

	"github.com/nrook/prek/pkg/builtin"
	"github.com/nrook/prek/pkg/config"
	"github.com/nrook/prek/pkg/git"
	"github.com/nrook/prek/pkg/hook/execution"
)

// isBuiltinHook reports whether a hook is satisfied entirely in-process
// instead of by spawning a subprocess, per its meta-hook definition.
func isBuiltinHook(hook config.Hook) bool {
	return hook.Language == "builtin"
}

// runBuiltinHook executes a builtin hook against the already-filtered file
// list for this run. Builtin hooks never leave on-disk modifications, so
// there's no before/after snapshot and no batching: the full file list goes
// through in one call.
func (o *Orchestrator) runBuiltinHook(
	hook config.Hook,
	repo config.Repo,
	files []string,
) execution.Result {
	start := time.Now()
	exitCode, output := o.dispatchBuiltinHook(hook, repo, files)
	return execution.Result{
		Hook:     hook,
		Files:    files,
		Output:   output,
		ExitCode: exitCode,
		Success:  exitCode == 0,
		Duration: time.Since(start),
	}
}

func (o *Orchestrator) dispatchBuiltinHook(
	hook config.Hook,
	repo config.Repo,
	files []string,
) (exitCode int, output string) {
	switch hook.ID {
	case "identity":
		return builtin.Identity(files)

	case "check-json":
		return builtin.CheckJSON(files)

	case "check-ast":
		return builtin.CheckAST(files)

	case "check-hooks-apply":
		if o.ctx.Config.ConfigPath == "" {
			return 0, ""
		}
		return builtin.CheckHooksApply([]string{o.ctx.Config.ConfigPath}, files)

	case "check-useless-excludes":
		if o.ctx.Config.ConfigPath == "" {
			return 0, ""
		}
		return builtin.CheckUselessExcludes([]string{o.ctx.Config.ConfigPath}, files)

	case "no-commit-to-branch":
		gitRepo, err := git.NewRepository(o.ctx.RepoRoot)
		if err != nil {
			return 0, ""
		}
		branches, patterns := parseBranchArgs(hook.Args)
		return builtin.NoCommitToBranch(gitRepo, branches, patterns)

	case "check-hook-updates":
		if o.repoMgr == nil {
			return 0, ""
		}
		cooldownDays, failOnUpdates, intervalHours := parseHookUpdateArgs(hook.Args)
		return builtin.CheckHookUpdates(
			o.ctx.Config.Repos,
			o.repoMgr,
			o.repoMgr.GetCacheDir(),
			cooldownDays,
			failOnUpdates,
			intervalHours,
		)

	default:
		return 0, ""
	}
}

// parseBranchArgs reads --branch/-b and --pattern/-p flags the way
// pre-commit's own no-commit-to-branch hook does, repeatable.
func parseBranchArgs(args []string) (branches, patterns []string) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--branch", "-b":
			if i+1 < len(args) {
				i++
				branches = append(branches, args[i])
			}
		case "--pattern", "-p":
			if i+1 < len(args) {
				i++
				patterns = append(patterns, args[i])
			}
		}
	}
	return branches, patterns
}

// parseHookUpdateArgs reads check-hook-updates' flags, defaulting to a
// week-long cooldown, a day-long recheck interval, and non-failing reports.
func parseHookUpdateArgs(args []string) (cooldownDays int, failOnUpdates bool, checkIntervalHours int) {
	cooldownDays = 7
	checkIntervalHours = 24
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--cooldown-days":
			if i+1 < len(args) {
				i++
				if v, err := strconv.Atoi(args[i]); err == nil {
					cooldownDays = v
				}
			}
		case "--check-interval-hours":
			if i+1 < len(args) {
				i++
				if v, err := strconv.Atoi(args[i]); err == nil {
					checkIntervalHours = v
				}
			}
		case "--fail-on-updates":
			failOnUpdates = true
		}
	}
	return cooldownDays, failOnUpdates, checkIntervalHours
}
