package builtin

import (
	"fmt"
	"strings"

	"github.com/nrook/prek/pkg/config"
	"github.com/nrook/prek/pkg/hook/matching"
)

// alwaysUsefulExclude is pre-commit's own convention: an exclude of
// exactly "^$" never matches anything by construction and is exempted
// from the useless-exclude check instead of being reported as dead.
const alwaysUsefulExclude = "^$"

// CheckUselessExcludes asserts that each config's project-level exclude
// and every hook's exclude regex actually removes at least one path from
// the set that files/type filters would otherwise have selected.
func CheckUselessExcludes(configPaths []string, allFiles []string) (exitCode int, output string) {
	matcher := matching.NewMatcher()
	var problems []string

	for _, configPath := range configPaths {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: failed to load: %v", configPath, err))
			continue
		}

		if cfg.ExcludeRegex != "" && cfg.ExcludeRegex != alwaysUsefulExclude {
			probe := config.Hook{ExcludeRegex: cfg.ExcludeRegex}
			passing := matcher.GetFilesForHook(probe, allFiles, true)
			if len(passing) == len(allFiles) {
				problems = append(problems, fmt.Sprintf(
					"%s: top-level exclude pattern %q does not match any files",
					configPath, cfg.ExcludeRegex))
			}
		}

		for _, repo := range cfg.Repos {
			for _, hook := range repo.Hooks {
				if hook.ExcludeRegex == "" || hook.ExcludeRegex == alwaysUsefulExclude {
					continue
				}

				withExclude := matcher.GetFilesForHook(hook, allFiles, true)

				withoutExclude := hook
				withoutExclude.ExcludeRegex = ""
				baseline := matcher.GetFilesForHook(withoutExclude, allFiles, true)

				if len(withExclude) == len(baseline) {
					problems = append(problems, fmt.Sprintf(
						"%s: %s's exclude pattern %q does not match any files",
						configPath, hook.ID, hook.ExcludeRegex))
				}
			}
		}
	}

	if len(problems) > 0 {
		return 1, strings.Join(problems, "\n")
	}
	return 0, ""
}
