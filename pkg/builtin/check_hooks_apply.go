package builtin

import (
	"fmt"
	"strings"

	"github.com/nrook/prek/pkg/config"
	"github.com/nrook/prek/pkg/hook/matching"
)

// CheckHooksApply reinitializes the hooks of each given config and asserts
// that every hook which isn't always_run and doesn't use the fail language
// matches at least one path in allFiles. Failures across every config
// accumulate into a single report instead of stopping at the first one.
func CheckHooksApply(configPaths []string, allFiles []string) (exitCode int, output string) {
	matcher := matching.NewMatcher()
	var problems []string

	for _, configPath := range configPaths {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: failed to load: %v", configPath, err))
			continue
		}

		for _, repo := range cfg.Repos {
			for _, hook := range repo.Hooks {
				if hook.AlwaysRun || hook.Language == "fail" {
					continue
				}
				matched := matcher.GetFilesForHook(hook, allFiles, true)
				if len(matched) == 0 {
					problems = append(problems, fmt.Sprintf(
						"%s: %s does not apply to this repository", configPath, hook.ID))
				}
			}
		}
	}

	if len(problems) > 0 {
		return 1, strings.Join(problems, "\n")
	}
	return 0, ""
}
