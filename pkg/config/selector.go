package config

import "strings"

// Selector is a parsed positional hook selector: a bare id, a
// repo-qualified "repo:id", or a project-qualified "path:id". The ":id"
// shorthand (an empty qualifier) matches across every project.
type Selector struct {
	Qualifier string
	ID        string
}

// ParseSelector splits a raw positional argument into its qualifier and
// id parts. "black" -> {"", "black"}, "repo:black" -> {"repo", "black"},
// ":black" -> {"", "black"} (same as the bare form, since an empty
// qualifier already matches everywhere).
func ParseSelector(raw string) Selector {
	if idx := strings.Index(raw, ":"); idx >= 0 {
		return Selector{Qualifier: raw[:idx], ID: raw[idx+1:]}
	}
	return Selector{ID: raw}
}

// Matches reports whether the selector picks out hook h, which belongs
// to repo repoURL within a project rooted at projectPath.
func (s Selector) Matches(h Hook, repoURL, projectPath string) bool {
	if h.ID != s.ID {
		return false
	}
	if s.Qualifier == "" {
		return true
	}
	if s.Qualifier == repoURL {
		return true
	}
	return s.Qualifier == projectPath
}

// FilterHooksBySelectors narrows hooks down to those matched by any of
// the given raw selectors. If selectors is empty, every hook is kept.
// unmatched reports which selectors, if any, matched nothing — callers
// should warn on those and exit non-zero if the resulting hook list is
// empty.
func FilterHooksBySelectors(
	hooks []Hook,
	repoURLs []string,
	projectPaths []string,
	rawSelectors []string,
) (filtered []Hook, unmatched []string) {
	if len(rawSelectors) == 0 {
		return hooks, nil
	}

	selectors := make([]Selector, len(rawSelectors))
	for i, raw := range rawSelectors {
		selectors[i] = ParseSelector(raw)
	}

	matchedSelector := make([]bool, len(selectors))
	for i, h := range hooks {
		repoURL := ""
		if i < len(repoURLs) {
			repoURL = repoURLs[i]
		}
		projectPath := ""
		if i < len(projectPaths) {
			projectPath = projectPaths[i]
		}

		for si, sel := range selectors {
			if sel.Matches(h, repoURL, projectPath) {
				filtered = append(filtered, h)
				matchedSelector[si] = true
				break
			}
		}
	}

	for i, ok := range matchedSelector {
		if !ok {
			unmatched = append(unmatched, rawSelectors[i])
		}
	}

	return filtered, unmatched
}
