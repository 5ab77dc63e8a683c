package language

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// RequestKind discriminates the variants a language_version string can
// parse into.
type RequestKind int

const (
	// RequestAny means no constraint was given; the backend picks
	// whatever default toolchain it finds.
	RequestAny RequestKind = iota
	// RequestMajor constrains to a major version only, e.g. "3".
	RequestMajor
	// RequestMajorMinor constrains to major.minor, e.g. "3.12".
	RequestMajorMinor
	// RequestMajorMinorPatch constrains to major.minor.patch.
	RequestMajorMinorPatch
	// RequestRange is a raw semver-style range expression, e.g. ">=3.9,<4".
	RequestRange
	// RequestPath points directly at an interpreter/toolchain binary.
	RequestPath
	// RequestSystemAlias is the literal "system": use whatever is on PATH.
	RequestSystemAlias
)

// VersionRequest is the parsed form of a hook or config's
// language_version string.
type VersionRequest struct {
	Raw   string
	Path  string
	Kind  RequestKind
	Major int
	Minor int
	Patch int
}

var ecosystemPrefixed = regexp.MustCompile(`^([a-zA-Z]+)-?(\d.*)$`)

// ErrInvalidVersion is returned (wrapped with context) when a
// language_version string matches none of the accepted grammars.
type ErrInvalidVersion struct {
	Raw string
}

func (e *ErrInvalidVersion) Error() string {
	return fmt.Sprintf("invalid language_version: %q", e.Raw)
}

// ParseVersionRequest parses a language_version string into its
// canonical variant. Accepts a bare version ("3.12", "3.12.1"), an
// ecosystem-prefixed form ("deno@1.40", "go1.20.3", "ruby-3.3",
// "python3.12"), the literals "default"/"system"/"latest", a raw
// range expression containing a comparison operator, or an absolute
// path to an interpreter.
func ParseVersionRequest(raw string) (VersionRequest, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "default" || trimmed == "latest" {
		return VersionRequest{Raw: raw, Kind: RequestAny}, nil
	}
	if trimmed == "system" {
		return VersionRequest{Raw: raw, Kind: RequestSystemAlias}, nil
	}

	if filepath.IsAbs(trimmed) {
		return VersionRequest{Raw: raw, Kind: RequestPath, Path: trimmed}, nil
	}

	if strings.ContainsAny(trimmed, "<>=~^,") {
		return VersionRequest{Raw: raw, Kind: RequestRange}, nil
	}

	numeric := trimmed
	if idx := strings.IndexAny(trimmed, "@"); idx >= 0 {
		numeric = trimmed[idx+1:]
	} else if m := ecosystemPrefixed.FindStringSubmatch(trimmed); m != nil {
		numeric = m[2]
	}

	parts := strings.Split(numeric, ".")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return VersionRequest{}, &ErrInvalidVersion{Raw: raw}
		}
		nums = append(nums, n)
	}

	switch len(nums) {
	case 1:
		return VersionRequest{Raw: raw, Kind: RequestMajor, Major: nums[0]}, nil
	case 2:
		return VersionRequest{Raw: raw, Kind: RequestMajorMinor, Major: nums[0], Minor: nums[1]}, nil
	case 3:
		return VersionRequest{
			Raw: raw, Kind: RequestMajorMinorPatch,
			Major: nums[0], Minor: nums[1], Patch: nums[2],
		}, nil
	default:
		return VersionRequest{}, &ErrInvalidVersion{Raw: raw}
	}
}

// SatisfiedBy reports whether an already-installed toolchain version
// string (e.g. "3.12.4") satisfies this request. RequestAny and
// RequestSystemAlias are always satisfied; RequestPath is satisfied only
// by an identical path (checked by the caller, not here).
func (r VersionRequest) SatisfiedBy(installedVersion string) bool {
	switch r.Kind {
	case RequestAny, RequestSystemAlias, RequestPath, RequestRange:
		return true
	}

	installed, err := ParseVersionRequest(installedVersion)
	if err != nil || installed.Kind < RequestMajor {
		return false
	}

	if r.Major != installed.Major {
		return false
	}
	if r.Kind == RequestMajor {
		return true
	}
	if r.Minor != installed.Minor {
		return false
	}
	if r.Kind == RequestMajorMinor {
		return true
	}
	return r.Patch == installed.Patch
}
