package languages

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nrook/prek/pkg/git"
	"github.com/nrook/prek/pkg/language"
)

// BunLanguage handles Bun environment setup
type BunLanguage struct {
	*language.Base
}

// NewBunLanguage creates a new Bun language handler
func NewBunLanguage() *BunLanguage {
	return &BunLanguage{
		Base: language.NewBase("Bun", "bun", "--version", "https://bun.sh/"),
	}
}

// PreInitializeEnvironmentWithRepoInfo shows the initialization message and creates the environment directory
func (b *BunLanguage) PreInitializeEnvironmentWithRepoInfo(
	cacheDir, version, repoPath, repoURL string,
	additionalDeps []string,
) error {
	return b.CacheAwarePreInitializeEnvironmentWithRepoInfo(
		cacheDir, version, repoPath, repoURL, additionalDeps, "bun")
}

// SetupEnvironmentWithRepoInfo sets up a Bun environment with repository URL information
func (b *BunLanguage) SetupEnvironmentWithRepoInfo(
	cacheDir, version, repoPath, repoURL string,
	additionalDeps []string,
) (string, error) {
	return b.SetupEnvironmentWithRepo(cacheDir, version, repoPath, repoURL, additionalDeps)
}

// SetupEnvironmentWithRepo sets up a Bun environment within a repository context.
// Bun bundles its own package manager, so there's no separate interpreter
// install step here; the environment directory holds an isolated global
// install prefix (BUN_INSTALL) so hook dependencies don't land in the
// user's own `~/.bun`.
func (b *BunLanguage) SetupEnvironmentWithRepo(
	cacheDir, version, repoPath, _ string, // repoURL is unused
	additionalDeps []string,
) (string, error) {
	// cacheDir is the store's content-addressed hook env path; repoPath is
	// only consulted below to find package.json, not to place the environment.
	var envPath string
	switch {
	case cacheDir != "":
		envPath = cacheDir
	case repoPath != "":
		envDirName := language.GetRepositoryEnvironmentName("bun", version)
		envPath = filepath.Join(repoPath, envDirName)
	default:
		return "", fmt.Errorf("both repoPath and cacheDir are empty, cannot create Bun environment")
	}

	if b.CheckEnvironmentHealth(envPath) {
		return envPath, nil
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := os.RemoveAll(envPath); err != nil {
			return "", fmt.Errorf("failed to remove broken Bun environment: %w", err)
		}
	}

	if err := b.setupBunEnvironment(envPath); err != nil {
		return "", fmt.Errorf("failed to setup Bun environment: %w", err)
	}

	packageJSONPath := filepath.Join(repoPath, "package.json")
	if _, err := os.Stat(packageJSONPath); err == nil {
		if err := b.installDependenciesFromRepo(envPath, repoPath, additionalDeps); err != nil {
			return "", fmt.Errorf("failed to install Bun dependencies: %w", err)
		}
	} else if len(additionalDeps) > 0 {
		if err := b.installGlobalDeps(envPath, additionalDeps); err != nil {
			return "", fmt.Errorf("failed to install Bun dependencies: %w", err)
		}
	}

	return envPath, nil
}

// setupBunEnvironment creates the isolated install-prefix directory structure
func (b *BunLanguage) setupBunEnvironment(envPath string) error {
	binDir := filepath.Join(envPath, "bin")
	if err := os.MkdirAll(binDir, 0o750); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}
	installDir := filepath.Join(envPath, "install")
	if err := os.MkdirAll(installDir, 0o750); err != nil {
		return fmt.Errorf("failed to create install directory: %w", err)
	}
	return nil
}

// InstallDependencies runs `bun install` against envPath itself, used when
// called without repository context. SetupEnvironmentWithRepo instead calls
// installDependenciesFromRepo, which knows the hook's actual repo path.
func (b *BunLanguage) InstallDependencies(envPath string, deps []string) error {
	return b.installDependenciesFromRepo(envPath, envPath, deps)
}

// installDependenciesFromRepo runs `bun install` against repoDir's
// package.json inside the isolated environment at envPath.
func (b *BunLanguage) installDependenciesFromRepo(envPath, repoDir string, deps []string) error {
	if !b.IsRuntimeAvailable() {
		return fmt.Errorf("bun not found, cannot install dependencies")
	}

	env := b.getBunEnvVars(envPath)

	cmd := exec.Command("bun", "install")
	cmd.Dir = repoDir
	cmd.Env = env
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to run bun install: %w\nOutput: %s", err, output)
	}

	if len(deps) > 0 {
		return b.installGlobalDeps(envPath, deps)
	}

	return nil
}

// installGlobalDeps installs extra dependency specifiers into the
// environment's isolated global install prefix.
func (b *BunLanguage) installGlobalDeps(envPath string, deps []string) error {
	if !b.IsRuntimeAvailable() {
		return fmt.Errorf("bun not found, cannot install dependencies: %s", strings.Join(deps, " "))
	}

	env := b.getBunEnvVars(envPath)
	args := append([]string{"add", "--global"}, deps...)

	cmd := exec.Command("bun", args...)
	cmd.Env = env
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to install global Bun dependencies: %w\nOutput: %s", err, output)
	}

	return nil
}

// getBunEnvVars returns environment variables that redirect Bun's global
// install prefix into this hook's isolated environment directory.
func (b *BunLanguage) getBunEnvVars(envPath string) []string {
	env := git.GetCleanEnvironment()

	currentPath := os.Getenv("PATH")
	binDir := filepath.Join(envPath, "bin")
	newPath := fmt.Sprintf("%s%c%s", binDir, os.PathListSeparator, currentPath)

	env = append(env,
		fmt.Sprintf("BUN_INSTALL=%s", envPath),
		fmt.Sprintf("PATH=%s", newPath),
	)

	return env
}

// CheckEnvironmentHealth checks if the Bun environment directory is present
func (b *BunLanguage) CheckEnvironmentHealth(envPath string) bool {
	if _, err := os.Stat(filepath.Join(envPath, "bin")); err != nil {
		return false
	}
	return b.IsRuntimeAvailable()
}

// CheckHealth verifies that the Bun runtime is working correctly
func (b *BunLanguage) CheckHealth(envPath, _ string) error {
	env := b.getBunEnvVars(envPath)
	cmd := exec.Command("bun", "--version")
	cmd.Env = env
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("bun runtime not available: %w", err)
	}
	return nil
}

// IsRuntimeAvailable checks if Bun is available on the system
func (b *BunLanguage) IsRuntimeAvailable() bool {
	_, err := exec.LookPath("bun")
	return err == nil
}
