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

// DenoLanguage handles Deno environment setup
type DenoLanguage struct {
	*language.Base
}

// NewDenoLanguage creates a new Deno language handler
func NewDenoLanguage() *DenoLanguage {
	return &DenoLanguage{
		Base: language.NewBase("Deno", "deno", "--version", "https://deno.land/"),
	}
}

// PreInitializeEnvironmentWithRepoInfo shows the initialization message and creates the environment directory
func (d *DenoLanguage) PreInitializeEnvironmentWithRepoInfo(
	cacheDir, version, repoPath, repoURL string,
	additionalDeps []string,
) error {
	return d.CacheAwarePreInitializeEnvironmentWithRepoInfo(
		cacheDir, version, repoPath, repoURL, additionalDeps, "deno")
}

// SetupEnvironmentWithRepoInfo sets up a Deno environment with repository URL information
func (d *DenoLanguage) SetupEnvironmentWithRepoInfo(
	cacheDir, version, repoPath, repoURL string,
	additionalDeps []string,
) (string, error) {
	return d.SetupEnvironmentWithRepo(cacheDir, version, repoPath, repoURL, additionalDeps)
}

// SetupEnvironmentWithRepo sets up a Deno environment within a repository context.
// Deno has no per-project interpreter install story here (no denoenv
// equivalent in this module); the environment directory instead holds a
// dedicated DENO_DIR so a hook's module cache doesn't leak into the
// user's own.
func (d *DenoLanguage) SetupEnvironmentWithRepo(
	cacheDir, version, repoPath, _ string, // repoURL is unused
	additionalDeps []string,
) (string, error) {
	// cacheDir is the store's content-addressed hook env path; the
	// environment lives there directly rather than nested inside repoPath,
	// which is only relevant to other languages that read manifest files.
	var envPath string
	switch {
	case cacheDir != "":
		envPath = cacheDir
	case repoPath != "":
		envDirName := language.GetRepositoryEnvironmentName("deno", version)
		envPath = filepath.Join(repoPath, envDirName)
	default:
		return "", fmt.Errorf("both repoPath and cacheDir are empty, cannot create Deno environment")
	}

	if d.CheckEnvironmentHealth(envPath) {
		return envPath, nil
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := os.RemoveAll(envPath); err != nil {
			return "", fmt.Errorf("failed to remove broken Deno environment: %w", err)
		}
	}

	if err := d.CreateEnvironmentDirectory(envPath); err != nil {
		return "", fmt.Errorf("failed to create Deno environment directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(envPath, "deno_dir"), 0o750); err != nil {
		return "", fmt.Errorf("failed to create Deno module cache directory: %w", err)
	}

	if len(additionalDeps) > 0 {
		if err := d.InstallDependencies(envPath, additionalDeps); err != nil {
			return "", fmt.Errorf("failed to install Deno dependencies: %w", err)
		}
	}

	return envPath, nil
}

// InstallDependencies caches module specifiers into the environment's
// isolated DENO_DIR via `deno cache`.
func (d *DenoLanguage) InstallDependencies(envPath string, deps []string) error {
	if len(deps) == 0 {
		return nil
	}

	if !d.IsRuntimeAvailable() {
		return fmt.Errorf("deno not found, cannot install dependencies: %s", strings.Join(deps, " "))
	}

	env := d.getDenoEnvVars(envPath)
	args := append([]string{"cache"}, deps...)

	cmd := exec.Command("deno", args...)
	cmd.Env = env
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to cache Deno dependencies: %w\nOutput: %s", err, output)
	}

	return nil
}

// CheckEnvironmentHealth checks if the Deno environment directory and cache exist
func (d *DenoLanguage) CheckEnvironmentHealth(envPath string) bool {
	if _, err := os.Stat(envPath); err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(envPath, "deno_dir")); err != nil {
		return false
	}
	return d.IsRuntimeAvailable()
}

// CheckHealth verifies that the Deno runtime is working correctly
func (d *DenoLanguage) CheckHealth(envPath, _ string) error {
	env := d.getDenoEnvVars(envPath)
	cmd := exec.Command("deno", "--version")
	cmd.Env = env
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("deno runtime not available: %w", err)
	}
	return nil
}

// getDenoEnvVars returns the environment variables used to scope a Deno
// invocation to this hook's module cache.
func (d *DenoLanguage) getDenoEnvVars(envPath string) []string {
	env := git.GetCleanEnvironment()
	env = append(env, fmt.Sprintf("DENO_DIR=%s", filepath.Join(envPath, "deno_dir")))
	return env
}

// IsRuntimeAvailable checks if Deno is available on the system
func (d *DenoLanguage) IsRuntimeAvailable() bool {
	_, err := exec.LookPath("deno")
	return err == nil
}
