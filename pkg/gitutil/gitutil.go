// Package gitutil wraps the git invocations behind the branch helper
// commands: repository detection, branch naming, and checkout.
package gitutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// commandTimeout bounds every git invocation.
const commandTimeout = 5 * time.Second

// Run executes git with the given arguments and returns its trimmed
// stdout.
func Run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", args[0], strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Installed reports whether a git binary is on PATH.
func Installed() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether the working directory is inside a git
// worktree.
func IsRepo(ctx context.Context) bool {
	out, err := Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// RepoName returns the base name of the repository toplevel, falling
// back to the working directory name outside a repo.
func RepoName(ctx context.Context) string {
	if top, err := Run(ctx, "rev-parse", "--show-toplevel"); err == nil && top != "" {
		return filepath.Base(top)
	}

	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Base(wd)
}

// CurrentBranch returns the checked-out branch name.
func CurrentBranch(ctx context.Context) (string, error) {
	return Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// BranchExists reports whether branch resolves to a ref.
func BranchExists(ctx context.Context, branch string) bool {
	_, err := Run(ctx, "rev-parse", "--verify", branch)
	return err == nil
}

// Checkout switches to branch, creating it when it does not exist yet.
// Returns whether the branch was created.
func Checkout(ctx context.Context, branch string) (created bool, err error) {
	if BranchExists(ctx, branch) {
		_, err = Run(ctx, "checkout", branch)
		return false, err
	}
	_, err = Run(ctx, "checkout", "-b", branch)
	return true, err
}

// GenerateBranchName builds "eng-123/kebab-title" from an issue
// identifier and title, for issues without a server-assigned branch
// name. The slug is capped at 50 characters.
func GenerateBranchName(identifier, title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}

	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })
	slug := strings.Join(parts, "-")
	if len(slug) > 50 {
		slug = strings.TrimRight(slug[:50], "-")
	}

	return strings.ToLower(identifier) + "/" + slug
}
