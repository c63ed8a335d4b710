// Package gitops versions a data repository with the git CLI.
package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies who commits data changes.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string) error {
	if _, err := run(ctx, dir, nil, "init", "--quiet"); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// HasChanges reports whether the working tree differs from HEAD.
func HasChanges(ctx context.Context, dir string) (bool, error) {
	out, err := run(ctx, dir, nil, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return strings.TrimSpace(out) != "", nil
}

// CommitAll stages all files and creates a commit as author, who is also
// used as committer. It returns the short commit hash, or "" when there was
// nothing to commit.
func CommitAll(ctx context.Context, dir, message string, author Author) (string, error) {
	if _, err := run(ctx, dir, nil, "add", "-A"); err != nil {
		return "", fmt.Errorf("git add: %w", err)
	}

	changed, err := HasChanges(ctx, dir)
	if err != nil {
		return "", err
	}
	if !changed {
		return "", nil
	}

	env := []string{
		"GIT_AUTHOR_NAME=" + author.Name,
		"GIT_AUTHOR_EMAIL=" + author.Email,
		"GIT_COMMITTER_NAME=" + author.Name,
		"GIT_COMMITTER_EMAIL=" + author.Email,
	}
	if _, err := run(ctx, dir, env, "commit", "--quiet", "-m", message); err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}

	out, err := run(ctx, dir, nil, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func run(ctx context.Context, dir string, env []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}
