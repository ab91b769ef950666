// Package vcs coordinates the git operations of an upgrade and publishes the
// result as a GitHub pull request.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/conn-castle/ladder/internal/messages"
)

// Runner runs git with args in dir and returns trimmed stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct {
	Binary string
}

// lookPath is a seam for tests.
var lookPath = exec.LookPath

// Run executes git and folds stderr into the returned error.
func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "git"
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &CommandError{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// CommandError reports a failed git invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf(messages.VCSCommandFailedFmt, strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf(messages.VCSCommandFailedStderrFmt, strings.Join(e.Args, " "), e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Git drives the repository rooted at Dir.
type Git struct {
	Dir    string
	Runner Runner
	// GitHub publishes pull requests. Nil means pull requests are unavailable.
	GitHub *GitHubClient
}

// NewGit returns a coordinator for dir using the git binary.
func NewGit(dir string, gh *GitHubClient) *Git {
	return &Git{Dir: dir, Runner: ExecRunner{}, GitHub: gh}
}

// failure wraps a failed git invocation in ErrVcsUnavailable, or in the
// context error when ctx stopped the command.
func failure(ctx context.Context, format string, args ...any) error {
	var cause error = ErrVcsUnavailable
	if err := ctx.Err(); err != nil {
		cause = err
	}
	return fmt.Errorf("%w: "+format, append([]any{cause}, args...)...)
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	return g.Runner.Run(ctx, g.Dir, args...)
}

// Available reports whether git is installed and Dir is inside a work tree.
func (g *Git) Available(ctx context.Context) bool {
	if _, ok := g.Runner.(ExecRunner); ok {
		if _, err := lookPath("git"); err != nil {
			return false
		}
	}
	out, err := g.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// HasUncommittedChanges reports whether the work tree has staged, unstaged, or untracked changes.
func (g *Git) HasUncommittedChanges(ctx context.Context) (bool, error) {
	out, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, failure(ctx, "%w", err)
	}
	return out != "", nil
}

// CurrentBranch returns the checked-out branch name.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", failure(ctx, "%w", err)
	}
	return out, nil
}

// BranchExists reports whether a local branch named name exists.
func (g *Git) BranchExists(ctx context.Context, name string) bool {
	_, err := g.run(ctx, "rev-parse", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// CreateBranch creates name from HEAD and checks it out.
func (g *Git) CreateBranch(ctx context.Context, name string) error {
	if g.BranchExists(ctx, name) {
		return fmt.Errorf("%w: %s", ErrBranchExists, name)
	}
	if _, err := g.run(ctx, "checkout", "-b", name); err != nil {
		return failure(ctx, messages.VCSCreateBranchFmt, name, err)
	}
	return nil
}

// StageAll stages every change in the work tree.
func (g *Git) StageAll(ctx context.Context) error {
	if _, err := g.run(ctx, "add", "-A"); err != nil {
		return failure(ctx, messages.VCSStageFmt, err)
	}
	return nil
}

// Commit records the index with message. Empty commits are allowed so every
// step leaves exactly one commit.
func (g *Git) Commit(ctx context.Context, message string) error {
	if _, err := g.run(ctx, "commit", "--allow-empty", "-m", message); err != nil {
		return failure(ctx, messages.VCSCommitFmt, err)
	}
	return nil
}

// Push publishes branch to remote and sets it as upstream.
func (g *Git) Push(ctx context.Context, remote string, branch string) error {
	if _, err := g.run(ctx, "push", "--set-upstream", remote, branch); err != nil {
		return fmt.Errorf(messages.VCSPushFmt, branch, remote, err)
	}
	return nil
}

// RemoteURL returns the fetch URL of remote.
func (g *Git) RemoteURL(ctx context.Context, remote string) (string, error) {
	out, err := g.run(ctx, "remote", "get-url", remote)
	if err != nil || out == "" {
		return "", fmt.Errorf("%w: %s", ErrNoRemote, remote)
	}
	return out, nil
}

// PROptions describes a pull request to open.
type PROptions struct {
	Remote string
	Title  string
	Body   string
	Head   string
	Base   string
}

// CreatePullRequest resolves the repository from opts.Remote and opens a pull request.
func (g *Git) CreatePullRequest(ctx context.Context, opts PROptions) (*PullRequest, error) {
	if g.GitHub == nil || g.GitHub.Token == "" {
		return nil, ErrMissingCredential
	}
	url, err := g.RemoteURL(ctx, opts.Remote)
	if err != nil {
		return nil, err
	}
	repo, err := ParseRepository(url)
	if err != nil {
		return nil, err
	}
	return g.GitHub.CreatePullRequest(ctx, repo, NewPullRequest{
		Title: opts.Title,
		Body:  opts.Body,
		Head:  opts.Head,
		Base:  opts.Base,
	})
}

// IsCommandError reports whether err came from a failed git invocation.
func IsCommandError(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}
